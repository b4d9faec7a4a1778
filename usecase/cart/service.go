package cart

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/repository"
	"github.com/fastygo/cart/usecase"
)

const defaultMaxAttempts = 3

// Service runs the load-mutate-store cycle for carts and forwards drained events to the outbox.
type Service struct {
	carts       repository.CartRepository
	outbox      usecase.EventOutbox
	logger      *zap.Logger
	maxAttempts int
}

func NewService(carts repository.CartRepository, outbox usecase.EventOutbox, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		carts:       carts,
		outbox:      outbox,
		logger:      logger,
		maxAttempts: defaultMaxAttempts,
	}
}

// Find loads a cart, returning nil when it does not exist.
func (s *Service) Find(ctx context.Context, cartID string) (*domain.Cart, error) {
	cart, err := s.carts.Load(ctx, cartID)
	if err != nil {
		if errors.Is(err, domain.ErrCartNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return cart, nil
}

// Store saves the cart and then hands its drained events to the outbox. Once the save
// succeeded an outbox failure only loses the events, so it is logged and not returned.
func (s *Service) Store(ctx context.Context, cart *domain.Cart) error {
	if err := s.carts.Save(ctx, cart); err != nil {
		return err
	}
	events := cart.DrainEvents()
	if len(events) == 0 || s.outbox == nil {
		return nil
	}
	if err := s.outbox.Enqueue(ctx, events); err != nil {
		ids := make([]string, 0, len(events))
		for _, e := range events {
			ids = append(ids, e.EventID())
		}
		s.logger.Error("cart saved but events were not enqueued",
			zap.String("cart_id", cart.ID()),
			zap.Int("version", cart.Version()),
			zap.Strings("event_ids", ids),
			zap.Error(err))
	}
	return nil
}

func (s *Service) AddProduct(ctx context.Context, cmd AddProductToCart) (usecase.Result[bool], error) {
	return s.mutate(ctx, cmd.CartID, true, func(c *domain.Cart) error {
		return c.AddProduct(cmd.ProductID, cmd.ProductName, cmd.UnitPrice, cmd.Quantity)
	})
}

func (s *Service) RemoveProduct(ctx context.Context, cartID, productID string) (usecase.Result[bool], error) {
	return s.mutate(ctx, cartID, false, func(c *domain.Cart) error {
		return c.RemoveProduct(productID)
	})
}

func (s *Service) Clear(ctx context.Context, cartID string) (usecase.Result[bool], error) {
	return s.mutate(ctx, cartID, false, func(c *domain.Cart) error {
		c.Clear()
		return nil
	})
}

func (s *Service) Delete(ctx context.Context, cartID string) (usecase.Result[bool], error) {
	exists, err := s.carts.Exists(ctx, cartID)
	if err != nil {
		return usecase.Result[bool]{}, err
	}
	if !exists {
		return usecase.Failure[bool](MsgCartNotFound), nil
	}
	if err := s.carts.Delete(ctx, cartID); err != nil {
		return usecase.Result[bool]{}, err
	}
	return usecase.Success(true), nil
}

// mutate retries the whole cycle when a concurrent writer bumped the stored version.
func (s *Service) mutate(ctx context.Context, cartID string, create bool, apply func(*domain.Cart) error) (usecase.Result[bool], error) {
	for attempt := 1; ; attempt++ {
		cart, err := s.Find(ctx, cartID)
		if err != nil {
			return usecase.Result[bool]{}, err
		}
		if cart == nil {
			if !create {
				return usecase.Failure[bool](MsgCartNotFound), nil
			}
			if cart, err = domain.NewCart(cartID); err != nil {
				return usecase.FailureFrom[bool](err), nil
			}
		}

		if err := apply(cart); err != nil {
			var dErr *domain.Error
			if errors.As(err, &dErr) {
				return usecase.FailureFrom[bool](err), nil
			}
			return usecase.Result[bool]{}, err
		}

		err = s.Store(ctx, cart)
		if errors.Is(err, domain.ErrCartVersionConflict) && attempt < s.maxAttempts {
			s.logger.Warn("cart version conflict, retrying",
				zap.String("cart_id", cartID),
				zap.Int("attempt", attempt))
			continue
		}
		if err != nil {
			return usecase.Result[bool]{}, err
		}
		return usecase.Success(true), nil
	}
}
