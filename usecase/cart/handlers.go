package cart

import (
	"context"
	"strings"

	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/usecase"
)

// Failure messages are shown to end users as-is.
const (
	MsgCartIDRequired    = "cart id is required"
	MsgCartRequired      = "cart is required"
	MsgProductIDRequired = "product id is required"
	MsgQuantityPositive  = "quantity must be greater than zero"
	MsgProductNotFound   = "product not found"
	MsgCartNotFound      = "cart not found"
)

func blank(s string) bool { return strings.TrimSpace(s) == "" }

type AddProductToCartHandler struct {
	carts *Service
}

func NewAddProductToCartHandler(carts *Service) *AddProductToCartHandler {
	return &AddProductToCartHandler{carts: carts}
}

func (h *AddProductToCartHandler) Handle(ctx context.Context, cmd AddProductToCart) (usecase.Result[bool], error) {
	switch {
	case blank(cmd.CartID):
		return usecase.Failure[bool](MsgCartIDRequired), nil
	case blank(cmd.ProductID):
		return usecase.Failure[bool](MsgProductIDRequired), nil
	case cmd.Quantity <= 0:
		return usecase.Failure[bool](MsgQuantityPositive), nil
	}
	return h.carts.AddProduct(ctx, cmd)
}

type RemoveProductFromCartHandler struct {
	carts *Service
}

func NewRemoveProductFromCartHandler(carts *Service) *RemoveProductFromCartHandler {
	return &RemoveProductFromCartHandler{carts: carts}
}

func (h *RemoveProductFromCartHandler) Handle(ctx context.Context, cmd RemoveProductFromCart) (usecase.Result[bool], error) {
	switch {
	case blank(cmd.CartID):
		return usecase.Failure[bool](MsgCartIDRequired), nil
	case blank(cmd.ProductID):
		return usecase.Failure[bool](MsgProductIDRequired), nil
	}
	return h.carts.RemoveProduct(ctx, cmd.CartID, cmd.ProductID)
}

type UpdateCartProductQuantityHandler struct {
	carts *Service
}

func NewUpdateCartProductQuantityHandler(carts *Service) *UpdateCartProductQuantityHandler {
	return &UpdateCartProductQuantityHandler{carts: carts}
}

// Handle mutates the already loaded cart and stores it. Unlike Cart.UpdateQuantity,
// a non-positive quantity is rejected here; removal goes through RemoveProductFromCart.
func (h *UpdateCartProductQuantityHandler) Handle(ctx context.Context, cmd UpdateCartProductQuantity) (usecase.Result[bool], error) {
	switch {
	case cmd.cart == nil:
		return usecase.Failure[bool](MsgCartRequired), nil
	case blank(cmd.productID):
		return usecase.Failure[bool](MsgProductIDRequired), nil
	case cmd.quantity <= 0:
		return usecase.Failure[bool](MsgQuantityPositive), nil
	}

	updated, err := cmd.cart.UpdateQuantity(cmd.productID, cmd.quantity)
	if err != nil {
		return usecase.FailureFrom[bool](err), nil
	}
	if !updated {
		return usecase.Failure[bool](MsgProductNotFound), nil
	}
	if err := h.carts.Store(ctx, cmd.cart); err != nil {
		return usecase.Result[bool]{}, err
	}
	return usecase.Success(true), nil
}

type ClearCartHandler struct {
	carts *Service
}

func NewClearCartHandler(carts *Service) *ClearCartHandler {
	return &ClearCartHandler{carts: carts}
}

func (h *ClearCartHandler) Handle(ctx context.Context, cmd ClearCart) (usecase.Result[bool], error) {
	if blank(cmd.CartID) {
		return usecase.Failure[bool](MsgCartIDRequired), nil
	}
	return h.carts.Clear(ctx, cmd.CartID)
}

type DeleteCartHandler struct {
	carts *Service
}

func NewDeleteCartHandler(carts *Service) *DeleteCartHandler {
	return &DeleteCartHandler{carts: carts}
}

func (h *DeleteCartHandler) Handle(ctx context.Context, cmd DeleteCart) (usecase.Result[bool], error) {
	if blank(cmd.CartID) {
		return usecase.Failure[bool](MsgCartIDRequired), nil
	}
	return h.carts.Delete(ctx, cmd.CartID)
}

// GetCartHandler never returns a nil projection; unknown carts project as empty.
type GetCartHandler struct {
	carts    *Service
	currency string
}

func NewGetCartHandler(carts *Service, defaultCurrency string) *GetCartHandler {
	return &GetCartHandler{carts: carts, currency: defaultCurrency}
}

func (h *GetCartHandler) Handle(ctx context.Context, q GetCart) (CartDto, error) {
	cart, err := resolve(ctx, h.carts, q.Cart, q.CartID)
	if err != nil {
		return CartDto{}, err
	}
	if cart == nil {
		return EmptyCartDto(q.CartID, h.currency), nil
	}
	return NewCartDto(cart, h.currency)
}

type GetCartSummaryHandler struct {
	carts    *Service
	currency string
}

func NewGetCartSummaryHandler(carts *Service, defaultCurrency string) *GetCartSummaryHandler {
	return &GetCartSummaryHandler{carts: carts, currency: defaultCurrency}
}

func (h *GetCartSummaryHandler) Handle(ctx context.Context, q GetCartSummary) (CartSummaryDto, error) {
	cart, err := resolve(ctx, h.carts, q.Cart, q.CartID)
	if err != nil {
		return CartSummaryDto{}, err
	}
	if cart == nil {
		return EmptyCartSummaryDto(q.CartID, h.currency), nil
	}
	return NewCartSummaryDto(cart, h.currency)
}

func resolve(ctx context.Context, carts *Service, preloaded *domain.Cart, cartID string) (*domain.Cart, error) {
	if preloaded != nil {
		return preloaded, nil
	}
	if blank(cartID) {
		return nil, nil
	}
	return carts.Find(ctx, cartID)
}
