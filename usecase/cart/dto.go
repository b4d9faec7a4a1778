package cart

import (
	"time"

	"github.com/fastygo/cart/domain"
)

type CartProductDto struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   domain.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
}

// CartDto is a read projection of a Cart.
type CartDto struct {
	CartID        string           `json:"cart_id"`
	Products      []CartProductDto `json:"products"`
	TotalPrice    domain.Money     `json:"total_price"`
	TotalProducts int              `json:"total_products"`
	LastUpdated   time.Time        `json:"last_updated"`
}

type CartSummaryDto struct {
	CartID       string       `json:"cart_id"`
	ProductCount int          `json:"product_count"`
	TotalPrice   domain.Money `json:"total_price"`
}

// EmptyCartDto is returned for carts that do not exist yet.
func EmptyCartDto(cartID, currency string) CartDto {
	return CartDto{
		CartID:      cartID,
		Products:    []CartProductDto{},
		TotalPrice:  domain.Zero(currency),
		LastUpdated: time.Now(),
	}
}

func EmptyCartSummaryDto(cartID, currency string) CartSummaryDto {
	return CartSummaryDto{CartID: cartID, TotalPrice: domain.Zero(currency)}
}

// NewCartDto fails only when the cart mixes currencies.
func NewCartDto(cart *domain.Cart, currency string) (CartDto, error) {
	total, err := cartTotal(cart, currency)
	if err != nil {
		return CartDto{}, err
	}
	lines := cart.Lines()
	products := make([]CartProductDto, 0, len(lines))
	for _, l := range lines {
		products = append(products, CartProductDto{
			ProductID:   l.ProductID(),
			ProductName: l.ProductName(),
			UnitPrice:   l.UnitPrice(),
			Quantity:    l.Quantity(),
		})
	}
	return CartDto{
		CartID:        cart.ID(),
		Products:      products,
		TotalPrice:    total,
		TotalProducts: cart.ItemCount(),
		LastUpdated:   cart.LastUpdated(),
	}, nil
}

func NewCartSummaryDto(cart *domain.Cart, currency string) (CartSummaryDto, error) {
	total, err := cartTotal(cart, currency)
	if err != nil {
		return CartSummaryDto{}, err
	}
	return CartSummaryDto{
		CartID:       cart.ID(),
		ProductCount: cart.ItemCount(),
		TotalPrice:   total,
	}, nil
}

func cartTotal(cart *domain.Cart, currency string) (domain.Money, error) {
	if cart.IsEmpty() {
		return domain.Zero(currency), nil
	}
	return cart.CalculateTotal()
}
