package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CartLine is one product entry in a Cart. Lines are created and mutated only by their owning Cart.
type CartLine struct {
	productID   string
	productName string
	unitPrice   Money
	quantity    int
}

func newCartLine(productID, productName string, unitPrice Money, quantity int) (*CartLine, error) {
	if strings.TrimSpace(productID) == "" {
		return nil, invalidf("product id is required")
	}
	if strings.TrimSpace(productName) == "" {
		return nil, invalidf("product name is required")
	}
	if unitPrice.currency == "" {
		return nil, invalidf("unit price is required")
	}
	if quantity <= 0 {
		return nil, invalidf("quantity must be greater than zero")
	}
	return &CartLine{
		productID:   productID,
		productName: productName,
		unitPrice:   unitPrice,
		quantity:    quantity,
	}, nil
}

func (l *CartLine) updateQuantity(quantity int) error {
	if quantity <= 0 {
		return invalidf("quantity must be greater than zero")
	}
	l.quantity = quantity
	return nil
}

func (l CartLine) ProductID() string { return l.productID }

func (l CartLine) ProductName() string { return l.productName }

func (l CartLine) UnitPrice() Money { return l.unitPrice }

func (l CartLine) Quantity() int { return l.quantity }

// TotalPrice is unit price times quantity; it is derived on every call.
func (l CartLine) TotalPrice() Money {
	total, _ := l.unitPrice.Multiply(decimal.NewFromInt(int64(l.quantity)))
	return total
}
