package transport

import "github.com/fastygo/cart/domain"

type AddProductRequest struct {
	ProductID   string       `json:"product_id"`
	ProductName string       `json:"product_name"`
	UnitPrice   domain.Money `json:"unit_price"`
	Quantity    int          `json:"quantity"`
}

type UpdateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// CreateCartResponse carries a freshly minted cart id and, when tokens are enabled, its bearer token.
type CreateCartResponse struct {
	CartID string `json:"cart_id"`
	Token  string `json:"token,omitempty"`
}
