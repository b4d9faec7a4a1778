package cart

import (
	"errors"

	"github.com/fastygo/cart/usecase"
)

// Register wires every cart command and query handler into d.
func Register(d *usecase.Dispatcher, carts *Service, defaultCurrency string) error {
	return errors.Join(
		usecase.Register[AddProductToCart, usecase.Result[bool]](d, NewAddProductToCartHandler(carts)),
		usecase.Register[RemoveProductFromCart, usecase.Result[bool]](d, NewRemoveProductFromCartHandler(carts)),
		usecase.Register[UpdateCartProductQuantity, usecase.Result[bool]](d, NewUpdateCartProductQuantityHandler(carts)),
		usecase.Register[ClearCart, usecase.Result[bool]](d, NewClearCartHandler(carts)),
		usecase.Register[DeleteCart, usecase.Result[bool]](d, NewDeleteCartHandler(carts)),
		usecase.Register[GetCart, CartDto](d, NewGetCartHandler(carts, defaultCurrency)),
		usecase.Register[GetCartSummary, CartSummaryDto](d, NewGetCartSummaryHandler(carts, defaultCurrency)),
	)
}
