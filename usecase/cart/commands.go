package cart

import (
	"github.com/fastygo/cart/domain"
)

// Request names are stable identifiers used for routing and logging.
const (
	NameAddProductToCart          = "AddProductToCart"
	NameRemoveProductFromCart     = "RemoveProductFromCart"
	NameUpdateCartProductQuantity = "UpdateCartProductQuantity"
	NameClearCart                 = "ClearCart"
	NameDeleteCart                = "DeleteCart"
	NameGetCart                   = "GetCart"
	NameGetCartSummary            = "GetCartSummary"
)

// AddProductToCart adds quantity units of a product, creating the cart if needed.
type AddProductToCart struct {
	CartID      string
	ProductID   string
	ProductName string
	UnitPrice   domain.Money
	Quantity    int
}

func (AddProductToCart) RequestName() string { return NameAddProductToCart }

type RemoveProductFromCart struct {
	CartID    string
	ProductID string
}

func (RemoveProductFromCart) RequestName() string { return NameRemoveProductFromCart }

// UpdateCartProductQuantity operates on a cart the caller already loaded.
// Build it with NewUpdateCartProductQuantity.
type UpdateCartProductQuantity struct {
	cart      *domain.Cart
	productID string
	quantity  int
}

// NewUpdateCartProductQuantity rejects a nil cart.
func NewUpdateCartProductQuantity(cart *domain.Cart, productID string, quantity int) (UpdateCartProductQuantity, error) {
	if cart == nil {
		return UpdateCartProductQuantity{}, domain.NewError(domain.ErrCodeInvalid, MsgCartRequired)
	}
	return UpdateCartProductQuantity{cart: cart, productID: productID, quantity: quantity}, nil
}

func (UpdateCartProductQuantity) RequestName() string { return NameUpdateCartProductQuantity }

func (c UpdateCartProductQuantity) Cart() *domain.Cart { return c.cart }
func (c UpdateCartProductQuantity) ProductID() string  { return c.productID }
func (c UpdateCartProductQuantity) Quantity() int      { return c.quantity }

type ClearCart struct {
	CartID string
}

func (ClearCart) RequestName() string { return NameClearCart }

// DeleteCart removes the stored cart entirely.
type DeleteCart struct {
	CartID string
}

func (DeleteCart) RequestName() string { return NameDeleteCart }

// GetCart projects a cart. Cart, when set, is used instead of loading CartID.
type GetCart struct {
	CartID string
	Cart   *domain.Cart
}

func (GetCart) RequestName() string { return NameGetCart }

type GetCartSummary struct {
	CartID string
	Cart   *domain.Cart
}

func (GetCartSummary) RequestName() string { return NameGetCartSummary }
