package router

import (
	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/cart/api/handler"
)

type Handlers struct {
	Cart   *apiHandler.CartHandler
	Health *apiHandler.HealthHandler
}

// New builds the route table. cartGuard wraps every route addressing an existing cart id.
func New(handlers Handlers, cartGuard func(fasthttp.RequestHandler) fasthttp.RequestHandler) *router.Router {
	if cartGuard == nil {
		cartGuard = func(next fasthttp.RequestHandler) fasthttp.RequestHandler { return next }
	}
	r := router.New()

	r.GET("/health", handlers.Health.Check)

	r.POST("/api/v1/carts", handlers.Cart.CreateCart)

	const cart = "/api/v1/carts/{id}"
	r.GET(cart, cartGuard(handlers.Cart.GetCart))
	r.DELETE(cart, cartGuard(handlers.Cart.DeleteCart))
	r.GET(cart+"/summary", cartGuard(handlers.Cart.GetSummary))
	r.POST(cart+"/products", cartGuard(handlers.Cart.AddProduct))
	r.DELETE(cart+"/products", cartGuard(handlers.Cart.ClearCart))
	r.PUT(cart+"/products/{productId}", cartGuard(handlers.Cart.UpdateQuantity))
	r.DELETE(cart+"/products/{productId}", cartGuard(handlers.Cart.RemoveProduct))

	return r
}
