package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/cart/api/transport"
	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/pkg/httpcontext"
	"github.com/fastygo/cart/usecase"
	cartUC "github.com/fastygo/cart/usecase/cart"
)

// TokenIssuer mints the bearer token returned with a new cart id.
type TokenIssuer interface {
	Issue(cartID string) (string, error)
}

// CartHandler translates HTTP calls into dispatcher requests.
type CartHandler struct {
	baseHandler
	dispatcher *usecase.Dispatcher
	carts      *cartUC.Service
	tokens     TokenIssuer
}

func NewCartHandler(
	dispatcher *usecase.Dispatcher,
	carts *cartUC.Service,
	tokens TokenIssuer,
	adapter *httpcontext.Adapter,
	logger *zap.Logger,
) *CartHandler {
	return &CartHandler{
		baseHandler: newBaseHandler(adapter, logger),
		dispatcher:  dispatcher,
		carts:       carts,
		tokens:      tokens,
	}
}

// @Summary Mint a cart id
// @Tags carts
// @Router /api/v1/carts [post]
func (h *CartHandler) CreateCart(ctx *fasthttp.RequestCtx) {
	resp := transport.CreateCartResponse{CartID: domain.NewCartID()}
	if h.tokens != nil {
		token, err := h.tokens.Issue(resp.CartID)
		if err != nil {
			h.respondError(ctx, err)
			return
		}
		resp.Token = token
	}
	h.respondSuccess(ctx, http.StatusCreated, resp)
}

// @Summary Get cart
// @Tags carts
// @Router /api/v1/carts/{id} [get]
func (h *CartHandler) GetCart(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	dto, err := usecase.Send[cartUC.CartDto](stdCtx, h.dispatcher, cartUC.GetCart{CartID: cartID(ctx)})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, dto)
}

// @Summary Get cart summary
// @Tags carts
// @Router /api/v1/carts/{id}/summary [get]
func (h *CartHandler) GetSummary(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	dto, err := usecase.Send[cartUC.CartSummaryDto](stdCtx, h.dispatcher, cartUC.GetCartSummary{CartID: cartID(ctx)})
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, dto)
}

// @Summary Add product
// @Tags carts
// @Router /api/v1/carts/{id}/products [post]
func (h *CartHandler) AddProduct(ctx *fasthttp.RequestCtx) {
	var req transport.AddProductRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	h.send(ctx, http.StatusOK, cartUC.AddProductToCart{
		CartID:      cartID(ctx),
		ProductID:   req.ProductID,
		ProductName: req.ProductName,
		UnitPrice:   req.UnitPrice,
		Quantity:    req.Quantity,
	})
}

// @Summary Update product quantity
// @Tags carts
// @Router /api/v1/carts/{id}/products/{productId} [put]
func (h *CartHandler) UpdateQuantity(ctx *fasthttp.RequestCtx) {
	var req transport.UpdateQuantityRequest
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		h.respondInvalid(ctx, "invalid payload")
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	cart, err := h.carts.Find(stdCtx, cartID(ctx))
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	if cart == nil {
		h.respondResult(ctx, http.StatusOK, usecase.Failure[bool](cartUC.MsgCartNotFound))
		return
	}
	cmd, err := cartUC.NewUpdateCartProductQuantity(cart, productID(ctx), req.Quantity)
	if err != nil {
		h.respondError(ctx, err)
		return
	}

	result, err := usecase.Send[usecase.Result[bool]](stdCtx, h.dispatcher, cmd)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondResult(ctx, http.StatusOK, result)
}

// @Summary Remove product
// @Tags carts
// @Router /api/v1/carts/{id}/products/{productId} [delete]
func (h *CartHandler) RemoveProduct(ctx *fasthttp.RequestCtx) {
	h.send(ctx, http.StatusOK, cartUC.RemoveProductFromCart{CartID: cartID(ctx), ProductID: productID(ctx)})
}

// @Summary Clear cart
// @Tags carts
// @Router /api/v1/carts/{id}/products [delete]
func (h *CartHandler) ClearCart(ctx *fasthttp.RequestCtx) {
	h.send(ctx, http.StatusOK, cartUC.ClearCart{CartID: cartID(ctx)})
}

// @Summary Delete cart
// @Tags carts
// @Router /api/v1/carts/{id} [delete]
func (h *CartHandler) DeleteCart(ctx *fasthttp.RequestCtx) {
	h.send(ctx, http.StatusOK, cartUC.DeleteCart{CartID: cartID(ctx)})
}

func (h *CartHandler) send(ctx *fasthttp.RequestCtx, status int, cmd usecase.Request) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	result, err := usecase.Send[usecase.Result[bool]](stdCtx, h.dispatcher, cmd)
	if err != nil {
		h.respondError(ctx, err)
		return
	}
	h.respondResult(ctx, status, result)
}

func cartID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("id").(string)
	return id
}

func productID(ctx *fasthttp.RequestCtx) string {
	id, _ := ctx.UserValue("productId").(string)
	return id
}
