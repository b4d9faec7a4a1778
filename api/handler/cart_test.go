package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/cart/api/transport"
	"github.com/fastygo/cart/domain"
	"github.com/fastygo/cart/pkg/httpcontext"
	"github.com/fastygo/cart/repository/memory"
	"github.com/fastygo/cart/usecase"
	cartUC "github.com/fastygo/cart/usecase/cart"
)

type staticIssuer struct {
	token string
	err   error
}

func (s staticIssuer) Issue(string) (string, error) { return s.token, s.err }

type decoded struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  string          `json:"error"`
}

func newTestHandler(t *testing.T, tokens TokenIssuer) *CartHandler {
	t.Helper()
	svc := cartUC.NewService(memory.NewCartRepository(), memory.NewOutbox(), nil)
	d := usecase.NewDispatcher()
	require.NoError(t, cartUC.Register(d, svc, "SEK"))
	return NewCartHandler(d, svc, tokens, httpcontext.NewAdapter(0), nil)
}

func call(h fasthttp.RequestHandler, cartID, productID, body string) (*fasthttp.RequestCtx, decoded) {
	var rc fasthttp.RequestCtx
	if cartID != "" {
		rc.SetUserValue("id", cartID)
	}
	if productID != "" {
		rc.SetUserValue("productId", productID)
	}
	if body != "" {
		rc.Request.SetBodyString(body)
	}
	h(&rc)
	var out decoded
	_ = json.Unmarshal(rc.Response.Body(), &out)
	return &rc, out
}

const widget = `{"product_id":"p1","product_name":"Widget","unit_price":{"amount":"19.99","currency":"SEK"},"quantity":2}`

func TestCartHandler_CreateCart(t *testing.T) {
	h := newTestHandler(t, staticIssuer{token: "tok"})

	rc, out := call(h.CreateCart, "", "", "")
	assert.Equal(t, http.StatusCreated, rc.Response.StatusCode())

	var resp transport.CreateCartResponse
	require.NoError(t, json.Unmarshal(out.Data, &resp))
	assert.NotEmpty(t, resp.CartID)
	assert.Equal(t, "tok", resp.Token)
	_, err := domain.NewCart(resp.CartID)
	assert.NoError(t, err)

	failing := newTestHandler(t, staticIssuer{err: errors.New("signing failed")})
	rc, _ = call(failing.CreateCart, "", "", "")
	assert.Equal(t, http.StatusInternalServerError, rc.Response.StatusCode())
}

func TestCartHandler_AddThenGet(t *testing.T) {
	h := newTestHandler(t, nil)

	rc, out := call(h.AddProduct, "cart-1", "", widget)
	require.Equal(t, http.StatusOK, rc.Response.StatusCode(), string(rc.Response.Body()))
	assert.Equal(t, "success", out.Status)
	assert.NotEmpty(t, rc.Response.Header.Peek("X-Request-ID"))

	rc, out = call(h.GetCart, "cart-1", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	var dto cartUC.CartDto
	require.NoError(t, json.Unmarshal(out.Data, &dto))
	assert.Equal(t, "cart-1", dto.CartID)
	assert.Equal(t, 2, dto.TotalProducts)
	require.Len(t, dto.Products, 1)
	assert.Equal(t, "39.98 SEK", dto.TotalPrice.String())

	rc, out = call(h.GetSummary, "cart-1", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	var summary cartUC.CartSummaryDto
	require.NoError(t, json.Unmarshal(out.Data, &summary))
	assert.Equal(t, 2, summary.ProductCount)
}

func TestCartHandler_GetUnknownCartIsEmpty(t *testing.T) {
	h := newTestHandler(t, nil)

	rc, out := call(h.GetCart, "ghost", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	var dto cartUC.CartDto
	require.NoError(t, json.Unmarshal(out.Data, &dto))
	assert.Empty(t, dto.Products)
	assert.Equal(t, "SEK", dto.TotalPrice.Currency())
}

func TestCartHandler_BusinessFailuresAre422(t *testing.T) {
	h := newTestHandler(t, nil)

	rc, out := call(h.AddProduct, "cart-1", "", `{"product_id":"p1","product_name":"Widget","unit_price":{"amount":"1","currency":"SEK"},"quantity":0}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rc.Response.StatusCode())
	assert.Equal(t, transport.CodeBusinessRule, out.Code)
	assert.Equal(t, cartUC.MsgQuantityPositive, out.Error)

	rc, out = call(h.RemoveProduct, "ghost", "p1", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rc.Response.StatusCode())
	assert.Equal(t, cartUC.MsgCartNotFound, out.Error)

	rc, out = call(h.DeleteCart, "ghost", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rc.Response.StatusCode())
	assert.Equal(t, cartUC.MsgCartNotFound, out.Error)
}

func TestCartHandler_InvalidPayload(t *testing.T) {
	h := newTestHandler(t, nil)

	rc, out := call(h.AddProduct, "cart-1", "", `{"unit_price":{"amount":"-1","currency":"SEK"}}`)
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
	assert.Equal(t, string(domain.ErrCodeInvalid), out.Code)

	rc, _ = call(h.UpdateQuantity, "cart-1", "p1", `not json`)
	assert.Equal(t, http.StatusBadRequest, rc.Response.StatusCode())
}

func TestCartHandler_UpdateQuantity(t *testing.T) {
	h := newTestHandler(t, nil)

	rc, out := call(h.UpdateQuantity, "cart-1", "p1", `{"quantity":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rc.Response.StatusCode())
	assert.Equal(t, cartUC.MsgCartNotFound, out.Error)

	call(h.AddProduct, "cart-1", "", widget)

	rc, out = call(h.UpdateQuantity, "cart-1", "p9", `{"quantity":3}`)
	assert.Equal(t, http.StatusUnprocessableEntity, rc.Response.StatusCode())
	assert.Equal(t, cartUC.MsgProductNotFound, out.Error)

	rc, _ = call(h.UpdateQuantity, "cart-1", "p1", `{"quantity":5}`)
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())

	_, out = call(h.GetSummary, "cart-1", "", "")
	var summary cartUC.CartSummaryDto
	require.NoError(t, json.Unmarshal(out.Data, &summary))
	assert.Equal(t, 5, summary.ProductCount)
}

func TestCartHandler_ClearAndDelete(t *testing.T) {
	h := newTestHandler(t, nil)
	call(h.AddProduct, "cart-1", "", widget)

	rc, _ := call(h.ClearCart, "cart-1", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())

	_, out := call(h.GetCart, "cart-1", "", "")
	var dto cartUC.CartDto
	require.NoError(t, json.Unmarshal(out.Data, &dto))
	assert.Empty(t, dto.Products)

	rc, _ = call(h.DeleteCart, "cart-1", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	rc, _ = call(h.DeleteCart, "cart-1", "", "")
	assert.Equal(t, http.StatusUnprocessableEntity, rc.Response.StatusCode())
}

func TestMapError(t *testing.T) {
	cases := map[error]int{
		domain.ErrCartVersionConflict:   http.StatusConflict,
		domain.ErrCurrencyMismatch:      http.StatusUnprocessableEntity,
		domain.ErrCartNotFound:          http.StatusNotFound,
		domain.ErrUnauthorized:          http.StatusUnauthorized,
		usecase.ErrHandlerNotRegistered: http.StatusInternalServerError,
	}
	for err, want := range cases {
		status, _ := mapError(err)
		assert.Equal(t, want, status, err.Error())
	}
}
