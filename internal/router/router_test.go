package router

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	apiHandler "github.com/fastygo/cart/api/handler"
	"github.com/fastygo/cart/internal/infrastructure/monitor"
	"github.com/fastygo/cart/internal/middleware"
	"github.com/fastygo/cart/repository/memory"
	"github.com/fastygo/cart/usecase"
	cartUC "github.com/fastygo/cart/usecase/cart"
)

func newTestRouter(t *testing.T, tokens *middleware.CartTokens) fasthttp.RequestHandler {
	t.Helper()
	svc := cartUC.NewService(memory.NewCartRepository(), memory.NewOutbox(), nil)
	d := usecase.NewDispatcher()
	require.NoError(t, cartUC.Register(d, svc, "SEK"))

	mon := monitor.New(nil, time.Minute, nil)
	mon.Refresh()

	r := New(Handlers{
		Cart:   apiHandler.NewCartHandler(d, svc, tokens, nil, nil),
		Health: apiHandler.NewHealthHandler(mon, nil, nil),
	}, middleware.CartGuard(tokens, nil))
	return r.Handler
}

func do(h fasthttp.RequestHandler, method, path, token, body string) *fasthttp.RequestCtx {
	var rc fasthttp.RequestCtx
	rc.Request.Header.SetMethod(method)
	rc.Request.SetRequestURI(path)
	if token != "" {
		rc.Request.Header.Set("Authorization", "Bearer "+token)
	}
	if body != "" {
		rc.Request.SetBodyString(body)
	}
	h(&rc)
	return &rc
}

func mint(t *testing.T, h fasthttp.RequestHandler) (string, string) {
	t.Helper()
	rc := do(h, http.MethodPost, "/api/v1/carts", "", "")
	require.Equal(t, http.StatusCreated, rc.Response.StatusCode())
	var out struct {
		Data struct {
			CartID string `json:"cart_id"`
			Token  string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rc.Response.Body(), &out))
	return out.Data.CartID, out.Data.Token
}

func TestRouter_CartLifecycle(t *testing.T) {
	h := newTestRouter(t, middleware.NewCartTokens("", "", 0))
	id, token := mint(t, h)
	assert.Empty(t, token)

	base := "/api/v1/carts/" + id
	body := `{"product_id":"p1","product_name":"Widget","unit_price":{"amount":"10","currency":"SEK"},"quantity":1}`

	assert.Equal(t, http.StatusOK, do(h, http.MethodPost, base+"/products", "", body).Response.StatusCode())
	assert.Equal(t, http.StatusOK, do(h, http.MethodPut, base+"/products/p1", "", `{"quantity":4}`).Response.StatusCode())

	rc := do(h, http.MethodGet, base+"/summary", "", "")
	require.Equal(t, http.StatusOK, rc.Response.StatusCode())
	assert.Contains(t, string(rc.Response.Body()), `"product_count":4`)

	assert.Equal(t, http.StatusOK, do(h, http.MethodDelete, base+"/products/p1", "", "").Response.StatusCode())
	assert.Equal(t, http.StatusOK, do(h, http.MethodDelete, base+"/products", "", "").Response.StatusCode())
	assert.Equal(t, http.StatusOK, do(h, http.MethodDelete, base, "", "").Response.StatusCode())
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, base, "", "").Response.StatusCode())
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/health", "", "").Response.StatusCode())
}

func TestRouter_TokenGuard(t *testing.T) {
	h := newTestRouter(t, middleware.NewCartTokens("s3cret", "cart-service", time.Hour))
	id, token := mint(t, h)
	require.NotEmpty(t, token)
	other, _ := mint(t, h)

	assert.Equal(t, http.StatusUnauthorized, do(h, http.MethodGet, "/api/v1/carts/"+id, "", "").Response.StatusCode())
	assert.Equal(t, http.StatusForbidden, do(h, http.MethodGet, "/api/v1/carts/"+other, token, "").Response.StatusCode())
	assert.Equal(t, http.StatusOK, do(h, http.MethodGet, "/api/v1/carts/"+id, token, "").Response.StatusCode())
}
