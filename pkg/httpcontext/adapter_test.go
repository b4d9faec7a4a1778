package httpcontext

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	appLogger "github.com/fastygo/cart/pkg/logger"
)

func TestAttach_PropagatesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("X-Request-ID", "req-42")
	rc.Request.Header.SetUserAgent("tests")
	rc.SetUserValue("id", "cart-1")

	ctx, cancel := NewAdapter(time.Second).Attach(&rc)
	defer cancel()

	assert.Equal(t, "req-42", appLogger.RequestID(ctx))
	assert.Equal(t, "req-42", string(rc.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "tests", ctx.Value(KeyUserAgent))
	_, hasDeadline := ctx.Deadline()
	assert.True(t, hasDeadline)
}

func TestAttach_MintsRequestID(t *testing.T) {
	for _, header := range []string{"", "has space", strings.Repeat("x", 65)} {
		var rc fasthttp.RequestCtx
		if header != "" {
			rc.Request.Header.Set("X-Request-ID", header)
		}

		ctx, cancel := NewAdapter(0).Attach(&rc)
		_, err := uuid.Parse(appLogger.RequestID(ctx))
		assert.NoError(t, err, "header %q", header)
		cancel()
	}
}
