package handler

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/cart/internal/infrastructure/monitor"
)

type fixedStatus monitor.Status

func (f fixedStatus) GetStatus() monitor.Status { return monitor.Status(f) }

func TestHealthHandler(t *testing.T) {
	healthy := fixedStatus{
		Dependencies: map[string]bool{"postgresql": true},
		Outbox:       true,
		OutboxSize:   3,
		LastCheck:    time.Now(),
	}

	var rc fasthttp.RequestCtx
	NewHealthHandler(healthy, nil, nil).Check(&rc)
	assert.Equal(t, http.StatusOK, rc.Response.StatusCode())

	degraded := healthy
	degraded.Dependencies = map[string]bool{"postgresql": false}
	var down fasthttp.RequestCtx
	NewHealthHandler(degraded, nil, nil).Check(&down)
	assert.Equal(t, http.StatusServiceUnavailable, down.Response.StatusCode())

	var out struct {
		Code string                 `json:"code"`
		Meta map[string]interface{} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(down.Response.Body(), &out))
	assert.Equal(t, "DEGRADED", out.Code)
	assert.Contains(t, out.Meta, "outbox")
}
