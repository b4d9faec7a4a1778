package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type ping struct{ Value string }

func (ping) RequestName() string { return "ping" }

type unknown struct{}

func (unknown) RequestName() string { return "unknown" }

func echo() Handler[ping, Result[string]] {
	return HandlerFunc[ping, Result[string]](func(_ context.Context, req ping) (Result[string], error) {
		if req.Value == "" {
			return Failure[string]("value is required"), nil
		}
		if req.Value == "explode" {
			return Result[string]{}, errors.New("disk on fire")
		}
		return Success("pong:" + req.Value), nil
	})
}

func TestDispatcher_RoutesToRegisteredHandler(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, Register(d, echo()))
	assert.True(t, d.Registered("ping"))

	res, err := Send[Result[string]](context.Background(), d, ping{Value: "a"})
	require.NoError(t, err)
	assert.Equal(t, "pong:a", res.Value())
}

func TestDispatcher_UnregisteredRequest(t *testing.T) {
	d := NewDispatcher()
	_, err := d.Dispatch(context.Background(), unknown{})
	assert.ErrorIs(t, err, ErrHandlerNotRegistered)

	_, err = d.Dispatch(context.Background(), nil)
	assert.ErrorIs(t, err, ErrHandlerNotRegistered)
}

func TestDispatcher_DuplicateRegistration(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, Register(d, echo()))
	assert.ErrorIs(t, Register(d, echo()), ErrHandlerAlreadyRegistered)
}

func TestSend_WrongResponseType(t *testing.T) {
	d := NewDispatcher()
	require.NoError(t, Register(d, echo()))

	_, err := Send[int](context.Background(), d, ping{Value: "a"})
	assert.ErrorIs(t, err, ErrUnexpectedResponse)
}

func TestDispatcher_MiddlewareOrder(t *testing.T) {
	var trace []string
	mark := func(name string) Middleware {
		return func(next Next) Next {
			return func(ctx context.Context, req Request) (interface{}, error) {
				trace = append(trace, name+">")
				resp, err := next(ctx, req)
				trace = append(trace, "<"+name)
				return resp, err
			}
		}
	}

	d := NewDispatcher(mark("outer"), mark("inner"))
	require.NoError(t, Register(d, echo()))
	_, err := d.Dispatch(context.Background(), ping{Value: "x"})
	require.NoError(t, err)

	assert.Equal(t, []string{"outer>", "inner>", "<inner", "<outer"}, trace)
}

func TestLoggingMiddleware(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	d := NewDispatcher(LoggingMiddleware(zap.New(core)))
	require.NoError(t, Register(d, echo()))
	ctx := context.Background()

	_, err := d.Dispatch(ctx, ping{Value: "ok"})
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, ping{})
	require.NoError(t, err)
	_, err = d.Dispatch(ctx, ping{Value: "explode"})
	require.Error(t, err)

	entries := logs.All()
	require.Len(t, entries, 3)

	assert.Equal(t, zapcore.InfoLevel, entries[0].Level)
	assert.Equal(t, "ping", entries[0].ContextMap()["request"])

	assert.Equal(t, zapcore.WarnLevel, entries[1].Level)
	assert.Equal(t, "value is required", entries[1].ContextMap()["reason"])

	assert.Equal(t, zapcore.ErrorLevel, entries[2].Level)
}
