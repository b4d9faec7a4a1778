package usecase

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	ErrHandlerNotRegistered     = errors.New("handler not registered")
	ErrHandlerAlreadyRegistered = errors.New("handler already registered")
	ErrUnexpectedRequest        = errors.New("unexpected request type")
	ErrUnexpectedResponse       = errors.New("unexpected response type")
)

// Request is any command or query routed through the Dispatcher.
// RequestName must be callable on the zero value.
type Request interface {
	RequestName() string
}

// Handler handles exactly one request type.
type Handler[Req Request, Resp any] interface {
	Handle(ctx context.Context, req Req) (Resp, error)
}

// HandlerFunc adapts a function to Handler.
type HandlerFunc[Req Request, Resp any] func(ctx context.Context, req Req) (Resp, error)

func (f HandlerFunc[Req, Resp]) Handle(ctx context.Context, req Req) (Resp, error) {
	return f(ctx, req)
}

// Next is the untyped handler shape seen by middleware.
type Next func(ctx context.Context, req Request) (interface{}, error)

// Middleware wraps every dispatched request.
type Middleware func(next Next) Next

// Dispatcher routes each request to the single handler registered for its name.
type Dispatcher struct {
	handlers   map[string]Next
	middleware []Middleware
	mu         sync.RWMutex
}

func NewDispatcher(middleware ...Middleware) *Dispatcher {
	return &Dispatcher{
		handlers:   make(map[string]Next),
		middleware: middleware,
	}
}

// Register binds h to the request type Req. Registering the same type twice fails.
func Register[Req Request, Resp any](d *Dispatcher, h Handler[Req, Resp]) error {
	var zero Req
	name := zero.RequestName()

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[name]; exists {
		return fmt.Errorf("%w: %s", ErrHandlerAlreadyRegistered, name)
	}
	d.handlers[name] = func(ctx context.Context, req Request) (interface{}, error) {
		typed, ok := req.(Req)
		if !ok {
			return nil, fmt.Errorf("%w: %s cannot handle %T", ErrUnexpectedRequest, name, req)
		}
		return h.Handle(ctx, typed)
	}
	return nil
}

// Dispatch runs req through the middleware chain and its handler.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (interface{}, error) {
	if req == nil {
		return nil, fmt.Errorf("%w: nil request", ErrHandlerNotRegistered)
	}
	name := req.RequestName()

	d.mu.RLock()
	handler, ok := d.handlers[name]
	chain := d.middleware
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrHandlerNotRegistered, name)
	}

	next := handler
	for i := len(chain) - 1; i >= 0; i-- {
		next = chain[i](next)
	}
	return next(ctx, req)
}

// Send dispatches req and asserts the response type.
func Send[Resp any](ctx context.Context, d *Dispatcher, req Request) (Resp, error) {
	var zero Resp
	out, err := d.Dispatch(ctx, req)
	if err != nil {
		return zero, err
	}
	typed, ok := out.(Resp)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", ErrUnexpectedResponse, req.RequestName(), out)
	}
	return typed, nil
}

// Registered reports whether a handler exists for the request name.
func (d *Dispatcher) Registered(name string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()
	_, ok := d.handlers[name]
	return ok
}
