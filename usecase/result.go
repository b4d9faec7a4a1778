package usecase

import "strings"

// Result is the outcome of a command: either a value or a non-empty, displayable failure message.
type Result[T any] struct {
	value   T
	message string
	failed  bool
}

// Success wraps a value.
func Success[T any](value T) Result[T] {
	return Result[T]{value: value}
}

// Failure builds a business failure. An empty message is a programming error and panics.
func Failure[T any](message string) Result[T] {
	if strings.TrimSpace(message) == "" {
		panic("usecase: failure result requires a message")
	}
	return Result[T]{message: message, failed: true}
}

// FailureFrom uses err's message as the failure text.
func FailureFrom[T any](err error) Result[T] {
	return Failure[T](err.Error())
}

func (r Result[T]) IsSuccess() bool { return !r.failed }

func (r Result[T]) IsFailure() bool { return r.failed }

// Value returns the wrapped value; it is the zero value for failures.
func (r Result[T]) Value() T { return r.value }

// Message returns the failure text; it is empty for successes.
func (r Result[T]) Message() string { return r.message }

// Outcome is the untyped view of a Result used by middleware.
type Outcome interface {
	IsFailure() bool
	Message() string
}

var _ Outcome = Result[bool]{}
