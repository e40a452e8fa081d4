// Package middleware provides composable wrappers around the command
// dispatcher.
//
// A HandlerFunc is one full round trip: command in, response envelope out.
// Middlewares wrap a HandlerFunc to observe or pace exchanges without
// touching the protocol itself. The chain is built once at client
// construction:
//
//	Chain(A, B)(roundTrip) → A(B(roundTrip))
package middleware

import (
	"context"

	"github.com/wildhunter-66/gstd-1.x/message"
)

// HandlerFunc performs one command round trip. The context carries the
// per-call deadline, if any.
type HandlerFunc func(ctx context.Context, cmd *message.Command) (*message.Response, error)

// Middleware wraps a HandlerFunc with extra behavior.
type Middleware func(next HandlerFunc) HandlerFunc

// Chain composes middlewares into one. The first middleware is the
// outermost wrapper.
func Chain(middlewares ...Middleware) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		for i := len(middlewares) - 1; i >= 0; i-- {
			next = middlewares[i](next)
		}
		return next
	}
}
