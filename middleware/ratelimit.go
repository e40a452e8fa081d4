package middleware

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/wildhunter-66/gstd-1.x/message"
)

// RateLimit paces commands with a token bucket. Its purpose is tight polling
// loops: a caller that hammers bus_read with a zero bus_timeout would
// otherwise busy-loop the daemon's control socket. Waiting callers respect
// the context deadline, so a paced call still honors its timeout.
func RateLimit(perSecond float64, burst int) Middleware {
	limiter := rate.NewLimiter(rate.Limit(perSecond), burst)
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd *message.Command) (*message.Response, error) {
			if err := limiter.Wait(ctx); err != nil {
				return nil, err
			}
			return next(ctx, cmd)
		}
	}
}
