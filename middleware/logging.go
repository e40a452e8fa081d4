package middleware

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/wildhunter-66/gstd-1.x/message"
)

// Logging records every round trip: verb, duration, and outcome. Daemon
// rejections (nonzero code) are logged with the daemon's own description so
// wire traffic can be reconstructed from the log alone.
func Logging(log *zap.Logger) Middleware {
	return func(next HandlerFunc) HandlerFunc {
		return func(ctx context.Context, cmd *message.Command) (*message.Response, error) {
			start := time.Now()
			resp, err := next(ctx, cmd)
			fields := []zap.Field{
				zap.String("verb", cmd.Verb),
				zap.Int("args", len(cmd.Args)),
				zap.Duration("duration", time.Since(start)),
			}
			switch {
			case err != nil:
				log.Error("command failed", append(fields, zap.Error(err))...)
			case resp.Code != 0:
				log.Warn("command rejected by daemon",
					append(fields, zap.Int("code", resp.Code), zap.String("description", resp.Description))...)
			default:
				log.Debug("command completed", fields...)
			}
			return resp, err
		}
	}
}
