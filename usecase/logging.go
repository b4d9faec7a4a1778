package usecase

import (
	"context"
	"time"

	"go.uber.org/zap"

	appLogger "github.com/fastygo/cart/pkg/logger"
)

// LoggingMiddleware records one log line per dispatched request.
// Business failures are logged at warn level, infrastructure errors at error level.
func LoggingMiddleware(base *zap.Logger) Middleware {
	if base == nil {
		base = zap.NewNop()
	}
	return func(next Next) Next {
		return func(ctx context.Context, req Request) (interface{}, error) {
			started := time.Now()
			resp, err := next(ctx, req)

			log := appLogger.WithRequestID(ctx, base).With(
				zap.String("request", req.RequestName()),
				zap.Duration("duration", time.Since(started)),
			)
			switch {
			case err != nil:
				log.Error("request failed", zap.Error(err))
			case isFailure(resp):
				log.Warn("request rejected", zap.String("reason", resp.(Outcome).Message()))
			default:
				log.Info("request handled")
			}
			return resp, err
		}
	}
}

func isFailure(resp interface{}) bool {
	outcome, ok := resp.(Outcome)
	return ok && outcome.IsFailure()
}
