package log

import (
	"context"

	"go.uber.org/zap"
)

type SetLoggerToContextKey string

var key = SetLoggerToContextKey("logger")

func SetLoggerToContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, key, logger)
}

// WithCtx returns the logger stored in ctx, falling back to the global zap logger.
func WithCtx(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return zap.L()
	}
	if l, ok := ctx.Value(key).(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.L()
}
