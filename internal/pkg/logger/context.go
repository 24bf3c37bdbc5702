package logger

import (
	"context"

	"github.com/sirupsen/logrus"
)

type ctxKey struct{}

// WithContext returns a copy of ctx carrying log. The HTTP layer stores a
// request-scoped entry here so downstream components log with the request id.
func WithContext(ctx context.Context, log logrus.FieldLogger) context.Context {
	return context.WithValue(ctx, ctxKey{}, log)
}

// FromContext returns the logger stored in ctx, or fallback when none is set.
func FromContext(ctx context.Context, fallback logrus.FieldLogger) logrus.FieldLogger {
	if log, ok := ctx.Value(ctxKey{}).(logrus.FieldLogger); ok {
		return log
	}
	return fallback
}
