package middleware

import (
	"context"

	"github.com/google/uuid"

	"bitbucket-mcp/server/internal/modules"
)

// ContextKey is the type for context keys in this package
type ContextKey string

// RequestIDKey is the context key for request tracing ID
const RequestIDKey ContextKey = "requestID"

// RequestID assigns each tool call a fresh ID unless the context already carries one.
func RequestID(next ToolFunc) ToolFunc {
	return func(ctx context.Context, name string, args map[string]any) (*modules.ToolCallResult, error) {
		if GetRequestID(ctx) == "" {
			ctx = WithRequestID(ctx, uuid.NewString())
		}
		return next(ctx, name, args)
	}
}

// WithRequestID stores id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, RequestIDKey, id)
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(RequestIDKey).(string)
	return id
}
