// Package middleware wraps tool execution with request IDs, panic recovery,
// telemetry, and usage recording.
package middleware

import (
	"context"

	"bitbucket-mcp/server/internal/modules"
)

// ToolFunc executes one tool call. Registry.Invoke has this shape.
type ToolFunc func(ctx context.Context, name string, args map[string]any) (*modules.ToolCallResult, error)

// Middleware decorates a ToolFunc.
type Middleware func(next ToolFunc) ToolFunc

// Chain applies mws to h so that mws[0] runs first.
func Chain(h ToolFunc, mws ...Middleware) ToolFunc {
	for i := len(mws) - 1; i >= 0; i-- {
		if mws[i] != nil {
			h = mws[i](h)
		}
	}
	return h
}
