package middleware

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"

	"bitbucket-mcp/server/internal/modules"
	"bitbucket-mcp/server/internal/observability"
)

// Recovery turns a panicking tool call into an error result.
// It logs the stack trace and reports the panic as a security event.
func Recovery(log logrus.FieldLogger) Middleware {
	return func(next ToolFunc) ToolFunc {
		return func(ctx context.Context, name string, args map[string]any) (res *modules.ToolCallResult, err error) {
			defer func() {
				if r := recover(); r != nil {
					requestID := GetRequestID(ctx)
					log.WithFields(logrus.Fields{
						"request_id": requestID,
						"tool":       name,
					}).Errorf("PANIC recovered: %v\n%s", r, debug.Stack())

					observability.LogSecurityEvent(log, requestID, "panic_recovered", logrus.Fields{
						"tool":  name,
						"error": fmt.Sprintf("%v", r),
					})

					res, err = modules.ErrorResult(fmt.Sprintf("Error executing %s: internal error", name)), nil
				}
			}()
			return next(ctx, name, args)
		}
	}
}
