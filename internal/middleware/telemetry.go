package middleware

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"bitbucket-mcp/server/internal/modules"
	"bitbucket-mcp/server/internal/observability"
)

// Telemetry traces, counts, times and logs each tool call.
// metrics may be nil, in which case only the span and the log entry are produced.
func Telemetry(log logrus.FieldLogger, metrics *observability.ToolMetrics) Middleware {
	tracer := observability.Tracer()
	return func(next ToolFunc) ToolFunc {
		return func(ctx context.Context, name string, args map[string]any) (*modules.ToolCallResult, error) {
			requestID := GetRequestID(ctx)
			ctx, span := tracer.Start(ctx, "tool "+name, trace.WithAttributes(
				attribute.String("mcp.tool.name", name),
				attribute.String("mcp.request_id", requestID),
			))
			defer span.End()

			start := time.Now()
			res, err := next(ctx, name, args)
			elapsed := time.Since(start)

			status, errMsg := outcome(res, err)
			if status == observability.StatusError {
				span.SetStatus(codes.Error, errMsg)
			}
			span.SetAttributes(attribute.String("mcp.tool.status", status))

			if metrics != nil {
				attrs := metric.WithAttributes(
					attribute.String("tool", name),
					attribute.String("status", status),
				)
				metrics.Calls.Add(ctx, 1, attrs)
				metrics.Duration.Record(ctx, float64(elapsed.Microseconds())/1000, attrs)
			}

			observability.LogToolCall(log, requestID, name, elapsed.Milliseconds(), status, errMsg)
			return res, err
		}
	}
}

// outcome classifies a call. Error results and invocation errors both count as errors.
func outcome(res *modules.ToolCallResult, err error) (status, errMsg string) {
	switch {
	case err != nil:
		return observability.StatusError, err.Error()
	case res != nil && res.IsError:
		return observability.StatusError, res.Text()
	}
	return observability.StatusSuccess, ""
}
