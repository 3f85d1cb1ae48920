package observability

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "bitbucket-mcp/server"

// Tracer returns the tracer for tool-call spans. It is a no-op until an SDK provider is registered.
func Tracer() trace.Tracer {
	return otel.Tracer(instrumentationName)
}

// ToolMetrics are the instruments recorded for each tool call.
type ToolMetrics struct {
	Calls    metric.Int64Counter
	Duration metric.Float64Histogram
}

// NewToolMetrics creates the tool-call instruments on the global meter provider.
func NewToolMetrics() (*ToolMetrics, error) {
	meter := otel.Meter(instrumentationName)

	calls, err := meter.Int64Counter("bitbucket_mcp.tool.calls",
		metric.WithDescription("Number of tool calls"),
		metric.WithUnit("{call}"))
	if err != nil {
		return nil, err
	}
	duration, err := meter.Float64Histogram("bitbucket_mcp.tool.duration",
		metric.WithDescription("Tool call duration"),
		metric.WithUnit("ms"))
	if err != nil {
		return nil, err
	}
	return &ToolMetrics{Calls: calls, Duration: duration}, nil
}
