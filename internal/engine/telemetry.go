package engine

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Instrumentation handles. They resolve against the globally registered
// providers, so they are cheap no-ops until telemetry is initialized.
var (
	tracer trace.Tracer
	meter  metric.Meter

	cycleDuration metric.Float64Histogram
	cycleCounter  metric.Int64Counter
)

func init() {
	tracer = otel.Tracer("stratum/engine")
	meter = otel.Meter("stratum/engine")

	cycleDuration, _ = meter.Float64Histogram("stratum.cycle.duration",
		metric.WithUnit("s"),
		metric.WithDescription("Scoring cycle wall time"))
	cycleCounter, _ = meter.Int64Counter("stratum.cycle.count",
		metric.WithDescription("Scoring cycles executed"))
}
