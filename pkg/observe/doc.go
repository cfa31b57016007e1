// Package observe provides Prometheus metrics and OpenTelemetry tracing
// for the reactive core.
//
// Both collectors implement reactive.Instrument and attach via
// reactive.SetInstrument:
//
//	metrics := observe.NewMetrics()
//	tracer := observe.NewTracer()
//	reactive.SetInstrument(reactive.MultiInstrument(metrics, tracer))
package observe
