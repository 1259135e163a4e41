// Package observe provides idom.Observer implementations for Prometheus
// metrics and OpenTelemetry tracing.
//
// Both observers are registered on an engine with idom.WithObserver:
//
//	reg := prometheus.NewRegistry()
//	engine := idom.New(
//	    idom.WithObserver(observe.NewMetrics(observe.WithRegistry(reg))),
//	    idom.WithObserver(observe.NewTracer(observe.WithTracerName("my-app"))),
//	)
//
// The tracer uses the global OpenTelemetry tracer provider unless one is
// passed with WithTracerProvider.
package observe
