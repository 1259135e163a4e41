package observe

import (
	"context"
	"fmt"

	"github.com/vango-dev/incdom/pkg/idom"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for patch spans.
const defaultTracerName = "incdom"

// TracerConfig configures the OpenTelemetry observer.
type TracerConfig struct {
	// TracerName is the name of the tracer (default: "incdom").
	TracerName string

	// Provider is the tracer provider. If nil, the global provider is used.
	Provider trace.TracerProvider

	// Context is the parent context of top-level patch spans.
	// Default: context.Background()
	Context context.Context

	// AttributeExtractor adds custom attributes to each patch span.
	AttributeExtractor func(info idom.PatchInfo) []attribute.KeyValue
}

// TracerOption configures the OpenTelemetry observer.
type TracerOption func(*TracerConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) TracerOption {
	return func(c *TracerConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(provider trace.TracerProvider) TracerOption {
	return func(c *TracerConfig) {
		c.Provider = provider
	}
}

// WithParentContext sets the parent context of top-level patch spans.
func WithParentContext(ctx context.Context) TracerOption {
	return func(c *TracerConfig) {
		c.Context = ctx
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(info idom.PatchInfo) []attribute.KeyValue) TracerOption {
	return func(c *TracerConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultTracerConfig() TracerConfig {
	return TracerConfig{
		TracerName: defaultTracerName,
		Context:    context.Background(),
	}
}

// Tracer is an idom.Observer that records one span per patch call. A patch
// started from inside a render function gets a child span of the patch that
// was running.
//
// Like the engine it observes, a Tracer is not safe for concurrent use. Give
// each engine its own Tracer.
type Tracer struct {
	config TracerConfig
	tracer trace.Tracer
	spans  []context.Context
}

var _ idom.Observer = (*Tracer)(nil)

// NewTracer creates a tracing observer.
func NewTracer(opts ...TracerOption) *Tracer {
	config := defaultTracerConfig()
	for _, opt := range opts {
		opt(&config)
	}
	if config.Context == nil {
		config.Context = context.Background()
	}

	var tracer trace.Tracer
	if config.Provider != nil {
		tracer = config.Provider.Tracer(config.TracerName)
	} else {
		tracer = otel.Tracer(config.TracerName)
	}
	return &Tracer{config: config, tracer: tracer}
}

// PatchStarted implements idom.Observer.
func (t *Tracer) PatchStarted(info idom.PatchInfo) {
	parent := t.config.Context
	if n := len(t.spans); n > 0 {
		parent = t.spans[n-1]
	}

	attrs := []attribute.KeyValue{
		attribute.String("idom.strategy", info.Strategy),
		attribute.Int("idom.depth", info.Depth),
		attribute.Bool("idom.nested", info.Nested()),
	}
	if t.config.AttributeExtractor != nil {
		attrs = append(attrs, t.config.AttributeExtractor(info)...)
	}

	ctx, _ := t.tracer.Start(parent, fmt.Sprintf("idom.patch.%s", info.Strategy),
		trace.WithSpanKind(trace.SpanKindInternal),
		trace.WithAttributes(attrs...),
	)
	t.spans = append(t.spans, ctx)
}

// PatchFinished implements idom.Observer.
func (t *Tracer) PatchFinished(_ idom.PatchInfo, stats idom.Stats, err error) {
	n := len(t.spans)
	if n == 0 {
		return
	}
	span := trace.SpanFromContext(t.spans[n-1])
	t.spans[n-1] = nil
	t.spans = t.spans[:n-1]
	defer span.End()

	span.SetAttributes(
		attribute.Int("idom.nodes_created", stats.Created),
		attribute.Int("idom.nodes_deleted", stats.Deleted),
		attribute.Int("idom.nodes_moved", stats.Moved),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
}

// Context returns the context of the innermost running patch span, or the
// configured parent context when no patch is running. Render functions can
// use it to parent their own spans.
func (t *Tracer) Context() context.Context {
	if n := len(t.spans); n > 0 {
		return t.spans[n-1]
	}
	return t.config.Context
}
