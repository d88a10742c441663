package tracer

import "context"

// Tracer is the matcher's internal tracing interface so precedent scoring can
// be instrumented without depending on OpenTelemetry APIs throughout.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// Span is one traced operation.
type Span interface {
	SetAttributes(attrs ...Attribute)
	End(err error)
}

// Attribute is a key/value pair attached to spans.
type Attribute struct {
	Key   string
	Value any
}

// Int creates an integer attribute.
func Int(key string, value int) Attribute {
	return Attribute{Key: key, Value: value}
}

// String creates a string attribute.
func String(key, value string) Attribute {
	return Attribute{Key: key, Value: value}
}

// Noop returns a tracer that records nothing.
func Noop() Tracer { return noopTracer{} }

type noopTracer struct{}

func (noopTracer) Start(ctx context.Context, _ string, _ ...Attribute) (context.Context, Span) {
	return ctx, noopSpan{}
}

type noopSpan struct{}

func (noopSpan) SetAttributes(...Attribute) {}
func (noopSpan) End(error)                  {}
