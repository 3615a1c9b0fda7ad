package middleware

import (
	"context"
	"fmt"

	"github.com/vango-dev/store/pkg/store"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Default tracer name for stores.
const defaultTracerName = "github.com/vango-dev/store"

// OTelConfig configures the OpenTelemetry middleware.
type OTelConfig struct {
	// TracerName is the name of the tracer.
	TracerName string

	// TracerProvider overrides the global provider.
	TracerProvider trace.TracerProvider

	// Filter determines which commits to trace.
	// If nil, all commits are traced.
	Filter func(c *store.Commit) bool

	// AttributeExtractor adds custom attributes per commit.
	AttributeExtractor func(c *store.Commit) []attribute.KeyValue

	tracer trace.Tracer
}

// OTelOption configures the OpenTelemetry middleware.
type OTelOption func(*OTelConfig)

// WithTracerName sets the tracer name.
func WithTracerName(name string) OTelOption {
	return func(c *OTelConfig) {
		c.TracerName = name
	}
}

// WithTracerProvider sets the tracer provider.
func WithTracerProvider(tp trace.TracerProvider) OTelOption {
	return func(c *OTelConfig) {
		c.TracerProvider = tp
	}
}

// WithCommitFilter sets a filter function for commits.
func WithCommitFilter(filter func(c *store.Commit) bool) OTelOption {
	return func(c *OTelConfig) {
		c.Filter = filter
	}
}

// WithAttributeExtractor sets a custom attribute extractor.
func WithAttributeExtractor(extractor func(c *store.Commit) []attribute.KeyValue) OTelOption {
	return func(c *OTelConfig) {
		c.AttributeExtractor = extractor
	}
}

func defaultOTelConfig() OTelConfig {
	return OTelConfig{
		TracerName: defaultTracerName,
	}
}

// OpenTelemetry creates middleware that wraps every commit in a span.
//
// The span carries the store name, commit sequence and listener count. The
// span context replaces the commit context, so middleware further in can
// create child spans. A panic is recorded on the span and re-raised.
func OpenTelemetry(opts ...OTelOption) store.Middleware {
	config := defaultOTelConfig()
	for _, opt := range opts {
		opt(&config)
	}

	if config.TracerProvider != nil {
		config.tracer = config.TracerProvider.Tracer(config.TracerName)
	} else {
		config.tracer = otel.Tracer(config.TracerName)
	}

	return func(c *store.Commit, next func()) {
		if config.Filter != nil && !config.Filter(c) {
			next()
			return
		}

		attrs := []attribute.KeyValue{
			attribute.String("store.name", c.Store),
			attribute.Int64("store.seq", int64(c.Seq)),
			attribute.Int("store.listeners", c.Listeners),
		}
		if config.AttributeExtractor != nil {
			attrs = append(attrs, config.AttributeExtractor(c)...)
		}

		spanCtx, span := config.tracer.Start(
			c.Context(),
			formatSpanName(c),
			trace.WithSpanKind(trace.SpanKindInternal),
			trace.WithAttributes(attrs...),
		)
		defer span.End()

		c.SetContext(spanCtx)

		defer func() {
			if r := recover(); r != nil {
				err, ok := r.(error)
				if !ok {
					err = fmt.Errorf("%v", r)
				}
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
				panic(r)
			}
		}()

		next()
		span.SetStatus(codes.Ok, "")
	}
}

// formatSpanName creates a span name from the commit.
func formatSpanName(c *store.Commit) string {
	return fmt.Sprintf("store.commit %s", c.Store)
}

// SpanFromCommit returns the span recorded on the commit context, or a no-op
// span when none is active.
func SpanFromCommit(c *store.Commit) trace.Span {
	return trace.SpanFromContext(c.Context())
}

// TraceContext returns the commit context for propagation.
func TraceContext(c *store.Commit) context.Context {
	return c.Context()
}
