package middleware

import (
	"context"
	"testing"

	"github.com/vango-dev/store/pkg/store"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

type recordingProvider struct {
	noop.TracerProvider
	tracer *recordingTracer
}

func (p *recordingProvider) Tracer(string, ...trace.TracerOption) trace.Tracer {
	return p.tracer
}

type recordingTracer struct {
	noop.Tracer
	spans []*recordingSpan
}

func (t *recordingTracer) Start(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	cfg := trace.NewSpanStartConfig(opts...)
	s := &recordingSpan{name: name, attrs: cfg.Attributes()}
	t.spans = append(t.spans, s)
	return trace.ContextWithSpan(ctx, s), s
}

type recordingSpan struct {
	noop.Span
	name   string
	attrs  []attribute.KeyValue
	status codes.Code
	errs   []error
	ended  bool
}

func (s *recordingSpan) End(...trace.SpanEndOption)                    { s.ended = true }
func (s *recordingSpan) SetStatus(code codes.Code, _ string)           { s.status = code }
func (s *recordingSpan) RecordError(err error, _ ...trace.EventOption) { s.errs = append(s.errs, err) }

func (s *recordingSpan) attr(key string) (attribute.Value, bool) {
	for _, kv := range s.attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func newRecordingProvider() *recordingProvider {
	return &recordingProvider{tracer: &recordingTracer{}}
}

func TestOpenTelemetrySpanPerCommit(t *testing.T) {
	tp := newRecordingProvider()

	var inner trace.Span
	probe := func(c *store.Commit, next func()) {
		inner = SpanFromCommit(c)
		next()
	}

	s := newCounterStore("cart",
		OpenTelemetry(
			WithTracerProvider(tp),
			WithAttributeExtractor(func(*store.Commit) []attribute.KeyValue {
				return []attribute.KeyValue{attribute.String("test.attr", "ok")}
			}),
		),
		probe,
	)
	s.SubscribeFunc(func() {})

	s.Apply(increment)
	s.Apply(increment)

	spans := tp.tracer.spans
	if len(spans) != 2 {
		t.Fatalf("spans = %d, want 2", len(spans))
	}

	span := spans[1]
	if span.name != "store.commit cart" {
		t.Errorf("span name = %q", span.name)
	}
	if !span.ended || span.status != codes.Ok {
		t.Errorf("ended=%v status=%v, want ended with Ok", span.ended, span.status)
	}
	if v, ok := span.attr("store.seq"); !ok || v.AsInt64() != 2 {
		t.Errorf("store.seq = %v", v)
	}
	if v, ok := span.attr("store.listeners"); !ok || v.AsInt64() != 1 {
		t.Errorf("store.listeners = %v", v)
	}
	if v, ok := span.attr("test.attr"); !ok || v.AsString() != "ok" {
		t.Errorf("test.attr = %v", v)
	}
	if inner != trace.Span(span) {
		t.Error("inner middleware should see the commit span in its context")
	}
}

func TestOpenTelemetryRecordsPanic(t *testing.T) {
	tp := newRecordingProvider()
	s := newCounterStore("boom", OpenTelemetry(WithTracerProvider(tp)))
	s.SubscribeFunc(func() { panic("listener failed") })

	func() {
		defer func() {
			if r := recover(); r != "listener failed" {
				t.Errorf("recover() = %v, want original panic value", r)
			}
		}()
		s.Apply(increment)
	}()

	span := tp.tracer.spans[0]
	if span.status != codes.Error || len(span.errs) != 1 || !span.ended {
		t.Errorf("span status=%v errs=%v ended=%v", span.status, span.errs, span.ended)
	}
}

func TestOpenTelemetryFilterSkipsTracing(t *testing.T) {
	tp := newRecordingProvider()
	s := newCounterStore("quiet", OpenTelemetry(
		WithTracerProvider(tp),
		WithCommitFilter(func(c *store.Commit) bool { return c.Seq%2 == 0 }),
	))

	for i := 0; i < 4; i++ {
		s.Apply(increment)
	}

	if len(tp.tracer.spans) != 2 {
		t.Errorf("spans = %d, want 2", len(tp.tracer.spans))
	}
	if s.GetState().N != 4 {
		t.Errorf("N = %d, want 4", s.GetState().N)
	}
}

func TestOpenTelemetryGlobalProvider(t *testing.T) {
	// The global provider is a no-op by default; the middleware must still
	// run the commit.
	s := newCounterStore("global", OpenTelemetry(WithTracerName("test")))
	s.Apply(increment)
	if s.GetState().N != 1 {
		t.Errorf("N = %d, want 1", s.GetState().N)
	}
}

func TestTraceContextWithoutSpan(t *testing.T) {
	c := &store.Commit{Store: "x"}
	if TraceContext(c) == nil {
		t.Error("TraceContext should never be nil")
	}
	if SpanFromCommit(c).SpanContext().IsValid() {
		t.Error("no span should be active")
	}
}
