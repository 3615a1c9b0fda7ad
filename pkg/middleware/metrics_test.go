package middleware

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/vango-dev/store/pkg/store"
)

type counter struct {
	N int
}

func newCounterStore(name string, mws ...store.Middleware) *store.Store[counter] {
	return store.New(func(store.Setter[counter], store.Getter[counter]) counter {
		return counter{}
	}, store.WithName(name), store.WithMiddleware(mws...))
}

func increment(next *counter) { next.N++ }

func histogramCount(t *testing.T, o prometheus.Observer) uint64 {
	t.Helper()
	metric, ok := o.(prometheus.Metric)
	if !ok {
		t.Fatalf("observer %T does not implement prometheus.Metric", o)
	}
	var m dto.Metric
	if err := metric.Write(&m); err != nil {
		t.Fatalf("histogram Write() error: %v", err)
	}
	if m.Histogram == nil {
		t.Fatal("expected histogram metric to have Histogram field")
	}
	return m.GetHistogram().GetSampleCount()
}

func TestPrometheusRecordsSuccessAndPanic(t *testing.T) {
	reg := prometheus.NewRegistry()
	s := newCounterStore("clicks", Prometheus(WithRegistry(reg), WithNamespace("test")))
	m := metricsFor(MetricsConfig{Registry: reg})

	s.SubscribeFunc(func() {})
	s.Apply(increment)
	s.Apply(increment)

	if got := testutil.ToFloat64(m.commitsTotal.WithLabelValues("clicks", "success")); got != 2 {
		t.Errorf("success commits = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.listeners.WithLabelValues("clicks")); got != 1 {
		t.Errorf("listeners = %v, want 1", got)
	}
	if got := histogramCount(t, m.commitDuration.WithLabelValues("clicks")); got != 2 {
		t.Errorf("duration samples = %d, want 2", got)
	}

	s.SubscribeFunc(func() { panic("boom") })
	func() {
		defer func() {
			if recover() == nil {
				t.Error("listener panic should propagate through the middleware")
			}
		}()
		s.Apply(increment)
	}()

	if got := testutil.ToFloat64(m.commitsTotal.WithLabelValues("clicks", "panic")); got != 1 {
		t.Errorf("panic commits = %v, want 1", got)
	}
}

func TestPrometheusSharesCollectorsPerRegistry(t *testing.T) {
	reg := prometheus.NewRegistry()

	// A second registration on the same registry would panic with
	// AlreadyRegisteredError if collectors were not shared.
	a := newCounterStore("a", Prometheus(WithRegistry(reg)))
	b := newCounterStore("b", Prometheus(WithRegistry(reg)))

	a.Apply(increment)
	b.Apply(increment)
	b.Apply(increment)

	m := metricsFor(MetricsConfig{Registry: reg})
	if got := testutil.ToFloat64(m.commitsTotal.WithLabelValues("a", "success")); got != 1 {
		t.Errorf("a commits = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.commitsTotal.WithLabelValues("b", "success")); got != 2 {
		t.Errorf("b commits = %v, want 2", got)
	}

	if n, err := testutil.GatherAndCount(reg, "store_commits_total"); err != nil || n != 2 {
		t.Errorf("GatherAndCount = %d, %v; want 2 series", n, err)
	}
}

func TestMetricsConfig(t *testing.T) {
	config := defaultMetricsConfig()
	if config.Namespace != "store" {
		t.Errorf("default Namespace = %q, want store", config.Namespace)
	}
	if config.Registry != prometheus.DefaultRegisterer {
		t.Error("default Registry should be prometheus.DefaultRegisterer")
	}

	reg := prometheus.NewRegistry()
	for _, opt := range []MetricsOption{
		WithNamespace("app"),
		WithSubsystem("ui"),
		WithConstLabels(prometheus.Labels{"env": "test"}),
		WithBuckets([]float64{0.1}),
		WithRegistry(reg),
	} {
		opt(&config)
	}

	if config.Namespace != "app" || config.Subsystem != "ui" {
		t.Errorf("Namespace/Subsystem = %q/%q", config.Namespace, config.Subsystem)
	}
	if config.ConstLabels["env"] != "test" || len(config.Buckets) != 1 || config.Registry != reg {
		t.Errorf("config = %+v", config)
	}
}
