// Package middleware provides commit middleware for stores.
//
// This package includes:
//   - Prometheus metrics for commits, listeners and listener panics
//   - OpenTelemetry spans around each commit
//   - slog commit logging
//
// Middleware observes a commit; it never batches, drops or repeats one, so
// listener call counts are the same with or without it.
//
// # Prometheus Metrics
//
//	counter := store.New(initCounter,
//	    store.WithName("counter"),
//	    store.WithMiddleware(
//	        middleware.Prometheus(middleware.WithNamespace("myapp")),
//	    ),
//	)
//
//	http.Handle("/metrics", promhttp.Handler())
//
// # OpenTelemetry
//
// The tracer comes from the global provider. Configure it in main():
//
//	otel.SetTracerProvider(tp)
//
//	store.WithMiddleware(middleware.OpenTelemetry(
//	    middleware.WithTracerName("myapp"),
//	))
//
// # Ordering
//
// The first middleware passed to store.WithMiddleware is the outermost. Put
// Logging outside OpenTelemetry if log records should carry the span context.
package middleware
