package store

import (
	"context"
	"log/slog"
)

// Option configures a Store.
type Option func(*config)

type config struct {
	name        string
	logger      *slog.Logger
	ctx         context.Context
	middlewares []Middleware
}

func defaultConfig() config {
	return config{
		name:   "store",
		logger: slog.Default(),
		ctx:    context.Background(),
	}
}

// WithName sets the store name used in logs, metrics and traces.
func WithName(name string) Option {
	return func(c *config) {
		if name != "" {
			c.name = name
		}
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithContext sets the base context handed to middleware on every commit.
func WithContext(ctx context.Context) Option {
	return func(c *config) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// WithMiddleware appends commit middleware. The first one registered is the
// outermost.
func WithMiddleware(mws ...Middleware) Option {
	return func(c *config) {
		for _, mw := range mws {
			if mw != nil {
				c.middlewares = append(c.middlewares, mw)
			}
		}
	}
}
