package middleware

import (
	"log/slog"
	"time"

	"github.com/vango-dev/store/pkg/store"
)

// Logging creates middleware that logs every commit at debug level, and at
// error level when the commit panics. A nil logger uses slog.Default().
func Logging(logger *slog.Logger) store.Middleware {
	if logger == nil {
		logger = slog.Default()
	}

	return func(c *store.Commit, next func()) {
		start := time.Now()
		ok := false

		defer func() {
			attrs := []any{
				"store", c.Store,
				"seq", c.Seq,
				"listeners", c.Listeners,
				"duration", time.Since(start),
			}
			if ok {
				logger.DebugContext(c.Context(), "store commit", attrs...)
			} else {
				logger.ErrorContext(c.Context(), "store commit panicked", attrs...)
			}
		}()

		next()
		ok = true
	}
}
