package app

import (
	"context"
	"log/slog"
	"time"

	"github.com/five82/hearth/internal/state"
)

const (
	retryBase  = 2 * time.Second
	maxBackoff = 30 * time.Second
)

// calculateBackoff doubles base for every consecutive failure, capped at
// maxBackoff.
func calculateBackoff(failures int, base time.Duration) time.Duration {
	if failures <= 0 {
		return base
	}
	backoff := base
	for i := 0; i < failures; i++ {
		backoff *= 2
		if backoff >= maxBackoff {
			return maxBackoff
		}
	}
	return backoff
}

// StartRefresher launches a background goroutine that reloads the catalog
// every interval, retrying sooner after a failure. It returns immediately and
// does nothing when interval is not positive.
func StartRefresher(ctx context.Context, catalog *state.Catalog, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	r := refresher{
		catalog: catalog,
		every:   interval,
		retry:   retryBase,
		logger:  componentLogger(logger, "refresher"),
	}
	go r.run(ctx)
}

type refresher struct {
	catalog *state.Catalog
	every   time.Duration
	retry   time.Duration
	logger  *slog.Logger
}

// next returns the wait before the following refresh. Failures retry on the
// backoff schedule but never wait longer than the regular interval.
func (r refresher) next(failures int) time.Duration {
	if failures == 0 {
		return r.every
	}
	return min(calculateBackoff(failures-1, r.retry), r.every)
}

func (r refresher) run(ctx context.Context) {
	failures := 0
	timer := time.NewTimer(r.every)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-timer.C:
		}

		// A fetch already in flight (startup, a manual retry) is left alone.
		if r.catalog.Snapshot().Status != state.StatusLoading {
			switch outcome := r.catalog.FetchOffers(ctx)(); outcome {
			case state.Done:
				failures = 0
			case state.Failed:
				failures++
				r.logger.Warn("catalog refresh failed",
					"failures", failures,
					"retry_in", r.next(failures).String(),
					"error", r.catalog.Snapshot().Err,
				)
			}
		}
		timer.Reset(r.next(failures))
	}
}
