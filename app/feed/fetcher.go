package feed

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/lysyi3m/thinkers-table/app/episode"
	"golang.org/x/time/rate"
)

// Fetcher turns one source request into episodes, substituting the fallback
// list on any failure. It is the only place fetch errors are contained.
type Fetcher struct {
	source   Source
	limiter  *rate.Limiter
	timeout  time.Duration
	fallback func() []episode.Episode
}

// NewFetcher creates a fetcher. A nil limiter disables throttling and a zero
// timeout leaves the deadline to the caller's context.
func NewFetcher(source Source, limiter *rate.Limiter, timeout time.Duration) *Fetcher {
	return &Fetcher{
		source:   source,
		limiter:  limiter,
		timeout:  timeout,
		fallback: episode.Fallback,
	}
}

func (f *Fetcher) Run(ctx context.Context) Result {
	start := time.Now()

	items, err := f.fetchItems(ctx)
	if err != nil {
		slog.Warn("Feed fetch failed, using fallback episodes",
			"source", f.source.Name(),
			"duration", time.Since(start),
			"error", err)

		return Result{
			Source:   SourceFallback,
			Episodes: f.fallback(),
			Err:      err,
		}
	}

	slog.Debug("Feed fetched", "source", f.source.Name(), "items", len(items), "duration", time.Since(start))

	return Result{
		Source:   SourceLive,
		Episodes: episode.NormalizeAll(items),
	}
}

func (f *Fetcher) fetchItems(ctx context.Context) ([]episode.RawItem, error) {
	if f.limiter != nil {
		if err := f.limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("rate limiter: %w", err)
		}
	}

	if f.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, f.timeout)
		defer cancel()
	}

	items, err := f.source.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if len(items) == 0 {
		return nil, ErrNoItems
	}

	return items, nil
}
