package pagination

import (
	"context"
	"fmt"
	"iter"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// CollectConfig holds collector configuration.
type CollectConfig struct {
	// MaxConcurrency is the maximum number of traversals running at once.
	MaxConcurrency int

	// Timeout bounds one source's whole traversal.
	Timeout time.Duration
}

// DefaultCollectConfig returns a configuration that stays well below the
// server's rate limit.
func DefaultCollectConfig() CollectConfig {
	return CollectConfig{
		MaxConcurrency: 4,
		Timeout:        2 * time.Minute,
	}
}

// Source is one independent traversal. Open is called on a worker with a
// context carrying the per-source timeout.
type Source[T any] struct {
	Name string
	Open func(ctx context.Context) iter.Seq2[T, error]
}

// ListerSource adapts a full traversal of lister into a Source.
func ListerSource[T any](name string, lister *Lister[T], params Params) Source[T] {
	return Source[T]{
		Name: name,
		Open: func(ctx context.Context) iter.Seq2[T, error] {
			return lister.All(ctx, params)
		},
	}
}

type sourceResult[T any] struct {
	name  string
	items []T
	err   error
}

// CollectAll drains every source through a worker pool and returns the items
// keyed by source name. When a source fails, the other sources still finish;
// the items read before the failure are kept and the first error is returned
// together with the partial results.
func CollectAll[T any](ctx context.Context, cfg CollectConfig, sources []Source[T]) (map[string][]T, error) {
	start := time.Now()

	if cfg.MaxConcurrency <= 0 {
		cfg.MaxConcurrency = 4
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 2 * time.Minute
	}

	seen := make(map[string]bool, len(sources))
	for _, src := range sources {
		if src.Open == nil {
			return nil, fmt.Errorf("%w: source %q has no Open func", ErrInvalidParameters, src.Name)
		}
		if seen[src.Name] {
			return nil, fmt.Errorf("%w: duplicate source %q", ErrInvalidParameters, src.Name)
		}
		seen[src.Name] = true
	}

	results := make(map[string][]T, len(sources))
	if len(sources) == 0 {
		return results, nil
	}

	log.Info().
		Int("sources", len(sources)).
		Int("workers", min(cfg.MaxConcurrency, len(sources))).
		Msg("Starting parallel collection")

	queue := make(chan Source[T], len(sources))
	for _, src := range sources {
		queue <- src
	}
	close(queue)

	out := make(chan sourceResult[T], len(sources))

	var wg sync.WaitGroup
	for i := 0; i < min(cfg.MaxConcurrency, len(sources)); i++ {
		wg.Add(1)
		go collectWorker(ctx, cfg.Timeout, queue, out, &wg, i)
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	var firstErr error
	failed := 0
	completed := 0
	for res := range out {
		results[res.name] = res.items
		completed++

		if res.err != nil {
			failed++
			seatsCollectorSourcesTotal.WithLabelValues(outcomeError).Inc()
			log.Warn().
				Err(res.err).
				Str("source", res.name).
				Int("items", len(res.items)).
				Msg("Source traversal failed")
			if firstErr == nil {
				firstErr = fmt.Errorf("source %s: %w", res.name, res.err)
			}
			continue
		}
		seatsCollectorSourcesTotal.WithLabelValues(outcomeOK).Inc()

		// Progress logging every 10 sources
		if completed%10 == 0 {
			log.Info().
				Int("completed", completed).
				Int("total", len(sources)).
				Float64("progress_pct", float64(completed)/float64(len(sources))*100).
				Msg("Collection progress")
		}
	}

	if firstErr == nil && completed < len(sources) {
		firstErr = ctx.Err()
	}

	if firstErr != nil {
		log.Warn().
			Err(firstErr).
			Int("completed", completed-failed).
			Int("total", len(sources)).
			Msg("Collection incomplete - returning partial results")
		return results, fmt.Errorf("collect (partial data: %d/%d sources): %w", completed-failed, len(sources), firstErr)
	}

	log.Info().
		Int("sources", len(sources)).
		Dur("duration", time.Since(start)).
		Msg("Collection complete")

	return results, nil
}

// collectWorker drains sources from the queue.
func collectWorker[T any](ctx context.Context, timeout time.Duration, queue <-chan Source[T], out chan<- sourceResult[T], wg *sync.WaitGroup, workerID int) {
	defer wg.Done()
	processed := 0

	for src := range queue {
		if ctx.Err() != nil {
			log.Debug().
				Int("worker_id", workerID).
				Int("sources_processed", processed).
				Msg("Worker stopping (context cancelled)")
			return
		}

		srcCtx, cancel := context.WithTimeout(ctx, timeout)
		items, err := Collect(src.Open(srcCtx))
		cancel()

		out <- sourceResult[T]{name: src.Name, items: items, err: err}
		processed++
	}

	if processed > 0 {
		log.Debug().
			Int("worker_id", workerID).
			Int("sources_processed", processed).
			Msg("Worker completed")
	}
}
