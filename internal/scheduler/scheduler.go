package scheduler

import (
	"context"
	"fmt"
	"sync"

	"github.com/hashicorp/go-multierror"
	"github.com/rs/zerolog"
	gribhttp "github.com/tanq16/gribdl/internal/downloaders/http"
	"github.com/tanq16/gribdl/internal/utils"
	"golang.org/x/sync/errgroup"
)

// Fetcher performs one blocking download. Implementations must not panic
// on failure; every problem is reported through the Outcome.
type Fetcher interface {
	Fetch(ctx context.Context, task utils.DownloadTask) gribhttp.Outcome
}

type Options struct {
	// Workers caps the pool below utils.MaxWorkers. Zero means the maximum.
	Workers int
	Logger  zerolog.Logger
}

type Summary struct {
	Workers     int
	Attempted   int
	Downloaded  int
	Unavailable int
	Failed      int
	Bytes       int64
	Outcomes    []gribhttp.Outcome
	Err         error // per-task failures, never fatal
}

// WorkerCount is the number of workers spawned for pending tasks: never more
// than limit (itself capped at utils.MaxWorkers) and never an idle one.
func WorkerCount(pending, limit int) int {
	if limit <= 0 || limit > utils.MaxWorkers {
		limit = utils.MaxWorkers
	}
	return max(0, min(pending, limit))
}

// Run drains tasks with a bounded worker pool and returns once every task was
// attempted exactly once, whatever the individual outcomes.
func Run(ctx context.Context, tasks []utils.DownloadTask, fetcher Fetcher, opts Options) Summary {
	logger := opts.Logger
	queue := NewQueue(tasks)
	summary := Summary{Workers: WorkerCount(queue.Len(), opts.Workers)}
	if summary.Workers == 0 {
		logger.Info().Str("op", "scheduler").Msg("Nothing to download")
		return summary
	}

	var (
		mu    sync.Mutex
		group errgroup.Group
	)
	for i := range summary.Workers {
		workerID := i
		group.Go(func() error {
			for task, ok := queue.Next(); ok; task, ok = queue.Next() {
				outcome := fetcher.Fetch(ctx, task)
				report(logger, workerID, outcome)
				mu.Lock()
				summary.record(outcome)
				mu.Unlock()
			}
			return nil
		})
	}
	logger.Debug().Str("op", "scheduler").Msgf("Started %d workers for %d tasks; waiting", summary.Workers, len(tasks))
	group.Wait()
	return summary
}

func (s *Summary) record(o gribhttp.Outcome) {
	s.Attempted++
	s.Outcomes = append(s.Outcomes, o)
	switch o.Kind {
	case gribhttp.Success:
		s.Downloaded++
		s.Bytes += o.Bytes
	case gribhttp.Unavailable:
		s.Unavailable++
		s.Err = multierror.Append(s.Err, fmt.Errorf("%s: not available", o.Task.Filename))
	default:
		s.Failed++
		s.Err = multierror.Append(s.Err, fmt.Errorf("%s: %w", o.Task.Filename, o.Err))
	}
}

func report(logger zerolog.Logger, workerID int, o gribhttp.Outcome) {
	switch o.Kind {
	case gribhttp.Success:
		logger.Info().Str("op", "scheduler").Int("worker", workerID).Msgf("Download saved to: %s", o.Path)
	case gribhttp.Unavailable:
		logger.Warn().Str("op", "scheduler").Int("worker", workerID).Msgf("Forecast cycle not available for %s", o.Task.Filename)
		logger.Debug().Str("op", "scheduler").Int("worker", workerID).Msg("Removed downloaded file attempt")
	default:
		logger.Warn().Str("op", "scheduler").Int("worker", workerID).Err(o.Err).Msgf("Download failed for %s", o.Task.Filename)
	}
}
