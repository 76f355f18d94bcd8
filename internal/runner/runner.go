package runner

import (
	"context"

	"github.com/rs/zerolog"
	gribhttp "github.com/tanq16/gribdl/internal/downloaders/http"
	"github.com/tanq16/gribdl/internal/inventory"
	"github.com/tanq16/gribdl/internal/products"
	"github.com/tanq16/gribdl/internal/scheduler"
	"github.com/tanq16/gribdl/internal/utils"
)

// Mirror receives every successfully downloaded file.
type Mirror interface {
	Upload(ctx context.Context, localPath, name string) error
}

type Options struct {
	OutputDir string
	Force     bool
	Workers   int
	Mirror    Mirror // optional
	Logger    zerolog.Logger
}

// Report describes one finished product run.
type Report struct {
	Spec       utils.ProductSpec
	Candidates int
	Skipped    int
	scheduler.Summary
}

type Runner struct {
	client   utils.HTTPDoer
	resolver *products.Resolver
	opts     Options
}

func New(client utils.HTTPDoer, resolver *products.Resolver, opts Options) *Runner {
	return &Runner{client: client, resolver: resolver, opts: opts}
}

// Run reconciles one product against the output directory and downloads what
// is missing. A returned error is fatal for the run; per-file failures are
// only reported in the Report.
func (r *Runner) Run(ctx context.Context, spec utils.ProductSpec) (Report, error) {
	logger := r.opts.Logger.With().Str("product", string(spec.Kind)).Logger()
	report := Report{Spec: spec}
	if err := spec.Validate(); err != nil {
		return report, err
	}

	local, err := inventory.ReadLocal(r.opts.OutputDir)
	if err != nil {
		return report, err
	}
	logger.Debug().Str("op", "runner").Msgf("Local files: %d", len(local))
	for _, name := range local {
		logger.Debug().Str("op", "runner").Msgf("\t%s", name)
	}

	listing, err := r.resolver.Resolve(ctx, spec)
	if err != nil {
		return report, err
	}
	if r.opts.Force {
		logger.Info().Str("op", "runner").Msg("Forcing download of files even if we have them")
	}
	tasks := inventory.Plan(listing.Candidates, local, r.opts.Force)
	report.Candidates = len(listing.Candidates)
	report.Skipped = report.Candidates - len(tasks)
	logger.Info().Str("op", "runner").Msgf("Need to get %d files for local", len(tasks))
	for _, task := range tasks {
		logger.Debug().Str("op", "runner").Str("file", task.Filename).Msgf("Load queue: %s", task.URL)
	}

	var fetcher scheduler.Fetcher = gribhttp.NewDownloader(r.client, r.opts.OutputDir, listing.Available, logger)
	if r.opts.Mirror != nil {
		fetcher = &mirroredFetcher{next: fetcher, mirror: r.opts.Mirror, logger: logger}
	}
	report.Summary = scheduler.Run(ctx, tasks, fetcher, scheduler.Options{
		Workers: r.opts.Workers,
		Logger:  logger,
	})
	if err := utils.RemoveTempIfEmpty(r.opts.OutputDir); err != nil {
		logger.Warn().Str("op", "runner").Err(err).Msg("Could not remove temp directory")
	}
	if report.Err != nil {
		logger.Debug().Str("op", "runner").Err(report.Err).Msg("Per-file failures")
	}
	logger.Info().Str("op", "runner").Msgf("Done: %d downloaded, %d unavailable, %d failed", report.Downloaded, report.Unavailable, report.Failed)
	return report, nil
}

type mirroredFetcher struct {
	next   scheduler.Fetcher
	mirror Mirror
	logger zerolog.Logger
}

func (m *mirroredFetcher) Fetch(ctx context.Context, task utils.DownloadTask) gribhttp.Outcome {
	outcome := m.next.Fetch(ctx, task)
	if outcome.Kind != gribhttp.Success {
		return outcome
	}
	if err := m.mirror.Upload(ctx, outcome.Path, task.Filename); err != nil {
		m.logger.Warn().Str("op", "runner/mirror").Err(err).Msgf("Mirror upload failed for %s", task.Filename)
	}
	return outcome
}
