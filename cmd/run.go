package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/tanq16/gribdl/internal/config"
	"github.com/tanq16/gribdl/internal/mirror"
	"github.com/tanq16/gribdl/internal/output"
	"github.com/tanq16/gribdl/internal/products"
	"github.com/tanq16/gribdl/internal/runner"
	"github.com/tanq16/gribdl/internal/utils"
)

// resolverOptions is applied to every resolver the commands build.
var resolverOptions []products.Option

func newRunner(ctx context.Context) (*runner.Runner, error) {
	client, err := utils.NewGribHTTPClient(utils.HTTPClientConfig{
		Timeout:   settings.Timeout,
		ProxyURL:  settings.Proxy,
		UserAgent: settings.UserAgent,
		Headers:   utils.ParseHeaderArgs(settings.Headers),
	})
	if err != nil {
		return nil, err
	}
	opts := runner.Options{
		OutputDir: settings.OutputDir,
		Force:     settings.Force,
		Workers:   settings.Workers,
		Logger:    logger,
	}
	if settings.Mirror != "" {
		target, err := mirror.ParseTarget(settings.Mirror)
		if err != nil {
			return nil, err
		}
		m, err := mirror.New(ctx, target, settings.Profile, logger)
		if err != nil {
			return nil, fmt.Errorf("mirror setup: %w", err)
		}
		opts.Mirror = m
	}
	return runner.New(client, products.NewResolver(client, logger, resolverOptions...), opts), nil
}

// runEntries runs each product in order against the output directory. The
// first fatal error stops the remaining products.
func runEntries(ctx context.Context, entries []config.ProductEntry) error {
	now := time.Now()
	specs := make([]utils.ProductSpec, 0, len(entries))
	for i, entry := range entries {
		spec, err := entry.Spec(now)
		if err != nil {
			return fmt.Errorf("product %d (%s): %w", i+1, entry.Kind, err)
		}
		specs = append(specs, spec)
	}
	r, err := newRunner(ctx)
	if err != nil {
		return err
	}

	var reports []runner.Report
	defer func() {
		if len(reports) > 0 {
			output.PrintSummary(reports)
		}
	}()
	for _, spec := range specs {
		report, err := r.Run(ctx, spec)
		if err != nil {
			return err
		}
		if debug {
			output.PrintOutcomes(report.Outcomes)
		}
		reports = append(reports, report)
	}
	return nil
}
