package products

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"
	"github.com/tanq16/gribdl/internal/utils"
)

// Endpoints holds the URL templates for each product family.
type Endpoints struct {
	QPEBase    string // {PRODUCT}, {HOUR}
	QPFBase    string
	HRRRFilter string // {FILE}, {LLON}, {RLON}, {TLAT}, {BLAT}, {DATE}
}

func DefaultEndpoints() Endpoints {
	return Endpoints{
		QPEBase:    "https://mrms.ncep.noaa.gov/data/2D/{PRODUCT}_QPE_{HOUR}H/",
		QPFBase:    "https://ftp.wpc.ncep.noaa.gov/2p5km_qpf/",
		HRRRFilter: "https://nomads.ncep.noaa.gov/cgi-bin/filter_hrrr_2d.pl?file={FILE}&lev_surface=on&var_PRATE=on&leftlon={LLON}&rightlon={RLON}&toplat={TLAT}&bottomlat={BLAT}&dir=%2Fhrrr.{DATE}%2Fconus",
	}
}

// Listing is the resolved remote file set for one product selection.
type Listing struct {
	Kind       utils.ProductKind
	Source     string
	Candidates []utils.Candidate
	Available  utils.Availability
}

func (l Listing) Filenames() []string {
	names := make([]string, len(l.Candidates))
	for i, c := range l.Candidates {
		names[i] = c.Filename
	}
	return names
}

type Resolver struct {
	client    utils.HTTPDoer
	logger    zerolog.Logger
	endpoints Endpoints
	now       func() time.Time
}

type Option func(*Resolver)

func WithEndpoints(e Endpoints) Option {
	return func(r *Resolver) { r.endpoints = e }
}

func WithClock(now func() time.Time) Option {
	return func(r *Resolver) { r.now = now }
}

func NewResolver(client utils.HTTPDoer, logger zerolog.Logger, opts ...Option) *Resolver {
	r := &Resolver{
		client:    client,
		logger:    logger,
		endpoints: DefaultEndpoints(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve builds the candidate set for spec. Scrape-based products probe and
// read the remote index, so any failure there is fatal for the run.
func (r *Resolver) Resolve(ctx context.Context, spec utils.ProductSpec) (Listing, error) {
	if err := spec.Validate(); err != nil {
		return Listing{}, err
	}
	var (
		listing Listing
		err     error
	)
	switch spec.Kind {
	case utils.KindQPE:
		listing, err = r.resolveQPE(ctx, spec)
	case utils.KindQPF:
		listing, err = r.resolveQPF(ctx, spec)
	case utils.KindHRRR:
		listing = r.resolveHRRR(spec)
	default:
		return Listing{}, fmt.Errorf("%w: unknown product kind %q", utils.ErrInvalidSpec, spec.Kind)
	}
	if err != nil {
		return Listing{}, err
	}
	listing.Kind = spec.Kind
	listing.Candidates = dedupe(listing.Candidates)
	r.logger.Info().Str("op", "products/resolve").Msgf("Captured %d files from %s", len(listing.Candidates), listing.Source)
	for _, c := range listing.Candidates {
		r.logger.Debug().Str("op", "products/resolve").Str("file", c.Filename).Msg(c.URL)
	}
	return listing, nil
}

// dedupe keeps the first URL seen for each filename and sorts by name.
func dedupe(candidates []utils.Candidate) []utils.Candidate {
	seen := make(map[string]struct{}, len(candidates))
	out := make([]utils.Candidate, 0, len(candidates))
	for _, c := range candidates {
		if _, ok := seen[c.Filename]; ok {
			continue
		}
		seen[c.Filename] = struct{}{}
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Filename < out[j].Filename })
	return out
}
