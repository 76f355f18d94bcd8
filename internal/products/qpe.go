package products

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/tanq16/gribdl/internal/utils"
)

var qpePattern = regexp.MustCompile(`>(MRMS\w*\.\d*_\d*-\d*\.grib2\.gz)<`)

func QPEBaseURL(template, product string, interval int) string {
	return strings.NewReplacer(
		"{PRODUCT}", product,
		"{HOUR}", fmt.Sprintf("%02d", interval),
	).Replace(template)
}

func (r *Resolver) resolveQPE(ctx context.Context, spec utils.ProductSpec) (Listing, error) {
	base := QPEBaseURL(r.endpoints.QPEBase, spec.Product, spec.Interval)
	candidates, err := r.scrape(ctx, base, qpePattern)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Source: base, Candidates: candidates, Available: RequireOK}, nil
}
