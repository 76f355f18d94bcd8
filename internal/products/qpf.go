package products

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"github.com/tanq16/gribdl/internal/utils"
)

var (
	sixHourCycles = []int{18, 12, 6, 0}
	longCycles    = []int{12, 0}
)

// ResolveCycle picks the most recent published forecast cycle at or before
// hour. Six-hour QPF runs four times a day; longer intervals run at 00 and 12.
func ResolveCycle(interval, hour int) int {
	cycles := longCycles
	if interval == 6 {
		cycles = sixHourCycles
	}
	for _, c := range cycles {
		if hour >= c {
			return c
		}
	}
	return cycles[len(cycles)-1]
}

func qpfPattern(interval int, now time.Time, cycle int) *regexp.Regexp {
	return regexp.MustCompile(fmt.Sprintf(`>(p%02dm_\w{6}%s%02df\d{3}\.grb)<`, interval, now.UTC().Format("02"), cycle))
}

func (r *Resolver) resolveQPF(ctx context.Context, spec utils.ProductSpec) (Listing, error) {
	cycle := ResolveCycle(spec.Interval, spec.Cycle)
	r.logger.Info().Str("op", "products/qpf").Msgf("Returning %02d as the forecast cycle hour", cycle)
	pattern := qpfPattern(spec.Interval, r.now(), cycle)
	r.logger.Debug().Str("op", "products/qpf").Msgf("Matching files with %s", pattern)
	candidates, err := r.scrape(ctx, r.endpoints.QPFBase, pattern)
	if err != nil {
		return Listing{}, err
	}
	return Listing{Source: r.endpoints.QPFBase, Candidates: candidates, Available: RequireOK}, nil
}
