package products

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tanq16/gribdl/internal/utils"
)

func HRRRFilename(cycle, hour int) string {
	return fmt.Sprintf("hrrr.t%02dz.wrfsfcf%02d.grib2", cycle, hour)
}

func formatCoord(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func HRRRURL(template, file string, bbox utils.BoundingBox, day time.Time) string {
	return strings.NewReplacer(
		"{FILE}", file,
		"{LLON}", formatCoord(bbox.LeftLon),
		"{RLON}", formatCoord(bbox.RightLon),
		"{TLAT}", formatCoord(bbox.TopLat),
		"{BLAT}", formatCoord(bbox.BottomLat),
		"{DATE}", day.UTC().Format("20060102"),
	).Replace(template)
}

// resolveHRRR never touches the network: every requested hour becomes a
// candidate and missing cycles only show up when the fetch runs.
func (r *Resolver) resolveHRRR(spec utils.ProductSpec) Listing {
	now := r.now()
	candidates := make([]utils.Candidate, 0, len(spec.ForecastHours))
	for _, h := range spec.ForecastHours {
		file := HRRRFilename(spec.Cycle, h)
		candidates = append(candidates, utils.Candidate{
			Filename: file,
			URL:      HRRRURL(r.endpoints.HRRRFilter, file, spec.BBox, now),
		})
	}
	return Listing{Source: "grib filter", Candidates: candidates, Available: RequireAttachment}
}
