package utils

import (
	"fmt"
	"net/http"
	"slices"
)

type ProductKind string

const (
	KindQPE  ProductKind = "qpe"
	KindQPF  ProductKind = "qpf"
	KindHRRR ProductKind = "hrrr"
)

type BoundingBox struct {
	LeftLon   float64 `yaml:"left_lon"`
	RightLon  float64 `yaml:"right_lon"`
	TopLat    float64 `yaml:"top_lat"`
	BottomLat float64 `yaml:"bottom_lat"`
}

// ProductSpec is the product selection for one run. It is built once and
// never mutated; fields that do not apply to Kind are ignored.
type ProductSpec struct {
	Kind          ProductKind
	Product       string // qpe only
	Interval      int    // qpe, qpf
	Cycle         int    // requested hour for qpf, model cycle for hrrr
	ForecastHours []int  // hrrr only
	BBox          BoundingBox
}

// Validate rejects malformed specs so a directly constructed ProductSpec
// fails before any network traffic happens.
func (s ProductSpec) Validate() error {
	switch s.Kind {
	case KindQPE:
		if !slices.Contains(QPEProducts, s.Product) {
			return fmt.Errorf("%w: unknown qpe product %q", ErrInvalidSpec, s.Product)
		}
		if !slices.Contains(QPEIntervals, s.Interval) {
			return fmt.Errorf("%w: qpe interval %d not one of %v", ErrInvalidSpec, s.Interval, QPEIntervals)
		}
	case KindQPF:
		if !slices.Contains(QPFIntervals, s.Interval) {
			return fmt.Errorf("%w: qpf interval %d not one of %v", ErrInvalidSpec, s.Interval, QPFIntervals)
		}
		if s.Cycle < 0 || s.Cycle > 23 {
			return fmt.Errorf("%w: cycle hour %d outside 0-23", ErrInvalidSpec, s.Cycle)
		}
	case KindHRRR:
		if s.Cycle < 0 || s.Cycle > 23 {
			return fmt.Errorf("%w: cycle hour %d outside 0-23", ErrInvalidSpec, s.Cycle)
		}
		if len(s.ForecastHours) == 0 {
			return fmt.Errorf("%w: no forecast hours", ErrInvalidSpec)
		}
		for _, h := range s.ForecastHours {
			if h < 0 || h > MaxForecastHour {
				return fmt.Errorf("%w: forecast hour %d outside 0-%d", ErrInvalidSpec, h, MaxForecastHour)
			}
		}
		if s.BBox.LeftLon > s.BBox.RightLon {
			return fmt.Errorf("%w: left longitude %g east of right longitude %g", ErrInvalidSpec, s.BBox.LeftLon, s.BBox.RightLon)
		}
		if s.BBox.BottomLat > s.BBox.TopLat {
			return fmt.Errorf("%w: bottom latitude %g north of top latitude %g", ErrInvalidSpec, s.BBox.BottomLat, s.BBox.TopLat)
		}
	default:
		return fmt.Errorf("%w: unknown product kind %q", ErrInvalidSpec, s.Kind)
	}
	return nil
}

// Candidate is a file believed to exist on the remote server.
type Candidate struct {
	Filename string
	URL      string
}

// DownloadTask is one unit of work for the worker pool.
type DownloadTask struct {
	URL      string
	Filename string
}

// Availability reports whether a transport-level success actually carries
// the requested file. Each endpoint family supplies its own rule.
type Availability func(resp *http.Response) bool

type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}
