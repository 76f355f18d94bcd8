package utils

import "errors"

const DefaultBufferSize = 1024 * 1024 // 1MB buffer
const TempDirName = ".gribdl-temp"
const ToolUserAgent = "gribdl/1.0"

// MaxWorkers bounds the download pool. NOAA mirrors start resetting
// connections (and failing TLS handshakes) above this.
const MaxWorkers = 4

const MaxForecastHour = 48
const DefaultForecastHours = "0-18"

const LogFileMaxBytes = 5_000_000
const LogFileBackups = 1

var (
	ErrInvalidSpec  = errors.New("invalid product spec")
	ErrOutputDir    = errors.New("output directory unusable")
	ErrUnreachable  = errors.New("listing endpoint unreachable")
	ErrListingFetch = errors.New("listing fetch failed")
)

var QPEProducts = []string{"GaugeCorr", "GaugeOnly", "RadarOnly"}
var QPEIntervals = []int{1, 3, 6, 12, 24, 48, 72}
var QPFIntervals = []int{6, 24, 48, 120}
