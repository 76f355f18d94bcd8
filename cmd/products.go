package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tanq16/gribdl/internal/config"
	"github.com/tanq16/gribdl/internal/utils"
)

func intsList(values []int) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = fmt.Sprint(v)
	}
	return strings.Join(parts, ", ")
}

// cycleFlag returns nil for a negative cycle so the entry falls back to the
// current UTC hour.
func cycleFlag(cycle int) *int {
	if cycle < 0 {
		return nil
	}
	return &cycle
}

func newQPECmd() *cobra.Command {
	var product string
	var interval int

	cmd := &cobra.Command{
		Use:   "qpe [--product PRODUCT] [--interval HOURS]",
		Short: "Download MRMS quantitative precipitation estimates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(cmd.Context(), []config.ProductEntry{{
				Kind:     string(utils.KindQPE),
				Product:  product,
				Interval: interval,
			}})
		},
	}

	cmd.Flags().StringVarP(&product, "product", "p", "GaugeCorr", "MRMS product ("+strings.Join(utils.QPEProducts, ", ")+")")
	cmd.Flags().IntVarP(&interval, "interval", "i", 1, "Accumulation hours ("+intsList(utils.QPEIntervals)+")")
	return cmd
}

func newQPFCmd() *cobra.Command {
	var interval, cycle int

	cmd := &cobra.Command{
		Use:   "qpf [--interval HOURS] [--cycle HOUR]",
		Short: "Download WPC quantitative precipitation forecasts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(cmd.Context(), []config.ProductEntry{{
				Kind:     string(utils.KindQPF),
				Interval: interval,
				Cycle:    cycleFlag(cycle),
			}})
		},
	}

	cmd.Flags().IntVarP(&interval, "interval", "i", 6, "Accumulation hours ("+intsList(utils.QPFIntervals)+")")
	cmd.Flags().IntVarP(&cycle, "cycle", "c", -1, "UTC hour used to pick the forecast cycle (default current hour)")
	return cmd
}

func newHRRRCmd() *cobra.Command {
	var cycle int
	var hours string
	bbox := config.DefaultBBox()

	cmd := &cobra.Command{
		Use:   "hrrr [--cycle HOUR] [--fct-hour RANGE] [bounding box flags]",
		Short: "Download HRRR surface forecasts through the NOMADS grib filter",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEntries(cmd.Context(), []config.ProductEntry{{
				Kind:  string(utils.KindHRRR),
				Cycle: cycleFlag(cycle),
				Hours: hours,
				BBox:  &bbox,
			}})
		},
	}

	cmd.Flags().IntVarP(&cycle, "cycle", "c", -1, "Model cycle hour 0-23 (default current UTC hour)")
	cmd.Flags().StringVarP(&hours, "fct-hour", "f", utils.DefaultForecastHours, "Forecast hours, like '0-18' or '1,2,5-9'")
	cmd.Flags().Float64Var(&bbox.LeftLon, "left-lon", bbox.LeftLon, "Western longitude of the subset")
	cmd.Flags().Float64Var(&bbox.RightLon, "right-lon", bbox.RightLon, "Eastern longitude of the subset")
	cmd.Flags().Float64Var(&bbox.TopLat, "top-lat", bbox.TopLat, "Northern latitude of the subset")
	cmd.Flags().Float64Var(&bbox.BottomLat, "bottom-lat", bbox.BottomLat, "Southern latitude of the subset")
	return cmd
}
