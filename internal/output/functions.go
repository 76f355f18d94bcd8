package output

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/hashicorp/go-multierror"
	gribhttp "github.com/tanq16/gribdl/internal/downloaders/http"
	"github.com/tanq16/gribdl/internal/runner"
	"github.com/tanq16/gribdl/internal/utils"
)

type Printer struct {
	w     io.Writer
	style styles
}

// NewPrinter styles output for w; colour is dropped when w is not a terminal.
func NewPrinter(w io.Writer) *Printer {
	return &Printer{w: w, style: newStyles(lipgloss.NewRenderer(w))}
}

var stdout = NewPrinter(os.Stdout)

func PrintSuccess(text string) { stdout.line(stdout.style.success, text) }
func PrintError(text string)   { stdout.line(stdout.style.err, text) }
func PrintWarning(text string) { stdout.line(stdout.style.warning, text) }
func PrintInfo(text string)    { stdout.line(stdout.style.info, text) }

func PrintSummary(reports []runner.Report) { stdout.Summary(reports) }

func (p *Printer) line(s lipgloss.Style, text string) {
	fmt.Fprintln(p.w, s.Render(text))
}

func (p *Printer) Error(text string) {
	p.line(p.style.err, fmt.Sprintf("%s %s", StyleSymbols["fail"], text))
}

// Summary prints one block per product run followed by the per-file
// failures, if any.
func (p *Printer) Summary(reports []runner.Report) {
	width := min(terminalWidth(p.w, 60), 80)
	fmt.Fprintln(p.w)
	p.line(p.style.header, "Download summary")
	p.line(p.style.debug, strings.Repeat(StyleSymbols["hline"], width))
	for _, r := range reports {
		p.line(p.style.detail, fmt.Sprintf("%s %s", StyleSymbols["arrow"], describe(r.Spec)))
		p.line(p.style.debug, fmt.Sprintf("  %d remote, %d already local, %d workers", r.Candidates, r.Skipped, r.Workers))
		p.line(p.style.success2, fmt.Sprintf("  %s Downloaded %d of %d (%s)", StyleSymbols["pass"], r.Downloaded, r.Attempted, utils.FormatBytes(uint64(r.Bytes))))
		if r.Unavailable > 0 {
			p.line(p.style.warning, fmt.Sprintf("  %s Unavailable %d", StyleSymbols["warning"], r.Unavailable))
		}
		if r.Failed > 0 {
			p.line(p.style.err, fmt.Sprintf("  %s Failed %d", StyleSymbols["fail"], r.Failed))
		}
		p.failures(r)
	}
	fmt.Fprintln(p.w)
}

func (p *Printer) failures(r runner.Report) {
	if r.Err == nil {
		return
	}
	var merr *multierror.Error
	if !errors.As(r.Err, &merr) {
		p.line(p.style.err, fmt.Sprintf("    %v", r.Err))
		return
	}
	for i, err := range merr.Errors {
		p.line(p.style.err, fmt.Sprintf("    %d. %v", i+1, err))
	}
}

func describe(spec utils.ProductSpec) string {
	switch spec.Kind {
	case utils.KindQPE:
		return fmt.Sprintf("QPE %s %02dH", spec.Product, spec.Interval)
	case utils.KindQPF:
		return fmt.Sprintf("QPF %02dH (requested hour %02d)", spec.Interval, spec.Cycle)
	case utils.KindHRRR:
		return fmt.Sprintf("HRRR t%02dz, %d forecast hours", spec.Cycle, len(spec.ForecastHours))
	}
	return string(spec.Kind)
}

// Outcomes lists each attempted file with its result, for --debug runs.
func (p *Printer) Outcomes(outcomes []gribhttp.Outcome) {
	for _, o := range outcomes {
		switch o.Kind {
		case gribhttp.Success:
			p.line(p.style.success, fmt.Sprintf("  %s %s", StyleSymbols["pass"], o.Task.Filename))
		case gribhttp.Unavailable:
			p.line(p.style.warning, fmt.Sprintf("  %s %s", StyleSymbols["warning"], o.Task.Filename))
		default:
			p.line(p.style.err, fmt.Sprintf("  %s %s", StyleSymbols["fail"], o.Task.Filename))
		}
	}
}

func PrintOutcomes(outcomes []gribhttp.Outcome) { stdout.Outcomes(outcomes) }
