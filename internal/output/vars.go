package output

import "github.com/charmbracelet/lipgloss"

type styles struct {
	success  lipgloss.Style
	success2 lipgloss.Style
	err      lipgloss.Style
	warning  lipgloss.Style
	info     lipgloss.Style
	debug    lipgloss.Style
	detail   lipgloss.Style
	header   lipgloss.Style
}

func newStyles(r *lipgloss.Renderer) styles {
	return styles{
		success:  r.NewStyle().Foreground(lipgloss.Color("37")),            // dark green
		success2: r.NewStyle().Foreground(lipgloss.Color("2")),             // green
		err:      r.NewStyle().Foreground(lipgloss.Color("9")),             // red
		warning:  r.NewStyle().Foreground(lipgloss.Color("11")),            // yellow
		info:     r.NewStyle().Foreground(lipgloss.Color("14")),            // cyan
		debug:    r.NewStyle().Foreground(lipgloss.Color("250")),           // light grey
		detail:   r.NewStyle().Foreground(lipgloss.Color("13")),            // purple
		header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("69")), // purple
	}
}

var StyleSymbols = map[string]string{
	"pass":    "✓",
	"fail":    "✗",
	"warning": "!",
	"info":    "ℹ",
	"arrow":   "→",
	"bullet":  "•",
	"hline":   "━",
}
