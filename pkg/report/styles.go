package report

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	colorAccent  = lipgloss.AdaptiveColor{Light: "#005FAF", Dark: "#5FAFFF"}
	colorSuccess = lipgloss.AdaptiveColor{Light: "#008700", Dark: "#87D787"}
	colorWarning = lipgloss.AdaptiveColor{Light: "#AF8700", Dark: "#FFD75F"}
	colorError   = lipgloss.AdaptiveColor{Light: "#AF0000", Dark: "#FF5F5F"}
	colorMuted   = lipgloss.AdaptiveColor{Light: "#6C6C6C", Dark: "#8A8A8A"}
)

// styles holds the semantic styles used by the human renderers.
type styles struct {
	Heading lipgloss.Style
	Label   lipgloss.Style
	Name    lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Arrow   string
}

func terminalStyles(w io.Writer) styles {
	r := lipgloss.NewRenderer(w)
	return styles{
		Heading: r.NewStyle().Bold(true).Foreground(colorAccent),
		Label:   r.NewStyle().Bold(true),
		Name:    r.NewStyle().Foreground(colorAccent),
		Success: r.NewStyle().Bold(true).Foreground(colorSuccess),
		Warning: r.NewStyle().Foreground(colorWarning),
		Error:   r.NewStyle().Bold(true).Foreground(colorError),
		Muted:   r.NewStyle().Foreground(colorMuted),
		Arrow:   "→",
	}
}

func plainStyles() styles {
	plain := lipgloss.NewStyle()
	return styles{
		Heading: plain,
		Label:   plain,
		Name:    plain,
		Success: plain,
		Warning: plain,
		Error:   plain,
		Muted:   plain,
		Arrow:   "->",
	}
}
