package app

import (
	"io"

	"github.com/charmbracelet/lipgloss"
)

// Color palette
const (
	colorPrimary = "#7D56F4"
	colorSuccess = "#04B575"
	colorError   = "#FF5F5F"
	colorInfo    = "#8A8A8A"
	colorWarn    = "#F2B134"
)

type styles struct {
	title   lipgloss.Style
	success lipgloss.Style
	err     lipgloss.Style
	info    lipgloss.Style
	label   lipgloss.Style
	warn    lipgloss.Style
}

// newStyles binds the palette to out so color is only emitted on terminals.
func newStyles(out io.Writer) styles {
	r := lipgloss.NewRenderer(out)
	return styles{
		title:   r.NewStyle().Bold(true).Foreground(lipgloss.Color(colorPrimary)),
		success: r.NewStyle().Foreground(lipgloss.Color(colorSuccess)),
		err:     r.NewStyle().Foreground(lipgloss.Color(colorError)),
		info:    r.NewStyle().Foreground(lipgloss.Color(colorInfo)),
		label:   r.NewStyle().Bold(true),
		warn:    r.NewStyle().Foreground(lipgloss.Color(colorWarn)),
	}
}

func sentimentStyle(st styles, label string) lipgloss.Style {
	switch label {
	case "positive":
		return st.success
	case "negative":
		return st.err
	default:
		return st.info
	}
}
