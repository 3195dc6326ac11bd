package display

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/shayne-snap/envni/internal/config"
)

// Theme holds the styles for one output stream.
type Theme struct {
	bright  lipgloss.Style
	heading lipgloss.Style // bright + blue
	section lipgloss.Style // bright + yellow
	errTag  lipgloss.Style // bright + red
	command lipgloss.Style
	option  lipgloss.Style
	value   lipgloss.Style
	used    lipgloss.Style
	free    lipgloss.Style
	errText lipgloss.Style
}

// NewTheme builds styles for w. ColorAuto follows the writer's terminal and NO_COLOR.
func NewTheme(w io.Writer, mode config.ColorMode) *Theme {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case config.ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case config.ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	bright := r.NewStyle().Bold(true)
	return &Theme{
		bright:  bright,
		heading: bright.Foreground(lipgloss.Color("4")),
		section: bright.Foreground(lipgloss.Color("3")),
		errTag:  bright.Foreground(lipgloss.Color("1")),
		command: r.NewStyle().Foreground(lipgloss.Color("3")),
		option:  r.NewStyle().Foreground(lipgloss.Color("4")),
		value:   r.NewStyle().Foreground(lipgloss.Color("6")),
		used:    r.NewStyle().Foreground(lipgloss.Color("1")),
		free:    r.NewStyle().Foreground(lipgloss.Color("2")),
		errText: r.NewStyle().Foreground(lipgloss.Color("1")),
	}
}
