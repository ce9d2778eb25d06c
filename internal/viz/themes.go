package viz

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

// Theme is the colour scheme of the live view.
type Theme struct {
	Name   string
	Circle lipgloss.Color
	Edges  lipgloss.Color
	Bodies []lipgloss.Color
	Accent lipgloss.Color
	Muted  lipgloss.Color
}

var (
	ThemeClassic = Theme{
		Name:   "classic",
		Circle: lipgloss.Color("#444444"),
		Edges:  lipgloss.Color("#888888"),
		Bodies: []lipgloss.Color{"#ff3b30", "#34c759", "#ff9500", "#ffcc00", "#ffffff"},
		Accent: lipgloss.Color("#00ccff"),
		Muted:  lipgloss.Color("#666688"),
	}

	ThemeRetroGreen = Theme{
		Name:   "retro",
		Circle: lipgloss.Color("#005500"),
		Edges:  lipgloss.Color("#00aa00"),
		Bodies: []lipgloss.Color{"#00ff00", "#88ff88", "#00cc00"},
		Accent: lipgloss.Color("#88ff88"),
		Muted:  lipgloss.Color("#005500"),
	}

	ThemeOcean = Theme{
		Name:   "ocean",
		Circle: lipgloss.Color("#1e3a5f"),
		Edges:  lipgloss.Color("#3d5a80"),
		Bodies: []lipgloss.Color{"#00b4d8", "#90e0ef", "#0077b6", "#caf0f8"},
		Accent: lipgloss.Color("#48cae4"),
		Muted:  lipgloss.Color("#3d5a80"),
	}

	ThemeSpectrum = Theme{
		Name:   "spectrum",
		Circle: lipgloss.Color("#3a3a3a"),
		Edges:  lipgloss.Color("#6c6c6c"),
		Bodies: Spectrum(12),
		Accent: lipgloss.Color("#ffffff"),
		Muted:  lipgloss.Color("#6c6c6c"),
	}
)

var Themes = []Theme{ThemeClassic, ThemeRetroGreen, ThemeOcean, ThemeSpectrum}

// Spectrum returns n colours evenly spaced in hue at equal lightness.
func Spectrum(n int) []lipgloss.Color {
	n = max(n, 1)
	colors := make([]lipgloss.Color, n)
	for i := range colors {
		c := colorful.Hcl(360*float64(i)/float64(n), 0.9, 0.7).Clamped()
		colors[i] = lipgloss.Color(c.Hex())
	}
	return colors
}

// Style returns the style for a canvas layer.
func (t Theme) Style(layer int) lipgloss.Style {
	switch {
	case layer == LayerCircle:
		return lipgloss.NewStyle().Foreground(t.Circle)
	case layer == LayerEdges:
		return lipgloss.NewStyle().Foreground(t.Edges)
	default:
		i := (layer - LayerBody) % len(t.Bodies)
		return lipgloss.NewStyle().Foreground(t.Bodies[i])
	}
}
