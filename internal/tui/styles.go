package tui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/fluidsim/internal/particle"
)

var (
	cyan   = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim    = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	green  = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	red    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	panel = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444466"))
)

var flagTints = []struct {
	flag particle.Flags
	tint lipgloss.Color
}{
	{particle.Wall, "255"},
	{particle.Powder, "#d2b478"},
	{particle.Elastic, "#00ff88"},
	{particle.Spring, "#ff00ff"},
	{particle.Tensile, "#88aaff"},
	{particle.Viscous, "#ffaa00"},
}

const waterTint lipgloss.Color = "#00ccff"

// tintFor picks a cell color for a particle. Color-mixing particles show
// their own color.
func tintFor(f particle.Flags, c particle.Color) lipgloss.Color {
	if f.Has(particle.ColorMixing) {
		return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B))
	}
	for _, ft := range flagTints {
		if f.Has(ft.flag) {
			return ft.tint
		}
	}
	return waterTint
}
