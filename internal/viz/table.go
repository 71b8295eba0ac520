// Package viz renders trajectories for the terminal: a tabulated state
// list and asciigraph curves of the pressure and velocity histories.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
)

// StateTable renders a trajectory as an aligned table: significance, time,
// travel, velocity, the three pressures, and the per-charge volumetric
// burnup. Concise mode drops plain integration steps and keeps events.
func StateTable(states gun.StateList, concise bool) string {
	if len(states) == 0 {
		return SubtleStyle.Render("(empty trajectory)")
	}

	nCharges := len(states[0].VolumeBurnupFractions())
	headers := []string{
		"significance", "time\nms", "travel\nm", "velocity\nm/s",
		"breech\npressure\nMPa", "average\npressure\nMPa", "shot\npressure\nMPa",
	}
	for i := 0; i < nCharges; i++ {
		headers = append(headers, fmt.Sprintf("burnup\n[charge %d]", i+1))
	}

	var rows [][]string
	var events []bool
	for _, s := range states {
		if concise && s.Marker == gun.Step {
			continue
		}
		row := []string{
			string(s.Marker),
			fmt.Sprintf("%.4g", s.Time()*1e3),
			fmt.Sprintf("%.4g", s.Travel()),
			fmt.Sprintf("%.4g", s.Velocity()),
			fmt.Sprintf("%.4g", s.BreechPressure()*1e-6),
			fmt.Sprintf("%.4g", s.AveragePressure()*1e-6),
			fmt.Sprintf("%.4g", s.ShotPressure()*1e-6),
		}
		for _, psi := range s.VolumeBurnupFractions() {
			row = append(row, fmt.Sprintf("%.4g", psi))
		}
		rows = append(rows, row)
		events = append(events, s.Marker != gun.Step && s.Marker != gun.Intermediate)
	}

	widths := make([]int, len(headers))
	for c, h := range headers {
		for _, line := range strings.Split(h, "\n") {
			if len(line) > widths[c] {
				widths[c] = len(line)
			}
		}
		for _, row := range rows {
			if w := lipgloss.Width(row[c]); w > widths[c] {
				widths[c] = w
			}
		}
	}

	var b strings.Builder
	headerLines := 0
	for _, h := range headers {
		if n := strings.Count(h, "\n") + 1; n > headerLines {
			headerLines = n
		}
	}
	for line := 0; line < headerLines; line++ {
		for c, h := range headers {
			parts := strings.Split(h, "\n")
			cell := ""
			if idx := line - (headerLines - len(parts)); idx >= 0 {
				cell = parts[idx]
			}
			b.WriteString(HeaderStyle.Render(pad(cell, widths[c])))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}

	for r, row := range rows {
		style := CellStyle
		if events[r] {
			style = EventStyle
		}
		for c, cell := range row {
			b.WriteString(style.Render(pad(cell, widths[c])))
			b.WriteString("  ")
		}
		b.WriteString("\n")
	}

	return b.String()
}

// Summary renders the headline figures of a completed trajectory.
func Summary(g *gun.Gun, states gun.StateList) string {
	var lines []string

	if peak, err := states.PeakAveragePressure(); err == nil {
		lines = append(lines, fmt.Sprintf("peak average pressure  %s",
			ValueStyle.Render(fmt.Sprintf("%.1f MPa", peak*1e-6))))
	}
	if peak, err := states.PeakShotPressure(); err == nil {
		lines = append(lines, fmt.Sprintf("peak shot pressure     %s",
			ValueStyle.Render(fmt.Sprintf("%.1f MPa", peak*1e-6))))
	}
	if bp, err := states.BurnoutPoint(); err == nil {
		lines = append(lines, fmt.Sprintf("burnout point          %s",
			ValueStyle.Render(fmt.Sprintf("%.3f m", bp))))
	}
	if mv, err := states.MuzzleVelocity(); err == nil {
		lines = append(lines, fmt.Sprintf("muzzle velocity        %s",
			ValueStyle.Render(fmt.Sprintf("%.1f m/s", mv))))
		lines = append(lines, fmt.Sprintf("thermal efficiency     %s",
			ValueStyle.Render(fmt.Sprintf("%.3f", g.ThermalEfficiency(mv)))))
		lines = append(lines, fmt.Sprintf("ballistic efficiency   %s",
			ValueStyle.Render(fmt.Sprintf("%.3f", g.BallisticEfficiency(mv)))))

		if peak, err := states.PeakAveragePressure(); err == nil {
			if travel, terr := states.MuzzleTravel(); terr == nil {
				lines = append(lines, fmt.Sprintf("piezoelectric eff.     %s",
					ValueStyle.Render(fmt.Sprintf("%.3f", g.PiezoelectricEfficiency(travel, mv, peak)))))
			}
		}
	}

	return PanelStyle.Render(strings.Join(lines, "\n"))
}

func pad(s string, width int) string {
	if n := width - lipgloss.Width(s); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
