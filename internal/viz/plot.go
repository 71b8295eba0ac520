package viz

import (
	"github.com/guptarohit/asciigraph"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
)

// PressureCurve plots the average-pressure history, MPa against the
// sample index of the non-intermediate states.
func PressureCurve(states gun.StateList, width, height int) string {
	data := make([]float64, 0, len(states))
	for _, s := range states {
		data = append(data, s.AveragePressure()*1e-6)
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("average pressure (MPa)"),
	)
}

// VelocityCurve plots the velocity history, m/s against the sample index.
func VelocityCurve(states gun.StateList, width, height int) string {
	data := make([]float64, 0, len(states))
	for _, s := range states {
		data = append(data, s.Velocity())
	}
	return asciigraph.Plot(data,
		asciigraph.Height(height),
		asciigraph.Width(width),
		asciigraph.Caption("velocity (m/s)"),
	)
}
