// Package tui replays a computed trajectory in the terminal: the pressure
// and velocity histories build up in step with a scrubbing cursor, with
// the state readout alongside.
package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/gun"
	"github.com/Prethea-Phoenixia/minimalist-interior-ballistics/internal/viz"
)

type tickMsg time.Time

// Model is the bubbletea model replaying one trajectory.
type Model struct {
	gun    *gun.Gun
	states gun.StateList

	index   int
	playing bool
	fps     int
	width   int
}

// NewModel builds a replay over a completed trajectory.
func NewModel(g *gun.Gun, states gun.StateList, fps int) Model {
	if fps <= 0 {
		fps = 15
	}
	return Model{gun: g, states: states, playing: true, fps: fps, width: 80}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd { return m.tick() }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tickMsg:
		if m.playing && m.index < len(m.states)-1 {
			m.index++
		}
		return m, m.tick()

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.playing = !m.playing
		case "left", "h":
			m.playing = false
			if m.index > 0 {
				m.index--
			}
		case "right", "l":
			m.playing = false
			if m.index < len(m.states)-1 {
				m.index++
			}
		case "r":
			m.index = 0
			m.playing = true
		case "end":
			m.index = len(m.states) - 1
		}
		return m, nil
	}
	return m, nil
}

func (m Model) View() string {
	if len(m.states) == 0 {
		return "no trajectory\n"
	}

	s := m.states[m.index]

	graphWidth := m.width - 12
	if graphWidth < 30 {
		graphWidth = 30
	}

	pressures := make([]float64, m.index+1)
	velocities := make([]float64, m.index+1)
	for i := 0; i <= m.index; i++ {
		pressures[i] = m.states[i].AveragePressure() * 1e-6
		velocities[i] = m.states[i].Velocity()
	}

	var b strings.Builder
	b.WriteString(viz.TitleStyle.Render(m.gun.Name))
	b.WriteString("\n\n")

	if m.index > 0 {
		b.WriteString(asciigraph.Plot(pressures,
			asciigraph.Height(8),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("average pressure (MPa)"),
		))
		b.WriteString("\n\n")
		b.WriteString(asciigraph.Plot(velocities,
			asciigraph.Height(6),
			asciigraph.Width(graphWidth),
			asciigraph.Caption("velocity (m/s)"),
		))
		b.WriteString("\n\n")
	}

	status := "paused"
	if m.playing {
		status = "playing"
	}
	b.WriteString(viz.PanelStyle.Render(strings.Join([]string{
		fmt.Sprintf("state %d/%d  [%s]  %s", m.index+1, len(m.states), s.Marker, status),
		fmt.Sprintf("t = %.3f ms   l = %.3f m   v = %.1f m/s", s.Time()*1e3, s.Travel(), s.Velocity()),
		fmt.Sprintf("P_b = %.1f MPa   P_avg = %.1f MPa   P_s = %.1f MPa",
			s.BreechPressure()*1e-6, s.AveragePressure()*1e-6, s.ShotPressure()*1e-6),
	}, "\n")))
	b.WriteString("\n")
	b.WriteString(viz.SubtleStyle.Render("space pause · ←/→ scrub · r restart · q quit"))
	b.WriteString("\n")

	return b.String()
}

// Run replays the trajectory until the user quits.
func Run(g *gun.Gun, states gun.StateList, fps int) error {
	p := tea.NewProgram(NewModel(g, states, fps))
	_, err := p.Run()
	return err
}
