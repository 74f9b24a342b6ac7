package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/fluidsim/internal/config"
	"github.com/san-kum/fluidsim/internal/metrics"
	"github.com/san-kum/fluidsim/internal/particle"
	"github.com/san-kum/fluidsim/internal/scenario"
	"github.com/san-kum/fluidsim/internal/sim"
)

const (
	historyLen = 120
	maxSpeed   = 16
	frameTime  = 33 * time.Millisecond
)

type tickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameTime, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Model is the Bubble Tea model of the live view.
type Model struct {
	registry *scenario.Registry
	cfg      *config.Config

	scene  *scenario.Scene
	sim    *sim.Simulator
	energy *metrics.KineticEnergy

	paused  bool
	speed   int
	step    int
	simTime float64
	history []float64
	err     error

	lastFrame time.Time
	fps       float64

	width  int
	height int
}

// New builds the configured scene and returns a model ready to run it.
func New(registry *scenario.Registry, cfg *config.Config) (*Model, error) {
	m := &Model{
		registry: registry,
		cfg:      cfg,
		speed:    1,
		width:    100,
		height:   36,
		energy:   metrics.NewKineticEnergy(),
	}
	if err := m.reset(); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Model) reset() error {
	sc, err := m.registry.Build(m.cfg)
	if err != nil {
		return err
	}
	m.scene = sc
	m.sim = sc.Simulator()
	m.step = 0
	m.simTime = 0
	m.history = m.history[:0]
	m.energy.Reset()
	m.err = nil
	return nil
}

func (m *Model) Init() tea.Cmd { return tick() }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m, m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tickMsg:
		now := time.Time(msg)
		if !m.lastFrame.IsZero() {
			if dt := now.Sub(m.lastFrame).Seconds(); dt > 0 {
				m.fps = 1 / dt
			}
		}
		m.lastFrame = now
		if !m.paused && m.err == nil {
			m.advance()
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return tea.Quit
	case " ", "p":
		m.paused = !m.paused
	case "r":
		if err := m.reset(); err != nil {
			m.err = err
		}
		return tea.ClearScreen
	case "+", "=":
		m.speed = min(m.speed*2, maxSpeed)
	case "-", "_":
		m.speed = max(m.speed/2, 1)
	case ".":
		if m.paused && m.err == nil {
			steps := m.speed
			m.speed = 1
			m.advance()
			m.speed = steps
		}
	}
	return nil
}

func (m *Model) advance() {
	for i := 0; i < m.speed; i++ {
		if m.step >= m.cfg.Steps {
			m.paused = true
			return
		}
		if err := m.sim.Step(m.cfg.Dt); err != nil {
			m.err = &sim.StepError{Step: m.step, Time: m.simTime, Wrapped: err}
			return
		}
		m.step++
		m.simTime += m.cfg.Dt
		m.energy.Observe(m.scene.System, m.simTime)
		m.history = append(m.history, m.energy.Sample())
		if len(m.history) > historyLen {
			m.history = m.history[1:]
		}
	}
}

func (m *Model) View() string {
	cw := max(m.width-6, 40)
	ch := max(m.height-16, 10)

	canvas := NewCanvas(cw, ch)
	canvas.SetView(m.scene.Bounds)
	drawScene(canvas, m.scene)

	var b strings.Builder

	statusIcon := green.Render("●")
	statusText := green.Render("running")
	if m.paused {
		statusIcon = yellow.Render("○")
		statusText = yellow.Render("paused")
	}
	if m.err != nil {
		statusIcon = red.Render("✕")
		statusText = red.Render("failed")
	}
	b.WriteString(fmt.Sprintf("\n %s %s  %s  %s\n",
		statusIcon, cyan.Render(m.scene.Name), statusText,
		dim.Render(fmt.Sprintf("%d/%d  t=%.2fs  x%d  %.0ffps", m.step, m.cfg.Steps, m.simTime, m.speed, m.fps))))

	b.WriteString(panel.Render(strings.TrimSuffix(canvas.String(), "\n")))
	b.WriteString("\n")

	sys := m.scene.System
	b.WriteString(fmt.Sprintf(" %s %s  %s %s  %s %s  %s %s\n",
		dim.Render("particles"), white.Render(fmt.Sprint(sys.ParticleCount())),
		dim.Render("groups"), white.Render(fmt.Sprint(sys.GroupCount())),
		dim.Render("contacts"), white.Render(fmt.Sprint(len(sys.Contacts()))),
		dim.Render("body contacts"), white.Render(fmt.Sprint(len(sys.BodyContacts())))))

	if len(m.history) > 1 {
		chart := asciigraph.Plot(m.history, asciigraph.Height(4), asciigraph.Width(min(cw, 60)), asciigraph.Caption("kinetic energy"))
		b.WriteString(chart + "\n")
	}
	if m.err != nil {
		b.WriteString(red.Render(" "+m.err.Error()) + "\n")
	}
	b.WriteString(dim.Render(" space pause  r reset  +/- speed  . step  q quit") + "\n")
	return b.String()
}

func drawScene(c *Canvas, sc *scenario.Scene) {
	for _, body := range sc.World.Bodies() {
		for _, outline := range body.Outlines() {
			for i := 1; i < len(outline); i++ {
				c.Line(outline[i-1], outline[i])
			}
		}
	}

	sys := sc.System
	flags := sys.Flags()
	var colors []particle.Color
	if sys.ParticleCount() > 0 && hasColorMixing(flags) {
		colors = sys.Colors()
	}
	for i, p := range sys.Positions() {
		var col particle.Color
		if colors != nil {
			col = colors[i]
		}
		c.Plot(p, tintFor(flags[i], col))
	}
}

func hasColorMixing(flags []particle.Flags) bool {
	for _, f := range flags {
		if f.Has(particle.ColorMixing) {
			return true
		}
	}
	return false
}

func (m *Model) Paused() bool           { return m.paused }
func (m *Model) Step() int              { return m.step }
func (m *Model) Speed() int             { return m.speed }
func (m *Model) Scene() *scenario.Scene { return m.scene }
func (m *Model) Err() error             { return m.err }

// Run blocks until the user quits the live view.
func Run(registry *scenario.Registry, cfg *config.Config) error {
	m, err := New(registry, cfg)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}
