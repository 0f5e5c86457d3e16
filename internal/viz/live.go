package viz

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/gravsim/internal/nbody"
)

const (
	width           = 80
	height          = 24
	historyCapacity = 120
)

type TickMsg time.Time

// clock turns wall-clock ticks into simulation timestamps that stand still
// while the view is paused.
type clock struct {
	sim      time.Time
	lastTick time.Time
	started  bool
}

func (c *clock) tick(now time.Time, running bool) time.Time {
	if !c.started {
		c.sim = now
		c.lastTick = now
		c.started = true
		return c.sim
	}
	if running {
		c.sim = c.sim.Add(now.Sub(c.lastTick))
	}
	c.lastTick = now
	return c.sim
}

// Model is the bubbletea host of an engine.
type Model struct {
	eng         *nbody.Engine
	canvas      *Canvas
	snap        nbody.Snapshot
	clock       clock
	fps         int
	running     bool
	showHelp    bool
	theme       Theme
	styles      styles
	elapsed     float64
	momentum    []float64
	maxSpeed    float64
	nonFinite   bool
	firstTickAt time.Time
}

// NewModel wraps eng; fps sets the tick rate.
func NewModel(eng *nbody.Engine, fps int, theme Theme) Model {
	if fps <= 0 {
		fps = 60
	}
	m := Model{
		eng:      eng,
		fps:      fps,
		running:  true,
		theme:    theme,
		styles:   newStyles(theme),
		momentum: make([]float64, 0, historyCapacity),
	}
	m.resize(width, height)
	return m
}

// Run starts a full-screen program around eng and blocks until the user quits.
func Run(eng *nbody.Engine, fps int, theme string) error {
	p := tea.NewProgram(NewModel(eng, fps, GetTheme(theme)), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m Model) tickCmd() tea.Cmd {
	return tea.Tick(time.Second/time.Duration(m.fps), func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return m.tickCmd()
}

// Viewport is the engine viewport: the canvas size in sub-pixels.
func (m Model) Viewport() nbody.Size {
	return nbody.Size{Width: float64(m.canvas.SubWidth()), Height: float64(m.canvas.SubHeight())}
}

// Update handles input events and advances the engine on every tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "t":
			m.theme = NextTheme(m.theme)
			m.styles = newStyles(m.theme)
		case "?":
			m.showHelp = !m.showHelp
		}
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		if m.snap.Len() > 0 {
			m.draw()
		}
	case TickMsg:
		m.advance(time.Time(msg))
		return m, m.tickCmd()
	}
	return m, nil
}

// resize fits the canvas next to the stats panel.
func (m *Model) resize(w, h int) {
	cols := w - statsWidth - 4
	rows := h - 1
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	m.canvas = NewCanvas(cols, rows)
}

func (m *Model) advance(now time.Time) {
	running := m.running
	if m.snap.Len() == 0 {
		// The first frame always runs so there is something to draw.
		running = true
		m.firstTickAt = now
	}
	if !running {
		m.clock.tick(now, false)
		return
	}

	t := m.clock.tick(now, true)
	m.snap = m.eng.Advance(t, m.Viewport())
	m.elapsed = now.Sub(m.firstTickAt).Seconds()

	m.momentum = append(m.momentum, r2.Norm(nbody.Momentum(m.snap)))
	if len(m.momentum) > historyCapacity {
		m.momentum = m.momentum[1:]
	}
	m.maxSpeed = nbody.MaxSpeed(m.snap)
	m.nonFinite = !m.snap.Finite()

	m.draw()
}

func (m *Model) draw() {
	m.canvas.Clear()
	for _, b := range m.snap.All() {
		m.canvas.Plot(b.Position)
	}
}

// View renders the canvas and the stats panel.
func (m Model) View() string {
	st := m.styles
	canvasView := st.canvas.Render(m.canvas.String())

	var s strings.Builder
	s.WriteString(st.header.Render("GRAVSIM ✦") + "\n")
	if m.running {
		s.WriteString(st.status.Render("RUNNING") + "\n\n")
	} else {
		s.WriteString(st.paused.Render("PAUSED") + "\n\n")
	}

	vp := m.Viewport()
	p := m.eng.Params()
	s.WriteString(st.label.Render("Frame") + st.value.Render(fmt.Sprintf("%d", m.eng.Frame())) + "\n")
	s.WriteString(st.label.Render("Time") + st.value.Render(fmt.Sprintf("%.2fs", m.elapsed)) + "\n")
	s.WriteString(st.label.Render("Bodies") + st.value.Render(fmt.Sprintf("%d", p.Bodies)) + "\n")
	s.WriteString(st.label.Render("G") + st.value.Render(fmt.Sprintf("%.2f", p.G)) + "\n")
	s.WriteString(st.label.Render("Viewport") + st.value.Render(fmt.Sprintf("%.0fx%.0f", vp.Width, vp.Height)) + "\n")
	s.WriteString(st.label.Render("Resets") + st.value.Render(fmt.Sprintf("%d", m.eng.Resets())) + "\n")
	s.WriteString(st.label.Render("Max |v|") + st.value.Render(fmt.Sprintf("%.2f", m.maxSpeed)) + "\n")
	s.WriteString(st.label.Render("Theme") + st.value.Render(m.theme.Name) + "\n")
	if m.nonFinite {
		s.WriteString(st.warning.Render("non-finite state") + "\n")
	}

	if len(m.momentum) > 1 {
		chart := asciigraph.Plot(m.momentum,
			asciigraph.Height(4),
			asciigraph.Width(statsWidth-12),
			asciigraph.Caption("|P|"),
		)
		s.WriteString("\n" + st.graph.Render(chart) + "\n")
	}

	s.WriteString(st.help.Render("SP:Pause T:Theme ?:Help Q:Quit"))
	mainView := lipgloss.JoinHorizontal(lipgloss.Top, canvasView, st.stats.Render(s.String()))

	if m.showHelp {
		return `
╔══════════════════════════════════════╗
║          KEYBOARD SHORTCUTS          ║
╠══════════════════════════════════════╣
║  Space    - Pause/Resume simulation  ║
║  T        - Cycle themes             ║
║  Q        - Quit                     ║
║  ?        - Toggle this help         ║
║  (resize the terminal to reset)      ║
╚══════════════════════════════════════╝
` + "\n" + mainView
	}
	return mainView
}
