package viz

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Pandicon/snails-of-pursuit/internal/pursuit"
	"github.com/Pandicon/snails-of-pursuit/internal/session"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"gonum.org/v1/gonum/spatial/r2"
)

const (
	width         = 60
	height        = 24
	statsWidth    = 40
	frameInterval = time.Second / 60

	radiusStep  = 1.0
	speedFactor = 1.25
)

type TickMsg time.Time

func tick() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg { return TickMsg(t) })
}

// Model drives a session from the Bubble Tea loop. All commands are applied
// from Update, so the session has a single writer.
type Model struct {
	sess    *session.Session
	canvas  *Canvas
	theme   int
	zoom    zoom
	outcome string
	err     error
}

func NewModel(sess *session.Session) Model {
	return Model{
		sess:   sess,
		canvas: NewCanvas(width, height),
		zoom:   newZoom(sess.Config().Radius),
	}
}

// Session returns the driven session.
func (m Model) Session() *session.Session { return m.sess }

// Err returns the error of the last rejected command, if any.
func (m Model) Err() error { return m.err }

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update translates input into session commands and advances the
// simulation on every frame tick.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "t":
			m.theme = (m.theme + 1) % len(Themes)
			return m, nil
		case "z":
			m.zoom.follow = !m.zoom.follow
			return m, nil
		}
		if cmd := m.command(msg.String()); cmd != nil {
			m.apply(cmd)
		}

	case tea.WindowSizeMsg:
		w := max(msg.Width-statsWidth-4, 10)
		h := max(msg.Height-2, 6)
		m.canvas = NewCanvas(w, h)

	case TickMsg:
		m.apply(session.Tick{})
		m.zoom.update(m.sess.State(), m.sess.Config().Radius)
		return m, tick()
	}
	return m, nil
}

// command maps a key to the session command it issues.
func (m Model) command(key string) session.Command {
	cfg := m.sess.Config()
	switch key {
	case " ":
		return session.Toggle{}
	case "n":
		return session.Step{}
	case "s":
		return session.Solve{}
	case "m":
		if m.sess.Mode() == session.Iterative {
			return session.SetMode{Mode: session.ClosedForm}
		}
		return session.SetMode{Mode: session.Iterative}
	case "r":
		return session.Reset{}
	case "+", "=":
		return session.SetBodyCount{N: cfg.BodyCount + 1}
	case "-", "_":
		return session.SetBodyCount{N: cfg.BodyCount - 1}
	case "]":
		return session.SetRadius{Radius: cfg.Radius + radiusStep}
	case "[":
		return session.SetRadius{Radius: cfg.Radius - radiusStep}
	case ".":
		return session.SetSpeed{Speed: cfg.Speed * speedFactor}
	case ",":
		return session.SetSpeed{Speed: cfg.Speed / speedFactor}
	case ">":
		return session.SetStepsPerFrame{N: m.sess.StepsPerFrame() * 2}
	case "<":
		return session.SetStepsPerFrame{N: m.sess.StepsPerFrame() / 2}
	}
	return nil
}

func (m *Model) apply(cmd session.Command) {
	res, err := m.sess.Apply(cmd)
	if _, isTick := cmd.(session.Tick); isTick && err == nil && res.Steps == 0 {
		return
	}
	m.err = err
	switch {
	case res.Complete:
		m.outcome = res.Report.Outcome.String()
	case res.Reinitialized, res.Solved:
		m.outcome = ""
	}
}

func (m Model) View() string {
	theme := Themes[m.theme]
	cfg := m.sess.Config()

	scene := DefaultScene(cfg.Radius)
	scene.Extent = m.zoom.extent
	scene.Draw(m.canvas, m.sess.State())
	plot := m.canvas.Render(func(layer int, s string) string {
		return theme.Style(layer).Render(s)
	})

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(plot),
		statsStyle.Render(m.stats()),
	)
}

func (m Model) stats() string {
	cfg := m.sess.Config()
	st := m.sess.State()

	var b strings.Builder
	b.WriteString(headerStyle.Render("SNAILS OF PURSUIT") + "\n")
	b.WriteString(row("status", m.status()) + "\n")
	b.WriteString(row("mode", m.sess.Mode().String()) + "\n")
	b.WriteString(row("bodies", fmt.Sprintf("%d", cfg.BodyCount)) + "\n")
	b.WriteString(row("radius", fmt.Sprintf("%.2f", cfg.Radius)) + "\n")
	b.WriteString(row("speed", fmt.Sprintf("%.3f", cfg.Speed)) + "\n")
	b.WriteString(row("dt", fmt.Sprintf("%g", cfg.Timestep)) + "\n")
	b.WriteString(row("steps/frame", fmt.Sprintf("%d", m.sess.StepsPerFrame())) + "\n")

	if m.sess.Phase() == session.Solved {
		b.WriteString(row("samples", fmt.Sprintf("%d", len(st.History[0]))) + "\n")
		if p := pursuit.Spiral(cfg); !math.IsInf(p.CaptureTime, 0) {
			b.WriteString(row("capture", fmt.Sprintf("%.3f", p.CaptureTime)) + "\n")
		}
	} else {
		b.WriteString(row("steps", fmt.Sprintf("%d", m.sess.Steps())) + "\n")
		b.WriteString(row("time", fmt.Sprintf("%.3f", m.sess.Time())) + "\n")
	}
	b.WriteString(row("r(0)", fmt.Sprintf("%.4f", r2.Norm(st.Positions[0]))) + "\n")
	if m.outcome != "" {
		b.WriteString(row("outcome", m.outcome) + "\n")
	}

	if m.err != nil {
		msg := m.err.Error()
		if errors.Is(m.err, session.ErrClosedFormMode) {
			msg = "closed-form mode: press m for stepping"
		}
		b.WriteString(errorStyle.Render(msg) + "\n")
	}

	b.WriteString(helpStyle.Render("space run  n step  s solve  m mode  r reset\n+/- bodies  ]/[ radius  ./, speed\n>/< steps/frame  z zoom  t theme  q quit"))
	return b.String()
}

func (m Model) status() string {
	switch {
	case m.sess.Running():
		return StatusRunning.Render("RUNNING")
	case m.sess.Phase() == session.Solved:
		return StatusSolved.Render("SOLVED")
	default:
		return StatusPaused.Render("PAUSED")
	}
}

// Run starts the live view on the terminal and blocks until the user quits.
func Run(sess *session.Session) error {
	_, err := tea.NewProgram(NewModel(sess), tea.WithAltScreen()).Run()
	return err
}
