package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"gonum.org/v1/gonum/spatial/r2"

	"github.com/san-kum/mpmsim/internal/experiment"
	"github.com/san-kum/mpmsim/internal/mpm"
)

const (
	canvasWidth     = 60
	canvasHeight    = 30
	historyCapacity = 600
	gifFrameSize    = 256
	maxStepsPerTick = 32
	wallCells       = 2
)

type TickMsg time.Time

// Model is the bubbletea live view. All simulator access goes through the
// session.
type Model struct {
	session      *experiment.Session
	name         string
	canvas       *Canvas
	positions    []r2.Vec
	stats        mpm.StepStats
	running      bool
	stepsPerTick int
	keHistory    []float64
	recording    bool
	frames       []*image.Paletted
	frame        *mpm.Frame
	gifPath      string
	status       string
	showHelp     bool
}

func NewModel(session *experiment.Session, name string) Model {
	m := Model{
		session:      session,
		name:         name,
		canvas:       NewCanvas(canvasWidth, canvasHeight),
		running:      true,
		stepsPerTick: 1,
		keHistory:    make([]float64, 0, historyCapacity),
		frame:        mpm.NewFrame(gifFrameSize, gifFrameSize, 1),
		gifPath:      "simulation.gif",
	}
	m.stats = session.Stats()
	m.draw()
	return m
}

// WithGIFPath sets where recordings are written.
func (m Model) WithGIFPath(path string) Model {
	m.gifPath = path
	return m
}

func tick() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg { return TickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}

// Update handles input and steps the simulation on every tick while running.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			if m.recording {
				m.stopRecording()
			}
			return m, tea.Quit
		case " ":
			m.running = !m.running
		case "s":
			if !m.running {
				m.advance(1)
			}
		case "r":
			m.reset()
		case "+", "=":
			m.stepsPerTick = min(m.stepsPerTick*2, maxStepsPerTick)
		case "-", "_":
			m.stepsPerTick = max(m.stepsPerTick/2, 1)
		case "g":
			if m.recording {
				m.stopRecording()
			} else {
				m.recording = true
				m.frames = make([]*image.Paletted, 0)
				m.status = "recording"
			}
		case "?":
			m.showHelp = !m.showHelp
		}
	case TickMsg:
		if m.running {
			m.advance(m.stepsPerTick)
		}
		return m, tick()
	}
	return m, nil
}

func (m *Model) advance(n int) {
	m.stats = m.session.Step(n)
	if len(m.keHistory) == historyCapacity {
		copy(m.keHistory, m.keHistory[1:])
		m.keHistory = m.keHistory[:historyCapacity-1]
	}
	m.keHistory = append(m.keHistory, m.stats.KineticEnergy)
	m.draw()
	if m.recording {
		m.captureFrame()
	}
}

func (m *Model) reset() {
	if err := m.session.Reset(); err != nil {
		m.status = fmt.Sprintf("reset failed: %v", err)
		return
	}
	m.stats = m.session.Stats()
	m.keHistory = m.keHistory[:0]
	m.status = "reset"
	m.draw()
}

func (m *Model) draw() {
	m.canvas.Clear()
	m.positions = m.session.Positions(m.positions[:0])
	m.canvas.PlotParticles(m.positions, m.session.GridSize(), wallCells)
}

// captureFrame renders the particles at full resolution, flipped so +y is
// up, into a two-color GIF frame.
func (m *Model) captureFrame() {
	m.frame.Clear()
	m.session.Render(m.frame)

	w, h := m.frame.Width, m.frame.Height
	img := image.NewPaletted(image.Rect(0, 0, w, h), color.Palette{color.Black, color.White})
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if m.frame.At(x, y) != 0 {
				img.SetColorIndex(x, h-1-y, 1)
			}
		}
	}
	m.frames = append(m.frames, img)
}

func (m *Model) stopRecording() {
	m.recording = false
	if err := saveGIF(m.gifPath, m.frames); err != nil {
		m.status = fmt.Sprintf("gif: %v", err)
	} else if len(m.frames) > 0 {
		m.status = fmt.Sprintf("saved %d frames to %s", len(m.frames), m.gifPath)
	}
	m.frames = nil
}

func saveGIF(path string, frames []*image.Paletted) error {
	if len(frames) == 0 {
		return nil
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, 2)
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return gif.EncodeAll(f, &anim)
}

func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("mpmsim · " + m.name))
	b.WriteByte('\n')

	switch {
	case m.recording:
		b.WriteString(statusRecording.Render("● REC"))
	case m.running:
		b.WriteString(statusRunning.Render("▶ running"))
	default:
		b.WriteString(statusPaused.Render("❚❚ paused"))
	}
	b.WriteString("\n\n")

	st := m.stats
	b.WriteString(row("step", "%d", st.Step) + "\n")
	b.WriteString(row("time", "%.2f", st.Time) + "\n")
	b.WriteString(row("particles", "%d", st.Particles) + "\n")
	b.WriteString(row("steps/tick", "%d", m.stepsPerTick) + "\n")
	b.WriteString(row("kinetic", "%.4g", st.KineticEnergy) + "\n")
	b.WriteString(row("momentum", "(%.3g, %.3g)", st.MomentumX, st.MomentumY) + "\n")
	b.WriteString(row("det F", "[%.3f, %.3f]", st.MinJ, st.MaxJ) + "\n")
	b.WriteString(row("active cells", "%d", st.ActiveCells) + "\n")
	if st.Degenerate > 0 {
		b.WriteString(warnStyle.Render(fmt.Sprintf("%d degenerate elements", st.Degenerate)) + "\n")
	}
	b.WriteString(separator(40) + "\n")

	if len(m.keHistory) > 1 {
		graph := asciigraph.Plot(m.keHistory,
			asciigraph.Height(8),
			asciigraph.Width(32),
			asciigraph.Caption("kinetic energy"))
		b.WriteString(graphStyle.Render(graph))
		b.WriteByte('\n')
	}
	if m.status != "" {
		b.WriteString(helpStyle.Render(m.status) + "\n")
	}

	help := "space pause · s step · r reset · g gif · q quit · ? more"
	if m.showHelp {
		help = "space pause/resume\ns     single step (paused)\nr     reset\n+/-   steps per tick\ng     toggle GIF recording\nq     quit"
	}
	b.WriteString(helpStyle.Render(help))

	return lipgloss.JoinHorizontal(lipgloss.Top,
		canvasStyle.Render(strings.TrimRight(m.canvas.String(), "\n")),
		statsStyle.Render(b.String()),
	)
}
