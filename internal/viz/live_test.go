package viz

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/san-kum/mpmsim/internal/config"
	"github.com/san-kum/mpmsim/internal/experiment"
)

func newTestModel(t *testing.T) Model {
	t.Helper()
	cfg := config.GetPreset("block")
	cfg.Grid.Size = 32
	cfg.Particles.Count = 64
	s, err := experiment.NewSession(cfg, nil, nil)
	if err != nil {
		t.Fatal(err)
	}
	return NewModel(s, "block").WithGIFPath(filepath.Join(t.TempDir(), "out.gif"))
}

func key(s string) tea.KeyMsg {
	if s == " " {
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func update(m Model, msg tea.Msg) Model {
	next, _ := m.Update(msg)
	return next.(Model)
}

func TestModelTickSteps(t *testing.T) {
	m := newTestModel(t)
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	if m.stats.Step != 2 {
		t.Errorf("expected 2 steps, got %d", m.stats.Step)
	}
	if len(m.keHistory) != 2 {
		t.Errorf("expected 2 history samples, got %d", len(m.keHistory))
	}
}

func TestModelPauseAndSingleStep(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key(" "))
	if m.running {
		t.Fatal("space should pause")
	}
	m = update(m, TickMsg{})
	if m.stats.Step != 0 {
		t.Error("paused model should not step on tick")
	}
	m = update(m, key("s"))
	if m.stats.Step != 1 {
		t.Errorf("s should single-step, at %d", m.stats.Step)
	}
}

func TestModelSpeedAndReset(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("+"))
	m = update(m, key("+"))
	if m.stepsPerTick != 4 {
		t.Errorf("expected 4 steps per tick, got %d", m.stepsPerTick)
	}
	m = update(m, TickMsg{})
	if m.stats.Step != 4 {
		t.Errorf("expected step 4, got %d", m.stats.Step)
	}
	m = update(m, key("-"))
	if m.stepsPerTick != 2 {
		t.Errorf("expected 2 steps per tick, got %d", m.stepsPerTick)
	}

	m = update(m, key("r"))
	if m.stats.Step != 0 || len(m.keHistory) != 0 {
		t.Error("reset should rewind the session and history")
	}
}

func TestModelRecordsGIF(t *testing.T) {
	m := newTestModel(t)
	m = update(m, key("g"))
	if !m.recording {
		t.Fatal("g should start recording")
	}
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	if len(m.frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(m.frames))
	}
	m = update(m, key("g"))
	if m.recording {
		t.Error("second g should stop recording")
	}
	info, err := os.Stat(m.gifPath)
	if err != nil {
		t.Fatalf("gif not written: %v", err)
	}
	if info.Size() == 0 {
		t.Error("empty gif")
	}
}

func TestModelView(t *testing.T) {
	m := newTestModel(t)
	m = update(m, TickMsg{})
	m = update(m, TickMsg{})
	out := m.View()
	for _, want := range []string{"mpmsim", "block", "kinetic", "particles"} {
		if !strings.Contains(out, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestModelQuit(t *testing.T) {
	m := newTestModel(t)
	_, cmd := m.Update(key("q"))
	if cmd == nil {
		t.Fatal("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit")
	}
}
