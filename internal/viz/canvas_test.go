package viz

import (
	"strings"
	"testing"

	"gonum.org/v1/gonum/spatial/r2"
)

func TestCanvasSet(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	if c.Grid[0][0] != brailleBlank|0x1 {
		t.Errorf("cell 0 = %U, want dot 1", c.Grid[0][0])
	}
	if c.Grid[0][1] != brailleBlank|0x80 {
		t.Errorf("cell 1 = %U, want dot 8", c.Grid[0][1])
	}
	if !c.IsSet(3, 3) || c.IsSet(2, 3) {
		t.Error("IsSet disagrees with Set")
	}

	c.Set(-1, 0)
	c.Set(4, 0)
	c.Set(0, 4)
	if c.Grid[0][0] != brailleBlank|0x1 {
		t.Error("out of range Set modified the canvas")
	}

	c.Clear()
	if c.IsSet(0, 0) || c.IsSet(3, 3) {
		t.Error("Clear left dots set")
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 2)
	c.DrawLine(0, 0, 7, 7)
	for i := 0; i < 8; i++ {
		if !c.IsSet(i, i) {
			t.Errorf("diagonal dot (%d, %d) not set", i, i)
		}
	}
}

func TestCanvasString(t *testing.T) {
	c := NewCanvas(3, 2)
	lines := strings.Split(strings.TrimSuffix(c.String(), "\n"), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(lines))
	}
	for _, l := range lines {
		if l != strings.Repeat(string(rune(brailleBlank)), 3) {
			t.Errorf("unexpected blank row %q", l)
		}
	}
}

func TestProjectionFlipsY(t *testing.T) {
	c := NewCanvas(10, 5) // 20x20 dots
	proj := NewProjection(c, 10)

	x, y := proj.Dot(r2.Vec{X: 0, Y: 0})
	if x != 0 || y != 19 {
		t.Errorf("origin -> (%d, %d), want (0, 19)", x, y)
	}
	x, y = proj.Dot(r2.Vec{X: 5, Y: 9})
	if x != 10 || y != 1 {
		t.Errorf("(5, 9) -> (%d, %d), want (10, 1)", x, y)
	}
}

func TestPlotParticles(t *testing.T) {
	c := NewCanvas(16, 8) // 32x32 dots
	c.PlotParticles([]r2.Vec{{X: 8, Y: 8}}, 16, 2)

	if !c.IsSet(16, 15) {
		t.Error("particle dot not plotted")
	}
	// wall outline corners
	if !c.IsSet(4, 3) || !c.IsSet(28, 27) {
		t.Error("wall outline missing")
	}
}
