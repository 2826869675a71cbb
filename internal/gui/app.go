package gui

import (
	"fmt"
	"image/color"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/san-kum/mpmsim/internal/experiment"
	"github.com/san-kum/mpmsim/internal/mpm"
)

const (
	windowSize    = 800
	hudWidth      = 260
	maxStepsFrame = 32
	fontPath      = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColWarn    = rl.NewColor(255, 170, 0, 255)
)

// App shows a session in a raylib window. The simulation is rendered into
// an mpm.Frame each frame and uploaded as a texture.
type App struct {
	Session       *experiment.Session
	Name          string
	Running       bool
	StepsPerFrame int
	Font          rl.Font

	frame  *mpm.Frame
	pixels []color.RGBA
	tex    rl.Texture2D
	stats  mpm.StepStats
	status string
}

// initWindow opens an 800x800 canvas plus HUD strip at 60 FPS with the
// default exit key disabled.
func initWindow() {
	rl.InitWindow(windowSize+hudWidth, windowSize, "mpmsim")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont uses Liberation Mono when installed and the raylib default
// otherwise.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp must be called after the window exists.
func NewApp(session *experiment.Session, name string) *App {
	app := &App{
		Session:       session,
		Name:          name,
		Running:       true,
		StepsPerFrame: 1,
		Font:          loadFont(),
		frame:         mpm.NewFrame(windowSize, windowSize, 4),
		stats:         session.Stats(),
	}

	img := rl.GenImageColor(windowSize, windowSize, rl.Black)
	app.tex = rl.LoadTextureFromImage(img)
	rl.UnloadImage(img)
	return app
}

// Run opens the window and blocks until it is closed.
func Run(session *experiment.Session, name string) {
	initWindow()
	defer rl.CloseWindow()
	app := NewApp(session, name)
	defer rl.UnloadTexture(app.tex)
	app.RunLoop()
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() {
		if rl.IsKeyPressed(rl.KeyQ) {
			return
		}
		a.Update()
		a.Draw()
	}
}

func (a *App) Update() {
	switch {
	case rl.IsKeyPressed(rl.KeySpace):
		a.Running = !a.Running
	case rl.IsKeyPressed(rl.KeyR):
		if err := a.Session.Reset(); err != nil {
			a.status = fmt.Sprintf("reset failed: %v", err)
		} else {
			a.status = ""
		}
		a.stats = a.Session.Stats()
	case rl.IsKeyPressed(rl.KeyEqual), rl.IsKeyPressed(rl.KeyKpAdd):
		a.StepsPerFrame = min(a.StepsPerFrame*2, maxStepsFrame)
	case rl.IsKeyPressed(rl.KeyMinus), rl.IsKeyPressed(rl.KeyKpSubtract):
		a.StepsPerFrame = max(a.StepsPerFrame/2, 1)
	case rl.IsKeyPressed(rl.KeyS) && !a.Running:
		a.stats = a.Session.Step(1)
	}

	if a.Running {
		a.stats = a.Session.Step(a.StepsPerFrame)
	}

	a.frame.Clear()
	a.Session.Render(a.frame)
	a.pixels = a.frame.RGBA(a.pixels)
	rl.UpdateTexture(a.tex, a.pixels)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	// Frame row 0 is y = 0; a negative source height puts it at the bottom.
	src := rl.NewRectangle(0, 0, float32(a.frame.Width), -float32(a.frame.Height))
	dst := rl.NewRectangle(0, 0, windowSize, windowSize)
	rl.DrawTexturePro(a.tex, src, dst, rl.NewVector2(0, 0), 0, rl.White)

	a.DrawHUD()
	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	x := windowSize + 20
	rl.DrawRectangle(windowSize, 0, hudWidth, windowSize, rl.NewColor(18, 18, 18, 255))
	a.drawText("mpmsim", x, 30, 24, ColSelect)
	a.drawText(":: "+a.Name, x, 60, 16, ColText)

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, x, 90, 16, col)

	st := a.stats
	lines := []string{
		fmt.Sprintf("step      %d", st.Step),
		fmt.Sprintf("time      %.2f", st.Time),
		fmt.Sprintf("particles %d", st.Particles),
		fmt.Sprintf("steps/frm %d", a.StepsPerFrame),
		fmt.Sprintf("kinetic   %.4g", st.KineticEnergy),
		fmt.Sprintf("det F min %.3f", st.MinJ),
		fmt.Sprintf("det F max %.3f", st.MaxJ),
		fmt.Sprintf("cells     %d", st.ActiveCells),
	}
	for i, l := range lines {
		a.drawText(l, x, 140+i*24, 14, ColAccent)
	}
	if st.Degenerate > 0 {
		a.drawText(fmt.Sprintf("%d degenerate", st.Degenerate), x, 140+len(lines)*24, 14, ColWarn)
	}
	if a.status != "" {
		a.drawText(a.status, x, 700, 12, ColWarn)
	}

	a.drawText("[SPACE] PAUSE [S] STEP", x, 740, 12, ColTextDim)
	a.drawText("[R] RESET [+/-] SPEED [Q] QUIT", x, 756, 12, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), x, 776, 12, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}
