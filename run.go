package s2d

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

// RunConfig configures the window opened by Run. Zero fields fall back to
// the engine's Config.
type RunConfig struct {
	Title     string
	Width     int
	Height    int
	Resizable bool
	// TPS sets ticks per second. Zero keeps ebiten's default of 60.
	TPS int
}

// game adapts an Engine to ebiten.Game.
type game struct {
	engine *Engine
	device *EbitenDevice
}

func (g *game) Update() error {
	g.engine.Update()
	return nil
}

func (g *game) Draw(screen *ebiten.Image) {
	if g.device != nil {
		g.device.SetTarget(screen)
	}
	g.engine.Draw()
}

func (g *game) Layout(outsideWidth, outsideHeight int) (int, int) {
	g.engine.Resize(outsideWidth, outsideHeight)
	return outsideWidth, outsideHeight
}

// Run opens a window and drives e until the window is closed. e must have
// been built with an EbitenDevice (the default) for anything to show.
func Run(e *Engine, cfg RunConfig) error {
	ec := e.Config()
	if cfg.Title == "" {
		cfg.Title = ec.Title
	}
	if cfg.Width <= 0 || cfg.Height <= 0 {
		cfg.Width, cfg.Height = ec.Width, ec.Height
	}
	ebiten.SetWindowTitle(cfg.Title)
	ebiten.SetWindowSize(cfg.Width, cfg.Height)
	if cfg.Resizable {
		ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	}
	if cfg.TPS > 0 {
		ebiten.SetTPS(cfg.TPS)
	}

	g := &game{engine: e}
	if d, ok := e.Device().(*EbitenDevice); ok {
		g.device = d
	}
	if err := ebiten.RunGame(g); err != nil {
		return errors.Wrap(err, "s2d: run game")
	}
	return nil
}
