package s2d

import (
	"io/fs"
	"os"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// firstFrameDelta is the delta reported for the first frame, which has no
// predecessor to measure against.
const firstFrameDelta = float32(1.0 / 60.0)

// Frame is the per-frame context passed to behaviors.
type Frame struct {
	// Delta is the time since the previous frame, in seconds.
	Delta float32
	// Time is the time since the first frame, in seconds.
	Time float64
	// Count is the number of frames started so far, this one included.
	Count uint64
	// Viewport is the drawable size in pixels.
	Viewport Vec2
	Input    *Input
	Engine   *Engine
}

// Options supplies the collaborators of an Engine. Every field is optional.
type Options struct {
	// Device renders batches. Defaults to an EbitenDevice, or a
	// HeadlessDevice when rendering is disabled.
	Device Device
	// Logger defaults to one built from Config.Log.
	Logger *zap.Logger
	// FS is where the asset loader reads from. Defaults to Config.AssetRoot.
	FS fs.FS
	// Sources are the pointer sources after the engine's InjectSource.
	// Defaults to the mouse and then touch.
	Sources []PointerSource
}

// Engine owns the scene and runs the frame: input, behaviors, layouts,
// render, destruction. Everything runs on the caller's goroutine.
type Engine struct {
	cfg      Config
	log      *zap.Logger
	entities *EntityManager
	device   Device
	renderer *RenderCommands
	input    *Input
	inject   *InjectSource
	stats    *Stats
	loader   *Loader

	now     func() time.Time
	start   time.Time
	last    time.Time
	frame   Frame
	started bool

	cameras        []*Camera
	drawers        []Drawer
	warnedNoCamera bool
	contextLost    bool
}

// NewEngine validates cfg and builds an engine.
func NewEngine(cfg Config, opts Options) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	log := opts.Logger
	if log == nil {
		var err error
		if log, err = NewLogger(cfg.Log); err != nil {
			return nil, err
		}
	}

	dev := opts.Device
	if dev == nil {
		if cfg.RenderEnabled {
			d := NewEbitenDevice()
			d.Resize(cfg.Width, cfg.Height)
			dev = d
		} else {
			dev = NewHeadlessDevice(cfg.Width, cfg.Height)
		}
	}

	stats := NewStats(log, cfg.LogPerformance)
	renderer, err := NewRenderCommands(dev, cfg.RenderOptions(), stats, log)
	if err != nil {
		return nil, errors.Wrap(err, "s2d: create renderer")
	}
	renderer.SetEnabled(cfg.RenderEnabled)

	fsys := opts.FS
	if fsys == nil {
		fsys = os.DirFS(cfg.AssetRoot)
	}

	inject := NewInjectSource()
	sources := opts.Sources
	if sources == nil {
		sources = []PointerSource{EbitenMouse{}, &EbitenTouch{}}
	}

	e := &Engine{
		cfg:      cfg,
		log:      log,
		entities: NewEntityManager(log),
		device:   dev,
		renderer: renderer,
		input:    NewInput(log, append([]PointerSource{inject}, sources...)...),
		inject:   inject,
		stats:    stats,
		loader:   NewLoader(fsys, cfg.MaxConcurrentLoads, log),
		now:      time.Now,
	}
	e.entities.SetDebug(cfg.Debug)
	w, h := dev.ViewportSize()
	e.entities.SetViewportSize(float32(w), float32(h))
	e.frame.Engine = e
	e.frame.Input = e.input

	log.Info("engine started",
		zap.Int("width", w), zap.Int("height", h),
		zap.Int("quad_capacity", renderer.QuadCapacity()),
		zap.Bool("render_enabled", cfg.RenderEnabled))
	return e, nil
}

// Config returns the configuration the engine was built with.
func (e *Engine) Config() Config { return e.cfg }

// Logger returns the engine logger.
func (e *Engine) Logger() *zap.Logger { return e.log }

// Entities returns the scene.
func (e *Engine) Entities() *EntityManager { return e.entities }

// Renderer returns the quad batcher.
func (e *Engine) Renderer() *RenderCommands { return e.renderer }

// Device returns the rendering device.
func (e *Engine) Device() Device { return e.device }

// Input returns the merged pointer input.
func (e *Engine) Input() *Input { return e.input }

// Inject returns the synthetic pointer source, which takes priority over
// the device sources.
func (e *Engine) Inject() *InjectSource { return e.inject }

// Stats returns the frame statistics.
func (e *Engine) Stats() *Stats { return e.stats }

// Loader returns the asset loader.
func (e *Engine) Loader() *Loader { return e.loader }

// CurrentFrame returns the context of the frame in progress, or of the last
// one.
func (e *Engine) CurrentFrame() *Frame { return &e.frame }

// SetClock replaces the time source used for frame deltas.
func (e *Engine) SetClock(now func() time.Time) {
	e.now = now
	e.stats.now = now
}

// NewEntity creates an entity under the scene root.
func (e *Engine) NewEntity(name string) *Entity { return e.entities.NewEntity(name) }

type resizer interface {
	Resize(w, h int)
}

// ReleaseTexture frees the device's copy of t and drops it from the
// loader's cache. Drawers still holding t upload it again when drawn.
func (e *Engine) ReleaseTexture(t *Texture) {
	if t == nil {
		return
	}
	e.loader.Forget(t)
	e.device.ReleaseTexture(t)
	e.log.Debug("texture released", zap.String("texture", t.Name()))
}

// Resize changes the viewport size.
func (e *Engine) Resize(w, h int) {
	if r, ok := e.device.(resizer); ok {
		r.Resize(w, h)
	}
	e.entities.SetViewportSize(float32(w), float32(h))
}

// Update runs the first half of a frame: time, asset installation, input
// and dispatch, behaviors, then layouts.
func (e *Engine) Update() {
	now := e.now()
	f := &e.frame
	if !e.started {
		e.started = true
		e.start = now
		f.Delta = firstFrameDelta
	} else {
		f.Delta = float32(now.Sub(e.last).Seconds())
	}
	e.last = now
	f.Time = now.Sub(e.start).Seconds()
	f.Count++
	w, h := e.device.ViewportSize()
	f.Viewport = Vec2{float32(w), float32(h)}

	e.stats.StartFrame()
	e.loader.Poll()

	e.input.Update(f.Viewport)
	e.input.Dispatch(e.entities.Root())

	e.entities.Update(f)
	e.entities.UpdateLayouts()
}

// Draw runs the second half of a frame: the render pass, unless the context
// is lost or rendering is disabled, then the destruction sweep.
func (e *Engine) Draw() {
	lost := e.device.ContextLost()
	if lost != e.contextLost {
		e.contextLost = lost
		if lost {
			e.log.Warn("rendering context lost, skipping render")
		} else {
			e.log.Info("rendering context restored")
		}
	}
	if !lost && e.cfg.RenderEnabled {
		e.render()
	}
	e.entities.ProcessDestroyed()
	e.stats.EndFrame()
}

// Frame runs Update then Draw.
func (e *Engine) Frame() {
	e.Update()
	e.Draw()
}

func (e *Engine) render() {
	root := e.entities.Root()
	e.cameras = root.AppendCameras(e.cameras[:0])
	if len(e.cameras) == 0 {
		if !e.warnedNoCamera {
			e.warnedNoCamera = true
			e.log.Warn("no camera in scene, nothing rendered")
		}
		return
	}
	e.warnedNoCamera = false

	e.drawers = root.AppendDrawers(e.drawers[:0])
	if len(e.drawers) == 0 {
		e.log.Debug("no drawers in scene")
	}
	for _, c := range e.cameras {
		c.render(e.renderer, e.drawers)
	}
	clear(e.cameras)
	clear(e.drawers)
}

// Close stops the asset loader and flushes the logger.
func (e *Engine) Close() error {
	e.loader.Close()
	if err := e.log.Sync(); err != nil && !errors.Is(err, os.ErrInvalid) {
		return errors.Wrap(err, "s2d: sync logger")
	}
	return nil
}
