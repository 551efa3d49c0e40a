package s2d

import (
	"testing"
	"testing/fstest"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

const testEpsilon = 1e-4

func observedLogger() (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(zapcore.DebugLevel)
	return zap.New(core), logs
}

func newTestManager(t *testing.T) (*EntityManager, *observer.ObservedLogs) {
	t.Helper()
	log, logs := observedLogger()
	return NewEntityManager(log), logs
}

// fakeClock advances by step every time it is read.
type fakeClock struct {
	now  time.Time
	step time.Duration
}

func (c *fakeClock) Now() time.Time {
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func newTestEngine(t *testing.T, files fstest.MapFS) (*Engine, *HeadlessDevice, *observer.ObservedLogs) {
	t.Helper()
	log, logs := observedLogger()
	dev := NewHeadlessDevice(800, 600)
	dev.SetRecording(true)
	cfg := DefaultConfig()
	cfg.Width, cfg.Height = 800, 600
	if files == nil {
		files = fstest.MapFS{}
	}
	e, err := NewEngine(cfg, Options{
		Device:  dev,
		Logger:  log,
		FS:      files,
		Sources: []PointerSource{},
	})
	require.NoError(t, err)
	t.Cleanup(func() { e.loader.Close() })
	return e, dev, logs
}

func mustAdd(t *testing.T, e *Entity, c Component) {
	t.Helper()
	require.NoError(t, e.AddComponent(c))
}

// destroyRecorder appends its entity's name to a shared log on teardown.
type destroyRecorder struct {
	BaseComponent
	log  *[]string
	hook func()
}

func (r *destroyRecorder) OnDestroy() {
	*r.log = append(*r.log, r.Entity().Name())
	if r.hook != nil {
		r.hook()
	}
}

// funcBehavior runs fn every frame.
type funcBehavior struct {
	BaseComponent
	fn func(f *Frame)
}

func (b *funcBehavior) Update(f *Frame) { b.fn(f) }

// sizeDrawer is a Drawer with a fixed best size that records its draws.
type sizeDrawer struct {
	BaseComponent
	best  Vec2
	draws int
}

func (d *sizeDrawer) Draw(*RenderCommands) { d.draws++ }
func (d *sizeDrawer) BestSize() Vec2       { return d.best }

func requireVec(t *testing.T, want, got Vec2) {
	t.Helper()
	require.InDelta(t, want.X, got.X, testEpsilon, "x")
	require.InDelta(t, want.Y, got.Y, testEpsilon, "y")
}

func requireMatrix(t *testing.T, want, got Matrix2x3) {
	t.Helper()
	for i := range want {
		require.InDeltaf(t, want[i], got[i], testEpsilon, "component %d: want %v got %v", i, want, got)
	}
}
