package s2d

import (
	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"
)

// PointerSource reports one pointer device's state for the current frame.
// active is false when the source has nothing to say this frame, for
// example a touch screen with no finger down.
type PointerSource interface {
	PointerState() (x, y float32, down, active bool)
}

// EbitenMouse reads the mouse. Either the left or the right button counts
// as down.
type EbitenMouse struct{}

func (EbitenMouse) PointerState() (x, y float32, down, active bool) {
	mx, my := ebiten.CursorPosition()
	down = ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) ||
		ebiten.IsMouseButtonPressed(ebiten.MouseButtonRight)
	return float32(mx), float32(my), down, true
}

// EbitenTouch reads the first active touch.
type EbitenTouch struct {
	ids []ebiten.TouchID
}

func (t *EbitenTouch) PointerState() (x, y float32, down, active bool) {
	t.ids = ebiten.AppendTouchIDs(t.ids[:0])
	if len(t.ids) == 0 {
		return 0, 0, false, false
	}
	tx, ty := ebiten.TouchPosition(t.ids[0])
	return float32(tx), float32(ty), true, true
}

// Input merges pointer sources into one logical pointer and dispatches
// pointer edges to Interactables.
//
// Sources are consulted in order. The first one reporting down supplies
// the pointer; if none is down the first active source does. Positions
// outside the viewport are ignored and the previous position is kept.
type Input struct {
	log     *zap.Logger
	sources []PointerSource

	position   Vec2
	delta      Vec2
	down       bool
	wasDown    bool
	downFrames int

	target Interactable
	hits   []Interactable
}

// NewInput returns an Input reading the given sources, in priority order.
func NewInput(log *zap.Logger, sources ...PointerSource) *Input {
	if log == nil {
		log = zap.NewNop()
	}
	return &Input{log: log, sources: sources}
}

// AddSource appends a source with the lowest priority.
func (in *Input) AddSource(s PointerSource) { in.sources = append(in.sources, s) }

// Sources returns the sources in priority order.
func (in *Input) Sources() []PointerSource { return in.sources }

// X returns the pointer x in viewport pixels.
func (in *Input) X() float32 { return in.position.X }

// Y returns the pointer y in viewport pixels.
func (in *Input) Y() float32 { return in.position.Y }

// Position returns the pointer position in viewport pixels.
func (in *Input) Position() Vec2 { return in.position }

// Delta returns how far the pointer moved since the previous frame.
func (in *Input) Delta() Vec2 { return in.delta }

// Down reports whether the pointer is pressed.
func (in *Input) Down() bool { return in.down }

// DownFrames returns how many consecutive frames the pointer has been down,
// counting the current one.
func (in *Input) DownFrames() int { return in.downFrames }

// JustPressed reports a press edge on this frame.
func (in *Input) JustPressed() bool { return in.down && !in.wasDown }

// JustReleased reports a release edge on this frame.
func (in *Input) JustReleased() bool { return !in.down && in.wasDown }

// Captured returns the Interactable that received the current press, or nil.
func (in *Input) Captured() Interactable { return in.target }

// Update samples the sources. viewport bounds the accepted positions; a
// zero viewport accepts any position.
func (in *Input) Update(viewport Vec2) {
	in.wasDown = in.down

	var (
		pos      Vec2
		down     bool
		havePos  bool
		haveDown bool
	)
	for _, s := range in.sources {
		x, y, d, active := s.PointerState()
		if d && !haveDown {
			pos, down, havePos, haveDown = Vec2{x, y}, true, true, true
			break
		}
		if active && !havePos {
			pos, havePos = Vec2{x, y}, true
		}
	}

	prev := in.position
	if havePos && inViewport(pos, viewport) {
		in.position = pos
	}
	in.delta = in.position.Sub(prev)

	in.down = down
	if down {
		in.downFrames++
	} else {
		in.downFrames = 0
	}
}

func inViewport(p, viewport Vec2) bool {
	if viewport.X <= 0 || viewport.Y <= 0 {
		return true
	}
	return p.X >= 0 && p.Y >= 0 && p.X < viewport.X && p.Y < viewport.Y
}

// HitTest returns the first enabled Interactable under (x, y), scanning the
// tree below root in pre-order. Earlier entities win over later ones.
func (in *Input) HitTest(root *Transform, x, y float32) Interactable {
	in.hits = root.AppendInteractables(in.hits[:0])
	defer clear(in.hits)
	for _, it := range in.hits {
		if !it.Enabled() {
			continue
		}
		e := it.Entity()
		if e == nil || e.state == entityDestroyed {
			continue
		}
		if e.transform.Bounds().Contains(x, y) {
			return it
		}
	}
	return nil
}

// Dispatch delivers this frame's pointer edges. A press over an Interactable
// calls its OnPointerDown and captures it; the matching release calls
// OnPointerUp on the captured Interactable wherever the pointer is.
func (in *Input) Dispatch(root *Transform) {
	if in.target != nil {
		if e := in.target.Entity(); e == nil || e.state == entityDestroyed || e.state == entityTearingDown {
			in.log.Debug("captured interactable destroyed", componentField(in.target))
			in.target = nil
		}
	}

	if in.JustPressed() {
		if hit := in.HitTest(root, in.position.X, in.position.Y); hit != nil {
			in.target = hit
			hit.OnPointerDown(in)
		}
	}
	if in.JustReleased() && in.target != nil {
		t := in.target
		in.target = nil
		t.OnPointerUp(in)
	}
}
