package s2d

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

type tweenTarget uint8

const (
	tweenPosition tweenTarget = iota
	tweenScale
	tweenRotation
	tweenAlpha
)

// Tween is a Behavior that animates one property of its entity with gween
// easing. Start values are taken when the tween is added to an entity.
// A finished tween stays attached and does nothing, unless DestroyOnFinish
// is set, in which case it destroys its entity.
type Tween struct {
	BaseComponent
	DestroyOnFinish bool
	// OnFinish, if set, is called once when the tween completes.
	OnFinish func(*Tween)

	target   tweenTarget
	to       [2]float32
	duration float32
	ease     ease.TweenFunc

	tweens [2]*gween.Tween
	count  int
	done   bool
}

func newTween(target tweenTarget, to [2]float32, count int, duration float32, fn ease.TweenFunc) *Tween {
	if fn == nil {
		fn = ease.Linear
	}
	return &Tween{target: target, to: to, count: count, duration: duration, ease: fn}
}

// NewPositionTween animates the local position to to over duration seconds.
func NewPositionTween(to Vec2, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(tweenPosition, [2]float32{to.X, to.Y}, 2, duration, fn)
}

// NewScaleTween animates the local scale to to over duration seconds.
func NewScaleTween(to Vec2, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(tweenScale, [2]float32{to.X, to.Y}, 2, duration, fn)
}

// NewRotationTween animates the local rotation to rad over duration seconds.
func NewRotationTween(rad, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(tweenRotation, [2]float32{rad}, 1, duration, fn)
}

// NewAlphaTween animates the alpha of the entity's first drawer's tint.
func NewAlphaTween(alpha, duration float32, fn ease.TweenFunc) *Tween {
	return newTween(tweenAlpha, [2]float32{alpha}, 1, duration, fn)
}

// Done reports whether the tween has finished.
func (tw *Tween) Done() bool { return tw.done }

// OnInit captures the start values.
func (tw *Tween) OnInit() {
	from := tw.current()
	for i := 0; i < tw.count; i++ {
		tw.tweens[i] = gween.New(from[i], tw.to[i], tw.duration, tw.ease)
	}
}

func (tw *Tween) current() [2]float32 {
	t := tw.Transform()
	switch tw.target {
	case tweenPosition:
		return [2]float32{t.position.X, t.position.Y}
	case tweenScale:
		return [2]float32{t.scale.X, t.scale.Y}
	case tweenRotation:
		return [2]float32{t.rotation}
	case tweenAlpha:
		if c := drawerColor(tw.Entity()); c != nil {
			return [2]float32{c.A}
		}
		return [2]float32{1}
	}
	return [2]float32{}
}

func (tw *Tween) apply(v [2]float32) {
	t := tw.Transform()
	switch tw.target {
	case tweenPosition:
		t.SetLocalPosition(v[0], v[1])
	case tweenScale:
		t.SetLocalScale(v[0], v[1])
	case tweenRotation:
		t.SetLocalRotation(v[0])
	case tweenAlpha:
		if c := drawerColor(tw.Entity()); c != nil {
			c.A = Clamp(v[0], 0, 1)
		}
	}
}

// Update advances the tween by the frame's delta.
func (tw *Tween) Update(f *Frame) {
	if tw.done || tw.tweens[0] == nil {
		return
	}
	var v [2]float32
	allDone := true
	for i := 0; i < tw.count; i++ {
		val, finished := tw.tweens[i].Update(f.Delta)
		v[i] = val
		if !finished {
			allDone = false
		}
	}
	tw.apply(v)
	if !allDone {
		return
	}
	tw.done = true
	if tw.OnFinish != nil {
		tw.OnFinish(tw)
	}
	if tw.DestroyOnFinish {
		tw.Entity().Destroy()
	}
}

// drawerColor returns the tint of e's first drawer, if it has one.
func drawerColor(e *Entity) *Color {
	if e == nil {
		return nil
	}
	switch d := e.Drawer().(type) {
	case *TextureDrawer:
		return &d.Color
	case *TextDrawer:
		return &d.Color
	case *TilemapDrawer:
		return &d.Color
	}
	return nil
}
