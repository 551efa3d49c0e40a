package s2d

import (
	"testing"

	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tanema/gween/ease"
)

func TestPositionTween_Linear(t *testing.T) {
	m, _ := newTestManager(t)
	e := m.NewEntity("mover")
	e.Transform().SetLocalPosition(0, 10)
	finished := 0
	tw := NewPositionTween(Vec2{100, 30}, 1, nil)
	tw.OnFinish = func(*Tween) { finished++ }
	mustAdd(t, e, tw)

	m.Update(&Frame{Delta: 0.5})
	requireVec(t, Vec2{50, 20}, e.Transform().LocalPosition())
	assert.False(t, tw.Done())

	m.Update(&Frame{Delta: 0.5})
	requireVec(t, Vec2{100, 30}, e.Transform().LocalPosition())
	assert.True(t, tw.Done())
	assert.Equal(t, 1, finished)

	m.Update(&Frame{Delta: 0.5})
	assert.Equal(t, 1, finished, "finish fires once")
	requireVec(t, Vec2{100, 30}, e.Transform().LocalPosition())
}

func TestScaleAndRotationTweens(t *testing.T) {
	m, _ := newTestManager(t)
	e := m.NewEntity("spinner")
	mustAdd(t, e, NewScaleTween(Vec2{3, 5}, 2, ease.Linear))
	mustAdd(t, e, NewRotationTween(math32.Pi, 2, ease.Linear))

	m.Update(&Frame{Delta: 1})
	tr := e.Transform()
	requireVec(t, Vec2{2, 3}, tr.LocalScale())
	assert.InDelta(t, math32.Pi/2, tr.LocalRotation(), testEpsilon)
}

func TestAlphaTween_FadesDrawerTint(t *testing.T) {
	m, _ := newTestManager(t)
	e := m.NewEntity("ghost")
	d := NewTextureDrawer(nil)
	mustAdd(t, e, d)
	mustAdd(t, e, NewAlphaTween(0, 1, ease.Linear))

	m.Update(&Frame{Delta: 0.25})
	assert.InDelta(t, 0.75, d.Color.A, testEpsilon)
	assert.Equal(t, float32(1), d.Color.R, "only alpha changes")
}

func TestTween_DestroyOnFinish(t *testing.T) {
	m, _ := newTestManager(t)
	e := m.NewEntity("temp")
	tw := NewPositionTween(Vec2{1, 1}, 0.1, nil)
	tw.DestroyOnFinish = true
	mustAdd(t, e, tw)

	m.Update(&Frame{Delta: 0.2})
	require.True(t, tw.Done())
	assert.True(t, e.PendingDestroy())
	m.ProcessDestroyed()
	assert.True(t, e.Destroyed())
}

func TestTween_EaseApplied(t *testing.T) {
	m, _ := newTestManager(t)
	e := m.NewEntity("eased")
	mustAdd(t, e, NewPositionTween(Vec2{100, 0}, 1, ease.InQuad))

	m.Update(&Frame{Delta: 0.5})
	assert.InDelta(t, 25, e.Transform().LocalPosition().X, testEpsilon)
}
