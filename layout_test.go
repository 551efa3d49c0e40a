package s2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLayout_MatchDrawerBest(t *testing.T) {
	m, _ := newTestManager(t)
	e := m.NewEntity("e")
	mustAdd(t, e, &sizeDrawer{best: Vec2{37, 20}})
	l := NewLayout(SizeMatchDrawerBest)
	l.Offset = Vec2{3, 4}
	mustAdd(t, e, l)

	m.UpdateLayouts()
	assert.Equal(t, Vec2{40, 24}, e.Transform().Size())
	assert.False(t, l.MissingDrawer())
}

func TestLayout_MatchChildrenBestUsesFirstChild(t *testing.T) {
	m, _ := newTestManager(t)
	parent := m.NewEntity("button")
	first := m.NewEntity("label")
	second := m.NewEntity("icon")
	first.Transform().SetParent(parent.Transform())
	second.Transform().SetParent(parent.Transform())
	mustAdd(t, first, &sizeDrawer{best: Vec2{50, 10}})
	mustAdd(t, second, &sizeDrawer{best: Vec2{500, 500}})

	l := NewLayout(SizeMatchChildrenBest)
	l.Offset = Vec2{32, 24}
	mustAdd(t, parent, l)

	m.UpdateLayouts()
	assert.Equal(t, Vec2{82, 34}, parent.Transform().Size())
}

func TestLayout_PerAxisModes(t *testing.T) {
	m, _ := newTestManager(t)
	e := m.NewEntity("e")
	e.Transform().SetSize(7, 9)
	mustAdd(t, e, &sizeDrawer{best: Vec2{100, 200}})
	mustAdd(t, e, &Layout{Horizontal: SizeMatchDrawerBest, Vertical: SizeNone})

	m.UpdateLayouts()
	assert.Equal(t, Vec2{100, 9}, e.Transform().Size())
}

func TestLayout_MissingDrawerKeepsSizeAndLogsOnce(t *testing.T) {
	m, logs := newTestManager(t)
	e := m.NewEntity("lonely")
	e.Transform().SetSize(11, 12)
	l := NewLayout(SizeMatchDrawerBest)
	mustAdd(t, e, l)

	m.UpdateLayouts()
	m.UpdateLayouts()
	assert.Equal(t, Vec2{11, 12}, e.Transform().Size())
	assert.True(t, l.MissingDrawer())
	assert.Equal(t, 1, logs.FilterMessage("layout has no drawer to size from").Len())

	// Fixed, then broken again: logged a second time.
	d := &sizeDrawer{best: Vec2{5, 5}}
	mustAdd(t, e, d)
	m.UpdateLayouts()
	assert.False(t, l.MissingDrawer())
	assert.Equal(t, Vec2{5, 5}, e.Transform().Size())

	l.Horizontal = SizeMatchChildrenBest
	m.UpdateLayouts()
	assert.Equal(t, 2, logs.FilterMessage("layout has no drawer to size from").Len())
	assert.Equal(t, Vec2{5, 5}, e.Transform().Size())
}

func TestLayout_RunsAfterBehaviors(t *testing.T) {
	e, _, _ := newTestEngine(t, nil)
	text := e.NewTextEntity(nil, "")
	// A behavior changes the text; the layout in the same frame sees it.
	mustAdd(t, e.NewEntity("writer"), &funcBehavior{fn: func(*Frame) { text.SetText("hello") }})

	e.Update()
	assert.Equal(t, text.BestSize(), text.Transform().Size())
	assert.Greater(t, text.Transform().Size().X, float32(0))
}

func TestSizeModeString(t *testing.T) {
	assert.Equal(t, "none", SizeNone.String())
	assert.Equal(t, "match_drawer_best", SizeMatchDrawerBest.String())
	assert.Equal(t, "match_children_best", SizeMatchChildrenBest.String())
	assert.Equal(t, "unknown", SizeMode(9).String())
}
