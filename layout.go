package s2d

import "go.uber.org/zap"

// SizeMode selects where a Layout takes one axis of its size from.
type SizeMode uint8

const (
	// SizeNone leaves the axis alone.
	SizeNone SizeMode = iota
	// SizeMatchDrawerBest copies the entity's own Drawer best size.
	SizeMatchDrawerBest
	// SizeMatchChildrenBest copies the best size of the first child's Drawer.
	SizeMatchChildrenBest
)

func (m SizeMode) String() string {
	switch m {
	case SizeNone:
		return "none"
	case SizeMatchDrawerBest:
		return "match_drawer_best"
	case SizeMatchChildrenBest:
		return "match_children_best"
	}
	return "unknown"
}

// Layout resizes its entity's Transform after behaviors have run. Each axis
// is set to the chosen best size plus Offset.
type Layout struct {
	BaseComponent
	Horizontal SizeMode
	Vertical   SizeMode
	Offset     Vec2

	missing bool
}

// NewLayout returns a Layout using mode on both axes.
func NewLayout(mode SizeMode) *Layout {
	return &Layout{Horizontal: mode, Vertical: mode}
}

// UpdateLayout applies the size modes. When a mode needs a Drawer that is
// not there, the axis keeps its previous size and the problem is logged
// once until it is fixed.
func (l *Layout) UpdateLayout() {
	t := l.Transform()
	if t == nil {
		return
	}
	size := t.size
	ok := true
	if w, found := l.axisBest(l.Horizontal, func(v Vec2) float32 { return v.X }); found {
		size.X = w + l.Offset.X
	} else if l.Horizontal != SizeNone {
		ok = false
	}
	if h, found := l.axisBest(l.Vertical, func(v Vec2) float32 { return v.Y }); found {
		size.Y = h + l.Offset.Y
	} else if l.Vertical != SizeNone {
		ok = false
	}
	t.SetSize(size.X, size.Y)

	if ok {
		l.missing = false
		return
	}
	if !l.missing {
		l.missing = true
		e := l.Entity()
		e.manager.log.Error("layout has no drawer to size from",
			entityField(e), componentField(l),
			zap.Stringer("horizontal", l.Horizontal),
			zap.Stringer("vertical", l.Vertical),
			zap.Error(ErrMissingDrawer))
	}
}

// MissingDrawer reports whether the last UpdateLayout lacked a drawer.
func (l *Layout) MissingDrawer() bool { return l.missing }

func (l *Layout) axisBest(mode SizeMode, axis func(Vec2) float32) (float32, bool) {
	var d Drawer
	switch mode {
	case SizeMatchDrawerBest:
		d = l.Entity().Drawer()
	case SizeMatchChildrenBest:
		if c := l.Transform().firstChild; c != nil && c.entity != nil {
			d = c.entity.Drawer()
		}
	default:
		return 0, false
	}
	if d == nil {
		return 0, false
	}
	return axis(d.BestSize()), true
}
