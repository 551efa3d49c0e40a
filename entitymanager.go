package s2d

import (
	"go.uber.org/zap"
)

type entitySlot struct {
	entity *Entity
	gen    uint32
}

// EntityManager owns the root Transform and every entity in the scene. It
// runs the per-frame behavior and layout passes and the deferred destruction
// sweep.
type EntityManager struct {
	log   *zap.Logger
	debug bool
	root  *Transform

	slots []entitySlot
	free  []uint32
	live  int

	// Destruction requests double-buffer between two lists so that a
	// request made while one list is being drained lands in the other.
	pending  [2][]*Entity
	active   int
	sweeping bool
	torn     int

	behaviors []Behavior
	layouts   []LayoutUpdater
}

// NewEntityManager creates a manager with an empty root. A nil logger is
// replaced by a no-op logger.
func NewEntityManager(log *zap.Logger) *EntityManager {
	if log == nil {
		log = zap.NewNop()
	}
	m := &EntityManager{log: log}
	m.root = newTransform(m)
	m.root.SetPivot(-1, -1)
	return m
}

// SetDebug enables debug mode: tree invariant violations panic instead of
// only being logged.
func (m *EntityManager) SetDebug(enabled bool) { m.debug = enabled }

// Root returns the implicit root Transform. It has no entity, its pivot is
// (-1,-1) and its size tracks the viewport.
func (m *EntityManager) Root() *Transform { return m.root }

// Len returns the number of entities that have not been torn down.
func (m *EntityManager) Len() int { return m.live }

// NewEntity creates an entity with its Transform and attaches it as the last
// child of the root.
func (m *EntityManager) NewEntity(name string) *Entity {
	e := &Entity{name: name, manager: m}
	t := newTransform(m)
	t.entity = e
	e.transform = t

	var idx uint32
	if n := len(m.free); n > 0 {
		idx = m.free[n-1]
		m.free = m.free[:n-1]
	} else {
		idx = uint32(len(m.slots))
		m.slots = append(m.slots, entitySlot{gen: 1})
	}
	m.slots[idx].entity = e
	e.id = EntityID{Index: idx, Gen: m.slots[idx].gen}
	m.live++

	m.root.AddChildLast(t)
	return e
}

// Lookup resolves id. It returns nil for ids whose entity has been destroyed.
func (m *EntityManager) Lookup(id EntityID) *Entity {
	if int(id.Index) >= len(m.slots) {
		return nil
	}
	s := m.slots[id.Index]
	if s.gen != id.Gen || s.entity == nil {
		return nil
	}
	return s.entity
}

// SetViewportSize sizes the root to the viewport.
func (m *EntityManager) SetViewportSize(w, h float32) {
	m.root.SetSize(w, h)
}

// Update refreshes the root size from the frame's viewport and calls Update
// on every Behavior in tree pre-order. Behaviors added during the pass run
// from the next frame on.
func (m *EntityManager) Update(f *Frame) {
	if f != nil && (f.Viewport.X > 0 || f.Viewport.Y > 0) {
		m.SetViewportSize(f.Viewport.X, f.Viewport.Y)
	}
	m.behaviors = m.root.AppendBehaviors(m.behaviors[:0])
	for _, b := range m.behaviors {
		if e := b.Entity(); e == nil || e.state == entityDestroyed {
			continue
		}
		b.Update(f)
	}
	clear(m.behaviors)
}

// UpdateLayouts calls UpdateLayout on every LayoutUpdater in tree pre-order.
func (m *EntityManager) UpdateLayouts() {
	m.layouts = m.root.AppendLayouts(m.layouts[:0])
	for _, l := range m.layouts {
		if e := l.Entity(); e == nil || e.state == entityDestroyed {
			continue
		}
		l.UpdateLayout()
	}
	clear(m.layouts)
}

// Sweeping reports whether a destruction sweep is in progress.
func (m *EntityManager) Sweeping() bool { return m.sweeping }

// ProcessDestroyed runs one destruction sweep over the entities queued since
// the last sweep and returns how many entities were torn down, descendants
// included. Requests made during the sweep tear down immediately.
func (m *EntityManager) ProcessDestroyed() int {
	list := m.pending[m.active]
	if len(list) == 0 {
		return 0
	}
	m.active ^= 1
	m.sweeping = true
	m.torn = 0
	for _, e := range list {
		// Entities already torn down by an ancestor's cascade are skipped.
		if e.state == entityPendingDestroy {
			m.teardown(e)
		}
	}
	clear(list)
	m.pending[m.active^1] = list[:0]
	m.sweeping = false
	return m.torn
}

func (m *EntityManager) destroy(e *Entity) {
	switch e.state {
	case entityPendingDestroy, entityTearingDown:
		return
	case entityDestroyed:
		m.log.Error("destroy called on destroyed entity", entityField(e), zap.Error(ErrDoubleDestroy))
		if m.debug {
			panic(ErrDoubleDestroy)
		}
		return
	}
	if m.sweeping {
		m.teardown(e)
		return
	}
	e.state = entityPendingDestroy
	m.pending[m.active] = append(m.pending[m.active], e)
}

// teardown destroys e's descendants depth-first, then runs e's destroy
// hooks, detaches it and frees its slot.
func (m *EntityManager) teardown(e *Entity) {
	e.state = entityTearingDown
	t := e.transform

	// Each step detaches the current first child, so a destroy hook that
	// tears down a sibling cannot leave the walk on a stale link.
	for c := t.firstChild; c != nil; c = t.firstChild {
		if ce := c.entity; ce != nil && ce.state != entityTearingDown && ce.state != entityDestroyed {
			m.teardown(ce)
		} else {
			t.RemoveChild(c)
		}
	}

	e.teardownComponents()

	if t.parent != nil {
		t.parent.RemoveChild(t)
	}
	s := &m.slots[e.id.Index]
	s.entity = nil
	s.gen++
	m.free = append(m.free, e.id.Index)
	m.live--
	m.torn++
	e.state = entityDestroyed
}
