package s2d

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// EntityID is a generational handle. An ID keeps resolving to the same entity
// until that entity is destroyed; after that EntityManager.Lookup returns nil
// even if the slot has been reused.
type EntityID struct {
	Index uint32
	Gen   uint32
}

type entityState uint8

const (
	entityLive entityState = iota
	entityPendingDestroy
	entityTearingDown
	entityDestroyed
)

// Entity is a node in the scene. It owns exactly one Transform, created with
// the entity, and any number of components.
type Entity struct {
	name      string
	id        EntityID
	manager   *EntityManager
	transform *Transform
	state     entityState

	// Singly linked component list, in insertion order.
	firstComponent Component
	lastComponent  Component

	// Per-kind views of the component list for O(1) per-node dispatch.
	behaviors     []Behavior
	drawers       []Drawer
	layouts       []LayoutUpdater
	interactables []Interactable
	cameras       []*Camera
	kinds         kindSet
}

// Name returns the entity's name.
func (e *Entity) Name() string { return e.name }

// SetName renames the entity.
func (e *Entity) SetName(name string) { e.name = name }

// ID returns the entity's generational handle.
func (e *Entity) ID() EntityID { return e.id }

// Transform returns the entity's Transform. Never nil.
func (e *Entity) Transform() *Transform { return e.transform }

// Manager returns the EntityManager that created the entity.
func (e *Entity) Manager() *EntityManager { return e.manager }

// Destroyed reports whether the entity has been torn down.
func (e *Entity) Destroyed() bool { return e.state == entityDestroyed }

// PendingDestroy reports whether Destroy was requested and the entity is
// waiting for the end-of-frame sweep.
func (e *Entity) PendingDestroy() bool { return e.state == entityPendingDestroy }

// Destroy requests destruction. Outside a sweep the entity is queued and torn
// down at the end of the frame; inside a sweep it is torn down immediately.
// Children are destroyed with it.
func (e *Entity) Destroy() {
	e.manager.destroy(e)
}

// AddComponent attaches c to the entity and calls its OnInit hook.
// Adding to a destroyed entity fails with ErrEntityDestroyed and is logged.
func (e *Entity) AddComponent(c Component) error {
	if e.state == entityDestroyed || e.state == entityTearingDown {
		e.manager.log.Error("add component to destroyed entity",
			entityField(e), componentField(c), zap.Error(ErrEntityDestroyed))
		return errors.Wrapf(ErrEntityDestroyed, "add %s to %q", typeName(c), e.name)
	}
	b := c.base()
	if b.entity != nil {
		e.manager.log.Error("component already attached",
			entityField(e), componentField(c), zap.String("owner", b.entity.name))
		return errors.Wrapf(ErrComponentAttached, "add %s to %q", typeName(c), e.name)
	}

	b.entity = e
	if e.lastComponent == nil {
		e.firstComponent = c
	} else {
		e.lastComponent.base().next = c
	}
	e.lastComponent = c

	kinds := kindsOf(c)
	e.kinds |= kinds
	if kinds.has(KindBehavior) {
		e.behaviors = append(e.behaviors, c.(Behavior))
	}
	if kinds.has(KindDrawer) {
		e.drawers = append(e.drawers, c.(Drawer))
	}
	if kinds.has(KindLayout) {
		e.layouts = append(e.layouts, c.(LayoutUpdater))
	}
	if kinds.has(KindInteractable) {
		e.interactables = append(e.interactables, c.(Interactable))
	}
	if kinds.has(KindCamera) {
		e.cameras = append(e.cameras, c.(*Camera))
	}

	if init, ok := c.(Initializer); ok {
		init.OnInit()
	}
	return nil
}

// Has reports whether the entity has at least one component of kind k.
func (e *Entity) Has(k ComponentKind) bool { return e.kinds.has(k) }

// First returns the first component of kind k added to the entity, or nil.
func (e *Entity) First(k ComponentKind) Component {
	switch k {
	case KindBehavior:
		if len(e.behaviors) > 0 {
			return e.behaviors[0]
		}
	case KindDrawer:
		if len(e.drawers) > 0 {
			return e.drawers[0]
		}
	case KindLayout:
		if len(e.layouts) > 0 {
			return e.layouts[0]
		}
	case KindInteractable:
		if len(e.interactables) > 0 {
			return e.interactables[0]
		}
	case KindCamera:
		if len(e.cameras) > 0 {
			return e.cameras[0]
		}
	}
	return nil
}

// Drawer returns the entity's first Drawer, or nil.
func (e *Entity) Drawer() Drawer {
	if len(e.drawers) == 0 {
		return nil
	}
	return e.drawers[0]
}

// EachComponent calls fn for every component in insertion order.
// The Transform is not part of the list.
func (e *Entity) EachComponent(fn func(Component)) {
	for c := e.firstComponent; c != nil; c = c.base().next {
		fn(c)
	}
}

// ComponentOf returns the first component of e that has type T.
func ComponentOf[T any](e *Entity) (T, bool) {
	for c := e.firstComponent; c != nil; c = c.base().next {
		if v, ok := c.(T); ok {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// MustComponentOf is ComponentOf that panics when nothing matches.
func MustComponentOf[T any](e *Entity) T {
	v, ok := ComponentOf[T](e)
	if !ok {
		var zero T
		panic("s2d: entity " + e.name + " has no " + typeName(zero))
	}
	return v
}

// teardownComponents runs the destroy hook of every component.
func (e *Entity) teardownComponents() {
	for c := e.firstComponent; c != nil; c = c.base().next {
		if d, ok := c.(Destroyer); ok {
			d.OnDestroy()
		}
	}
}
