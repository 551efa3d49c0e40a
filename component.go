package s2d

import (
	"fmt"
	"strings"
)

// Component is a unit of state or behavior attached to exactly one Entity.
// Implementations embed BaseComponent, which also seals the interface:
//
//	type Spinner struct {
//		s2d.BaseComponent
//		Speed float32
//	}
//
//	func (s *Spinner) Update(f *s2d.Frame) {
//		t := s.Transform()
//		t.SetLocalRotation(t.LocalRotation() + s.Speed*f.Delta)
//	}
//
// What the engine does with a component is decided by which of the capability
// interfaces below it implements. That set is computed once, when the
// component is added.
type Component interface {
	Entity() *Entity
	base() *BaseComponent
}

// BaseComponent holds the owning-entity back reference and the component
// list link. The back reference is not an ownership edge.
type BaseComponent struct {
	entity *Entity
	next   Component
}

// Entity returns the entity this component is attached to, or nil.
func (c *BaseComponent) Entity() *Entity { return c.entity }

// Transform returns the owning entity's Transform, or nil when detached.
func (c *BaseComponent) Transform() *Transform {
	if c.entity == nil {
		return nil
	}
	return c.entity.transform
}

func (c *BaseComponent) base() *BaseComponent { return c }

// Behavior is updated once per frame, in tree pre-order.
type Behavior interface {
	Component
	Update(f *Frame)
}

// Drawer emits geometry for its entity during the render pass.
type Drawer interface {
	Component
	Draw(cmd *RenderCommands)
	// BestSize is the drawer's natural size, consulted by Layout.
	BestSize() Vec2
}

// LayoutUpdater runs after every Behavior has been updated.
type LayoutUpdater interface {
	Component
	UpdateLayout()
}

// Interactable receives pointer edges from the input pass. Hit testing uses
// the owning Transform's Bounds.
type Interactable interface {
	Component
	Enabled() bool
	OnPointerDown(in *Input)
	OnPointerUp(in *Input)
}

// Initializer is implemented by components that need setup once attached.
type Initializer interface {
	OnInit()
}

// Destroyer is implemented by components that release resources on teardown.
type Destroyer interface {
	OnDestroy()
}

// kindSet is a bitmask of ComponentKind.
type kindSet uint8

func (s kindSet) has(k ComponentKind) bool { return s&(1<<k) != 0 }

func kindsOf(c Component) kindSet {
	var s kindSet
	if _, ok := c.(Behavior); ok {
		s |= 1 << KindBehavior
	}
	if _, ok := c.(Drawer); ok {
		s |= 1 << KindDrawer
	}
	if _, ok := c.(LayoutUpdater); ok {
		s |= 1 << KindLayout
	}
	if _, ok := c.(Interactable); ok {
		s |= 1 << KindInteractable
	}
	if _, ok := c.(*Camera); ok {
		s |= 1 << KindCamera
	}
	return s
}

// typeName returns the bare type name of v, without package or pointer.
func typeName(v any) string {
	name := fmt.Sprintf("%T", v)
	name = strings.TrimPrefix(name, "*")
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
