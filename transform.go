package s2d

import (
	"github.com/chewxy/math32"
	"go.uber.org/zap"
)

// MaxNesting bounds the number of ancestors of any Transform. World-matrix
// composition walks that many parents per drawer per frame.
const MaxNesting = 128

// defaultSize is the size of a freshly created Transform.
var defaultSize = Vec2{32, 32}

// Transform is the positional and hierarchical component every Entity owns.
//
// Children form an intrusive doubly linked list per parent, so append at
// either end and removal are O(1). The local matrix is kept in sync by every
// setter; there is no dirty flag.
type Transform struct {
	BaseComponent
	manager *EntityManager

	parent      *Transform
	firstChild  *Transform
	lastChild   *Transform
	prevSibling *Transform
	nextSibling *Transform
	childCount  int

	position Vec2
	rotation float32 // radians
	scale    Vec2
	size     Vec2
	pivot    Vec2

	local Matrix2x3
}

func newTransform(m *EntityManager) *Transform {
	t := &Transform{
		manager: m,
		scale:   Vec2{1, 1},
		size:    defaultSize,
	}
	t.local.Identity()
	return t
}

// --- Local properties ---

// LocalPosition returns the position relative to the parent.
func (t *Transform) LocalPosition() Vec2 { return t.position }

// SetLocalPosition sets the position relative to the parent.
func (t *Transform) SetLocalPosition(x, y float32) *Transform {
	t.position = Vec2{x, y}
	t.local[4] = x
	t.local[5] = y
	return t
}

// SetLocalX sets the X position relative to the parent.
func (t *Transform) SetLocalX(x float32) *Transform {
	t.position.X = x
	t.local[4] = x
	return t
}

// SetLocalY sets the Y position relative to the parent.
func (t *Transform) SetLocalY(y float32) *Transform {
	t.position.Y = y
	t.local[5] = y
	return t
}

// LocalRotation returns the rotation in radians.
func (t *Transform) LocalRotation() float32 { return t.rotation }

// SetLocalRotation sets the rotation in radians.
func (t *Transform) SetLocalRotation(rad float32) *Transform {
	t.rotation = rad
	t.updateLinear()
	return t
}

// LocalRotationDegrees returns the rotation in degrees.
func (t *Transform) LocalRotationDegrees() float32 { return RadToDeg(t.rotation) }

// SetLocalRotationDegrees sets the rotation in degrees.
func (t *Transform) SetLocalRotationDegrees(deg float32) *Transform {
	return t.SetLocalRotation(DegToRad(deg))
}

// LocalScale returns the non-uniform scale.
func (t *Transform) LocalScale() Vec2 { return t.scale }

// SetLocalScale sets the non-uniform scale.
func (t *Transform) SetLocalScale(sx, sy float32) *Transform {
	t.scale = Vec2{sx, sy}
	t.updateLinear()
	return t
}

// Size returns the width and height used for bounds and drawing.
// Size does not take part in matrix composition.
func (t *Transform) Size() Vec2 { return t.size }

// SetSize sets the width and height.
func (t *Transform) SetSize(w, h float32) *Transform {
	t.size = Vec2{w, h}
	return t
}

// Pivot returns the anchor of the local origin inside the size rectangle.
func (t *Transform) Pivot() Vec2 { return t.pivot }

// SetPivot sets the anchor of the local origin inside the size rectangle.
// (0,0) is the center, (-1,-1) the top-left corner and (1,1) the bottom-right.
// Values are clamped to [-1, 1].
func (t *Transform) SetPivot(x, y float32) *Transform {
	t.pivot = Vec2{Clamp(x, -1, 1), Clamp(y, -1, 1)}
	return t
}

// LocalMatrix returns the cached local matrix.
func (t *Transform) LocalMatrix() Matrix2x3 { return t.local }

// updateLinear recomputes the 2x2 block as R(rotation) × S(scale).
func (t *Transform) updateLinear() {
	s, c := math32.Sincos(t.rotation)
	t.local[0] = t.scale.X * c
	t.local[1] = t.scale.X * s
	t.local[2] = -t.scale.Y * s
	t.local[3] = t.scale.Y * c
}

// --- World space ---

// LocalToGlobalMatrix writes the world matrix to out and returns it. The
// walk starts at this node's local matrix and left-multiplies each ancestor's
// local matrix up to the root, so the cost is O(depth).
func (t *Transform) LocalToGlobalMatrix(out *Matrix2x3) *Matrix2x3 {
	out.Copy(&t.local)
	depth := 0
	for p := t.parent; p != nil; p = p.parent {
		depth++
		if depth > MaxNesting {
			t.manager.treeViolation(ErrMaxNesting, t)
			break
		}
		out.Multiply(&p.local, out)
	}
	return out
}

// GlobalToLocalMatrix writes the inverse world matrix to out. It returns
// false, leaving out untouched, when the world matrix is singular.
func (t *Transform) GlobalToLocalMatrix(out *Matrix2x3) bool {
	var world Matrix2x3
	t.LocalToGlobalMatrix(&world)
	return out.Invert(&world)
}

// LocalToWorld converts a local-space point to world space.
func (t *Transform) LocalToWorld(x, y float32) Vec2 {
	var world Matrix2x3
	t.LocalToGlobalMatrix(&world)
	wx, wy := world.TransformPoint(x, y)
	return Vec2{wx, wy}
}

// WorldToLocal converts a world-space point to local space. It returns false
// when the world matrix is singular.
func (t *Transform) WorldToLocal(x, y float32) (Vec2, bool) {
	var inv Matrix2x3
	if !t.GlobalToLocalMatrix(&inv) {
		return Vec2{}, false
	}
	lx, ly := inv.TransformPoint(x, y)
	return Vec2{lx, ly}, true
}

// localRect returns the pivot-adjusted size rectangle in local space as its
// top-left and bottom-right corners.
func localRect(size, pivot Vec2) (tl, br Vec2) {
	hw, hh := size.X*0.5, size.Y*0.5
	dx, dy := -pivot.X*hw, -pivot.Y*hh
	return Vec2{-hw + dx, -hh + dy}, Vec2{hw + dx, hh + dy}
}

// Bounds returns the world-space axis-aligned bounding box of the size
// rectangle. Used for hit testing; drawing uses the oriented quad.
func (t *Transform) Bounds() Rect {
	var world Matrix2x3
	t.LocalToGlobalMatrix(&world)
	tl, br := localRect(t.size, t.pivot)

	x0, y0 := world.TransformPoint(tl.X, tl.Y)
	minX, minY, maxX, maxY := x0, y0, x0, y0
	for _, p := range [3]Vec2{{br.X, tl.Y}, br, {tl.X, br.Y}} {
		x, y := world.TransformPoint(p.X, p.Y)
		minX, maxX = math32.Min(minX, x), math32.Max(maxX, x)
		minY, maxY = math32.Min(minY, y), math32.Max(maxY, y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// --- Hierarchy ---

// Parent returns the parent Transform. Top-level entities are parented to the
// EntityManager's root. Returns nil for the root and for detached nodes.
func (t *Transform) Parent() *Transform { return t.parent }

// FirstChild returns the first (earliest drawn) child, or nil.
func (t *Transform) FirstChild() *Transform { return t.firstChild }

// LastChild returns the last (latest drawn) child, or nil.
func (t *Transform) LastChild() *Transform { return t.lastChild }

// NextSibling returns the following sibling, or nil.
func (t *Transform) NextSibling() *Transform { return t.nextSibling }

// PrevSibling returns the preceding sibling, or nil.
func (t *Transform) PrevSibling() *Transform { return t.prevSibling }

// ChildCount returns the number of direct children.
func (t *Transform) ChildCount() int { return t.childCount }

// IsRoot reports whether t is its manager's root.
func (t *Transform) IsRoot() bool { return t.manager != nil && t.manager.root == t }

// SetParent moves t under p, appending it after p's existing children.
// A nil p moves t under the root. The move is structural: t leaves its old
// parent's list first.
func (t *Transform) SetParent(p *Transform) *Transform {
	if p == nil {
		p = t.manager.root
	}
	p.AddChildLast(t)
	return t
}

// AddChildFirst inserts c at the head of t's children, so it draws first.
func (t *Transform) AddChildFirst(c *Transform) {
	if !t.canAdopt(c) {
		return
	}
	if c.parent != nil {
		c.parent.unlink(c)
	}
	c.parent = t
	c.nextSibling = t.firstChild
	if t.firstChild != nil {
		t.firstChild.prevSibling = c
	} else {
		t.lastChild = c
	}
	t.firstChild = c
	t.childCount++
}

// AddChildLast appends c at the tail of t's children, so it draws last.
func (t *Transform) AddChildLast(c *Transform) {
	if !t.canAdopt(c) {
		return
	}
	if c.parent != nil {
		c.parent.unlink(c)
	}
	c.parent = t
	c.prevSibling = t.lastChild
	if t.lastChild != nil {
		t.lastChild.nextSibling = c
	} else {
		t.firstChild = c
	}
	t.lastChild = c
	t.childCount++
}

// RemoveChild detaches c from t. Removing a node that is not a child of t is
// a no-op. A removed node is not drawn or updated until it is added again.
func (t *Transform) RemoveChild(c *Transform) {
	if c == nil || c.parent != t {
		return
	}
	t.unlink(c)
	c.parent = nil
}

// MoveToTop moves t to the head of its parent's children (drawn first).
func (t *Transform) MoveToTop() {
	p := t.parent
	if p == nil || p.firstChild == t {
		return
	}
	p.unlink(t)
	t.prevSibling = nil
	t.nextSibling = p.firstChild
	if p.firstChild != nil {
		p.firstChild.prevSibling = t
	} else {
		p.lastChild = t
	}
	p.firstChild = t
	p.childCount++
}

// MoveToBottom moves t to the tail of its parent's children (drawn last, on
// top of its siblings).
func (t *Transform) MoveToBottom() {
	p := t.parent
	if p == nil || p.lastChild == t {
		return
	}
	p.unlink(t)
	t.nextSibling = nil
	t.prevSibling = p.lastChild
	if p.lastChild != nil {
		p.lastChild.nextSibling = t
	} else {
		p.firstChild = t
	}
	p.lastChild = t
	p.childCount++
}

// unlink splices c out of t's child list. c.parent is left as is.
func (t *Transform) unlink(c *Transform) {
	if c.nextSibling != nil {
		c.nextSibling.prevSibling = c.prevSibling
	}
	if c.prevSibling != nil {
		c.prevSibling.nextSibling = c.nextSibling
	}
	if t.firstChild == c {
		t.firstChild = c.nextSibling
	}
	if t.lastChild == c {
		t.lastChild = c.prevSibling
	}
	c.nextSibling = nil
	c.prevSibling = nil
	t.childCount--
}

// canAdopt validates a reparent of c under t and reports violations. Only
// t's ancestors are walked, at most MaxNesting of them. Descendants of c that
// end up too deep are reported when their world matrix is composed.
func (t *Transform) canAdopt(c *Transform) bool {
	if c == nil {
		return false
	}
	if c.IsRoot() {
		t.manager.treeViolation(ErrTreeCycle, c)
		return false
	}
	depth := 0
	for p := t; p != nil; p = p.parent {
		if p == c {
			t.manager.treeViolation(ErrTreeCycle, c)
			return false
		}
		if depth++; depth > MaxNesting {
			t.manager.treeViolation(ErrMaxNesting, c)
			return false
		}
	}
	return true
}

// --- Component collection ---
//
// The Append* methods walk the subtree in pre-order (parent before children,
// earlier siblings first) and append matching components to dst. The hot
// kinds read the entity's per-kind lists instead of scanning every component.

// AppendBehaviors appends every Behavior in the subtree to dst.
func (t *Transform) AppendBehaviors(dst []Behavior) []Behavior {
	if e := t.entity; e != nil {
		dst = append(dst, e.behaviors...)
	}
	for c := t.firstChild; c != nil; c = c.nextSibling {
		dst = c.AppendBehaviors(dst)
	}
	return dst
}

// AppendDrawers appends every Drawer in the subtree to dst.
func (t *Transform) AppendDrawers(dst []Drawer) []Drawer {
	if e := t.entity; e != nil {
		dst = append(dst, e.drawers...)
	}
	for c := t.firstChild; c != nil; c = c.nextSibling {
		dst = c.AppendDrawers(dst)
	}
	return dst
}

// AppendLayouts appends every LayoutUpdater in the subtree to dst.
func (t *Transform) AppendLayouts(dst []LayoutUpdater) []LayoutUpdater {
	if e := t.entity; e != nil {
		dst = append(dst, e.layouts...)
	}
	for c := t.firstChild; c != nil; c = c.nextSibling {
		dst = c.AppendLayouts(dst)
	}
	return dst
}

// AppendInteractables appends every Interactable in the subtree to dst.
func (t *Transform) AppendInteractables(dst []Interactable) []Interactable {
	if e := t.entity; e != nil {
		dst = append(dst, e.interactables...)
	}
	for c := t.firstChild; c != nil; c = c.nextSibling {
		dst = c.AppendInteractables(dst)
	}
	return dst
}

// AppendCameras appends every Camera in the subtree to dst.
func (t *Transform) AppendCameras(dst []*Camera) []*Camera {
	if e := t.entity; e != nil {
		dst = append(dst, e.cameras...)
	}
	for c := t.firstChild; c != nil; c = c.nextSibling {
		dst = c.AppendCameras(dst)
	}
	return dst
}

// AppendComponentsInChildren appends every component of type T in the
// subtree rooted at t to dst, scanning each entity's full component list.
func AppendComponentsInChildren[T any](t *Transform, dst []T) []T {
	if e := t.entity; e != nil {
		for c := e.firstComponent; c != nil; c = c.base().next {
			if v, ok := c.(T); ok {
				dst = append(dst, v)
			}
		}
	}
	for c := t.firstChild; c != nil; c = c.nextSibling {
		dst = AppendComponentsInChildren(c, dst)
	}
	return dst
}

// treeViolation reports a structural invariant violation. In debug mode it
// panics.
func (m *EntityManager) treeViolation(err error, t *Transform) {
	m.log.Error("scene tree violation", zap.Error(err), entityField(t.entity))
	if m.debug {
		panic(err)
	}
}
