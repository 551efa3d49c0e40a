package s2d

import "github.com/pkg/errors"

// Sentinel errors. Parse and load paths wrap these with context, so compare
// with errors.Is.
var (
	// ErrEntityDestroyed is returned when a component is added to an entity
	// that has already been torn down.
	ErrEntityDestroyed = errors.New("s2d: entity destroyed")

	// ErrComponentAttached is returned when a component that already belongs
	// to an entity is added again.
	ErrComponentAttached = errors.New("s2d: component already attached")

	// ErrNotInitialized is returned by operations that need a device or
	// engine that has not been set up yet.
	ErrNotInitialized = errors.New("s2d: not initialized")

	// ErrMissingDrawer is reported when a Layout size mode needs a Drawer
	// that is not there.
	ErrMissingDrawer = errors.New("s2d: layout has no drawer to size from")

	// ErrBadFont is returned for malformed bitmap font descriptors.
	ErrBadFont = errors.New("s2d: malformed bitmap font")

	// ErrTreeCycle is reported when a reparent would make a node its own
	// ancestor.
	ErrTreeCycle = errors.New("s2d: transform would become its own ancestor")

	// ErrMaxNesting is reported when a reparent would exceed MaxNesting.
	ErrMaxNesting = errors.New("s2d: transform nesting too deep")

	// ErrDoubleDestroy is reported when Destroy is called on an entity that
	// was already torn down.
	ErrDoubleDestroy = errors.New("s2d: entity destroyed twice")
)
