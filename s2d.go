package s2d

import (
	"image/color"

	"github.com/chewxy/math32"
)

// Color represents an RGBA color with components in [0, 1]. Not premultiplied.
// Vertices carry it packed as ABGR bytes (see Packed).
type Color struct {
	R, G, B, A float32
}

// ColorWhite is the default tint (no color modification).
var ColorWhite = Color{1, 1, 1, 1}

// ColorBlack is opaque black, the default camera clear color.
var ColorBlack = Color{0, 0, 0, 1}

// RGBA8 builds a Color from 8-bit channels.
func RGBA8(r, g, b, a uint8) Color {
	return Color{float32(r) / 255, float32(g) / 255, float32(b) / 255, float32(a) / 255}
}

// ColorFromHex builds a Color from a 0xRRGGBBAA value.
func ColorFromHex(rgba uint32) Color {
	return RGBA8(uint8(rgba>>24), uint8(rgba>>16), uint8(rgba>>8), uint8(rgba))
}

func channel8(v float32) uint32 {
	return uint32(math32.Round(Clamp(v, 0, 1) * 255))
}

// Hex returns the color as 0xRRGGBBAA.
func (c Color) Hex() uint32 {
	return channel8(c.R)<<24 | channel8(c.G)<<16 | channel8(c.B)<<8 | channel8(c.A)
}

// Packed returns the color as a little-endian ABGR word, which puts the bytes
// in R, G, B, A order in memory.
func (c Color) Packed() uint32 {
	return channel8(c.A)<<24 | channel8(c.B)<<16 | channel8(c.G)<<8 | channel8(c.R)
}

// NRGBA converts c to a standard library color.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: uint8(channel8(c.R)), G: uint8(channel8(c.G)), B: uint8(channel8(c.B)), A: uint8(channel8(c.A))}
}

// Rect is an axis-aligned rectangle. The coordinate system has its origin at
// the top-left, with Y increasing downward.
type Rect struct {
	X, Y, Width, Height float32
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Intersects reports whether r and other overlap.
// Adjacent rectangles (sharing only an edge) are considered intersecting.
func (r Rect) Intersects(other Rect) bool {
	return r.X <= other.X+other.Width &&
		r.X+r.Width >= other.X &&
		r.Y <= other.Y+other.Height &&
		r.Y+r.Height >= other.Y
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{r.X + r.Width/2, r.Y + r.Height/2}
}

// ComponentKind identifies one of the capability sets the engine dispatches on
// every frame.
type ComponentKind uint8

const (
	KindBehavior     ComponentKind = iota // has Update(*Frame)
	KindDrawer                            // emits quads into RenderCommands
	KindLayout                            // resizes its Transform after behaviors run
	KindInteractable                      // receives pointer down/up
	KindCamera                            // starts a render pass

	numKinds
)

var kindNames = [numKinds]string{"behavior", "drawer", "layout", "interactable", "camera"}

func (k ComponentKind) String() string {
	if k < numKinds {
		return kindNames[k]
	}
	return "unknown"
}
