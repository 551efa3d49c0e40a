package s2d

import (
	"image"
	"image/color"
	"sync/atomic"

	"golang.org/x/image/draw"
)

var textureIDCounter atomic.Uint32

// Texture is a 2D image handle shared by drawers. A texture created before
// its pixels arrive holds a 1x1 white placeholder; SetImage swaps the pixels
// in place so every drawer holding the handle picks them up.
//
// Textures are mutated only on the frame thread.
type Texture struct {
	id       uint32
	name     string
	hasAlpha bool

	pixels  *image.RGBA
	loaded  bool
	version uint32
}

func whitePixel() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 1, 1))
	img.SetRGBA(0, 0, color.RGBA{255, 255, 255, 255})
	return img
}

// NewTexture returns a placeholder texture that is usable immediately.
// hasAlpha selects blending when the texture is drawn.
func NewTexture(name string, hasAlpha bool) *Texture {
	return &Texture{
		id:       textureIDCounter.Add(1),
		name:     name,
		hasAlpha: hasAlpha,
		pixels:   whitePixel(),
	}
}

// NewTextureFromImage returns a loaded texture holding a copy of img.
func NewTextureFromImage(name string, img image.Image, hasAlpha bool) *Texture {
	t := NewTexture(name, hasAlpha)
	t.SetImage(img)
	return t
}

// SetImage replaces the texture's pixels and marks it loaded. Devices
// re-upload on the next bind.
func (t *Texture) SetImage(img image.Image) {
	rgba, ok := img.(*image.RGBA)
	if !ok || rgba.Rect.Min != (image.Point{}) {
		b := img.Bounds()
		rgba = image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(rgba, rgba.Rect, img, b.Min, draw.Src)
	}
	t.pixels = rgba
	t.loaded = true
	t.version++
}

// ID returns a process-unique texture id.
func (t *Texture) ID() uint32 { return t.id }

// Name returns the name the texture was created with.
func (t *Texture) Name() string { return t.name }

// HasAlpha reports whether drawing the texture needs blending.
func (t *Texture) HasAlpha() bool { return t.hasAlpha }

// Loaded reports whether real pixel data has arrived.
func (t *Texture) Loaded() bool { return t.loaded }

// Width returns the pixel width (1 for the placeholder).
func (t *Texture) Width() int { return t.pixels.Rect.Dx() }

// Height returns the pixel height (1 for the placeholder).
func (t *Texture) Height() int { return t.pixels.Rect.Dy() }

// Size returns the pixel size as a Vec2.
func (t *Texture) Size() Vec2 { return Vec2{float32(t.Width()), float32(t.Height())} }

// Pixels returns the current pixel data. Do not modify it.
func (t *Texture) Pixels() *image.RGBA { return t.pixels }

// Version increments every time the pixels are replaced.
func (t *Texture) Version() uint32 { return t.version }
