package s2d

import "github.com/chewxy/math32"

// TextureDrawer draws one textured quad covering its Transform's size
// rectangle, anchored by pivot.
type TextureDrawer struct {
	BaseComponent
	Texture       *Texture
	UVTopLeft     Vec2
	UVBottomRight Vec2
	Color         Color
	// SkipUnloaded skips drawing while the texture still holds its
	// placeholder. Otherwise the white placeholder is drawn tinted.
	SkipUnloaded bool

	world Matrix2x3
}

// NewTextureDrawer returns a drawer showing the whole of tex, untinted.
func NewTextureDrawer(tex *Texture) *TextureDrawer {
	return &TextureDrawer{
		Texture:       tex,
		UVBottomRight: Vec2{1, 1},
		Color:         ColorWhite,
	}
}

// SetRegion shows an atlas region.
func (d *TextureDrawer) SetRegion(r Region) {
	d.Texture = r.Texture
	d.UVTopLeft, d.UVBottomRight = r.UV()
}

// Draw emits the quad.
func (d *TextureDrawer) Draw(cmd *RenderCommands) {
	if d.SkipUnloaded && (d.Texture == nil || !d.Texture.Loaded()) {
		return
	}
	t := d.Transform()
	t.LocalToGlobalMatrix(&d.world)
	cmd.DrawRect(&d.world, t.size, t.pivot, d.Texture, d.UVTopLeft, d.UVBottomRight, d.Color)
}

// BestSize is the texture's pixel size scaled by the UV span.
func (d *TextureDrawer) BestSize() Vec2 {
	if d.Texture == nil {
		return Vec2{}
	}
	span := d.UVBottomRight.Sub(d.UVTopLeft)
	return Vec2{
		float32(d.Texture.Width()) * math32.Abs(span.X),
		float32(d.Texture.Height()) * math32.Abs(span.Y),
	}
}
