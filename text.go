package s2d

import "github.com/chewxy/math32"

// textGlyph is one laid-out glyph relative to the top-left of the text run.
type textGlyph struct {
	pos  Vec2
	size Vec2
	uvTL Vec2
	uvBR Vec2
}

// TextDrawer draws a string with a bitmap font. Glyphs are laid out inside
// the Transform's size rectangle, starting at its top-left corner.
type TextDrawer struct {
	BaseComponent
	Font  *RenderFont
	Text  string
	Scale float32
	Color Color

	// Layout cache, rebuilt when Font, its metrics, Scale or Text change.
	cacheFont    *RenderFont
	cacheVersion uint32
	cacheScale   float32
	cacheText    string
	cacheValid   bool
	glyphs       []textGlyph
	bestSize     Vec2

	world Matrix2x3
	glyph Matrix2x3
}

// NewTextDrawer returns a white, unscaled drawer for text. A nil font uses
// DefaultFont.
func NewTextDrawer(font *RenderFont, text string) *TextDrawer {
	if font == nil {
		font = DefaultFont()
	}
	return &TextDrawer{Font: font, Text: text, Scale: 1, Color: ColorWhite}
}

// SetText replaces the text.
func (d *TextDrawer) SetText(s string) *TextDrawer {
	d.Text = s
	return d
}

func (d *TextDrawer) layout() {
	f := d.Font
	var version uint32
	if f != nil {
		version = f.version
	}
	if d.cacheValid && d.cacheFont == f && d.cacheVersion == version &&
		d.cacheScale == d.Scale && d.cacheText == d.Text {
		return
	}
	d.cacheFont, d.cacheVersion, d.cacheScale, d.cacheText, d.cacheValid = f, version, d.Scale, d.Text, true
	d.glyphs = d.glyphs[:0]
	d.bestSize = Vec2{}

	if f == nil || d.Text == "" {
		return
	}

	pw, ph := f.TextureSize()
	if (pw == 0 || ph == 0) && f.texture != nil {
		pw, ph = f.texture.Width(), f.texture.Height()
	}
	invW, invH := float32(0), float32(0)
	if pw > 0 && ph > 0 {
		invW, invH = 1/float32(pw), 1/float32(ph)
	}

	scale := d.Scale
	lineHeight := float32(f.lineHeight) * scale
	var penX, penY, maxX float32
	lines := 1
	for _, r := range d.Text {
		if r == '\n' {
			penX = 0
			penY += lineHeight
			lines++
			continue
		}
		g, ok := f.Glyph(r)
		if !ok {
			continue
		}
		if g.Width > 0 && g.Height > 0 {
			d.glyphs = append(d.glyphs, textGlyph{
				pos:  Vec2{penX + float32(g.XOffset)*scale, penY + float32(g.YOffset)*scale},
				size: Vec2{float32(g.Width) * scale, float32(g.Height) * scale},
				uvTL: Vec2{float32(g.X) * invW, float32(g.Y) * invH},
				uvBR: Vec2{float32(g.X+g.Width) * invW, float32(g.Y+g.Height) * invH},
			})
		}
		penX += float32(g.XAdvance) * scale
		maxX = math32.Max(maxX, penX)
	}
	d.bestSize = Vec2{maxX, float32(lines) * lineHeight}
}

// Draw emits one quad per visible glyph. Nothing is drawn until the font
// has a texture.
func (d *TextDrawer) Draw(cmd *RenderCommands) {
	if d.Font == nil || d.Font.texture == nil {
		return
	}
	d.layout()
	if len(d.glyphs) == 0 {
		return
	}
	t := d.Transform()
	t.LocalToGlobalMatrix(&d.world)
	origin, _ := localRect(t.size, t.pivot)
	tex := d.Font.texture
	for i := range d.glyphs {
		g := &d.glyphs[i]
		center := origin.Add(g.pos).Add(g.size.Scale(0.5))
		d.glyph.Translate(&d.world, center)
		cmd.DrawRect(&d.glyph, g.size, Vec2{}, tex, g.uvTL, g.uvBR, d.Color)
	}
}

// BestSize is the width of the longest line by the height of all lines.
func (d *TextDrawer) BestSize() Vec2 {
	d.layout()
	return d.bestSize
}
