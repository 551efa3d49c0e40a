package s2d

import (
	"bufio"
	"bytes"
	"encoding/xml"
	"image"
	"image/color"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"golang.org/x/image/font/basicfont"
)

// Glyph is one character cell of a bitmap font, in texture pixels.
type Glyph struct {
	ID       rune
	X, Y     int
	Width    int
	Height   int
	XOffset  int
	YOffset  int
	XAdvance int
}

const asciiGlyphCount = 128

// RenderFont maps characters to glyph rectangles on one shared page texture.
// Metrics are fixed once parsed; the page texture may still be a placeholder
// that gets its pixels later.
type RenderFont struct {
	texture       *Texture
	pageFile      string
	textureWidth  int
	textureHeight int
	lineHeight    int
	base          int

	ascii    [asciiGlyphCount]Glyph
	asciiSet [asciiGlyphCount]bool
	ext      map[rune]*Glyph
	count    int
	version  uint32
}

// Texture returns the page texture, or nil before one is attached.
func (f *RenderFont) Texture() *Texture { return f.texture }

// AttachTexture sets the page texture.
func (f *RenderFont) AttachTexture(t *Texture) { f.texture = t }

// PageFile returns the page image file named by the descriptor.
func (f *RenderFont) PageFile() string { return f.pageFile }

// TextureSize returns the page size declared by the descriptor
// (scaleW, scaleH).
func (f *RenderFont) TextureSize() (w, h int) { return f.textureWidth, f.textureHeight }

// LineHeight returns the distance between baselines in pixels.
func (f *RenderFont) LineHeight() int { return f.lineHeight }

// Version increments every time the metrics are replaced.
func (f *RenderFont) Version() uint32 { return f.version }

// load replaces the metrics with those of src, keeping the texture.
func (f *RenderFont) load(src *RenderFont) {
	tex, version := f.texture, f.version
	*f = *src
	f.texture = tex
	f.version = version + 1
}

// Len returns the number of glyphs.
func (f *RenderFont) Len() int { return f.count }

// Glyph looks up r.
func (f *RenderFont) Glyph(r rune) (*Glyph, bool) {
	if r >= 0 && r < asciiGlyphCount {
		if !f.asciiSet[r] {
			return nil, false
		}
		return &f.ascii[r], true
	}
	g, ok := f.ext[r]
	return g, ok
}

func (f *RenderFont) addGlyph(g Glyph) {
	f.count++
	if g.ID >= 0 && g.ID < asciiGlyphCount {
		f.ascii[g.ID] = g
		f.asciiSet[g.ID] = true
		return
	}
	if f.ext == nil {
		f.ext = make(map[rune]*Glyph)
	}
	f.ext[g.ID] = &g
}

func (f *RenderFont) validate() error {
	if f.lineHeight == 0 {
		return errors.Wrap(ErrBadFont, "missing common lineHeight")
	}
	if f.count == 0 {
		return errors.Wrap(ErrBadFont, "no char definitions")
	}
	return nil
}

// ParseFont parses a BMFont descriptor in either the text or the XML format.
func ParseFont(data []byte) (*RenderFont, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '<' {
		return ParseFontXML(data)
	}
	return ParseFontText(data)
}

// ParseFontText parses BMFont .fnt text-format data.
func ParseFontText(data []byte) (*RenderFont, error) {
	f := &RenderFont{}
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		tag, rest := splitTag(line)
		fields := parseFields(rest)

		switch tag {
		case "common":
			f.lineHeight = atoiField(fields, "lineHeight")
			f.base = atoiField(fields, "base")
			f.textureWidth = atoiField(fields, "scaleW")
			f.textureHeight = atoiField(fields, "scaleH")
		case "page":
			if f.pageFile == "" {
				f.pageFile = fields["file"]
			}
		case "char":
			f.addGlyph(Glyph{
				ID:       rune(atoiField(fields, "id")),
				X:        atoiField(fields, "x"),
				Y:        atoiField(fields, "y"),
				Width:    atoiField(fields, "width"),
				Height:   atoiField(fields, "height"),
				XOffset:  atoiField(fields, "xoffset"),
				YOffset:  atoiField(fields, "yoffset"),
				XAdvance: atoiField(fields, "xadvance"),
			})
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "s2d: read .fnt data")
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

// splitTag splits a BMFont line into its tag and the rest of the line.
func splitTag(line string) (string, string) {
	idx := strings.IndexByte(line, ' ')
	if idx == -1 {
		return line, ""
	}
	return line[:idx], line[idx+1:]
}

// parseFields parses "key=value key=value ..." into a map.
func parseFields(s string) map[string]string {
	fields := make(map[string]string)
	for _, part := range strings.Fields(s) {
		eq := strings.IndexByte(part, '=')
		if eq == -1 {
			continue
		}
		key := part[:eq]
		val := part[eq+1:]
		// Strip quotes from values like face="Arial"
		if len(val) >= 2 && val[0] == '"' && val[len(val)-1] == '"' {
			val = val[1 : len(val)-1]
		}
		fields[key] = val
	}
	return fields
}

func atoiField(fields map[string]string, key string) int {
	v, _ := strconv.Atoi(fields[key])
	return v
}

type xmlFont struct {
	Common struct {
		LineHeight int `xml:"lineHeight,attr"`
		Base       int `xml:"base,attr"`
		ScaleW     int `xml:"scaleW,attr"`
		ScaleH     int `xml:"scaleH,attr"`
	} `xml:"common"`
	Pages []struct {
		File string `xml:"file,attr"`
	} `xml:"pages>page"`
	Chars []struct {
		ID       int `xml:"id,attr"`
		X        int `xml:"x,attr"`
		Y        int `xml:"y,attr"`
		Width    int `xml:"width,attr"`
		Height   int `xml:"height,attr"`
		XOffset  int `xml:"xoffset,attr"`
		YOffset  int `xml:"yoffset,attr"`
		XAdvance int `xml:"xadvance,attr"`
	} `xml:"chars>char"`
}

// ParseFontXML parses BMFont XML-format data.
func ParseFontXML(data []byte) (*RenderFont, error) {
	var doc xmlFont
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(ErrBadFont, err.Error())
	}
	f := &RenderFont{
		lineHeight:    doc.Common.LineHeight,
		base:          doc.Common.Base,
		textureWidth:  doc.Common.ScaleW,
		textureHeight: doc.Common.ScaleH,
	}
	if len(doc.Pages) > 0 {
		f.pageFile = doc.Pages[0].File
	}
	for _, c := range doc.Chars {
		f.addGlyph(Glyph{
			ID:       rune(c.ID),
			X:        c.X,
			Y:        c.Y,
			Width:    c.Width,
			Height:   c.Height,
			XOffset:  c.XOffset,
			YOffset:  c.YOffset,
			XAdvance: c.XAdvance,
		})
	}
	if err := f.validate(); err != nil {
		return nil, err
	}
	return f, nil
}

var defaultFont = sync.OnceValue(buildDefaultFont)

// DefaultFont returns a built-in 7x13 font that needs no assets.
func DefaultFont() *RenderFont { return defaultFont() }

// buildDefaultFont rasterizes basicfont.Face7x13 into a page texture. The
// face stores its glyphs stacked vertically in one alpha mask.
func buildDefaultFont() *RenderFont {
	face := basicfont.Face7x13
	mask := face.Mask
	b := mask.Bounds()

	page := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			_, _, _, a := mask.At(x, y).RGBA()
			a8 := uint8(a >> 8)
			page.SetRGBA(x-b.Min.X, y-b.Min.Y, color.RGBA{a8, a8, a8, a8})
		}
	}

	f := &RenderFont{
		pageFile:      "basicfont-7x13",
		textureWidth:  b.Dx(),
		textureHeight: b.Dy(),
		lineHeight:    face.Height,
		base:          face.Ascent,
	}
	for _, rg := range face.Ranges {
		for r := rg.Low; r < rg.High; r++ {
			idx := int(r-rg.Low) + rg.Offset
			f.addGlyph(Glyph{
				ID:       r,
				X:        0,
				Y:        idx * face.Height,
				Width:    face.Width,
				Height:   face.Height,
				XAdvance: face.Advance,
			})
		}
	}
	f.texture = NewTextureFromImage("basicfont-7x13", page, true)
	return f
}
