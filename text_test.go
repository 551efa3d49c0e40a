package s2d

import (
	"image"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- BMFont fixtures ---

const testFntData = `info face="Test" size=16 bold=0 italic=0 charset="" unicode=1
common lineHeight=20 base=16 scaleW=64 scaleH=64 pages=1 packed=0
page id=0 file="test.png"
chars count=4
char id=32 x=0  y=0 width=0  height=0  xoffset=0 yoffset=0 xadvance=5  page=0
char id=65 x=0  y=0 width=10 height=16 xoffset=1 yoffset=2 xadvance=11 page=0
char id=66 x=10 y=0 width=9  height=16 xoffset=0 yoffset=2 xadvance=10 page=0
char id=233 x=20 y=0 width=9 height=16 xoffset=0 yoffset=0 xadvance=10 page=0
`

const testFntXML = `<?xml version="1.0"?>
<font>
  <info face="Test" size="16"/>
  <common lineHeight="20" base="16" scaleW="64" scaleH="64" pages="1"/>
  <pages><page id="0" file="test.png"/></pages>
  <chars count="3">
    <char id="32" x="0" y="0" width="0" height="0" xoffset="0" yoffset="0" xadvance="5"/>
    <char id="65" x="0" y="0" width="10" height="16" xoffset="1" yoffset="2" xadvance="11"/>
    <char id="66" x="10" y="0" width="9" height="16" xoffset="0" yoffset="2" xadvance="10"/>
  </chars>
</font>`

func loadTestFont(t *testing.T) *RenderFont {
	t.Helper()
	f, err := ParseFont([]byte(testFntData))
	require.NoError(t, err)
	f.AttachTexture(NewTextureFromImage("test.png", image.NewRGBA(image.Rect(0, 0, 64, 64)), true))
	return f
}

// --- Parsing ---

func TestParseFontText(t *testing.T) {
	f := loadTestFont(t)
	assert.Equal(t, 4, f.Len())
	assert.Equal(t, 20, f.LineHeight())
	assert.Equal(t, "test.png", f.PageFile())
	w, h := f.TextureSize()
	assert.Equal(t, 64, w)
	assert.Equal(t, 64, h)

	g, ok := f.Glyph('B')
	require.True(t, ok)
	assert.Equal(t, Glyph{ID: 'B', X: 10, Width: 9, Height: 16, YOffset: 2, XAdvance: 10}, *g)

	g, ok = f.Glyph('é')
	require.True(t, ok, "non-ASCII glyphs live in the extended table")
	assert.Equal(t, 20, g.X)

	_, ok = f.Glyph('Z')
	assert.False(t, ok)
}

func TestParseFontXML(t *testing.T) {
	f, err := ParseFont([]byte(testFntXML))
	require.NoError(t, err)
	assert.Equal(t, 3, f.Len())
	assert.Equal(t, 20, f.LineHeight())
	assert.Equal(t, "test.png", f.PageFile())
	g, ok := f.Glyph('A')
	require.True(t, ok)
	assert.Equal(t, 11, g.XAdvance)
	assert.Equal(t, 1, g.XOffset)
}

func TestParseFont_Malformed(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"missing line height", "page id=0 file=\"a.png\"\nchar id=65 width=1 height=1 xadvance=2\n"},
		{"no chars", "common lineHeight=20 scaleW=8 scaleH=8\n"},
		{"empty", ""},
		{"broken xml", "<font><common lineHeight="},
		{"xml without chars", `<font><common lineHeight="20"/></font>`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseFont([]byte(tt.data))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrBadFont), "got %v", err)
		})
	}
}

func TestDefaultFont(t *testing.T) {
	f := DefaultFont()
	assert.Same(t, f, DefaultFont())
	require.NotNil(t, f.Texture())
	assert.True(t, f.Texture().Loaded())
	assert.Equal(t, 13, f.LineHeight())

	g, ok := f.Glyph('A')
	require.True(t, ok)
	assert.Equal(t, 7, g.XAdvance)
	assert.Equal(t, 13, g.Height)
	assert.Less(t, g.Y+g.Height, f.Texture().Height()+1)
}

// --- Layout ---

func TestTextDrawer_BestSize(t *testing.T) {
	f := loadTestFont(t)
	d := NewTextDrawer(f, "AB A")
	assert.Equal(t, Vec2{37, 20}, d.BestSize())

	d.SetText("AB\nA")
	assert.Equal(t, Vec2{21, 40}, d.BestSize())

	d.Scale = 2
	assert.Equal(t, Vec2{42, 80}, d.BestSize())

	d.SetText("")
	assert.Equal(t, Vec2{}, d.BestSize())
}

func TestTextDrawer_UnknownGlyphsSkipped(t *testing.T) {
	d := NewTextDrawer(loadTestFont(t), "A?B")
	assert.Equal(t, Vec2{21, 20}, d.BestSize())
}

func TestTextDrawer_RelayoutAfterFontLoads(t *testing.T) {
	f := &RenderFont{}
	d := NewTextDrawer(f, "AB A")
	assert.Equal(t, Vec2{}, d.BestSize())

	parsed, err := ParseFont([]byte(testFntData))
	require.NoError(t, err)
	f.load(parsed)
	assert.Equal(t, Vec2{37, 20}, d.BestSize())
}

func TestTextDrawer_NilFontUsesDefault(t *testing.T) {
	d := NewTextDrawer(nil, "hi")
	assert.Same(t, DefaultFont(), d.Font)
	assert.Equal(t, Vec2{14, 13}, d.BestSize())
}

// --- Drawing ---

func TestTextDrawer_DrawEmitsOneQuadPerVisibleGlyph(t *testing.T) {
	m, _ := newTestManager(t)
	rc, dev := newTestCommands(t, RenderOptions{})
	f := loadTestFont(t)

	e := m.NewEntity("text")
	e.Transform().SetPivot(-1, -1).SetLocalPosition(10, 10).SetSize(37, 20)
	d := NewTextDrawer(f, "AB A")
	d.Color = RGBA8(255, 0, 0, 255)
	mustAdd(t, e, d)

	d.Draw(rc)
	rc.End()

	require.Len(t, dev.Calls, 1)
	call := dev.Calls[0]
	assert.Same(t, f.Texture(), call.Texture)
	assert.Equal(t, 3*6, call.IndexCount, "space has no quad")

	// First glyph 'A': offset (1,2), size 10x16.
	tl := DecodeVertex(call.VertexData, 0)
	br := DecodeVertex(call.VertexData, 2)
	requireVec(t, Vec2{11, 12}, Vec2{tl.X, tl.Y})
	requireVec(t, Vec2{21, 28}, Vec2{br.X, br.Y})
	requireVec(t, Vec2{0, 0}, Vec2{tl.U, tl.V})
	requireVec(t, Vec2{10.0 / 64, 16.0 / 64}, Vec2{br.U, br.V})
	assert.Equal(t, uint32(0xff0000ff), tl.Color)

	// Second glyph 'B' starts at pen x 11.
	b := DecodeVertex(call.VertexData, 4)
	requireVec(t, Vec2{21, 12}, Vec2{b.X, b.Y})

	// Last 'A' starts at pen x 26.
	a2 := DecodeVertex(call.VertexData, 8)
	requireVec(t, Vec2{37, 12}, Vec2{a2.X, a2.Y})
}

func TestTextDrawer_NoTextureDrawsNothing(t *testing.T) {
	m, _ := newTestManager(t)
	rc, dev := newTestCommands(t, RenderOptions{})
	f, err := ParseFont([]byte(testFntData))
	require.NoError(t, err)

	e := m.NewEntity("text")
	d := NewTextDrawer(f, "AB")
	mustAdd(t, e, d)
	d.Draw(rc)
	rc.End()
	assert.Equal(t, 0, dev.Draws)
}

func BenchmarkTextDrawer_Layout(b *testing.B) {
	f, err := ParseFont([]byte(testFntData))
	require.NoError(b, err)
	d := NewTextDrawer(f, "AB A AB A AB A\nAB A")
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		d.cacheValid = false
		d.layout()
	}
}
