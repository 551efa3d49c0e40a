package s2d

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCommands(t testing.TB, opts RenderOptions) (*RenderCommands, *HeadlessDevice) {
	t.Helper()
	dev := NewHeadlessDevice(800, 600)
	dev.SetRecording(true)
	rc, err := NewRenderCommands(dev, opts, nil, nil)
	require.NoError(t, err)
	return rc, dev
}

func drawQuads(rc *RenderCommands, n int, tex *Texture) {
	size := Vec2{4, 4}
	for i := 0; i < n; i++ {
		rc.DrawRect(&Identity2x3, size, Vec2{}, tex, Vec2{}, Vec2{1, 1}, ColorWhite)
	}
}

// --- Construction ---

func TestNewRenderCommands_Defaults(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{})
	assert.True(t, dev.Compiled())
	// 4096 triangles = 12288 vertices = 3072 quads.
	assert.Equal(t, 3072, rc.QuadCapacity())
	assert.Equal(t, 0, rc.RingSlot())
}

func TestNewRenderCommands_InvalidSizes(t *testing.T) {
	dev := NewHeadlessDevice(1, 1)
	_, err := NewRenderCommands(dev, RenderOptions{MaxTriangles: 1}, nil, nil)
	assert.Error(t, err, "cannot hold a quad")

	_, err = NewRenderCommands(dev, RenderOptions{MaxTriangles: 30000}, nil, nil)
	assert.Error(t, err, "exceeds u16 indices")

	_, err = NewRenderCommands(nil, RenderOptions{}, nil, nil)
	assert.ErrorIs(t, err, ErrNotInitialized)
}

// --- Flushing ---

func TestEnd_FewQuadsOneDraw(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{})
	tex := NewTexture("a", false)
	rc.Start()
	drawQuads(rc, 100, tex)
	assert.Equal(t, 0, dev.Draws, "nothing drawn before End")
	rc.End()

	require.Equal(t, 1, dev.Draws)
	assert.Equal(t, 600, dev.Calls[0].IndexCount)
	assert.Same(t, tex, dev.Calls[0].Texture)
	assert.Equal(t, Vec2{800, 600}, dev.Calls[0].Resolution)
	assert.Equal(t, 0, rc.VertexCount(), "End resets the batch")
	assert.Nil(t, rc.Texture())
}

func TestEnd_TenThousandQuadsFlushWhenFull(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{MaxTriangles: 4096})
	rc.Start()
	drawQuads(rc, 10000, NewTexture("a", false))
	rc.End()

	// ceil(10000*4 / 12288)
	require.Equal(t, 4, dev.Draws)
	for i := 0; i < 3; i++ {
		assert.Equal(t, 3072*6, dev.Calls[i].IndexCount)
	}
	assert.Equal(t, (10000-3*3072)*6, dev.Calls[3].IndexCount)
	assert.Equal(t, 4, rc.DrawCalls())
}

func TestEnd_TextureChangeFlushes(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{})
	a, b := NewTexture("a", false), NewTexture("b", true)
	rc.Start()
	for _, tex := range []*Texture{a, a, b, b, a} {
		drawQuads(rc, 1, tex)
	}
	rc.End()

	require.Equal(t, 3, dev.Draws)
	assert.Same(t, a, dev.Calls[0].Texture)
	assert.Equal(t, 12, dev.Calls[0].IndexCount)
	assert.Same(t, b, dev.Calls[1].Texture)
	assert.True(t, dev.Calls[1].Blend)
	assert.False(t, dev.Calls[0].Blend)
	assert.Same(t, a, dev.Calls[2].Texture)
	assert.Equal(t, 6, dev.Calls[2].IndexCount)
}

func TestEnd_EmptyBatchDrawsNothing(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{})
	rc.Start()
	rc.End()
	assert.Equal(t, 0, dev.Draws)
	assert.Equal(t, 0, dev.Uploads)
}

func TestEnd_ContextLostDiscards(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{})
	dev.SetContextLost(true)
	rc.Start()
	drawQuads(rc, 10, nil)
	rc.End()
	rc.Clear(ColorBlack)

	assert.Equal(t, 0, dev.Draws)
	assert.Equal(t, 0, dev.Clears)
	assert.Equal(t, 0, rc.VertexCount())

	dev.SetContextLost(false)
	drawQuads(rc, 1, nil)
	rc.End()
	assert.Equal(t, 1, dev.Draws)
}

func TestEnd_DisabledDiscards(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{})
	rc.SetEnabled(false)
	rc.Start()
	drawQuads(rc, 10, nil)
	rc.End()
	rc.Clear(ColorBlack)
	assert.Equal(t, 0, dev.Draws)
	assert.Equal(t, 0, dev.Clears)
}

func TestEnd_CountsIntoStats(t *testing.T) {
	dev := NewHeadlessDevice(8, 8)
	stats := NewStats(nil, false)
	rc, err := NewRenderCommands(dev, RenderOptions{}, stats, nil)
	require.NoError(t, err)
	stats.StartFrame()
	drawQuads(rc, 1, nil)
	rc.End()
	assert.Equal(t, 1, stats.DrawCalls())
}

// --- Packing ---

func TestDrawRect_VertexLayout(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{})
	var m Matrix2x3
	m.FromTranslation(Vec2{100, 50})
	col := RGBA8(1, 2, 3, 4)
	rc.Start()
	rc.DrawRect(&m, Vec2{10, 20}, Vec2{}, nil, Vec2{0.25, 0}, Vec2{0.75, 1}, col)
	rc.DrawRect(&m, Vec2{10, 20}, Vec2{-1, -1}, nil, Vec2{}, Vec2{1, 1}, col)
	rc.End()

	require.Len(t, dev.Calls, 1)
	call := dev.Calls[0]
	require.Len(t, call.VertexData, 8*VertexSize)
	require.Len(t, call.IndexData, 12*IndexSize)

	want := []Vertex{
		{X: 95, Y: 40, U: 0.25, V: 0},
		{X: 105, Y: 40, U: 0.75, V: 0},
		{X: 105, Y: 60, U: 0.75, V: 1},
		{X: 95, Y: 60, U: 0.25, V: 1},
	}
	for i, w := range want {
		got := DecodeVertex(call.VertexData, i)
		assert.InDelta(t, w.X, got.X, testEpsilon, "vertex %d x", i)
		assert.InDelta(t, w.Y, got.Y, testEpsilon, "vertex %d y", i)
		assert.InDelta(t, w.U, got.U, testEpsilon, "vertex %d u", i)
		assert.InDelta(t, w.V, got.V, testEpsilon, "vertex %d v", i)
		assert.Equal(t, uint32(0x04030201), got.Color, "vertex %d color", i)
	}
	// Top-left pivot puts the local origin at the rectangle's corner.
	first := DecodeVertex(call.VertexData, 4)
	assert.InDelta(t, 100, first.X, testEpsilon)
	assert.InDelta(t, 50, first.Y, testEpsilon)

	// Raw little-endian color bytes are R, G, B, A.
	assert.Equal(t, []byte{1, 2, 3, 4}, call.VertexData[8:12])

	var idx []uint16
	for i := 0; i < 12; i++ {
		idx = append(idx, DecodeIndex(call.IndexData, i))
	}
	assert.Equal(t, []uint16{0, 1, 2, 2, 3, 0, 4, 5, 6, 6, 7, 4}, idx)
}

func TestDrawQuad_UVClamped(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{})
	v := Vertex{U: -1, V: 2}
	rc.DrawQuad(&v, &v, &v, &v, nil)
	rc.End()
	got := DecodeVertex(dev.Calls[0].VertexData, 0)
	assert.Equal(t, float32(0), got.U)
	assert.Equal(t, float32(1), got.V)
}

func TestEnd_RingAdvancesPerFlush(t *testing.T) {
	rc, dev := newTestCommands(t, RenderOptions{BufferRing: 3})
	for i := 0; i < 4; i++ {
		drawQuads(rc, 1, nil)
		rc.End()
	}
	require.Len(t, dev.Calls, 4)
	assert.Equal(t, 1, rc.RingSlot())
	assert.NotEqual(t, dev.Calls[0].Vertices, dev.Calls[1].Vertices)
	assert.NotEqual(t, dev.Calls[1].Vertices, dev.Calls[2].Vertices)
	assert.Equal(t, dev.Calls[0].Vertices, dev.Calls[3].Vertices, "wrapped")
	assert.Equal(t, dev.Calls[0].Indices, dev.Calls[3].Indices)
}
