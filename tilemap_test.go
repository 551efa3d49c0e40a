package s2d

import (
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestTileset returns a loaded 32×16 texture holding 4×2 tiles of 8×8.
func newTestTileset() *Texture {
	return NewTextureFromImage("tiles.png", image.NewRGBA(image.Rect(0, 0, 32, 16)), true)
}

func newTestTilemap(t *testing.T, tileset *Texture, cols, rows int) (*TilemapDrawer, *EntityManager) {
	t.Helper()
	m, _ := newTestManager(t)
	e := m.NewEntity("map")
	e.Transform().SetPivot(-1, -1).SetLocalPosition(10, 20)
	tm := NewTilemapDrawer(tileset, 8, 8, cols, rows)
	mustAdd(t, e, tm)
	return tm, m
}

func TestTilemap_TileAccess(t *testing.T) {
	tm, _ := newTestTilemap(t, nil, 3, 2)
	tm.SetTile(2, 1, 7)
	assert.Equal(t, uint32(7), tm.Tile(2, 1))
	assert.Equal(t, uint32(0), tm.Tile(0, 0))

	tm.SetTile(5, 5, 1)
	assert.Equal(t, uint32(0), tm.Tile(5, 5), "out of range")

	tm.SetData([]uint32{1, 2}, 2, 2)
	assert.Equal(t, 2, tm.Columns())
	assert.Equal(t, 2, tm.Rows())
	assert.Equal(t, uint32(2), tm.Tile(1, 0))
	assert.Equal(t, uint32(0), tm.Tile(1, 1), "short data is zero padded")
	assert.Equal(t, Vec2{16, 16}, tm.BestSize())
}

func TestTilemap_DrawSkipsEmptyCells(t *testing.T) {
	tm, _ := newTestTilemap(t, newTestTileset(), 3, 1)
	tm.SetData([]uint32{1, 0, 6}, 3, 1)
	rc, dev := newTestCommands(t, RenderOptions{})

	tm.Draw(rc)
	rc.End()

	require.Len(t, dev.Calls, 1)
	call := dev.Calls[0]
	assert.Equal(t, 12, call.IndexCount)

	// First tile: GID 1 at the top-left of the tileset.
	v := [4]Vertex{}
	for i := range v {
		v[i] = DecodeVertex(call.VertexData, i)
	}
	requireVec(t, Vec2{10, 20}, Vec2{v[0].X, v[0].Y})
	requireVec(t, Vec2{18, 20}, Vec2{v[1].X, v[1].Y})
	requireVec(t, Vec2{18, 28}, Vec2{v[2].X, v[2].Y})
	requireVec(t, Vec2{10, 28}, Vec2{v[3].X, v[3].Y})
	requireVec(t, Vec2{0, 0}, Vec2{v[0].U, v[0].V})
	requireVec(t, Vec2{0.25, 0.5}, Vec2{v[2].U, v[2].V})

	// Second tile is in column 2; GID 6 is tileset column 1, row 1.
	w := DecodeVertex(call.VertexData, 4)
	requireVec(t, Vec2{26, 20}, Vec2{w.X, w.Y})
	requireVec(t, Vec2{0.25, 0.5}, Vec2{w.U, w.V})
}

func TestTilemap_FlipH(t *testing.T) {
	tm, _ := newTestTilemap(t, newTestTileset(), 1, 1)
	tm.SetTile(0, 0, 1|TileFlipH)
	rc, dev := newTestCommands(t, RenderOptions{})
	tm.Draw(rc)
	rc.End()

	require.Len(t, dev.Calls, 1)
	tl := DecodeVertex(dev.Calls[0].VertexData, 0)
	tr := DecodeVertex(dev.Calls[0].VertexData, 1)
	requireVec(t, Vec2{0.25, 0}, Vec2{tl.U, tl.V})
	requireVec(t, Vec2{0, 0}, Vec2{tr.U, tr.V})
}

func TestTilemap_UnloadedTilesetDrawsNothing(t *testing.T) {
	tm, _ := newTestTilemap(t, NewTexture("pending.png", true), 2, 2)
	tm.SetTile(0, 0, 1)
	rc, dev := newTestCommands(t, RenderOptions{})
	tm.Draw(rc)
	rc.End()
	assert.Equal(t, 0, dev.Draws)
}

func TestTilemap_GIDBeyondTilesetSkipped(t *testing.T) {
	tm, _ := newTestTilemap(t, newTestTileset(), 1, 1)
	tm.SetTile(0, 0, 9)
	rc, dev := newTestCommands(t, RenderOptions{})
	tm.Draw(rc)
	rc.End()
	assert.Equal(t, 0, dev.Draws)
}

func TestTilemap_Animation(t *testing.T) {
	tm, m := newTestTilemap(t, newTestTileset(), 1, 1)
	tm.SetTile(0, 0, 1)
	tm.SetAnimations(map[uint32][]AnimFrame{
		1: {{GID: 2, Duration: 100}, {GID: 3, Duration: 100}},
	})
	assert.Equal(t, uint32(2), tm.resolve(1))

	m.Update(&Frame{Delta: 0.15})
	assert.Equal(t, uint32(3), tm.resolve(1))

	m.Update(&Frame{Delta: 0.1})
	assert.Equal(t, uint32(2), tm.resolve(1), "wraps around")
	assert.Equal(t, uint32(4), tm.resolve(4), "no animation")
}

func TestTilemap_AnimationKeepsFractionalMilliseconds(t *testing.T) {
	tm, m := newTestTilemap(t, newTestTileset(), 1, 1)
	tm.SetAnimations(map[uint32][]AnimFrame{
		1: {{GID: 2, Duration: 500}, {GID: 3, Duration: 500}},
	})
	// Thirty 60 Hz frames add up to half a second.
	for i := 0; i < 30; i++ {
		m.Update(&Frame{Delta: 1.0 / 60})
	}
	assert.Equal(t, uint32(3), tm.resolve(1))
}
