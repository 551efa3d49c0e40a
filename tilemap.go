package s2d

import "time"

// The top three bits of a cell's GID flip the tile, as in Tiled maps.
const (
	TileFlipH    uint32 = 1 << 31
	TileFlipV    uint32 = 1 << 30
	TileFlipD    uint32 = 1 << 29 // swap x and y
	tileFlagMask uint32 = TileFlipH | TileFlipV | TileFlipD
)

// AnimFrame is one step of a tile animation.
type AnimFrame struct {
	GID      uint32 // without flip bits
	Duration int    // ms
}

// flipCorners maps the flip bits (H<<2 | V<<1 | D) to the tileset corner
// shown at each quad corner. Corners are numbered TL, TR, BL, BR.
var flipCorners = [8][4]uint8{
	{0, 1, 2, 3},
	{2, 0, 3, 1},
	{2, 3, 0, 1},
	{3, 2, 1, 0},
	{1, 0, 3, 2},
	{0, 2, 1, 3},
	{3, 2, 1, 0},
	{1, 3, 0, 2},
}

// TilemapDrawer draws a grid of tiles cut from one tileset texture. Cells
// hold Tiled-style GIDs: 0 is empty, n refers to the n-th tile of the
// tileset counted row-major from 1, and the top three bits flip the tile.
//
// Tile (0, 0) sits at the top-left corner of the Transform's size rectangle.
// A TilemapDrawer is also a Behavior and advances tile animations.
type TilemapDrawer struct {
	BaseComponent
	Tileset    *Texture
	TileWidth  int
	TileHeight int
	Color      Color

	data    []uint32
	columns int
	rows    int

	anims       map[uint32][]AnimFrame
	animElapsed time.Duration

	world Matrix2x3
}

// NewTilemapDrawer returns an empty columns×rows map.
func NewTilemapDrawer(tileset *Texture, tileWidth, tileHeight, columns, rows int) *TilemapDrawer {
	return &TilemapDrawer{
		Tileset:    tileset,
		TileWidth:  tileWidth,
		TileHeight: tileHeight,
		Color:      ColorWhite,
		data:       make([]uint32, columns*rows),
		columns:    columns,
		rows:       rows,
	}
}

// Columns returns the map width in tiles.
func (m *TilemapDrawer) Columns() int { return m.columns }

// Rows returns the map height in tiles.
func (m *TilemapDrawer) Rows() int { return m.rows }

// Tile returns the GID at (col, row), or 0 outside the map.
func (m *TilemapDrawer) Tile(col, row int) uint32 {
	if col < 0 || row < 0 || col >= m.columns || row >= m.rows {
		return 0
	}
	return m.data[row*m.columns+col]
}

// SetTile sets the GID at (col, row). Out-of-range cells are ignored.
func (m *TilemapDrawer) SetTile(col, row int, gid uint32) {
	if col < 0 || row < 0 || col >= m.columns || row >= m.rows {
		return
	}
	m.data[row*m.columns+col] = gid
}

// SetData replaces the whole grid with row-major data of w×h GIDs.
func (m *TilemapDrawer) SetData(data []uint32, w, h int) {
	m.data = append(m.data[:0], data...)
	if len(m.data) < w*h {
		m.data = append(m.data, make([]uint32, w*h-len(m.data))...)
	}
	m.columns, m.rows = w, h
}

// SetAnimations sets the animation definitions for this map.
// The map is keyed by base GID (no flag bits).
func (m *TilemapDrawer) SetAnimations(anims map[uint32][]AnimFrame) {
	m.anims = anims
	m.animElapsed = 0
}

// Update advances the animation clock.
func (m *TilemapDrawer) Update(f *Frame) {
	if len(m.anims) == 0 {
		return
	}
	m.animElapsed += time.Duration(float64(f.Delta) * float64(time.Second))
}

// resolve maps a base GID through its animation, if any.
func (m *TilemapDrawer) resolve(gid uint32) uint32 {
	frames, ok := m.anims[gid]
	if !ok || len(frames) == 0 {
		return gid
	}
	total := 0
	for _, fr := range frames {
		total += fr.Duration
	}
	if total <= 0 {
		return frames[0].GID
	}
	t := int(m.animElapsed.Milliseconds() % int64(total))
	for _, fr := range frames {
		if t < fr.Duration {
			return fr.GID
		}
		t -= fr.Duration
	}
	return frames[len(frames)-1].GID
}

// Draw emits one quad per non-empty cell. Nothing is drawn until the tileset
// has its pixels.
func (m *TilemapDrawer) Draw(cmd *RenderCommands) {
	tex := m.Tileset
	if tex == nil || !tex.Loaded() || m.TileWidth <= 0 || m.TileHeight <= 0 {
		return
	}
	texW, texH := tex.Width(), tex.Height()
	setCols := texW / m.TileWidth
	if setCols == 0 {
		return
	}
	setTiles := setCols * (texH / m.TileHeight)

	t := m.Transform()
	t.LocalToGlobalMatrix(&m.world)
	origin, _ := localRect(t.size, t.pivot)

	tw, th := float32(m.TileWidth), float32(m.TileHeight)
	invW, invH := 1/float32(texW), 1/float32(texH)
	packed := m.Color.Packed()

	var v [4]Vertex
	for row := 0; row < m.rows; row++ {
		for col := 0; col < m.columns; col++ {
			gid := m.data[row*m.columns+col]
			flags := gid & tileFlagMask
			base := m.resolve(gid &^ tileFlagMask)
			if base == 0 || int(base) > setTiles {
				continue
			}
			idx := int(base - 1)
			sx := float32(idx%setCols) * tw * invW
			sy := float32(idx/setCols) * th * invH
			sw, sh := tw*invW, th*invH

			x0 := origin.X + float32(col)*tw
			y0 := origin.Y + float32(row)*th
			x1, y1 := x0+tw, y0+th

			// v is clockwise from the top-left: TL, TR, BR, BL.
			v[0].X, v[0].Y = m.world.TransformPoint(x0, y0)
			v[1].X, v[1].Y = m.world.TransformPoint(x1, y0)
			v[2].X, v[2].Y = m.world.TransformPoint(x1, y1)
			v[3].X, v[3].Y = m.world.TransformPoint(x0, y1)
			setTileUVs(&v, sx, sy, sw, sh, flags)
			v[0].Color, v[1].Color, v[2].Color, v[3].Color = packed, packed, packed, packed

			cmd.DrawQuad(&v[0], &v[1], &v[2], &v[3], tex)
		}
	}
}

// setTileUVs writes the source rectangle's corners into v, flipped.
func setTileUVs(v *[4]Vertex, sx, sy, sw, sh float32, flags uint32) {
	us := [4]float32{sx, sx + sw, sx, sx + sw}
	vs := [4]float32{sy, sy, sy + sh, sy + sh}
	c := flipCorners[flags>>29]

	// v runs TL, TR, BR, BL.
	for i, corner := range [4]uint8{c[0], c[1], c[3], c[2]} {
		v[i].U, v[i].V = us[corner], vs[corner]
	}
}

// BestSize is the map's size in pixels.
func (m *TilemapDrawer) BestSize() Vec2 {
	return Vec2{float32(m.columns * m.TileWidth), float32(m.rows * m.TileHeight)}
}
