package s2d

import (
	"encoding/binary"
	"math"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

const (
	// DefaultMaxTriangles sizes the vertex arena: 3 vertices per triangle.
	DefaultMaxTriangles = 4096
	// DefaultBufferRing is the number of device buffer pairs cycled through,
	// one per flush.
	DefaultBufferRing = 16

	// VertexSize is the byte size of one vertex:
	//
	//	offset 0  f32 x
	//	offset 4  f32 y
	//	offset 8  u32 color, ABGR (bytes R, G, B, A)
	//	offset 12 u16 u, normalized (coord * 65535)
	//	offset 14 u16 v, normalized
	//
	// All fields are little endian.
	VertexSize = 16
	// IndexSize is the byte size of one u16 index.
	IndexSize = 2

	vertexColorOffset = 8
	vertexUVOffset    = 12
)

// maxIndexableVertices is the largest vertex count a u16 index can address.
const maxIndexableVertices = 1 << 16

// Vertex is one corner of a quad before it is packed into the arena.
type Vertex struct {
	X, Y  float32
	Color uint32 // packed ABGR, see Color.Packed
	U, V  float32
}

// RenderOptions sizes a RenderCommands.
type RenderOptions struct {
	MaxTriangles int
	BufferRing   int
}

// RenderCommands accumulates textured quads into one vertex arena and one
// index arena and turns each run of same-texture quads into a single indexed
// draw call.
//
// A batch is flushed before a quad is appended when the quad would not fit
// or when its texture differs from the batch's texture. Every flush uploads
// into the next buffer pair of a ring so a buffer the GPU may still be
// reading is not overwritten.
type RenderCommands struct {
	device Device
	stats  *Stats
	log    *zap.Logger

	maxVertices int
	maxIndices  int

	vertices    []byte
	indices     []byte
	vertexCount int
	indexCount  int
	texture     *Texture

	vertexBuffers []BufferID
	indexBuffers  []BufferID
	slot          int

	enabled   bool
	drawCalls int
}

// NewRenderCommands allocates the arenas, creates the buffer ring on dev and
// compiles DefaultShaders. stats may be nil.
func NewRenderCommands(dev Device, opts RenderOptions, stats *Stats, log *zap.Logger) (*RenderCommands, error) {
	if dev == nil {
		return nil, errors.Wrap(ErrNotInitialized, "s2d: render commands need a device")
	}
	if log == nil {
		log = zap.NewNop()
	}
	if opts.MaxTriangles <= 0 {
		opts.MaxTriangles = DefaultMaxTriangles
	}
	if opts.BufferRing <= 0 {
		opts.BufferRing = DefaultBufferRing
	}

	maxVertices := opts.MaxTriangles * 3
	// Capacity is counted in whole quads so that the vertex arena, not the
	// index arena, decides when to flush.
	quads := maxVertices / 4
	if quads == 0 {
		return nil, errors.Errorf("s2d: max triangles %d cannot hold a quad", opts.MaxTriangles)
	}
	if maxVertices > maxIndexableVertices {
		return nil, errors.Errorf("s2d: max triangles %d exceeds u16 index range", opts.MaxTriangles)
	}

	rc := &RenderCommands{
		device:      dev,
		stats:       stats,
		log:         log,
		maxVertices: quads * 4,
		maxIndices:  quads * 6,
		enabled:     true,
	}
	rc.vertices = make([]byte, rc.maxVertices*VertexSize)
	rc.indices = make([]byte, rc.maxIndices*IndexSize)

	rc.vertexBuffers = make([]BufferID, opts.BufferRing)
	rc.indexBuffers = make([]BufferID, opts.BufferRing)
	for i := 0; i < opts.BufferRing; i++ {
		rc.vertexBuffers[i] = dev.CreateBuffer(VertexBuffer)
		rc.indexBuffers[i] = dev.CreateBuffer(IndexBuffer)
	}

	if err := dev.CompileProgram(DefaultShaders); err != nil {
		return nil, errors.Wrap(err, "s2d: compile quad program")
	}
	return rc, nil
}

// Device returns the device the commands draw through.
func (rc *RenderCommands) Device() Device { return rc.device }

// SetEnabled toggles device submission. While disabled, End discards the
// batch without drawing.
func (rc *RenderCommands) SetEnabled(enabled bool) { rc.enabled = enabled }

// QuadCapacity returns how many quads fit in one batch.
func (rc *RenderCommands) QuadCapacity() int { return rc.maxVertices / 4 }

// VertexCount returns the number of vertices in the current batch.
func (rc *RenderCommands) VertexCount() int { return rc.vertexCount }

// IndexCount returns the number of indices in the current batch.
func (rc *RenderCommands) IndexCount() int { return rc.indexCount }

// Texture returns the texture bound to the current batch, or nil.
func (rc *RenderCommands) Texture() *Texture { return rc.texture }

// DrawCalls returns the number of draw calls issued since creation.
func (rc *RenderCommands) DrawCalls() int { return rc.drawCalls }

// RingSlot returns the index of the buffer pair the next flush uploads to.
func (rc *RenderCommands) RingSlot() int { return rc.slot }

// Start resets the write cursors for a new run of quads.
func (rc *RenderCommands) Start() {
	rc.vertexCount = 0
	rc.indexCount = 0
	rc.texture = nil
}

// DrawRect appends one quad covering the pivot-adjusted size rectangle,
// transformed by mat. uvTL and uvBR are the normalized texture coordinates
// of the top-left and bottom-right corners.
func (rc *RenderCommands) DrawRect(mat *Matrix2x3, size, pivot Vec2, tex *Texture, uvTL, uvBR Vec2, c Color) {
	tl, br := localRect(size, pivot)
	packed := c.Packed()

	var v1, v2, v3, v4 Vertex
	v1.X, v1.Y = mat.TransformPoint(tl.X, tl.Y)
	v1.U, v1.V = uvTL.X, uvTL.Y
	v2.X, v2.Y = mat.TransformPoint(br.X, tl.Y)
	v2.U, v2.V = uvBR.X, uvTL.Y
	v3.X, v3.Y = mat.TransformPoint(br.X, br.Y)
	v3.U, v3.V = uvBR.X, uvBR.Y
	v4.X, v4.Y = mat.TransformPoint(tl.X, br.Y)
	v4.U, v4.V = uvTL.X, uvBR.Y
	v1.Color, v2.Color, v3.Color, v4.Color = packed, packed, packed, packed

	rc.DrawQuad(&v1, &v2, &v3, &v4, tex)
}

// DrawQuad appends a quad given its corners in clockwise order starting at
// the top-left. The corners are indexed as triangles (0,1,2) and (2,3,0).
func (rc *RenderCommands) DrawQuad(v1, v2, v3, v4 *Vertex, tex *Texture) {
	if rc.vertexCount+4 > rc.maxVertices || rc.indexCount+6 > rc.maxIndices || tex != rc.texture {
		rc.End()
		rc.Start()
		rc.texture = tex
	}

	base := rc.vertexCount
	rc.putVertex(base+0, v1)
	rc.putVertex(base+1, v2)
	rc.putVertex(base+2, v3)
	rc.putVertex(base+3, v4)

	idx := rc.indices[rc.indexCount*IndexSize:]
	b := uint16(base)
	binary.LittleEndian.PutUint16(idx[0:], b+0)
	binary.LittleEndian.PutUint16(idx[2:], b+1)
	binary.LittleEndian.PutUint16(idx[4:], b+2)
	binary.LittleEndian.PutUint16(idx[6:], b+2)
	binary.LittleEndian.PutUint16(idx[8:], b+3)
	binary.LittleEndian.PutUint16(idx[10:], b+0)

	rc.vertexCount += 4
	rc.indexCount += 6
}

func (rc *RenderCommands) putVertex(i int, v *Vertex) {
	buf := rc.vertices[i*VertexSize : (i+1)*VertexSize]
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(v.X))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(v.Y))
	binary.LittleEndian.PutUint32(buf[vertexColorOffset:], v.Color)
	binary.LittleEndian.PutUint16(buf[vertexUVOffset:], quantizeUV(v.U))
	binary.LittleEndian.PutUint16(buf[vertexUVOffset+2:], quantizeUV(v.V))
}

func quantizeUV(f float32) uint16 {
	return uint16(Clamp(f, 0, 1)*65535 + 0.5)
}

// End flushes the current batch as one indexed draw call. It does nothing
// when the batch is empty. While the device reports a lost context, or
// while submission is disabled, the batch is discarded without effect.
func (rc *RenderCommands) End() {
	defer rc.Start()
	if rc.vertexCount == 0 {
		return
	}
	if !rc.enabled || rc.device.ContextLost() {
		return
	}

	dev := rc.device
	w, h := dev.ViewportSize()
	dev.UseProgram(float32(w), float32(h))

	vb := rc.vertexBuffers[rc.slot]
	ib := rc.indexBuffers[rc.slot]
	dev.UploadBuffer(vb, rc.vertices[:rc.vertexCount*VertexSize])
	dev.UploadBuffer(ib, rc.indices[:rc.indexCount*IndexSize])

	tex := rc.texture
	dev.BindTexture(tex)
	dev.SetBlend(tex != nil && tex.HasAlpha())

	dev.DrawIndexed(vb, ib, rc.indexCount)
	rc.drawCalls++
	if rc.stats != nil {
		rc.stats.IncrementDrawCalls()
	}
	rc.slot = (rc.slot + 1) % len(rc.vertexBuffers)
}

// Clear clears the viewport through the device, unless the context is lost
// or submission is disabled.
func (rc *RenderCommands) Clear(c Color) {
	if !rc.enabled || rc.device.ContextLost() {
		return
	}
	rc.device.Clear(c)
}

// DecodeVertex reads vertex i from a packed vertex byte slice.
func DecodeVertex(data []byte, i int) Vertex {
	buf := data[i*VertexSize:]
	return Vertex{
		X:     math.Float32frombits(binary.LittleEndian.Uint32(buf[0:])),
		Y:     math.Float32frombits(binary.LittleEndian.Uint32(buf[4:])),
		Color: binary.LittleEndian.Uint32(buf[vertexColorOffset:]),
		U:     float32(binary.LittleEndian.Uint16(buf[vertexUVOffset:])) / 65535,
		V:     float32(binary.LittleEndian.Uint16(buf[vertexUVOffset+2:])) / 65535,
	}
}

// DecodeIndex reads index i from a packed index byte slice.
func DecodeIndex(data []byte, i int) uint16 {
	return binary.LittleEndian.Uint16(data[i*IndexSize:])
}
