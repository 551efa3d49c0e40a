package s2d

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/pkg/errors"
)

type ebitenTexture struct {
	img     *ebiten.Image
	version uint32
}

// EbitenDevice draws RenderCommands batches onto an ebiten image, normally
// the screen passed to ebiten.Game.Draw. The packed vertex arena is decoded
// into ebiten.Vertex values and submitted with DrawTrianglesShader.
type EbitenDevice struct {
	target *ebiten.Image
	width  int
	height int

	shader  *ebiten.Shader
	buffers [][]byte

	bound  *Texture
	blend  bool
	images map[*Texture]*ebitenTexture
	white  *ebiten.Image

	verts []ebiten.Vertex
	inds  []uint16
}

// NewEbitenDevice returns a device with no target. Call SetTarget before
// each frame's draw pass.
func NewEbitenDevice() *EbitenDevice {
	return &EbitenDevice{images: make(map[*Texture]*ebitenTexture)}
}

// SetTarget sets the image subsequent draws go to.
func (d *EbitenDevice) SetTarget(img *ebiten.Image) {
	d.target = img
	if img != nil {
		b := img.Bounds()
		d.width, d.height = b.Dx(), b.Dy()
	}
}

// Resize records the window's logical size for frames without a target.
func (d *EbitenDevice) Resize(w, h int) {
	d.width, d.height = w, h
}

func (d *EbitenDevice) ViewportSize() (int, int) { return d.width, d.height }

func (d *EbitenDevice) CreateBuffer(BufferKind) BufferID {
	d.buffers = append(d.buffers, nil)
	return BufferID(len(d.buffers) - 1)
}

func (d *EbitenDevice) CompileProgram(src ShaderSources) error {
	s, err := ebiten.NewShader(src.Kage)
	if err != nil {
		return errors.Wrap(err, "s2d: compile kage shader")
	}
	d.shader = s
	return nil
}

// UseProgram is a no-op: ebiten maps pixels to clip space itself.
func (d *EbitenDevice) UseProgram(float32, float32) {}

func (d *EbitenDevice) UploadBuffer(id BufferID, data []byte) {
	d.buffers[id] = append(d.buffers[id][:0], data...)
}

func (d *EbitenDevice) BindTexture(t *Texture) { d.bound = t }

func (d *EbitenDevice) SetBlend(enabled bool) { d.blend = enabled }

func (d *EbitenDevice) Clear(c Color) {
	if d.target != nil {
		d.target.Fill(c.NRGBA())
	}
}

// ContextLost is always false; ebiten restores lost contexts internally.
func (d *EbitenDevice) ContextLost() bool { return false }

func (d *EbitenDevice) DrawIndexed(vertices, indices BufferID, indexCount int) {
	if d.target == nil || d.shader == nil {
		return
	}
	src := d.image(d.bound)
	sw, sh := float32(src.Bounds().Dx()), float32(src.Bounds().Dy())

	vdata := d.buffers[vertices]
	n := len(vdata) / VertexSize
	d.verts = d.verts[:0]
	for i := 0; i < n; i++ {
		v := DecodeVertex(vdata, i)
		d.verts = append(d.verts, ebiten.Vertex{
			DstX:   v.X,
			DstY:   v.Y,
			SrcX:   v.U * sw,
			SrcY:   v.V * sh,
			ColorR: float32(v.Color&0xff) / 255,
			ColorG: float32(v.Color>>8&0xff) / 255,
			ColorB: float32(v.Color>>16&0xff) / 255,
			ColorA: float32(v.Color>>24) / 255,
		})
	}

	idata := d.buffers[indices]
	d.inds = d.inds[:0]
	for i := 0; i < indexCount; i++ {
		d.inds = append(d.inds, DecodeIndex(idata, i))
	}

	var op ebiten.DrawTrianglesShaderOptions
	op.Images[0] = src
	if d.blend {
		op.Blend = ebiten.BlendSourceOver
	} else {
		op.Blend = ebiten.BlendCopy
	}
	d.target.DrawTrianglesShader(d.verts, d.inds, d.shader, &op)
}

// image returns the ebiten image for t, uploading it again if its pixels
// changed since the last bind.
func (d *EbitenDevice) image(t *Texture) *ebiten.Image {
	if t == nil {
		if d.white == nil {
			d.white = ebiten.NewImageFromImage(whitePixel())
		}
		return d.white
	}
	et, ok := d.images[t]
	if ok && et.version == t.Version() {
		return et.img
	}
	if ok {
		et.img.Deallocate()
	} else {
		et = &ebitenTexture{}
		d.images[t] = et
	}
	et.img = ebiten.NewImageFromImage(t.Pixels())
	et.version = t.Version()
	return et.img
}

func (d *EbitenDevice) ReleaseTexture(t *Texture) {
	if et, ok := d.images[t]; ok {
		et.img.Deallocate()
		delete(d.images, t)
	}
}
