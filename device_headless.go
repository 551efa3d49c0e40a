package s2d

// DrawCall records one DrawIndexed call made on a HeadlessDevice.
type DrawCall struct {
	Texture    *Texture
	Blend      bool
	IndexCount int
	Resolution Vec2
	Vertices   BufferID
	Indices    BufferID
	// VertexData and IndexData are copies of the uploaded bytes, kept only
	// when recording is enabled.
	VertexData []byte
	IndexData  []byte
}

// HeadlessDevice is a Device with no output. It counts calls, can record
// them for inspection and can simulate a lost context. It backs benchmarks,
// tests and the render-disabled configuration.
type HeadlessDevice struct {
	width, height int
	lost          bool
	record        bool

	buffers    [][]byte
	bound      *Texture
	resident   map[*Texture]struct{}
	blend      bool
	resolution Vec2
	compiled   bool

	Draws   int
	Clears  int
	Uploads int
	Calls   []DrawCall
}

// NewHeadlessDevice returns a device reporting the given viewport size.
func NewHeadlessDevice(w, h int) *HeadlessDevice {
	return &HeadlessDevice{width: w, height: h}
}

// SetRecording enables keeping a DrawCall, with buffer copies, per draw.
func (d *HeadlessDevice) SetRecording(on bool) { d.record = on }

// SetContextLost simulates losing or restoring the rendering context.
func (d *HeadlessDevice) SetContextLost(lost bool) { d.lost = lost }

// Resize changes the reported viewport size.
func (d *HeadlessDevice) Resize(w, h int) { d.width, d.height = w, h }

// Compiled reports whether CompileProgram was called.
func (d *HeadlessDevice) Compiled() bool { return d.compiled }

// Reset clears the counters and recorded calls.
func (d *HeadlessDevice) Reset() {
	d.Draws, d.Clears, d.Uploads = 0, 0, 0
	d.Calls = d.Calls[:0]
}

func (d *HeadlessDevice) ViewportSize() (int, int) { return d.width, d.height }

func (d *HeadlessDevice) CreateBuffer(BufferKind) BufferID {
	d.buffers = append(d.buffers, nil)
	return BufferID(len(d.buffers) - 1)
}

func (d *HeadlessDevice) CompileProgram(ShaderSources) error {
	d.compiled = true
	return nil
}

func (d *HeadlessDevice) UseProgram(w, h float32) { d.resolution = Vec2{w, h} }

func (d *HeadlessDevice) UploadBuffer(id BufferID, data []byte) {
	d.Uploads++
	if d.record {
		d.buffers[id] = append(d.buffers[id][:0], data...)
	}
}

func (d *HeadlessDevice) BindTexture(t *Texture) {
	d.bound = t
	if t == nil {
		return
	}
	if d.resident == nil {
		d.resident = make(map[*Texture]struct{})
	}
	d.resident[t] = struct{}{}
}

func (d *HeadlessDevice) ReleaseTexture(t *Texture) { delete(d.resident, t) }

// Resident reports whether t has been bound and not released since.
func (d *HeadlessDevice) Resident(t *Texture) bool {
	_, ok := d.resident[t]
	return ok
}

func (d *HeadlessDevice) SetBlend(enabled bool) { d.blend = enabled }

func (d *HeadlessDevice) Clear(Color) { d.Clears++ }

func (d *HeadlessDevice) ContextLost() bool { return d.lost }

func (d *HeadlessDevice) DrawIndexed(vertices, indices BufferID, indexCount int) {
	d.Draws++
	if !d.record {
		return
	}
	d.Calls = append(d.Calls, DrawCall{
		Texture:    d.bound,
		Blend:      d.blend,
		IndexCount: indexCount,
		Resolution: d.resolution,
		Vertices:   vertices,
		Indices:    indices,
		VertexData: append([]byte(nil), d.buffers[vertices]...),
		IndexData:  append([]byte(nil), d.buffers[indices]...),
	})
}
