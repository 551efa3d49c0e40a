package s2d

// Camera marks its entity as a render pass. Every camera in the scene draws
// every Drawer, in tree order, after optionally clearing the viewport.
type Camera struct {
	BaseComponent
	ClearColorBuffer bool
	ClearColor       Color
}

// NewCamera returns a camera that clears to opaque black.
func NewCamera() *Camera {
	return &Camera{ClearColorBuffer: true, ClearColor: ColorBlack}
}

// render runs one pass over drawers.
func (c *Camera) render(cmd *RenderCommands, drawers []Drawer) {
	if c.ClearColorBuffer {
		cmd.Clear(c.ClearColor)
	}
	cmd.Start()
	for _, d := range drawers {
		d.Draw(cmd)
	}
	cmd.End()
}
