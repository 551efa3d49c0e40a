package s2d

// textButtonPadding is the space between a text button's label and its edge.
var textButtonPadding = Vec2{16, 12}

// NewCameraEntity creates an entity with a Camera that clears to black.
func (e *Engine) NewCameraEntity() *Camera {
	cam := NewCamera()
	e.mustAdd(e.NewEntity("Camera"), cam)
	return cam
}

// NewTextureEntity creates an entity drawing tex at its default size.
func (e *Engine) NewTextureEntity(tex *Texture) *TextureDrawer {
	d := NewTextureDrawer(tex)
	e.mustAdd(e.NewEntity("Texture"), d)
	return d
}

// NewTextEntity creates a top-left anchored entity drawing text. Its size
// follows the text. A nil font uses DefaultFont.
func (e *Engine) NewTextEntity(font *RenderFont, text string) *TextDrawer {
	d := NewTextDrawer(font, text)
	ent := e.NewEntity("Text")
	ent.Transform().SetPivot(-1, -1)
	e.mustAdd(ent, d)
	e.mustAdd(ent, NewLayout(SizeMatchDrawerBest))
	return d
}

// NewTextButton creates a button with a textured background sized to fit a
// text label. The button is anchored at its top-left corner.
func (e *Engine) NewTextButton(background *Texture, text string) *Button {
	btn := NewButton()
	e.textButton(background, text, btn)
	return btn
}

// NewFullscreenTextButton is NewTextButton for a FullscreenButton.
func (e *Engine) NewFullscreenTextButton(background *Texture, text string) *FullscreenButton {
	btn := NewFullscreenButton()
	e.textButton(background, text, btn)
	return btn
}

func (e *Engine) textButton(background *Texture, text string, btn Interactable) {
	ent := e.NewEntity("Button")
	ent.Transform().SetPivot(-1, -1)

	bg := NewTextureDrawer(background)
	bg.Color = RGBA8(80, 80, 96, 255)
	e.mustAdd(ent, bg)

	layout := NewLayout(SizeMatchChildrenBest)
	layout.Offset = textButtonPadding.Scale(2)
	e.mustAdd(ent, layout)
	e.mustAdd(ent, btn)

	label := e.NewTextEntity(nil, text)
	lt := label.Transform()
	lt.SetParent(ent.Transform())
	lt.SetLocalPosition(textButtonPadding.X, textButtonPadding.Y)
	label.Entity().SetName("Button Label")
}

// mustAdd attaches a fresh component to a fresh entity, which cannot fail.
func (e *Engine) mustAdd(ent *Entity, c Component) {
	if err := ent.AddComponent(c); err != nil {
		panic(err)
	}
}
