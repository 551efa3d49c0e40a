package s2d

import "github.com/hajimehoshi/ebiten/v2"

// ClickListenerID identifies a listener added with Button.AddClickListener.
type ClickListenerID uint32

type clickListener struct {
	id ClickListenerID
	fn func(*Button)
}

// Button is an Interactable that fires a click when a press that started on
// it is released, wherever the pointer is at release time.
type Button struct {
	BaseComponent
	Disabled bool

	listeners []clickListener
	nextID    ClickListenerID
	pressed   bool
}

// NewButton returns an enabled button with no listeners.
func NewButton() *Button { return &Button{} }

// Enabled reports whether the button takes part in hit testing.
func (b *Button) Enabled() bool { return !b.Disabled }

// Pressed reports whether the button holds the pointer capture.
func (b *Button) Pressed() bool { return b.pressed }

// AddClickListener registers fn and returns an id for RemoveClickListener.
func (b *Button) AddClickListener(fn func(*Button)) ClickListenerID {
	b.nextID++
	b.listeners = append(b.listeners, clickListener{id: b.nextID, fn: fn})
	return b.nextID
}

// RemoveClickListener unregisters a listener. Unknown ids are ignored.
func (b *Button) RemoveClickListener(id ClickListenerID) {
	for i := range b.listeners {
		if b.listeners[i].id == id {
			copy(b.listeners[i:], b.listeners[i+1:])
			b.listeners[len(b.listeners)-1] = clickListener{}
			b.listeners = b.listeners[:len(b.listeners)-1]
			return
		}
	}
}

func (b *Button) OnPointerDown(*Input) { b.pressed = true }

// OnPointerUp fires the click synchronously to every listener, in the order
// they were added. Listeners added or removed during the click take effect
// from the next one.
func (b *Button) OnPointerUp(*Input) {
	if !b.pressed {
		return
	}
	b.pressed = false
	listeners := append([]clickListener(nil), b.listeners...)
	for _, l := range listeners {
		l.fn(b)
	}
}

// OnDestroy drops every listener.
func (b *Button) OnDestroy() {
	b.listeners = nil
	b.pressed = false
}

// FullscreenButton is a Button that toggles fullscreen on the press edge.
// Browser builds may only enter fullscreen from a pointer-down handler.
type FullscreenButton struct {
	Button

	isFullscreen  func() bool
	setFullscreen func(bool)
}

// NewFullscreenButton returns a button driving the ebiten window.
func NewFullscreenButton() *FullscreenButton {
	return &FullscreenButton{
		isFullscreen:  ebiten.IsFullscreen,
		setFullscreen: ebiten.SetFullscreen,
	}
}

// OnPointerDown toggles fullscreen, then captures like a Button.
func (b *FullscreenButton) OnPointerDown(in *Input) {
	b.setFullscreen(!b.isFullscreen())
	b.Button.OnPointerDown(in)
}
