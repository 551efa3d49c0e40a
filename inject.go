package s2d

// syntheticPointerEvent represents a single injected pointer event, in
// viewport pixels.
type syntheticPointerEvent struct {
	x, y    float32
	pressed bool
}

// InjectSource is a PointerSource fed by code instead of a device. Each
// queued event is consumed by one frame's Input.Update. While the queue is
// empty the source is inactive unless it was left pressed.
type InjectSource struct {
	queue   []syntheticPointerEvent
	current syntheticPointerEvent
}

// NewInjectSource returns an empty source.
func NewInjectSource() *InjectSource { return &InjectSource{} }

// PointerState pops the next queued event, if any.
func (s *InjectSource) PointerState() (x, y float32, down, active bool) {
	if len(s.queue) == 0 {
		return s.current.x, s.current.y, s.current.pressed, s.current.pressed
	}
	s.current = s.queue[0]
	copy(s.queue, s.queue[1:])
	s.queue = s.queue[:len(s.queue)-1]
	return s.current.x, s.current.y, s.current.pressed, true
}

// Pending returns the number of queued events.
func (s *InjectSource) Pending() int { return len(s.queue) }

// Press queues a press at (x, y).
func (s *InjectSource) Press(x, y float32) {
	s.queue = append(s.queue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// Move queues a move to (x, y) with the button held down. Use this between
// Press and Release to simulate a drag.
func (s *InjectSource) Move(x, y float32) {
	s.queue = append(s.queue, syntheticPointerEvent{x: x, y: y, pressed: true})
}

// Hover queues a move to (x, y) with the button up.
func (s *InjectSource) Hover(x, y float32) {
	s.queue = append(s.queue, syntheticPointerEvent{x: x, y: y})
}

// Release queues a release at (x, y).
func (s *InjectSource) Release(x, y float32) {
	s.queue = append(s.queue, syntheticPointerEvent{x: x, y: y})
}

// Click queues a press followed by a release at the same point. Consumes
// two frames.
func (s *InjectSource) Click(x, y float32) {
	s.Press(x, y)
	s.Release(x, y)
}

// Drag queues a full drag sequence: press at from, linearly interpolated
// moves over frames-2 intermediate frames, and release at to. The sequence
// consumes frames frames, at least 2.
func (s *InjectSource) Drag(from, to Vec2, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.Press(from.X, from.Y)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float32(i) / float32(steps+1)
		s.Move(from.X+(to.X-from.X)*t, from.Y+(to.Y-from.Y)*t)
	}
	s.Release(to.X, to.Y)
}
