package s2d

import (
	"time"

	"go.uber.org/zap"
)

// statsWindow is the span over which FPS and update time are averaged.
const statsWindow = time.Second

// Stats holds per-frame draw-call counts and FPS and update-time averages
// over one-second windows.
type Stats struct {
	log            *zap.Logger
	logPerformance bool
	now            func() time.Time

	windowStart time.Time
	updateStart time.Time
	frames      int
	accumulated time.Duration

	drawCalls     int
	lastDrawCalls int
	lastFPS       float64
	lastUpdate    time.Duration
}

// NewStats returns a Stats whose window starts now. When logPerformance is
// set, each closed window is logged at Info level.
func NewStats(log *zap.Logger, logPerformance bool) *Stats {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Stats{log: log, logPerformance: logPerformance, now: time.Now}
	s.windowStart = s.now()
	return s
}

// LastFPS returns the frame rate measured over the last closed window.
func (s *Stats) LastFPS() float64 { return s.lastFPS }

// LastUpdateTime returns the mean frame processing time of the last closed
// window.
func (s *Stats) LastUpdateTime() time.Duration { return s.lastUpdate }

// LastDrawCalls returns the draw calls issued by the previous frame.
func (s *Stats) LastDrawCalls() int { return s.lastDrawCalls }

// DrawCalls returns the draw calls issued so far in the current frame.
func (s *Stats) DrawCalls() int { return s.drawCalls }

// IncrementDrawCalls records one draw call.
func (s *Stats) IncrementDrawCalls() { s.drawCalls++ }

// StartFrame marks the beginning of a frame's processing.
func (s *Stats) StartFrame() {
	s.updateStart = s.now()
	s.drawCalls = 0
}

// EndFrame closes the frame and, once per window, publishes averages.
func (s *Stats) EndFrame() {
	end := s.now()
	s.accumulated += end.Sub(s.updateStart)
	s.frames++
	s.lastDrawCalls = s.drawCalls

	elapsed := s.updateStart.Sub(s.windowStart)
	if elapsed <= statsWindow {
		return
	}
	s.lastFPS = float64(s.frames) / elapsed.Seconds()
	s.lastUpdate = s.accumulated / time.Duration(s.frames)
	s.windowStart = s.updateStart
	s.frames = 0
	s.accumulated = 0

	if s.logPerformance {
		s.log.Info("performance",
			zap.Float64("fps", s.lastFPS),
			zap.Duration("update", s.lastUpdate),
			zap.Int("draw_calls", s.lastDrawCalls))
	}
}
