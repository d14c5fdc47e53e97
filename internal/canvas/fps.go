package canvas

import (
	"math"
	"time"
)

// FPSMeter counts frames over one-second windows.
type FPSMeter struct {
	frames int
	last   time.Time
	fps    int
}

// Frame records one redraw at now and closes the window once a second passed.
func (m *FPSMeter) Frame(now time.Time) {
	if m.last.IsZero() {
		m.last = now
	}
	m.frames++

	elapsed := now.Sub(m.last)
	if elapsed >= time.Second {
		m.fps = int(math.Round(float64(m.frames) * float64(time.Second) / float64(elapsed)))
		m.frames = 0
		m.last = now
	}
}

// FPS returns the last completed sample.
func (m *FPSMeter) FPS() int {
	return m.fps
}
