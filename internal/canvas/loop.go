package canvas

import "time"

// ============================================================
// Scheduler
// ============================================================

type FrameID uint64

type TimerID uint64

// Scheduler abstracts the host's animation-frame and timer primitives so the
// engine can be driven by a real frame clock or a deterministic test loop.
type Scheduler interface {
	RequestFrame(fn func()) FrameID
	CancelFrame(id FrameID)
	AfterFunc(d time.Duration, fn func()) TimerID
	CancelTimer(id TimerID)
	Now() time.Time
}

type frameRequest struct {
	id FrameID
	fn func()
}

type timerRequest struct {
	id  TimerID
	due time.Time
	fn  func()
}

// Loop is a single-threaded Scheduler. Nothing runs until the owner calls
// Tick (or RunTimers/RunFrame), which makes it usable both from a UI tick and
// from tests with a fake clock.
type Loop struct {
	clock  func() time.Time
	nextID uint64
	frames []frameRequest
	timers []timerRequest

	// callbacks detached by the running RunFrame/RunTimers batch that have
	// not run yet; cancelling removes them from here.
	runningFrames map[FrameID]struct{}
	runningTimers map[TimerID]struct{}
}

// NewLoop returns a loop reading time from clock; nil means time.Now.
func NewLoop(clock func() time.Time) *Loop {
	if clock == nil {
		clock = time.Now
	}
	return &Loop{clock: clock}
}

func (l *Loop) Now() time.Time {
	return l.clock()
}

func (l *Loop) RequestFrame(fn func()) FrameID {
	l.nextID++
	id := FrameID(l.nextID)
	l.frames = append(l.frames, frameRequest{id: id, fn: fn})
	return id
}

// CancelFrame drops a pending frame callback, including one later in the
// batch that is currently running.
func (l *Loop) CancelFrame(id FrameID) {
	for i, f := range l.frames {
		if f.id == id {
			l.frames = append(l.frames[:i], l.frames[i+1:]...)
			return
		}
	}
	delete(l.runningFrames, id)
}

func (l *Loop) AfterFunc(d time.Duration, fn func()) TimerID {
	l.nextID++
	id := TimerID(l.nextID)
	l.timers = append(l.timers, timerRequest{id: id, due: l.clock().Add(d), fn: fn})
	return id
}

func (l *Loop) CancelTimer(id TimerID) {
	for i, t := range l.timers {
		if t.id == id {
			l.timers = append(l.timers[:i], l.timers[i+1:]...)
			return
		}
	}
	delete(l.runningTimers, id)
}

// RunFrame runs the frame callbacks registered before the call. Callbacks
// requested while running wait for the next frame.
func (l *Loop) RunFrame() int {
	pending := l.frames
	l.frames = nil

	l.runningFrames = make(map[FrameID]struct{}, len(pending))
	for _, f := range pending {
		l.runningFrames[f.id] = struct{}{}
	}
	defer func() { l.runningFrames = nil }()

	ran := 0
	for _, f := range pending {
		if _, ok := l.runningFrames[f.id]; !ok {
			continue
		}
		delete(l.runningFrames, f.id)
		f.fn()
		ran++
	}
	return ran
}

// RunTimers fires every timer that is due, in registration order.
func (l *Loop) RunTimers() int {
	now := l.clock()
	var due []timerRequest
	kept := l.timers[:0]
	for _, t := range l.timers {
		if !t.due.After(now) {
			due = append(due, t)
		} else {
			kept = append(kept, t)
		}
	}
	l.timers = kept

	l.runningTimers = make(map[TimerID]struct{}, len(due))
	for _, t := range due {
		l.runningTimers[t.id] = struct{}{}
	}
	defer func() { l.runningTimers = nil }()

	ran := 0
	for _, t := range due {
		if _, ok := l.runningTimers[t.id]; !ok {
			continue
		}
		delete(l.runningTimers, t.id)
		t.fn()
		ran++
	}
	return ran
}

// Tick fires due timers and then one frame.
func (l *Loop) Tick() {
	l.RunTimers()
	l.RunFrame()
}

// Drain runs frames until none are pending or maxFrames is reached and
// returns the number of frames run. Timers are left alone.
func (l *Loop) Drain(maxFrames int) int {
	n := 0
	for len(l.frames) > 0 && n < maxFrames {
		l.RunFrame()
		n++
	}
	return n
}

func (l *Loop) PendingFrames() int {
	return len(l.frames)
}

func (l *Loop) PendingTimers() int {
	return len(l.timers)
}
