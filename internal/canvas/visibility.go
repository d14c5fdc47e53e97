package canvas

import (
	"time"

	"formwork-cad/internal/converter/models"
)

// ============================================================
// Visibility Tracker
// ============================================================

const (
	DefaultViewportMargin = 200.0 // screen pixels, divided by zoom
	DefaultDebounce       = 50 * time.Millisecond
)

type VisibilityOptions struct {
	Margin   float64
	Debounce time.Duration
}

func DefaultVisibilityOptions() VisibilityOptions {
	return VisibilityOptions{
		Margin:   DefaultViewportMargin,
		Debounce: DefaultDebounce,
	}
}

// VisibilityTracker decides which chunks intersect the viewport. Newly visible
// chunks go to the render queue; chunks that left the view are unrendered at
// once.
type VisibilityTracker struct {
	surface Surface
	store   *ChunkStore
	queue   *RenderQueue
	sched   Scheduler
	opts    VisibilityOptions

	fps     FPSMeter
	pending TimerID
	offs    []func()
}

func NewVisibilityTracker(surface Surface, store *ChunkStore, queue *RenderQueue, sched Scheduler, opts VisibilityOptions) *VisibilityTracker {
	return &VisibilityTracker{
		surface: surface,
		store:   store,
		queue:   queue,
		sched:   sched,
		opts:    opts,
	}
}

// Start subscribes to surface events: every redraw feeds the FPS meter, drag
// and wheel schedule a debounced update.
func (t *VisibilityTracker) Start() {
	t.Stop()
	t.offs = append(t.offs,
		t.surface.On(EventAfterRender, func() { t.fps.Frame(t.sched.Now()) }),
		t.surface.On(EventPointerDrag, t.ScheduleUpdate),
		t.surface.On(EventWheel, t.ScheduleUpdate),
	)
}

// Stop unsubscribes and drops a pending debounced update.
func (t *VisibilityTracker) Stop() {
	for _, off := range t.offs {
		off()
	}
	t.offs = nil
	if t.pending != 0 {
		t.sched.CancelTimer(t.pending)
		t.pending = 0
	}
}

// ScheduleUpdate coalesces calls within the debounce window into one Update.
func (t *VisibilityTracker) ScheduleUpdate() {
	if t.pending != 0 {
		t.sched.CancelTimer(t.pending)
	}
	t.pending = t.sched.AfterFunc(t.opts.Debounce, func() {
		t.pending = 0
		t.Update()
	})
}

// VisibleRect returns the world-space viewport grown by Margin/zoom on each side.
func (t *VisibilityTracker) VisibleRect() models.Bounds {
	return ViewportRect(t.surface.Viewport(), t.opts.Margin)
}

// Update recomputes visibility for every chunk in store order.
func (t *VisibilityTracker) Update() {
	rect := t.VisibleRect()

	for _, chunk := range t.store.Chunks() {
		visible := chunk.Bounds.Intersects(rect)

		if visible && !chunk.IsRendered {
			t.queue.QueueChunkRender(chunk.ID)
		} else if !visible && chunk.IsRendered {
			t.store.UnrenderChunk(chunk.ID)
		}

		t.store.SetChunkVisibility(chunk.ID, visible)
	}
}

// FPS returns the last frame-rate sample.
func (t *VisibilityTracker) FPS() int {
	return t.fps.FPS()
}

// ViewportRect converts a surface viewport to world coordinates and expands it
// by margin screen pixels.
func ViewportRect(vp Viewport, margin float64) models.Bounds {
	zoom := vp.Zoom
	if zoom <= 0 {
		zoom = 1
	}

	minX := -vp.Transform[4] / zoom
	minY := -vp.Transform[5] / zoom
	maxX := minX + vp.Width/zoom
	maxY := minY + vp.Height/zoom
	m := margin / zoom

	return models.Bounds{
		MinX: minX - m,
		MinY: minY - m,
		MaxX: maxX + m,
		MaxY: maxY + m,
	}
}
