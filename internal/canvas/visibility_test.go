package canvas

import (
	"testing"
	"time"

	"formwork-cad/internal/converter/models"
)

func newTrackerFixture(margin float64) (*mockSurface, *ChunkStore, *RenderQueue, *VisibilityTracker, *Loop, *fakeClock) {
	clock := newFakeClock()
	loop := NewLoop(clock.Now)
	surface := newMockSurface()
	store := NewChunkStore(surface, DefaultStyle())
	queue := NewRenderQueue(store, surface, loop)
	tracker := NewVisibilityTracker(surface, store, queue, loop, VisibilityOptions{
		Margin:   margin,
		Debounce: DefaultDebounce,
	})
	return surface, store, queue, tracker, loop, clock
}

func TestViewportRect(t *testing.T) {
	vp := Viewport{Transform: [6]float64{2, 0, 0, 2, -100, -50}, Zoom: 2, Width: 800, Height: 600}

	got := ViewportRect(vp, 200)
	want := models.Bounds{MinX: 50 - 100, MinY: 25 - 100, MaxX: 450 + 100, MaxY: 325 + 100}
	if got != want {
		t.Errorf("ViewportRect() = %+v, want %+v", got, want)
	}
}

func TestChunkVisibilityMargin(t *testing.T) {
	tests := []struct {
		name    string
		margin  float64
		visible bool
	}{
		{"zero margin leaves gap", 0, false},
		{"margin wider than gap", 15, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			surface, store, queue, tracker, _, _ := newTrackerFixture(tt.margin)
			store.AddChunk("a", []models.GeometryShape{square("1", 0, 0, 10)})
			surface.setView(20, 20, 1, 10, 10)

			tracker.Update()

			c, _ := store.Chunk("a")
			if c.IsVisible != tt.visible {
				t.Errorf("IsVisible = %v, want %v", c.IsVisible, tt.visible)
			}
			if queued := queue.Len() == 1; queued != tt.visible {
				t.Errorf("queued = %v, want %v", queued, tt.visible)
			}
			if c.IsRendered {
				t.Error("update must not render synchronously")
			}
		})
	}
}

func TestUpdateUnrendersHiddenChunks(t *testing.T) {
	surface, store, _, tracker, loop, _ := newTrackerFixture(0)
	store.AddChunk("near", []models.GeometryShape{square("1", 0, 0, 10)})
	store.AddChunk("far", []models.GeometryShape{square("2", 5000, 5000, 10)})
	surface.setView(0, 0, 1, 100, 100)

	tracker.Update()
	loop.Drain(10)

	near, _ := store.Chunk("near")
	far, _ := store.Chunk("far")
	if !near.IsRendered || far.IsRendered {
		t.Fatalf("unexpected render state near=%v far=%v", near.IsRendered, far.IsRendered)
	}

	surface.setView(5000, 5000, 1, 100, 100)
	tracker.Update()

	if near.IsRendered || near.IsVisible {
		t.Error("near chunk should be unrendered as soon as it leaves the view")
	}
	if far.IsRendered || !far.IsVisible {
		t.Error("far chunk should be visible and waiting in the queue")
	}

	loop.Drain(10)
	if !far.IsRendered {
		t.Error("far chunk was not rendered by the queue")
	}
	if got := store.Stats(); got.VisibleShapes != 1 || got.RenderedShapes != 1 {
		t.Errorf("unexpected stats %+v", got)
	}
}

func TestScheduleUpdateDebounces(t *testing.T) {
	surface, store, queue, tracker, loop, clock := newTrackerFixture(0)
	store.AddChunk("a", []models.GeometryShape{square("1", 0, 0, 10)})
	tracker.Start()
	defer tracker.Stop()

	for i := 0; i < 5; i++ {
		surface.emit(EventPointerDrag)
		clock.Advance(10 * time.Millisecond)
	}
	surface.emit(EventWheel)

	if loop.PendingTimers() != 1 {
		t.Fatalf("expected one pending timer, got %d", loop.PendingTimers())
	}

	clock.Advance(DefaultDebounce - time.Millisecond)
	if n := loop.RunTimers(); n != 0 {
		t.Errorf("update fired early")
	}
	if queue.Len() != 0 {
		t.Error("no update expected yet")
	}

	clock.Advance(time.Millisecond)
	if n := loop.RunTimers(); n != 1 {
		t.Errorf("expected one update, got %d", n)
	}
	if queue.Len() != 1 {
		t.Errorf("expected chunk to be queued, got %d", queue.Len())
	}
}

func TestTrackerStop(t *testing.T) {
	surface, _, _, tracker, loop, _ := newTrackerFixture(0)
	tracker.Start()
	surface.emit(EventWheel)

	tracker.Stop()
	surface.emit(EventPointerDrag)

	if loop.PendingTimers() != 0 {
		t.Errorf("expected no pending timers after stop, got %d", loop.PendingTimers())
	}
}

func TestTrackerMeasuresFPS(t *testing.T) {
	surface, _, _, tracker, _, clock := newTrackerFixture(0)
	tracker.Start()
	defer tracker.Stop()

	for i := 0; i <= 31; i++ {
		surface.emit(EventAfterRender)
		clock.Advance(time.Second / 30)
	}

	if fps := tracker.FPS(); fps < 29 || fps > 32 {
		t.Errorf("expected about 30 fps, got %d", fps)
	}
}

func TestFPSMeter(t *testing.T) {
	var m FPSMeter
	start := time.Unix(0, 0)

	for i := 0; i <= 10; i++ {
		m.Frame(start.Add(time.Duration(i) * 100 * time.Millisecond))
	}
	if m.FPS() != 11 {
		t.Errorf("expected 11 fps, got %d", m.FPS())
	}

	m.Frame(start.Add(1500 * time.Millisecond))
	if m.FPS() != 11 {
		t.Error("sample must hold until the next window closes")
	}
}
