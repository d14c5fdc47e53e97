package canvas

import (
	"time"

	"formwork-cad/internal/converter/models"
)

// fakeClock is advanced by hand so frame budgets and debounce windows are
// deterministic.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

type mockObject struct {
	points  []models.Point
	style   Style
	opacity float64
	visible bool
}

func (o *mockObject) SetOpacity(opacity float64) { o.opacity = opacity }

func (o *mockObject) SetVisible(visible bool) { o.visible = visible }

// mockSurface records how the engine drives a surface.
type mockSurface struct {
	objects           map[*mockObject]struct{}
	renderOnAddRemove bool
	viewport          Viewport

	addCalls          int
	removeCalls       int
	unbatchedMutation int
	renderRequests    int
	onNewPolygon      func()

	handlers map[EventType]map[int]func()
	nextID   int
}

func newMockSurface() *mockSurface {
	return &mockSurface{
		objects:           make(map[*mockObject]struct{}),
		renderOnAddRemove: true,
		viewport: Viewport{
			Transform: [6]float64{1, 0, 0, 1, 0, 0},
			Zoom:      1,
			Width:     1000,
			Height:    1000,
		},
		handlers: make(map[EventType]map[int]func()),
	}
}

func (s *mockSurface) NewPolygon(points []models.Point, style Style) Object {
	if s.onNewPolygon != nil {
		s.onNewPolygon()
	}
	return &mockObject{points: points, style: style, opacity: style.Opacity, visible: true}
}

func (s *mockSurface) Add(objects ...Object) {
	s.addCalls++
	if s.renderOnAddRemove {
		s.unbatchedMutation++
	}
	for _, o := range objects {
		s.objects[o.(*mockObject)] = struct{}{}
	}
}

func (s *mockSurface) Remove(objects ...Object) {
	s.removeCalls++
	if s.renderOnAddRemove {
		s.unbatchedMutation++
	}
	for _, o := range objects {
		delete(s.objects, o.(*mockObject))
	}
}

func (s *mockSurface) RenderOnAddRemove() bool { return s.renderOnAddRemove }

func (s *mockSurface) SetRenderOnAddRemove(enabled bool) { s.renderOnAddRemove = enabled }

func (s *mockSurface) RequestRender() { s.renderRequests++ }

func (s *mockSurface) Viewport() Viewport { return s.viewport }

func (s *mockSurface) On(event EventType, fn func()) func() {
	if s.handlers[event] == nil {
		s.handlers[event] = make(map[int]func())
	}
	s.nextID++
	id := s.nextID
	s.handlers[event][id] = fn
	return func() { delete(s.handlers[event], id) }
}

func (s *mockSurface) emit(event EventType) {
	for _, fn := range s.handlers[event] {
		fn()
	}
}

// setView positions the viewport so its top-left corner shows world (x, y).
func (s *mockSurface) setView(x, y, zoom, width, height float64) {
	s.viewport = Viewport{
		Transform: [6]float64{zoom, 0, 0, zoom, -x * zoom, -y * zoom},
		Zoom:      zoom,
		Width:     width,
		Height:    height,
	}
}

func square(id string, x, y, size float64) models.GeometryShape {
	return models.GeometryShape{
		ID:   id,
		Type: models.ShapePolygon,
		Points: []models.Point{
			{X: x, Y: y}, {X: x + size, Y: y}, {X: x + size, Y: y + size}, {X: x, Y: y + size},
		},
	}
}
