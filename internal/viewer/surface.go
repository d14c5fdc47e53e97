package viewer

import (
	"formwork-cad/internal/canvas"
	"formwork-cad/internal/converter/models"
)

// polyline is the drawable handle the braille surface hands out.
type polyline struct {
	points  []models.Point
	opacity float64
	visible bool
}

func (p *polyline) SetOpacity(opacity float64) { p.opacity = opacity }

func (p *polyline) SetVisible(visible bool) { p.visible = visible }

type listener struct {
	id uint64
	fn func()
}

// Surface draws polylines into a braille buffer: every terminal cell holds a
// 2x4 dot matrix, so the pixel size is (cols*2, rows*4).
type Surface struct {
	cols, rows int
	zoom       float64
	panX, panY float64

	objects           map[*polyline]struct{}
	order             []*polyline
	renderOnAddRemove bool
	dirty             bool
	frame             []string

	listeners  map[canvas.EventType][]listener
	listenerID uint64
}

func NewSurface(cols, rows int) *Surface {
	return &Surface{
		cols:              max(cols, 1),
		rows:              max(rows, 1),
		zoom:              1,
		objects:           make(map[*polyline]struct{}),
		renderOnAddRemove: true,
		dirty:             true,
		listeners:         make(map[canvas.EventType][]listener),
	}
}

// Resize changes the cell grid; it counts as a viewport change.
func (s *Surface) Resize(cols, rows int) {
	s.cols, s.rows = max(cols, 1), max(rows, 1)
	s.dirty = true
	s.emit(canvas.EventWheel)
}

// Pan shifts the view by dx, dy pixels as a pointer drag would.
func (s *Surface) Pan(dx, dy float64) {
	s.panX += dx
	s.panY += dy
	s.dirty = true
	s.emit(canvas.EventPointerDrag)
}

// ZoomAt scales around the pixel (px, py), keeping that point fixed.
func (s *Surface) ZoomAt(factor, px, py float64) {
	next := s.zoom * factor
	if next < 1e-4 || next > 1e4 {
		return
	}
	s.panX = px - (px-s.panX)*factor
	s.panY = py - (py-s.panY)*factor
	s.zoom = next
	s.dirty = true
	s.emit(canvas.EventWheel)
}

// Fit makes b fill the surface.
func (s *Surface) Fit(b models.Bounds) {
	if b.IsEmpty() {
		return
	}
	w, h := float64(s.cols*2), float64(s.rows*4)
	bw, bh := max(b.MaxX-b.MinX, 1), max(b.MaxY-b.MinY, 1)
	s.zoom = min(w/bw, h/bh) * 0.95
	s.panX = -b.MinX*s.zoom + (w-bw*s.zoom)/2
	s.panY = -b.MinY*s.zoom + (h-bh*s.zoom)/2
	s.dirty = true
	s.emit(canvas.EventWheel)
}

func (s *Surface) Zoom() float64 { return s.zoom }

func (s *Surface) Size() (cols, rows int) { return s.cols, s.rows }

func (s *Surface) ObjectCount() int { return len(s.order) }

// ============================================================
// canvas.Surface
// ============================================================

func (s *Surface) NewPolygon(points []models.Point, style canvas.Style) canvas.Object {
	opacity := style.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	return &polyline{points: points, opacity: opacity, visible: true}
}

func (s *Surface) Add(objects ...canvas.Object) {
	for _, o := range objects {
		p, ok := o.(*polyline)
		if !ok {
			continue
		}
		if _, exists := s.objects[p]; exists {
			continue
		}
		s.objects[p] = struct{}{}
		s.order = append(s.order, p)
	}
	s.changed()
}

func (s *Surface) Remove(objects ...canvas.Object) {
	removed := 0
	for _, o := range objects {
		if p, ok := o.(*polyline); ok {
			if _, exists := s.objects[p]; exists {
				delete(s.objects, p)
				removed++
			}
		}
	}
	if removed == 0 {
		return
	}
	kept := s.order[:0]
	for _, p := range s.order {
		if _, ok := s.objects[p]; ok {
			kept = append(kept, p)
		}
	}
	s.order = kept
	s.changed()
}

func (s *Surface) RenderOnAddRemove() bool { return s.renderOnAddRemove }

func (s *Surface) SetRenderOnAddRemove(enabled bool) { s.renderOnAddRemove = enabled }

func (s *Surface) RequestRender() { s.dirty = true }

func (s *Surface) Viewport() canvas.Viewport {
	return canvas.Viewport{
		Transform: [6]float64{s.zoom, 0, 0, s.zoom, s.panX, s.panY},
		Zoom:      s.zoom,
		Width:     float64(s.cols * 2),
		Height:    float64(s.rows * 4),
	}
}

func (s *Surface) On(event canvas.EventType, fn func()) func() {
	s.listenerID++
	id := s.listenerID
	s.listeners[event] = append(s.listeners[event], listener{id: id, fn: fn})
	return func() {
		list := s.listeners[event]
		for i, l := range list {
			if l.id == id {
				s.listeners[event] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// ============================================================
// Painting
// ============================================================

// Frame returns the current picture, repainting first if anything changed.
func (s *Surface) Frame() []string {
	if s.dirty || s.frame == nil {
		s.paint()
	}
	return s.frame
}

// Lines returns the last painted picture without repainting.
func (s *Surface) Lines() []string {
	return s.frame
}

func (s *Surface) paint() {
	buf := newBrailleBuf(s.cols, s.rows)
	for _, p := range s.order {
		if !p.visible || p.opacity <= 0 || len(p.points) < 2 {
			continue
		}
		x0, y0 := s.toPixel(p.points[0])
		for _, pt := range p.points[1:] {
			x1, y1 := s.toPixel(pt)
			buf.drawLine(x0, y0, x1, y1)
			x0, y0 = x1, y1
		}
	}
	s.frame = buf.lines()
	s.dirty = false
	s.emit(canvas.EventAfterRender)
}

func (s *Surface) toPixel(p models.Point) (int, int) {
	return int(p.X*s.zoom + s.panX), int(p.Y*s.zoom + s.panY)
}

func (s *Surface) changed() {
	s.dirty = true
	if s.renderOnAddRemove {
		s.paint()
	}
}

func (s *Surface) emit(event canvas.EventType) {
	for _, l := range append([]listener(nil), s.listeners[event]...) {
		l.fn()
	}
}
