// Package raster implements canvas.Surface on top of the gg software
// rasteriser so chunked drawings can be rendered to PNG without a browser.
package raster

import (
	"fmt"
	"io"

	"formwork-cad/internal/canvas"
	"formwork-cad/internal/converter/models"

	"github.com/gogpu/gg"
)

type Polygon struct {
	points  []models.Point
	style   canvas.Style
	opacity float64
	visible bool
}

func (p *Polygon) SetOpacity(opacity float64) { p.opacity = opacity }

func (p *Polygon) SetVisible(visible bool) { p.visible = visible }

type handler struct {
	id uint64
	fn func()
}

// Surface keeps an ordered display list and paints it on Render.
type Surface struct {
	width, height int
	zoom          float64
	panX, panY    float64
	background    string

	objects           []*Polygon
	index             map[*Polygon]int
	renderOnAddRemove bool
	dirty             bool
	renders           int

	handlers  map[canvas.EventType][]handler
	handlerID uint64

	dc *gg.Context
}

func NewSurface(width, height int) *Surface {
	return &Surface{
		width:             width,
		height:            height,
		zoom:              1,
		background:        "#ffffff",
		index:             make(map[*Polygon]int),
		renderOnAddRemove: true,
		handlers:          make(map[canvas.EventType][]handler),
	}
}

func (s *Surface) SetBackground(hex string) {
	s.background = hex
}

// SetViewport sets zoom and the pixel pan offset and notifies wheel listeners.
func (s *Surface) SetViewport(zoom, panX, panY float64) {
	if zoom > 0 {
		s.zoom = zoom
	}
	s.panX, s.panY = panX, panY
	s.emit(canvas.EventWheel)
}

// FitBounds picks zoom and pan so b fills the surface with a small padding.
func (s *Surface) FitBounds(b models.Bounds) {
	if b.IsEmpty() {
		return
	}
	w := b.MaxX - b.MinX
	h := b.MaxY - b.MinY
	if w <= 0 {
		w = 1
	}
	if h <= 0 {
		h = 1
	}
	zoom := min(float64(s.width)/w, float64(s.height)/h) * 0.95
	s.SetViewport(zoom, -b.MinX*zoom+float64(s.width)*0.025, -b.MinY*zoom+float64(s.height)*0.025)
}

// ============================================================
// canvas.Surface
// ============================================================

func (s *Surface) NewPolygon(points []models.Point, style canvas.Style) canvas.Object {
	opacity := style.Opacity
	if opacity <= 0 {
		opacity = 1
	}
	return &Polygon{points: points, style: style, opacity: opacity, visible: true}
}

func (s *Surface) Add(objects ...canvas.Object) {
	for _, o := range objects {
		p, ok := o.(*Polygon)
		if !ok {
			continue
		}
		if _, exists := s.index[p]; exists {
			continue
		}
		s.index[p] = len(s.objects)
		s.objects = append(s.objects, p)
	}
	s.changed()
}

func (s *Surface) Remove(objects ...canvas.Object) {
	drop := make(map[*Polygon]struct{}, len(objects))
	for _, o := range objects {
		if p, ok := o.(*Polygon); ok {
			drop[p] = struct{}{}
		}
	}
	if len(drop) == 0 {
		return
	}

	kept := s.objects[:0]
	for _, p := range s.objects {
		if _, ok := drop[p]; ok {
			delete(s.index, p)
			continue
		}
		s.index[p] = len(kept)
		kept = append(kept, p)
	}
	s.objects = kept
	s.changed()
}

func (s *Surface) RenderOnAddRemove() bool {
	return s.renderOnAddRemove
}

func (s *Surface) SetRenderOnAddRemove(enabled bool) {
	s.renderOnAddRemove = enabled
}

// RequestRender marks the surface dirty; painting happens in Render.
func (s *Surface) RequestRender() {
	s.dirty = true
}

func (s *Surface) Viewport() canvas.Viewport {
	return canvas.Viewport{
		Transform: [6]float64{s.zoom, 0, 0, s.zoom, s.panX, s.panY},
		Zoom:      s.zoom,
		Width:     float64(s.width),
		Height:    float64(s.height),
	}
}

func (s *Surface) On(event canvas.EventType, fn func()) func() {
	s.handlerID++
	id := s.handlerID
	s.handlers[event] = append(s.handlers[event], handler{id: id, fn: fn})
	return func() {
		list := s.handlers[event]
		for i, h := range list {
			if h.id == id {
				s.handlers[event] = append(list[:i], list[i+1:]...)
				return
			}
		}
	}
}

// ============================================================
// Painting
// ============================================================

// Render paints the display list if anything changed and fires after:render.
func (s *Surface) Render() error {
	if s.dc == nil {
		s.dc = gg.NewContext(s.width, s.height)
	}
	if !s.dirty && s.renders > 0 {
		return nil
	}

	s.dc.ClearWithColor(gg.Hex(s.background))
	for _, p := range s.objects {
		if err := s.paint(p); err != nil {
			return fmt.Errorf("paint polygon: %w", err)
		}
	}

	s.dirty = false
	s.renders++
	s.emit(canvas.EventAfterRender)
	return nil
}

func (s *Surface) paint(p *Polygon) error {
	if !p.visible || len(p.points) < 2 {
		return nil
	}

	col := gg.Hex(p.style.Stroke)
	s.dc.SetRGBA(col.R, col.G, col.B, col.A*p.opacity)
	s.dc.SetLineWidth(max(p.style.StrokeWidth, 0.5))

	first := p.points[0]
	s.dc.MoveTo(s.toScreen(first))
	for _, pt := range p.points[1:] {
		s.dc.LineTo(s.toScreen(pt))
	}
	return s.dc.Stroke()
}

func (s *Surface) toScreen(p models.Point) (float64, float64) {
	return p.X*s.zoom + s.panX, p.Y*s.zoom + s.panY
}

// EncodePNG renders pending changes and writes the frame as PNG.
func (s *Surface) EncodePNG(w io.Writer) error {
	if err := s.Render(); err != nil {
		return err
	}
	return s.dc.EncodePNG(w)
}

func (s *Surface) Close() error {
	if s.dc == nil {
		return nil
	}
	return s.dc.Close()
}

func (s *Surface) ObjectCount() int {
	return len(s.objects)
}

func (s *Surface) Renders() int {
	return s.renders
}

// changed repaints right away unless a batch switched auto-rendering off.
func (s *Surface) changed() {
	s.dirty = true
	if s.renderOnAddRemove {
		_ = s.Render()
	}
}

func (s *Surface) emit(event canvas.EventType) {
	for _, h := range append([]handler(nil), s.handlers[event]...) {
		h.fn()
	}
}
