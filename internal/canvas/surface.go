// Package canvas keeps large shape sets interactive on a 2D drawing surface by
// splitting them into spatial chunks, rendering only the chunks near the
// viewport and spreading render work across animation frames.
//
// Everything in this package runs on one cooperative thread: callers drive it
// from a single event loop (see Loop) and must not call into it concurrently.
package canvas

import "formwork-cad/internal/converter/models"

// ============================================================
// Drawing surface
// ============================================================

// EventType names a surface notification the engine subscribes to.
type EventType string

const (
	EventAfterRender EventType = "after:render"
	EventPointerDrag EventType = "pointer:drag"
	EventWheel       EventType = "wheel"
)

// Object is an opaque drawable handle owned by a surface.
type Object interface {
	SetOpacity(opacity float64)
	SetVisible(visible bool)
}

// Style is applied to every polygon the chunk store materialises.
type Style struct {
	Stroke      string
	StrokeWidth float64
	Fill        string
	Opacity     float64
}

func DefaultStyle() Style {
	return Style{
		Stroke:      "#333333",
		StrokeWidth: 1,
		Fill:        "",
		Opacity:     1,
	}
}

// Viewport describes the current pan/zoom of a surface. Transform follows the
// [a b c d e f] affine layout; e and f hold the pan offset in pixels.
type Viewport struct {
	Transform [6]float64
	Zoom      float64
	Width     float64
	Height    float64
}

// Surface is the shared drawing target. Only the chunk store adds and removes
// objects; the visibility tracker reads the viewport and subscribes to events.
type Surface interface {
	NewPolygon(points []models.Point, style Style) Object
	Add(objects ...Object)
	Remove(objects ...Object)

	// RenderOnAddRemove controls whether every Add/Remove redraws. Batch
	// mutations switch it off and call RequestRender once.
	RenderOnAddRemove() bool
	SetRenderOnAddRemove(enabled bool)
	RequestRender()

	Viewport() Viewport
	On(event EventType, handler func()) (off func())
}

// batch runs fn with per-object redraws disabled, restores the previous mode
// and requests a single redraw.
func batch(s Surface, fn func()) {
	prev := s.RenderOnAddRemove()
	s.SetRenderOnAddRemove(false)
	fn()
	s.SetRenderOnAddRemove(prev)
	s.RequestRender()
}
