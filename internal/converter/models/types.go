package models

import "math"

// ============================================================
// Raw CAD entities
// ============================================================

// Entity kinds as reported by the DXF parser.
const (
	KindLine       = "LINE"
	KindPolyline   = "POLYLINE"
	KindLWPolyline = "LWPOLYLINE"
	KindCircle     = "CIRCLE"
	KindArc        = "ARC"
	KindText       = "TEXT"
	KindMText      = "MTEXT"
	KindDimension  = "DIMENSION"
	KindOther      = "OTHER"
)

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// RawEntity is one drawable object as produced by an external DXF parser.
// Only the geometry fields relevant to Type are set.
type RawEntity struct {
	Type     string   `json:"type"`
	Layer    string   `json:"layer"`
	Color    any      `json:"color,omitempty"` // ACI index (number) or CSS color (string)
	Start    *Point   `json:"start,omitempty"`
	End      *Point   `json:"end,omitempty"`
	Vertices []Point  `json:"vertices,omitempty"`
	Center   *Point   `json:"center,omitempty"`
	Radius   *float64 `json:"radius,omitempty"`

	StartAngle float64 `json:"startAngle,omitempty"`
	EndAngle   float64 `json:"endAngle,omitempty"`
	Text       string  `json:"text,omitempty"`
}

// IsPolyline reports whether the entity is a POLYLINE or LWPOLYLINE.
func (e RawEntity) IsPolyline() bool {
	return e.Type == KindPolyline || e.Type == KindLWPolyline
}

// ============================================================
// Render primitives
// ============================================================

const (
	PrimitiveLine   = "line"
	PrimitiveCircle = "circle"
)

// RenderPrimitive is an atomic, axis-flipped drawable ready for the viewer.
// Lines carry Start/End, circles carry Center/Radius.
type RenderPrimitive struct {
	Kind   string  `json:"type"`
	Layer  string  `json:"layer"`
	Stroke string  `json:"stroke"`
	Start  *Point  `json:"start,omitempty"`
	End    *Point  `json:"end,omitempty"`
	Center *Point  `json:"center,omitempty"`
	Radius float64 `json:"radius,omitempty"`
}

// Weight is the point cost of the primitive against the budget.
func (p RenderPrimitive) Weight() int {
	switch p.Kind {
	case PrimitiveLine:
		return 2
	case PrimitiveCircle:
		return 8
	}
	return 0
}

type SetMetadata struct {
	TotalEntities  int  `json:"totalEntities"`
	UniqueEntities int  `json:"uniqueEntities"`
	TotalPoints    int  `json:"totalPoints"`
	LayerCount     int  `json:"layerCount"`
	WasLimited     bool `json:"wasLimited"`
}

// LayeredPrimitiveSet groups admitted primitives by layer.
// LayerNames keeps the first-seen order of the keys of Layers.
type LayeredPrimitiveSet struct {
	Layers     map[string][]RenderPrimitive `json:"layers"`
	LayerNames []string                     `json:"layerNames"`
	Metadata   SetMetadata                  `json:"metadata"`
}

// Primitives returns all primitives in layer order.
func (s *LayeredPrimitiveSet) Primitives() []RenderPrimitive {
	var out []RenderPrimitive
	for _, name := range s.LayerNames {
		out = append(out, s.Layers[name]...)
	}
	return out
}

// ============================================================
// Chunking geometry
// ============================================================

const ShapePolygon = "polygon"

type GeometryShape struct {
	ID     string  `json:"id"`
	Type   string  `json:"type"`
	Layer  string  `json:"layer,omitempty"`
	Stroke string  `json:"stroke,omitempty"`
	Points []Point `json:"points"`
}

// Bounds is an axis-aligned bounding box.
type Bounds struct {
	MinX float64 `json:"minX"`
	MinY float64 `json:"minY"`
	MaxX float64 `json:"maxX"`
	MaxY float64 `json:"maxY"`
}

// EmptyBounds returns an inverted box that any Extend call will shrink to fit.
func EmptyBounds() Bounds {
	return Bounds{
		MinX: math.Inf(1),
		MinY: math.Inf(1),
		MaxX: math.Inf(-1),
		MaxY: math.Inf(-1),
	}
}

func (b *Bounds) Extend(p Point) {
	b.MinX = math.Min(b.MinX, p.X)
	b.MinY = math.Min(b.MinY, p.Y)
	b.MaxX = math.Max(b.MaxX, p.X)
	b.MaxY = math.Max(b.MaxY, p.Y)
}

// IsEmpty reports whether no point was ever added.
func (b Bounds) IsEmpty() bool {
	return b.MinX > b.MaxX || b.MinY > b.MaxY
}

// Intersects reports whether b and o overlap; touching edges count as overlap.
func (b Bounds) Intersects(o Bounds) bool {
	return !(b.MaxX < o.MinX || b.MinX > o.MaxX || b.MaxY < o.MinY || b.MinY > o.MaxY)
}

// ShapesBounds computes the bounding box over every point of every shape.
func ShapesBounds(shapes []GeometryShape) Bounds {
	b := EmptyBounds()
	for _, s := range shapes {
		for _, p := range s.Points {
			b.Extend(p)
		}
	}
	return b
}
