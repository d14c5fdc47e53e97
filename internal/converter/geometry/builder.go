package geometry

import (
	"fmt"
	"math"
	"sort"

	"formwork-cad/internal/converter/models"
)

// ============================================================
// Shape Builder
// ============================================================

const circleSegments = 24 // polygon sides used to approximate a circle

// Chunk is a caller-side grouping of shapes, ready for ChunkStore.AddChunk.
type Chunk struct {
	ID     string
	Shapes []models.GeometryShape
}

type ShapeBuilder struct {
	shapeID  int
	segments int
}

func NewShapeBuilder() *ShapeBuilder {
	return &ShapeBuilder{segments: circleSegments}
}

// Build turns every primitive of the set into a polygon shape, walking layers
// in their recorded order. Lines become open 2-point polygons, circles closed
// n-gons.
func (b *ShapeBuilder) Build(set *models.LayeredPrimitiveSet) []models.GeometryShape {
	b.shapeID = 0
	if set == nil {
		return nil
	}

	var shapes []models.GeometryShape
	for _, p := range set.Primitives() {
		if shape, ok := b.fromPrimitive(p); ok {
			shapes = append(shapes, shape)
		}
	}
	return shapes
}

func (b *ShapeBuilder) fromPrimitive(p models.RenderPrimitive) (models.GeometryShape, bool) {
	var points []models.Point

	switch p.Kind {
	case models.PrimitiveLine:
		if p.Start == nil || p.End == nil {
			return models.GeometryShape{}, false
		}
		points = []models.Point{*p.Start, *p.End}
	case models.PrimitiveCircle:
		if p.Center == nil || p.Radius <= 0 {
			return models.GeometryShape{}, false
		}
		points = circlePoints(*p.Center, p.Radius, b.segments)
	default:
		return models.GeometryShape{}, false
	}

	b.shapeID++
	return models.GeometryShape{
		ID:     fmt.Sprintf("s%d", b.shapeID),
		Type:   models.ShapePolygon,
		Layer:  p.Layer,
		Stroke: p.Stroke,
		Points: points,
	}, true
}

func circlePoints(c models.Point, r float64, n int) []models.Point {
	points := make([]models.Point, 0, n+1)
	for i := 0; i <= n; i++ {
		a := 2 * math.Pi * float64(i) / float64(n)
		points = append(points, models.Point{
			X: c.X + r*math.Cos(a),
			Y: c.Y + r*math.Sin(a),
		})
	}
	return points
}

// ============================================================
// Chunking strategies
// ============================================================

// ChunkBySize splits shapes into consecutive batches of at most size shapes.
func ChunkBySize(shapes []models.GeometryShape, size int) []Chunk {
	if size <= 0 {
		size = len(shapes)
	}
	var chunks []Chunk
	for start := 0; start < len(shapes); start += size {
		end := min(start+size, len(shapes))
		chunks = append(chunks, Chunk{
			ID:     fmt.Sprintf("chunk-%d", len(chunks)),
			Shapes: shapes[start:end],
		})
	}
	return chunks
}

// ChunkByGrid buckets shapes into square cells keyed by the cell containing
// each shape's first point. Chunks come out sorted by cell row, then column.
func ChunkByGrid(shapes []models.GeometryShape, cell float64) []Chunk {
	if cell <= 0 {
		return ChunkBySize(shapes, 0)
	}

	type cellKey struct{ col, row int }
	buckets := make(map[cellKey][]models.GeometryShape)

	for _, s := range shapes {
		if len(s.Points) == 0 {
			continue
		}
		k := cellKey{
			col: int(math.Floor(s.Points[0].X / cell)),
			row: int(math.Floor(s.Points[0].Y / cell)),
		}
		buckets[k] = append(buckets[k], s)
	}

	keys := make([]cellKey, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].row != keys[j].row {
			return keys[i].row < keys[j].row
		}
		return keys[i].col < keys[j].col
	})

	chunks := make([]Chunk, 0, len(keys))
	for _, k := range keys {
		chunks = append(chunks, Chunk{
			ID:     fmt.Sprintf("cell:%d:%d", k.col, k.row),
			Shapes: buckets[k],
		})
	}
	return chunks
}
