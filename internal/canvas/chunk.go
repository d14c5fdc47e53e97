package canvas

import "formwork-cad/internal/converter/models"

// ============================================================
// Chunk Store
// ============================================================

// RenderChunk is a spatial group of shapes with a bounding box computed once
// at creation. IsRendered only changes through RenderChunk/UnrenderChunk.
type RenderChunk struct {
	ID              string
	Shapes          []models.GeometryShape
	RenderedObjects []Object
	Bounds          models.Bounds
	IsVisible       bool
	IsRendered      bool
}

type Stats struct {
	TotalShapes    int `json:"totalShapes"`
	RenderedShapes int `json:"renderedShapes"`
	VisibleShapes  int `json:"visibleShapes"`
}

type ChunkStore struct {
	surface Surface
	style   Style
	chunks  map[string]*RenderChunk
	order   []string

	totalShapes    int
	renderedShapes int
}

// NewChunkStore creates a store drawing onto surface. A nil surface is allowed;
// render calls are no-ops until one is attached.
func NewChunkStore(surface Surface, style Style) *ChunkStore {
	return &ChunkStore{
		surface: surface,
		style:   style,
		chunks:  make(map[string]*RenderChunk),
	}
}

func (s *ChunkStore) SetSurface(surface Surface) {
	s.surface = surface
}

func (s *ChunkStore) Surface() Surface {
	return s.surface
}

// AddChunk stores shapes as a new not-rendered, not-visible chunk. Re-adding an
// existing id unrenders and replaces the old chunk.
func (s *ChunkStore) AddChunk(id string, shapes []models.GeometryShape) *RenderChunk {
	if old, ok := s.chunks[id]; ok {
		s.UnrenderChunk(id)
		s.totalShapes -= len(old.Shapes)
	} else {
		s.order = append(s.order, id)
	}

	chunk := &RenderChunk{
		ID:     id,
		Shapes: shapes,
		Bounds: models.ShapesBounds(shapes),
	}
	s.chunks[id] = chunk
	s.totalShapes += len(shapes)
	return chunk
}

// RenderChunk materialises the chunk's drawable shapes on the surface and
// returns how many objects were created. Unknown, already rendered or
// surface-less calls return 0.
func (s *ChunkStore) RenderChunk(id string) int {
	chunk, ok := s.chunks[id]
	if !ok || chunk.IsRendered || s.surface == nil {
		return 0
	}

	objects := make([]Object, 0, len(chunk.Shapes))
	for _, shape := range chunk.Shapes {
		if shape.Type != models.ShapePolygon || len(shape.Points) < 2 {
			continue
		}
		objects = append(objects, s.surface.NewPolygon(shape.Points, s.shapeStyle(shape)))
	}

	batch(s.surface, func() {
		s.surface.Add(objects...)
	})

	chunk.RenderedObjects = objects
	chunk.IsRendered = true
	s.renderedShapes += len(chunk.Shapes)
	return len(objects)
}

// UnrenderChunk removes the chunk's objects from the surface.
func (s *ChunkStore) UnrenderChunk(id string) {
	chunk, ok := s.chunks[id]
	if !ok || !chunk.IsRendered {
		return
	}

	if s.surface != nil && len(chunk.RenderedObjects) > 0 {
		batch(s.surface, func() {
			s.surface.Remove(chunk.RenderedObjects...)
		})
	}

	chunk.RenderedObjects = nil
	chunk.IsRendered = false
	s.renderedShapes -= len(chunk.Shapes)
}

// SetChunkVisibility only records the flag; it never renders.
func (s *ChunkStore) SetChunkVisibility(id string, visible bool) {
	if chunk, ok := s.chunks[id]; ok {
		chunk.IsVisible = visible
	}
}

// ClearAllChunks removes every rendered object in one batch and empties the store.
func (s *ChunkStore) ClearAllChunks() {
	if s.surface != nil {
		batch(s.surface, func() {
			for _, id := range s.order {
				chunk := s.chunks[id]
				if chunk.IsRendered && len(chunk.RenderedObjects) > 0 {
					s.surface.Remove(chunk.RenderedObjects...)
				}
			}
		})
	}

	s.chunks = make(map[string]*RenderChunk)
	s.order = nil
	s.totalShapes = 0
	s.renderedShapes = 0
}

// SetOpacity applies to the objects of rendered chunks only.
func (s *ChunkStore) SetOpacity(opacity float64) {
	s.eachRenderedObject(func(o Object) { o.SetOpacity(opacity) })
}

// SetVisible applies to the objects of rendered chunks only.
func (s *ChunkStore) SetVisible(visible bool) {
	s.eachRenderedObject(func(o Object) { o.SetVisible(visible) })
}

func (s *ChunkStore) eachRenderedObject(fn func(Object)) {
	for _, id := range s.order {
		chunk := s.chunks[id]
		if !chunk.IsRendered {
			continue
		}
		for _, o := range chunk.RenderedObjects {
			fn(o)
		}
	}
	if s.surface != nil {
		s.surface.RequestRender()
	}
}

// ============================================================
// Queries
// ============================================================

func (s *ChunkStore) Chunk(id string) (*RenderChunk, bool) {
	chunk, ok := s.chunks[id]
	return chunk, ok
}

// Chunks returns chunks in insertion order.
func (s *ChunkStore) Chunks() []*RenderChunk {
	out := make([]*RenderChunk, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.chunks[id])
	}
	return out
}

func (s *ChunkStore) Len() int {
	return len(s.order)
}

// Stats reports shape counts; VisibleShapes is recomputed on each call.
func (s *ChunkStore) Stats() Stats {
	visible := 0
	for _, chunk := range s.chunks {
		if chunk.IsVisible {
			visible += len(chunk.Shapes)
		}
	}
	return Stats{
		TotalShapes:    s.totalShapes,
		RenderedShapes: s.renderedShapes,
		VisibleShapes:  visible,
	}
}

func (s *ChunkStore) shapeStyle(shape models.GeometryShape) Style {
	style := s.style
	if shape.Stroke != "" {
		style.Stroke = shape.Stroke
	}
	return style
}
