package service

import (
	"fmt"
	"io"

	"formwork-cad/internal/canvas"
	"formwork-cad/internal/canvas/raster"
	"formwork-cad/internal/converter/geometry"
	"formwork-cad/internal/converter/models"
)

// ============================================================
// Preview Renderer
// ============================================================

const maxPreviewFrames = 10000

type PreviewRequest struct {
	Width     int
	Height    int
	Zoom      float64 // 0 fits the whole drawing
	PanX      float64
	PanY      float64
	ChunkSize int
}

type PreviewResult struct {
	Chunks int
	Frames int
	Stats  canvas.Stats
}

// RenderPreview pushes the set through the chunked canvas engine on a raster
// surface and writes the visible part as PNG.
func RenderPreview(w io.Writer, set *models.LayeredPrimitiveSet, req PreviewRequest) (*PreviewResult, error) {
	if req.Width <= 0 || req.Height <= 0 {
		return nil, fmt.Errorf("invalid preview size %dx%d", req.Width, req.Height)
	}

	shapes := geometry.NewShapeBuilder().Build(set)
	chunks := geometry.ChunkBySize(shapes, req.ChunkSize)

	surface := raster.NewSurface(req.Width, req.Height)
	defer surface.Close()

	engine := canvas.NewEngine(surface, canvas.NewLoop(nil), canvas.DefaultStyle(), canvas.DefaultVisibilityOptions())
	for _, c := range chunks {
		engine.AddChunk(c.ID, c.Shapes)
	}

	if req.Zoom > 0 {
		surface.SetViewport(req.Zoom, req.PanX, req.PanY)
	} else {
		surface.FitBounds(models.ShapesBounds(shapes))
	}

	frames := engine.Settle(maxPreviewFrames)
	if err := surface.EncodePNG(w); err != nil {
		return nil, fmt.Errorf("encode preview: %w", err)
	}

	return &PreviewResult{
		Chunks: len(chunks),
		Frames: frames,
		Stats:  engine.Stats(),
	}, nil
}
