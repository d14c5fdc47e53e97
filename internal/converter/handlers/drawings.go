package handlers

import (
	"bytes"
	"errors"
	"log"
	"strconv"

	"formwork-cad/internal/converter/repository"
	"formwork-cad/internal/converter/service"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Drawing Handler
// ============================================================

const (
	defaultPreviewSize = 1024
	maxPreviewSize     = 4096
)

type DrawingHandler struct {
	drawings  *service.DrawingService
	chunkSize int
}

func NewDrawingHandler(drawings *service.DrawingService, chunkSize int) *DrawingHandler {
	return &DrawingHandler{drawings: drawings, chunkSize: chunkSize}
}

// Upload converts a DXF and stores the result.
func (h *DrawingHandler) Upload(c fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "file required"})
	}

	data, err := readUpload(fileHeader)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to read file"})
	}

	opts := optionsFromQuery(c, h.drawings.Options())
	drawing, err := h.drawings.Import(c.Context(), fileHeader.Filename, data, opts)
	if err != nil {
		log.Printf("[DRAWINGS] import error: %v", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{"error": err.Error()})
	}

	log.Printf("[DRAWINGS] stored %s (%s)", drawing.ID, drawing.Name)
	drawing.Set = nil
	return c.Status(fiber.StatusCreated).JSON(drawing)
}

// List returns stored drawings without geometry.
func (h *DrawingHandler) List(c fiber.Ctx) error {
	list, err := h.drawings.List(c.Context())
	if err != nil {
		log.Printf("[DRAWINGS] list error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "failed to list drawings"})
	}
	return c.JSON(list)
}

// Get returns one drawing with its primitive set.
func (h *DrawingHandler) Get(c fiber.Ctx) error {
	drawing, err := h.drawings.Get(c.Context(), c.Params("id"))
	if err != nil {
		return lookupError(err)
	}
	return c.JSON(drawing)
}

func (h *DrawingHandler) Delete(c fiber.Ctx) error {
	if err := h.drawings.Delete(c.Context(), c.Params("id")); err != nil {
		return lookupError(err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// SVG renders a stored drawing as SVG.
func (h *DrawingHandler) SVG(c fiber.Ctx) error {
	drawing, err := h.drawings.Get(c.Context(), c.Params("id"))
	if err != nil {
		return lookupError(err)
	}
	return sendSVG(c, drawing.Set)
}

// Preview renders the viewport of a stored drawing through the chunked canvas
// engine and returns a PNG. Chunk statistics travel in X- headers.
func (h *DrawingHandler) Preview(c fiber.Ctx) error {
	drawing, err := h.drawings.Get(c.Context(), c.Params("id"))
	if err != nil {
		return lookupError(err)
	}

	req := service.PreviewRequest{
		Width:     clampSize(queryInt(c, "width", defaultPreviewSize)),
		Height:    clampSize(queryInt(c, "height", defaultPreviewSize)),
		Zoom:      queryFloat(c, "zoom", 0),
		PanX:      queryFloat(c, "panX", 0),
		PanY:      queryFloat(c, "panY", 0),
		ChunkSize: h.chunkSize,
	}

	var buf bytes.Buffer
	result, err := service.RenderPreview(&buf, drawing.Set, req)
	if err != nil {
		log.Printf("[PREVIEW] render %s: %v", drawing.ID, err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "preview failed"})
	}

	c.Set("Content-Type", "image/png")
	c.Set("X-Chunks-Total", strconv.Itoa(result.Chunks))
	c.Set("X-Shapes-Total", strconv.Itoa(result.Stats.TotalShapes))
	c.Set("X-Shapes-Rendered", strconv.Itoa(result.Stats.RenderedShapes))
	c.Set("X-Shapes-Visible", strconv.Itoa(result.Stats.VisibleShapes))
	c.Set("X-Render-Frames", strconv.Itoa(result.Frames))
	return c.Send(buf.Bytes())
}

// ============================================================
// Helpers
// ============================================================

func lookupError(err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return fiber.NewError(fiber.StatusNotFound, "drawing not found")
	}
	log.Printf("[DRAWINGS] lookup error: %v", err)
	return fiber.NewError(fiber.StatusInternalServerError, "drawing lookup failed")
}

func clampSize(v int) int {
	if v <= 0 {
		return defaultPreviewSize
	}
	return min(v, maxPreviewSize)
}
