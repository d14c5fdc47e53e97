package handlers

import (
	"bytes"
	"io"
	"log"
	"mime/multipart"
	"strconv"

	"formwork-cad/internal/converter/mapper"
	"formwork-cad/internal/converter/parser"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Convert Handler
// ============================================================

type ConvertHandler struct {
	defaults mapper.Options
}

func NewConvertHandler(defaults mapper.Options) *ConvertHandler {
	return &ConvertHandler{defaults: defaults}
}

// ConvertDXF converts an uploaded DXF into a layered primitive set.
func (h *ConvertHandler) ConvertDXF(c fiber.Ctx) error {
	log.Printf("[CONVERTER] Received request")
	log.Printf("[CONVERTER] Content-Type: %s", c.Get("Content-Type"))
	log.Printf("[CONVERTER] Content-Length: %d", len(c.Body()))

	file, err := c.FormFile("file")
	if err != nil {
		log.Printf("[CONVERTER] FormFile error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "file required in multipart/form-data",
		})
	}

	log.Printf("[CONVERTER] File received: %s, size: %d", file.Filename, file.Size)

	data, err := readUpload(file)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "failed to read file",
		})
	}

	opts := optionsFromQuery(c, h.defaults)
	converter := mapper.New(opts)
	set, err := converter.Convert(bytes.NewReader(data))
	if err != nil {
		log.Printf("[CONVERTER] Conversion error: %v", err)
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	log.Printf("[CONVERTER] Conversion successful: %d/%d entities, %d points, limited=%v",
		set.Metadata.UniqueEntities, set.Metadata.TotalEntities, set.Metadata.TotalPoints, set.Metadata.WasLimited)
	return c.JSON(set)
}

// ConvertEntities runs the pipeline over entities already parsed elsewhere.
func (h *ConvertHandler) ConvertEntities(c fiber.Ctx) error {
	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body required",
		})
	}

	raw, err := parser.ParseEntitiesJSON(bytes.NewReader(c.Body()))
	if err != nil {
		log.Printf("[CONVERTER] Decode error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON payload",
		})
	}

	set := mapper.New(optionsFromQuery(c, h.defaults)).Process(raw)
	return c.JSON(set)
}

// ============================================================
// Helpers
// ============================================================

func readUpload(file *multipart.FileHeader) ([]byte, error) {
	f, err := file.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}

// optionsFromQuery overrides defaults with ?canvasHeight= and ?budget=.
func optionsFromQuery(c fiber.Ctx, defaults mapper.Options) mapper.Options {
	opts := defaults
	if v, err := strconv.ParseFloat(c.Query("canvasHeight"), 64); err == nil && v > 0 {
		opts.CanvasHeight = v
	}
	if v, err := strconv.Atoi(c.Query("budget")); err == nil && v > 0 {
		opts.PointBudget = v
	}
	return opts
}

func queryFloat(c fiber.Ctx, key string, def float64) float64 {
	if v, err := strconv.ParseFloat(c.Query(key), 64); err == nil {
		return v
	}
	return def
}

func queryInt(c fiber.Ctx, key string, def int) int {
	if v, err := strconv.Atoi(c.Query(key)); err == nil {
		return v
	}
	return def
}
