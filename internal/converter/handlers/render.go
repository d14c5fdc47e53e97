package handlers

import (
	"encoding/json"
	"log"

	"formwork-cad/internal/converter/mapper"
	"formwork-cad/internal/converter/models"

	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Render Handler
// ============================================================

// RenderSVG turns a layered primitive set back into an SVG preview.
func RenderSVG(c fiber.Ctx) error {
	log.Printf("[RENDER] Received request")
	log.Printf("[RENDER] Content-Length: %d", len(c.Body()))

	if len(c.Body()) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "body required",
		})
	}

	var set models.LayeredPrimitiveSet
	if err := json.Unmarshal(c.Body(), &set); err != nil {
		log.Printf("[RENDER] Decode error: %v", err)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid JSON payload",
		})
	}

	return sendSVG(c, &set)
}

func sendSVG(c fiber.Ctx, set *models.LayeredPrimitiveSet) error {
	svg, err := mapper.NewRenderer().Render(set)
	if err != nil {
		log.Printf("[RENDER] Render error: %v", err)
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}
