package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
)

// CORS lets the browser viewer fetch drawings and previews. In production the
// origin list comes from allowed; development allows any origin.
func CORS(allowed []string) fiber.Handler {
	if len(allowed) == 0 {
		allowed = []string{"*"}
	}
	return cors.New(cors.Config{
		AllowOrigins:  allowed,
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		AllowMethods:  []string{fiber.MethodGet, fiber.MethodPost, fiber.MethodDelete},
		ExposeHeaders: []string{"X-Chunks-Total", "X-Shapes-Total", "X-Shapes-Rendered", "X-Shapes-Visible", "X-Render-Frames"},
	})
}
