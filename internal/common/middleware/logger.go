package middleware

import (
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/logger"
)

// ============================================================
// Logger Middleware
// ============================================================

// accessLogFormat ends with the response size and, for previews, the number
// of chunks the drawing was split into.
const accessLogFormat = "[${time}] ${status} - ${latency} ${method} ${path} | ${bytesSent}B chunks=${respHeader:X-Chunks-Total}\n"

// Logger returns the request logger used by the converter service.
func Logger() fiber.Handler {
	return logger.New(logger.Config{
		Format:     accessLogFormat,
		TimeFormat: "15:04:05",
		TimeZone:   "Local",
	})
}
