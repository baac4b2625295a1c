package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/tienda-pos/pkg/logger"
)

// RequestLogger registra cada petición en el logger de la aplicación.
func RequestLogger(log *logger.Logger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()
		if chainErr != nil {
			// Deja que el ErrorHandler fije el status antes de registrar
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}
		status := c.Response().StatusCode()

		reqLog := log.ForUser(GetUserID(c), GetRole(c))
		evt := reqLog.Info()
		switch {
		case status >= fiber.StatusInternalServerError:
			evt = reqLog.Error()
		case status >= fiber.StatusBadRequest:
			evt = reqLog.Warn()
		}
		evt.Str("method", c.Method()).
			Str("path", c.Path()).
			Int("status", status).
			Dur("latency", time.Since(start)).
			Msg("http")
		return nil
	}
}
