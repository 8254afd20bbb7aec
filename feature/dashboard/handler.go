package dashboard

import (
	"data-curator/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for the dashboard.
type Handler struct {
	updater *Updater
}

// NewHandler creates a new HTTP handler.
func NewHandler(updater *Updater) *Handler {
	return &Handler{updater: updater}
}

// RegisterRoutes registers the dashboard routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/dashboard")
	group.Get("/summary", h.HandleSummary)
	group.Post("/refresh", h.HandleRefresh)
}

// HandleSummary returns the current dashboard tables.
func (h *Handler) HandleSummary(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.updater.logger, c)

	summary, err := h.updater.Summarize(c.Context())
	if err != nil {
		l.Error("Dashboard summary failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(summary)
}

// HandleRefresh recomputes the dashboard tables from the clinical store.
func (h *Handler) HandleRefresh(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.updater.logger, c)

	if err := h.updater.Refresh(c.Context()); err != nil {
		l.Error("Dashboard refresh failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(fiber.Map{"status": "refreshed"})
}
