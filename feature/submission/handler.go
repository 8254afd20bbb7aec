package submission

import (
	"errors"

	"data-curator/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for submissions.
type Handler struct {
	service *Service
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// RegisterRoutes registers the submission routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/submissions")
	group.Post("/:center", h.HandleProcess)
	group.Get("/:center/errors", h.HandleCenterErrors)
}

// HandleProcess validates and processes one submitted file. The filename
// query parameter routes the file to its type; a non-empty request body
// is uploaded to the bucket before processing.
func (h *Handler) HandleProcess(c *fiber.Ctx) error {
	center := c.Params("center")
	filename := c.Query("filename")
	l := logger.WithRequestID(h.service.logger, c)

	if filename == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "filename query parameter is required",
		})
	}

	if body := c.Body(); len(body) > 0 {
		if err := h.service.Upload(c.Context(), center, filename, body); err != nil {
			return h.fail(c, l, err)
		}
	}

	result, err := h.service.Process(c.Context(), center, filename)
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(result)
}

// HandleCenterErrors returns a center's outstanding validation errors.
func (h *Handler) HandleCenterErrors(c *fiber.Ctx) error {
	l := logger.WithRequestID(h.service.logger, c)

	report, err := h.service.CenterErrorReport(c.Context(), c.Params("center"))
	if err != nil {
		return h.fail(c, l, err)
	}
	return c.JSON(fiber.Map{
		"center": c.Params("center"),
		"report": report,
	})
}

func (h *Handler) fail(c *fiber.Ctx, l *zap.Logger, err error) error {
	if errors.Is(err, ErrUnknownCenter) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	l.Error("Submission request failed", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
}
