package dashboard

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Feature implements the loader.Feature interface.
type Feature struct {
	updater *Updater
	handler *Handler
}

// NewFeature creates a new Dashboard feature.
func NewFeature(reader Reader, store Applier, logger *zap.Logger) *Feature {
	u := NewUpdater(reader, store, logger)
	h := NewHandler(u)
	return &Feature{updater: u, handler: h}
}

// Name returns the name of the feature.
func (f *Feature) Name() string {
	return "dashboard"
}

// IsEnabled checks if the feature is enabled.
func (f *Feature) IsEnabled() bool {
	return true
}

// Load registers the feature's routes.
func (f *Feature) Load(app fiber.Router) error {
	f.handler.RegisterRoutes(app)
	return nil
}
