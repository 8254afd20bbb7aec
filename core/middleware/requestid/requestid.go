// Package requestid attaches a unique request id to every request so
// log lines across the pipeline can be correlated.
package requestid

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Header carries the request id back to the caller.
const Header = "X-Request-ID"

// New creates the request-id middleware. An incoming X-Request-ID is
// honored; otherwise a fresh uuid is generated.
func New() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(Header)
		if rid == "" {
			rid = uuid.NewString()
		}
		c.Locals("request_id", rid)
		c.Set(Header, rid)
		return c.Next()
	}
}
