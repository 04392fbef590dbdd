package middleware

import (
	"github.com/gofiber/fiber/v2"

	"marblefiles/internal/config"
	"marblefiles/internal/model"
)

// IdentityLocalKey is the key used to store the caller identity in Fiber's context locals.
const IdentityLocalKey = "identity"

// Identity extracts the verified caller from the trusted headers the access
// proxy injects after authenticating the request. The service itself never
// verifies credentials; if the identity header is absent the request is
// rejected before any handler runs.
func Identity(cfg config.AuthConfig) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Get(cfg.IdentityHeader)
		if id == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "authentication required")
		}

		tenant := c.Get(cfg.TenantHeader)
		if tenant == "" {
			tenant = cfg.DefaultTenant
		}

		c.Locals(IdentityLocalKey, model.Identity{
			ID:          id,
			DisplayName: c.Get(cfg.NameHeader),
			Tenant:      tenant,
		})

		return c.Next()
	}
}

// IdentityFromCtx returns the identity stored by the Identity middleware.
func IdentityFromCtx(c *fiber.Ctx) (model.Identity, bool) {
	identity, ok := c.Locals(IdentityLocalKey).(model.Identity)
	return identity, ok
}
