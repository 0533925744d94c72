package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
)

const actorLocalsKey = "auth.actor_id"

// ActorResolver parses an optional Bearer token and stores the actor id in
// request locals. Requests without a token, or with a bad one, pass through
// unauthenticated; handlers decide whether an actor is required.
func ActorResolver(manager *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		if header == "" {
			return c.Next()
		}
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok {
			return c.Next()
		}
		claims, err := manager.Parse(strings.TrimSpace(token))
		if err != nil {
			return c.Next()
		}
		c.Locals(actorLocalsKey, claims.UserID)
		return c.Next()
	}
}

// ActorFromContext returns the resolved actor id, if any.
func ActorFromContext(c *fiber.Ctx) (int64, bool) {
	id, ok := c.Locals(actorLocalsKey).(int64)
	return id, ok
}
