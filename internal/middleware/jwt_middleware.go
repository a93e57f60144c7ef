package middleware

import (
	"strings"

	"yamdb/internal/models"
	"yamdb/internal/permissions"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const userKey = "user"

// Authenticate resolves the bearer token, if any, into the calling user.
// Requests without an Authorization header continue anonymously; a header
// that does not carry a valid token is rejected.
func Authenticate(authService *services.AuthService, logger logrus.FieldLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return c.Next()
		}

		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if !(len(parts) == 2 && parts[0] == "Bearer") {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Authorization header format must be 'Bearer <token>'",
			})
		}

		user, err := authService.Authenticate(c.UserContext(), parts[1])
		if err != nil {
			logger.WithError(err).Debug("JWT validation failed")
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": "Invalid or expired token",
			})
		}

		c.Locals(userKey, user)
		return c.Next()
	}
}

// AuthRequired rejects requests that Authenticate left anonymous.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if CurrentUser(c) == nil {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"detail": services.ErrUnauthenticated.Error(),
			})
		}
		return c.Next()
	}
}

// CurrentUser returns the authenticated caller or nil.
func CurrentUser(c *fiber.Ctx) *models.User {
	user, _ := c.Locals(userKey).(*models.User)
	return user
}

// Request describes the current call for permission checks.
func Request(c *fiber.Ctx) permissions.Request {
	return permissions.Request{Caller: CurrentUser(c), Method: c.Method()}
}
