package handlers

import (
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// AuthHandler handles HTTP requests for signup and token exchange.
type AuthHandler struct {
	authService *services.AuthService
	logger      logrus.FieldLogger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, logger logrus.FieldLogger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		logger:      logger,
	}
}

// RegisterRoutes registers the authentication routes.
func (h *AuthHandler) RegisterRoutes(router fiber.Router) {
	authRoutes := router.Group("/auth")
	authRoutes.Post("/signup", h.HandleSignup)
	authRoutes.Get("/signup", h.HandleResend)
	authRoutes.Post("/token", h.HandleToken)
}

// HandleSignup registers the user if needed and emails a confirmation code.
func (h *AuthHandler) HandleSignup(c *fiber.Ctx) error {
	var req services.SignupRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(services.SignupRequest{Username: user.Username, Email: user.Email})
}

// HandleResend emails a fresh code to an existing user. The username comes
// from the query string or, for clients that send one, a JSON body.
func (h *AuthHandler) HandleResend(c *fiber.Ctx) error {
	req := services.SignupRequest{Username: c.Query("username")}
	if req.Username == "" && len(c.Body()) > 0 {
		if err := parseBody(c, &req); err != nil {
			return err
		}
	}
	if req.Username == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"username": []string{"This field is required."},
		})
	}

	user, err := h.authService.Resend(c.UserContext(), req.Username)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(services.SignupRequest{Username: user.Username, Email: user.Email})
}

// HandleToken exchanges a confirmation code for an access token.
func (h *AuthHandler) HandleToken(c *fiber.Ctx) error {
	var req services.TokenRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}

	token, err := h.authService.ObtainToken(c.UserContext(), req)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(fiber.Map{"access": token})
}
