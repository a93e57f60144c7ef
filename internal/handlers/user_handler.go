package handlers

import (
	"yamdb/internal/middleware"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// UserHandler serves the admin user collection and the caller's own profile.
type UserHandler struct {
	service  *services.UserService
	maxLimit int
	logger   logrus.FieldLogger
}

// NewUserHandler creates a new UserHandler.
func NewUserHandler(service *services.UserService, maxLimit int, logger logrus.FieldLogger) *UserHandler {
	return &UserHandler{
		service:  service,
		maxLimit: maxLimit,
		logger:   logger,
	}
}

// RegisterRoutes registers the user routes. The me routes must come before
// the username routes so that "me" is never looked up as a username.
func (h *UserHandler) RegisterRoutes(router fiber.Router) {
	userRoutes := router.Group("/users", middleware.AuthRequired())
	userRoutes.Get("/me", h.HandleGetMe)
	userRoutes.Patch("/me", h.HandleUpdateMe)

	userRoutes.Get("/", h.HandleListUsers)
	userRoutes.Post("/", h.HandleCreateUser)
	userRoutes.Get("/:username", h.HandleGetUser)
	userRoutes.Patch("/:username", h.HandleUpdateUser)
	userRoutes.Put("/:username", h.HandleUpdateUser)
	userRoutes.Delete("/:username", h.HandleDeleteUser)
}

// HandleGetMe returns the caller's profile.
func (h *UserHandler) HandleGetMe(c *fiber.Ctx) error {
	user, err := h.service.Me(c.UserContext(), middleware.Request(c))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// HandleUpdateMe edits the caller's profile. The role field is ignored.
func (h *UserHandler) HandleUpdateMe(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.service.UpdateMe(c.UserContext(), middleware.Request(c), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// HandleListUsers lists users, filtered by ?search= on the username.
func (h *UserHandler) HandleListUsers(c *fiber.Ctx) error {
	page, err := pageFrom(c, h.maxLimit)
	if err != nil {
		return err
	}
	users, count, err := h.service.ListUsers(c.UserContext(), middleware.Request(c), c.Query("search"), page)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return paginated(c, page, count, users)
}

func (h *UserHandler) HandleCreateUser(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.service.CreateUser(c.UserContext(), middleware.Request(c), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(user)
}

func (h *UserHandler) HandleGetUser(c *fiber.Ctx) error {
	user, err := h.service.GetUser(c.UserContext(), middleware.Request(c), c.Params("username"))
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

// HandleUpdateUser serves both PUT and PATCH.
func (h *UserHandler) HandleUpdateUser(c *fiber.Ctx) error {
	var in services.UserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.service.UpdateUser(c.UserContext(), middleware.Request(c), c.Params("username"), in, c.Method() == fiber.MethodPatch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(user)
}

func (h *UserHandler) HandleDeleteUser(c *fiber.Ctx) error {
	if err := h.service.DeleteUser(c.UserContext(), middleware.Request(c), c.Params("username")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
