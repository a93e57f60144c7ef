package handlers

import (
	"strconv"

	"yamdb/internal/middleware"
	"yamdb/internal/repositories"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// TitleHandler serves titles. Reads use nested category and genre objects,
// writes answer with slugs.
type TitleHandler struct {
	service  *services.TitleService
	maxLimit int
	logger   logrus.FieldLogger
}

// NewTitleHandler creates a new TitleHandler.
func NewTitleHandler(service *services.TitleService, maxLimit int, logger logrus.FieldLogger) *TitleHandler {
	return &TitleHandler{
		service:  service,
		maxLimit: maxLimit,
		logger:   logger,
	}
}

// RegisterRoutes registers the title routes.
func (h *TitleHandler) RegisterRoutes(router fiber.Router) {
	titleRoutes := router.Group("/titles")
	titleRoutes.Get("/", h.HandleListTitles)
	titleRoutes.Post("/", h.HandleCreateTitle)
	titleRoutes.Get("/:title_id<int>", h.HandleGetTitle)
	titleRoutes.Patch("/:title_id<int>", h.HandleUpdateTitle)
	titleRoutes.Put("/:title_id<int>", h.HandleUpdateTitle)
	titleRoutes.Delete("/:title_id<int>", h.HandleDeleteTitle)
}

// HandleListTitles lists titles filtered by category, genre, name and year.
func (h *TitleHandler) HandleListTitles(c *fiber.Ctx) error {
	page, err := pageFrom(c, h.maxLimit)
	if err != nil {
		return err
	}
	filter := repositories.TitleFilter{
		Category: c.Query("category"),
		Genre:    c.Query("genre"),
		Name:     c.Query("name"),
	}
	if raw := c.Query("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "year must be an integer.")
		}
		filter.Year = year
	}

	titles, count, err := h.service.ListTitles(c.UserContext(), filter, page)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	out := make([]titleRead, 0, len(titles))
	for i := range titles {
		out = append(out, newTitleRead(&titles[i]))
	}
	return paginated(c, page, count, out)
}

// HandleGetTitle retrieves a single title.
func (h *TitleHandler) HandleGetTitle(c *fiber.Ctx) error {
	id, err := idParam(c, "title_id")
	if err != nil {
		return err
	}
	title, err := h.service.GetTitle(c.UserContext(), id)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newTitleRead(title))
}

// HandleCreateTitle creates a title.
func (h *TitleHandler) HandleCreateTitle(c *fiber.Ctx) error {
	var in services.TitleInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	title, err := h.service.CreateTitle(c.UserContext(), middleware.Request(c), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newTitleWrite(title))
}

// HandleUpdateTitle serves both PUT and PATCH; only PATCH may omit fields.
func (h *TitleHandler) HandleUpdateTitle(c *fiber.Ctx) error {
	id, err := idParam(c, "title_id")
	if err != nil {
		return err
	}
	var in services.TitleInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	title, err := h.service.UpdateTitle(c.UserContext(), middleware.Request(c), id, in, c.Method() == fiber.MethodPatch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newTitleWrite(title))
}

// HandleDeleteTitle deletes a title.
func (h *TitleHandler) HandleDeleteTitle(c *fiber.Ctx) error {
	id, err := idParam(c, "title_id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteTitle(c.UserContext(), middleware.Request(c), id); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
