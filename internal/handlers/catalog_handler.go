package handlers

import (
	"yamdb/internal/middleware"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// CatalogHandler serves the category and genre dictionaries.
type CatalogHandler struct {
	service  *services.CatalogService
	maxLimit int
	logger   logrus.FieldLogger
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(service *services.CatalogService, maxLimit int, logger logrus.FieldLogger) *CatalogHandler {
	return &CatalogHandler{
		service:  service,
		maxLimit: maxLimit,
		logger:   logger,
	}
}

// RegisterRoutes registers the category and genre routes.
func (h *CatalogHandler) RegisterRoutes(router fiber.Router) {
	categoryRoutes := router.Group("/categories")
	categoryRoutes.Get("/", h.HandleListCategories)
	categoryRoutes.Post("/", h.HandleCreateCategory)
	categoryRoutes.Delete("/:slug", h.HandleDeleteCategory)

	genreRoutes := router.Group("/genres")
	genreRoutes.Get("/", h.HandleListGenres)
	genreRoutes.Post("/", h.HandleCreateGenre)
	genreRoutes.Delete("/:slug", h.HandleDeleteGenre)
}

// HandleListCategories lists categories, filtered by ?search= on the name.
func (h *CatalogHandler) HandleListCategories(c *fiber.Ctx) error {
	page, err := pageFrom(c, h.maxLimit)
	if err != nil {
		return err
	}
	items, count, err := h.service.ListCategories(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return paginated(c, page, count, items)
}

// HandleCreateCategory creates a category.
func (h *CatalogHandler) HandleCreateCategory(c *fiber.Ctx) error {
	var in services.CatalogInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	category, err := h.service.CreateCategory(c.UserContext(), middleware.Request(c), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(category)
}

// HandleDeleteCategory deletes a category by slug.
func (h *CatalogHandler) HandleDeleteCategory(c *fiber.Ctx) error {
	if err := h.service.DeleteCategory(c.UserContext(), middleware.Request(c), c.Params("slug")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListGenres lists genres, filtered by ?search= on the name.
func (h *CatalogHandler) HandleListGenres(c *fiber.Ctx) error {
	page, err := pageFrom(c, h.maxLimit)
	if err != nil {
		return err
	}
	items, count, err := h.service.ListGenres(c.UserContext(), c.Query("search"), page)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return paginated(c, page, count, items)
}

// HandleCreateGenre creates a genre.
func (h *CatalogHandler) HandleCreateGenre(c *fiber.Ctx) error {
	var in services.CatalogInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	genre, err := h.service.CreateGenre(c.UserContext(), middleware.Request(c), in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(genre)
}

// HandleDeleteGenre deletes a genre by slug.
func (h *CatalogHandler) HandleDeleteGenre(c *fiber.Ctx) error {
	if err := h.service.DeleteGenre(c.UserContext(), middleware.Request(c), c.Params("slug")); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
