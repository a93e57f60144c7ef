package handlers

import (
	"yamdb/internal/middleware"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ReviewHandler serves reviews of a title and comments on a review.
type ReviewHandler struct {
	service  *services.ReviewService
	maxLimit int
	logger   logrus.FieldLogger
}

// NewReviewHandler creates a new ReviewHandler.
func NewReviewHandler(service *services.ReviewService, maxLimit int, logger logrus.FieldLogger) *ReviewHandler {
	return &ReviewHandler{
		service:  service,
		maxLimit: maxLimit,
		logger:   logger,
	}
}

// RegisterRoutes registers the nested review and comment routes.
func (h *ReviewHandler) RegisterRoutes(router fiber.Router) {
	reviewRoutes := router.Group("/titles/:title_id<int>/reviews")
	reviewRoutes.Get("/", h.HandleListReviews)
	reviewRoutes.Post("/", h.HandleCreateReview)
	reviewRoutes.Get("/:review_id<int>", h.HandleGetReview)
	reviewRoutes.Patch("/:review_id<int>", h.HandleUpdateReview)
	reviewRoutes.Put("/:review_id<int>", h.HandleUpdateReview)
	reviewRoutes.Delete("/:review_id<int>", h.HandleDeleteReview)

	commentRoutes := reviewRoutes.Group("/:review_id<int>/comments")
	commentRoutes.Get("/", h.HandleListComments)
	commentRoutes.Post("/", h.HandleCreateComment)
	commentRoutes.Get("/:comment_id<int>", h.HandleGetComment)
	commentRoutes.Patch("/:comment_id<int>", h.HandleUpdateComment)
	commentRoutes.Put("/:comment_id<int>", h.HandleUpdateComment)
	commentRoutes.Delete("/:comment_id<int>", h.HandleDeleteComment)
}

// ids reads the numeric path parameters in order.
func ids(c *fiber.Ctx, names ...string) ([]uint, error) {
	out := make([]uint, 0, len(names))
	for _, name := range names {
		id, err := idParam(c, name)
		if err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, nil
}

// HandleListReviews lists the reviews of a title.
func (h *ReviewHandler) HandleListReviews(c *fiber.Ctx) error {
	p, err := ids(c, "title_id")
	if err != nil {
		return err
	}
	page, err := pageFrom(c, h.maxLimit)
	if err != nil {
		return err
	}
	reviews, count, err := h.service.ListReviews(c.UserContext(), p[0], page)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	out := make([]reviewOut, 0, len(reviews))
	for i := range reviews {
		out = append(out, newReviewOut(&reviews[i]))
	}
	return paginated(c, page, count, out)
}

// HandleGetReview retrieves a review.
func (h *ReviewHandler) HandleGetReview(c *fiber.Ctx) error {
	p, err := ids(c, "title_id", "review_id")
	if err != nil {
		return err
	}
	review, err := h.service.GetReview(c.UserContext(), p[0], p[1])
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newReviewOut(review))
}

// HandleCreateReview posts a review as the caller.
func (h *ReviewHandler) HandleCreateReview(c *fiber.Ctx) error {
	p, err := ids(c, "title_id")
	if err != nil {
		return err
	}
	var in services.ReviewInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	review, err := h.service.CreateReview(c.UserContext(), middleware.Request(c), p[0], in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newReviewOut(review))
}

// HandleUpdateReview serves both PUT and PATCH.
func (h *ReviewHandler) HandleUpdateReview(c *fiber.Ctx) error {
	p, err := ids(c, "title_id", "review_id")
	if err != nil {
		return err
	}
	var in services.ReviewInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	review, err := h.service.UpdateReview(c.UserContext(), middleware.Request(c), p[0], p[1], in, c.Method() == fiber.MethodPatch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newReviewOut(review))
}

// HandleDeleteReview deletes a review.
func (h *ReviewHandler) HandleDeleteReview(c *fiber.Ctx) error {
	p, err := ids(c, "title_id", "review_id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteReview(c.UserContext(), middleware.Request(c), p[0], p[1]); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// HandleListComments lists the comments of a review.
func (h *ReviewHandler) HandleListComments(c *fiber.Ctx) error {
	p, err := ids(c, "title_id", "review_id")
	if err != nil {
		return err
	}
	page, err := pageFrom(c, h.maxLimit)
	if err != nil {
		return err
	}
	comments, count, err := h.service.ListComments(c.UserContext(), p[0], p[1], page)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	out := make([]commentOut, 0, len(comments))
	for i := range comments {
		out = append(out, newCommentOut(&comments[i]))
	}
	return paginated(c, page, count, out)
}

// HandleGetComment retrieves a comment.
func (h *ReviewHandler) HandleGetComment(c *fiber.Ctx) error {
	p, err := ids(c, "title_id", "review_id", "comment_id")
	if err != nil {
		return err
	}
	comment, err := h.service.GetComment(c.UserContext(), p[0], p[1], p[2])
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCommentOut(comment))
}

// HandleCreateComment posts a comment as the caller.
func (h *ReviewHandler) HandleCreateComment(c *fiber.Ctx) error {
	p, err := ids(c, "title_id", "review_id")
	if err != nil {
		return err
	}
	var in services.CommentInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	comment, err := h.service.CreateComment(c.UserContext(), middleware.Request(c), p[0], p[1], in)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.Status(fiber.StatusCreated).JSON(newCommentOut(comment))
}

// HandleUpdateComment serves both PUT and PATCH.
func (h *ReviewHandler) HandleUpdateComment(c *fiber.Ctx) error {
	p, err := ids(c, "title_id", "review_id", "comment_id")
	if err != nil {
		return err
	}
	var in services.CommentInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	comment, err := h.service.UpdateComment(c.UserContext(), middleware.Request(c), p[0], p[1], p[2], in, c.Method() == fiber.MethodPatch)
	if err != nil {
		return respondError(c, h.logger, err)
	}
	return c.JSON(newCommentOut(comment))
}

// HandleDeleteComment deletes a comment.
func (h *ReviewHandler) HandleDeleteComment(c *fiber.Ctx) error {
	p, err := ids(c, "title_id", "review_id", "comment_id")
	if err != nil {
		return err
	}
	if err := h.service.DeleteComment(c.UserContext(), middleware.Request(c), p[0], p[1], p[2]); err != nil {
		return respondError(c, h.logger, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
