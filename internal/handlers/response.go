package handlers

import (
	"errors"
	"net/url"
	"strconv"

	"yamdb/internal/repositories"
	"yamdb/internal/services"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// respondError renders a service error with the status its class maps to.
func respondError(c *fiber.Ctx, logger logrus.FieldLogger, err error) error {
	var verr *services.ValidationError
	switch {
	case errors.As(err, &verr):
		return c.Status(fiber.StatusBadRequest).JSON(verr.Fields)
	case errors.Is(err, services.ErrInvalidCredentials):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"confirmation_code": []string{"Invalid confirmation code."},
		})
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"detail": "Not found."})
	case errors.Is(err, services.ErrUnauthenticated):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"detail": services.ErrUnauthenticated.Error()})
	case errors.Is(err, services.ErrPermissionDenied):
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"detail": services.ErrPermissionDenied.Error()})
	}

	logger.WithError(err).WithFields(logrus.Fields{
		"method": c.Method(),
		"path":   c.Path(),
	}).Error("Request failed")
	detail := "Internal server error."
	if errors.Is(err, services.ErrMailDelivery) {
		detail = "Could not send the confirmation email."
	}
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"detail": detail})
}

// parseBody decodes the request body into v.
func parseBody(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body: "+err.Error())
	}
	return nil
}

// ErrorHandler renders errors that escaped the handlers, including the
// fiber errors raised for bad paths and bodies.
func ErrorHandler(logger logrus.FieldLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			return c.Status(fe.Code).JSON(fiber.Map{"detail": fe.Message})
		}
		return respondError(c, logger, err)
	}
}

// idParam reads a positive numeric path parameter.
func idParam(c *fiber.Ctx, name string) (uint, error) {
	id, err := c.ParamsInt(name)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusNotFound, "Not found.")
	}
	return uint(id), nil
}

// listResponse is the limit/offset pagination envelope.
type listResponse struct {
	Count    int64       `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// pageFrom reads limit and offset from the query string.
func pageFrom(c *fiber.Ctx, maxLimit int) (repositories.Page, error) {
	var page repositories.Page
	for _, p := range []struct {
		name string
		dst  *int
	}{{"limit", &page.Limit}, {"offset", &page.Offset}} {
		raw := c.Query(p.name)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return page, fiber.NewError(fiber.StatusBadRequest, p.name+" must be a non-negative integer.")
		}
		*p.dst = n
	}
	if page.Limit > maxLimit {
		page.Limit = maxLimit
	}
	return page, nil
}

func paginated(c *fiber.Ctx, page repositories.Page, count int64, results interface{}) error {
	resp := listResponse{Count: count, Results: results}
	if page.Limit > 0 {
		if int64(page.Offset+page.Limit) < count {
			next := pageURL(c, page.Limit, page.Offset+page.Limit)
			resp.Next = &next
		}
		if page.Offset > 0 {
			prev := page.Offset - page.Limit
			if prev < 0 {
				prev = 0
			}
			previous := pageURL(c, page.Limit, prev)
			resp.Previous = &previous
		}
	}
	return c.JSON(resp)
}

func pageURL(c *fiber.Ctx, limit, offset int) string {
	q := url.Values{}
	for k, v := range c.Queries() {
		q.Set(k, v)
	}
	q.Set("limit", strconv.Itoa(limit))
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	} else {
		q.Del("offset")
	}
	return c.BaseURL() + c.Path() + "?" + q.Encode()
}
