package handlers

import (
	"errors"

	"ictclub-portal/internal/core/services"
	"ictclub-portal/internal/pkg/query"
	"ictclub-portal/internal/pkg/response"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

// validate is the shared request validator
var validate = validator.New()

// queryError maps a list-parameter parse failure to a 400 response
func queryError(c *fiber.Ctx, err error) error {
	if errors.Is(err, query.ErrInvalidFilterValue) {
		return response.BadRequest(c, "Invalid filter value")
	}
	return response.BadRequest(c, "Unknown ordering field")
}

// requestMeta captures request attribution for the audit trail
func requestMeta(c *fiber.Ctx) services.RequestMeta {
	return services.RequestMeta{
		IPAddress: c.IP(),
		UserAgent: c.Get("User-Agent"),
	}
}
