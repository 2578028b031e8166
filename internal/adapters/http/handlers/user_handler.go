package handlers

import (
	"context"
	"errors"
	"strconv"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/core/services"
	"ictclub-portal/internal/pkg/pagination"
	"ictclub-portal/internal/pkg/query"
	"ictclub-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// UserHandler handles member endpoints
type UserHandler struct {
	userService *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(userService *services.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// List lists members
// @Summary List members
// @Description List members with search, filters, ordering, and pagination
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search name, email, or reg number"
// @Param ordering query string false "Order by field, prefix - for descending"
// @Param department query int false "Filter by department"
// @Param is_approved query bool false "Filter by approval"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page
// @Failure 400 {object} response.Response
// @Router /users [get]
func (h *UserHandler) List(c *fiber.Ctx) error {
	params, err := query.Parse(c, repositories.UserQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	users, count, err := h.userService.List(c.Context(), params)
	if err != nil {
		if errors.Is(err, query.ErrInvalidFilterValue) {
			return response.BadRequest(c, "Invalid filter value")
		}
		return response.InternalServerError(c, "Failed to list users")
	}

	results := make([]*models.UserResponse, len(users))
	for i, u := range users {
		results[i] = u.ToResponse()
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, results))
}

// GetByID gets a member by ID
// @Summary Get member
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /users/{id} [get]
func (h *UserHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	user, err := h.userService.GetByID(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	return response.Success(c, "", user.ToResponse())
}

// Approve approves a pending or rejected member
// @Summary Approve member
// @Description Move a member to approved. Replays succeed without effect.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id}/approve [post]
func (h *UserHandler) Approve(c *fiber.Ctx) error {
	return h.decide(c, h.userService.Approve, "Member approved")
}

// Reject rejects a pending or approved member
// @Summary Reject member
// @Description Move a member to rejected. Replays succeed without effect.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /users/{id}/reject [post]
func (h *UserHandler) Reject(c *fiber.Ctx) error {
	return h.decide(c, h.userService.Reject, "Member rejected")
}

func (h *UserHandler) decide(
	c *fiber.Ctx,
	fn func(ctx context.Context, targetID, adminID uint, meta services.RequestMeta) (*models.User, error),
	message string,
) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	adminID, _ := c.Locals("userID").(uint)

	user, err := fn(c.Context(), uint(id), adminID, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUserNotFound):
			return response.NotFound(c, "User not found")
		case errors.Is(err, domain.ErrConflict):
			return response.Conflict(c, "Approval state changed concurrently, retry")
		default:
			return response.InternalServerError(c, "Failed to update approval status")
		}
	}

	return response.Success(c, message, user.ToResponse())
}

// GetProfile returns the authenticated member's profile
// @Summary Get own profile
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/profile [get]
func (h *UserHandler) GetProfile(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	user, err := h.userService.GetByID(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load profile")
	}

	return response.Success(c, "", user.ToResponse())
}

// UpdateProfile applies the authenticated member's self edits
// @Summary Update own profile
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /users/profile [put]
func (h *UserHandler) UpdateProfile(c *fiber.Ctx) error {
	var input services.UpdateProfileInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid profile data")
	}

	userID, _ := c.Locals("userID").(uint)

	user, err := h.userService.UpdateProfile(c.Context(), userID, &input, requestMeta(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update profile")
	}

	return response.Success(c, "Profile updated", user.ToResponse())
}

// UploadPicture records the member's profile picture upload
// @Summary Record picture upload
// @Description Stamp the profile picture upload time, the file lives in external storage
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Router /users/profile/picture [post]
func (h *UserHandler) UploadPicture(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	user, err := h.userService.RecordPictureUpload(c.Context(), userID, requestMeta(c))
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to record picture upload")
	}

	return response.Success(c, "Picture upload recorded", user.ToResponse())
}

// GetActivity lists a member's audit trail
// @Summary Member activity
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} pagination.Page
// @Failure 404 {object} response.Response
// @Router /users/{id}/activity [get]
func (h *UserHandler) GetActivity(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	params, err := query.Parse(c, repositories.ActivityQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	entries, count, err := h.userService.GetActivity(c.Context(), uint(id), params)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to list activity")
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, entries))
}
