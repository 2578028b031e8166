package handlers

import (
	"errors"
	"strings"

	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/core/services"
	"ictclub-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register handles member registration
// @Summary Register new member
// @Description Create a member account in pending standing
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.RegisterInput true "Registration data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var input services.RegisterInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input.RegNumber = strings.TrimSpace(input.RegNumber)
	input.Email = strings.TrimSpace(input.Email)
	input.FullName = strings.TrimSpace(input.FullName)

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid registration data")
	}

	user, err := h.authService.Register(c.Context(), &input, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrRegNumberTaken):
			return response.Conflict(c, "Registration number already registered")
		case errors.Is(err, domain.ErrEmailTaken):
			return response.Conflict(c, "Email already registered")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid registration data")
		default:
			return response.InternalServerError(c, "Failed to register")
		}
	}

	return response.Created(c, "Registered, awaiting approval", user.ToResponse())
}

// Login handles member login
// @Summary Login
// @Description Authenticate a member and issue an access token
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body services.LoginInput true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var input services.LoginInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	input.RegNumber = strings.TrimSpace(input.RegNumber)

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Registration number and password are required")
	}

	result, err := h.authService.Login(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid registration number or password")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    result.AccessToken,
		HTTPOnly: true,
		SameSite: "Strict",
		Path:     "/",
	})

	return response.Success(c, "Logged in", result)
}

// Me returns the authenticated member
// @Summary Current member
// @Description Return the authenticated member's own record
// @Tags Auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	userID, _ := c.Locals("userID").(uint)

	user, err := h.authService.GetMe(c.Context(), userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to load user")
	}

	return response.Success(c, "", user.ToResponse())
}
