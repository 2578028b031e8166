package handlers

import (
	"errors"
	"strconv"

	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/core/services"
	"ictclub-portal/internal/pkg/pagination"
	"ictclub-portal/internal/pkg/query"
	"ictclub-portal/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AnnouncementHandler handles announcement endpoints
type AnnouncementHandler struct {
	contentService *services.ContentService
}

// NewAnnouncementHandler creates a new announcement handler
func NewAnnouncementHandler(contentService *services.ContentService) *AnnouncementHandler {
	return &AnnouncementHandler{contentService: contentService}
}

// List lists announcements
// @Summary List announcements
// @Tags Announcements
// @Produce json
// @Param search query string false "Search title or content"
// @Param department query int false "Filter by department"
// @Param announcement_type query string false "Filter by type"
// @Param is_published query bool false "Filter by published"
// @Param ordering query string false "Order by field, prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page
// @Failure 400 {object} response.Response
// @Router /announcements [get]
func (h *AnnouncementHandler) List(c *fiber.Ctx) error {
	params, err := query.Parse(c, repositories.AnnouncementQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	announcements, count, err := h.contentService.ListAnnouncements(c.Context(), params)
	if err != nil {
		if errors.Is(err, query.ErrInvalidFilterValue) {
			return response.BadRequest(c, "Invalid filter value")
		}
		return response.InternalServerError(c, "Failed to list announcements")
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, announcements))
}

// Recent lists the latest published announcements
// @Summary Recent announcements
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Response
// @Router /announcements/recent [get]
func (h *AnnouncementHandler) Recent(c *fiber.Ctx) error {
	announcements, err := h.contentService.ListRecentAnnouncements(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list recent announcements")
	}

	return response.Success(c, "", announcements)
}

// Urgent lists published urgent announcements
// @Summary Urgent announcements
// @Tags Announcements
// @Produce json
// @Success 200 {object} response.Response
// @Router /announcements/urgent [get]
func (h *AnnouncementHandler) Urgent(c *fiber.Ctx) error {
	announcements, err := h.contentService.ListUrgentAnnouncements(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list urgent announcements")
	}

	return response.Success(c, "", announcements)
}

// GetByID gets an announcement
// @Summary Get announcement
// @Tags Announcements
// @Produce json
// @Param id path int true "Announcement ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /announcements/{id} [get]
func (h *AnnouncementHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid announcement ID")
	}

	announcement, err := h.contentService.GetAnnouncement(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Announcement not found")
		}
		return response.InternalServerError(c, "Failed to load announcement")
	}

	return response.Success(c, "", announcement)
}

// Create creates an announcement
// @Summary Create announcement
// @Tags Announcements
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.AnnouncementInput true "Announcement data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /announcements [post]
func (h *AnnouncementHandler) Create(c *fiber.Ctx) error {
	var input services.AnnouncementInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid announcement data")
	}

	announcement, err := h.contentService.CreateAnnouncement(c.Context(), &input)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			return response.BadRequest(c, "Unknown announcement type")
		}
		return response.InternalServerError(c, "Failed to create announcement")
	}

	return response.Created(c, "Announcement created", announcement)
}
