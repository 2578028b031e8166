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

// EventHandler handles event endpoints
type EventHandler struct {
	contentService *services.ContentService
}

// NewEventHandler creates a new event handler
func NewEventHandler(contentService *services.ContentService) *EventHandler {
	return &EventHandler{contentService: contentService}
}

// List lists events
// @Summary List events
// @Tags Events
// @Produce json
// @Param search query string false "Search title, description, or location"
// @Param department query int false "Filter by department"
// @Param ordering query string false "Order by field, prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page
// @Failure 400 {object} response.Response
// @Router /events [get]
func (h *EventHandler) List(c *fiber.Ctx) error {
	params, err := query.Parse(c, repositories.EventQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	events, count, err := h.contentService.ListEvents(c.Context(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list events")
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, events))
}

// Upcoming lists events that have not happened yet
// @Summary Upcoming events
// @Tags Events
// @Produce json
// @Success 200 {object} response.Response
// @Router /events/upcoming [get]
func (h *EventHandler) Upcoming(c *fiber.Ctx) error {
	events, err := h.contentService.ListUpcomingEvents(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list upcoming events")
	}

	return response.Success(c, "", events)
}

// GetByID gets an event
// @Summary Get event
// @Tags Events
// @Produce json
// @Param id path int true "Event ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /events/{id} [get]
func (h *EventHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid event ID")
	}

	event, err := h.contentService.GetEvent(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Event not found")
		}
		return response.InternalServerError(c, "Failed to load event")
	}

	return response.Success(c, "", event)
}

// Create creates an event
// @Summary Create event
// @Tags Events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.EventInput true "Event data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /events [post]
func (h *EventHandler) Create(c *fiber.Ctx) error {
	var input services.EventInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid event data")
	}

	event, err := h.contentService.CreateEvent(c.Context(), &input)
	if err != nil {
		return response.InternalServerError(c, "Failed to create event")
	}

	return response.Created(c, "Event created", event)
}
