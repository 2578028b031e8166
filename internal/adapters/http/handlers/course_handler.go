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

// CourseHandler handles course endpoints
type CourseHandler struct {
	catalogService *services.CatalogService
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(catalogService *services.CatalogService) *CourseHandler {
	return &CourseHandler{catalogService: catalogService}
}

// List lists courses
// @Summary List courses
// @Tags Courses
// @Produce json
// @Param search query string false "Search code or name"
// @Param department query int false "Filter by department"
// @Param ordering query string false "Order by field, prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page
// @Failure 400 {object} response.Response
// @Router /courses [get]
func (h *CourseHandler) List(c *fiber.Ctx) error {
	params, err := query.Parse(c, repositories.CourseQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	courses, count, err := h.catalogService.ListCourses(c.Context(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list courses")
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, courses))
}

// GetByID gets a course
// @Summary Get course
// @Tags Courses
// @Produce json
// @Param id path int true "Course ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /courses/{id} [get]
func (h *CourseHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.catalogService.GetCourse(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Course not found")
		}
		return response.InternalServerError(c, "Failed to load course")
	}

	return response.Success(c, "", course)
}

// Create creates a course
// @Summary Create course
// @Tags Courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CourseInput true "Course data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /courses [post]
func (h *CourseHandler) Create(c *fiber.Ctx) error {
	var input services.CourseInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid course data")
	}

	course, err := h.catalogService.CreateCourse(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDepartmentNotFound):
			return response.BadRequest(c, "Department does not exist")
		case errors.Is(err, domain.ErrConflict):
			return response.Conflict(c, "Course code already exists")
		default:
			return response.InternalServerError(c, "Failed to create course")
		}
	}

	return response.Created(c, "Course created", course)
}
