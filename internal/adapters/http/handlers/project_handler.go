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

// ProjectHandler handles project endpoints
type ProjectHandler struct {
	contentService *services.ContentService
}

// NewProjectHandler creates a new project handler
func NewProjectHandler(contentService *services.ContentService) *ProjectHandler {
	return &ProjectHandler{contentService: contentService}
}

// List lists projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param search query string false "Search title or description"
// @Param department query int false "Filter by department"
// @Param featured query bool false "Filter featured"
// @Param ordering query string false "Order by field, prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page
// @Failure 400 {object} response.Response
// @Router /projects [get]
func (h *ProjectHandler) List(c *fiber.Ctx) error {
	params, err := query.Parse(c, repositories.ProjectQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	projects, count, err := h.contentService.ListProjects(c.Context(), params)
	if err != nil {
		if errors.Is(err, query.ErrInvalidFilterValue) {
			return response.BadRequest(c, "Invalid filter value")
		}
		return response.InternalServerError(c, "Failed to list projects")
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, projects))
}

// Featured lists showcase projects
// @Summary Featured projects
// @Tags Projects
// @Produce json
// @Success 200 {object} response.Response
// @Router /projects/featured [get]
func (h *ProjectHandler) Featured(c *fiber.Ctx) error {
	projects, err := h.contentService.ListFeaturedProjects(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list featured projects")
	}

	return response.Success(c, "", projects)
}

// GetByID gets a project
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path int true "Project ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /projects/{id} [get]
func (h *ProjectHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid project ID")
	}

	project, err := h.contentService.GetProject(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Project not found")
		}
		return response.InternalServerError(c, "Failed to load project")
	}

	return response.Success(c, "", project)
}

// Create creates a project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ProjectInput true "Project data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /projects [post]
func (h *ProjectHandler) Create(c *fiber.Ctx) error {
	var input services.ProjectInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid project data")
	}

	creatorID, _ := c.Locals("userID").(uint)

	project, err := h.contentService.CreateProject(c.Context(), &input, creatorID)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return response.Conflict(c, "Project with this title already exists")
		}
		return response.InternalServerError(c, "Failed to create project")
	}

	return response.Created(c, "Project created", project)
}
