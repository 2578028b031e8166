package handlers

import (
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

// DepartmentHandler handles department endpoints
type DepartmentHandler struct {
	catalogService *services.CatalogService
	userService    *services.UserService
}

// NewDepartmentHandler creates a new department handler
func NewDepartmentHandler(catalogService *services.CatalogService, userService *services.UserService) *DepartmentHandler {
	return &DepartmentHandler{
		catalogService: catalogService,
		userService:    userService,
	}
}

// List lists departments
// @Summary List departments
// @Description List departments with derived member counts
// @Tags Departments
// @Produce json
// @Param search query string false "Search name or description"
// @Param ordering query string false "Order by field, prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page
// @Failure 400 {object} response.Response
// @Router /departments [get]
func (h *DepartmentHandler) List(c *fiber.Ctx) error {
	params, err := query.Parse(c, repositories.DepartmentQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	departments, count, err := h.catalogService.ListDepartments(c.Context(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list departments")
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, departments))
}

// GetByID gets a department
// @Summary Get department
// @Tags Departments
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /departments/{id} [get]
func (h *DepartmentHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	department, err := h.catalogService.GetDepartment(c.Context(), uint(id))
	if err != nil {
		if errors.Is(err, domain.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to load department")
	}

	return response.Success(c, "", department)
}

// Create creates a department
// @Summary Create department
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.DepartmentInput true "Department data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /departments [post]
func (h *DepartmentHandler) Create(c *fiber.Ctx) error {
	var input services.DepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid department data")
	}

	department, err := h.catalogService.CreateDepartment(c.Context(), &input)
	if err != nil {
		if errors.Is(err, domain.ErrConflict) {
			return response.Conflict(c, "Department name already exists")
		}
		return response.InternalServerError(c, "Failed to create department")
	}

	return response.Created(c, "Department created", department)
}

// Update updates a department
// @Summary Update department
// @Tags Departments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Param body body services.DepartmentInput true "Department data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /departments/{id} [put]
func (h *DepartmentHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	var input services.DepartmentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid department data")
	}

	department, err := h.catalogService.UpdateDepartment(c.Context(), uint(id), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDepartmentNotFound):
			return response.NotFound(c, "Department not found")
		case errors.Is(err, domain.ErrConflict):
			return response.Conflict(c, "Department name already exists")
		default:
			return response.InternalServerError(c, "Failed to update department")
		}
	}

	return response.Success(c, "Department updated", department)
}

// Delete removes a department
// @Summary Delete department
// @Description Delete a department. Refused while members or content reference it.
// @Tags Departments
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 204
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /departments/{id} [delete]
func (h *DepartmentHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	if err := h.catalogService.DeleteDepartment(c.Context(), uint(id)); err != nil {
		switch {
		case errors.Is(err, domain.ErrDepartmentNotFound):
			return response.NotFound(c, "Department not found")
		case errors.Is(err, domain.ErrDepartmentInUse):
			return response.Conflict(c, "Department still has members, courses, or content")
		default:
			return response.InternalServerError(c, "Failed to delete department")
		}
	}

	return response.NoContent(c)
}

// Members lists a department's members
// @Summary Department members
// @Tags Departments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Department ID"
// @Success 200 {object} pagination.Page
// @Failure 404 {object} response.Response
// @Router /departments/{id}/members [get]
func (h *DepartmentHandler) Members(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	if _, err := h.catalogService.GetDepartment(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrDepartmentNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to load department")
	}

	params, err := query.Parse(c, repositories.UserQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	users, count, err := h.userService.ListByDepartment(c.Context(), uint(id), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list members")
	}

	results := make([]*models.UserResponse, len(users))
	for i, u := range users {
		results[i] = u.ToResponse()
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, results))
}
