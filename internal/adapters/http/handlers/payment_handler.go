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

// PaymentHandler handles membership payment endpoints
type PaymentHandler struct {
	paymentService *services.PaymentService
}

// NewPaymentHandler creates a new payment handler
func NewPaymentHandler(paymentService *services.PaymentService) *PaymentHandler {
	return &PaymentHandler{paymentService: paymentService}
}

// Create submits a membership payment
// @Summary Submit payment
// @Description Record a membership fee payment as pending
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreatePaymentInput true "Payment data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments [post]
func (h *PaymentHandler) Create(c *fiber.Ctx) error {
	var input services.CreatePaymentInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := validate.Struct(&input); err != nil {
		return response.BadRequest(c, "Invalid payment data")
	}

	userID, _ := c.Locals("userID").(uint)

	payment, err := h.paymentService.Create(c.Context(), userID, &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateTransaction):
			return response.Conflict(c, "Transaction already recorded for this provider")
		case errors.Is(err, domain.ErrInvalidInput):
			return response.BadRequest(c, "Invalid payment data")
		default:
			return response.InternalServerError(c, "Failed to submit payment")
		}
	}

	return response.Created(c, "Payment submitted", payment.ToResponse())
}

// List lists all payments (admin)
// @Summary List payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param provider query string false "Filter by provider"
// @Param status query string false "Filter by status"
// @Param ordering query string false "Order by field, prefix - for descending"
// @Param page query int false "Page number"
// @Param page_size query int false "Page size"
// @Success 200 {object} pagination.Page
// @Failure 400 {object} response.Response
// @Router /payments [get]
func (h *PaymentHandler) List(c *fiber.Ctx) error {
	params, err := query.Parse(c, repositories.PaymentQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	payments, count, err := h.paymentService.List(c.Context(), params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return h.page(c, params, count, payments)
}

// ListMine lists the authenticated member's payments
// @Summary My payments
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Success 200 {object} pagination.Page
// @Router /payments/my_payments [get]
func (h *PaymentHandler) ListMine(c *fiber.Ctx) error {
	params, err := query.Parse(c, repositories.PaymentQuerySpec)
	if err != nil {
		return queryError(c, err)
	}

	userID, _ := c.Locals("userID").(uint)

	payments, count, err := h.paymentService.ListMine(c.Context(), userID, params)
	if err != nil {
		return response.InternalServerError(c, "Failed to list payments")
	}

	return h.page(c, params, count, payments)
}

// GetByID gets a payment. Members can only read their own.
// @Summary Get payment
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /payments/{id} [get]
func (h *PaymentHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	userID, _ := c.Locals("userID").(uint)
	role, _ := c.Locals("role").(string)
	isAdmin := role == string(domain.RoleAdmin)

	payment, err := h.paymentService.GetByID(c.Context(), uint(id), userID, isAdmin)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You can only view your own payments")
		default:
			return response.InternalServerError(c, "Failed to load payment")
		}
	}

	return response.Success(c, "", payment.ToResponse())
}

// Confirm settles a pending payment
// @Summary Confirm payment
// @Description Confirm a pending payment. Confirming again returns the stored record.
// @Tags Payments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Payment ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /payments/{id}/confirm_payment [post]
func (h *PaymentHandler) Confirm(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid payment ID")
	}

	adminID, _ := c.Locals("userID").(uint)

	payment, err := h.paymentService.Confirm(c.Context(), uint(id), adminID, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrPaymentNotFound):
			return response.NotFound(c, "Payment not found")
		case errors.Is(err, domain.ErrPaymentAlreadyFailed):
			return response.Conflict(c, "Failed payment cannot be confirmed")
		default:
			return response.InternalServerError(c, "Failed to confirm payment")
		}
	}

	return response.Success(c, "Payment confirmed", payment.ToResponse())
}

func (h *PaymentHandler) page(c *fiber.Ctx, params *query.Params, count int64, payments []*models.Payment) error {
	results := make([]*models.PaymentResponse, len(payments))
	for i, p := range payments {
		results[i] = p.ToResponse()
	}

	pg := &pagination.Params{Page: params.Page, PageSize: params.PageSize}
	return c.JSON(pagination.NewPage(c, pg, count, results))
}
