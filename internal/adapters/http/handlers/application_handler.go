package handlers

import (
	"errors"
	"strconv"
	"strings"

	"apexdrive/internal/adapters/persistence/models"
	"apexdrive/internal/core/domain"
	"apexdrive/internal/core/services"
	"apexdrive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles loan application endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{appService: appService}
}

// SubmitRequest represents a public loan application submission body
type SubmitRequest struct {
	Name     string  `json:"name"`
	Email    string  `json:"email"`
	Phone    string  `json:"phone"`
	Amount   float64 `json:"amount"`
	LoanType string  `json:"loan_type"`
	Message  string  `json:"message,omitempty"`
}

// Submit handles public loan application submission
// @Summary Submit loan application
// @Description Submit a new loan application (no authentication required)
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body SubmitRequest true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /loan-applications [post]
func (h *ApplicationHandler) Submit(c *fiber.Ctx) error {
	var req SubmitRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Phone == "" {
		return response.BadRequest(c, "Phone is required")
	}
	if req.Amount <= 0 {
		return response.BadRequest(c, "Amount must be greater than zero")
	}
	if req.LoanType == "" {
		return response.BadRequest(c, "Loan type is required")
	}

	input := &services.SubmitInput{
		Name:     strings.TrimSpace(req.Name),
		Email:    strings.TrimSpace(strings.ToLower(req.Email)),
		Phone:    strings.TrimSpace(req.Phone),
		Amount:   req.Amount,
		LoanType: strings.TrimSpace(req.LoanType),
		Message:  strings.TrimSpace(req.Message),
	}

	app, err := h.appService.Submit(c.Context(), input)
	if err != nil {
		return response.InternalServerError(c, "Failed to submit application")
	}

	return response.Created(c, "Application submitted successfully", app.ToResponse())
}

// List handles admin listing of all loan applications
// @Summary List loan applications
// @Description Return the full collection, newest first
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /loan-applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	apps, err := h.appService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list applications")
	}

	out := make([]*models.ApplicationResponse, 0, len(apps))
	for _, app := range apps {
		out = append(out, app.ToResponse())
	}

	return response.Success(c, "Applications retrieved successfully", out)
}

// MarkProcessed handles the processed transition
// @Summary Mark application processed
// @Description Transition a pending application to processed; retry is a no-op
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loan-applications/{id} [patch]
func (h *ApplicationHandler) MarkProcessed(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.MarkProcessed(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Application is cancelled and cannot be processed")
		default:
			return response.InternalServerError(c, "Failed to process application")
		}
	}

	return response.Success(c, "Application marked as processed", app.ToResponse())
}

// Cancel handles the cancelled transition
// @Summary Cancel application
// @Description Transition a pending application to cancelled; retry is a no-op
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /loan-applications/{id}/cancel [patch]
func (h *ApplicationHandler) Cancel(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	app, err := h.appService.Cancel(c.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Application is processed and cannot be cancelled")
		default:
			return response.InternalServerError(c, "Failed to cancel application")
		}
	}

	return response.Success(c, "Application cancelled", app.ToResponse())
}

// Delete handles hard deletion
// @Summary Delete application
// @Description Hard delete a loan application
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Application ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /loan-applications/{id} [delete]
func (h *ApplicationHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid application ID")
	}

	if err := h.appService.Delete(c.Context(), id); err != nil {
		switch {
		case errors.Is(err, domain.ErrApplicationNotFound):
			return response.NotFound(c, "Application not found")
		default:
			return response.InternalServerError(c, "Failed to delete application")
		}
	}

	return response.Success(c, "Application deleted", nil)
}

// parseID extracts the numeric :id path parameter
func parseID(c *fiber.Ctx) (uint, error) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil || id == 0 {
		return 0, errors.New("invalid id")
	}
	return uint(id), nil
}
