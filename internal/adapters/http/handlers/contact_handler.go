package handlers

import (
	"errors"
	"strings"

	"apexdrive/internal/adapters/persistence/models"
	"apexdrive/internal/adapters/persistence/repositories"
	"apexdrive/internal/pkg/pagination"
	"apexdrive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ContactHandler handles contact message endpoints
type ContactHandler struct {
	contactRepo repositories.ContactRepository
}

// NewContactHandler creates a new contact handler
func NewContactHandler(contactRepo repositories.ContactRepository) *ContactHandler {
	return &ContactHandler{contactRepo: contactRepo}
}

// ContactRequest represents a public contact form body
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject,omitempty"`
	Message string `json:"message"`
}

// Submit handles public contact message submission
// @Summary Submit contact message
// @Description Submit a contact form message (no authentication required)
// @Tags Contacts
// @Accept json
// @Produce json
// @Param body body ContactRequest true "Message data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /contact-messages [post]
func (h *ContactHandler) Submit(c *fiber.Ctx) error {
	var req ContactRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Name == "" {
		return response.BadRequest(c, "Name is required")
	}
	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}
	if req.Message == "" {
		return response.BadRequest(c, "Message is required")
	}

	msg := &models.ContactMessage{
		Reference: uuid.New().String(),
		Name:      strings.TrimSpace(req.Name),
		Email:     strings.TrimSpace(strings.ToLower(req.Email)),
		Subject:   strings.TrimSpace(req.Subject),
		Message:   strings.TrimSpace(req.Message),
	}

	if err := h.contactRepo.Create(c.Context(), msg); err != nil {
		return response.InternalServerError(c, "Failed to submit message")
	}

	return response.Created(c, "Message submitted successfully", msg)
}

// List handles admin listing of contact messages
// @Summary List contact messages
// @Description Paginated contact messages, newest first
// @Tags Contacts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /contact-messages [get]
func (h *ContactHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	msgs, total, err := h.contactRepo.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list messages")
	}

	return response.Success(c, "Messages retrieved successfully",
		pagination.NewResponse(msgs, params, total))
}

// Get handles admin fetching of a single contact message
// @Summary Get contact message
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contact-messages/{id} [get]
func (h *ContactHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid message ID")
	}

	msg, err := h.contactRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Message not found")
		}
		return response.InternalServerError(c, "Failed to get message")
	}

	return response.Success(c, "Message retrieved successfully", msg)
}

// Delete handles admin deletion of a contact message
// @Summary Delete contact message
// @Tags Contacts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Message ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /contact-messages/{id} [delete]
func (h *ContactHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid message ID")
	}

	found, err := h.contactRepo.Delete(c.Context(), id)
	if err != nil {
		return response.InternalServerError(c, "Failed to delete message")
	}
	if !found {
		return response.NotFound(c, "Message not found")
	}

	return response.Success(c, "Message deleted", nil)
}
