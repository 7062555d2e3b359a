package handlers

import (
	"errors"
	"strings"

	"apexdrive/internal/adapters/persistence/models"
	"apexdrive/internal/adapters/persistence/repositories"
	"apexdrive/internal/pkg/pagination"
	"apexdrive/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VehicleHandler handles storefront inventory endpoints
type VehicleHandler struct {
	vehicleRepo repositories.VehicleRepository
}

// NewVehicleHandler creates a new vehicle handler
func NewVehicleHandler(vehicleRepo repositories.VehicleRepository) *VehicleHandler {
	return &VehicleHandler{vehicleRepo: vehicleRepo}
}

// VehicleRequest represents a vehicle create/update body
type VehicleRequest struct {
	Make        string  `json:"make"`
	Model       string  `json:"model"`
	Year        int     `json:"year"`
	Price       float64 `json:"price"`
	Mileage     int     `json:"mileage"`
	Description string  `json:"description,omitempty"`
	ImageURL    string  `json:"image_url,omitempty"`
	Available   *bool   `json:"available,omitempty"`
}

func (r *VehicleRequest) validate() string {
	if r.Make == "" {
		return "Make is required"
	}
	if r.Model == "" {
		return "Model is required"
	}
	if r.Year < 1900 {
		return "Year is invalid"
	}
	if r.Price <= 0 {
		return "Price must be greater than zero"
	}
	return ""
}

// List handles public vehicle listing
// @Summary List vehicles
// @Description Paginated storefront inventory, newest first
// @Tags Vehicles
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Items per page"
// @Success 200 {object} response.Response
// @Router /vehicles [get]
func (h *VehicleHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	vehicles, total, err := h.vehicleRepo.List(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list vehicles")
	}

	return response.Success(c, "Vehicles retrieved successfully",
		pagination.NewResponse(vehicles, params, total))
}

// Get handles public vehicle detail
// @Summary Get vehicle
// @Tags Vehicles
// @Produce json
// @Param id path int true "Vehicle ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vehicles/{id} [get]
func (h *VehicleHandler) Get(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid vehicle ID")
	}

	vehicle, err := h.vehicleRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Vehicle not found")
		}
		return response.InternalServerError(c, "Failed to get vehicle")
	}

	return response.Success(c, "Vehicle retrieved successfully", vehicle)
}

// Create handles admin vehicle creation
// @Summary Create vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body VehicleRequest true "Vehicle data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /vehicles [post]
func (h *VehicleHandler) Create(c *fiber.Ctx) error {
	var req VehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	vehicle := &models.Vehicle{
		Make:        strings.TrimSpace(req.Make),
		Model:       strings.TrimSpace(req.Model),
		Year:        req.Year,
		Price:       req.Price,
		Mileage:     req.Mileage,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Available:   true,
	}
	if req.Available != nil {
		vehicle.Available = *req.Available
	}

	if err := h.vehicleRepo.Create(c.Context(), vehicle); err != nil {
		return response.InternalServerError(c, "Failed to create vehicle")
	}

	return response.Created(c, "Vehicle created successfully", vehicle)
}

// Update handles admin vehicle update
// @Summary Update vehicle
// @Tags Vehicles
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Param body body VehicleRequest true "Vehicle data"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vehicles/{id} [put]
func (h *VehicleHandler) Update(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid vehicle ID")
	}

	vehicle, err := h.vehicleRepo.GetByID(c.Context(), id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Vehicle not found")
		}
		return response.InternalServerError(c, "Failed to get vehicle")
	}

	var req VehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if msg := req.validate(); msg != "" {
		return response.BadRequest(c, msg)
	}

	vehicle.Make = strings.TrimSpace(req.Make)
	vehicle.Model = strings.TrimSpace(req.Model)
	vehicle.Year = req.Year
	vehicle.Price = req.Price
	vehicle.Mileage = req.Mileage
	vehicle.Description = req.Description
	vehicle.ImageURL = req.ImageURL
	if req.Available != nil {
		vehicle.Available = *req.Available
	}

	if err := h.vehicleRepo.Update(c.Context(), vehicle); err != nil {
		return response.InternalServerError(c, "Failed to update vehicle")
	}

	return response.Success(c, "Vehicle updated successfully", vehicle)
}

// Delete handles admin vehicle deletion
// @Summary Delete vehicle
// @Tags Vehicles
// @Produce json
// @Security BearerAuth
// @Param id path int true "Vehicle ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /vehicles/{id} [delete]
func (h *VehicleHandler) Delete(c *fiber.Ctx) error {
	id, err := parseID(c)
	if err != nil {
		return response.BadRequest(c, "Invalid vehicle ID")
	}

	if _, err := h.vehicleRepo.GetByID(c.Context(), id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return response.NotFound(c, "Vehicle not found")
		}
		return response.InternalServerError(c, "Failed to get vehicle")
	}

	if err := h.vehicleRepo.Delete(c.Context(), id); err != nil {
		return response.InternalServerError(c, "Failed to delete vehicle")
	}

	return response.Success(c, "Vehicle deleted", nil)
}
