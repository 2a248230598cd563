package handlers

import (
	"sahaayak-api/internal/core/services"
	"sahaayak-api/internal/pkg/pagination"
	"sahaayak-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// GrievanceHandler handles grievance endpoints
type GrievanceHandler struct {
	grievanceService *services.GrievanceService
}

// NewGrievanceHandler creates a new grievance handler
func NewGrievanceHandler(grievanceService *services.GrievanceService) *GrievanceHandler {
	return &GrievanceHandler{
		grievanceService: grievanceService,
	}
}

// File files a grievance against an application
// @Summary File grievance
// @Description File a grievance against an existing application (public)
// @Tags Grievances
// @Accept json
// @Produce json
// @Param body body services.FileGrievanceInput true "Grievance data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /grievances [post]
func (h *GrievanceHandler) File(c *fiber.Ctx) error {
	var input services.FileGrievanceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	grievance, err := h.grievanceService.File(c.Context(), &input, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to file grievance")
	}

	return response.Created(c, "Grievance filed successfully", fiber.Map{
		"grievance": grievance.ToResponse(),
	}, grievance.GrievanceID)
}

// Track returns the public view of a grievance
// @Summary Track grievance
// @Description Get grievance details by grievance ID (public)
// @Tags Grievances
// @Accept json
// @Produce json
// @Param grievanceId path string true "Grievance ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /grievances/{grievanceId} [get]
func (h *GrievanceHandler) Track(c *fiber.Ctx) error {
	grievance, err := h.grievanceService.GetByGrievanceID(c.Context(), c.Params("grievanceId"))
	if err != nil {
		return handleServiceError(c, err, "Failed to get grievance")
	}

	return response.Success(c, "Grievance retrieved successfully", fiber.Map{
		"grievance": grievance.ToResponse(),
	})
}

// List lists grievances for the officer queue
// @Summary List grievances
// @Description List grievances with filters (Officer only)
// @Tags Grievances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by grievance type"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /grievances [get]
func (h *GrievanceHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.GrievanceListInput{
		Status: c.Query("status"),
		Type:   c.Query("type"),
		Page:   params.Page,
		Limit:  params.Limit,
	}

	grievances, total, err := h.grievanceService.List(c.Context(), input)
	if err != nil {
		return handleServiceError(c, err, "Failed to list grievances")
	}

	items := make([]interface{}, len(grievances))
	for i, grievance := range grievances {
		items[i] = grievance.ToResponse()
	}

	return response.Success(c, "Grievances retrieved successfully",
		pagination.NewResponse(items, params, total))
}

// UpdateStatus moves a grievance through its lifecycle
// @Summary Update grievance status
// @Description Update grievance status and resolution (Officer only)
// @Tags Grievances
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param grievanceId path string true "Grievance ID"
// @Param body body services.UpdateGrievanceInput true "Status change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /grievances/{grievanceId}/status [patch]
func (h *GrievanceHandler) UpdateStatus(c *fiber.Ctx) error {
	var input services.UpdateGrievanceInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	officerID, _ := c.Locals("officerID").(uint)

	grievance, err := h.grievanceService.UpdateStatus(c.Context(), c.Params("grievanceId"), &input, officerID, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update grievance")
	}

	return response.Success(c, "Grievance updated successfully", fiber.Map{
		"grievance": grievance.ToResponse(),
	})
}
