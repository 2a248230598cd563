package handlers

import (
	"errors"
	"strconv"

	"sahaayak-api/internal/core/services"
	"sahaayak-api/internal/pkg/pagination"
	"sahaayak-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// OfficerHandler handles officer management endpoints
type OfficerHandler struct {
	officerService *services.OfficerService
	auditService   *services.AuditService
}

// NewOfficerHandler creates a new officer handler
func NewOfficerHandler(officerService *services.OfficerService, auditService *services.AuditService) *OfficerHandler {
	return &OfficerHandler{
		officerService: officerService,
		auditService:   auditService,
	}
}

// Create creates a new officer account
// @Summary Create officer
// @Description Create a new officer account (Admin only)
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.CreateOfficerInput true "Officer data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /officers [post]
func (h *OfficerHandler) Create(c *fiber.Ctx) error {
	var input services.CreateOfficerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actingOfficerID, _ := c.Locals("officerID").(uint)

	officer, err := h.officerService.Create(c.Context(), &input, actingOfficerID, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to create officer")
	}

	return response.Created(c, "Officer created successfully", fiber.Map{
		"officer": officer.ToResponse(),
	}, "")
}

// List lists officers
// @Summary List officers
// @Description List officer accounts (Admin only)
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /officers [get]
func (h *OfficerHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	officers, total, err := h.officerService.List(c.Context(), params.Page, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list officers")
	}

	items := make([]interface{}, len(officers))
	for i, officer := range officers {
		items[i] = officer.ToResponse()
	}

	return response.Success(c, "Officers retrieved successfully",
		pagination.NewResponse(items, params, total))
}

// GetByID gets an officer by ID
// @Summary Get officer
// @Description Get a specific officer (Admin only)
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Officer ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /officers/{id} [get]
func (h *OfficerHandler) GetByID(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid officer ID")
	}

	officer, err := h.officerService.GetByID(c.Context(), uint(id))
	if err != nil {
		return handleServiceError(c, err, "Failed to get officer")
	}

	return response.Success(c, "Officer retrieved successfully", fiber.Map{
		"officer": officer.ToResponse(),
	})
}

// Update updates an officer account
// @Summary Update officer
// @Description Update an officer account (Admin only)
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Officer ID"
// @Param body body services.UpdateOfficerInput true "Officer data"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /officers/{id} [put]
func (h *OfficerHandler) Update(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid officer ID")
	}

	var input services.UpdateOfficerInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	actingOfficerID, _ := c.Locals("officerID").(uint)

	officer, err := h.officerService.Update(c.Context(), uint(id), &input, actingOfficerID, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update officer")
	}

	return response.Success(c, "Officer updated successfully", fiber.Map{
		"officer": officer.ToResponse(),
	})
}

// Deactivate deactivates an officer account
// @Summary Deactivate officer
// @Description Deactivate an officer account (Admin only)
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Officer ID"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /officers/{id} [delete]
func (h *OfficerHandler) Deactivate(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid officer ID")
	}

	actingOfficerID, _ := c.Locals("officerID").(uint)

	if err := h.officerService.Deactivate(c.Context(), uint(id), actingOfficerID, requestMeta(c)); err != nil {
		return handleServiceError(c, err, "Failed to deactivate officer")
	}

	return response.Success(c, "Officer deactivated successfully", nil)
}

// ChangePassword changes the current officer's password
// @Summary Change password
// @Description Change the authenticated officer's password
// @Tags Officers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body services.ChangePasswordInput true "Password change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /officers/password [put]
func (h *OfficerHandler) ChangePassword(c *fiber.Ctx) error {
	var input services.ChangePasswordInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	officerID, ok := c.Locals("officerID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.officerService.ChangePassword(c.Context(), officerID, &input); err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			return response.Unauthorized(c, "Current password is incorrect")
		}
		return handleServiceError(c, err, "Failed to change password")
	}

	return response.Success(c, "Password changed successfully", nil)
}

// AuditLogs lists audit entries
// @Summary List audit logs
// @Description List recent audit entries (Supervisor/Admin only)
// @Tags Audit
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param module query string false "Filter by module"
// @Param entityId query string false "Filter by entity ID"
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /audit-logs [get]
func (h *OfficerHandler) AuditLogs(c *fiber.Ctx) error {
	params := pagination.GetParams(c)
	module := c.Query("module")
	entityID := c.Query("entityId")

	var entries interface{}
	var total int64
	var err error
	if entityID != "" {
		entries, total, err = h.auditService.ListByEntity(c.Context(), module, entityID, params.Offset, params.Limit)
	} else {
		entries, total, err = h.auditService.List(c.Context(), module, params.Offset, params.Limit)
	}
	if err != nil {
		return response.InternalServerError(c, "Failed to list audit logs")
	}

	return response.Success(c, "Audit logs retrieved successfully",
		pagination.NewResponse(entries, params, total))
}
