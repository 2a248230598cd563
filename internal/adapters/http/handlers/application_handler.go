package handlers

import (
	"errors"

	"sahaayak-api/internal/core/domain"
	"sahaayak-api/internal/core/services"
	"sahaayak-api/internal/pkg/pagination"
	"sahaayak-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// ApplicationHandler handles application submission and lifecycle endpoints
type ApplicationHandler struct {
	appService *services.ApplicationService
}

// NewApplicationHandler creates a new application handler
func NewApplicationHandler(appService *services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		appService: appService,
	}
}

// getClientIP gets client IP address
func getClientIP(c *fiber.Ctx) string {
	ip := c.Get("X-Real-IP")
	if ip == "" {
		ip = c.Get("X-Forwarded-For")
	}
	if ip == "" {
		ip = c.IP()
	}
	return ip
}

// requestMeta builds audit metadata from the request
func requestMeta(c *fiber.Ctx) *services.RequestMeta {
	return &services.RequestMeta{
		IPAddress: getClientIP(c),
		UserAgent: c.Get("User-Agent"),
	}
}

// handleServiceError maps domain errors to HTTP responses
func handleServiceError(c *fiber.Ctx, err error, fallback string) error {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		return response.ValidationFailed(c, "Validation failed", validationErr.Fields)
	}

	var conflictErr *domain.ConflictError
	if errors.As(err, &conflictErr) {
		return response.Conflict(c, conflictErr.Message)
	}

	var notFoundErr *domain.NotFoundError
	if errors.As(err, &notFoundErr) {
		return response.NotFound(c, notFoundErr.Error())
	}

	var transitionErr *domain.InvalidTransitionError
	if errors.As(err, &transitionErr) {
		return response.BadRequest(c, transitionErr.Error())
	}

	return response.InternalServerError(c, fallback)
}

// SubmitVictim submits a victim compensation application
// @Summary Submit victim compensation application
// @Description Submit a new victim compensation application (public)
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body services.SubmitVictimInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/victim [post]
func (h *ApplicationHandler) SubmitVictim(c *fiber.Ctx) error {
	var input services.SubmitVictimInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.appService.SubmitVictim(c.Context(), &input, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to submit application")
	}

	return response.Created(c, "Application submitted successfully", fiber.Map{
		"application": app.ToResponse(),
	}, app.TrackingCode)
}

// SubmitMarriage submits a marriage incentive application
// @Summary Submit inter-caste marriage incentive application
// @Description Submit a new marriage incentive application (public)
// @Tags Applications
// @Accept json
// @Produce json
// @Param body body services.SubmitMarriageInput true "Application data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /applications/marriage [post]
func (h *ApplicationHandler) SubmitMarriage(c *fiber.Ctx) error {
	var input services.SubmitMarriageInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	app, err := h.appService.SubmitMarriage(c.Context(), &input, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to submit application")
	}

	return response.Created(c, "Application submitted successfully", fiber.Map{
		"application": app.ToResponse(),
	}, app.TrackingCode)
}

// Track returns the public status view of an application
// @Summary Track application status
// @Description Get application details by tracking code (public)
// @Tags Applications
// @Accept json
// @Produce json
// @Param trackingCode path string true "Tracking code"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/track/{trackingCode} [get]
func (h *ApplicationHandler) Track(c *fiber.Ctx) error {
	trackingCode := c.Params("trackingCode")

	app, err := h.appService.GetByTrackingCode(c.Context(), trackingCode)
	if err != nil {
		return handleServiceError(c, err, "Failed to get application")
	}

	return response.Success(c, "Application retrieved successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// List lists applications for the officer queue
// @Summary List applications
// @Description List applications with filters (Officer only)
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number" default(1)
// @Param limit query int false "Items per page" default(10)
// @Param status query string false "Filter by status"
// @Param type query string false "Filter by application type (victim/marriage)"
// @Param district query string false "Filter by district"
// @Param search query string false "Search by tracking code, name or Aadhaar"
// @Param sortBy query string false "Sort field (created_at/updated_at)" default(created_at)
// @Param sort query string false "Sort order (asc/desc)" default(desc)
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /applications [get]
func (h *ApplicationHandler) List(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	input := &services.ListInput{
		Status:          c.Query("status"),
		ApplicationType: c.Query("type"),
		District:        c.Query("district"),
		Search:          c.Query("search"),
		SortBy:          c.Query("sortBy"),
		SortAscending:   c.Query("sort") == "asc",
		Page:            params.Page,
		Limit:           params.Limit,
	}

	apps, total, err := h.appService.List(c.Context(), input)
	if err != nil {
		return handleServiceError(c, err, "Failed to list applications")
	}

	items := make([]interface{}, len(apps))
	for i, app := range apps {
		items[i] = app.ToResponse()
	}

	return response.Success(c, "Applications retrieved successfully",
		pagination.NewResponse(items, params, total))
}

// UpdateStatusRequest represents a status transition request
type UpdateStatusRequest struct {
	Status            string   `json:"status"`
	Comments          string   `json:"comments,omitempty"`
	RejectionReason   string   `json:"rejectionReason,omitempty"`
	AssignedOfficerID *uint    `json:"assignedOfficerId,omitempty"`
	VerifiedDocuments []string `json:"verifiedDocuments,omitempty"`
}

// UpdateStatus transitions an application to a new status
// @Summary Update application status
// @Description Move an application through its lifecycle (Officer only)
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trackingCode path string true "Tracking code"
// @Param body body UpdateStatusRequest true "Status change"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{trackingCode}/status [patch]
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.Status == "" {
		return response.BadRequest(c, "Status is required")
	}

	officerID, _ := c.Locals("officerID").(uint)
	trackingCode := c.Params("trackingCode")

	input := &services.TransitionInput{
		Status:            req.Status,
		Comments:          req.Comments,
		RejectionReason:   req.RejectionReason,
		AssignedOfficerID: req.AssignedOfficerID,
		VerifiedDocuments: req.VerifiedDocuments,
	}

	app, err := h.appService.Transition(c.Context(), trackingCode, input, officerID, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to update application status")
	}

	return response.Success(c, "Application status updated successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}

// AssignRequest represents an officer assignment request
type AssignRequest struct {
	OfficerID uint `json:"officerId"`
}

// Assign reassigns an application to another officer
// @Summary Assign application
// @Description Assign an application to an officer (Supervisor/Admin only)
// @Tags Applications
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param trackingCode path string true "Tracking code"
// @Param body body AssignRequest true "Assignment"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /applications/{trackingCode}/assign [patch]
func (h *ApplicationHandler) Assign(c *fiber.Ctx) error {
	var req AssignRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if req.OfficerID == 0 {
		return response.BadRequest(c, "Officer ID is required")
	}

	actingOfficerID, _ := c.Locals("officerID").(uint)
	trackingCode := c.Params("trackingCode")

	app, err := h.appService.AssignOfficer(c.Context(), trackingCode, req.OfficerID, actingOfficerID, requestMeta(c))
	if err != nil {
		return handleServiceError(c, err, "Failed to assign application")
	}

	return response.Success(c, "Application assigned successfully", fiber.Map{
		"application": app.ToResponse(),
	})
}
