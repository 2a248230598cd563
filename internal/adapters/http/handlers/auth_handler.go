package handlers

import (
	"errors"
	"strings"
	"time"

	"sahaayak-api/internal/config"
	"sahaayak-api/internal/core/services"
	"sahaayak-api/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
)

// AuthHandler handles officer authentication endpoints
type AuthHandler struct {
	authService *services.AuthService
	cfg         *config.Config
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *services.AuthService, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		cfg:         cfg,
	}
}

// LoginRequest represents login request body
type LoginRequest struct {
	EmployeeID string `json:"employeeId"`
	Password   string `json:"password"`
}

// Login handles officer login
// @Summary Login officer
// @Description Authenticate an officer and return tokens
// @Tags Auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.EmployeeID == "" {
		return response.BadRequest(c, "Employee ID is required")
	}
	if req.Password == "" {
		return response.BadRequest(c, "Password is required")
	}

	input := &services.LoginInput{
		EmployeeID: strings.TrimSpace(req.EmployeeID),
		Password:   req.Password,
	}

	result, err := h.authService.Login(c.Context(), input, requestMeta(c))
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidCredentials):
			return response.Unauthorized(c, "Invalid employee ID or password")
		case errors.Is(err, services.ErrOfficerInactive):
			return response.Forbidden(c, "Officer account is inactive")
		default:
			return response.InternalServerError(c, "Failed to login")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Login successful", fiber.Map{
		"accessToken": result.AccessToken,
		"officer":     result.Officer,
	})
}

// RefreshToken handles token refresh
// @Summary Refresh access token
// @Description Refresh access token using refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken == "" {
		return response.Unauthorized(c, "Refresh token not found")
	}

	result, err := h.authService.RefreshToken(c.Context(), refreshToken)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTokenExpired):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token expired, please login again")
		case errors.Is(err, services.ErrTokenRevoked):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Refresh token revoked, please login again")
		case errors.Is(err, services.ErrInvalidToken):
			h.clearAuthCookies(c)
			return response.Unauthorized(c, "Invalid refresh token")
		case errors.Is(err, services.ErrOfficerInactive):
			h.clearAuthCookies(c)
			return response.Forbidden(c, "Officer account is inactive")
		default:
			return response.InternalServerError(c, "Failed to refresh token")
		}
	}

	h.setAuthCookies(c, result.AccessToken, result.RefreshToken)

	return response.Success(c, "Token refreshed successfully", fiber.Map{
		"accessToken": result.AccessToken,
		"officer":     result.Officer,
	})
}

// Logout handles officer logout
// @Summary Logout officer
// @Description Logout and revoke the refresh token
// @Tags Auth
// @Accept json
// @Produce json
// @Success 200 {object} response.Response
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	refreshToken := c.Cookies("refresh_token")
	if refreshToken != "" {
		_ = h.authService.Logout(c.Context(), refreshToken)
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out successfully", nil)
}

// LogoutAll handles logout from all devices
// @Summary Logout from all devices
// @Description Revoke all refresh tokens for the officer
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/logout-all [post]
func (h *AuthHandler) LogoutAll(c *fiber.Ctx) error {
	officerID, ok := c.Locals("officerID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	if err := h.authService.LogoutAll(c.Context(), officerID); err != nil {
		return response.InternalServerError(c, "Failed to logout from all devices")
	}

	h.clearAuthCookies(c)

	return response.Success(c, "Logged out from all devices", nil)
}

// Me returns the current officer info
// @Summary Get current officer
// @Description Get the currently authenticated officer's information
// @Tags Auth
// @Accept json
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	officerID, ok := c.Locals("officerID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	officer, err := h.authService.GetOfficerByID(c.Context(), officerID)
	if err != nil {
		return response.NotFound(c, "Officer not found")
	}

	return response.Success(c, "Officer retrieved successfully", fiber.Map{
		"officer": officer.ToResponse(),
	})
}

// setAuthCookies sets access and refresh token cookies
func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     "access_token",
		Value:    accessToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.AccessTokenMins * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})

	c.Cookie(&fiber.Cookie{
		Name:     "refresh_token",
		Value:    refreshToken,
		Path:     "/",
		MaxAge:   h.cfg.JWT.RefreshTokenDays * 24 * 60 * 60,
		Secure:   h.cfg.Cookie.Secure,
		HTTPOnly: true,
		SameSite: h.cfg.Cookie.SameSite,
		Domain:   h.cfg.Cookie.Domain,
	})
}

// clearAuthCookies clears auth cookies
func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for _, name := range []string{"access_token", "refresh_token"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			Expires:  time.Now().Add(-1 * time.Hour),
			Secure:   h.cfg.Cookie.Secure,
			HTTPOnly: true,
			SameSite: h.cfg.Cookie.SameSite,
			Domain:   h.cfg.Cookie.Domain,
		})
	}
}
