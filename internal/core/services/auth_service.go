package services

import (
	"context"
	"errors"
	"log"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/config"
	"sahaayak-api/internal/core/domain"
	"sahaayak-api/internal/pkg/jwt"
	"sahaayak-api/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrOfficerNotFound    = errors.New("officer not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenRevoked       = errors.New("token revoked")
	ErrOfficerInactive    = errors.New("officer account is inactive")
)

// AuthService handles officer authentication
type AuthService struct {
	officerRepo      *repositories.OfficerRepository
	refreshTokenRepo *repositories.RefreshTokenRepository
	auditService     *AuditService
	cfg              *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	officerRepo *repositories.OfficerRepository,
	refreshTokenRepo *repositories.RefreshTokenRepository,
	auditService *AuditService,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		officerRepo:      officerRepo,
		refreshTokenRepo: refreshTokenRepo,
		auditService:     auditService,
		cfg:              cfg,
	}
}

// LoginInput represents login input
type LoginInput struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	Officer      *models.OfficerResponse `json:"officer"`
	AccessToken  string                  `json:"accessToken"`
	RefreshToken string                  `json:"refreshToken"`
}

// Login authenticates an officer by employee ID and password
func (s *AuthService) Login(ctx context.Context, input *LoginInput, meta *RequestMeta) (*AuthResponse, error) {
	officer, err := s.officerRepo.GetByEmployeeID(ctx, input.EmployeeID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	if !officer.IsActive {
		return nil, ErrOfficerInactive
	}

	if !password.Verify(input.Password, officer.Password) {
		return nil, ErrInvalidCredentials
	}

	tokens, err := s.generateTokens(officer)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, officer.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	if err := s.officerRepo.UpdateLastLogin(ctx, officer.ID); err != nil {
		log.Printf("⚠️ Failed to stamp last login for %s: %v", officer.EmployeeID, err)
	}

	entry := &AuditEntry{
		Action:      models.AuditActionRead,
		Module:      models.AuditModuleOfficer,
		EntityID:    officer.EmployeeID,
		Description: "officer logged in",
		PerformedBy: &officer.ID,
	}
	if meta != nil {
		entry.IPAddress = meta.IPAddress
		entry.UserAgent = meta.UserAgent
	}
	s.auditService.Record(entry)

	log.Printf("✅ Officer logged in: %s", officer.EmployeeID)

	return &AuthResponse{
		Officer:      officer.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// RefreshToken rotates the refresh token and issues a new token pair
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*AuthResponse, error) {
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	tokenHash := password.HashToken(refreshToken)

	storedToken, err := s.refreshTokenRepo.GetByTokenHash(ctx, tokenHash)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	if storedToken.IsRevoked() {
		return nil, ErrTokenRevoked
	}
	if storedToken.IsExpired() {
		return nil, ErrTokenExpired
	}

	officer, err := s.officerRepo.GetByID(ctx, claims.OfficerID)
	if err != nil {
		return nil, ErrOfficerNotFound
	}
	if !officer.IsActive {
		return nil, ErrOfficerInactive
	}

	// Token rotation: the presented token is spent
	if err := s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash); err != nil {
		return nil, err
	}

	tokens, err := s.generateTokens(officer)
	if err != nil {
		return nil, err
	}

	if err := s.storeRefreshToken(ctx, officer.ID, tokens.RefreshToken); err != nil {
		return nil, err
	}

	return &AuthResponse{
		Officer:      officer.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Logout revokes the presented refresh token
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	tokenHash := password.HashToken(refreshToken)
	return s.refreshTokenRepo.RevokeByTokenHash(ctx, tokenHash)
}

// LogoutAll revokes every session of an officer
func (s *AuthService) LogoutAll(ctx context.Context, officerID uint) error {
	return s.refreshTokenRepo.RevokeAllByOfficerID(ctx, officerID)
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.Secret)
}

// GetOfficerByID gets an officer by ID
func (s *AuthService) GetOfficerByID(ctx context.Context, officerID uint) (*models.Officer, error) {
	officer, err := s.officerRepo.GetByID(ctx, officerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return officer, nil
}

func (s *AuthService) generateTokens(officer *models.Officer) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		officer.ID,
		officer.EmployeeID,
		officer.Role,
		s.cfg.JWT.Secret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	refreshToken, err := jwt.GenerateRefreshToken(
		officer.ID,
		uuid.New().String(),
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *AuthService) storeRefreshToken(ctx context.Context, officerID uint, refreshToken string) error {
	token := &models.RefreshToken{
		OfficerID: officerID,
		TokenHash: password.HashToken(refreshToken),
		ExpiresAt: jwt.GetExpiryTime(s.cfg.JWT.RefreshTokenDays),
	}
	return s.refreshTokenRepo.Create(ctx, token)
}
