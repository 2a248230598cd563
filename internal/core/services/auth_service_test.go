package services

import (
	"context"
	"testing"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/adapters/persistence/repositories"
	"sahaayak-api/internal/config"
	"sahaayak-api/internal/pkg/password"

	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"
)

const testOfficerPassword = "correct-horse-battery"

type AuthServiceSuite struct {
	suite.Suite
	db           *gorm.DB
	authService  *AuthService
	tokenRepo    *repositories.RefreshTokenRepository
	auditService *AuditService
	officer      *models.Officer
}

func (s *AuthServiceSuite) SetupTest() {
	s.db = newTestDB(s.T())

	officerRepo := repositories.NewOfficerRepository(s.db)
	s.tokenRepo = repositories.NewRefreshTokenRepository(s.db)
	s.auditService = NewAuditService(repositories.NewAuditRepository(s.db))

	cfg := &config.Config{
		JWT: config.JWTConfig{
			Secret:           "test-access-secret",
			RefreshSecret:    "test-refresh-secret",
			AccessTokenMins:  15,
			RefreshTokenDays: 7,
		},
	}
	s.authService = NewAuthService(officerRepo, s.tokenRepo, s.auditService, cfg)

	hashed, err := password.Hash(testOfficerPassword)
	s.Require().NoError(err)

	s.officer = &models.Officer{
		EmployeeID: "OFFTST0001",
		FullName:   "Test Officer",
		Email:      "officer@test.local",
		Password:   hashed,
		Department: "Testing",
		Role:       models.RoleSupervisor,
		IsActive:   true,
	}
	s.Require().NoError(officerRepo.Create(context.Background(), s.officer))
}

func (s *AuthServiceSuite) TearDownTest() {
	s.auditService.Close()
}

func (s *AuthServiceSuite) login() *AuthResponse {
	resp, err := s.authService.Login(context.Background(), &LoginInput{
		EmployeeID: "OFFTST0001",
		Password:   testOfficerPassword,
	}, nil)
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceSuite) TestLogin() {
	resp := s.login()

	s.NotEmpty(resp.AccessToken)
	s.NotEmpty(resp.RefreshToken)
	s.Equal("OFFTST0001", resp.Officer.EmployeeID)
	s.Equal(models.RoleSupervisor, resp.Officer.Role)

	claims, err := s.authService.ValidateAccessToken(resp.AccessToken)
	s.Require().NoError(err)
	s.Equal(s.officer.ID, claims.OfficerID)
	s.Equal(models.RoleSupervisor, claims.Role)

	// Last login stamped
	var stored models.Officer
	s.Require().NoError(s.db.First(&stored, s.officer.ID).Error)
	s.NotNil(stored.LastLoginAt)
}

func (s *AuthServiceSuite) TestLoginWrongPassword() {
	_, err := s.authService.Login(context.Background(), &LoginInput{
		EmployeeID: "OFFTST0001",
		Password:   "wrong",
	}, nil)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLoginUnknownEmployee() {
	_, err := s.authService.Login(context.Background(), &LoginInput{
		EmployeeID: "OFFNOPE999",
		Password:   testOfficerPassword,
	}, nil)
	s.ErrorIs(err, ErrInvalidCredentials)
}

func (s *AuthServiceSuite) TestLoginInactiveOfficer() {
	s.Require().NoError(s.db.Model(&models.Officer{}).
		Where("id = ?", s.officer.ID).
		Update("is_active", false).Error)

	_, err := s.authService.Login(context.Background(), &LoginInput{
		EmployeeID: "OFFTST0001",
		Password:   testOfficerPassword,
	}, nil)
	s.ErrorIs(err, ErrOfficerInactive)
}

func (s *AuthServiceSuite) TestRefreshRotation() {
	ctx := context.Background()
	resp := s.login()

	rotated, err := s.authService.RefreshToken(ctx, resp.RefreshToken)
	s.Require().NoError(err)
	s.NotEmpty(rotated.AccessToken)
	s.NotEqual(resp.RefreshToken, rotated.RefreshToken)

	// The spent token cannot be replayed
	_, err = s.authService.RefreshToken(ctx, resp.RefreshToken)
	s.ErrorIs(err, ErrInvalidToken)

	// The rotated token still works
	_, err = s.authService.RefreshToken(ctx, rotated.RefreshToken)
	s.NoError(err)
}

func (s *AuthServiceSuite) TestRefreshGarbage() {
	_, err := s.authService.RefreshToken(context.Background(), "not-a-jwt")
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *AuthServiceSuite) TestLogout() {
	ctx := context.Background()
	resp := s.login()

	s.Require().NoError(s.authService.Logout(ctx, resp.RefreshToken))

	_, err := s.authService.RefreshToken(ctx, resp.RefreshToken)
	s.ErrorIs(err, ErrInvalidToken)
}

func (s *AuthServiceSuite) TestLogoutAll() {
	ctx := context.Background()
	first := s.login()
	second := s.login()

	s.Require().NoError(s.authService.LogoutAll(ctx, s.officer.ID))

	_, err := s.authService.RefreshToken(ctx, first.RefreshToken)
	s.Error(err)
	_, err = s.authService.RefreshToken(ctx, second.RefreshToken)
	s.Error(err)
}

func TestAuthServiceSuite(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}
