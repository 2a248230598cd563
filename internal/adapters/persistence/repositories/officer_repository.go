package repositories

import (
	"context"
	"time"

	"sahaayak-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// OfficerRepository handles officer data access
type OfficerRepository struct {
	db *gorm.DB
}

// NewOfficerRepository creates a new officer repository
func NewOfficerRepository(db *gorm.DB) *OfficerRepository {
	return &OfficerRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *OfficerRepository) WithTx(tx *gorm.DB) *OfficerRepository {
	return &OfficerRepository{db: tx}
}

// Create creates a new officer
func (r *OfficerRepository) Create(ctx context.Context, officer *models.Officer) error {
	return r.db.WithContext(ctx).Create(officer).Error
}

// GetByID gets an officer by ID
func (r *OfficerRepository) GetByID(ctx context.Context, id uint) (*models.Officer, error) {
	var officer models.Officer
	err := r.db.WithContext(ctx).First(&officer, id).Error
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

// GetByEmployeeID gets an officer by employee ID
func (r *OfficerRepository) GetByEmployeeID(ctx context.Context, employeeID string) (*models.Officer, error) {
	var officer models.Officer
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		First(&officer).Error
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

// GetByEmail gets an officer by email
func (r *OfficerRepository) GetByEmail(ctx context.Context, email string) (*models.Officer, error) {
	var officer models.Officer
	err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&officer).Error
	if err != nil {
		return nil, err
	}
	return &officer, nil
}

// List lists officers with pagination
func (r *OfficerRepository) List(ctx context.Context, offset, limit int) ([]*models.Officer, int64, error) {
	var officers []*models.Officer
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Officer{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&officers).Error

	return officers, total, err
}

// Update updates an officer
func (r *OfficerRepository) Update(ctx context.Context, officer *models.Officer) error {
	return r.db.WithContext(ctx).Save(officer).Error
}

// UpdateLastLogin stamps the officer's last login time
func (r *OfficerRepository) UpdateLastLogin(ctx context.Context, id uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.Officer{}).
		Where("id = ?", id).
		Update("last_login_at", &now).Error
}

// Deactivate soft deletes an officer
func (r *OfficerRepository) Deactivate(ctx context.Context, id uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.Officer{}).
		Where("id = ?", id).
		Update("is_active", false).Error
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&models.Officer{}, id).Error
}

// RefreshTokenRepository handles refresh token data access
type RefreshTokenRepository struct {
	db *gorm.DB
}

// NewRefreshTokenRepository creates a new refresh token repository
func NewRefreshTokenRepository(db *gorm.DB) *RefreshTokenRepository {
	return &RefreshTokenRepository{db: db}
}

// Create creates a new refresh token
func (r *RefreshTokenRepository) Create(ctx context.Context, token *models.RefreshToken) error {
	return r.db.WithContext(ctx).Create(token).Error
}

// GetByTokenHash gets a non-revoked refresh token by its hash
func (r *RefreshTokenRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	err := r.db.WithContext(ctx).
		Where("token_hash = ?", tokenHash).
		Where("revoked_at IS NULL").
		First(&token).Error
	if err != nil {
		return nil, err
	}
	return &token, nil
}

// RevokeByTokenHash revokes a refresh token by its hash
func (r *RefreshTokenRepository) RevokeByTokenHash(ctx context.Context, tokenHash string) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked_at", &now).Error
}

// RevokeAllByOfficerID revokes all refresh tokens for an officer
func (r *RefreshTokenRepository) RevokeAllByOfficerID(ctx context.Context, officerID uint) error {
	now := time.Now()
	return r.db.WithContext(ctx).
		Model(&models.RefreshToken{}).
		Where("officer_id = ?", officerID).
		Where("revoked_at IS NULL").
		Update("revoked_at", &now).Error
}

// DeleteExpired deletes all expired tokens (cleanup job)
func (r *RefreshTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("expires_at < ?", time.Now()).
		Delete(&models.RefreshToken{})
	return result.RowsAffected, result.Error
}
