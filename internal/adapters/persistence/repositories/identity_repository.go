package repositories

import (
	"context"
	"errors"

	"sahaayak-api/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// IdentityRepository handles identity registry data access
type IdentityRepository struct {
	db *gorm.DB
}

// NewIdentityRepository creates a new identity repository
func NewIdentityRepository(db *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: db}
}

// WithTx returns a copy of the repository bound to the given transaction
func (r *IdentityRepository) WithTx(tx *gorm.DB) *IdentityRepository {
	return &IdentityRepository{db: tx}
}

// GetByID gets an identity by ID
func (r *IdentityRepository) GetByID(ctx context.Context, id uint) (*models.Identity, error) {
	var identity models.Identity
	err := r.db.WithContext(ctx).First(&identity, id).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// GetByAadhaar gets an identity by Aadhaar number
func (r *IdentityRepository) GetByAadhaar(ctx context.Context, aadhaar string) (*models.Identity, error) {
	var identity models.Identity
	err := r.db.WithContext(ctx).
		Where("aadhaar_number = ?", aadhaar).
		First(&identity).Error
	if err != nil {
		return nil, err
	}
	return &identity, nil
}

// FindOrCreate returns the existing identity for the Aadhaar number or
// creates a new one. Existing rows win: the stored personal details are
// authoritative and a resubmission never overwrites them.
func (r *IdentityRepository) FindOrCreate(ctx context.Context, identity *models.Identity) (*models.Identity, error) {
	existing, err := r.GetByAadhaar(ctx, identity.AadhaarNumber)
	if err == nil {
		return existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if err := r.db.WithContext(ctx).Create(identity).Error; err != nil {
		// Concurrent insert of the same Aadhaar loses the race; re-read
		// the winning row.
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return r.GetByAadhaar(ctx, identity.AadhaarNumber)
		}
		return nil, err
	}
	return identity, nil
}

// Update updates an identity
func (r *IdentityRepository) Update(ctx context.Context, identity *models.Identity) error {
	return r.db.WithContext(ctx).Save(identity).Error
}

// MarkVerified flags identities whose supporting documents passed officer
// verification
func (r *IdentityRepository) MarkVerified(ctx context.Context, ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Identity{}).
		Where("id IN ?", ids).
		Update("is_verified", true).Error
}

// Count counts registered identities
func (r *IdentityRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Identity{}).Count(&count).Error
	return count, err
}
