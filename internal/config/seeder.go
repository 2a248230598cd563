package config

import (
	"log"

	"sahaayak-api/internal/adapters/persistence/models"
	"sahaayak-api/internal/pkg/password"

	"gorm.io/gorm"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminOfficer(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminOfficer seeds the default admin account for development.
// In production, create admin accounts through a secure process.
func (s *Seeder) seedAdminOfficer() error {
	var count int64
	s.db.Model(&models.Officer{}).Where("role = ?", models.RoleAdmin).Count(&count)
	if count > 0 {
		return nil
	}

	hashedPassword, err := password.Hash(getEnv("ADMIN_PASSWORD", "admin123456"))
	if err != nil {
		return err
	}

	admin := &models.Officer{
		EmployeeID:  "OFFADM0001",
		FullName:    "System Administrator",
		Email:       getEnv("ADMIN_EMAIL", "admin@sahaayak.gov.in"),
		Password:    hashedPassword,
		Department:  "Administration",
		Designation: "Administrator",
		Role:        models.RoleAdmin,
		IsActive:    true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin officer created: %s", admin.EmployeeID)
	return nil
}
