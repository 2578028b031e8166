package config

import (
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"ictclub-portal/internal/adapters/persistence/models"
	"ictclub-portal/internal/core/domain"
	"ictclub-portal/internal/pkg/password"
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
	logrus.Info("🌱 Running database seeders...")

	if err := s.seedDepartments(); err != nil {
		return err
	}
	if err := s.seedAdminUser(); err != nil {
		logrus.WithError(err).Warn("Admin seeder skipped")
	}

	logrus.Info("✅ Database seeding completed")
	return nil
}

// seedDepartments seeds the club departments
func (s *Seeder) seedDepartments() error {
	departments := []models.Department{
		{Name: "Programming", Slug: "programming"},
		{Name: "Cybersecurity", Slug: "cybersecurity"},
		{Name: "Networking", Slug: "networking"},
		{Name: "Computer Maintenance", Slug: "maintenance"},
		{Name: "Graphic Design", Slug: "design"},
		{Name: "AI & Machine Learning", Slug: "ai_ml"},
	}

	for _, dept := range departments {
		var count int64
		s.db.Model(&models.Department{}).Where("slug = ?", dept.Slug).Count(&count)
		if count > 0 {
			continue
		}
		if err := s.db.Create(&dept).Error; err != nil {
			return err
		}
	}

	return nil
}

// seedAdminUser seeds default admin user
// This is for development/testing only
// In production, create admin through secure process
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	// Admins are always approved members
	admin := &models.User{
		RegNumber:      "ADMIN001",
		Email:          "mwecauictclub@gmail.com",
		Password:       hashedPassword,
		FullName:       "Portal Administrator",
		Role:           domain.RoleAdmin,
		ApprovalStatus: domain.ApprovalApproved,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	logrus.WithField("email", admin.Email).Info("✅ Admin user created")
	return nil
}
