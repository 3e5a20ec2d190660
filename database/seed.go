package database

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	if err := s.SeedAdminUser(); err != nil {
		return fmt.Errorf("failed to seed admin user: %w", err)
	}

	if err := s.SeedScholarships(); err != nil {
		return fmt.Errorf("failed to seed scholarships: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedAdminUser creates the default admin user
func (s *Seeder) SeedAdminUser() error {
	var count int64
	if err := s.db.Model(&model.User{}).Where("role = ?", model.RoleAdmin).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Admin user already exists, skipping...")
		return nil
	}

	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminEmail == "" || adminPassword == "" {
		log.Println("⚠️  ADMIN_EMAIL and ADMIN_PASSWORD environment variables not set, skipping admin user creation")
		return nil
	}

	passwordHash, err := auth.HashPassword(adminPassword)
	if err != nil {
		return err
	}

	admin := model.User{
		Email:        strings.ToLower(adminEmail),
		PasswordHash: passwordHash,
		FirstName:    "Scholarship",
		LastName:     "Admin",
		Role:         model.RoleAdmin,
		IsActive:     true,
	}

	if err := s.db.Create(&admin).Error; err != nil {
		return err
	}

	log.Printf("👤 Created admin user %s", admin.Email)
	return nil
}

// SeedScholarships creates a handful of sample awards so a fresh install
// has something to browse.
func (s *Seeder) SeedScholarships() error {
	var count int64
	if err := s.db.Model(&model.Scholarship{}).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Scholarships already exist, skipping...")
		return nil
	}

	minGPA := 3.0
	csMajor := "Computer Science"
	usCitizen := "USA"
	deadline := time.Now().AddDate(0, 3, 0)

	scholarships := []model.Scholarship{
		{
			Name:          "Engineering Excellence Award",
			Description:   "Merit award for high-achieving engineering undergraduates.",
			Amount:        5000,
			Deadline:      deadline,
			Requirements:  "Transcript and a short essay on your engineering goals.",
			MinGPA:        &minGPA,
			RequiresEssay: true, RequiresTranscript: true,
		},
		{
			Name:                "CS Futures Scholarship",
			Description:         "Supports computer science majors entering their junior year.",
			Amount:              3000,
			Deadline:            deadline,
			RequiredMajor:       &csMajor,
			RequiredCitizenship: &usCitizen,
			RequiresQuestions:   true,
		},
		{
			Name:        "Community Impact Grant",
			Description: "Open award reviewed manually from free-text materials.",
			Amount:      1500,
			Deadline:    deadline,
		},
	}

	if err := s.db.Create(&scholarships).Error; err != nil {
		return err
	}

	log.Printf("🎓 Seeded %d scholarships", len(scholarships))
	return nil
}
