package model

import (
	"time"

	"gorm.io/gorm"
)

// ApplicantProfile is the one-to-one academic extension of an applicant User.
// GPA and DegreeMinor are pointers: absent values are meaningful to the
// suitability evaluator and must not collapse to zero values.
type ApplicantProfile struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`

	StudentID   string   `gorm:"not null" json:"student_id"`
	NetID       string   `gorm:"not null" json:"netid"`
	DegreeMajor string   `gorm:"not null" json:"degree_major"`
	DegreeMinor *string  `json:"degree_minor,omitempty"`
	GPA         *float64 `json:"gpa,omitempty"`
	Citizenship *string  `json:"citizenship,omitempty"`

	AcademicAchievements string `gorm:"type:text" json:"academic_achievements"`
	FinancialInformation string `gorm:"type:text" json:"financial_information"`
	WrittenEssays        string `gorm:"type:text" json:"written_essays"`

	// Relationships
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for ApplicantProfile
func (ApplicantProfile) TableName() string {
	return "applicant_profiles"
}

// IsComplete reports whether the profile has everything onboarding requires:
// student id, net id, major, and a GPA.
func (p *ApplicantProfile) IsComplete() bool {
	return p.StudentID != "" && p.NetID != "" && p.DegreeMajor != "" && p.GPA != nil
}
