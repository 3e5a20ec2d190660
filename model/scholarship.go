package model

import (
	"time"

	"gorm.io/gorm"
)

// Scholarship is an award definition. The structured eligibility fields
// (MinGPA, Required*) drive the suitability evaluator; the Requires* flags
// control which submission materials an application must carry. The two are
// independent: a scholarship may set a GPA floor and still demand an essay.
type Scholarship struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Name         string    `gorm:"not null" json:"name"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	Amount       int       `gorm:"not null" json:"amount"`
	Deadline     time.Time `gorm:"type:date;not null" json:"deadline"`
	Requirements string    `gorm:"type:text" json:"requirements"`

	// Structured eligibility fields, all optional
	MinGPA              *float64 `json:"min_gpa,omitempty"`
	RequiredCitizenship *string  `json:"required_citizenship,omitempty"`
	RequiredMajor       *string  `json:"required_major,omitempty"`
	RequiredMinor       *string  `json:"required_minor,omitempty"`

	RequiresEssay      bool `gorm:"not null;default:false" json:"requires_essay"`
	RequiresTranscript bool `gorm:"not null;default:false" json:"requires_transcript"`
	RequiresQuestions  bool `gorm:"not null;default:false" json:"requires_questions"`

	// Relationships
	Applications []Application `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"-"`
}

// HasStructuredRequirements reports whether any structured eligibility
// field is configured. A scholarship without any always evaluates as
// qualified and is left to manual review.
func (s *Scholarship) HasStructuredRequirements() bool {
	return s.MinGPA != nil || s.RequiredCitizenship != nil || s.RequiredMajor != nil || s.RequiredMinor != nil
}

// DeadlinePassed reports whether the deadline fell strictly before today.
func (s *Scholarship) DeadlinePassed(now time.Time) bool {
	deadline := time.Date(s.Deadline.Year(), s.Deadline.Month(), s.Deadline.Day(), 0, 0, 0, 0, time.UTC)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	return deadline.Before(today)
}
