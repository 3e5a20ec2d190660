package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Application statuses. The status field carries no transition graph: any
// authorized caller may set any value at any time.
const (
	ApplicationStatusSubmitted = "submitted"
	ApplicationStatusInReview  = "in_review"
	ApplicationStatusAccepted  = "accepted"
	ApplicationStatusRejected  = "rejected"
)

// Application links a User to a Scholarship they applied for.
type Application struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	UserID        uint `gorm:"index;not null" json:"user_id"`
	ScholarshipID uint `gorm:"index;not null" json:"scholarship_id"`

	// Optional materials, only used if the scholarship requires them.
	// TranscriptURL holds either an external URL or an object storage key
	// for an uploaded transcript.
	EssayText     *string        `gorm:"type:text" json:"essay_text,omitempty"`
	TranscriptURL *string        `json:"transcript_url,omitempty"`
	Answers       datatypes.JSON `json:"answers,omitempty"`

	// Assigned reviewer, nullable until assigned
	ReviewerID *uint `gorm:"index" json:"reviewer_id,omitempty"`

	Status string `gorm:"type:varchar(20);not null;default:'submitted'" json:"status"`

	// Relationships
	User        User        `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Scholarship Scholarship `gorm:"foreignKey:ScholarshipID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews     []Review    `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
}
