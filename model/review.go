package model

import (
	"time"

	"gorm.io/gorm"
)

// Review statuses mirror the reviewer's own verdict for one application.
const (
	ReviewStatusInReview = "in_review"
	ReviewStatusAccepted = "accepted"
	ReviewStatusRejected = "rejected"
)

// Review is a reviewer's assessment of one application, unique per
// (application, reviewer) pair. A second submission from the same reviewer
// overwrites the first.
type Review struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	ApplicationID uint `gorm:"uniqueIndex:idx_reviews_application_reviewer;not null" json:"application_id"`
	ReviewerID    uint `gorm:"uniqueIndex:idx_reviews_application_reviewer;not null" json:"reviewer_id"`

	Score   *int    `json:"score,omitempty"` // null until the reviewer submits one
	Comment *string `gorm:"type:text" json:"comment,omitempty"`
	Status  string  `gorm:"type:varchar(20);not null;default:'in_review'" json:"status"`

	// Relationships
	Application Application `gorm:"foreignKey:ApplicationID;constraint:OnDelete:CASCADE" json:"-"`
	Reviewer    User        `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"-"`
}
