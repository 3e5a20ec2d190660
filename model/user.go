package model

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleApplicant    = "applicant"
	RoleReviewer     = "reviewer"
	RoleSponsorDonor = "sponsor_donor"
	RoleSteward      = "steward"
	RoleAdmin        = "admin"
)

// ValidRoles lists every role the system accepts at registration
var ValidRoles = []string{RoleApplicant, RoleReviewer, RoleSponsorDonor, RoleSteward, RoleAdmin}

// User represents a registered user in the system
type User struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
	Email        string         `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string         `gorm:"not null" json:"-"` // Never expose password in JSON
	FirstName    string         `json:"first_name"`
	LastName     string         `json:"last_name"`
	Role         string         `gorm:"type:varchar(20);default:'applicant'" json:"role"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`

	// Relationships
	Profile       *ApplicantProfile `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"profile,omitempty"`
	Applications  []Application     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Reviews       []Review          `gorm:"foreignKey:ReviewerID;constraint:OnDelete:CASCADE" json:"-"`
	Notifications []Notification    `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// IsValidRole reports whether role is one of the known user roles
func IsValidRole(role string) bool {
	for _, r := range ValidRoles {
		if r == role {
			return true
		}
	}
	return false
}

// RequiresApproval reports whether accounts with this role start inactive
// and need an administrator to activate them.
func RequiresApproval(role string) bool {
	return role == RoleReviewer || role == RoleAdmin
}
