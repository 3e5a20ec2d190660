package applicant

import (
	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/utils/middleware"
	"github.com/umsams/umsams-api/utils/response"
	"github.com/umsams/umsams-api/utils/validation"
	"gorm.io/gorm"
)

// ProfileHandler handles applicant profile requests
type ProfileHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(db *gorm.DB) *ProfileHandler {
	return &ProfileHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// ProfileResponse wraps a profile with its completeness flag; incomplete
// profiles are routed back to onboarding by the client.
type ProfileResponse struct {
	model.ApplicantProfile
	IsComplete bool `json:"is_complete"`
}

func toProfileResponse(profile model.ApplicantProfile) ProfileResponse {
	return ProfileResponse{
		ApplicantProfile: profile,
		IsComplete:       profile.IsComplete(),
	}
}

// ProfileRequest represents a create/update request for an applicant profile
type ProfileRequest struct {
	StudentID   string   `json:"student_id" validate:"required"`
	NetID       string   `json:"netid" validate:"required"`
	DegreeMajor string   `json:"degree_major" validate:"required"`
	DegreeMinor *string  `json:"degree_minor,omitempty"`
	GPA         *float64 `json:"gpa,omitempty" validate:"omitempty,gte=0,lte=4"`
	Citizenship *string  `json:"citizenship,omitempty"`

	AcademicAchievements string `json:"academic_achievements"`
	FinancialInformation string `json:"financial_information"`
	WrittenEssays        string `json:"written_essays"`
}

// CreateOrUpdate upserts the authenticated applicant's profile
func (h *ProfileHandler) CreateOrUpdate(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req ProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var profile model.ApplicantProfile
	err := h.db.Where("user_id = ?", userID).First(&profile).Error
	isNew := err == gorm.ErrRecordNotFound
	if err != nil && !isNew {
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	profile.UserID = userID
	profile.StudentID = validation.SanitizeString(req.StudentID)
	profile.NetID = validation.SanitizeString(req.NetID)
	profile.DegreeMajor = validation.SanitizeString(req.DegreeMajor)
	profile.DegreeMinor = req.DegreeMinor
	profile.GPA = req.GPA
	profile.Citizenship = req.Citizenship
	profile.AcademicAchievements = req.AcademicAchievements
	profile.FinancialInformation = req.FinancialInformation
	profile.WrittenEssays = req.WrittenEssays

	if err := h.db.Save(&profile).Error; err != nil {
		return response.InternalServerError(c, "Failed to save profile")
	}

	if isNew {
		return response.Created(c, toProfileResponse(profile))
	}
	return response.Success(c, toProfileResponse(profile))
}

// GetMine returns the authenticated applicant's profile
func (h *ProfileHandler) GetMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var profile model.ApplicantProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Profile not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	return response.Success(c, toProfileResponse(profile))
}

// GetByUserID returns any user's profile; reviewers and admins only
func (h *ProfileHandler) GetByUserID(c *fiber.Ctx) error {
	userID, err := c.ParamsInt("user_id")
	if err != nil || userID <= 0 {
		return response.BadRequest(c, "Invalid user ID")
	}

	var profile model.ApplicantProfile
	if err := h.db.Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Profile not found")
		}
		return response.InternalServerError(c, "Failed to fetch profile")
	}

	return response.Success(c, toProfileResponse(profile))
}
