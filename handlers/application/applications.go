package application

import (
	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/services"
	"github.com/umsams/umsams-api/services/storage"
	"github.com/umsams/umsams-api/utils/middleware"
	"github.com/umsams/umsams-api/utils/response"
	"github.com/umsams/umsams-api/utils/validation"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ApplicationHandler handles application, review and suitability requests
type ApplicationHandler struct {
	db           *gorm.DB
	applications *services.ApplicationService
	suitability  *services.SuitabilityService
	spaces       *storage.SpacesClient
	validator    *validation.Validator
}

// NewApplicationHandler creates a new application handler. The storage
// client may be nil when object storage is not configured; transcript
// uploads are then rejected.
func NewApplicationHandler(db *gorm.DB, spaces *storage.SpacesClient) *ApplicationHandler {
	return &ApplicationHandler{
		db:           db,
		applications: services.NewApplicationService(db),
		suitability:  services.NewSuitabilityService(db),
		spaces:       spaces,
		validator:    validation.NewValidator(),
	}
}

// CreateApplicationRequest represents an application submission
type CreateApplicationRequest struct {
	ScholarshipID uint           `json:"scholarship_id" validate:"required"`
	EssayText     *string        `json:"essay_text,omitempty"`
	TranscriptURL *string        `json:"transcript_url,omitempty"`
	Answers       datatypes.JSON `json:"answers,omitempty"`
}

// UpdateStatusRequest sets an application's status
type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=submitted in_review accepted rejected"`
}

// AssignReviewerRequest assigns a reviewer to an application
type AssignReviewerRequest struct {
	ReviewerID uint `json:"reviewer_id" validate:"required"`
}

// Create submits a new application for the authenticated applicant
func (h *ApplicationHandler) Create(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req CreateApplicationRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	application, err := h.applications.CreateApplication(c.Context(), services.CreateApplicationRequest{
		UserID:        userID,
		ScholarshipID: req.ScholarshipID,
		EssayText:     req.EssayText,
		TranscriptURL: req.TranscriptURL,
		Answers:       req.Answers,
	})
	if err != nil {
		switch err {
		case services.ErrScholarshipNotFound:
			return response.NotFound(c, "Scholarship not found")
		case services.ErrDeadlinePassed, services.ErrGPANotMet, services.ErrMajorNotMet, services.ErrCitizenshipNotMet:
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to create application")
		}
	}

	return response.Created(c, application)
}

// ListMine returns the authenticated user's applications
func (h *ApplicationHandler) ListMine(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	applications, err := h.applications.ListApplicationsForUser(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, applications)
}

// ListAll returns every application; admins only
func (h *ApplicationHandler) ListAll(c *fiber.Ctx) error {
	applications, err := h.applications.ListAllApplications(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, applications)
}

// ListAssigned returns the applications assigned to the authenticated reviewer
func (h *ApplicationHandler) ListAssigned(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	applications, err := h.applications.ListApplicationsForReviewer(c.Context(), userID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch applications")
	}

	return response.Success(c, applications)
}

// Get returns a single application. Applicants may only read their own;
// reviewers and admins may read any.
func (h *ApplicationHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	application, err := h.applications.GetApplication(c.Context(), uint(id))
	if err != nil {
		if err == services.ErrApplicationNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	if user.Role == model.RoleApplicant && application.UserID != user.ID {
		return response.Forbidden(c, "Insufficient permissions")
	}

	return response.Success(c, application)
}

// AssignReviewer assigns a reviewer to an application; admins only
func (h *ApplicationHandler) AssignReviewer(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req AssignReviewerRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// The reviewer must exist and hold the reviewer role
	var reviewer model.User
	if err := h.db.First(&reviewer, req.ReviewerID).Error; err != nil {
		return response.NotFound(c, "Reviewer not found")
	}
	if reviewer.Role != model.RoleReviewer && reviewer.Role != model.RoleAdmin {
		return response.BadRequest(c, "User is not a reviewer")
	}

	application, err := h.applications.AssignReviewer(c.Context(), uint(id), req.ReviewerID)
	if err != nil {
		if err == services.ErrApplicationNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to assign reviewer")
	}

	return response.Success(c, application)
}

// UpdateStatus sets an application's status; reviewers and admins only
func (h *ApplicationHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	application, err := h.applications.UpdateApplicationStatus(c.Context(), uint(id), req.Status)
	if err != nil {
		if err == services.ErrApplicationNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to update application status")
	}

	return response.Success(c, application)
}
