package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/umsams/umsams-api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Intake errors surfaced to clients as bad requests
var (
	ErrScholarshipNotFound = errors.New("scholarship not found")
	ErrApplicationNotFound = errors.New("application not found")
	ErrDeadlinePassed      = errors.New("the scholarship deadline has passed")
	ErrGPANotMet           = errors.New("applicant does not meet GPA requirement")
	ErrMajorNotMet         = errors.New("applicant does not meet major requirement")
	ErrCitizenshipNotMet   = errors.New("applicant does not meet citizenship requirement")
)

// ApplicationService handles application intake, review upserts and listings
type ApplicationService struct {
	db *gorm.DB
}

// NewApplicationService creates a new application service
func NewApplicationService(db *gorm.DB) *ApplicationService {
	return &ApplicationService{db: db}
}

// CreateApplicationRequest represents an application submission
type CreateApplicationRequest struct {
	UserID        uint
	ScholarshipID uint
	EssayText     *string
	TranscriptURL *string
	Answers       datatypes.JSON
}

// CreateApplication enforces the intake checks and persists a new
// application with status submitted. The deadline gate runs first; the
// GPA, major and citizenship pre-screens only run when both the
// scholarship and the applicant's profile exist. A missing profile skips
// the pre-screen entirely. The required minor is deliberately not checked
// at intake.
func (s *ApplicationService) CreateApplication(ctx context.Context, req CreateApplicationRequest) (*model.Application, error) {
	var scholarship model.Scholarship
	if err := s.db.WithContext(ctx).First(&scholarship, req.ScholarshipID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrScholarshipNotFound
		}
		return nil, fmt.Errorf("failed to fetch scholarship: %w", err)
	}

	if scholarship.DeadlinePassed(time.Now().UTC()) {
		return nil, ErrDeadlinePassed
	}

	var profile model.ApplicantProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", req.UserID).First(&profile).Error
	hasProfile := err == nil
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to fetch applicant profile: %w", err)
	}

	if hasProfile {
		if scholarship.MinGPA != nil {
			if profile.GPA == nil || *profile.GPA < *scholarship.MinGPA {
				return nil, ErrGPANotMet
			}
		}
		if scholarship.RequiredMajor != nil && *scholarship.RequiredMajor != "" {
			if profile.DegreeMajor == "" || !strings.EqualFold(profile.DegreeMajor, *scholarship.RequiredMajor) {
				return nil, ErrMajorNotMet
			}
		}
		if scholarship.RequiredCitizenship != nil && *scholarship.RequiredCitizenship != "" {
			if profile.Citizenship == nil || !strings.EqualFold(*profile.Citizenship, *scholarship.RequiredCitizenship) {
				return nil, ErrCitizenshipNotMet
			}
		}
	}

	application := &model.Application{
		UserID:        req.UserID,
		ScholarshipID: req.ScholarshipID,
		EssayText:     req.EssayText,
		TranscriptURL: req.TranscriptURL,
		Answers:       req.Answers,
		Status:        model.ApplicationStatusSubmitted,
	}

	if err := s.db.WithContext(ctx).Create(application).Error; err != nil {
		return nil, fmt.Errorf("failed to create application: %w", err)
	}

	return application, nil
}

// GetApplication fetches a single application by ID
func (s *ApplicationService) GetApplication(ctx context.Context, applicationID uint) (*model.Application, error) {
	var application model.Application
	if err := s.db.WithContext(ctx).First(&application, applicationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrApplicationNotFound
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}
	return &application, nil
}

// ListApplicationsForUser returns a user's applications, newest first
func (s *ApplicationService) ListApplicationsForUser(ctx context.Context, userID uint) ([]model.Application, error) {
	var applications []model.Application
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// ListApplicationsForReviewer returns the applications assigned to a reviewer, newest first
func (s *ApplicationService) ListApplicationsForReviewer(ctx context.Context, reviewerID uint) ([]model.Application, error) {
	var applications []model.Application
	if err := s.db.WithContext(ctx).
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// ListAllApplications returns every application in the system, newest first
func (s *ApplicationService) ListAllApplications(ctx context.Context) ([]model.Application, error) {
	var applications []model.Application
	if err := s.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to list applications: %w", err)
	}
	return applications, nil
}

// AssignReviewer assigns or reassigns a reviewer to an application
func (s *ApplicationService) AssignReviewer(ctx context.Context, applicationID, reviewerID uint) (*model.Application, error) {
	application, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	application.ReviewerID = &reviewerID
	if err := s.db.WithContext(ctx).Save(application).Error; err != nil {
		return nil, fmt.Errorf("failed to assign reviewer: %w", err)
	}
	return application, nil
}

// UpdateApplicationStatus sets an application's status (e.g., in_review -> accepted)
func (s *ApplicationService) UpdateApplicationStatus(ctx context.Context, applicationID uint, status string) (*model.Application, error) {
	application, err := s.GetApplication(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	application.Status = status
	if err := s.db.WithContext(ctx).Save(application).Error; err != nil {
		return nil, fmt.Errorf("failed to update application status: %w", err)
	}
	return application, nil
}

// UpsertReviewRequest represents a reviewer's assessment of an application
type UpsertReviewRequest struct {
	ApplicationID uint
	ReviewerID    uint
	Score         *int
	Comment       *string
	Status        string
}

// UpsertReview creates or overwrites the review keyed by (application, reviewer)
func (s *ApplicationService) UpsertReview(ctx context.Context, req UpsertReviewRequest) (*model.Review, error) {
	var review model.Review
	err := s.db.WithContext(ctx).
		Where("application_id = ? AND reviewer_id = ?", req.ApplicationID, req.ReviewerID).
		First(&review).Error
	if err != nil && err != gorm.ErrRecordNotFound {
		return nil, fmt.Errorf("failed to fetch review: %w", err)
	}

	review.ApplicationID = req.ApplicationID
	review.ReviewerID = req.ReviewerID
	review.Score = req.Score
	review.Comment = req.Comment
	review.Status = req.Status

	if err := s.db.WithContext(ctx).Save(&review).Error; err != nil {
		return nil, fmt.Errorf("failed to save review: %w", err)
	}
	return &review, nil
}

// ListReviewsForApplication returns an application's reviews, newest first
func (s *ApplicationService) ListReviewsForApplication(ctx context.Context, applicationID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := s.db.WithContext(ctx).
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}

// ListReviewsForReviewer returns a reviewer's reviews, newest first
func (s *ApplicationService) ListReviewsForReviewer(ctx context.Context, reviewerID uint) ([]model.Review, error) {
	var reviews []model.Review
	if err := s.db.WithContext(ctx).
		Where("reviewer_id = ?", reviewerID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	return reviews, nil
}
