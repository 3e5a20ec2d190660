package application

import (
	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/services"
	"github.com/umsams/umsams-api/utils/middleware"
	"github.com/umsams/umsams-api/utils/response"
)

// UpsertReviewRequest represents a reviewer's assessment submission
type UpsertReviewRequest struct {
	Score   *int    `json:"score,omitempty" validate:"omitempty,gte=0,lte=100"`
	Comment *string `json:"comment,omitempty"`
	Status  string  `json:"status" validate:"required,oneof=in_review accepted rejected"`
}

// UpsertReview creates or overwrites the authenticated reviewer's review
// for an application
func (h *ApplicationHandler) UpsertReview(c *fiber.Ctx) error {
	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	var req UpsertReviewRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// The application must exist before any review is attached
	if _, err := h.applications.GetApplication(c.Context(), uint(applicationID)); err != nil {
		if err == services.ErrApplicationNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	review, err := h.applications.UpsertReview(c.Context(), services.UpsertReviewRequest{
		ApplicationID: uint(applicationID),
		ReviewerID:    reviewerID,
		Score:         req.Score,
		Comment:       req.Comment,
		Status:        req.Status,
	})
	if err != nil {
		return response.InternalServerError(c, "Failed to save review")
	}

	return response.Success(c, review)
}

// ListReviews returns an application's reviews; reviewers and admins only
func (h *ApplicationHandler) ListReviews(c *fiber.Ctx) error {
	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	reviews, err := h.applications.ListReviewsForApplication(c.Context(), uint(applicationID))
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch reviews")
	}

	return response.Success(c, reviews)
}

// ListMyReviews returns the authenticated reviewer's reviews
func (h *ApplicationHandler) ListMyReviews(c *fiber.Ctx) error {
	reviewerID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	reviews, err := h.applications.ListReviewsForReviewer(c.Context(), reviewerID)
	if err != nil {
		return response.InternalServerError(c, "Failed to fetch reviews")
	}

	return response.Success(c, reviews)
}
