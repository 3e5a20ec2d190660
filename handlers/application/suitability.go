package application

import (
	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/utils/response"
	"gorm.io/gorm"
)

// Suitability evaluates one application's eligibility against its
// scholarship; reviewers and admins only
func (h *ApplicationHandler) Suitability(c *fiber.Ctx) error {
	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	result, err := h.suitability.EvaluateApplication(c.Context(), uint(applicationID))
	if err != nil {
		return response.InternalServerError(c, "Failed to evaluate suitability")
	}
	if result == nil {
		return response.NotFound(c, "Application not found")
	}

	return response.Success(c, result)
}

// SuitabilityReport evaluates every application against one scholarship;
// admins only
func (h *ApplicationHandler) SuitabilityReport(c *fiber.Ctx) error {
	scholarshipID, err := c.ParamsInt("id")
	if err != nil || scholarshipID <= 0 {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	var scholarship model.Scholarship
	if err := h.db.First(&scholarship, scholarshipID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	results, err := h.suitability.ScholarshipReport(c.Context(), uint(scholarshipID))
	if err != nil {
		return response.InternalServerError(c, "Failed to build suitability report")
	}

	return response.Success(c, fiber.Map{
		"scholarship_id":              scholarship.ID,
		"has_structured_requirements": scholarship.HasStructuredRequirements(),
		"results":                     results,
	})
}
