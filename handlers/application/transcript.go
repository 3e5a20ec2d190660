package application

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/services"
	"github.com/umsams/umsams-api/services/storage"
	"github.com/umsams/umsams-api/utils/middleware"
	"github.com/umsams/umsams-api/utils/pdfvalidation"
	"github.com/umsams/umsams-api/utils/response"
)

// Objects are uploaded private; reads go through short-lived presigned URLs.
const transcriptURLTTL = 15 * time.Minute

// UploadTranscript validates a transcript PDF and stores it in object
// storage, attaching the object key to the applicant's application. A
// re-upload replaces the previous object.
func (h *ApplicationHandler) UploadTranscript(c *fiber.Ctx) error {
	if h.spaces == nil {
		return response.ServiceUnavailable(c, "File storage is not configured")
	}

	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	application, err := h.applications.GetApplication(c.Context(), uint(applicationID))
	if err != nil {
		if err == services.ErrApplicationNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	if application.UserID != userID {
		return response.Forbidden(c, "Insufficient permissions")
	}

	file, err := c.FormFile("transcript")
	if err != nil {
		return response.BadRequest(c, "Transcript file is required")
	}

	result, err := pdfvalidation.ValidatePDFFile(file, pdfvalidation.TranscriptLimits)
	if err != nil {
		return response.InternalServerError(c, "Failed to validate transcript")
	}
	if !result.Valid {
		return response.BadRequest(c, result.Error)
	}

	fileContent, err := file.Open()
	if err != nil {
		return response.InternalServerError(c, "Failed to open transcript")
	}
	defer fileContent.Close()

	key := storage.GenerateKey(fmt.Sprintf("transcripts/%d", userID), file.Filename)
	if err := h.spaces.UploadFile(c.Context(), key, fileContent, storage.GetContentType(file.Filename)); err != nil {
		return response.InternalServerError(c, "Failed to upload transcript")
	}

	// Best effort: remove the object being replaced
	if old := application.TranscriptURL; old != nil && isStorageKey(*old) {
		if err := h.spaces.DeleteFile(c.Context(), *old); err != nil {
			log.Printf("Failed to delete replaced transcript %s: %v", *old, err)
		}
	}

	application.TranscriptURL = &key
	if err := h.db.Save(application).Error; err != nil {
		return response.InternalServerError(c, "Failed to attach transcript")
	}

	url, err := h.spaces.GetPresignedURL(key, transcriptURLTTL)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate transcript URL")
	}

	return response.Success(c, fiber.Map{
		"transcript_url": url,
		"expires_in":     int(transcriptURLTTL.Seconds()),
		"page_count":     result.PageCount,
	})
}

// GetTranscript returns a readable URL for an application's transcript.
// Applicants may only fetch their own; reviewers and admins may fetch any.
// Stored object keys are presigned; externally supplied URLs are returned
// as-is.
func (h *ApplicationHandler) GetTranscript(c *fiber.Ctx) error {
	applicationID, err := c.ParamsInt("id")
	if err != nil || applicationID <= 0 {
		return response.BadRequest(c, "Invalid application ID")
	}

	user, ok := middleware.GetUser(c)
	if !ok {
		return response.Unauthorized(c, "Not authenticated")
	}

	application, err := h.applications.GetApplication(c.Context(), uint(applicationID))
	if err != nil {
		if err == services.ErrApplicationNotFound {
			return response.NotFound(c, "Application not found")
		}
		return response.InternalServerError(c, "Failed to fetch application")
	}

	if user.Role == model.RoleApplicant && application.UserID != user.ID {
		return response.Forbidden(c, "Insufficient permissions")
	}

	if application.TranscriptURL == nil {
		return response.NotFound(c, "No transcript attached")
	}

	reference := *application.TranscriptURL
	if !isStorageKey(reference) {
		return response.Success(c, fiber.Map{"transcript_url": reference})
	}

	if h.spaces == nil {
		return response.ServiceUnavailable(c, "File storage is not configured")
	}

	url, err := h.spaces.GetPresignedURL(reference, transcriptURLTTL)
	if err != nil {
		return response.InternalServerError(c, "Failed to generate transcript URL")
	}

	return response.Success(c, fiber.Map{
		"transcript_url": url,
		"expires_in":     int(transcriptURLTTL.Seconds()),
	})
}

// isStorageKey distinguishes our object keys from externally supplied
// transcript URLs.
func isStorageKey(reference string) bool {
	return !strings.HasPrefix(reference, "http://") && !strings.HasPrefix(reference, "https://")
}
