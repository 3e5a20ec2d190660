package response

import (
	"github.com/gofiber/fiber/v2"
)

// Response is the envelope every endpoint returns: success flag, optional
// message, payload on success, error detail on failure.
type Response struct {
	Success bool         `json:"success"`
	Message string       `json:"message,omitempty"`
	Data    interface{}  `json:"data,omitempty"`
	Error   *ErrorDetail `json:"error,omitempty"`
}

// ErrorDetail carries the machine-readable code alongside the human message.
type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

// PaginationMeta describes one page of a list response.
type PaginationMeta struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
}

// PaginatedResponse is the envelope for list endpoints.
type PaginatedResponse struct {
	Success    bool           `json:"success"`
	Message    string         `json:"message,omitempty"`
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

func fail(c *fiber.Ctx, statusCode int, code, message, details string) error {
	detail := &ErrorDetail{
		Code:    code,
		Message: message,
		Details: details,
	}
	return c.Status(statusCode).JSON(Response{
		Success: false,
		Error:   detail,
	})
}

// Success returns a 200 with the payload.
func Success(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Data:    data,
	})
}

// SuccessWithMessage returns a 200 with a message and the payload.
func SuccessWithMessage(c *fiber.Ctx, message string, data interface{}) error {
	return c.Status(fiber.StatusOK).JSON(Response{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Created returns a 201 with the created resource.
func Created(c *fiber.Ctx, data interface{}) error {
	return c.Status(fiber.StatusCreated).JSON(Response{
		Success: true,
		Message: "Resource created successfully",
		Data:    data,
	})
}

// NoContent returns a bare 204.
func NoContent(c *fiber.Ctx) error {
	return c.SendStatus(fiber.StatusNoContent)
}

// BadRequest covers malformed bodies, duplicate registrations and rejected
// intake attempts; the message carries the specific reason.
func BadRequest(c *fiber.Ctx, message string) error {
	return fail(c, fiber.StatusBadRequest, "INVALID_REQUEST", message, "")
}

// Unauthorized means the caller is not authenticated: missing, expired,
// malformed, or wrong-kind credential.
func Unauthorized(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Authentication required"
	}
	return fail(c, fiber.StatusUnauthorized, "UNAUTHENTICATED", message, "")
}

// Forbidden means the caller is authenticated but the role gate failed.
func Forbidden(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Insufficient permissions"
	}
	return fail(c, fiber.StatusForbidden, "FORBIDDEN", message, "")
}

// NotFound means the referenced entity does not exist.
func NotFound(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Resource not found"
	}
	return fail(c, fiber.StatusNotFound, "NOT_FOUND", message, "")
}

// TooManyRequests is returned by the rate limiter and the login lockout.
func TooManyRequests(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Too many requests"
	}
	return fail(c, fiber.StatusTooManyRequests, "RATE_LIMIT_EXCEEDED", message, "")
}

// ValidationError returns a 422 with the field-level failures as details.
func ValidationError(c *fiber.Ctx, err error) error {
	return fail(c, fiber.StatusUnprocessableEntity,
		"VALIDATION_FAILED", "Validation failed", err.Error())
}

// InternalServerError returns a 500. Internal causes are logged, not echoed.
func InternalServerError(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Internal server error"
	}
	return fail(c, fiber.StatusInternalServerError, "INTERNAL_ERROR", message, "")
}

// ServiceUnavailable covers degraded optional infrastructure, e.g. the
// transcript store being unconfigured.
func ServiceUnavailable(c *fiber.Ctx, message string) error {
	if message == "" {
		message = "Service temporarily unavailable"
	}
	return fail(c, fiber.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", message, "")
}

// Paginated returns a 200 list page.
func Paginated(c *fiber.Ctx, data interface{}, pagination PaginationMeta) error {
	return c.Status(fiber.StatusOK).JSON(PaginatedResponse{
		Success:    true,
		Data:       data,
		Pagination: pagination,
	})
}

// CalculatePagination normalizes page/limit and derives the page count.
// Limit is clamped to 100.
func CalculatePagination(page, limit int, total int64) PaginationMeta {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	totalPages := int(total) / limit
	if int(total)%limit > 0 {
		totalPages++
	}

	return PaginationMeta{
		CurrentPage: page,
		PerPage:     limit,
		Total:       total,
		TotalPages:  totalPages,
	}
}
