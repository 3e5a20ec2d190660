package auth

import (
	"log"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/services"
	authutil "github.com/umsams/umsams-api/utils/auth"
	"github.com/umsams/umsams-api/utils/response"
)

// ForgotPasswordRequest represents a password reset request
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest represents a password reset with token
type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=20"`
}

// forgotPasswordMessage is returned for every forgot-password request so
// that responses never reveal whether an email is registered.
const forgotPasswordMessage = "If the email exists, a password reset link will be sent"

// ForgotPassword handles password reset requests. Email delivery is
// fire-and-forget: the response is identical whether or not the account
// exists or the email goes out.
func (h *AuthHandler) ForgotPassword(c *fiber.Ctx) error {
	var req ForgotPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Email == "" {
		return response.BadRequest(c, "Email is required")
	}

	email := authutil.NormalizeEmail(req.Email)

	var user model.User
	if err := h.db.Where("email = ?", email).First(&user).Error; err != nil {
		return response.Success(c, fiber.Map{
			"message": forgotPasswordMessage,
		})
	}

	resetToken := uuid.New().String()
	expiresAt := time.Now().Add(1 * time.Hour)

	passwordReset := model.PasswordResetToken{
		UserID:    user.ID,
		Token:     resetToken,
		ExpiresAt: expiresAt,
	}

	if err := h.db.Create(&passwordReset).Error; err != nil {
		return response.InternalServerError(c, "Failed to create reset token")
	}

	go func(toEmail, token, name string) {
		emailService := services.NewEmailService()
		if err := emailService.SendPasswordResetEmail(toEmail, token, name); err != nil {
			log.Printf("Failed to send password reset email to %s: %v", toEmail, err)
		}
	}(user.Email, resetToken, user.FirstName)

	return response.Success(c, fiber.Map{
		"message": forgotPasswordMessage,
	})
}

// ResetPassword handles password reset with token
func (h *AuthHandler) ResetPassword(c *fiber.Ctx) error {
	var req ResetPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.Token == "" || req.NewPassword == "" {
		return response.BadRequest(c, "Token and new password are required")
	}

	var resetToken model.PasswordResetToken
	if err := h.db.Where("token = ?", req.Token).First(&resetToken).Error; err != nil {
		return response.BadRequest(c, "Invalid or expired reset token")
	}

	if resetToken.IsExpired() {
		return response.BadRequest(c, "Reset token has expired")
	}

	if resetToken.IsUsed() {
		return response.BadRequest(c, "Reset token has already been used")
	}

	var user model.User
	if err := h.db.First(&user, resetToken.UserID).Error; err != nil {
		return response.BadRequest(c, "User not found")
	}

	hashedPassword, err := authutil.HashPassword(req.NewPassword)
	if err != nil {
		switch err {
		case authutil.ErrPasswordTooShort, authutil.ErrPasswordTooLong, authutil.ErrPasswordTooWeak:
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to process password")
		}
	}

	if err := h.db.Model(&user).Update("password_hash", hashedPassword).Error; err != nil {
		return response.InternalServerError(c, "Failed to update password")
	}

	resetToken.MarkAsUsed()
	h.db.Save(&resetToken)

	return response.Success(c, fiber.Map{
		"message": "Password reset successfully",
	})
}
