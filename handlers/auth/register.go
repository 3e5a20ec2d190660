package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/model"
	authutil "github.com/umsams/umsams-api/utils/auth"
	"github.com/umsams/umsams-api/utils/middleware"
	"github.com/umsams/umsams-api/utils/response"
	"github.com/umsams/umsams-api/utils/validation"
	"gorm.io/gorm"
)

// AuthHandler handles authentication-related requests
type AuthHandler struct {
	db                   *gorm.DB
	jwtManager           *authutil.JWTManager
	validator            *validation.Validator
	bruteForceProtection *middleware.BruteForceProtection
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(db *gorm.DB, jwtManager *authutil.JWTManager, bruteForceProtection *middleware.BruteForceProtection) *AuthHandler {
	return &AuthHandler{
		db:                   db,
		jwtManager:           jwtManager,
		validator:            validation.NewValidator(),
		bruteForceProtection: bruteForceProtection,
	}
}

// RegisterRequest represents a user registration request
type RegisterRequest struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required,min=8,max=20"`
	FirstName string `json:"first_name" validate:"required,min=1"`
	LastName  string `json:"last_name" validate:"required,min=1"`
	Role      string `json:"role,omitempty"` // Optional, defaults to "applicant"
}

// RegisterResponse represents a successful registration response
type RegisterResponse struct {
	User    UserResponse `json:"user"`
	Message string       `json:"message,omitempty"`
}

// UserResponse represents user data in responses
type UserResponse struct {
	ID        uint      `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		FirstName: user.FirstName,
		LastName:  user.LastName,
		Role:      user.Role,
		IsActive:  user.IsActive,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
}

// Register handles user registration. Reviewer and admin accounts are
// created inactive and need an administrator to activate them.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	// Set default role if not provided
	if req.Role == "" {
		req.Role = model.RoleApplicant
	}

	if !model.IsValidRole(req.Role) {
		return response.BadRequest(c, "Invalid role")
	}

	email := authutil.NormalizeEmail(req.Email)

	// Check if user already exists. Soft-deleted users still hold the
	// unique index on email, so the check must see them too.
	var existingUser model.User
	if err := h.db.Unscoped().Where("email = ?", email).First(&existingUser).Error; err == nil {
		return response.BadRequest(c, "Email already registered")
	}

	// Hash password; this also enforces the password policy
	hashedPassword, err := authutil.HashPassword(req.Password)
	if err != nil {
		switch err {
		case authutil.ErrPasswordTooShort, authutil.ErrPasswordTooLong, authutil.ErrPasswordTooWeak:
			return response.BadRequest(c, err.Error())
		default:
			return response.InternalServerError(c, "Failed to process password")
		}
	}

	user := model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		FirstName:    validation.SanitizeString(req.FirstName),
		LastName:     validation.SanitizeString(req.LastName),
		Role:         req.Role,
		IsActive:     !model.RequiresApproval(req.Role),
	}

	if err := h.db.Create(&user).Error; err != nil {
		return response.InternalServerError(c, "Failed to create user")
	}

	res := RegisterResponse{
		User: toUserResponse(&user),
	}
	if !user.IsActive {
		res.Message = "Account created. An administrator must activate it before you can sign in."
	}

	return response.Created(c, res)
}
