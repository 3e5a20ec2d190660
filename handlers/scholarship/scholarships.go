package scholarship

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/utils/response"
	"github.com/umsams/umsams-api/utils/validation"
	"gorm.io/gorm"
)

// ScholarshipHandler handles scholarship CRUD requests
type ScholarshipHandler struct {
	db        *gorm.DB
	validator *validation.Validator
}

// NewScholarshipHandler creates a new scholarship handler
func NewScholarshipHandler(db *gorm.DB) *ScholarshipHandler {
	return &ScholarshipHandler{
		db:        db,
		validator: validation.NewValidator(),
	}
}

// ScholarshipRequest represents a create/update request for a scholarship
type ScholarshipRequest struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Amount       int    `json:"amount" validate:"required,gt=0"`
	Deadline     string `json:"deadline" validate:"required"` // YYYY-MM-DD
	Requirements string `json:"requirements"`

	MinGPA              *float64 `json:"min_gpa,omitempty" validate:"omitempty,gte=0,lte=4"`
	RequiredCitizenship *string  `json:"required_citizenship,omitempty"`
	RequiredMajor       *string  `json:"required_major,omitempty"`
	RequiredMinor       *string  `json:"required_minor,omitempty"`

	RequiresEssay      bool `json:"requires_essay"`
	RequiresTranscript bool `json:"requires_transcript"`
	RequiresQuestions  bool `json:"requires_questions"`
}

func (r *ScholarshipRequest) apply(s *model.Scholarship) error {
	deadline, err := time.Parse("2006-01-02", r.Deadline)
	if err != nil {
		return err
	}

	s.Name = validation.SanitizeString(r.Name)
	s.Description = r.Description
	s.Amount = r.Amount
	s.Deadline = deadline
	s.Requirements = r.Requirements
	s.MinGPA = r.MinGPA
	s.RequiredCitizenship = r.RequiredCitizenship
	s.RequiredMajor = r.RequiredMajor
	s.RequiredMinor = r.RequiredMinor
	s.RequiresEssay = r.RequiresEssay
	s.RequiresTranscript = r.RequiresTranscript
	s.RequiresQuestions = r.RequiresQuestions
	return nil
}

// List returns scholarships with pagination and optional keyword search
// across name and description
func (h *ScholarshipHandler) List(c *fiber.Ctx) error {
	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 20)
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := h.db.Model(&model.Scholarship{})

	if keyword := c.Query("q"); keyword != "" {
		pattern := "%" + keyword + "%"
		query = query.Where("LOWER(name) LIKE LOWER(?) OR LOWER(description) LIKE LOWER(?)", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return response.InternalServerError(c, "Failed to count scholarships")
	}

	var scholarships []model.Scholarship
	if err := query.
		Order("deadline ASC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&scholarships).Error; err != nil {
		return response.InternalServerError(c, "Failed to fetch scholarships")
	}

	return response.Paginated(c, scholarships, response.CalculatePagination(page, limit, total))
}

// Get returns a single scholarship by ID
func (h *ScholarshipHandler) Get(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	var scholarship model.Scholarship
	if err := h.db.First(&scholarship, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	return response.Success(c, scholarship)
}

// Create creates a new scholarship; admins only
func (h *ScholarshipHandler) Create(c *fiber.Ctx) error {
	var req ScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	var scholarship model.Scholarship
	if err := req.apply(&scholarship); err != nil {
		return response.BadRequest(c, "Invalid deadline format, expected YYYY-MM-DD")
	}

	if err := h.db.Create(&scholarship).Error; err != nil {
		return response.InternalServerError(c, "Failed to create scholarship")
	}

	return response.Created(c, scholarship)
}

// Update replaces a scholarship's fields; admins only
func (h *ScholarshipHandler) Update(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	var scholarship model.Scholarship
	if err := h.db.First(&scholarship, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	var req ScholarshipRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(req); err != nil {
		return response.ValidationError(c, err)
	}

	if err := req.apply(&scholarship); err != nil {
		return response.BadRequest(c, "Invalid deadline format, expected YYYY-MM-DD")
	}

	if err := h.db.Save(&scholarship).Error; err != nil {
		return response.InternalServerError(c, "Failed to update scholarship")
	}

	return response.Success(c, scholarship)
}

// Delete removes a scholarship; admins only
func (h *ScholarshipHandler) Delete(c *fiber.Ctx) error {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return response.BadRequest(c, "Invalid scholarship ID")
	}

	var scholarship model.Scholarship
	if err := h.db.First(&scholarship, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return response.NotFound(c, "Scholarship not found")
		}
		return response.InternalServerError(c, "Failed to fetch scholarship")
	}

	if err := h.db.Delete(&scholarship).Error; err != nil {
		return response.InternalServerError(c, "Failed to delete scholarship")
	}

	return response.NoContent(c)
}
