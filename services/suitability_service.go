package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/umsams/umsams-api/model"
	"gorm.io/gorm"
)

// Suitability verdicts
const (
	VerdictQualified   = "qualified"
	VerdictUnqualified = "unqualified"
	VerdictUnknown     = "unknown"
)

// SuitabilityResult holds the verdict for one application along with the
// human-readable notes explaining each rule's outcome. Note order is
// significant: GPA, citizenship, major, minor.
type SuitabilityResult struct {
	ApplicationID uint     `json:"application_id,omitempty"`
	Status        string   `json:"status"`
	Notes         []string `json:"notes"`
}

// SuitabilityService evaluates applicant profiles against scholarship requirements
type SuitabilityService struct {
	db *gorm.DB
}

// NewSuitabilityService creates a new suitability service
func NewSuitabilityService(db *gorm.DB) *SuitabilityService {
	return &SuitabilityService{db: db}
}

// Evaluate runs the eligibility rules for a profile against a scholarship.
// Either input may be nil, in which case the verdict is unknown.
func Evaluate(profile *model.ApplicantProfile, scholarship *model.Scholarship) SuitabilityResult {
	if scholarship == nil || profile == nil {
		return SuitabilityResult{
			Status: VerdictUnknown,
			Notes:  []string{"Missing scholarship or applicant profile data."},
		}
	}

	notes := []string{}
	qualified := true

	if scholarship.MinGPA != nil {
		if profile.GPA != nil && *profile.GPA >= *scholarship.MinGPA {
			notes = append(notes, fmt.Sprintf("Meets GPA requirement (%s ≥ %s).",
				formatGPA(*profile.GPA), formatGPA(*scholarship.MinGPA)))
		} else {
			qualified = false
			gpa := "N/A"
			if profile.GPA != nil {
				gpa = formatGPA(*profile.GPA)
			}
			notes = append(notes, fmt.Sprintf("Below GPA requirement (%s < %s).",
				gpa, formatGPA(*scholarship.MinGPA)))
		}
	}

	if scholarship.RequiredCitizenship != nil && *scholarship.RequiredCitizenship != "" {
		if profile.Citizenship != nil && strings.EqualFold(*profile.Citizenship, *scholarship.RequiredCitizenship) {
			notes = append(notes, "Citizenship matches requirement.")
		} else {
			qualified = false
			citizenship := "N/A"
			if profile.Citizenship != nil && *profile.Citizenship != "" {
				citizenship = *profile.Citizenship
			}
			notes = append(notes, fmt.Sprintf("Citizenship does not match requirement (%s ≠ %s).",
				citizenship, *scholarship.RequiredCitizenship))
		}
	}

	if scholarship.RequiredMajor != nil && *scholarship.RequiredMajor != "" {
		if profile.DegreeMajor != "" && strings.EqualFold(profile.DegreeMajor, *scholarship.RequiredMajor) {
			notes = append(notes, "Major matches requirement.")
		} else {
			qualified = false
			notes = append(notes, "Major does not match requirement.")
		}
	}

	// Minor is advisory only: a mismatch is noted but never disqualifies.
	if scholarship.RequiredMinor != nil && *scholarship.RequiredMinor != "" {
		if profile.DegreeMinor != nil && strings.EqualFold(*profile.DegreeMinor, *scholarship.RequiredMinor) {
			notes = append(notes, "Minor matches requirement.")
		} else {
			notes = append(notes, "Minor requirement not confirmed.")
		}
	}

	status := VerdictQualified
	if !qualified {
		status = VerdictUnqualified
	}

	// No structured requirements configured: stay permissive and defer to
	// a human reviewer.
	if len(notes) == 0 {
		notes = append(notes, "No structured requirements found; manual review needed.")
	}

	return SuitabilityResult{Status: status, Notes: notes}
}

// EvaluateApplication resolves an application's scholarship and applicant
// profile and runs the eligibility rules. Returns nil if the application
// does not exist.
func (s *SuitabilityService) EvaluateApplication(ctx context.Context, applicationID uint) (*SuitabilityResult, error) {
	var application model.Application
	if err := s.db.WithContext(ctx).First(&application, applicationID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch application: %w", err)
	}

	scholarship, profile, err := s.resolveInputs(ctx, &application)
	if err != nil {
		return nil, err
	}

	result := Evaluate(profile, scholarship)
	result.ApplicationID = application.ID
	return &result, nil
}

// ScholarshipReport evaluates every application submitted to a scholarship,
// in retrieval order. Applications that can no longer be resolved are
// skipped rather than failing the whole batch.
func (s *SuitabilityService) ScholarshipReport(ctx context.Context, scholarshipID uint) ([]SuitabilityResult, error) {
	var applications []model.Application
	if err := s.db.WithContext(ctx).
		Where("scholarship_id = ?", scholarshipID).
		Find(&applications).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch applications: %w", err)
	}

	results := make([]SuitabilityResult, 0, len(applications))
	for i := range applications {
		scholarship, profile, err := s.resolveInputs(ctx, &applications[i])
		if err != nil {
			continue
		}
		result := Evaluate(profile, scholarship)
		result.ApplicationID = applications[i].ID
		results = append(results, result)
	}

	return results, nil
}

func (s *SuitabilityService) resolveInputs(ctx context.Context, application *model.Application) (*model.Scholarship, *model.ApplicantProfile, error) {
	var scholarship *model.Scholarship
	var sch model.Scholarship
	err := s.db.WithContext(ctx).First(&sch, application.ScholarshipID).Error
	if err == nil {
		scholarship = &sch
	} else if err != gorm.ErrRecordNotFound {
		return nil, nil, fmt.Errorf("failed to fetch scholarship: %w", err)
	}

	var profile *model.ApplicantProfile
	var prof model.ApplicantProfile
	err = s.db.WithContext(ctx).Where("user_id = ?", application.UserID).First(&prof).Error
	if err == nil {
		profile = &prof
	} else if err != gorm.ErrRecordNotFound {
		return nil, nil, fmt.Errorf("failed to fetch applicant profile: %w", err)
	}

	return scholarship, profile, nil
}

// formatGPA renders a GPA with at least one decimal place (3.0, 3.5)
func formatGPA(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
