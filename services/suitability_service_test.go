package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umsams/umsams-api/model"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.ApplicantProfile{},
		&model.Scholarship{},
		&model.Application{},
		&model.Review{},
		&model.Notification{},
		&model.PasswordResetToken{},
	))

	return db
}

func floatPtr(v float64) *float64 { return &v }
func strPtr(v string) *string     { return &v }

func TestEvaluateMissingData(t *testing.T) {
	result := Evaluate(nil, &model.Scholarship{})
	assert.Equal(t, VerdictUnknown, result.Status)
	assert.Equal(t, []string{"Missing scholarship or applicant profile data."}, result.Notes)

	result = Evaluate(&model.ApplicantProfile{}, nil)
	assert.Equal(t, VerdictUnknown, result.Status)
	assert.Len(t, result.Notes, 1)
}

func TestEvaluateNoStructuredRequirements(t *testing.T) {
	profile := &model.ApplicantProfile{DegreeMajor: "History"}
	scholarship := &model.Scholarship{Name: "Open Award"}

	result := Evaluate(profile, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{"No structured requirements found; manual review needed."}, result.Notes)
}

func TestEvaluateGPA(t *testing.T) {
	scholarship := &model.Scholarship{MinGPA: floatPtr(3.0)}

	// Equality passes (closed lower bound)
	result := Evaluate(&model.ApplicantProfile{GPA: floatPtr(3.0)}, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{"Meets GPA requirement (3.0 ≥ 3.0)."}, result.Notes)

	// Above passes
	result = Evaluate(&model.ApplicantProfile{GPA: floatPtr(3.5)}, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{"Meets GPA requirement (3.5 ≥ 3.0)."}, result.Notes)

	// Below fails
	result = Evaluate(&model.ApplicantProfile{GPA: floatPtr(2.5)}, scholarship)
	assert.Equal(t, VerdictUnqualified, result.Status)
	assert.Equal(t, []string{"Below GPA requirement (2.5 < 3.0)."}, result.Notes)

	// Missing GPA fails and renders as N/A
	result = Evaluate(&model.ApplicantProfile{}, scholarship)
	assert.Equal(t, VerdictUnqualified, result.Status)
	assert.Equal(t, []string{"Below GPA requirement (N/A < 3.0)."}, result.Notes)
}

func TestEvaluateCitizenship(t *testing.T) {
	scholarship := &model.Scholarship{RequiredCitizenship: strPtr("USA")}

	result := Evaluate(&model.ApplicantProfile{Citizenship: strPtr("usa")}, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{"Citizenship matches requirement."}, result.Notes)

	result = Evaluate(&model.ApplicantProfile{Citizenship: strPtr("Canada")}, scholarship)
	assert.Equal(t, VerdictUnqualified, result.Status)
	assert.Equal(t, []string{"Citizenship does not match requirement (Canada ≠ USA)."}, result.Notes)

	result = Evaluate(&model.ApplicantProfile{}, scholarship)
	assert.Equal(t, VerdictUnqualified, result.Status)
	assert.Equal(t, []string{"Citizenship does not match requirement (N/A ≠ USA)."}, result.Notes)
}

func TestEvaluateMajorCaseInsensitive(t *testing.T) {
	scholarship := &model.Scholarship{
		MinGPA:        floatPtr(3.0),
		RequiredMajor: strPtr("CS"),
	}
	profile := &model.ApplicantProfile{
		GPA:         floatPtr(3.5),
		DegreeMajor: "cs",
	}

	result := Evaluate(profile, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{
		"Meets GPA requirement (3.5 ≥ 3.0).",
		"Major matches requirement.",
	}, result.Notes)
}

func TestEvaluateMultipleFailures(t *testing.T) {
	scholarship := &model.Scholarship{
		MinGPA:        floatPtr(3.0),
		RequiredMajor: strPtr("CS"),
	}
	profile := &model.ApplicantProfile{
		GPA:         floatPtr(2.0),
		DegreeMajor: "EE",
	}

	result := Evaluate(profile, scholarship)
	assert.Equal(t, VerdictUnqualified, result.Status)
	assert.Equal(t, []string{
		"Below GPA requirement (2.0 < 3.0).",
		"Major does not match requirement.",
	}, result.Notes)
}

func TestEvaluateMinorIsAdvisoryOnly(t *testing.T) {
	scholarship := &model.Scholarship{RequiredMinor: strPtr("Math")}

	// Mismatched minor never disqualifies
	result := Evaluate(&model.ApplicantProfile{DegreeMinor: strPtr("Physics")}, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{"Minor requirement not confirmed."}, result.Notes)

	result = Evaluate(&model.ApplicantProfile{DegreeMinor: strPtr("math")}, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{"Minor matches requirement."}, result.Notes)

	// Missing minor also only produces the advisory note
	result = Evaluate(&model.ApplicantProfile{}, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{"Minor requirement not confirmed."}, result.Notes)
}

func TestEvaluateNoteOrdering(t *testing.T) {
	scholarship := &model.Scholarship{
		MinGPA:              floatPtr(3.0),
		RequiredCitizenship: strPtr("USA"),
		RequiredMajor:       strPtr("CS"),
		RequiredMinor:       strPtr("Math"),
	}
	profile := &model.ApplicantProfile{
		GPA:         floatPtr(3.8),
		Citizenship: strPtr("USA"),
		DegreeMajor: "CS",
		DegreeMinor: strPtr("Math"),
	}

	result := Evaluate(profile, scholarship)
	assert.Equal(t, VerdictQualified, result.Status)
	assert.Equal(t, []string{
		"Meets GPA requirement (3.8 ≥ 3.0).",
		"Citizenship matches requirement.",
		"Major matches requirement.",
		"Minor matches requirement.",
	}, result.Notes)
}

func TestEvaluateApplication(t *testing.T) {
	db := openTestDB(t)
	svc := NewSuitabilityService(db)
	ctx := context.Background()

	user := model.User{Email: "app@test.edu", PasswordHash: "x", Role: model.RoleApplicant}
	require.NoError(t, db.Create(&user).Error)

	profile := model.ApplicantProfile{
		UserID:      user.ID,
		StudentID:   "12345678",
		NetID:       "appuser",
		DegreeMajor: "CS",
		GPA:         floatPtr(3.5),
	}
	require.NoError(t, db.Create(&profile).Error)

	scholarship := model.Scholarship{
		Name:        "STEM Award",
		Description: "For CS students",
		Amount:      5000,
		Deadline:    time.Now().Add(30 * 24 * time.Hour),
		MinGPA:      floatPtr(3.0),
	}
	require.NoError(t, db.Create(&scholarship).Error)

	application := model.Application{
		UserID:        user.ID,
		ScholarshipID: scholarship.ID,
		Status:        model.ApplicationStatusSubmitted,
	}
	require.NoError(t, db.Create(&application).Error)

	result, err := svc.EvaluateApplication(ctx, application.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, application.ID, result.ApplicationID)
	assert.Equal(t, VerdictQualified, result.Status)

	// Unknown application returns nil without error
	result, err = svc.EvaluateApplication(ctx, 9999)
	require.NoError(t, err)
	assert.Nil(t, result)
}

func TestEvaluateApplicationMissingProfile(t *testing.T) {
	db := openTestDB(t)
	svc := NewSuitabilityService(db)
	ctx := context.Background()

	user := model.User{Email: "noprofile@test.edu", PasswordHash: "x", Role: model.RoleApplicant}
	require.NoError(t, db.Create(&user).Error)

	scholarship := model.Scholarship{
		Name:        "Any Award",
		Description: "d",
		Amount:      1000,
		Deadline:    time.Now().Add(24 * time.Hour),
	}
	require.NoError(t, db.Create(&scholarship).Error)

	application := model.Application{
		UserID:        user.ID,
		ScholarshipID: scholarship.ID,
		Status:        model.ApplicationStatusSubmitted,
	}
	require.NoError(t, db.Create(&application).Error)

	result, err := svc.EvaluateApplication(ctx, application.ID)
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Equal(t, VerdictUnknown, result.Status)
	assert.Equal(t, []string{"Missing scholarship or applicant profile data."}, result.Notes)
}

func TestScholarshipReport(t *testing.T) {
	db := openTestDB(t)
	svc := NewSuitabilityService(db)
	ctx := context.Background()

	scholarship := model.Scholarship{
		Name:        "Cohort Award",
		Description: "d",
		Amount:      2500,
		Deadline:    time.Now().Add(30 * 24 * time.Hour),
		MinGPA:      floatPtr(3.0),
	}
	require.NoError(t, db.Create(&scholarship).Error)

	// Qualified applicant
	qualified := model.User{Email: "q@test.edu", PasswordHash: "x", Role: model.RoleApplicant}
	require.NoError(t, db.Create(&qualified).Error)
	require.NoError(t, db.Create(&model.ApplicantProfile{
		UserID: qualified.ID, StudentID: "1", NetID: "q", DegreeMajor: "CS", GPA: floatPtr(3.6),
	}).Error)

	// Unqualified applicant
	unqualified := model.User{Email: "u@test.edu", PasswordHash: "x", Role: model.RoleApplicant}
	require.NoError(t, db.Create(&unqualified).Error)
	require.NoError(t, db.Create(&model.ApplicantProfile{
		UserID: unqualified.ID, StudentID: "2", NetID: "u", DegreeMajor: "CS", GPA: floatPtr(2.0),
	}).Error)

	appA := model.Application{UserID: qualified.ID, ScholarshipID: scholarship.ID, Status: model.ApplicationStatusSubmitted}
	require.NoError(t, db.Create(&appA).Error)
	appB := model.Application{UserID: unqualified.ID, ScholarshipID: scholarship.ID, Status: model.ApplicationStatusSubmitted}
	require.NoError(t, db.Create(&appB).Error)

	results, err := svc.ScholarshipReport(ctx, scholarship.ID)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, appA.ID, results[0].ApplicationID)
	assert.Equal(t, VerdictQualified, results[0].Status)
	assert.Equal(t, appB.ID, results[1].ApplicationID)
	assert.Equal(t, VerdictUnqualified, results[1].Status)

	// Empty scholarship yields an empty report, not an error
	empty := model.Scholarship{Name: "Empty", Description: "d", Amount: 1, Deadline: time.Now()}
	require.NoError(t, db.Create(&empty).Error)
	results, err = svc.ScholarshipReport(ctx, empty.ID)
	require.NoError(t, err)
	assert.Empty(t, results)
}
