package application

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/services/storage"
	authutil "github.com/umsams/umsams-api/utils/auth"
	"github.com/umsams/umsams-api/utils/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app        *fiber.App
	db         *gorm.DB
	jwtManager *authutil.JWTManager
}

func setupTestEnv(t *testing.T) *testEnv {
	return setupTestEnvWithStorage(t, nil)
}

func setupTestEnvWithStorage(t *testing.T, spaces *storage.SpacesClient) *testEnv {
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
	))

	jwtManager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret:        "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test-api",
	})

	handler := NewApplicationHandler(db, spaces)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	app := fiber.New()
	applications := app.Group("/applications", authMiddleware.Required())
	applications.Post("/", handler.Create)
	applications.Get("/", handler.ListMine)
	applications.Get("/all", authMiddleware.RequireAdmin(), handler.ListAll)
	applications.Get("/assigned", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), handler.ListAssigned)
	applications.Get("/:id", handler.Get)
	applications.Get("/:id/transcript", handler.GetTranscript)
	applications.Put("/:id/reviewer", authMiddleware.RequireAdmin(), handler.AssignReviewer)
	applications.Patch("/:id/status", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), handler.UpdateStatus)
	applications.Post("/:id/reviews", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), handler.UpsertReview)
	applications.Get("/:id/suitability", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), handler.Suitability)
	app.Get("/scholarships/:id/suitability-report", authMiddleware.Required(), authMiddleware.RequireAdmin(), handler.SuitabilityReport)

	return &testEnv{app: app, db: db, jwtManager: jwtManager}
}

func (e *testEnv) createUser(t *testing.T, email, role string) (model.User, string) {
	t.Helper()

	user := model.User{Email: email, PasswordHash: "x", Role: role, IsActive: true}
	require.NoError(t, e.db.Create(&user).Error)

	token, _, err := e.jwtManager.GenerateAccessToken(user.ID, user.Email, user.Role)
	require.NoError(t, err)
	return user, token
}

func (e *testEnv) request(t *testing.T, method, path, token string, payload interface{}) *http.Response {
	t.Helper()

	var reader io.Reader
	if payload != nil {
		body, err := json.Marshal(payload)
		require.NoError(t, err)
		reader = bytes.NewReader(body)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := e.app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decode(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func gpa(v float64) *float64 { return &v }
func str(v string) *string   { return &v }

func TestSubmitApplication(t *testing.T) {
	env := setupTestEnv(t)

	scholarship := model.Scholarship{
		Name: "Open", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, env.db.Create(&scholarship).Error)

	applicant, token := env.createUser(t, "a@test.edu", model.RoleApplicant)
	require.NoError(t, env.db.Create(&model.ApplicantProfile{
		UserID: applicant.ID, StudentID: "1", NetID: "a", DegreeMajor: "CS", GPA: gpa(3.5),
	}).Error)

	res := env.request(t, "POST", "/applications/", token, CreateApplicationRequest{
		ScholarshipID: scholarship.ID,
	})
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	// Visible in own listing
	res = env.request(t, "GET", "/applications/", token, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	data := decode(t, res)["data"].([]interface{})
	assert.Len(t, data, 1)
}

func TestSubmitApplicationDeadlinePassed(t *testing.T) {
	env := setupTestEnv(t)

	scholarship := model.Scholarship{
		Name: "Closed", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(-48 * time.Hour),
	}
	require.NoError(t, env.db.Create(&scholarship).Error)

	_, token := env.createUser(t, "late@test.edu", model.RoleApplicant)

	res := env.request(t, "POST", "/applications/", token, CreateApplicationRequest{
		ScholarshipID: scholarship.ID,
	})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestApplicantCannotReadOthersApplication(t *testing.T) {
	env := setupTestEnv(t)

	scholarship := model.Scholarship{
		Name: "Open", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, env.db.Create(&scholarship).Error)

	owner, ownerToken := env.createUser(t, "owner@test.edu", model.RoleApplicant)
	_, otherToken := env.createUser(t, "other@test.edu", model.RoleApplicant)

	application := model.Application{UserID: owner.ID, ScholarshipID: scholarship.ID, Status: model.ApplicationStatusSubmitted}
	require.NoError(t, env.db.Create(&application).Error)

	res := env.request(t, "GET", "/applications/1", ownerToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res = env.request(t, "GET", "/applications/1", otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestReviewerWorkflow(t *testing.T) {
	env := setupTestEnv(t)

	scholarship := model.Scholarship{
		Name: "Open", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, env.db.Create(&scholarship).Error)

	applicant, _ := env.createUser(t, "app@test.edu", model.RoleApplicant)
	reviewer, reviewerToken := env.createUser(t, "rev@test.edu", model.RoleReviewer)
	_, adminToken := env.createUser(t, "adm@test.edu", model.RoleAdmin)

	application := model.Application{UserID: applicant.ID, ScholarshipID: scholarship.ID, Status: model.ApplicationStatusSubmitted}
	require.NoError(t, env.db.Create(&application).Error)

	// Admin assigns the reviewer
	res := env.request(t, "PUT", "/applications/1/reviewer", adminToken, AssignReviewerRequest{ReviewerID: reviewer.ID})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	// Reviewer sees it in the assigned queue
	res = env.request(t, "GET", "/applications/assigned", reviewerToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	data := decode(t, res)["data"].([]interface{})
	assert.Len(t, data, 1)

	// Reviewer moves it to in_review and submits a review
	res = env.request(t, "PATCH", "/applications/1/status", reviewerToken, UpdateStatusRequest{Status: model.ApplicationStatusInReview})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	score := 85
	res = env.request(t, "POST", "/applications/1/reviews", reviewerToken, UpsertReviewRequest{
		Score:  &score,
		Status: model.ReviewStatusAccepted,
	})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	// Submitting again overwrites rather than duplicating
	score = 90
	res = env.request(t, "POST", "/applications/1/reviews", reviewerToken, UpsertReviewRequest{
		Score:  &score,
		Status: model.ReviewStatusAccepted,
	})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	var count int64
	env.db.Model(&model.Review{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// Applicants cannot touch reviewer routes
	_, applicantToken := env.createUser(t, "app2@test.edu", model.RoleApplicant)
	res = env.request(t, "PATCH", "/applications/1/status", applicantToken, UpdateStatusRequest{Status: model.ApplicationStatusAccepted})
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestSuitabilityEndpoint(t *testing.T) {
	env := setupTestEnv(t)

	scholarship := model.Scholarship{
		Name: "STEM", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
		MinGPA:   gpa(3.0), RequiredMajor: str("CS"),
	}
	require.NoError(t, env.db.Create(&scholarship).Error)

	applicant, _ := env.createUser(t, "app@test.edu", model.RoleApplicant)
	require.NoError(t, env.db.Create(&model.ApplicantProfile{
		UserID: applicant.ID, StudentID: "1", NetID: "a", DegreeMajor: "cs", GPA: gpa(3.5),
	}).Error)

	_, reviewerToken := env.createUser(t, "rev@test.edu", model.RoleReviewer)

	application := model.Application{UserID: applicant.ID, ScholarshipID: scholarship.ID, Status: model.ApplicationStatusSubmitted}
	require.NoError(t, env.db.Create(&application).Error)

	res := env.request(t, "GET", "/applications/1/suitability", reviewerToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	data := decode(t, res)["data"].(map[string]interface{})
	assert.Equal(t, "qualified", data["status"])
	notes := data["notes"].([]interface{})
	require.Len(t, notes, 2)
	assert.Equal(t, "Meets GPA requirement (3.5 ≥ 3.0).", notes[0])
	assert.Equal(t, "Major matches requirement.", notes[1])

	res = env.request(t, "GET", "/applications/999/suitability", reviewerToken, nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}

func TestSuitabilityReportFlagsUnstructuredScholarship(t *testing.T) {
	env := setupTestEnv(t)

	structured := model.Scholarship{
		Name: "Structured", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
		MinGPA:   gpa(3.0),
	}
	require.NoError(t, env.db.Create(&structured).Error)

	unstructured := model.Scholarship{
		Name: "Unstructured", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, env.db.Create(&unstructured).Error)

	_, adminToken := env.createUser(t, "adm@test.edu", model.RoleAdmin)

	res := env.request(t, "GET", "/scholarships/1/suitability-report", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	data := decode(t, res)["data"].(map[string]interface{})
	assert.Equal(t, true, data["has_structured_requirements"])

	res = env.request(t, "GET", "/scholarships/2/suitability-report", adminToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	data = decode(t, res)["data"].(map[string]interface{})
	assert.Equal(t, false, data["has_structured_requirements"])
}

func TestGetTranscriptPresignsStoredKey(t *testing.T) {
	spaces, err := storage.NewSpacesClient(storage.SpacesConfig{
		AccessKey: "test-access-key",
		SecretKey: "test-secret-key",
		Bucket:    "transcripts-test",
		Region:    "us-east-1",
		Endpoint:  "nyc3.digitaloceanspaces.com",
	})
	require.NoError(t, err)

	env := setupTestEnvWithStorage(t, spaces)

	scholarship := model.Scholarship{
		Name: "Open", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, env.db.Create(&scholarship).Error)

	owner, ownerToken := env.createUser(t, "owner@test.edu", model.RoleApplicant)
	_, otherToken := env.createUser(t, "other@test.edu", model.RoleApplicant)
	_, reviewerToken := env.createUser(t, "rev@test.edu", model.RoleReviewer)

	key := "transcripts/1/1700000000_transcript.pdf"
	application := model.Application{
		UserID: owner.ID, ScholarshipID: scholarship.ID,
		Status: model.ApplicationStatusSubmitted, TranscriptURL: &key,
	}
	require.NoError(t, env.db.Create(&application).Error)

	// Stored object keys come back as short-lived signed URLs
	res := env.request(t, "GET", "/applications/1/transcript", reviewerToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	data := decode(t, res)["data"].(map[string]interface{})
	url := data["transcript_url"].(string)
	assert.Contains(t, url, key)
	assert.Contains(t, url, "X-Amz-Signature")
	assert.EqualValues(t, 900, data["expires_in"])

	// The owner can fetch their own; other applicants cannot
	res = env.request(t, "GET", "/applications/1/transcript", ownerToken, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	res = env.request(t, "GET", "/applications/1/transcript", otherToken, nil)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestGetTranscriptExternalURLAndMissing(t *testing.T) {
	env := setupTestEnv(t)

	scholarship := model.Scholarship{
		Name: "Open", Description: "d", Amount: 1000,
		Deadline: time.Now().Add(30 * 24 * time.Hour),
	}
	require.NoError(t, env.db.Create(&scholarship).Error)

	applicant, token := env.createUser(t, "app@test.edu", model.RoleApplicant)

	external := "https://example.edu/transcripts/mine.pdf"
	withURL := model.Application{
		UserID: applicant.ID, ScholarshipID: scholarship.ID,
		Status: model.ApplicationStatusSubmitted, TranscriptURL: &external,
	}
	require.NoError(t, env.db.Create(&withURL).Error)

	without := model.Application{
		UserID: applicant.ID, ScholarshipID: scholarship.ID,
		Status: model.ApplicationStatusSubmitted,
	}
	require.NoError(t, env.db.Create(&without).Error)

	// Externally supplied URLs pass through untouched, even without storage
	res := env.request(t, "GET", "/applications/1/transcript", token, nil)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	data := decode(t, res)["data"].(map[string]interface{})
	assert.Equal(t, external, data["transcript_url"])

	res = env.request(t, "GET", "/applications/2/transcript", token, nil)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
}
