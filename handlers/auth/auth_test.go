package auth

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
	authutil "github.com/umsams/umsams-api/utils/auth"
	"github.com/umsams/umsams-api/utils/middleware"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestApp(t *testing.T) (*fiber.App, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.User{},
		&model.ApplicantProfile{},
		&model.PasswordResetToken{},
	))

	jwtManager := authutil.NewJWTManager(authutil.JWTConfig{
		Secret:        "test-access-secret",
		RefreshSecret: "test-refresh-secret",
		Expiry:        time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        "test-api",
	})

	handler := NewAuthHandler(db, jwtManager, nil)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	app := fiber.New()
	app.Post("/register", handler.Register)
	app.Post("/login", handler.Login)
	app.Post("/refresh", handler.RefreshToken)
	app.Post("/forgot-password", handler.ForgotPassword)
	app.Post("/reset-password", handler.ResetPassword)
	app.Get("/me", authMiddleware.Required(), handler.Me)

	return app, db
}

func postJSON(t *testing.T, app *fiber.App, path string, payload interface{}) *http.Response {
	t.Helper()

	body, err := json.Marshal(payload)
	require.NoError(t, err)

	req := httptest.NewRequest("POST", path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	res, err := app.Test(req, -1)
	require.NoError(t, err)
	return res
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	res.Body.Close()

	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &body))
	return body
}

func TestRegisterAndLogin(t *testing.T) {
	app, _ := setupTestApp(t)

	res := postJSON(t, app, "/register", RegisterRequest{
		Email:     "student@test.edu",
		Password:  "Passw0rd!",
		FirstName: "Alex",
		LastName:  "Taylor",
	})
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/login", LoginRequest{
		Email:    "student@test.edu",
		Password: "Passw0rd!",
	})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	body := decodeBody(t, res)
	data := body["data"].(map[string]interface{})
	assert.NotEmpty(t, data["access_token"])
	assert.NotEmpty(t, data["refresh_token"])
	assert.EqualValues(t, 3600, data["expires_in"])
	user := data["user"].(map[string]interface{})
	assert.Equal(t, "applicant", user["role"])

	// Wrong password
	res = postJSON(t, app, "/login", LoginRequest{
		Email:    "student@test.edu",
		Password: "WrongPass1!",
	})
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	app, db := setupTestApp(t)

	req := RegisterRequest{
		Email:     "dup@test.edu",
		Password:  "Passw0rd!",
		FirstName: "A",
		LastName:  "B",
	}
	res := postJSON(t, app, "/register", req)
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/register", req)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	body := decodeBody(t, res)
	errDetail := body["error"].(map[string]interface{})
	assert.Equal(t, "INVALID_REQUEST", errDetail["code"])
	assert.Equal(t, "Email already registered", errDetail["message"])

	// A soft-deleted user still holds the email's unique index; a fresh
	// registration gets the same clean rejection, not a constraint error
	var user model.User
	require.NoError(t, db.Where("email = ?", "dup@test.edu").First(&user).Error)
	require.NoError(t, db.Delete(&user).Error)

	res = postJSON(t, app, "/register", req)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
	errDetail = decodeBody(t, res)["error"].(map[string]interface{})
	assert.Equal(t, "Email already registered", errDetail["message"])
}

func TestRegisterWeakPassword(t *testing.T) {
	app, _ := setupTestApp(t)

	res := postJSON(t, app, "/register", RegisterRequest{
		Email:     "weak@test.edu",
		Password:  "password",
		FirstName: "A",
		LastName:  "B",
	})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestRegisterReviewerStartsInactive(t *testing.T) {
	app, db := setupTestApp(t)

	res := postJSON(t, app, "/register", RegisterRequest{
		Email:     "reviewer@test.edu",
		Password:  "Passw0rd!",
		FirstName: "R",
		LastName:  "V",
		Role:      model.RoleReviewer,
	})
	assert.Equal(t, fiber.StatusCreated, res.StatusCode)

	var user model.User
	require.NoError(t, db.Where("email = ?", "reviewer@test.edu").First(&user).Error)
	assert.False(t, user.IsActive)

	// Inactive accounts cannot sign in
	res = postJSON(t, app, "/login", LoginRequest{
		Email:    "reviewer@test.edu",
		Password: "Passw0rd!",
	})
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
}

func TestRefreshRejectsAccessToken(t *testing.T) {
	app, _ := setupTestApp(t)

	res := postJSON(t, app, "/register", RegisterRequest{
		Email:     "refresh@test.edu",
		Password:  "Passw0rd!",
		FirstName: "A",
		LastName:  "B",
	})
	require.Equal(t, fiber.StatusCreated, res.StatusCode)

	res = postJSON(t, app, "/login", LoginRequest{
		Email:    "refresh@test.edu",
		Password: "Passw0rd!",
	})
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	data := decodeBody(t, res)["data"].(map[string]interface{})
	accessToken := data["access_token"].(string)
	refreshToken := data["refresh_token"].(string)

	// Access token presented as refresh token is rejected
	res = postJSON(t, app, "/refresh", RefreshRequest{RefreshToken: accessToken})
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	// Real refresh token works
	res = postJSON(t, app, "/refresh", RefreshRequest{RefreshToken: refreshToken})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
}

func TestMeRequiresAuth(t *testing.T) {
	app, _ := setupTestApp(t)

	req := httptest.NewRequest("GET", "/me", nil)
	res, err := app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	// Register, login, then fetch /me with the token
	postJSON(t, app, "/register", RegisterRequest{
		Email:     "me@test.edu",
		Password:  "Passw0rd!",
		FirstName: "A",
		LastName:  "B",
	})
	loginRes := postJSON(t, app, "/login", LoginRequest{Email: "me@test.edu", Password: "Passw0rd!"})
	data := decodeBody(t, loginRes)["data"].(map[string]interface{})

	req = httptest.NewRequest("GET", "/me", nil)
	req.Header.Set("Authorization", "Bearer "+data["access_token"].(string))
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	me := decodeBody(t, res)["data"].(map[string]interface{})
	assert.Equal(t, "me@test.edu", me["email"])
}

func TestForgotPasswordDoesNotRevealAccounts(t *testing.T) {
	app, db := setupTestApp(t)

	postJSON(t, app, "/register", RegisterRequest{
		Email:     "known@test.edu",
		Password:  "Passw0rd!",
		FirstName: "A",
		LastName:  "B",
	})

	// Known and unknown emails get the same response
	resKnown := postJSON(t, app, "/forgot-password", ForgotPasswordRequest{Email: "known@test.edu"})
	resUnknown := postJSON(t, app, "/forgot-password", ForgotPasswordRequest{Email: "ghost@test.edu"})

	assert.Equal(t, fiber.StatusOK, resKnown.StatusCode)
	assert.Equal(t, fiber.StatusOK, resUnknown.StatusCode)

	bodyKnown := decodeBody(t, resKnown)
	bodyUnknown := decodeBody(t, resUnknown)
	assert.Equal(t, bodyKnown, bodyUnknown)

	// A token was only created for the real account
	var count int64
	db.Model(&model.PasswordResetToken{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestResetPasswordFlow(t *testing.T) {
	app, db := setupTestApp(t)

	postJSON(t, app, "/register", RegisterRequest{
		Email:     "reset@test.edu",
		Password:  "Passw0rd!",
		FirstName: "A",
		LastName:  "B",
	})
	postJSON(t, app, "/forgot-password", ForgotPasswordRequest{Email: "reset@test.edu"})

	var resetToken model.PasswordResetToken
	require.NoError(t, db.First(&resetToken).Error)

	res := postJSON(t, app, "/reset-password", ResetPasswordRequest{
		Token:       resetToken.Token,
		NewPassword: "NewPassw0rd!",
	})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	// Old password no longer works, new one does
	res = postJSON(t, app, "/login", LoginRequest{Email: "reset@test.edu", Password: "Passw0rd!"})
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	res = postJSON(t, app, "/login", LoginRequest{Email: "reset@test.edu", Password: "NewPassw0rd!"})
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	// Token is single use
	res = postJSON(t, app, "/reset-password", ResetPasswordRequest{
		Token:       resetToken.Token,
		NewPassword: "AnotherPass1!",
	})
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}
