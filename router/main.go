package router

import (
	"log"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/umsams/umsams-api/config"
	"github.com/umsams/umsams-api/database"
	"github.com/umsams/umsams-api/handlers"
	admin_handlers "github.com/umsams/umsams-api/handlers/admin"
	applicant_handlers "github.com/umsams/umsams-api/handlers/applicant"
	application_handlers "github.com/umsams/umsams-api/handlers/application"
	auth_handlers "github.com/umsams/umsams-api/handlers/auth"
	notification_handlers "github.com/umsams/umsams-api/handlers/notification"
	scholarship_handlers "github.com/umsams/umsams-api/handlers/scholarship"
	"github.com/umsams/umsams-api/model"
	"github.com/umsams/umsams-api/services/storage"
	"github.com/umsams/umsams-api/utils"
	"github.com/umsams/umsams-api/utils/auth"
	"github.com/umsams/umsams-api/utils/cache"
	"github.com/umsams/umsams-api/utils/middleware"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, store database.Storage, env *config.EnviornmentVariable) {
	jwtIssuer := env.JWT_ISSUER
	if jwtIssuer == "" {
		jwtIssuer = "umsams-api"
	}

	jwtConfig := auth.JWTConfig{
		Secret:        env.JWT_SECRET,
		RefreshSecret: env.JWT_REFRESH_SECRET,
		Expiry:        1 * time.Hour,
		RefreshExpiry: 7 * 24 * time.Hour,
		Issuer:        jwtIssuer,
	}
	jwtManager := auth.NewJWTManager(jwtConfig)

	// Get DB instance (type assert from interface)
	db, ok := store.GetDB().(*gorm.DB)
	if !ok {
		log.Fatal("Failed to get GORM DB instance")
	}

	// Redis cache backs brute force protection; the API still runs without it
	redisURL := env.REDIS_URL
	if redisURL == "" {
		redisURL = "redis://localhost:6379/0"
	}

	redisCache, err := cache.NewRedisCache(redisURL)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v. Brute force protection will be disabled.", err)
	}

	var bruteForceProtection *middleware.BruteForceProtection
	if redisCache != nil {
		bruteForceProtection = middleware.NewBruteForceProtection(redisCache)
	}

	// Object storage for transcript uploads; optional
	var spacesClient *storage.SpacesClient
	if env.SPACES_ACCESS_KEY != "" && env.SPACES_SECRET_KEY != "" {
		spacesClient, err = storage.NewSpacesClient(storage.SpacesConfig{
			AccessKey: env.SPACES_ACCESS_KEY,
			SecretKey: env.SPACES_SECRET_KEY,
			Bucket:    env.SPACES_BUCKET,
			Region:    env.SPACES_REGION,
			Endpoint:  env.SPACES_ENDPOINT,
		})
		if err != nil {
			log.Printf("Warning: Failed to create storage client: %v. Transcript uploads will be disabled.", err)
		}
	}

	authMiddleware := middleware.NewAuthMiddleware(jwtManager, db)

	authHandler := auth_handlers.NewAuthHandler(db, jwtManager, bruteForceProtection)
	profileHandler := applicant_handlers.NewProfileHandler(db)
	scholarshipHandler := scholarship_handlers.NewScholarshipHandler(db)
	applicationHandler := application_handlers.NewApplicationHandler(db, spacesClient)
	notificationHandler := notification_handlers.NewNotificationHandler(db)
	adminHandler := admin_handlers.NewAdminHandler(db)

	// Apply security middleware
	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	if allowedOrigins == "" {
		allowedOrigins = "http://localhost:3000,http://localhost:3001"
	}

	middleware.SetupSecurity(app, middleware.SecurityConfig{
		AllowedOrigins:    allowedOrigins,
		RateLimitRequests: 100,
		RateLimitWindow:   1 * time.Minute,
	})

	// Health check endpoint (public)
	app.Get("/ping", utils.MakeHTTPHandleFunc(handlers.HandleCheckHealth, store))

	// API v1 group
	api := app.Group("/api/v1")

	// Auth routes (public)
	authGroup := api.Group("/auth")
	authGroup.Post("/register", authHandler.Register)

	// Login with brute force protection
	if bruteForceProtection != nil {
		authGroup.Post("/login", bruteForceProtection.CheckAttempt(), authHandler.Login)
	} else {
		authGroup.Post("/login", authHandler.Login)
	}

	authGroup.Post("/refresh", authHandler.RefreshToken)
	authGroup.Post("/forgot-password", authHandler.ForgotPassword)
	authGroup.Post("/reset-password", authHandler.ResetPassword)

	// Protected auth routes
	authGroup.Get("/me", authMiddleware.Required(), authHandler.Me)
	authGroup.Post("/logout", authMiddleware.Required(), authHandler.Logout)
	authGroup.Post("/change-password", authMiddleware.Required(), authHandler.ChangePassword)

	// Applicant profile routes (protected)
	profileGroup := api.Group("/profile", authMiddleware.Required())
	profileGroup.Get("/", profileHandler.GetMine)
	profileGroup.Put("/", profileHandler.CreateOrUpdate)

	// Reviewer/admin read access to any applicant profile
	api.Get("/profiles/:user_id",
		authMiddleware.Required(),
		authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin),
		profileHandler.GetByUserID)

	// Scholarship routes
	scholarships := api.Group("/scholarships")
	scholarships.Get("/", scholarshipHandler.List)   // Public: list and keyword search
	scholarships.Get("/:id", scholarshipHandler.Get) // Public: get scholarship by ID
	scholarships.Post("/", authMiddleware.Required(), authMiddleware.RequireAdmin(), scholarshipHandler.Create)
	scholarships.Put("/:id", authMiddleware.Required(), authMiddleware.RequireAdmin(), scholarshipHandler.Update)
	scholarships.Delete("/:id", authMiddleware.Required(), authMiddleware.RequireAdmin(), scholarshipHandler.Delete)

	// Per-scholarship suitability report (admin cohort review)
	scholarships.Get("/:id/suitability-report",
		authMiddleware.Required(),
		authMiddleware.RequireAdmin(),
		applicationHandler.SuitabilityReport)

	// Application routes (all protected)
	applications := api.Group("/applications", authMiddleware.Required())
	applications.Post("/", applicationHandler.Create)                                                                                  // Applicant: submit
	applications.Get("/", applicationHandler.ListMine)                                                                                 // Applicant: own applications
	applications.Get("/all", authMiddleware.RequireAdmin(), applicationHandler.ListAll)                                                // Admin: everything
	applications.Get("/assigned", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), applicationHandler.ListAssigned)    // Reviewer: assigned queue
	applications.Get("/reviews", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), applicationHandler.ListMyReviews)    // Reviewer: own reviews
	applications.Get("/:id", applicationHandler.Get)                                                                                   // Owner, reviewer or admin
	applications.Post("/:id/transcript", applicationHandler.UploadTranscript)                                                          // Applicant: upload transcript
	applications.Get("/:id/transcript", applicationHandler.GetTranscript)                                                             // Owner, reviewer or admin: presigned read
	applications.Put("/:id/reviewer", authMiddleware.RequireAdmin(), applicationHandler.AssignReviewer)                                // Admin: assign reviewer
	applications.Patch("/:id/status", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), applicationHandler.UpdateStatus) // Reviewer/admin
	applications.Post("/:id/reviews", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), applicationHandler.UpsertReview) // Reviewer: upsert review
	applications.Get("/:id/reviews", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), applicationHandler.ListReviews)   // Reviewer/admin
	applications.Get("/:id/suitability", authMiddleware.RequireRole(model.RoleReviewer, model.RoleAdmin), applicationHandler.Suitability)

	// Notification routes (protected)
	notifications := api.Group("/notifications", authMiddleware.Required())
	notifications.Get("/", notificationHandler.ListMine)
	notifications.Get("/unread", notificationHandler.ListUnread)
	notifications.Patch("/read-all", notificationHandler.MarkAllRead)
	notifications.Patch("/:id/read", notificationHandler.MarkRead)
	notifications.Post("/", authMiddleware.RequireAdmin(), notificationHandler.Create)

	// Admin routes
	adminGroup := api.Group("/admin", authMiddleware.Required(), authMiddleware.RequireAdmin())
	adminGroup.Get("/summary", adminHandler.Summary)
	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Get("/users/:id", adminHandler.GetUser)
	adminGroup.Patch("/users/:id", adminHandler.UpdateUser)
	adminGroup.Delete("/users/:id", adminHandler.DeleteUser)
}
