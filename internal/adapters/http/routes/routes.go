package routes

import (
	"time"

	"ictclub-portal/internal/adapters/http/handlers"
	"ictclub-portal/internal/adapters/http/middleware"
	"ictclub-portal/internal/adapters/persistence/repositories"
	"ictclub-portal/internal/config"
	"ictclub-portal/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Setup wires repositories, services, and handlers, and configures all
// routes for the application
func Setup(app *fiber.App, db *gorm.DB, rdb *redis.Client, cfg *config.Config, log *logrus.Logger) *services.CronService {
	// Repositories
	userRepo := repositories.NewUserRepository(db)
	paymentRepo := repositories.NewPaymentRepository(db)
	departmentRepo := repositories.NewDepartmentRepository(db)
	courseRepo := repositories.NewCourseRepository(db)
	projectRepo := repositories.NewProjectRepository(db)
	eventRepo := repositories.NewEventRepository(db)
	announcementRepo := repositories.NewAnnouncementRepository(db)
	activityRepo := repositories.NewActivityLogRepository(db)

	// Services
	cache := services.NewCache(rdb, log)
	notifier := services.NewLogNotifier(log)
	authService := services.NewAuthService(userRepo, activityRepo, notifier, cfg, log)
	userService := services.NewUserService(userRepo, activityRepo, cache, notifier, log)
	paymentService := services.NewPaymentService(paymentRepo, userRepo, activityRepo, notifier, log)
	catalogService := services.NewCatalogService(departmentRepo, courseRepo, userRepo, cache, log)
	contentService := services.NewContentService(projectRepo, eventRepo, announcementRepo, cache, log)
	cronService := services.NewCronService(userRepo, paymentRepo, notifier, log)

	// Handlers
	healthHandler := handlers.NewHealthHandler()
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	paymentHandler := handlers.NewPaymentHandler(paymentService)
	departmentHandler := handlers.NewDepartmentHandler(catalogService, userService)
	courseHandler := handlers.NewCourseHandler(catalogService)
	projectHandler := handlers.NewProjectHandler(contentService)
	eventHandler := handlers.NewEventHandler(contentService)
	announcementHandler := handlers.NewAnnouncementHandler(contentService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	auth := middleware.AuthMiddleware(cfg)
	adminOnly := middleware.AdminOnly(userRepo)

	apiV1 := app.Group("/api/v1")

	// Auth routes (public, stricter limiter)
	authRoutes := apiV1.Group("/auth")
	authRoutes.Post("/register", middleware.AuthRateLimiter(), authHandler.Register)
	authRoutes.Post("/login", middleware.AuthRateLimiter(), authHandler.Login)
	authRoutes.Get("/me", auth, authHandler.Me)

	// Department routes (reads public, writes admin)
	departmentRoutes := apiV1.Group("/departments")
	departmentRoutes.Get("/", middleware.CacheControl(5*time.Minute), departmentHandler.List)
	departmentRoutes.Get("/:id", departmentHandler.GetByID)
	departmentRoutes.Get("/:id/members", auth, adminOnly, departmentHandler.Members)
	departmentRoutes.Post("/", auth, adminOnly, departmentHandler.Create)
	departmentRoutes.Put("/:id", auth, adminOnly, departmentHandler.Update)
	departmentRoutes.Delete("/:id", auth, adminOnly, departmentHandler.Delete)

	// Course routes
	courseRoutes := apiV1.Group("/courses")
	courseRoutes.Get("/", middleware.CacheControl(5*time.Minute), courseHandler.List)
	courseRoutes.Get("/:id", courseHandler.GetByID)
	courseRoutes.Post("/", auth, adminOnly, courseHandler.Create)

	// User routes
	userRoutes := apiV1.Group("/users", auth)
	userRoutes.Get("/profile", middleware.NoCacheHeaders(), userHandler.GetProfile)
	userRoutes.Put("/profile", userHandler.UpdateProfile)
	userRoutes.Post("/profile/picture", userHandler.UploadPicture)
	userRoutes.Get("/", adminOnly, userHandler.List)
	userRoutes.Get("/:id", adminOnly, userHandler.GetByID)
	userRoutes.Post("/:id/approve", adminOnly, userHandler.Approve)
	userRoutes.Post("/:id/reject", adminOnly, userHandler.Reject)
	userRoutes.Get("/:id/activity", adminOnly, userHandler.GetActivity)

	// Payment routes
	paymentRoutes := apiV1.Group("/payments", auth)
	paymentRoutes.Get("/my_payments", middleware.NoCacheHeaders(), paymentHandler.ListMine)
	paymentRoutes.Post("/", paymentHandler.Create)
	paymentRoutes.Get("/", adminOnly, paymentHandler.List)
	paymentRoutes.Get("/:id", paymentHandler.GetByID)
	paymentRoutes.Post("/:id/confirm_payment", adminOnly, paymentHandler.Confirm)

	// Project routes
	projectRoutes := apiV1.Group("/projects")
	projectRoutes.Get("/", projectHandler.List)
	projectRoutes.Get("/featured", middleware.CacheControl(5*time.Minute), projectHandler.Featured)
	projectRoutes.Get("/:id", projectHandler.GetByID)
	projectRoutes.Post("/", auth, adminOnly, projectHandler.Create)

	// Event routes
	eventRoutes := apiV1.Group("/events")
	eventRoutes.Get("/", eventHandler.List)
	eventRoutes.Get("/upcoming", middleware.CacheControl(5*time.Minute), eventHandler.Upcoming)
	eventRoutes.Get("/:id", eventHandler.GetByID)
	eventRoutes.Post("/", auth, adminOnly, eventHandler.Create)

	// Announcement routes
	announcementRoutes := apiV1.Group("/announcements")
	announcementRoutes.Get("/", announcementHandler.List)
	announcementRoutes.Get("/recent", middleware.CacheControl(time.Minute), announcementHandler.Recent)
	announcementRoutes.Get("/urgent", announcementHandler.Urgent)
	announcementRoutes.Get("/:id", announcementHandler.GetByID)
	announcementRoutes.Post("/", auth, adminOnly, announcementHandler.Create)

	return cronService
}
