package router

import (
	"log"

	"github.com/labstack/echo/v4"
	"github.com/shutterfolk/backend/internal/handlers"
	"github.com/shutterfolk/backend/internal/middleware"
	"github.com/shutterfolk/backend/internal/models"
	"github.com/shutterfolk/backend/internal/repositories"
	"github.com/shutterfolk/backend/internal/services"
	"github.com/shutterfolk/backend/pkg/config"
	"github.com/shutterfolk/backend/pkg/firebase"
)

// SetupRoutes wires repositories, services and handlers and registers all
// HTTP routes on the Echo instance
func SetupRoutes(e *echo.Echo, dbs *config.Databases, fb *firebase.Clients, cfg *config.Config) error {
	db := dbs.Postgres
	if err := db.AutoMigrate(
		&models.User{},
		&models.Photo{},
		&models.PhotoAlbum{},
		&models.Album{},
		&models.Event{},
		&models.Challenge{},
		&models.Comment{},
		&models.Notification{},
		&models.EmailCategory{},
		&models.EmailPreference{},
	); err != nil {
		return err
	}
	log.Println("Database migration completed")

	// The notifications category must exist before any preference can be
	// stored against it
	notificationsCategory := models.EmailCategory{Key: models.EmailCategoryNotifications}
	if err := db.Where(models.EmailCategory{Key: models.EmailCategoryNotifications}).
		FirstOrCreate(&notificationsCategory).Error; err != nil {
		return err
	}

	// Repositories
	userRepo := repositories.NewPostgresUserRepository(db)
	photoRepo := repositories.NewPostgresPhotoRepository(db)
	albumRepo := repositories.NewPostgresAlbumRepository(db)
	eventRepo := repositories.NewPostgresEventRepository(db)
	challengeRepo := repositories.NewPostgresChallengeRepository(db)
	commentRepo := repositories.NewPostgresCommentRepository(db)
	notificationRepo := repositories.NewPostgresNotificationRepository(db)
	preferenceRepo := repositories.NewPostgresPreferenceRepository(db)
	deliveryLogRepo := repositories.NewMongoDeliveryLogRepository(dbs.Mongo)

	// Services
	resolver := services.NewEntityResolver(photoRepo, albumRepo, eventRepo, challengeRepo, userRepo, cfg.SiteURL)
	recipients := services.NewRecipientBuilder(commentRepo, userRepo)
	gate := services.NewPreferenceGate(preferenceRepo)
	tokens := services.NewOptOutTokenService(cfg.OptOutTokenSecret, cfg.SiteURL)
	mailer := services.NewSMTPEmailService(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	push := services.NewPushService(fb.Messaging, userRepo)
	writer := services.NewNotificationWriter(notificationRepo, push)

	var cache services.CacheInvalidator
	if dbs.Redis != nil {
		cache = services.NewRedisCacheInvalidator(dbs.Redis)
	} else {
		cache = services.NewNoopCacheInvalidator()
	}

	commentNotifications := services.NewCommentNotificationService(
		resolver, recipients, gate, tokens, mailer, writer, cache, deliveryLogRepo, cfg.SiteURL,
	)

	// Handlers
	authHandler := handlers.NewAuthHandler(userRepo, fb.Auth, cfg.JWTSecret)
	userHandler := handlers.NewUserHandler(userRepo)
	commentHandler := handlers.NewCommentHandler(
		commentRepo, photoRepo, albumRepo, eventRepo, challengeRepo, userRepo, commentNotifications,
	)
	notificationHandler := handlers.NewNotificationHandler(notificationRepo)
	preferencesHandler := handlers.NewPreferencesHandler(preferenceRepo, tokens)
	galleryHandler := handlers.NewGalleryHandler(photoRepo, albumRepo, eventRepo, challengeRepo, deliveryLogRepo)

	e.GET("/health", handlers.HealthCheck)

	api := e.Group("/api/v1")

	// Public routes
	authHandler.RegisterAuthRoutes(api)
	userHandler.RegisterPublicRoutes(api)
	preferencesHandler.RegisterPublicRoutes(api)
	galleryHandler.RegisterGalleryRoutes(api)
	log.Println("Public routes registered")

	// Authenticated routes
	authenticated := api.Group("", middleware.JWTAuth(cfg.JWTSecret))
	userHandler.RegisterUserRoutes(authenticated)
	commentHandler.RegisterCommentRoutes(authenticated)
	notificationHandler.RegisterNotificationRoutes(authenticated)
	preferencesHandler.RegisterPreferenceRoutes(authenticated)
	log.Println("Authenticated routes registered")

	// Admin routes
	admin := authenticated.Group("/admin")
	galleryHandler.RegisterAdminRoutes(admin)
	log.Println("Admin routes registered")

	return nil
}
