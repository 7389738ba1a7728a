package router

import (
	"log"

	"github.com/anonto42/circles/backend/internal/handlers"
	"github.com/anonto42/circles/backend/internal/middleware"
	"github.com/anonto42/circles/backend/internal/policy"
	"github.com/anonto42/circles/backend/internal/repositories"
	"github.com/anonto42/circles/backend/internal/services"
	"github.com/anonto42/circles/backend/pkg/config"
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"
)

// Dependencies are the external collaborators of the HTTP layer. ModerationLog
// and Verifier may be nil.
type Dependencies struct {
	DB            *gorm.DB
	ModerationLog repositories.ModerationLogRepository
	Verifier      handlers.IdentityVerifier
}

// SetupRoutes configures all application routes and injects dependencies
func SetupRoutes(e *echo.Echo, cfg *config.Config, deps Dependencies) {
	pgdb := deps.DB

	// Health check - always accessible
	e.GET("/health", handlers.HealthCheck)

	// --- Initialize Repositories ---
	userRepo := repositories.NewPostgresUserRepository(pgdb)
	circleRepo := repositories.NewPostgresCircleRepository(pgdb)
	membershipRepo := repositories.NewPostgresMembershipRepository(pgdb)
	followRepo := repositories.NewPostgresFollowRepository(pgdb)
	postRepo := repositories.NewPostgresPostRepository(pgdb)
	commentRepo := repositories.NewPostgresCommentRepository(pgdb)
	likeRepo := repositories.NewPostgresLikeRepository(pgdb)
	albumRepo := repositories.NewPostgresAlbumRepository(pgdb)
	engagementRepo := repositories.NewPostgresAlbumEngagementRepository(pgdb)
	notificationRepo := repositories.NewPostgresNotificationRepository(pgdb)

	// --- Services ---
	resolver := policy.NewResolver(circleRepo, membershipRepo, followRepo, cfg.ProfileFollowersCanView)
	counters := services.NewCounters(likeRepo, commentRepo, membershipRepo, followRepo, albumRepo, engagementRepo)
	notifier := services.NewNotificationService(notificationRepo, userRepo)
	identity := services.NewIdentityService(userRepo, followRepo, resolver, counters)
	circles := services.NewCircleService(circleRepo, membershipRepo, userRepo, resolver, counters, notifier, deps.ModerationLog)
	follows := services.NewFollowService(followRepo, userRepo, resolver, notifier)
	feed := services.NewFeedService(postRepo, commentRepo, likeRepo, followRepo, userRepo, circleRepo, resolver, counters, notifier, deps.ModerationLog)
	gallery := services.NewGalleryService(albumRepo, engagementRepo, circleRepo, userRepo, resolver, counters, notifier)

	userHandler := handlers.NewUserHandler(identity, gallery)
	circleHandler := handlers.NewCircleHandler(circles)
	postHandler := handlers.NewPostHandler(feed)
	albumHandler := handlers.NewAlbumHandler(gallery)

	// --- Unprotected routes for authentication ---
	authGroup := e.Group("/api/v1/auth")
	authHandler := handlers.NewAuthHandler(identity, deps.Verifier, cfg.JWTSecret, cfg.JWTTTL)
	authHandler.RegisterAuthRoutes(authGroup)
	log.Println("Auth routes configured.")

	// --- Public reads; a valid token still identifies the viewer ---
	public := e.Group("/api/v1/public")
	public.Use(middleware.OptionalJWTMiddleware(cfg.JWTSecret))
	userHandler.RegisterPublicRoutes(public)
	circleHandler.RegisterPublicRoutes(public)
	postHandler.RegisterPublicRoutes(public)
	albumHandler.RegisterPublicRoutes(public)
	log.Println("Public routes configured.")

	// --- Protected routes (require JWT authentication) ---
	api := e.Group("/api/v1")
	api.Use(middleware.JWTAuthMiddleware(cfg.JWTSecret))
	log.Println("JWT authentication middleware applied to /api/v1 group.")

	userHandler.RegisterProfileRoutes(api)
	log.Println("User profile routes configured.")

	circleHandler.RegisterCircleRoutes(api)
	log.Println("Circle routes configured.")

	postHandler.RegisterPostRoutes(api)
	log.Println("Post routes configured.")

	feedHandler := handlers.NewFeedHandler(feed)
	feedHandler.RegisterFeedRoutes(api)
	log.Println("Feed routes configured.")

	followHandler := handlers.NewFollowHandler(follows)
	followHandler.RegisterFollowRoutes(api)
	log.Println("Follow routes configured.")

	albumHandler.RegisterAlbumRoutes(api)
	log.Println("Album routes configured.")

	notificationHandler := handlers.NewNotificationHandler(notifier, identity)
	notificationHandler.RegisterNotificationRoutes(api)
	log.Println("Notification routes configured.")

	log.Println("All routes configured.")
}
