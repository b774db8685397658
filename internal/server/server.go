// Package server contains HTTP handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"ripple/internal/config"
	"ripple/internal/database"
	"ripple/internal/middleware"
	"ripple/internal/repository"
	"ripple/internal/service"
	"ripple/internal/session"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// ExternalVerifier exchanges an OAuth callback for an asserted external
// identity. The provider wire protocol lives behind this boundary.
type ExternalVerifier interface {
	Verify(ctx context.Context, provider, code string) (service.ExternalIdentity, error)
}

// Server holds all dependencies and provides handlers. Everything is
// injected at construction; there is no ambient global state.
type Server struct {
	config        *config.Config
	db            *gorm.DB
	redis         *redis.Client
	sessions      *session.Store
	userRepo      repository.UserRepository
	followRepo    repository.FollowRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	authService   *service.AuthService
	followService *service.FollowService
	verifier      ExternalVerifier
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config, verifier ExternalVerifier) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisURL})
	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("redis connection failed: %w", err)
	}

	sessions := session.NewStore(redisClient, cfg.SessionTTL)

	userRepo := repository.NewUserRepository(db)
	followRepo := repository.NewFollowRepository(db)
	postRepo := repository.NewPostRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	return &Server{
		config:        cfg,
		db:            db,
		redis:         redisClient,
		sessions:      sessions,
		userRepo:      userRepo,
		followRepo:    followRepo,
		postRepo:      postRepo,
		commentRepo:   commentRepo,
		authService:   service.NewAuthService(userRepo, sessions),
		followService: service.NewFollowService(followRepo, userRepo),
		verifier:      verifier,
	}, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Request ID for tracing
	app.Use(requestid.New())

	// Security headers
	app.Use(helmet.New())

	// Distributed tracing
	app.Use(middleware.TracingMiddleware())

	// Structured logging middleware
	app.Use(middleware.StructuredLogger())

	// Prometheus HTTP metrics
	prometheus := fiberprometheus.New("ripple")
	prometheus.RegisterAt(app, "/metrics")
	app.Use(prometheus.Middleware)

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	// CORS middleware
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Resolve the caller identity once per request; handlers and route
	// guards read it from locals.
	app.Use(middleware.ResolveIdentity(s.authService))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health check
	api.Get("/", s.HealthCheck)
	api.Get("/health", s.HealthCheck)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.Logout)
	auth.Post("/guest", s.GuestLogin)
	auth.Get("/flashes", s.GetFlashes)
	auth.Get("/:provider/callback", middleware.RateLimit(s.redis, 10, 5*time.Minute, "oauth"), s.ExternalCallback)

	// Guest-allowed read routes
	browse := api.Group("", middleware.AllowGuest())
	browse.Get("/users", s.GetAllUsers)
	browse.Get("/users/:id", s.GetUserProfile)
	browse.Get("/users/:id/posts", s.GetUserPosts)
	browse.Get("/users/:id/followers", s.GetFollowers)
	browse.Get("/users/:id/following", s.GetFollowing)
	browse.Get("/posts", s.GetPosts)
	browse.Get("/posts/:id", s.GetPost)
	browse.Get("/posts/:id/comments", s.GetComments)

	// Routes requiring an authenticated user
	protected := api.Group("", middleware.RequireUser())

	// Profile routes
	protected.Get("/profile", s.GetMyProfile)
	protected.Put("/profile", s.UpdateMyProfile)

	// Follow routes
	follows := protected.Group("/follows")
	follows.Post("/:userId", middleware.RateLimit(s.redis, 5, 5*time.Minute, "follow_request"), s.SendFollowRequest)
	follows.Get("/requests", s.GetPendingRequests)
	follows.Post("/requests/:followId/accept", s.AcceptFollowRequest)
	follows.Post("/requests/:followId/reject", s.RejectFollowRequest)
	follows.Delete("/:userId", s.Unfollow)

	// Post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(s.redis, 5, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Post("/:id/like", s.LikePost)
	posts.Delete("/:id/like", s.UnlikePost)
	posts.Post("/:id/comments", middleware.RateLimit(s.redis, 10, time.Minute, "create_comment"), s.CreateComment)
	posts.Delete("/:id/comments/:commentId", s.DeleteComment)
	posts.Delete("/:id", s.DeletePost)
}

// HealthCheck handles health check requests
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if err := s.redis.Ping(ctx).Err(); err != nil {
		redisStatus = "unhealthy"
	}

	status := fiber.StatusOK
	if dbStatus == "unhealthy" || redisStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "Ripple API is running",
		"version": "1.0.0",
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// Shutdown gracefully shuts down server resources.
func (s *Server) Shutdown(ctx context.Context) error {
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			middleware.Logger.Error("error closing sql DB", slog.String("error", cerr.Error()))
		}
	}

	if rerr := s.redis.Close(); rerr != nil {
		middleware.Logger.Error("error closing redis", slog.String("error", rerr.Error()))
	}

	middleware.Logger.Info("Server shutdown complete")
	return nil
}
