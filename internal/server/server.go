// Package server contains the HTTP handlers and routing of the forum API.
package server

import (
	"context"
	"errors"
	"fmt"
	"time"

	_ "github.com/hamidadj13/syncvote-api/docs" // swagger docs
	"github.com/hamidadj13/syncvote-api/internal/cache"
	"github.com/hamidadj13/syncvote-api/internal/config"
	"github.com/hamidadj13/syncvote-api/internal/database"
	"github.com/hamidadj13/syncvote-api/internal/middleware"
	"github.com/hamidadj13/syncvote-api/internal/models"
	"github.com/hamidadj13/syncvote-api/internal/repository"
	"github.com/hamidadj13/syncvote-api/internal/service"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/redis/go-redis/v9"
)

// Repositories bundles the data access layer the services are built on.
type Repositories struct {
	Users    repository.UserRepository
	Posts    repository.PostRepository
	Comments repository.CommentRepository
	Votes    repository.VoteRepository
}

// NewRepositories returns the MongoDB implementation of every repository.
func NewRepositories(db *database.DB) Repositories {
	return Repositories{
		Users:    repository.NewUserRepository(db),
		Posts:    repository.NewPostRepository(db),
		Comments: repository.NewCommentRepository(db),
		Votes:    repository.NewVoteRepository(db),
	}
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *database.DB
	redis          *redis.Client
	cache          *cache.Cache
	tokens         *middleware.TokenManager
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	userService    *service.UserService
	postService    *service.PostService
	commentService *service.CommentService
	voteService    *service.VoteService
}

// NewServer connects to MongoDB and Redis and builds a server on top of them.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}
	if err := database.EnsureIndexes(context.Background(), db); err != nil {
		_ = db.Close(context.Background())
		return nil, err
	}

	redisClient := cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// A nil redisClient selects the in-process cache.
func NewServerWithDeps(cfg *config.Config, db *database.DB, redisClient *redis.Client) (*Server, error) {
	s, err := newServer(cfg, NewRepositories(db), newCache(cfg, redisClient))
	if err != nil {
		return nil, err
	}
	s.db = db
	s.redis = redisClient
	return s, nil
}

func newCache(cfg *config.Config, redisClient *redis.Client) *cache.Cache {
	if redisClient != nil {
		return cache.New(cache.NewRedisStore(redisClient), cfg.CacheTTL)
	}
	middleware.Logger.Warn("using in-process cache", "size", cfg.CacheFallbackSize)
	return cache.New(cache.NewMemoryStore(cfg.CacheFallbackSize, cfg.CacheTTL), cfg.CacheTTL)
}

func newServer(cfg *config.Config, repos Repositories, c *cache.Cache) (*Server, error) {
	catalog, err := service.LoadCatalog()
	if err != nil {
		return nil, err
	}
	tokens := middleware.NewTokenManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.JWTAudience)

	votes := service.NewVoteService(repos.Votes, repos.Posts, repos.Comments, c)
	votes.SetSettleWindow(cfg.ReconcileSettle)

	return &Server{
		config:         cfg,
		cache:          c,
		tokens:         tokens,
		promMiddleware: middleware.InitMetrics("syncvote-api"),
		userService:    service.NewUserService(repos.Users, tokens, c),
		postService:    service.NewPostService(repos.Posts, repos.Users, catalog, c),
		commentService: service.NewCommentService(repos.Comments, repos.Posts, c),
		voteService:    votes,
	}, nil
}

// VoteService exposes the vote service to background jobs.
func (s *Server) VoteService() *service.VoteService {
	return s.voteService
}

func (s *Server) UserService() *service.UserService { return s.userService }

func (s *Server) PostService() *service.PostService { return s.postService }

func (s *Server) CommentService() *service.CommentService { return s.commentService }

// NewApp builds the Fiber application with every middleware and route and
// makes it the one Start serves and Shutdown stops.
func (s *Server) NewApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "SyncVote API",
		ErrorHandler: errorHandler,
	})
	s.SetupMiddleware(app)
	s.SetupRoutes(app)
	s.app = app
	return app
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.TracingMiddleware())

	// Propagates request and trace IDs into the request context for logging.
	app.Use(middleware.ContextMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:3000"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: origins,
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		MaxAge:       86400,
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	app.Get("/swagger/*", swagger.HandlerDefault)

	api := app.Group("/api")
	auth := middleware.AuthRequired(s.tokens)
	authLimit := middleware.RateLimit(s.redis, s.config.RateLimitAuth, 5*time.Minute, "auth")
	voteLimit := middleware.RateLimit(s.redis, s.config.RateLimitVotes, time.Minute, "vote")

	api.Post("/auth/login", authLimit, s.Login)

	// Specific /users/... routes before generic /users/:id
	api.Post("/users", authLimit, s.Signup)
	api.Get("/users", auth, s.GetUsers)
	api.Patch("/users/password", auth, s.ChangePassword)
	api.Get("/users/:id/posts", s.GetUserPosts)
	api.Get("/users/:id", auth, s.GetUser)
	api.Put("/users/:id", auth, middleware.AdminRequired(), s.UpdateUser)
	api.Delete("/users/:id", auth, s.DeleteUser)
	api.Put("/user/me", auth, s.UpdateMe)

	api.Get("/categories", s.GetCategories)
	api.Get("/categories/:category/posts", s.GetCategoryPosts)

	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Post("/", auth, s.CreatePost)
	posts.Post("/:postId/vote", auth, voteLimit, s.VotePost)
	posts.Get("/:postId/votes", s.GetPostVotes)
	posts.Post("/:postId/comments", auth, s.CreateComment)
	posts.Get("/:postId/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", auth, s.UpdatePost)
	posts.Delete("/:id", auth, s.DeletePost)

	comments := api.Group("/comments")
	comments.Post("/:commentId/vote", auth, voteLimit, s.VoteComment)
	comments.Get("/:commentId/votes", s.GetCommentVotes)
	comments.Get("/:id", s.GetComment)
	comments.Put("/:id", auth, s.UpdateComment)
	comments.Delete("/:id", auth, s.DeleteComment)

	app.Use(s.NotFound)
}

// NotFound answers every request no route matched.
func (s *Server) NotFound(c *fiber.Ctx) error {
	return models.RespondWithError(c, fiber.StatusNotFound, models.NewNotFoundMessage("Route not found"))
}

// LivenessCheck handles liveness probe requests
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	if s.db == nil {
		dbStatus = "unavailable"
	} else if err := s.db.Ping(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	cacheStatus := "healthy"
	cacheBackend := "redis"
	switch {
	case s.cache == nil:
		cacheStatus, cacheBackend = "unavailable", "none"
	case s.cache.Ping(ctx) != nil:
		cacheStatus = "unhealthy"
	}
	if s.cache != nil && s.redis == nil {
		cacheBackend = "memory"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus != "healthy" || cacheStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"cache":    cacheStatus,
		},
		"cache_backend": cacheBackend,
		"time":          time.Now(),
	})
}

// errorHandler answers errors that escaped a handler.
func errorHandler(c *fiber.Ctx, err error) error {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) && fiberErr.Code < fiber.StatusInternalServerError {
		return c.Status(fiberErr.Code).JSON(models.ErrorResponse{
			Status:  fiberErr.Code,
			Message: fiberErr.Message,
		})
	}
	middleware.Logger.ErrorContext(c.UserContext(), "unhandled error", "path", c.Path(), "error", err)
	return models.RespondWithError(c, fiber.StatusInternalServerError, models.NewInternalError(err))
}

// Start listens on the configured port with the app from the last NewApp
// call. It blocks until the listener stops. Call NewApp before starting
// Start on its own goroutine so Shutdown always sees the app.
func (s *Server) Start() error {
	if s.app == nil {
		return errors.New("server: NewApp must be called before Start")
	}
	middleware.Logger.Info("server starting", "port", s.config.Port, "env", s.config.Env)
	return s.app.Listen(":" + s.config.Port)
}

// Shutdown stops accepting requests and waits for in-flight ones.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.app == nil {
		return nil
	}
	return s.app.ShutdownWithContext(ctx)
}

// Close releases the MongoDB and Redis connections. Call it after Shutdown
// and after background jobs using the store have stopped.
func (s *Server) Close(ctx context.Context) error {
	var errs []error
	if s.db != nil {
		if err := s.db.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("mongo disconnect: %w", err))
		}
	}
	if s.redis != nil {
		if err := s.redis.Close(); err != nil {
			errs = append(errs, fmt.Errorf("redis close: %w", err))
		}
	}
	return errors.Join(errs...)
}
