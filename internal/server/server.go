// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log"
	"strconv"
	"strings"
	"sync"
	"time"

	"creospace/internal/cache"
	"creospace/internal/config"
	"creospace/internal/database"
	"creospace/internal/featureflags"
	"creospace/internal/middleware"
	"creospace/internal/models"
	"creospace/internal/notifications"
	"creospace/internal/observability"
	"creospace/internal/repository"
	"creospace/internal/service"
	"creospace/internal/storage"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/monitor"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

const (
	jwtIssuer   = "creospace-api"
	jwtAudience = "creospace-client"

	wsTicketTTL      = 30 * time.Second
	wsTicketCacheTTL = time.Minute
)

// wireableHub is implemented by every WebSocket hub that can be wired to
// Redis pub/sub and gracefully shut down.
type wireableHub interface {
	Name() string
	StartWiring(ctx context.Context, n *notifications.Notifier) error
	Shutdown(ctx context.Context) error
}

// consumedTicketEntry caches a WebSocket ticket that was already consumed from
// Redis via GETDEL. Fiber's websocket upgrade runs the middleware chain more
// than once for the same handshake, so the first pass consumes the ticket
// atomically and later passes resolve it from this in-process cache.
type consumedTicketEntry struct {
	userID    uint
	consumeAt time.Time
}

// Server holds all dependencies and provides handlers
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc
	tracerShutdown func(context.Context) error

	userRepo       repository.UserRepository
	profileRepo    repository.ProfileRepository
	followRepo     repository.FollowRepository
	postRepo       repository.PostRepository
	commentRepo    repository.CommentRepository
	storyRepo      repository.StoryRepository
	groupRepo      repository.GroupRepository
	collectionRepo repository.CollectionRepository
	projectRepo    repository.ProjectRepository

	notifier *notifications.Notifier
	hub      *notifications.Hub
	chatHub  *notifications.ChatHub
	hubs     []wireableHub // all hubs for wiring/shutdown iteration

	featureFlags *featureflags.Manager
	media        *storage.Store

	userService       *service.UserService
	profileService    *service.ProfileService
	followService     *service.FollowService
	postService       *service.PostService
	commentService    *service.CommentService
	feedService       *service.FeedService
	storyService      *service.StoryService
	groupService      *service.GroupService
	collectionService *service.CollectionService
	projectService    *service.ProjectService

	consumedTicketsMu sync.Mutex
	consumedTickets   map[string]consumedTicketEntry
}

// NewServer creates a new server instance with all dependencies
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)
	redisClient := cache.GetClient()

	return NewServerWithDeps(cfg, db, redisClient)
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Use this in tests or when a bootstrap layer establishes DB/Redis and
// optionally performs explicit seeding.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	media, err := storage.NewStore(storage.Config{
		Root:       cfg.MediaRoot,
		BaseURL:    cfg.MediaBaseURL,
		MaxImageMB: cfg.ImageMaxUploadSizeMB,
	})
	if err != nil {
		return nil, fmt.Errorf("media store init failed: %w", err)
	}

	prom := middleware.InitMetrics("creospace-api")

	server := &Server{
		config:          cfg,
		db:              db,
		redis:           redisClient,
		promMiddleware:  prom,
		userRepo:        repository.NewUserRepository(db),
		profileRepo:     repository.NewProfileRepository(db),
		followRepo:      repository.NewFollowRepository(db),
		postRepo:        repository.NewPostRepository(db),
		commentRepo:     repository.NewCommentRepository(db),
		storyRepo:       repository.NewStoryRepository(db),
		groupRepo:       repository.NewGroupRepository(db),
		collectionRepo:  repository.NewCollectionRepository(db),
		projectRepo:     repository.NewProjectRepository(db),
		featureFlags:    featureflags.NewManager(cfg.FeatureFlags),
		media:           media,
		consumedTickets: make(map[string]consumedTicketEntry),
	}

	server.userService = service.NewUserService(server.userRepo, server.profileRepo)
	server.profileService = service.NewProfileService(server.profileRepo, server.followRepo)
	server.followService = service.NewFollowService(server.followRepo, server.profileRepo)
	server.postService = service.NewPostService(server.postRepo, server.profileRepo, server.followRepo)
	server.commentService = service.NewCommentService(server.commentRepo, server.profileRepo, server.postService)
	server.feedService = service.NewFeedService(server.postRepo, server.followRepo, server.profileRepo, server.commentRepo, server.postService)
	server.storyService = service.NewStoryService(server.storyRepo, server.followRepo, server.profileRepo)
	server.groupService = service.NewGroupService(server.groupRepo, server.profileRepo)
	server.collectionService = service.NewCollectionService(server.collectionRepo, server.postService)
	server.projectService = service.NewProjectService(server.projectRepo, server.profileRepo)

	// Initialize notifier and hubs if Redis is available
	if redisClient != nil {
		server.notifier = notifications.NewNotifier(redisClient)
		server.hub = notifications.NewHub(redisClient)
		server.chatHub = notifications.NewChatHub()
		server.hubs = []wireableHub{server.hub, server.chatHub}
	}

	return server, nil
}

// SetupMiddleware configures middleware for the Fiber app
func (s *Server) SetupMiddleware(app *fiber.App) {
	// Panic recovery
	app.Use(recover.New())

	// Request ID for tracing
	app.Use(requestid.New())

	// Context Middleware to propagate Request ID and User ID
	app.Use(middleware.ContextMiddleware())

	// OpenTelemetry spans per request
	if s.config.TracingEnabled {
		app.Use(middleware.TracingMiddleware())
	}

	// Prometheus Metrics
	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	// Security headers
	app.Use(helmet.New())

	// Structured Logging middleware (after requestid and context middleware)
	app.Use(middleware.StructuredLogger())

	// CORS middleware should run before middlewares that can short-circuit (e.g. limiter)
	// so browser clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}

	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they should be handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	// Backwards-compatible legacy route: map /health to readiness (keeps existing scripts working)
	app.Get("/health", s.ReadinessCheck)
	api.Get("/", s.HealthCheck)

	// Metrics endpoint for Prometheus
	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}
	api.Get("/metrics/dashboard", monitor.New(monitor.Config{
		Title: "Creospace Backend Metrics Dashboard",
	}))

	// Uploaded media is served straight off disk.
	app.Static(s.config.MediaBaseURL, s.config.MediaRoot)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/refresh", s.Refresh)
	auth.Post("/logout", s.Logout)
	auth.Get("/username-available", s.CheckUsernameAvailable)

	// Public browse routes
	publicUsers := api.Group("/users")
	publicUsers.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchProfiles)

	publicProjects := api.Group("/projects")
	publicProjects.Get("/discover", s.DiscoverProjects)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	// WebSocket ticket issuance
	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)

	// User / profile routes
	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Put("/me/password", s.ChangePassword)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id/stories", s.GetUserStories)
	users.Get("/:id/projects", s.GetUserProjects)
	users.Get("/:id/followers", s.GetFollowers)
	users.Get("/:id/following", s.GetFollowing)
	users.Get("/:id", s.GetProfile)
	api.Get("/profiles/:username", s.GetProfileByUsername)

	// Follow routes
	follows := protected.Group("/follows")
	follows.Get("/requests", s.GetPendingFollowRequests)
	follows.Get("/requests/sent", s.GetSentFollowRequests)
	follows.Post("/requests/:userId/accept", s.AcceptFollowRequest)
	follows.Post("/requests/:userId/reject", s.RejectFollowRequest)
	follows.Get("/status/:userId", s.GetFollowStatus)
	follows.Post("/:userId", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "follow_request"), s.FollowUser)
	follows.Delete("/:userId", s.UnfollowUser)

	// Feed routes
	feed := protected.Group("/feed")
	feed.Get("/home", s.HomeFeed)
	feed.Get("/following", s.FollowingFeed)
	feed.Get("/explore", s.ExploreFeed)
	feed.Get("/hashtag/:tag", s.HashtagFeed)
	feed.Get("/mentions/:username", s.MentionFeed)
	feed.Get("/activity", s.ActivityFeed)

	// Post routes
	posts := protected.Group("/posts")
	posts.Post("/", middleware.RateLimit(
		s.redis, 1, 5*time.Minute, "create_post"), s.CreatePost)
	posts.Get("/bookmarks", s.GetBookmarks)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	posts.Post("/:id/like", s.ToggleLike)
	posts.Post("/:id/reactions", s.ReactToPost)
	posts.Delete("/:id/reactions", s.RemoveReaction)
	posts.Get("/:id/reactions", s.GetReactions)
	posts.Post("/:id/bookmark", s.BookmarkPost)
	posts.Delete("/:id/bookmark", s.UnbookmarkPost)
	posts.Get("/:id/comments", s.GetComments)
	posts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 1, time.Minute, "create_comment"), s.CreateComment)
	posts.Put("/:id/comments/:commentId", s.UpdateComment)
	posts.Delete("/:id/comments/:commentId", s.DeleteComment)
	// Generic /:id routes (for item detail, update, delete)
	posts.Get("/:id", s.GetPost)
	posts.Put("/:id", s.UpdatePost)
	posts.Delete("/:id", s.DeletePost)

	// Story routes
	stories := protected.Group("/stories")
	stories.Post("/", middleware.RateLimit(
		s.redis, 5, 5*time.Minute, "create_story"), s.CreateStory)
	stories.Get("/", s.GetStoryShelf)
	stories.Delete("/:id", s.DeleteStory)

	// Group chat routes
	groups := protected.Group("/groups")
	groups.Post("/", s.CreateGroup)
	groups.Get("/", s.GetMyGroups)
	// Define specific /:id/:resource routes BEFORE generic /:id route
	groups.Get("/:id/members", s.GetGroupMembers)
	groups.Post("/:id/members", s.AddGroupMember)
	groups.Delete("/:id/members/:userId", s.RemoveGroupMember)
	groups.Put("/:id/members/:userId/role", s.UpdateGroupMemberRole)
	groups.Get("/:id/messages", s.GetGroupMessages)
	groups.Post("/:id/messages", middleware.RateLimit(
		s.redis, 15, time.Minute, "send_chat"), s.SendGroupMessage)
	groups.Get("/:id", s.GetGroup)
	groups.Put("/:id", s.UpdateGroup)
	groups.Delete("/:id", s.DeleteGroup)

	// Collection routes
	collections := protected.Group("/collections")
	collections.Post("/", s.CreateCollection)
	collections.Get("/", s.GetMyCollections)
	collections.Get("/:id/posts", s.GetCollectionPosts)
	collections.Post("/:id/posts/:postId", s.SaveToCollection)
	collections.Delete("/:id/posts/:postId", s.RemoveFromCollection)
	collections.Put("/:id", s.UpdateCollection)
	collections.Delete("/:id", s.DeleteCollection)

	// Project routes
	projects := protected.Group("/projects")
	projects.Post("/", s.CreateProject)
	projects.Post("/:id/star", s.ToggleProjectStar)
	projects.Post("/:id/fork", s.ForkProject)
	projects.Get("/:id", s.GetProject)
	projects.Put("/:id", s.UpdateProject)
	projects.Delete("/:id", s.DeleteProject)

	// Media upload routes
	media := protected.Group("/media")
	media.Post("/:bucket", middleware.RateLimit(
		s.redis, 10, time.Minute, "media_upload"), s.UploadMedia)

	// Websocket endpoints - protected by AuthRequired
	ws := api.Group("/ws", s.AuthRequired())
	ws.Get("/", s.WebsocketHandler())         // General notifications
	ws.Get("/chat", s.WebSocketChatHandler()) // Real-time group chat

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Get("/feature-flags", s.GetFeatureFlags)
}

// HealthCheck is a legacy/simple alias for ReadinessCheck
func (s *Server) HealthCheck(c *fiber.Ctx) error {
	return s.ReadinessCheck(c)
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
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// Redis is considered required for full readiness in this app
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" || redisStatus != "healthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"message": "creospace",
		"version": "1.0.0",
		"status":  overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AdminRequired returns middleware that rejects non-admin users with 403.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		admin, err := s.isAdmin(c, userID)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusInternalServerError, err)
		}
		if !admin {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin access required"))
		}

		return c.Next()
	}
}

// AuthRequired returns the authentication middleware
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		isWSPath := strings.HasPrefix(path, "/api/ws")

		// 1. Try WebSocket ticket first (short-lived, single-use)
		ticket := c.Query("ticket")
		if ticket != "" {
			// WS handshakes pass through the middleware chain multiple
			// times; after the ticket was consumed from Redis, later
			// passes resolve it from the in-process cache.
			if isWSPath {
				if userID, ok := s.cachedTicketUserID(ticket); ok {
					s.setAuthLocals(c, userID)
					c.Locals("wsTicket", ticket)
					return c.Next()
				}
			}

			if s.redis != nil {
				key := fmt.Sprintf("ws_ticket:%s", ticket)
				// GETDEL consumes atomically so a ticket can never
				// authenticate two different connections.
				userIDStr, err := s.redis.GetDel(c.Context(), key).Result()
				if err == nil {
					userID, parseErr := strconv.ParseUint(userIDStr, 10, 32)
					if parseErr == nil {
						if isWSPath {
							s.cacheConsumedTicket(ticket, uint(userID))
							c.Locals("wsTicket", ticket)
						}
						s.setAuthLocals(c, uint(userID))
						return c.Next()
					}
				}
			}

			// If ticket was provided but invalid/expired, we fail if it's a WS path
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		// 2. Fall back to JWT (Bearer token or query param)
		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}

		// Reject token in query param for WS routes (must use ticket)
		if tokenString == "" && !isWSPath {
			tokenString = c.Query("token")
		}

		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, _, err := s.parseAccessToken(c.Context(), tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError(err.Error()))
		}

		s.setAuthLocals(c, userID)
		return c.Next()
	}
}

// setAuthLocals stores the authenticated user in Fiber locals and syncs it to
// the request context for logging and downstream services.
func (s *Server) setAuthLocals(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}

// parseAccessToken validates a JWT and returns the user ID and claims.
func (s *Server) parseAccessToken(ctx context.Context, tokenString string) (uint, jwt.MapClaims, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, nil, fmt.Errorf("invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, nil, fmt.Errorf("invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != jwtIssuer {
		return 0, nil, fmt.Errorf("invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != jwtAudience {
		return 0, nil, fmt.Errorf("invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, nil, fmt.Errorf("invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, nil, fmt.Errorf("invalid user ID in token")
	}

	// Check JTI for revocation
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		isBlacklisted, err := s.redis.Exists(ctx, "blacklist:"+jti).Result()
		if err == nil && isBlacklisted > 0 {
			return 0, nil, fmt.Errorf("token has been revoked")
		}
	}

	return uint(userID), claims, nil
}

// cachedTicketUserID resolves a previously consumed ticket from the in-process
// cache, pruning stale entries as a side effect.
func (s *Server) cachedTicketUserID(ticket string) (uint, bool) {
	s.consumedTicketsMu.Lock()
	defer s.consumedTicketsMu.Unlock()

	now := time.Now()
	for key, entry := range s.consumedTickets {
		if now.Sub(entry.consumeAt) > wsTicketCacheTTL {
			delete(s.consumedTickets, key)
		}
	}

	entry, ok := s.consumedTickets[ticket]
	if !ok {
		return 0, false
	}
	return entry.userID, true
}

func (s *Server) cacheConsumedTicket(ticket string, userID uint) {
	s.consumedTicketsMu.Lock()
	s.consumedTickets[ticket] = consumedTicketEntry{userID: userID, consumeAt: time.Now()}
	s.consumedTicketsMu.Unlock()
}

// consumeWSTicket discards a ticket once its WebSocket session ends. Accepts
// the raw value of the "wsTicket" local, which may be nil.
func (s *Server) consumeWSTicket(ctx context.Context, ticketVal any) {
	ticket, ok := ticketVal.(string)
	if !ok || ticket == "" {
		return
	}

	s.consumedTicketsMu.Lock()
	delete(s.consumedTickets, ticket)
	s.consumedTicketsMu.Unlock()

	if s.redis != nil {
		s.redis.Del(ctx, fmt.Sprintf("ws_ticket:%s", ticket))
	}
}

// optionalUserID attempts to extract userID from Authorization header but does not enforce it.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}

	userID, _, err := s.parseAccessToken(c.Context(), parts[1])
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Start starts the server
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	tracerShutdown, err := observability.InitTracing(observability.TracingConfig{
		ServiceName:    "creospace-api",
		ServiceVersion: "1.0.0",
		Environment:    s.config.Env,
		Enabled:        s.config.TracingEnabled,
		Exporter:       s.config.TracingExporter,
		OTLPEndpoint:   s.config.TracingOTLPEndpoint,
		SamplerRatio:   s.config.TracingSamplerRatio,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize tracing: %w", err)
	}
	s.tracerShutdown = tracerShutdown

	app := fiber.New(fiber.Config{
		AppName: "Creospace API",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			log.Printf("Error: %v", err)
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	// Wire all hubs to Redis subscriber if available
	if s.notifier != nil {
		for _, h := range s.hubs {
			h := h
			go func() {
				if err := h.StartWiring(s.shutdownCtx, s.notifier); err != nil {
					log.Printf("failed to start %s wiring: %v", h.Name(), err)
				}
			}()
		}
	}

	log.Printf("Server starting on port %s...", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	// Cancel the server-scoped context to stop all wiring goroutines
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	// Shutdown the HTTP/WS server
	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			log.Printf("error shutting down HTTP server: %v", err)
		}
	}

	// Close WebSocket connections gracefully
	for _, h := range s.hubs {
		if err := h.Shutdown(ctx); err != nil {
			log.Printf("error shutting down %s: %v", h.Name(), err)
		}
	}

	// Close database connection
	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			log.Printf("error closing sql DB: %v", cerr)
		}
	}

	// Close Redis connection
	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			log.Printf("error closing redis: %v", rerr)
		}
	}

	// Flush any buffered trace spans
	if s.tracerShutdown != nil {
		if terr := s.tracerShutdown(ctx); terr != nil {
			log.Printf("error shutting down tracer: %v", terr)
		}
	}

	log.Println("Server shutdown complete")
	return nil
}
