package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/oficialwritiai-cmd/WritiIA/internal/config"
	"github.com/oficialwritiai-cmd/WritiIA/internal/handler"
	"github.com/oficialwritiai-cmd/WritiIA/internal/healthcheck"
	"github.com/oficialwritiai-cmd/WritiIA/internal/llm"
	"github.com/oficialwritiai-cmd/WritiIA/internal/middleware"
	"github.com/oficialwritiai-cmd/WritiIA/internal/ratelimit"
	"github.com/oficialwritiai-cmd/WritiIA/internal/repository"
	"github.com/oficialwritiai-cmd/WritiIA/internal/service"
	"github.com/oficialwritiai-cmd/WritiIA/internal/storage"
)

type Server struct {
	router     *gin.Engine
	config     *config.Config
	redis      *storage.RedisClient
	postgres   *storage.Postgres
	logger     zerolog.Logger
	auditor    *middleware.RequestAuditor
	monitor    *healthcheck.Monitor
	httpServer *http.Server

	authService *service.AuthService
	generation  *service.GenerationService

	authHandler     *handler.AuthHandler
	generateHandler *handler.GenerateHandler
	usageHandler    *handler.UsageHandler
	brandHandler    *handler.BrandHandler
	contentHandler  *handler.ContentHandler
	waitlistHandler *handler.WaitlistHandler
}

func New(cfg *config.Config, redis *storage.RedisClient, postgres *storage.Postgres, logger zerolog.Logger) *Server {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	userRepo := repository.NewUserRepository(postgres.DB)
	creditRepo := repository.NewCreditRepository(postgres.DB)
	usageRepo := repository.NewUsageRepository(postgres.DB)
	contentRepo := repository.NewContentRepository(postgres.DB)
	brandRepo := repository.NewBrandRepository(postgres.DB)
	waitlistRepo := repository.NewWaitlistRepository(postgres.DB)
	requestLogRepo := repository.NewRequestLogRepository(postgres.DB)

	authService := service.NewAuthService(userRepo, cfg.JWT.Secret, cfg.JWT.ExpiryHours)
	creditService := service.NewCreditService(creditRepo, cfg.Credits, logger)
	usageService := service.NewUsageService(usageRepo, cfg.Anthropic, logger)

	llmClient := llm.NewClient(cfg.Anthropic, logger)
	generation := service.NewGenerationService(llmClient, creditService, usageService, brandRepo, contentRepo, cfg, logger)

	s := &Server{
		router:   router,
		config:   cfg,
		redis:    redis,
		postgres: postgres,
		logger:   logger,
		auditor:  middleware.NewRequestAuditor(requestLogRepo, logger, 1000),
		monitor:  healthcheck.NewMonitor(healthcheck.Config{}, logger),

		authService: authService,
		generation:  generation,

		authHandler:     handler.NewAuthHandler(authService, logger),
		generateHandler: handler.NewGenerateHandler(generation, logger),
		usageHandler:    handler.NewUsageHandler(creditService, usageService, logger),
		brandHandler:    handler.NewBrandHandler(brandRepo, logger),
		contentHandler:  handler.NewContentHandler(contentRepo, logger),
		waitlistHandler: handler.NewWaitlistHandler(waitlistRepo, logger),
	}

	s.monitor.Register("database", postgres.Ping)
	if redis != nil {
		s.monitor.Register("redis", redis.Ping)
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.Recovery(s.logger))
	s.router.Use(middleware.RequestID())
	s.router.Use(middleware.Logger(s.logger))
	s.router.Use(middleware.CORS())
	s.router.Use(s.auditor.Middleware())
}

// limiter builds one named limiter. Counters live in Redis when it is
// configured, otherwise in the process.
func (s *Server) limiter(name string, policy config.RatePolicy) ratelimit.Limiter {
	var redis *storage.RedisClient
	if s.config.RateLimit.Backend == "redis" && s.redis != nil {
		redis = s.redis
	}
	return ratelimit.New(redis, name, policy.Limit, s.config.RateLimit.MaxKeys, policy.Window)
}

func (s *Server) setupRoutes() {
	s.router.GET("/health", s.healthCheck)

	v1 := s.router.Group("/api/v1")

	auth := v1.Group("/auth")
	{
		auth.POST("/register", s.authHandler.Register)
		auth.POST("/login", s.authHandler.Login)
	}

	v1.POST("/waitlist", s.waitlistHandler.Join)

	rl := s.config.RateLimit

	// Each generation route carries its own limiter so a burst on one does
	// not starve the others.
	gen := v1.Group("")
	gen.Use(middleware.ResolveIdentity(s.authService))
	{
		gen.POST("/generate",
			middleware.RateLimit(s.limiter("generate", rl.Generate), s.logger),
			s.generateHandler.Generate)
		gen.POST("/generate-plan",
			middleware.RateLimit(s.limiter("plan", rl.Plan), s.logger),
			s.generateHandler.Plan)
		gen.POST("/generate-ideas",
			middleware.RateLimit(s.limiter("ideas", rl.Ideas), s.logger),
			s.generateHandler.Ideas)
		gen.POST("/refine",
			middleware.RateLimit(s.limiter("refine", rl.Refine), s.logger),
			s.generateHandler.Refine)
		gen.POST("/polish",
			middleware.RateLimit(s.limiter("polish", rl.Polish), s.logger),
			s.generateHandler.Polish)
	}

	authed := v1.Group("")
	authed.Use(middleware.RequireAuth(s.authService))
	{
		authed.GET("/credits", s.usageHandler.Credits)
		authed.GET("/usage/summary", s.usageHandler.Summary)
		authed.GET("/usage/recent", s.usageHandler.Recent)

		authed.GET("/brand", s.brandHandler.Get)
		authed.PUT("/brand", s.brandHandler.Put)

		authed.GET("/plans", s.contentHandler.ListPlans)
		authed.GET("/plans/:id/slots", s.contentHandler.ListSlots)
		authed.GET("/scripts", s.contentHandler.ListScripts)
		authed.POST("/slots/:id/scripted", s.contentHandler.MarkScripted)
	}
}

func (s *Server) healthCheck(c *gin.Context) {
	overall := s.monitor.Overall()

	statusCode := http.StatusOK
	if overall != healthcheck.Healthy {
		statusCode = http.StatusServiceUnavailable
	}

	checks := gin.H{}
	for name, status := range s.monitor.Snapshot() {
		checks[name] = status.IsHealthy
	}
	checks["upstream"] = s.generation.UpstreamState()

	c.JSON(statusCode, gin.H{
		"status":    overall.String(),
		"service":   "writiia-api",
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

func (s *Server) Run(addr string) error {
	s.monitor.Start()

	s.httpServer = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second, // generation calls can run long
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info().
		Str("addr", addr).
		Str("environment", s.config.Server.Environment).
		Msg("starting server")

	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down server")

	var err error
	if s.httpServer != nil {
		err = s.httpServer.Shutdown(ctx)
	}

	s.monitor.Stop()

	// Flush buffered audit rows after in-flight requests finish.
	s.auditor.Stop()

	return err
}

func (s *Server) GetRouter() *gin.Engine {
	return s.router
}
