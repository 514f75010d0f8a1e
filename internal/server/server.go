package server

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"go.uber.org/zap"

	"newscheck/internal/cache"
	"newscheck/internal/card"
	"newscheck/internal/classifier"
	"newscheck/internal/config"
	"newscheck/internal/enrich"
	"newscheck/internal/handler"
	"newscheck/internal/middleware"
	"newscheck/internal/ratelimit"
	"newscheck/internal/repository"
	"newscheck/internal/service"
)

type Server struct {
	router *gin.Engine
	cfg    *config.Config
	db     *sqlx.DB
	model  *classifier.Model
	logger *zap.Logger
	log    *logrus.Logger
}

func NewServer(cfg *config.Config, db *sqlx.DB, model *classifier.Model, logger *zap.Logger, log *logrus.Logger) *Server {
	router := gin.Default()

	s := &Server{
		router: router,
		cfg:    cfg,
		db:     db,
		model:  model,
		logger: logger,
		log:    log,
	}

	s.setupRoutes()

	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(middleware.RequestLogger(s.logger))
	s.router.Use(middleware.SecurityHeaders())
	s.router.Use(middleware.CORS())
	s.router.Use(middleware.Timeout(s.cfg.RequestTimeout()))

	responseCache := cache.New(map[string]time.Duration{
		service.CacheStats:  s.cfg.StatsTTL(),
		service.CacheRecent: s.cfg.RecentTTL(),
	})
	limiter := ratelimit.New()
	enricher := enrich.NewHeuristic()
	projector := card.NewProjector(enricher)

	predictionRepo := repository.NewPredictionRepository(s.db, s.logger)
	authRepo := repository.NewAuthRepository(s.db, s.logger)

	predictionService := service.NewPredictionService(predictionRepo, s.model, enricher, responseCache, s.logger)
	authService := service.NewAuthService(authRepo, []byte(s.cfg.Auth.JWTSecret), s.cfg.TokenTTL(), s.logger)

	predictHandler := handler.NewPredictHandler(predictionService, s.logger)
	cardsHandler := handler.NewCardsHandler(predictionRepo, projector, responseCache, s.logger)
	historyHandler := handler.NewHistoryHandler(predictionRepo, projector, s.logger)
	authHandler := handler.NewAuthHandler(authService, s.log)
	adminHandler := handler.NewAdminHandler(predictionRepo, authRepo, responseCache, s.logger)
	healthHandler := handler.NewHealthHandler(s.db, s.model)

	secret := authService.JWTSecret()

	api := s.router.Group("/api")

	api.GET("/health", healthHandler.Health)
	api.GET("/model/info", healthHandler.ModelInfo)

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register)
	authGroup.POST("/login", authHandler.Login)

	// Classification accepts anonymous submissions; authenticated users
	// get the record attributed to them.
	predictGroup := api.Group("")
	predictGroup.Use(middleware.OptionalAuth(secret))
	predictGroup.POST("/predict",
		middleware.RateLimit(limiter, "predict", s.cfg.Limits.Predict),
		predictHandler.Predict)
	predictGroup.POST("/predict/batch",
		middleware.RateLimit(limiter, "batch", s.cfg.Limits.Batch),
		predictHandler.PredictBatch)

	// Fixed card routes must register before the :id parameter route.
	api.GET("/cards", cardsHandler.GetCards)
	api.GET("/cards/stats", cardsHandler.GetStats)
	api.GET("/cards/search", cardsHandler.SearchCards)
	api.GET("/cards/:id", cardsHandler.GetCardByID)

	authRequired := api.Group("")
	authRequired.Use(middleware.AuthMiddleware(secret, s.logger))
	{
		authRequired.POST("/auth/logout", authHandler.Logout)
		authRequired.POST("/auth/password", authHandler.ChangePassword)
		authRequired.GET("/history", historyHandler.GetHistory)
		authRequired.POST("/history/clear", historyHandler.ClearHistory)
	}

	admin := api.Group("/admin")
	admin.Use(middleware.AuthMiddleware(secret, s.logger), middleware.RequireRole("admin"))
	{
		admin.GET("/stats", adminHandler.Stats)
		admin.POST("/clear-cache", adminHandler.ClearCache)
		admin.POST("/backfill", adminHandler.Backfill)
	}

	s.router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{
				"error":     true,
				"message":   "Endpoint not found",
				"code":      http.StatusNotFound,
				"timestamp": time.Now().UTC().Format(time.RFC3339),
			})
			return
		}
		c.Status(http.StatusNotFound)
	})
}

func (s *Server) Run(addr string) {
	s.log.Infof("Server starting on port %s...", addr)
	if err := s.router.Run(addr); err != nil {
		s.log.Fatalf("Server failed to start: %v", err)
	}
}
