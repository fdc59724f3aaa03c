package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"finance_tracker/internal/config"
	"finance_tracker/internal/handler"
	"finance_tracker/internal/logger"
	"finance_tracker/internal/middleware"
	"finance_tracker/internal/repository"
	"finance_tracker/internal/service"
	"finance_tracker/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func main() {
	// Load .env file
	envErr := godotenv.Load()

	// --- Configuration ---
	cfg, err := config.Load(context.Background())
	if err != nil {
		log := logger.Init(logger.Options{Pretty: true})
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.IsDevelopment()})
	if envErr != nil {
		log.Info().Msg("no .env file found, relying on environment variables")
	}
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Database Connection ---
	dbPool, err := config.ConnectDB(ctx, &cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer dbPool.Close()

	// --- Auto Migration ---
	if err := config.AutoMigrate(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("failed to auto-migrate database")
	}

	// --- Initialize Utilities ---
	jwtUtil := utils.NewJWTUtil(cfg.JWT.SecretKey, cfg.JWT.TTL())

	// --- Initialize Repositories ---
	userRepo := repository.NewUserRepository(dbPool)
	expenseRepo := repository.NewExpenseRepository(dbPool)

	router := setupRouter(routerDeps{
		jwtUtil:  jwtUtil,
		users:    userRepo,
		auth:     service.NewAuthService(userRepo, jwtUtil),
		admin:    service.NewAdminService(userRepo),
		expenses: service.NewExpenseService(expenseRepo),
		db:       dbPool,
	})

	// --- Start Server ---
	srv := &http.Server{
		Addr:    ":" + cfg.ServerPort,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.ServerPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("listen failed")
		}
	}()

	// --- Graceful Shutdown ---
	<-ctx.Done()
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
		os.Exit(1)
	}

	log.Info().Msg("server exiting")
}

type pinger interface {
	Ping(ctx context.Context) error
}

type routerDeps struct {
	jwtUtil  *utils.JWTUtil
	users    middleware.UserFinder
	auth     service.AuthService
	admin    service.AdminService
	expenses service.ExpenseService
	db       pinger
}

func setupRouter(deps routerDeps) *gin.Engine {
	router := gin.New()
	router.Use(middleware.Recovery(), middleware.RequestID(), middleware.RequestLogger())

	// Simple CORS middleware (allow all)
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	// --- Register Routes ---
	apiGroup := router.Group("/api")
	handler.NewAuthHandler(deps.auth).RegisterAuthRoutes(apiGroup)

	authed := apiGroup.Group("", middleware.JWTAuthMiddleware(deps.jwtUtil, deps.users))
	handler.NewExpenseHandler(deps.expenses).RegisterExpenseRoutes(authed)

	adminGroup := authed.Group("", middleware.AdminMiddleware())
	handler.NewAdminHandler(deps.admin, deps.expenses).RegisterAdminRoutes(adminGroup)

	router.GET("/health", func(c *gin.Context) {
		if err := deps.db.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error", "db": "unhealthy"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "db": "healthy"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return router
}
