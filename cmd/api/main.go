// @title QuizHub API
// @version 1.0
// @description Quiz catalog, graded attempts and leaderboard.
// @host localhost:8080
// @BasePath /api
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type 'Bearer YOUR_JWT_TOKEN' to authorize.
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"quizhub/internal/adapter"
	"quizhub/internal/cache"
	"quizhub/internal/config"
	"quizhub/internal/database"
	"quizhub/internal/domain"
	"quizhub/internal/handler"
	"quizhub/internal/logger"
	"quizhub/internal/middleware"
	"quizhub/internal/repository"
	"quizhub/internal/service"
	"quizhub/internal/validation"

	_ "quizhub/cmd/api/docs"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"
	"go.uber.org/zap"
)

// requestLogger logs every HTTP request after it completes.
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", c.Response().StatusCode()),
			zap.Duration("duration", time.Since(start)),
			zap.String("ip", c.IP()),
			zap.String("user_agent", c.Get("User-Agent")),
		)
		return err
	}
}

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Initialize(cfg.Logger); err != nil {
		panic(err)
	}
	appLogger := logger.Get()
	defer logger.Sync()

	db, err := database.NewSQLXOracleDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)

	txManager := repository.NewTransactionManagerAdapter(db)
	userRepository := repository.NewSQLXUserRepository(db)
	quizRepository := repository.NewSQLXQuizRepository(db)
	attemptRepository := repository.NewSQLXAttemptRepository(db)
	leaderboardRepository := repository.NewSQLXLeaderboardRepository(db)

	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}
	userService := service.NewUserService(userRepository)
	quizService := service.NewQuizService(quizRepository, cacheAdapter, txManager)
	attemptService := service.NewAttemptService(quizRepository, attemptRepository, cacheAdapter, txManager)
	statsService := service.NewStatsService(leaderboardRepository, cacheAdapter)

	validator := validation.NewValidator()

	authHandler := handler.NewAuthHandler(authService, userService, validator, cfg)
	quizHandler := handler.NewQuizHandler(quizService, validator)
	attemptHandler := handler.NewAttemptHandler(attemptService, validator)
	statsHandler := handler.NewStatsHandler(statsService, userService)
	adminHandler := handler.NewAdminHandler(userService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler,
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PATCH,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization",
		MaxAge:       300,
	}))
	app.Use(recover.New())

	app.Get("/swagger/*", swagger.HandlerDefault)
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})

	// Endpoints reachable without a token. Everything else under /api goes
	// through Protected.
	publicPaths := map[string]bool{
		"/api/auth/register":        true,
		"/api/auth/login":           true,
		"/api/auth/refresh":         true,
		"/api/auth/validate":        true,
		"/api/auth/google/login":    true,
		"/api/auth/google/callback": true,
		"/api/config":               true,
	}

	apiGroup := app.Group("/api", middleware.Protected(authService, publicPaths))

	apiGroup.Get("/config", authHandler.Config)

	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/logout", authHandler.Logout)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Get("/validate", authHandler.Validate)
	authGroup.Get("/google/login", authHandler.GoogleLogin)
	authGroup.Get("/google/callback", authHandler.GoogleCallback)

	apiGroup.Get("/quizzes", quizHandler.ListQuizzes)
	apiGroup.Get("/quizzes/:quizID", quizHandler.GetQuizDetail)
	apiGroup.Get("/categories", quizHandler.ListCategories)
	apiGroup.Post("/quizzes/:quizID/attempts", attemptHandler.SubmitAttempt)
	apiGroup.Get("/leaderboard", statsHandler.GetLeaderboard)
	apiGroup.Get("/performance", statsHandler.GetPerformance)
	apiGroup.Get("/stats", statsHandler.GetUserStats)
	apiGroup.Get("/users/me", statsHandler.GetProfile)
	apiGroup.Get("/users/me/attempts", attemptHandler.GetAttemptHistory)

	requireAdmin := middleware.RequireRole(domain.RoleAdmin)
	apiGroup.Post("/quizzes", requireAdmin, quizHandler.CreateQuiz)
	apiGroup.Patch("/quizzes/:quizID", requireAdmin, quizHandler.UpdateQuiz)
	apiGroup.Delete("/quizzes/:quizID", requireAdmin, quizHandler.DeleteQuiz)

	adminGroup := apiGroup.Group("/admin", requireAdmin)
	adminGroup.Get("/users", adminHandler.ListUsers)
	adminGroup.Patch("/users/:userID/status", adminHandler.UpdateUserStatus)

	// Anything unmatched gets the envelope, not fiber's plain-text 404.
	app.Use(func(c *fiber.Ctx) error {
		return domain.NewNotFoundError("The requested resource was not found")
	})

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := app.ShutdownWithContext(ctx); err != nil {
		appLogger.Fatal("Server forced to shutdown", zap.Error(err))
	}
	appLogger.Info("Server exited gracefully")
}
