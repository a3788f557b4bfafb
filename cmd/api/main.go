// @title VidQuiz API
// @version 1.0
// @description API for generating and taking quizzes from YouTube videos.
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

	"vidquiz/internal/adapter"
	"vidquiz/internal/adapter/generation"
	"vidquiz/internal/adapter/transcript"
	"vidquiz/internal/cache"
	"vidquiz/internal/config"
	"vidquiz/internal/database"
	"vidquiz/internal/handler"
	"vidquiz/internal/logger"
	"vidquiz/internal/middleware"
	"vidquiz/internal/repository"
	"vidquiz/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"
)

// requestLogger is a middleware that logs HTTP requests
func requestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		path := c.Path()
		method := c.Method()

		err := c.Next()

		duration := time.Since(start)
		status := c.Response().StatusCode()

		logger.Get().Info("HTTP Request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
			zap.Duration("duration", duration),
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

	// Outbound adapters
	transcriptFetcher := transcript.NewYouTubeFetcher(cfg.Transcript)

	generator, err := generation.NewGeminiGenerator(context.Background(), cfg.Gemini)
	if err != nil {
		appLogger.Fatal("Failed to create Gemini client", zap.Error(err))
	}
	appLogger.Info("Gemini client initialized", zap.String("model", cfg.Gemini.Model))

	// Database and repositories
	db, err := database.NewSQLXPostgresDB(cfg.GetDSN())
	if err != nil {
		appLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	quizRepository := repository.NewQuizDatabaseAdapter(db)
	userRepository := repository.NewUserDatabaseAdapter(db)
	attemptRepository := repository.NewAttemptDatabaseAdapter(db)

	// Redis and cache adapters
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		appLogger.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	appLogger.Info("Successfully connected to Redis")
	cacheAdapter := adapter.NewRedisCacheAdapter(redisClient)
	leaderboardCache := adapter.NewLeaderboardCacheAdapter(redisClient)

	// Services
	quizService := service.NewQuizService(transcriptFetcher, generator, quizRepository, attemptRepository, cacheAdapter, leaderboardCache)

	authService, err := service.NewAuthService(userRepository, cfg)
	if err != nil {
		appLogger.Fatal("Failed to create AuthService", zap.Error(err))
	}

	userService := service.NewUserService(quizRepository, cacheAdapter, leaderboardCache, cfg.Cache.StatisticsTTL, cfg.Cache.LeaderboardTTL)

	// Handlers
	quizHandler := handler.NewQuizHandler(quizService, userService)
	authHandler := handler.NewAuthHandler(authService)

	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  20 * time.Second,
		BodyLimit:    10 * 1024 * 1024,
		ErrorHandler: middleware.ErrorHandler(),
	})

	app.Use(requestLogger())
	app.Use(cors.New(cors.Config{AllowOrigins: "*", AllowMethods: "GET,POST,PUT,DELETE,OPTIONS", AllowHeaders: "Origin,Content-Type,Accept,Authorization", MaxAge: 300}))
	app.Use(recover.New())

	// API group
	apiGroup := app.Group("/api")

	// Auth routes
	authGroup := apiGroup.Group("/auth")
	authGroup.Post("/signup", authHandler.Signup)
	authGroup.Post("/login", authHandler.Login)
	authGroup.Post("/refresh", authHandler.Refresh)
	authGroup.Get("/me", middleware.Protected(authService), authHandler.Me)

	// Quiz routes (all protected)
	quizGroup := apiGroup.Group("/quiz", middleware.Protected(authService))
	quizGroup.Post("/generate", quizHandler.Generate)
	quizGroup.Get("/history", quizHandler.History)
	quizGroup.Get("/statistics", quizHandler.Statistics)
	quizGroup.Get("/leaderboard", quizHandler.Leaderboard)
	quizGroup.Get("/:id", quizHandler.Get)
	quizGroup.Post("/:id/submit", quizHandler.Submit)

	go func() {
		appLogger.Info("Starting server", zap.Int("port", cfg.Server.Port), zap.String("env", os.Getenv("ENV")))
		if err := app.Listen(":" + strconv.Itoa(cfg.Server.Port)); err != nil {
			appLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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
