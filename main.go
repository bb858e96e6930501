package main

import (
	"context"
	"log"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/reviewpulse/review-backend-go/config"
	"github.com/reviewpulse/review-backend-go/database"
	"github.com/reviewpulse/review-backend-go/handlers"
	"github.com/reviewpulse/review-backend-go/routes"
	"github.com/reviewpulse/review-backend-go/service"
	"github.com/reviewpulse/review-backend-go/store"
	"github.com/reviewpulse/review-backend-go/summarizer"
	"github.com/reviewpulse/review-backend-go/worker"
)

func main() {
	// Load environment variables
	config.LoadEnv()

	logger, err := newLogger(config.GetEnv("LOG_LEVEL", "info"))
	if err != nil {
		log.Fatal("Failed to build logger:", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx := context.Background()

	// Connect to MongoDB
	db, closeDB, err := database.Connect(
		ctx,
		config.GetEnv("MONGODB_URI", "mongodb://localhost:27017"),
		config.GetEnv("MONGODB_NAME", "review-summariser"),
	)
	if err != nil {
		logger.Fatal("connect to database", zap.Error(err))
	}
	defer closeDB()

	if err := database.EnsureIndexes(ctx, db); err != nil {
		logger.Fatal("ensure indexes", zap.Error(err))
	}
	logger.Info("connected to MongoDB")

	perPage := config.GetEnvInt("ITEMS_PER_PAGE", config.DefaultItemsPerPage)
	reviewStore := store.NewReviewStore(db.Collection(database.ReviewsCollection), perPage)
	summaryStore := store.NewSummaryStore(db.Collection(database.SummariesCollection))

	gemini := summarizer.NewGeminiClient(
		config.GetEnv("GEMINI_API_KEY", ""),
		config.GetEnv("GEMINI_MODEL", "gemini-1.5-flash"),
	)

	reviewService := service.NewReviewService(reviewStore, summaryStore, gemini, logger)

	if interval := config.GetEnvDuration("RECONCILE_INTERVAL", 0); interval > 0 {
		go worker.RunReconciler(ctx, reviewService, interval, logger)
	}

	// Initialize Echo
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	// Setup routes
	routes.SetupRoutes(e, handlers.NewReviewHandler(reviewService))

	// Start the server
	port := config.GetEnv("PORT", "3000")
	logger.Info("server starting", zap.String("port", port))
	e.Logger.Fatal(e.Start(":" + port))
}

func newLogger(level string) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	if parsed, err := zap.ParseAtomicLevel(level); err == nil {
		cfg.Level = parsed
	}
	return cfg.Build()
}
