package routes

import (
	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/reviewpulse/review-backend-go/config"
	"github.com/reviewpulse/review-backend-go/handlers"
	customMiddleware "github.com/reviewpulse/review-backend-go/middleware"
)

// SetupRoutes registers the review API. Mutation routes require a bearer
// token when JWT_SECRET is configured; reads are always public.
func SetupRoutes(e *echo.Echo, reviewHandler *handlers.ReviewHandler) {
	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	reviews := e.Group("/products/:productId/reviews")
	reviews.Use(customMiddleware.Metrics)

	reviews.GET("", reviewHandler.ListReviews)
	reviews.GET("/summary", reviewHandler.GetSummary)
	reviews.GET("/summary/ai", reviewHandler.GetAISummary)
	reviews.GET("/:reviewId", reviewHandler.GetReview)

	var authRequired []echo.MiddlewareFunc
	if config.GetEnv("JWT_SECRET", "") != "" {
		authRequired = append(authRequired, customMiddleware.AuthMiddleware)
	}

	reviews.POST("", reviewHandler.CreateReview, authRequired...)
	reviews.PUT("/:reviewId", reviewHandler.UpdateReview, authRequired...)
	reviews.DELETE("/:reviewId", reviewHandler.DeleteReview, authRequired...)
}
