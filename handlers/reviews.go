package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reviewpulse/review-backend-go/apperrors"
	"github.com/reviewpulse/review-backend-go/models"
	"github.com/reviewpulse/review-backend-go/service"
)

const (
	maxDescriptionLength = 10000
	maxTitleLength       = 1000
	maxImages            = 3
	maxComments          = 1
)

// ReviewService is the slice of the coordinator the HTTP layer needs.
type ReviewService interface {
	ListReviews(ctx context.Context, productID string, page int, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error)
	ListAllReviews(ctx context.Context, productID string, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error)
	GetReview(ctx context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error)
	CreateReview(ctx context.Context, productID string, input service.CreateReviewInput) (*models.Review, error)
	UpdateReview(ctx context.Context, productID string, reviewID primitive.ObjectID, patch models.ReviewPatch) (*models.Review, error)
	DeleteReview(ctx context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error)
	GetSummary(ctx context.Context, productID string) (*models.ReviewSummary, error)
	GetAISummary(ctx context.Context, productID string, sortBy models.SortBy, sortOrder models.SortOrder) (*models.AISummary, error)
}

type ReviewHandler struct {
	service ReviewService
}

func NewReviewHandler(service ReviewService) *ReviewHandler {
	return &ReviewHandler{service: service}
}

// ListReviews serves a page of reviews when a page query is present, and the
// full ordered set when it is not.
func (h *ReviewHandler) ListReviews(c echo.Context) error {
	productID, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	sortBy := models.SortBy(c.QueryParam("sortBy"))
	sortOrder := models.SortOrder(c.QueryParam("sortOrder"))

	var reviews []models.Review
	if pageParam := c.QueryParam("page"); pageParam != "" {
		page, convErr := strconv.Atoi(pageParam)
		if convErr != nil {
			return errorResponse(c, apperrors.BadRequest("page must be an integer"))
		}
		reviews, err = h.service.ListReviews(c.Request().Context(), productID, page, sortBy, sortOrder)
	} else {
		reviews, err = h.service.ListAllReviews(c.Request().Context(), productID, sortBy, sortOrder)
	}
	if err != nil {
		return errorResponse(c, err)
	}

	if reviews == nil {
		reviews = []models.Review{}
	}
	return c.JSON(http.StatusOK, reviews)
}

func (h *ReviewHandler) GetReview(c echo.Context) error {
	productID, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}
	reviewID, err := reviewIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	review, err := h.service.GetReview(c.Request().Context(), productID, reviewID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) CreateReview(c echo.Context) error {
	productID, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var input service.CreateReviewInput
	if err := c.Bind(&input); err != nil {
		return errorResponse(c, apperrors.BadRequest("invalid request body"))
	}
	if err := validateCreateInput(input); err != nil {
		return errorResponse(c, err)
	}

	review, err := h.service.CreateReview(c.Request().Context(), productID, input)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusCreated, review)
}

func (h *ReviewHandler) UpdateReview(c echo.Context) error {
	productID, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}
	reviewID, err := reviewIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	var patch models.ReviewPatch
	if err := c.Bind(&patch); err != nil {
		return errorResponse(c, apperrors.BadRequest("invalid request body"))
	}
	if err := validatePatch(patch); err != nil {
		return errorResponse(c, err)
	}

	review, err := h.service.UpdateReview(c.Request().Context(), productID, reviewID, patch)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) DeleteReview(c echo.Context) error {
	productID, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}
	reviewID, err := reviewIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	if _, err := h.service.DeleteReview(c.Request().Context(), productID, reviewID); err != nil {
		return errorResponse(c, err)
	}
	return c.NoContent(http.StatusNoContent)
}

func (h *ReviewHandler) GetSummary(c echo.Context) error {
	productID, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	summary, err := h.service.GetSummary(c.Request().Context(), productID)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func (h *ReviewHandler) GetAISummary(c echo.Context) error {
	productID, err := productIDParam(c)
	if err != nil {
		return errorResponse(c, err)
	}

	sortBy := models.SortBy(c.QueryParam("sortBy"))
	sortOrder := models.SortOrder(c.QueryParam("sortOrder"))

	summary, err := h.service.GetAISummary(c.Request().Context(), productID, sortBy, sortOrder)
	if err != nil {
		return errorResponse(c, err)
	}
	return c.JSON(http.StatusOK, summary)
}

func productIDParam(c echo.Context) (string, error) {
	productID := c.Param("productId")
	if productID == "" {
		return "", apperrors.BadRequest("no product id found")
	}
	if _, err := uuid.Parse(productID); err != nil {
		return "", apperrors.BadRequest("product id must be a uuid")
	}
	return productID, nil
}

func reviewIDParam(c echo.Context) (primitive.ObjectID, error) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewId"))
	if err != nil {
		return primitive.NilObjectID, apperrors.BadRequest("invalid review id")
	}
	return reviewID, nil
}

func validateCreateInput(input service.CreateReviewInput) error {
	if _, err := uuid.Parse(input.ProductID); err != nil {
		return apperrors.BadRequest("product_id must be a uuid")
	}
	if _, err := uuid.Parse(input.UserID); err != nil {
		return apperrors.BadRequest("user_id must be a uuid")
	}
	if input.Score < 0 || input.Score > 5 {
		return apperrors.BadRequest("score must be between 0 and 5")
	}
	if len(input.Description) > maxDescriptionLength {
		return apperrors.BadRequest(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	if len(input.Title) > maxTitleLength {
		return apperrors.BadRequest(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if len(input.Image) > maxImages {
		return apperrors.BadRequest(fmt.Sprintf("at most %d images are allowed", maxImages))
	}
	return nil
}

func validatePatch(patch models.ReviewPatch) error {
	if patch.Score < 0 || patch.Score > 5 {
		return apperrors.BadRequest("score must be between 0 and 5")
	}
	if patch.Helpful < 0 {
		return apperrors.BadRequest("helpful must not be negative")
	}
	if len(patch.Description) > maxDescriptionLength {
		return apperrors.BadRequest(fmt.Sprintf("description must be at most %d characters", maxDescriptionLength))
	}
	if len(patch.Title) > maxTitleLength {
		return apperrors.BadRequest(fmt.Sprintf("title must be at most %d characters", maxTitleLength))
	}
	if len(patch.Comment) > maxComments {
		return apperrors.BadRequest(fmt.Sprintf("at most %d comment is allowed", maxComments))
	}
	return nil
}

func errorResponse(c echo.Context, err error) error {
	var appErr *apperrors.AppError
	message := "internal error"
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	return c.JSON(apperrors.HTTPStatus(err), map[string]string{
		"code":  apperrors.Code(err),
		"error": message,
	})
}
