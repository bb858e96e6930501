// Package service implements the review/aggregate consistency coordinator.
// Every mutation is a two-step sequence: the review write, then the summary
// delta. There is no transaction spanning the two; a failed second step is
// surfaced to the caller without rolling back the first.
package service

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/zap"

	"github.com/reviewpulse/review-backend-go/apperrors"
	"github.com/reviewpulse/review-backend-go/models"
)

// ReviewStore is the persistence contract for individual review records.
// Absent records come back as nil, nil.
type ReviewStore interface {
	List(ctx context.Context, productID string, page int, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error)
	ListAll(ctx context.Context, productID string, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error)
	Get(ctx context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error)
	Insert(ctx context.Context, review models.Review) (primitive.ObjectID, error)
	Update(ctx context.Context, productID string, reviewID primitive.ObjectID, patch models.ReviewPatch) (*models.Review, error)
	Delete(ctx context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error)
}

// SummaryStore is the persistence contract for per-product summaries.
type SummaryStore interface {
	Get(ctx context.Context, productID string) (*models.ReviewSummary, error)
	CreateIfAbsent(ctx context.Context, productID string, tags, images []string) error
	ApplyDelta(ctx context.Context, productID string, delta models.SummaryDelta) (bool, error)
	Replace(ctx context.Context, productID string, summary models.ReviewSummary) (bool, error)
	ListProductIDs(ctx context.Context) ([]string, error)
}

// Summarizer condenses a list of review texts into a structured summary.
type Summarizer interface {
	Summarize(ctx context.Context, texts []string) (*models.AISummary, error)
}

// CreateReviewInput is the validated body of a review creation. The caller is
// expected to have bounds-checked it already.
type CreateReviewInput struct {
	Description string   `json:"description"`
	Image       []string `json:"image"`
	Tags        []string `json:"tags"`
	Score       int      `json:"score"`
	ProductID   string   `json:"product_id"`
	IsVerified  bool     `json:"is_verified"`
	Title       string   `json:"title"`
	UserID      string   `json:"user_id"`
	Location    string   `json:"location"`
}

type ReviewService struct {
	reviews    ReviewStore
	summaries  SummaryStore
	summarizer Summarizer
	log        *zap.Logger
}

func NewReviewService(reviews ReviewStore, summaries SummaryStore, summarizer Summarizer, log *zap.Logger) *ReviewService {
	return &ReviewService{
		reviews:    reviews,
		summaries:  summaries,
		summarizer: summarizer,
		log:        log,
	}
}

// ListReviews returns one page of a product's reviews.
func (s *ReviewService) ListReviews(ctx context.Context, productID string, page int, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error) {
	reviews, err := s.reviews.List(ctx, productID, page, sortBy, sortOrder)
	if err != nil {
		s.log.Error("list reviews", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("listing reviews failed", err)
	}
	return reviews, nil
}

// ListAllReviews returns the full ordered set of a product's reviews.
func (s *ReviewService) ListAllReviews(ctx context.Context, productID string, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error) {
	reviews, err := s.reviews.ListAll(ctx, productID, sortBy, sortOrder)
	if err != nil {
		s.log.Error("list all reviews", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("listing reviews failed", err)
	}
	return reviews, nil
}

func (s *ReviewService) GetReview(ctx context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error) {
	review, err := s.reviews.Get(ctx, productID, reviewID)
	if err != nil {
		s.log.Error("get review", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("fetching review failed", err)
	}
	if review == nil {
		return nil, apperrors.NotFound("review not found")
	}
	return review, nil
}

// CreateReview inserts a review, lazily seeds the product's summary, then
// applies the insert delta. A body/path product id mismatch fails before any
// write happens.
func (s *ReviewService) CreateReview(ctx context.Context, productID string, input CreateReviewInput) (*models.Review, error) {
	if input.ProductID != productID {
		return nil, apperrors.BadRequest("product id in body and path do not match")
	}

	now := time.Now()
	review := models.Review{
		Description: input.Description,
		Image:       input.Image,
		Comment:     []models.Comment{},
		Tags:        input.Tags,
		Score:       input.Score,
		Helpful:     0,
		ProductID:   input.ProductID,
		IsVerified:  input.IsVerified,
		CreatedAt:   now,
		UpdatedAt:   now,
		Title:       input.Title,
		UserID:      input.UserID,
		Location:    input.Location,
		MetaData:    submissionMetaData(),
	}

	id, err := s.reviews.Insert(ctx, review)
	if err != nil {
		s.log.Error("insert review", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("review insert failed", err)
	}
	review.ID = id

	if err := s.summaries.CreateIfAbsent(ctx, productID, review.Tags, review.Image); err != nil {
		s.log.Error("create review summary", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Operation("review summary creation failed")
	}

	if err := s.applyInsertDelta(ctx, productID, review.Score); err != nil {
		return nil, err
	}

	return &review, nil
}

// UpdateReview reads the target first and fails with NotFound before touching
// anything when it is missing, then writes the patch and applies the score
// delta to the summary.
func (s *ReviewService) UpdateReview(ctx context.Context, productID string, reviewID primitive.ObjectID, patch models.ReviewPatch) (*models.Review, error) {
	existing, err := s.reviews.Get(ctx, productID, reviewID)
	if err != nil {
		s.log.Error("read review before update", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("fetching review failed", err)
	}
	if existing == nil {
		return nil, apperrors.NotFound("update target missing")
	}

	updated, err := s.reviews.Update(ctx, productID, reviewID, patch)
	if err != nil {
		s.log.Error("update review", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("review update failed", err)
	}
	if updated == nil {
		return nil, apperrors.StorageMsg("update target vanished between read and write")
	}

	if err := s.applyUpdateDelta(ctx, productID, existing.Score, updated.Score); err != nil {
		return nil, err
	}

	return updated, nil
}

// DeleteReview reads the target first and fails with NotFound before touching
// anything when it is missing, then deletes it and applies the removal delta.
func (s *ReviewService) DeleteReview(ctx context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error) {
	existing, err := s.reviews.Get(ctx, productID, reviewID)
	if err != nil {
		s.log.Error("read review before delete", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("fetching review failed", err)
	}
	if existing == nil {
		return nil, apperrors.NotFound("delete target missing")
	}

	removed, err := s.reviews.Delete(ctx, productID, reviewID)
	if err != nil {
		s.log.Error("delete review", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("review delete failed", err)
	}
	if removed == nil {
		return nil, apperrors.StorageMsg("delete target vanished between read and write")
	}

	if err := s.applyDeleteDelta(ctx, productID, existing.Score); err != nil {
		return nil, err
	}

	return removed, nil
}

// GetSummary fetches a product's summary and refreshes its cached projection
// lists from the review collection. Both projections are requested ascending:
// the helpful sort falls through to helpful-descending anyway, and the
// most-recent list genuinely comes back oldest-first. That ordering is part of
// the observed contract.
func (s *ReviewService) GetSummary(ctx context.Context, productID string) (*models.ReviewSummary, error) {
	summary, err := s.summaries.Get(ctx, productID)
	if err != nil {
		s.log.Error("get review summary", zap.String("product_id", productID), zap.Error(err))
		return nil, apperrors.Storage("fetching review summary failed", err)
	}
	if summary == nil {
		return nil, apperrors.NotFound("review summary not found")
	}

	mostHelpful, err := s.reviews.List(ctx, productID, 1, models.SortByHelpful, models.SortOrderAsc)
	if err != nil {
		return nil, apperrors.Storage("refreshing most helpful projection failed", err)
	}
	mostRecent, err := s.reviews.List(ctx, productID, 1, models.SortByCreatedAt, models.SortOrderAsc)
	if err != nil {
		return nil, apperrors.Storage("refreshing most recent projection failed", err)
	}

	summary.MostHelpfulReviews = capProjection(mostHelpful)
	summary.MostRecentReviews = capProjection(mostRecent)

	return summary, nil
}

// GetAISummary condenses every review description for a product through the
// summarizer collaborator.
func (s *ReviewService) GetAISummary(ctx context.Context, productID string, sortBy models.SortBy, sortOrder models.SortOrder) (*models.AISummary, error) {
	reviews, err := s.ListAllReviews(ctx, productID, sortBy, sortOrder)
	if err != nil {
		return nil, err
	}
	if len(reviews) == 0 {
		return nil, apperrors.NotFound("no reviews found for the product")
	}

	texts := make([]string, 0, len(reviews))
	for _, review := range reviews {
		texts = append(texts, review.Description)
	}

	summary, err := s.summarizer.Summarize(ctx, texts)
	if err != nil {
		s.log.Error("summarize reviews", zap.String("product_id", productID), zap.Error(err))
		return nil, fmt.Errorf("summarize reviews: %w", err)
	}
	return summary, nil
}

// applyInsertDelta adds a new review's score to the totals and bumps its
// bucket. A bucket absent from the sparse map starts at zero.
func (s *ReviewService) applyInsertDelta(ctx context.Context, productID string, score int) error {
	return s.applyDelta(ctx, productID, models.SummaryDelta{
		ScoreDelta:       score,
		ReviewCountDelta: 1,
		IncrementBucket:  models.BucketForScore(score),
	})
}

// applyUpdateDelta moves a review between buckets: total score shifts by the
// score difference, the review count is unchanged, the old bucket is
// decremented (floored via the absent-bucket seed) and the new one
// incremented.
func (s *ReviewService) applyUpdateDelta(ctx context.Context, productID string, oldScore, newScore int) error {
	return s.applyDelta(ctx, productID, models.SummaryDelta{
		ScoreDelta:       newScore - oldScore,
		ReviewCountDelta: 0,
		DecrementBucket:  models.BucketForScore(oldScore),
		IncrementBucket:  models.BucketForScore(newScore),
	})
}

// applyDeleteDelta removes a review's contribution from the totals and its
// bucket, with the same absent-bucket floor as updates.
func (s *ReviewService) applyDeleteDelta(ctx context.Context, productID string, score int) error {
	return s.applyDelta(ctx, productID, models.SummaryDelta{
		ScoreDelta:       -score,
		ReviewCountDelta: -1,
		DecrementBucket:  models.BucketForScore(score),
	})
}

func (s *ReviewService) applyDelta(ctx context.Context, productID string, delta models.SummaryDelta) error {
	matched, err := s.summaries.ApplyDelta(ctx, productID, delta)
	if err != nil {
		s.log.Error("apply summary delta", zap.String("product_id", productID), zap.Error(err))
		return apperrors.Storage("applying summary delta failed", err)
	}
	if !matched {
		return apperrors.StorageMsg("review summary missing while applying delta")
	}
	return nil
}

func capProjection(reviews []models.Review) []models.Review {
	if reviews == nil {
		return []models.Review{}
	}
	if len(reviews) > models.ProjectionLimit {
		return reviews[:models.ProjectionLimit]
	}
	return reviews
}
