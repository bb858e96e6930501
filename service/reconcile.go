package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/reviewpulse/review-backend-go/apperrors"
	"github.com/reviewpulse/review-backend-go/models"
)

// Reconcile recomputes a product's summary from its source reviews and
// replaces the stored document. It is the corrective pass for the drift the
// two-step mutation flows can leave behind when a delta step fails.
func (s *ReviewService) Reconcile(ctx context.Context, productID string) error {
	current, err := s.summaries.Get(ctx, productID)
	if err != nil {
		return apperrors.Storage("fetching review summary failed", err)
	}
	if current == nil {
		// Nothing to repair; summaries are only created by review inserts.
		return nil
	}

	reviews, err := s.reviews.ListAll(ctx, productID, models.SortByHelpful, models.SortOrderAsc)
	if err != nil {
		return apperrors.Storage("listing reviews failed", err)
	}

	rebuilt := *current
	rebuilt.TotalScore = 0
	rebuilt.NumberOfReviews = len(reviews)
	rebuilt.Ratings = map[models.RatingBucket]int{}
	for _, review := range reviews {
		rebuilt.TotalScore += review.Score
		rebuilt.Ratings[models.BucketForScore(review.Score)]++
	}

	mostHelpful, err := s.reviews.List(ctx, productID, 1, models.SortByHelpful, models.SortOrderAsc)
	if err != nil {
		return apperrors.Storage("refreshing most helpful projection failed", err)
	}
	mostRecent, err := s.reviews.List(ctx, productID, 1, models.SortByCreatedAt, models.SortOrderAsc)
	if err != nil {
		return apperrors.Storage("refreshing most recent projection failed", err)
	}
	rebuilt.MostHelpfulReviews = capProjection(mostHelpful)
	rebuilt.MostRecentReviews = capProjection(mostRecent)

	matched, err := s.summaries.Replace(ctx, productID, rebuilt)
	if err != nil {
		return apperrors.Storage("replacing review summary failed", err)
	}
	if !matched {
		return apperrors.StorageMsg("review summary vanished during reconciliation")
	}

	s.log.Info("reconciled review summary",
		zap.String("product_id", productID),
		zap.Int("number_of_reviews", rebuilt.NumberOfReviews),
		zap.Int("total_score", rebuilt.TotalScore),
	)
	return nil
}

// ReconcileAll runs Reconcile over every product that has a summary.
func (s *ReviewService) ReconcileAll(ctx context.Context) error {
	productIDs, err := s.summaries.ListProductIDs(ctx)
	if err != nil {
		return apperrors.Storage("listing summary product ids failed", err)
	}

	for _, productID := range productIDs {
		if err := s.Reconcile(ctx, productID); err != nil {
			s.log.Error("reconcile product", zap.String("product_id", productID), zap.Error(err))
		}
	}
	return nil
}
