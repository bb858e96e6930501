package store

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/reviewpulse/review-backend-go/models"
)

// SummaryStore persists one ReviewSummary per product id.
type SummaryStore struct {
	col *mongo.Collection
}

func NewSummaryStore(col *mongo.Collection) *SummaryStore {
	return &SummaryStore{col: col}
}

// Get fetches a product's summary, returning nil when none exists.
func (s *SummaryStore) Get(ctx context.Context, productID string) (*models.ReviewSummary, error) {
	var summary models.ReviewSummary
	err := s.col.FindOne(ctx, bson.M{"product_id": productID}).Decode(&summary)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &summary, nil
}

// CreateIfAbsent seeds an empty summary for a product that has none. Two
// concurrent callers can both pass the absence check; the unique index on
// product_id turns the loser's insert into a duplicate-key rejection, which is
// treated as a benign already-exists outcome.
func (s *SummaryStore) CreateIfAbsent(ctx context.Context, productID string, tags, images []string) error {
	existing, err := s.Get(ctx, productID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	now := time.Now()
	summary := models.ReviewSummary{
		ProductID:          productID,
		TotalScore:         0,
		NumberOfReviews:    0,
		Ratings:            map[models.RatingBucket]int{},
		Tags:               tags,
		Images:             images,
		MostRecentReviews:  []models.Review{},
		MostHelpfulReviews: []models.Review{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	_, err = s.col.InsertOne(ctx, summary)
	if mongo.IsDuplicateKeyError(err) {
		return nil
	}
	return err
}

// ApplyDelta applies one mutation's aggregate change as an atomic $inc so
// concurrent deltas against the same summary cannot lose updates the way a
// read-then-replace would. Returns false when no summary document matched.
//
// A decrement on an absent bucket first seeds the bucket to 1, so the
// decrement lands on 0 instead of going negative. The seed assumes at least
// one prior entry and can mask an earlier under-count; it is kept as the
// intentional floor the stored aggregates were built with.
func (s *SummaryStore) ApplyDelta(ctx context.Context, productID string, delta models.SummaryDelta) (bool, error) {
	if delta.DecrementBucket != "" {
		decField := "ratings." + string(delta.DecrementBucket)
		_, err := s.col.UpdateOne(
			ctx,
			bson.M{"product_id": productID, decField: bson.M{"$exists": false}},
			bson.M{"$set": bson.M{decField: 1}},
		)
		if err != nil {
			return false, err
		}
	}

	// Summed into a plain int map first: an update with matching old and new
	// buckets must collapse into a single net increment for that key.
	inc := map[string]int{
		"total_score":       delta.ScoreDelta,
		"number_of_reviews": delta.ReviewCountDelta,
	}
	if delta.DecrementBucket != "" {
		inc["ratings."+string(delta.DecrementBucket)]--
	}
	if delta.IncrementBucket != "" {
		inc["ratings."+string(delta.IncrementBucket)]++
	}

	incDoc := bson.M{}
	for field, value := range inc {
		incDoc[field] = value
	}

	result, err := s.col.UpdateOne(
		ctx,
		bson.M{"product_id": productID},
		bson.M{
			"$inc": incDoc,
			"$set": bson.M{"updatedAt": time.Now()},
		},
	)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// Replace swaps the full summary document for a product, reporting whether a
// document matched. Used by the reconciliation pass.
func (s *SummaryStore) Replace(ctx context.Context, productID string, summary models.ReviewSummary) (bool, error) {
	summary.UpdatedAt = time.Now()
	result, err := s.col.ReplaceOne(ctx, bson.M{"product_id": productID}, summary)
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

// ListProductIDs returns the product ids of every stored summary. Drives the
// periodic reconciliation pass.
func (s *SummaryStore) ListProductIDs(ctx context.Context) ([]string, error) {
	values, err := s.col.Distinct(ctx, "product_id", bson.M{})
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(values))
	for _, v := range values {
		if id, ok := v.(string); ok {
			ids = append(ids, id)
		}
	}
	return ids, nil
}
