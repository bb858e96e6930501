// Package store holds the MongoDB-backed persistence for reviews and their
// per-product summaries.
package store

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/reviewpulse/review-backend-go/models"
	"github.com/reviewpulse/review-backend-go/pagination"
)

// ReviewStore persists individual review records, addressed by product id and
// review id. Absent records are signalled with a nil result, not an error, so
// callers decide between NotFound and vanished-target semantics.
type ReviewStore struct {
	col     *mongo.Collection
	perPage int
}

func NewReviewStore(col *mongo.Collection, perPage int) *ReviewStore {
	return &ReviewStore{col: col, perPage: perPage}
}

// List returns one page of a product's reviews in the requested order.
func (s *ReviewStore) List(ctx context.Context, productID string, page int, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error) {
	skip, limit := pagination.Window(page, s.perPage)

	opts := options.Find().
		SetSort(pagination.SortSpec(sortBy, sortOrder)).
		SetSkip(skip).
		SetLimit(limit)

	return s.find(ctx, productID, opts)
}

// ListAll returns the full ordered set of a product's reviews.
func (s *ReviewStore) ListAll(ctx context.Context, productID string, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error) {
	opts := options.Find().SetSort(pagination.SortSpec(sortBy, sortOrder))
	return s.find(ctx, productID, opts)
}

func (s *ReviewStore) find(ctx context.Context, productID string, opts *options.FindOptions) ([]models.Review, error) {
	cursor, err := s.col.Find(ctx, bson.M{"product_id": productID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return nil, err
	}
	return reviews, nil
}

// Get fetches one review, returning nil when no record matches.
func (s *ReviewStore) Get(ctx context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error) {
	var review models.Review
	err := s.col.FindOne(ctx, bson.M{"_id": reviewID, "product_id": productID}).Decode(&review)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &review, nil
}

// Insert writes a new review and returns its assigned id.
func (s *ReviewStore) Insert(ctx context.Context, review models.Review) (primitive.ObjectID, error) {
	result, err := s.col.InsertOne(ctx, review)
	if err != nil {
		return primitive.NilObjectID, err
	}

	id, ok := result.InsertedID.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, fmt.Errorf("unexpected inserted id type %T", result.InsertedID)
	}
	return id, nil
}

// Update applies a patch and stamps updatedAt, returning the updated document
// or nil when no record matched.
func (s *ReviewStore) Update(ctx context.Context, productID string, reviewID primitive.ObjectID, patch models.ReviewPatch) (*models.Review, error) {
	update := bson.M{
		"$set": bson.M{
			"description": patch.Description,
			"tags":        patch.Tags,
			"score":       patch.Score,
			"helpful":     patch.Helpful,
			"is_verified": patch.IsVerified,
			"title":       patch.Title,
			"location":    patch.Location,
			"comment":     patch.Comment,
			"updatedAt":   time.Now(),
		},
	}

	var updated models.Review
	err := s.col.FindOneAndUpdate(
		ctx,
		bson.M{"_id": reviewID, "product_id": productID},
		update,
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes a review, returning the removed document or nil when no
// record matched.
func (s *ReviewStore) Delete(ctx context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error) {
	var removed models.Review
	err := s.col.FindOneAndDelete(ctx, bson.M{"_id": reviewID, "product_id": productID}).Decode(&removed)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &removed, nil
}
