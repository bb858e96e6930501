package service

import (
	"context"
	"sort"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/reviewpulse/review-backend-go/models"
)

// memReviewStore mirrors the mongo-backed store's observable behavior,
// including ordering and the page window, so coordinator tests exercise the
// real flow semantics.
type memReviewStore struct {
	perPage int
	reviews []models.Review

	insertErr error
	updateErr error

	insertCalls int
	updateCalls int
	deleteCalls int
}

func newMemReviewStore(perPage int) *memReviewStore {
	return &memReviewStore{perPage: perPage}
}

func (s *memReviewStore) ordered(productID string, sortBy models.SortBy, sortOrder models.SortOrder) []models.Review {
	var result []models.Review
	for _, r := range s.reviews {
		if r.ProductID == productID {
			result = append(result, r)
		}
	}

	desc := sortOrder == models.SortOrderDesc
	sort.SliceStable(result, func(i, j int) bool {
		switch sortBy {
		case models.SortByScore:
			if desc {
				return result[i].Score > result[j].Score
			}
			return result[i].Score < result[j].Score
		case models.SortByCreatedAt:
			if desc {
				return result[i].CreatedAt.After(result[j].CreatedAt)
			}
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		default:
			return result[i].Helpful > result[j].Helpful
		}
	})
	return result
}

func (s *memReviewStore) List(_ context.Context, productID string, page int, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error) {
	ordered := s.ordered(productID, sortBy, sortOrder)
	if page < 1 {
		page = 1
	}
	skip := (page - 1) * s.perPage
	if skip >= len(ordered) {
		return nil, nil
	}
	end := skip + s.perPage
	if end > len(ordered) {
		end = len(ordered)
	}
	return ordered[skip:end], nil
}

func (s *memReviewStore) ListAll(_ context.Context, productID string, sortBy models.SortBy, sortOrder models.SortOrder) ([]models.Review, error) {
	return s.ordered(productID, sortBy, sortOrder), nil
}

func (s *memReviewStore) Get(_ context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error) {
	for _, r := range s.reviews {
		if r.ID == reviewID && r.ProductID == productID {
			copied := r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memReviewStore) Insert(_ context.Context, review models.Review) (primitive.ObjectID, error) {
	s.insertCalls++
	if s.insertErr != nil {
		return primitive.NilObjectID, s.insertErr
	}
	review.ID = primitive.NewObjectID()
	s.reviews = append(s.reviews, review)
	return review.ID, nil
}

func (s *memReviewStore) Update(_ context.Context, productID string, reviewID primitive.ObjectID, patch models.ReviewPatch) (*models.Review, error) {
	s.updateCalls++
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	for i, r := range s.reviews {
		if r.ID == reviewID && r.ProductID == productID {
			r.Description = patch.Description
			r.Tags = patch.Tags
			r.Score = patch.Score
			r.Helpful = patch.Helpful
			r.IsVerified = patch.IsVerified
			r.Title = patch.Title
			r.Location = patch.Location
			r.Comment = patch.Comment
			r.UpdatedAt = time.Now()
			s.reviews[i] = r
			copied := r
			return &copied, nil
		}
	}
	return nil, nil
}

func (s *memReviewStore) Delete(_ context.Context, productID string, reviewID primitive.ObjectID) (*models.Review, error) {
	s.deleteCalls++
	for i, r := range s.reviews {
		if r.ID == reviewID && r.ProductID == productID {
			s.reviews = append(s.reviews[:i], s.reviews[i+1:]...)
			copied := r
			return &copied, nil
		}
	}
	return nil, nil
}

// memSummaryStore mirrors the mongo store's delta semantics: atomic net
// increments plus the seed-to-1 floor for decrements on absent buckets.
type memSummaryStore struct {
	summaries map[string]*models.ReviewSummary

	createErr error
	deltaErr  error

	deltaCalls int
}

func newMemSummaryStore() *memSummaryStore {
	return &memSummaryStore{summaries: map[string]*models.ReviewSummary{}}
}

func (s *memSummaryStore) Get(_ context.Context, productID string) (*models.ReviewSummary, error) {
	summary, ok := s.summaries[productID]
	if !ok {
		return nil, nil
	}
	copied := *summary
	copied.Ratings = map[models.RatingBucket]int{}
	for k, v := range summary.Ratings {
		copied.Ratings[k] = v
	}
	return &copied, nil
}

func (s *memSummaryStore) CreateIfAbsent(_ context.Context, productID string, tags, images []string) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.summaries[productID]; ok {
		return nil
	}
	now := time.Now()
	s.summaries[productID] = &models.ReviewSummary{
		ProductID:          productID,
		Ratings:            map[models.RatingBucket]int{},
		Tags:               tags,
		Images:             images,
		MostRecentReviews:  []models.Review{},
		MostHelpfulReviews: []models.Review{},
		CreatedAt:          now,
		UpdatedAt:          now,
	}
	return nil
}

func (s *memSummaryStore) ApplyDelta(_ context.Context, productID string, delta models.SummaryDelta) (bool, error) {
	s.deltaCalls++
	if s.deltaErr != nil {
		return false, s.deltaErr
	}
	summary, ok := s.summaries[productID]
	if !ok {
		return false, nil
	}

	if delta.DecrementBucket != "" {
		if _, exists := summary.Ratings[delta.DecrementBucket]; !exists {
			summary.Ratings[delta.DecrementBucket] = 1
		}
	}

	summary.TotalScore += delta.ScoreDelta
	summary.NumberOfReviews += delta.ReviewCountDelta
	if delta.DecrementBucket != "" {
		summary.Ratings[delta.DecrementBucket]--
	}
	if delta.IncrementBucket != "" {
		summary.Ratings[delta.IncrementBucket]++
	}
	summary.UpdatedAt = time.Now()
	return true, nil
}

func (s *memSummaryStore) Replace(_ context.Context, productID string, summary models.ReviewSummary) (bool, error) {
	if _, ok := s.summaries[productID]; !ok {
		return false, nil
	}
	copied := summary
	s.summaries[productID] = &copied
	return true, nil
}

func (s *memSummaryStore) ListProductIDs(_ context.Context) ([]string, error) {
	var ids []string
	for id := range s.summaries {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

type stubSummarizer struct {
	summary *models.AISummary
	err     error

	gotTexts []string
}

func (s *stubSummarizer) Summarize(_ context.Context, texts []string) (*models.AISummary, error) {
	s.gotTexts = texts
	if s.err != nil {
		return nil, s.err
	}
	return s.summary, nil
}
