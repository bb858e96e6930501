package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProjectionLimit caps the cached most-recent/most-helpful lists.
const ProjectionLimit = 10

// ReviewSummary is the denormalized per-product rollup. The ratings map is
// sparse: an absent bucket means zero. Totals are maintained incrementally by
// deltas and are only eventually consistent with the review collection.
type ReviewSummary struct {
	ID                 primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	ProductID          string               `bson:"product_id" json:"product_id"`
	TotalScore         int                  `bson:"total_score" json:"total_score"`
	NumberOfReviews    int                  `bson:"number_of_reviews" json:"number_of_reviews"`
	Ratings            map[RatingBucket]int `bson:"ratings" json:"ratings"`
	Tags               []string             `bson:"tags" json:"tags"`
	Images             []string             `bson:"images" json:"images"`
	MostRecentReviews  []Review             `bson:"most_recent_reviews" json:"most_recent_reviews"`
	MostHelpfulReviews []Review             `bson:"most_helpful_reviews" json:"most_helpful_reviews"`
	CreatedAt          time.Time            `bson:"createdAt" json:"createdAt"`
	UpdatedAt          time.Time            `bson:"updatedAt" json:"updatedAt"`
}
