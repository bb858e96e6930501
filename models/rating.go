package models

// RatingBucket is a histogram slot in a summary's ratings map.
type RatingBucket string

const (
	BucketZero  RatingBucket = "zero"
	BucketOne   RatingBucket = "one"
	BucketTwo   RatingBucket = "two"
	BucketThree RatingBucket = "three"
	BucketFour  RatingBucket = "four"
	BucketFive  RatingBucket = "five"
)

// BucketForScore maps an integer score to its histogram bucket. Scores 0-4 map
// to their named buckets; 5 shares the top bucket with every other value,
// including out-of-range ones. This mapping is part of the stored aggregate
// contract and must not be tightened to a strict 1:1 over [0,5].
func BucketForScore(score int) RatingBucket {
	switch score {
	case 0:
		return BucketZero
	case 1:
		return BucketOne
	case 2:
		return BucketTwo
	case 3:
		return BucketThree
	case 4:
		return BucketFour
	default:
		return BucketFive
	}
}

// SummaryDelta is the incremental change one review mutation applies to a
// product's summary. An empty bucket means no increment/decrement on that side.
type SummaryDelta struct {
	ScoreDelta       int
	ReviewCountDelta int
	DecrementBucket  RatingBucket
	IncrementBucket  RatingBucket
}
