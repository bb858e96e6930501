// Package pagination turns (page, pageSize, sortBy, sortOrder) into a
// deterministic mongo sort spec and offset window.
package pagination

import (
	"go.mongodb.org/mongo-driver/bson"

	"github.com/reviewpulse/review-backend-go/models"
)

// Window converts a 1-based page number into skip/limit values. Pages at or
// below zero behave as page 1.
func Window(page, perPage int) (skip, limit int64) {
	if page < 1 {
		page = 1
	}
	return int64((page - 1) * perPage), int64(perPage)
}

// SortSpec builds the ordering for a review listing. Score and creation time
// honor the requested order; any other sort key, including the default, sorts
// by helpful descending regardless of the requested order.
func SortSpec(sortBy models.SortBy, sortOrder models.SortOrder) bson.D {
	direction := 1
	if sortOrder == models.SortOrderDesc {
		direction = -1
	}

	switch sortBy {
	case models.SortByScore:
		return bson.D{{Key: string(models.SortByScore), Value: direction}}
	case models.SortByCreatedAt:
		return bson.D{{Key: string(models.SortByCreatedAt), Value: direction}}
	default:
		return bson.D{{Key: string(models.SortByHelpful), Value: -1}}
	}
}
