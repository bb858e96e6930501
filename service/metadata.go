package service

import (
	"fmt"
	"math/rand"

	"go.mongodb.org/mongo-driver/bson"
)

var (
	metaPlatforms       = []string{"web", "mobile", "tablet", "API"}
	metaDevices         = []string{"iPhone 13", "Galaxy S22", "Windows PC", "MacBook Pro"}
	metaSystems         = []string{"CRM", "E-commerce", "Feedback Portal"}
	metaReferrers       = []string{"https://google.com", "https://facebook.com", "https://twitter.com", "https://productsite.com"}
	metaClassifications = []string{"positive", "negative", "neutral"}
	metaLocales         = []string{"en-US", "fr-FR", "es-ES", "de-DE"}
	metaPermissions     = [][]string{{"read"}, {"read", "write"}, {"read", "write", "delete"}}
)

// submissionMetaData fabricates the open metadata map attached to every new
// review. The values are synthetic; the shape is what downstream consumers
// depend on.
func submissionMetaData() bson.M {
	return bson.M{
		"submission_platform": pick(metaPlatforms),
		"submission_ip":       randomIP(),
		"origin_system":       pick(metaSystems),
		"device_type":         pick(metaDevices),
		"referrer_url":        pick(metaReferrers),
		"is_archived":         rand.Float64() < 0.5,
		"is_active":           rand.Float64() < 0.8,
		"classification":      pick(metaClassifications),
		"click_count":         rand.Intn(1000),
		"locale":              pick(metaLocales),
		"permissions":         metaPermissions[rand.Intn(len(metaPermissions))],
	}
}

func pick(values []string) string {
	return values[rand.Intn(len(values))]
}

func randomIP() string {
	return fmt.Sprintf("%d.%d.%d.%d", rand.Intn(255), rand.Intn(255), rand.Intn(255), rand.Intn(255))
}
