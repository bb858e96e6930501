package models

// SortBy selects the review list ordering key. Field values double as the
// stored document field names.
type SortBy string

const (
	SortByScore     SortBy = "score"
	SortByCreatedAt SortBy = "createdAt"
	SortByHelpful   SortBy = "helpful"
)

type SortOrder string

const (
	SortOrderAsc  SortOrder = "asc"
	SortOrderDesc SortOrder = "desc"
)
