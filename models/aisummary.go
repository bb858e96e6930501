package models

// AISummary is the structured output of the generative summarizer.
type AISummary struct {
	NoOfReviews           int      `json:"no_of_reviews"`
	SummarisedDescription string   `json:"summarised_description"`
	ImportantKeywords     []string `json:"important_keywords"`
	Sentiment             string   `json:"sentiment"`
}
