
package models

// ScrapeResult is the aggregate of every page fetched for one start URL.
type ScrapeResult struct {
	SourceURL       string   `json:"sourceUrl,omitempty"`
	Titles          []string `json:"titles"`
	Count           int      `json:"count"`
	SuccessfulPages int      `json:"successful_pages"`
}

// KeywordCount is a token and its occurrence total across all titles.
type KeywordCount struct {
	Token string `json:"token"`
	Count int    `json:"count"`
}

type KeywordStat struct {
	Rank       int      `json:"rank,omitempty"`
	Original   string   `json:"original"`
	Count      int      `json:"count"`
	Percentage *float64 `json:"percentage,omitempty"`
	English    string   `json:"english"`
	Chinese    string   `json:"chinese"`
}

type Analysis struct {
	TotalTitles int           `json:"total_titles"`
	TotalWords  int           `json:"total_words"`
	UniqueWords int           `json:"unique_words"`
	TopKeywords []KeywordStat `json:"top_keywords"`
}

type ScrapeRequest struct {
	URL string `json:"url"`
}

type ScrapeResponse struct {
	Success         bool     `json:"success"`
	Titles          []string `json:"titles"`
	Count           int      `json:"count"`
	SuccessfulPages int      `json:"successful_pages"`
	Message         string   `json:"message"`
}

type AnalyzeRequest struct {
	Titles []string `json:"titles"`
}

type AnalyzeResponse struct {
	Success  bool     `json:"success"`
	Analysis Analysis `json:"analysis"`
}

type ErrorResponse struct {
	Error           string `json:"error"`
	SuccessfulPages *int   `json:"successful_pages,omitempty"`
}
