package dto

import "inkwell/models"

// PostPage is the listing envelope for GET /posts.
// Items is the page; HasMore tells the client whether another page exists
// after Offset+len(Items). Older deployments answer with a bare array instead.
type PostPage struct {
	Items   []models.Post `json:"items"`
	Total   int           `json:"total"`
	Offset  int           `json:"offset"`
	Limit   int           `json:"limit"`
	HasMore bool          `json:"hasMore"`
}

// SuggestionsRequest is the body of POST /ai/suggestions.
type SuggestionsRequest struct {
	Prompt string `json:"prompt"`
}
