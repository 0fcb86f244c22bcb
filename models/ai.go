package models

import "encoding/json"

type SuggestionType string

const (
	SuggestionSEO         SuggestionType = "seo"
	SuggestionGrammar     SuggestionType = "grammar"
	SuggestionReadability SuggestionType = "readability"
	SuggestionStyle       SuggestionType = "style"
)

type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// AISuggestion is a single review remark.
type AISuggestion struct {
	Type     SuggestionType `json:"type"`
	Message  string         `json:"message"`
	Severity Severity       `json:"severity"`
}

// AIReview is the result of POST /ai/review. It is replaced wholesale on every successful review.
type AIReview struct {
	OriginalContent  string         `json:"originalContent"`
	ImprovedContent  string         `json:"improvedContent"`
	ReadabilityScore int            `json:"readabilityScore"`
	SEOKeywords      []string       `json:"seoKeywords"`
	Suggestions      []AISuggestion `json:"suggestions"`
}

// UnmarshalJSON clamps the readability score into 0..100.
func (r *AIReview) UnmarshalJSON(b []byte) error {
	type plain AIReview
	var p plain
	if err := json.Unmarshal(b, &p); err != nil {
		return err
	}
	p.ReadabilityScore = ClampScore(p.ReadabilityScore)
	*r = AIReview(p)
	return nil
}

// Clone returns a deep copy.
func (r AIReview) Clone() AIReview {
	out := r
	out.SEOKeywords = append([]string(nil), r.SEOKeywords...)
	out.Suggestions = append([]AISuggestion(nil), r.Suggestions...)
	return out
}

func ClampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// ReviewRequest is the body of POST /ai/review.
type ReviewRequest struct {
	Content string `json:"content"`
	Title   string `json:"title"`
	PostID  string `json:"postId,omitempty"`
}

// TopicSuggestion is one entry of GET /ai/topics.
type TopicSuggestion struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Trending    bool   `json:"trending"`
}

// PostAnalysis is the free-form payload of GET /ai/analyze/{id}.
type PostAnalysis map[string]any

// Clone returns a shallow copy of the top-level map.
func (a PostAnalysis) Clone() PostAnalysis {
	if a == nil {
		return nil
	}
	out := make(PostAnalysis, len(a))
	for k, v := range a {
		out[k] = v
	}
	return out
}
