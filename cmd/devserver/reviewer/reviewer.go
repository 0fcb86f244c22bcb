// Package reviewer 는 개발 서버에서 초안에 대한 AI 리뷰를 만든다.
package reviewer

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"inkwell/models"
)

var ErrEmptyContent = errors.New("content is empty")

// Reviewer 는 초안을 리뷰하고 prompt 에 맞는 문장을 제안한다.
type Reviewer interface {
	Review(ctx context.Context, req models.ReviewRequest) (models.AIReview, error)
	Suggest(ctx context.Context, prompt string) ([]string, error)
}

const (
	maxTitleLength      = 60
	longSentenceWords   = 25
	longWordLetters     = 12
	maxKeywords         = 5
	minKeywordLetters   = 4
	suggestionsPerQuery = 3
)

var stopwords = map[string]struct{}{
	"about": {}, "after": {}, "also": {}, "been": {}, "before": {}, "being": {}, "could": {},
	"does": {}, "each": {}, "from": {}, "have": {}, "into": {}, "just": {}, "like": {},
	"more": {}, "most": {}, "much": {}, "only": {}, "other": {}, "over": {}, "some": {},
	"such": {}, "than": {}, "that": {}, "their": {}, "them": {}, "then": {}, "there": {},
	"these": {}, "they": {}, "this": {}, "those": {}, "through": {}, "very": {}, "want": {},
	"were": {}, "what": {}, "when": {}, "where": {}, "which": {}, "while": {}, "will": {},
	"with": {}, "would": {}, "your": {},
}

// Heuristic 은 모델 없이 동작하는 결정적 Reviewer 다.
// Gemini API 키가 없으면 개발 서버가 이것을 쓴다.
type Heuristic struct{}

var _ Reviewer = Heuristic{}

func (Heuristic) Review(ctx context.Context, req models.ReviewRequest) (models.AIReview, error) {
	if err := ctx.Err(); err != nil {
		return models.AIReview{}, err
	}
	text := ExtractText(req.Content)
	if strings.TrimSpace(text) == "" {
		return models.AIReview{}, ErrEmptyContent
	}

	sentences := Sentences(text)
	words := Words(text)

	review := models.AIReview{
		OriginalContent:  req.Content,
		ImprovedContent:  improve(sentences),
		ReadabilityScore: Readability(sentences, words),
		SEOKeywords:      Keywords(words, maxKeywords),
		Suggestions:      make([]models.AISuggestion, 0),
	}

	title := strings.TrimSpace(req.Title)
	switch {
	case title == "":
		review.Suggestions = append(review.Suggestions, models.AISuggestion{
			Type: models.SuggestionSEO, Severity: models.SeverityWarning,
			Message: "Add a title so search engines can index the post.",
		})
	case utf8.RuneCountInString(title) > maxTitleLength:
		review.Suggestions = append(review.Suggestions, models.AISuggestion{
			Type: models.SuggestionSEO, Severity: models.SeverityInfo,
			Message: fmt.Sprintf("Shorten the title to %d characters or fewer.", maxTitleLength),
		})
	}
	if len(review.SEOKeywords) > 0 && title != "" && !containsAnyFold(title, review.SEOKeywords) {
		review.Suggestions = append(review.Suggestions, models.AISuggestion{
			Type: models.SuggestionSEO, Severity: models.SeverityInfo,
			Message: fmt.Sprintf("Consider using the keyword %q in the title.", review.SEOKeywords[0]),
		})
	}

	long := 0
	for _, s := range sentences {
		if len(Words(s)) > longSentenceWords {
			long++
		}
	}
	if long > 0 {
		review.Suggestions = append(review.Suggestions, models.AISuggestion{
			Type: models.SuggestionReadability, Severity: models.SeverityWarning,
			Message: fmt.Sprintf("Split %d long sentence(s) of more than %d words.", long, longSentenceWords),
		})
	}

	lower := 0
	for _, s := range sentences {
		r, _ := utf8.DecodeRuneInString(s)
		if unicode.IsLower(r) {
			lower++
		}
	}
	if lower > 0 {
		review.Suggestions = append(review.Suggestions, models.AISuggestion{
			Type: models.SuggestionGrammar, Severity: models.SeverityError,
			Message: fmt.Sprintf("Capitalize the first letter of %d sentence(s).", lower),
		})
	}

	if strings.Contains(req.Content, "  ") {
		review.Suggestions = append(review.Suggestions, models.AISuggestion{
			Type: models.SuggestionStyle, Severity: models.SeverityInfo,
			Message: "Remove repeated spaces.",
		})
	}
	if len(words) < 150 {
		review.Suggestions = append(review.Suggestions, models.AISuggestion{
			Type: models.SuggestionStyle, Severity: models.SeverityInfo,
			Message: "Posts under 150 words tend to rank poorly; consider expanding.",
		})
	}
	return review, nil
}

func (Heuristic) Suggest(ctx context.Context, prompt string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	prompt = strings.Join(strings.Fields(prompt), " ")
	if prompt == "" {
		return nil, ErrEmptyContent
	}
	title := capitalize(prompt)
	out := []string{
		fmt.Sprintf("An introduction to %s", prompt),
		fmt.Sprintf("%s: common pitfalls and how to avoid them", title),
		fmt.Sprintf("What I learned building with %s", prompt),
	}
	return out[:suggestionsPerQuery], nil
}

// Readability 는 평균 문장 길이와 긴 단어 비율을 0..100 점수로 바꾼다.
func Readability(sentences, words []string) int {
	if len(words) == 0 || len(sentences) == 0 {
		return 0
	}
	avgSentence := float64(len(words)) / float64(len(sentences))
	longWords := 0
	for _, w := range words {
		if utf8.RuneCountInString(w) >= longWordLetters {
			longWords++
		}
	}
	longRatio := float64(longWords) / float64(len(words))
	score := 110 - 2*avgSentence - 150*longRatio
	return models.ClampScore(int(score))
}

// Keywords 는 가장 자주 나오는 단어를 소문자로 최대 n 개 반환한다.
func Keywords(words []string, n int) []string {
	counts := make(map[string]int)
	first := make(map[string]int)
	for i, w := range words {
		w = strings.ToLower(w)
		if utf8.RuneCountInString(w) < minKeywordLetters {
			continue
		}
		if _, stop := stopwords[w]; stop {
			continue
		}
		if _, seen := first[w]; !seen {
			first[w] = i
		}
		counts[w]++
	}
	keys := make([]string, 0, len(counts))
	for w := range counts {
		keys = append(keys, w)
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return first[keys[i]] < first[keys[j]]
	})
	if len(keys) > n {
		keys = keys[:n]
	}
	return keys
}

func improve(sentences []string) string {
	out := make([]string, 0, len(sentences))
	for _, s := range sentences {
		s = strings.Join(strings.Fields(s), " ")
		s = capitalize(s)
		if last, _ := utf8.DecodeLastRuneInString(s); !strings.ContainsRune(".!?", last) {
			s += "."
		}
		out = append(out, s)
	}
	return strings.Join(out, " ")
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

func containsAnyFold(s string, words []string) bool {
	lower := strings.ToLower(s)
	for _, w := range words {
		if strings.Contains(lower, w) {
			return true
		}
	}
	return false
}
