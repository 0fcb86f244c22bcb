package reviewer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"google.golang.org/genai"

	"inkwell/internal/logger"
	"inkwell/models"
)

const REVIEW_INSTRUCTION = `
You are an editing assistant for a blogging platform.
Review the draft provided by the user and respond with a JSON object with these keys:

1. improvedContent: the draft rewritten with grammar and clarity fixes. Keep the author's voice and language.
2. readabilityScore: an integer from 0 (very hard to read) to 100 (very easy to read).
3. seoKeywords: 3 to 5 short keywords a reader would search for to find this post.
4. suggestions: a list of objects {type, message, severity}.
   - type MUST be one of "seo", "grammar", "readability", "style".
   - severity MUST be one of "info", "warning", "error".
   - message is one short imperative sentence.

Additional constraints:
- You MUST NOT wrap the JSON output in a markdown code block.
- The response should contain ONLY the raw JSON string.
`

const SUGGEST_INSTRUCTION = `
You help bloggers get started. Given a topic, respond with a JSON array of exactly 3 strings,
each a compelling post title or opening sentence about the topic.
Respond with ONLY the raw JSON array, without a markdown code block.
`

// GeminiReviewer 는 Gemini 모델로 초안을 리뷰한다.
type GeminiReviewer struct {
	client *genai.Client
	model  string
}

var _ Reviewer = (*GeminiReviewer)(nil)

func NewGeminiReviewer(ctx context.Context, apiKey, model string) (*GeminiReviewer, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY is not set")
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiReviewer{client: client, model: model}, nil
}

func (g *GeminiReviewer) generate(ctx context.Context, instruction, input string) (string, error) {
	start := time.Now()
	result, err := g.client.Models.GenerateContent(
		ctx,
		g.model,
		genai.Text(input),
		&genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: instruction}}},
			ResponseMIMEType:  "application/json",
		},
	)
	if err != nil {
		return "", err
	}

	fields := logger.Fields{
		"model":      g.model,
		"latency_ms": time.Since(start).Milliseconds(),
	}
	if result.UsageMetadata != nil {
		fields["input_tokens"] = result.UsageMetadata.PromptTokenCount
		fields["output_tokens"] = result.UsageMetadata.CandidatesTokenCount
	}
	logger.DebugWithFields("gemini request completed", fields)

	return stripCodeFence(result.Text()), nil
}

func (g *GeminiReviewer) Review(ctx context.Context, req models.ReviewRequest) (models.AIReview, error) {
	text := ExtractText(req.Content)
	if strings.TrimSpace(text) == "" {
		return models.AIReview{}, ErrEmptyContent
	}

	input := text
	if req.Title != "" {
		input = fmt.Sprintf("Title: %s\n\n%s", req.Title, text)
	}
	raw, err := g.generate(ctx, REVIEW_INSTRUCTION, input)
	if err != nil {
		return models.AIReview{}, err
	}

	var review models.AIReview
	if err := json.Unmarshal([]byte(raw), &review); err != nil {
		return models.AIReview{}, fmt.Errorf("gemini review: decode: %w", err)
	}
	review.OriginalContent = req.Content
	if review.Suggestions == nil {
		review.Suggestions = []models.AISuggestion{}
	}
	return review, nil
}

func (g *GeminiReviewer) Suggest(ctx context.Context, prompt string) ([]string, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, ErrEmptyContent
	}
	raw, err := g.generate(ctx, SUGGEST_INSTRUCTION, prompt)
	if err != nil {
		return nil, err
	}
	var out []string
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		return nil, fmt.Errorf("gemini suggest: decode: %w", err)
	}
	return out, nil
}

// stripCodeFence 는 모델이 지시와 달리 붙이는 ```json 펜스를 제거한다.
func stripCodeFence(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[i+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
