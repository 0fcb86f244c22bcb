package aiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"path"

	"inkwell/internal/httpclient"
	"inkwell/dto"
	"inkwell/models"
)

// Client는 AI 리뷰/주제 추천 엔드포인트(/ai)를 호출한다.
// 리뷰는 응답이 느릴 수 있으므로 호출 측에서 긴 타임아웃의 http.Client 를 넘기는 것을 권장한다.
type Client struct {
	base *httpclient.BaseClient
}

type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("ai-service %s: status=%d body=%s", e.Op, e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatus() int      { return e.StatusCode }
func (e *HTTPError) ResponseBody() string { return e.Body }

func New(base *httpclient.BaseClient) *Client {
	return &Client{base: base}
}

func (c *Client) roundTrip(req *http.Request, op string, out any) error {
	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	const maxBodySize = 5 * 1024 * 1024
	body, readErr := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if readErr != nil {
		return fmt.Errorf("ai-service %s: response read failed: %w", op, readErr)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b := body
		if len(b) > 2048 {
			b = b[:2048]
		}
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: string(bytes.TrimSpace(b))}
	}

	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("ai-service %s: decode: %w", op, err)
	}
	return nil
}

// ReviewContent는 POST /ai/review 를 호출한다.
func (c *Client) ReviewContent(ctx context.Context, in models.ReviewRequest) (models.AIReview, error) {
	buf, err := json.Marshal(in)
	if err != nil {
		return models.AIReview{}, err
	}
	req, err := c.base.NewRequest(ctx, http.MethodPost, "/ai/review", nil, bytes.NewReader(buf))
	if err != nil {
		return models.AIReview{}, err
	}
	var out models.AIReview
	if err := c.roundTrip(req, "ReviewContent", &out); err != nil {
		return models.AIReview{}, err
	}
	return out, nil
}

// ListTopicSuggestions는 GET /ai/topics 를 호출한다.
func (c *Client) ListTopicSuggestions(ctx context.Context) ([]models.TopicSuggestion, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/ai/topics", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []models.TopicSuggestion
	if err := c.roundTrip(req, "ListTopicSuggestions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GenerateSuggestions는 POST /ai/suggestions 로 프롬프트 기반 문장 후보를 받는다.
func (c *Client) GenerateSuggestions(ctx context.Context, prompt string) ([]string, error) {
	buf, err := json.Marshal(dto.SuggestionsRequest{Prompt: prompt})
	if err != nil {
		return nil, err
	}
	req, err := c.base.NewRequest(ctx, http.MethodPost, "/ai/suggestions", nil, bytes.NewReader(buf))
	if err != nil {
		return nil, err
	}
	var out []string
	if err := c.roundTrip(req, "GenerateSuggestions", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// AnalyzePost는 GET /ai/analyze/{id} 를 호출한다.
func (c *Client) AnalyzePost(ctx context.Context, id string) (models.PostAnalysis, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, path.Join("/ai/analyze", id), nil, nil)
	if err != nil {
		return nil, err
	}
	var out models.PostAnalysis
	if err := c.roundTrip(req, "AnalyzePost", &out); err != nil {
		return nil, err
	}
	return out, nil
}
