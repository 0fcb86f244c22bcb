package resource

import (
	"context"
	"time"

	"inkwell/clients/aiclient"
	"inkwell/clients/postsclient"
	"inkwell/internal/httpclient"
	"inkwell/models"
)

// HTTPConfig 는 HTTP 기반 Client 설정이다.
type HTTPConfig struct {
	BaseURL string
	Timeout time.Duration
	// ReviewTimeout 은 응답이 느린 /ai 엔드포인트에 적용된다. 기본값 2분.
	ReviewTimeout time.Duration
	Tokens        httpclient.TokenSource
}

// HTTP 는 원격 REST API 로 Client 를 구현한다.
type HTTP struct {
	posts *postsclient.Client
	ai    *aiclient.Client
}

var _ Client = (*HTTP)(nil)

func NewHTTP(cfg HTTPConfig) *HTTP {
	reviewTimeout := cfg.ReviewTimeout
	if reviewTimeout == 0 {
		reviewTimeout = 2 * time.Minute
	}
	postsHTTP := httpclient.New(httpclient.Config{Timeout: cfg.Timeout, Tokens: cfg.Tokens})
	aiHTTP := httpclient.New(httpclient.Config{Timeout: reviewTimeout, Tokens: cfg.Tokens})

	return &HTTP{
		posts: postsclient.New(httpclient.NewBaseClientWithClient(postsHTTP, cfg.BaseURL)),
		ai:    aiclient.New(httpclient.NewBaseClientWithClient(aiHTTP, cfg.BaseURL)),
	}
}

func (h *HTTP) ListPosts(ctx context.Context, params ListParams) (Page, error) {
	page, enveloped, err := h.posts.ListPosts(ctx, params.Search, params.Category, params.Offset, params.Limit)
	if err != nil {
		return Page{}, err
	}
	out := Page{Items: page.Items, Total: page.Total}
	if enveloped {
		hasMore := page.HasMore
		out.HasMore = &hasMore
	}
	return out, nil
}

func (h *HTTP) ListMyPosts(ctx context.Context) ([]models.Post, error) {
	return h.posts.ListMyPosts(ctx)
}

func (h *HTTP) GetPost(ctx context.Context, id string) (models.Post, error) {
	return h.posts.GetPost(ctx, id)
}

func (h *HTTP) CreatePost(ctx context.Context, in models.CreatePostInput) (models.Post, error) {
	return h.posts.CreatePost(ctx, in)
}

func (h *HTTP) UpdatePost(ctx context.Context, in models.UpdatePostInput) (models.Post, error) {
	return h.posts.UpdatePost(ctx, in)
}

func (h *HTTP) DeletePost(ctx context.Context, id string) error {
	return h.posts.DeletePost(ctx, id)
}

func (h *HTTP) TogglePublish(ctx context.Context, id string) (models.Post, error) {
	return h.posts.TogglePublish(ctx, id)
}

func (h *HTTP) LikePost(ctx context.Context, id string) error {
	return h.posts.LikePost(ctx, id)
}

func (h *HTTP) ReviewContent(ctx context.Context, req models.ReviewRequest) (models.AIReview, error) {
	return h.ai.ReviewContent(ctx, req)
}

func (h *HTTP) ListTopicSuggestions(ctx context.Context) ([]models.TopicSuggestion, error) {
	return h.ai.ListTopicSuggestions(ctx)
}

func (h *HTTP) GenerateSuggestions(ctx context.Context, prompt string) ([]string, error) {
	return h.ai.GenerateSuggestions(ctx, prompt)
}

func (h *HTTP) AnalyzePost(ctx context.Context, id string) (models.PostAnalysis, error) {
	return h.ai.AnalyzePost(ctx, id)
}
