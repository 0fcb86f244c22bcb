package resource

import (
	"context"

	"inkwell/models"
)

// ListParams 는 GET /posts 조건이다. CategoryAll 은 보내지 않는다.
type ListParams struct {
	Search   string
	Category models.Category
	Offset   int
	Limit    int
}

// ParamsFor 는 현재 필터와 커서로 목록 조건을 만든다.
func ParamsFor(f models.FilterState, offset, limit int) ListParams {
	return ListParams{
		Search:   f.Search,
		Category: f.Category,
		Offset:   offset,
		Limit:    limit,
	}
}

// Page 는 목록 응답 하나다. 서버가 알려주지 않으면 HasMore 는 nil 이다.
type Page struct {
	Items   []models.Post
	Total   int
	HasMore *bool
}

// Client 는 store 가 의존하는 원격 기능이다.
// 모든 메서드는 요청/응답이며 실패는 Classify 로 분류할 수 있어야 한다.
type Client interface {
	ListPosts(ctx context.Context, params ListParams) (Page, error)
	ListMyPosts(ctx context.Context) ([]models.Post, error)
	GetPost(ctx context.Context, id string) (models.Post, error)
	CreatePost(ctx context.Context, in models.CreatePostInput) (models.Post, error)
	UpdatePost(ctx context.Context, in models.UpdatePostInput) (models.Post, error)
	DeletePost(ctx context.Context, id string) error
	TogglePublish(ctx context.Context, id string) (models.Post, error)
	LikePost(ctx context.Context, id string) error

	ReviewContent(ctx context.Context, req models.ReviewRequest) (models.AIReview, error)
	ListTopicSuggestions(ctx context.Context) ([]models.TopicSuggestion, error)
	GenerateSuggestions(ctx context.Context, prompt string) ([]string, error)
	AnalyzePost(ctx context.Context, id string) (models.PostAnalysis, error)
}
