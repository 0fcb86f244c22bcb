package store

import (
	"context"
	"errors"
	"net/url"
	"sync"

	"inkwell/models"
	"inkwell/resource"
)

// fakeClient 는 테스트마다 동작을 지정하는 resource.Client 다. 지정하지 않은 hook 은
// zero value 를 반환하고, 모든 호출 수를 메서드 이름별로 센다.
type fakeClient struct {
	mu    sync.Mutex
	calls map[string]int

	listPosts     func(ctx context.Context, p resource.ListParams) (resource.Page, error)
	listMyPosts   func(ctx context.Context) ([]models.Post, error)
	getPost       func(ctx context.Context, id string) (models.Post, error)
	createPost    func(ctx context.Context, in models.CreatePostInput) (models.Post, error)
	updatePost    func(ctx context.Context, in models.UpdatePostInput) (models.Post, error)
	deletePost    func(ctx context.Context, id string) error
	togglePublish func(ctx context.Context, id string) (models.Post, error)
	likePost      func(ctx context.Context, id string) error
	review        func(ctx context.Context, req models.ReviewRequest) (models.AIReview, error)
	topics        func(ctx context.Context) ([]models.TopicSuggestion, error)
	suggestions   func(ctx context.Context, prompt string) ([]string, error)
	analyze       func(ctx context.Context, id string) (models.PostAnalysis, error)
}

var _ resource.Client = (*fakeClient)(nil)

func newFakeClient() *fakeClient {
	return &fakeClient{calls: make(map[string]int)}
}

func (f *fakeClient) count(name string) {
	f.mu.Lock()
	f.calls[name]++
	f.mu.Unlock()
}

func (f *fakeClient) Calls(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[name]
}

func (f *fakeClient) ListPosts(ctx context.Context, p resource.ListParams) (resource.Page, error) {
	f.count("ListPosts")
	if f.listPosts == nil {
		return resource.Page{}, nil
	}
	return f.listPosts(ctx, p)
}

func (f *fakeClient) ListMyPosts(ctx context.Context) ([]models.Post, error) {
	f.count("ListMyPosts")
	if f.listMyPosts == nil {
		return nil, nil
	}
	return f.listMyPosts(ctx)
}

func (f *fakeClient) GetPost(ctx context.Context, id string) (models.Post, error) {
	f.count("GetPost")
	if f.getPost == nil {
		return models.Post{ID: id}, nil
	}
	return f.getPost(ctx, id)
}

func (f *fakeClient) CreatePost(ctx context.Context, in models.CreatePostInput) (models.Post, error) {
	f.count("CreatePost")
	if f.createPost == nil {
		return models.Post{ID: "new", Title: in.Title, Content: in.Content, Category: in.Category}, nil
	}
	return f.createPost(ctx, in)
}

func (f *fakeClient) UpdatePost(ctx context.Context, in models.UpdatePostInput) (models.Post, error) {
	f.count("UpdatePost")
	if f.updatePost == nil {
		return models.Post{ID: in.ID}, nil
	}
	return f.updatePost(ctx, in)
}

func (f *fakeClient) DeletePost(ctx context.Context, id string) error {
	f.count("DeletePost")
	if f.deletePost == nil {
		return nil
	}
	return f.deletePost(ctx, id)
}

func (f *fakeClient) TogglePublish(ctx context.Context, id string) (models.Post, error) {
	f.count("TogglePublish")
	if f.togglePublish == nil {
		return models.Post{ID: id, IsPublished: true}, nil
	}
	return f.togglePublish(ctx, id)
}

func (f *fakeClient) LikePost(ctx context.Context, id string) error {
	f.count("LikePost")
	if f.likePost == nil {
		return nil
	}
	return f.likePost(ctx, id)
}

func (f *fakeClient) ReviewContent(ctx context.Context, req models.ReviewRequest) (models.AIReview, error) {
	f.count("ReviewContent")
	if f.review == nil {
		return models.AIReview{OriginalContent: req.Content}, nil
	}
	return f.review(ctx, req)
}

func (f *fakeClient) ListTopicSuggestions(ctx context.Context) ([]models.TopicSuggestion, error) {
	f.count("ListTopicSuggestions")
	if f.topics == nil {
		return nil, nil
	}
	return f.topics(ctx)
}

func (f *fakeClient) GenerateSuggestions(ctx context.Context, prompt string) ([]string, error) {
	f.count("GenerateSuggestions")
	if f.suggestions == nil {
		return nil, nil
	}
	return f.suggestions(ctx, prompt)
}

func (f *fakeClient) AnalyzePost(ctx context.Context, id string) (models.PostAnalysis, error) {
	f.count("AnalyzePost")
	if f.analyze == nil {
		return models.PostAnalysis{}, nil
	}
	return f.analyze(ctx, id)
}

type statusErr int

func (e statusErr) Error() string        { return "status error" }
func (e statusErr) HTTPStatus() int      { return int(e) }
func (e statusErr) ResponseBody() string { return "" }

var errRefused = &url.Error{Op: "Get", URL: "http://127.0.0.1:1/posts", Err: errors.New("connection refused")}

func makePosts(ids ...string) []models.Post {
	out := make([]models.Post, 0, len(ids))
	for _, id := range ids {
		out = append(out, models.Post{ID: id, Title: "title " + id, Category: models.CategoryTechnology})
	}
	return out
}

func postIDs(posts []models.Post) []string {
	out := make([]string, 0, len(posts))
	for _, p := range posts {
		out = append(out, p.ID)
	}
	return out
}
