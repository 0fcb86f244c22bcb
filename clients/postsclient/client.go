package postsclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strconv"

	"inkwell/internal/httpclient"
	"inkwell/dto"
	"inkwell/models"
)

// Client는 게시글 서비스 HTTP API(/posts)를 호출하는 얇은 클라이언트다.
//
// - 상태를 보관하지 않으며 응답을 파싱해 돌려주기만 한다.
// - 캐싱/병합은 store 패키지의 책임이다.
type Client struct {
	base *httpclient.BaseClient
}

var ErrNotFound = errors.New("post not found")

// HTTPError 는 2xx 가 아닌 응답을 나타낸다.
type HTTPError struct {
	Op         string
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("posts-service %s: status=%d body=%s", e.Op, e.StatusCode, e.Body)
}

func (e *HTTPError) HTTPStatus() int      { return e.StatusCode }
func (e *HTTPError) ResponseBody() string { return e.Body }

// Is 는 404 응답을 ErrNotFound 와 동일하게 취급한다.
func (e *HTTPError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

func New(base *httpclient.BaseClient) *Client {
	return &Client{base: base}
}

func (c *Client) do(req *http.Request, op string, out any) error {
	resp, err := c.base.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &HTTPError{Op: op, StatusCode: resp.StatusCode, Body: httpclient.ReadErrorBody(resp)}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("posts-service %s: decode: %w", op, err)
	}
	return nil
}

// ListPosts는 GET /posts 를 호출한다.
// 응답은 봉투({items,total,...}) 또는 배열 그대로 올 수 있다.
func (c *Client) ListPosts(ctx context.Context, search string, category models.Category, offset, limit int) (dto.PostPage, bool, error) {
	q := url.Values{}
	if search != "" {
		q.Set("search", search)
	}
	if category != "" && !category.IsFilterOnly() {
		q.Set("category", string(category))
	}
	if offset > 0 {
		q.Set("offset", strconv.Itoa(offset))
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/posts", q, nil)
	if err != nil {
		return dto.PostPage{}, false, err
	}

	resp, err := c.base.Do(req)
	if err != nil {
		return dto.PostPage{}, false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return dto.PostPage{}, false, &HTTPError{Op: "ListPosts", StatusCode: resp.StatusCode, Body: httpclient.ReadErrorBody(resp)}
	}

	const maxBodySize = 10 * 1024 * 1024
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return dto.PostPage{}, false, fmt.Errorf("posts-service ListPosts: read: %w", err)
	}
	return decodePage(body, offset, limit)
}

// decodePage 는 배열 응답이면 hasMore 를 알 수 없으므로 false 를 함께 돌려준다.
func decodePage(body []byte, offset, limit int) (dto.PostPage, bool, error) {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		var items []models.Post
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return dto.PostPage{}, false, fmt.Errorf("posts-service ListPosts: decode: %w", err)
		}
		return dto.PostPage{Items: items, Total: len(items), Offset: offset, Limit: limit}, false, nil
	}
	var out dto.PostPage
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return dto.PostPage{}, false, fmt.Errorf("posts-service ListPosts: decode: %w", err)
	}
	return out, true, nil
}

// ListMyPosts는 GET /posts/my_posts 로 호출자 본인의 글을 조회한다.
func (c *Client) ListMyPosts(ctx context.Context) ([]models.Post, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, "/posts/my_posts", nil, nil)
	if err != nil {
		return nil, err
	}
	var out []models.Post
	if err := c.do(req, "ListMyPosts", &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetPost는 단일 포스트를 조회한다.
// 존재하지 않으면 errors.Is(err, ErrNotFound) 가 참인 에러를 반환한다.
func (c *Client) GetPost(ctx context.Context, id string) (models.Post, error) {
	req, err := c.base.NewRequest(ctx, http.MethodGet, path.Join("/posts", id), nil, nil)
	if err != nil {
		return models.Post{}, err
	}
	var out models.Post
	if err := c.do(req, "GetPost", &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

func (c *Client) CreatePost(ctx context.Context, in models.CreatePostInput) (models.Post, error) {
	buf, err := json.Marshal(in)
	if err != nil {
		return models.Post{}, err
	}
	req, err := c.base.NewRequest(ctx, http.MethodPost, "/posts", nil, bytes.NewReader(buf))
	if err != nil {
		return models.Post{}, err
	}
	var out models.Post
	if err := c.do(req, "CreatePost", &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

func (c *Client) UpdatePost(ctx context.Context, in models.UpdatePostInput) (models.Post, error) {
	buf, err := json.Marshal(in)
	if err != nil {
		return models.Post{}, err
	}
	req, err := c.base.NewRequest(ctx, http.MethodPut, path.Join("/posts", in.ID), nil, bytes.NewReader(buf))
	if err != nil {
		return models.Post{}, err
	}
	var out models.Post
	if err := c.do(req, "UpdatePost", &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

func (c *Client) DeletePost(ctx context.Context, id string) error {
	req, err := c.base.NewRequest(ctx, http.MethodDelete, path.Join("/posts", id), nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, "DeletePost", nil)
}

// TogglePublish는 PATCH /posts/{id}/publish 로 공개 여부를 뒤집고 갱신된 글을 반환한다.
func (c *Client) TogglePublish(ctx context.Context, id string) (models.Post, error) {
	req, err := c.base.NewRequest(ctx, http.MethodPatch, path.Join("/posts", id, "publish"), nil, nil)
	if err != nil {
		return models.Post{}, err
	}
	var out models.Post
	if err := c.do(req, "TogglePublish", &out); err != nil {
		return models.Post{}, err
	}
	return out, nil
}

// LikePost는 POST /posts/{id}/like 를 호출한다. 응답 바디는 사용하지 않는다.
func (c *Client) LikePost(ctx context.Context, id string) error {
	req, err := c.base.NewRequest(ctx, http.MethodPost, path.Join("/posts", id, "like"), nil, nil)
	if err != nil {
		return err
	}
	return c.do(req, "LikePost", nil)
}
