package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/cmd/devserver/reviewer"
	"inkwell/cmd/devserver/router"
	"inkwell/cmd/devserver/services"
	"inkwell/models"
	"inkwell/repositories"
	"inkwell/resource"
	"inkwell/store"
)

func newServer(t *testing.T) string {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := repositories.NewMemoryPostRepository()
	posts := services.NewPostService(repo)
	require.NoError(t, posts.Seed(context.Background()))
	srv := httptest.NewServer(router.New(router.Deps{
		Posts: posts,
		AI:    services.NewAIService(reviewer.Heuristic{}, repo),
	}))
	t.Cleanup(srv.Close)
	return srv.URL
}

func run(t *testing.T, baseURL string, args ...string) (string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--base-url", baseURL, "--token", "demo"}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPostsListJSON(t *testing.T) {
	url := newServer(t)

	testCases := []struct {
		name string
		args []string
		want int
	}{
		{name: "first page", args: []string{"posts", "list", "-o", "json"}, want: 6},
		{name: "category", args: []string{"posts", "list", "-c", "technology", "-o", "json"}, want: 2},
		{name: "tag filter is local", args: []string{"posts", "list", "-t", "writing", "-o", "json"}, want: 2},
		{name: "search", args: []string{"posts", "list", "-s", "pricing", "-o", "json"}, want: 1},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, err := run(t, url, tc.args...)
			require.NoError(t, err)
			var posts []models.Post
			require.NoError(t, json.Unmarshal([]byte(out), &posts))
			assert.Len(t, posts, tc.want)
		})
	}
}

func TestPostsListTable(t *testing.T) {
	url := newServer(t)
	out, err := run(t, url, "posts", "list", "-c", "Technology", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "Why I moved my blog to Go")
	assert.NotContains(t, out, "Pricing a side project")
}

func TestPostsAuthoringFlow(t *testing.T) {
	url := newServer(t)

	draft := filepath.Join(t.TempDir(), "draft.html")
	require.NoError(t, os.WriteFile(draft, []byte("<p>Written from the terminal.</p>"), 0o644))

	out, err := run(t, url, "posts", "create", "--title", "CLI post", "--file", draft, "-c", "Tutorial", "-t", "cli", "-o", "json")
	require.NoError(t, err)
	var created models.Post
	require.NoError(t, json.Unmarshal([]byte(out), &created))
	assert.Equal(t, "CLI post", created.Title)
	assert.Equal(t, "demo", created.AuthorID)

	out, err = run(t, url, "posts", "update", created.ID, "--title", "CLI post v2", "-o", "json")
	require.NoError(t, err)
	var updated models.Post
	require.NoError(t, json.Unmarshal([]byte(out), &updated))
	assert.Equal(t, "CLI post v2", updated.Title)
	assert.Equal(t, "<p>Written from the terminal.</p>", updated.Content)

	out, err = run(t, url, "posts", "publish", created.ID, "-o", "json")
	require.NoError(t, err)
	var published models.Post
	require.NoError(t, json.Unmarshal([]byte(out), &published))
	assert.True(t, published.IsPublished)

	_, err = run(t, url, "posts", "like", created.ID)
	require.NoError(t, err)

	out, err = run(t, url, "posts", "get", created.ID, "-o", "json")
	require.NoError(t, err)
	var got models.Post
	require.NoError(t, json.Unmarshal([]byte(out), &got))
	assert.Equal(t, 1, got.LikesCount)

	_, err = run(t, url, "posts", "delete", created.ID)
	require.NoError(t, err)

	_, err = run(t, url, "posts", "get", created.ID)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "get post")
}

func TestPostsCreateValidation(t *testing.T) {
	url := newServer(t)
	_, err := run(t, url, "posts", "create", "--title", "No body", "-c", "Cooking")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "content is required")
	assert.Contains(t, err.Error(), "category is required")
}

func TestPostsDeleteNotOwner(t *testing.T) {
	url := newServer(t)
	_, err := run(t, url, "posts", "delete", "seed-01")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "check --token")
}

func TestUpdateNeedsAField(t *testing.T) {
	url := newServer(t)
	_, err := run(t, url, "posts", "update", "seed-03")
	require.EqualError(t, err, "nothing to update")
}

func TestAICommands(t *testing.T) {
	url := newServer(t)

	out, err := run(t, url, "ai", "review", "--title", "Go", "--content", "<p>go is fun. it is small.</p>", "-o", "json")
	require.NoError(t, err)
	var review models.AIReview
	require.NoError(t, json.Unmarshal([]byte(out), &review))
	assert.NotEmpty(t, review.Suggestions)

	_, err = run(t, url, "ai", "review", "--content", "   ")
	require.Error(t, err)

	out, err = run(t, url, "ai", "topics", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "TOPIC")

	out, err = run(t, url, "ai", "suggest", "error", "handling", "-o", "json")
	require.NoError(t, err)
	var sugg []string
	require.NoError(t, json.Unmarshal([]byte(out), &sugg))
	assert.NotEmpty(t, sugg)

	out, err = run(t, url, "ai", "analyze", "seed-03", "-o", "table")
	require.NoError(t, err)
	assert.Contains(t, out, "likesCount")
}

func TestInvalidOutputFormat(t *testing.T) {
	url := newServer(t)
	_, err := run(t, url, "ai", "topics", "-o", "yaml")
	require.Error(t, err)
}

func TestCurrentPostAfterDelete(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/posts/p1", func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(models.Post{ID: "p1", Title: "still cached"})
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	a := &app{posts: store.NewPostsStore(resource.NewHTTP(resource.HTTPConfig{BaseURL: srv.URL}), store.Options{})}
	ctx := context.Background()

	post, err := a.currentPost(ctx, "p1")
	require.NoError(t, err)
	assert.Equal(t, "still cached", post.Title)

	require.True(t, a.posts.DeletePost(ctx, "p1"))
	_, err = a.currentPost(ctx, "p1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "p1 was deleted")
}
