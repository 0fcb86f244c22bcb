package resource

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
)

type statusErr struct {
	status int
	body   string
}

func (e statusErr) Error() string        { return fmt.Sprintf("status=%d", e.status) }
func (e statusErr) HTTPStatus() int      { return e.status }
func (e statusErr) ResponseBody() string { return e.body }

func TestClassify(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		want Kind
	}{
		{name: "not found", err: statusErr{status: http.StatusNotFound}, want: KindNotFound},
		{name: "bad request", err: statusErr{status: http.StatusBadRequest, body: "title required"}, want: KindValidation},
		{name: "unprocessable", err: statusErr{status: http.StatusUnprocessableEntity}, want: KindValidation},
		{name: "unauthorized", err: statusErr{status: http.StatusUnauthorized}, want: KindAuth},
		{name: "forbidden", err: statusErr{status: http.StatusForbidden}, want: KindAuth},
		{name: "server", err: statusErr{status: http.StatusBadGateway}, want: KindServer},
		{name: "wrapped status", err: fmt.Errorf("list: %w", statusErr{status: 500}), want: KindServer},
		{name: "cancelled", err: context.Canceled, want: KindNetwork},
		{name: "url error", err: &url.Error{Op: "Get", URL: "http://x", Err: errors.New("connection refused")}, want: KindNetwork},
		{name: "decode", err: errors.New("unexpected EOF"), want: KindServer},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Classify("posts/fetchPosts", tc.err)
			assert.Equal(t, tc.want, got.Kind)
			assert.Equal(t, "posts/fetchPosts", got.Op)
			assert.NotEmpty(t, got.Error())
			assert.ErrorIs(t, got, tc.err)
		})
	}
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify("x", nil))
}

func TestErrorIsMatchesKind(t *testing.T) {
	err := Classify("posts/fetchPostById", statusErr{status: http.StatusNotFound})

	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrServer))
	assert.True(t, errors.Is(err, &Error{Kind: KindNotFound, Op: "posts/fetchPostById"}))
	assert.False(t, errors.Is(err, &Error{Kind: KindNotFound, Op: "posts/fetchPosts"}))
}

func TestClassifyKeepsExistingKind(t *testing.T) {
	orig := Validation("", errors.New("title is required"))
	got := Classify("posts/createPost", orig)
	assert.Equal(t, KindValidation, got.Kind)
	assert.Equal(t, "posts/createPost", got.Op)
}
