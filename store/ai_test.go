package store

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/models"
	"inkwell/resource"
)

func TestReviewContentBlankIsNoop(t *testing.T) {
	for _, content := range []string{"", "   ", "\n\t"} {
		fc := newFakeClient()
		s := NewAIStore(fc, Options{})
		events, unsubscribe := s.Subscribe()

		assert.False(t, s.ReviewContent(context.Background(), content, "title"))
		assert.Equal(t, 0, fc.Calls("ReviewContent"))
		snap := s.Snapshot()
		assert.False(t, snap.IsReviewing)
		assert.Nil(t, snap.Review)
		assert.Nil(t, snap.ReviewErr)
		assert.Empty(t, events, "no transition is published")
		unsubscribe()
	}
}

func TestReviewContentFailureKeepsPreviousReview(t *testing.T) {
	fc := newFakeClient()
	fail := false
	fc.review = func(ctx context.Context, req models.ReviewRequest) (models.AIReview, error) {
		if fail {
			return models.AIReview{}, statusErr(502)
		}
		return models.AIReview{OriginalContent: req.Content, ReadabilityScore: 140, SEOKeywords: []string{"go"}}, nil
	}
	s := NewAIStore(fc, Options{})
	ctx := context.Background()

	require.True(t, s.ReviewContent(ctx, "draft", "Title"))
	first := s.Snapshot().Review
	require.NotNil(t, first)
	assert.Equal(t, 100, first.ReadabilityScore)

	fail = true
	assert.False(t, s.ReviewContent(ctx, "draft 2", "Title"))
	snap := s.Snapshot()
	assert.Equal(t, first, snap.Review)
	require.NotNil(t, snap.ReviewErr)
	assert.Equal(t, resource.KindServer, snap.ReviewErr.Kind)

	s.ClearError()
	assert.Nil(t, s.Snapshot().ReviewErr)
	assert.NotNil(t, s.Snapshot().Review)

	s.ClearReview()
	assert.Nil(t, s.Snapshot().Review)
}

func TestAITasksAreIsolated(t *testing.T) {
	fc := newFakeClient()
	reviewGate := make(chan struct{})
	fc.review = func(ctx context.Context, req models.ReviewRequest) (models.AIReview, error) {
		<-reviewGate
		return models.AIReview{}, errRefused
	}
	fc.topics = func(ctx context.Context) ([]models.TopicSuggestion, error) {
		return []models.TopicSuggestion{{ID: "t1", Title: "Generics", Trending: true}}, nil
	}
	s := NewAIStore(fc, Options{})
	ctx := context.Background()

	done := make(chan bool)
	go func() { done <- s.ReviewContent(ctx, "slow review", "") }()
	require.Eventually(t, func() bool { return s.Snapshot().IsReviewing }, time.Second, time.Millisecond)

	require.True(t, s.FetchTopicSuggestions(ctx), "a slow review does not block topics")
	snap := s.Snapshot()
	assert.True(t, snap.IsReviewing)
	assert.False(t, snap.IsFetchingTopics)
	assert.Len(t, snap.TopicSuggestions, 1)

	close(reviewGate)
	assert.False(t, <-done)

	snap = s.Snapshot()
	require.NotNil(t, snap.ReviewErr)
	assert.Equal(t, resource.KindNetwork, snap.ReviewErr.Kind)
	assert.Nil(t, snap.TopicsErr)
	assert.Len(t, snap.TopicSuggestions, 1)
	assert.Nil(t, snap.Review)
	assert.Equal(t, snap.ReviewErr, snap.Err())
}

func TestTopicsFailureDoesNotTouchReview(t *testing.T) {
	fc := newFakeClient()
	fc.topics = func(ctx context.Context) ([]models.TopicSuggestion, error) {
		return nil, statusErr(401)
	}
	s := NewAIStore(fc, Options{})
	ctx := context.Background()

	require.True(t, s.ReviewContent(ctx, "content", "t"))
	assert.False(t, s.FetchTopicSuggestions(ctx))

	snap := s.Snapshot()
	assert.Nil(t, snap.ReviewErr)
	require.NotNil(t, snap.TopicsErr)
	assert.Equal(t, resource.KindAuth, snap.TopicsErr.Kind)
	assert.NotNil(t, snap.Review)

	s.ClearTopicSuggestions()
	snap = s.Snapshot()
	assert.Empty(t, snap.TopicSuggestions)
	assert.Nil(t, snap.TopicsErr)
}

func TestGenerateSuggestionsAndAnalyze(t *testing.T) {
	fc := newFakeClient()
	fc.suggestions = func(ctx context.Context, prompt string) ([]string, error) {
		return []string{prompt + " one", prompt + " two"}, nil
	}
	fc.analyze = func(ctx context.Context, id string) (models.PostAnalysis, error) {
		return models.PostAnalysis{"views": 12}, nil
	}
	s := NewAIStore(fc, Options{})
	ctx := context.Background()

	assert.False(t, s.GenerateSuggestions(ctx, " "))
	require.True(t, s.GenerateSuggestions(ctx, "intro"))
	require.True(t, s.AnalyzePost(ctx, "p1"))

	snap := s.Snapshot()
	assert.Equal(t, []string{"intro one", "intro two"}, snap.Suggestions)
	assert.Equal(t, "p1", snap.AnalysisPostID)
	assert.Equal(t, 12, snap.Analysis["views"])
	assert.Equal(t, 1, fc.Calls("GenerateSuggestions"))
}

func TestReviewContentSupersededSettles(t *testing.T) {
	fc := newFakeClient()
	gate := make(chan struct{})
	var n int32
	fc.review = func(ctx context.Context, req models.ReviewRequest) (models.AIReview, error) {
		if atomic.AddInt32(&n, 1) == 1 {
			<-gate
		}
		return models.AIReview{OriginalContent: req.Content, ReadabilityScore: 60}, nil
	}
	s := NewAIStore(fc, Options{})
	ctx := context.Background()

	done := make(chan bool, 1)
	go func() { done <- s.ReviewContent(ctx, "first draft", "") }()
	require.Eventually(t, func() bool { return fc.Calls("ReviewContent") == 1 }, time.Second, time.Millisecond)

	require.True(t, s.ReviewContent(ctx, "second draft", ""))
	assert.False(t, s.Snapshot().IsReviewing)

	close(gate)
	assert.False(t, <-done)

	snap := s.Snapshot()
	assert.False(t, snap.IsReviewing)
	require.NotNil(t, snap.Review)
	assert.Equal(t, "second draft", snap.Review.OriginalContent)
}
