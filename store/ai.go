package store

import (
	"context"
	"strings"
	"sync"

	"inkwell/models"
	"inkwell/resource"
	"inkwell/task"
)

const (
	TaskReviewContent         = "ai/reviewContent"
	TaskFetchTopicSuggestions = "ai/fetchTopicSuggestions"
	TaskGenerateSuggestions   = "ai/generateSuggestions"
	TaskAnalyzePost           = "ai/analyzePost"
)

// AISnapshot 은 AI 도우미 상태의 깊은 복사본이다.
type AISnapshot struct {
	Review           *models.AIReview
	TopicSuggestions []models.TopicSuggestion
	Suggestions      []string
	Analysis         models.PostAnalysis
	AnalysisPostID   string

	IsReviewing      bool
	IsFetchingTopics bool
	IsGenerating     bool
	IsAnalyzing      bool

	ReviewErr      *resource.Error
	TopicsErr      *resource.Error
	SuggestionsErr *resource.Error
	AnalysisErr    *resource.Error
}

// Err 는 기록된 첫 번째 에러를 반환한다.
func (s AISnapshot) Err() *resource.Error {
	for _, err := range []*resource.Error{s.ReviewErr, s.TopicsErr, s.SuggestionsErr, s.AnalysisErr} {
		if err != nil {
			return err
		}
	}
	return nil
}

// AIStore 는 AI 작업마다 별도 task 를 둔다. 느린 리뷰가 주제 추천을 막지 않고,
// 한 작업의 에러가 다른 작업에 나타나지 않는다.
type AIStore struct {
	mu     sync.Mutex
	client resource.Client
	events *hub

	review         *models.AIReview
	topics         []models.TopicSuggestion
	suggestions    []string
	analysis       models.PostAnalysis
	analysisPostID string

	reviewTask   *task.Task[models.AIReview]
	topicsTask   *task.Task[[]models.TopicSuggestion]
	suggestTask  *task.Task[[]string]
	analysisTask *task.Task[models.PostAnalysis]
}

func NewAIStore(client resource.Client, opts Options) *AIStore {
	s := &AIStore{
		client: client,
		events: newHub(opts.EventBuffer),
	}
	s.reviewTask = task.New[models.AIReview](TaskReviewContent, &s.mu, s.observe)
	s.topicsTask = task.New[[]models.TopicSuggestion](TaskFetchTopicSuggestions, &s.mu, s.observe)
	s.suggestTask = task.New[[]string](TaskGenerateSuggestions, &s.mu, s.observe)
	s.analysisTask = task.New[models.PostAnalysis](TaskAnalyzePost, &s.mu, s.observe)
	return s
}

func (s *AIStore) Subscribe() (<-chan Event, func()) {
	return s.events.subscribe()
}

func (s *AIStore) observe(name string, status task.Status) {
	s.events.publish(Event{Kind: EventTask, Task: name, Status: status})
}

// ReviewContent 는 content 리뷰를 요청한다. 빈 내용이면 요청 없이 false 를 반환한다.
// 실패하면 이전 리뷰를 유지한다.
func (s *AIStore) ReviewContent(ctx context.Context, content, title string) bool {
	if strings.TrimSpace(content) == "" {
		return false
	}
	req := models.ReviewRequest{Content: content, Title: title}
	err := s.reviewTask.Run(ctx, func(ctx context.Context) (models.AIReview, error) {
		return s.client.ReviewContent(ctx, req)
	}, func(r models.AIReview) {
		cp := r.Clone()
		cp.ReadabilityScore = models.ClampScore(cp.ReadabilityScore)
		s.review = &cp
	})
	return err == nil
}

// FetchTopicSuggestions 는 주제 추천 목록을 통째로 교체한다.
func (s *AIStore) FetchTopicSuggestions(ctx context.Context) bool {
	err := s.topicsTask.Run(ctx, s.client.ListTopicSuggestions, func(topics []models.TopicSuggestion) {
		s.topics = append([]models.TopicSuggestion(nil), topics...)
	})
	return err == nil
}

// GenerateSuggestions 는 prompt 로 생성한 최신 문장 목록을 저장한다.
func (s *AIStore) GenerateSuggestions(ctx context.Context, prompt string) bool {
	if strings.TrimSpace(prompt) == "" {
		return false
	}
	err := s.suggestTask.Run(ctx, func(ctx context.Context) ([]string, error) {
		return s.client.GenerateSuggestions(ctx, prompt)
	}, func(out []string) {
		s.suggestions = append([]string(nil), out...)
	})
	return err == nil
}

// AnalyzePost 는 글 id 의 분석 결과를 저장한다.
func (s *AIStore) AnalyzePost(ctx context.Context, id string) bool {
	err := s.analysisTask.Run(ctx, func(ctx context.Context) (models.PostAnalysis, error) {
		return s.client.AnalyzePost(ctx, id)
	}, func(a models.PostAnalysis) {
		s.analysis = a.Clone()
		s.analysisPostID = id
	})
	return err == nil
}

// ClearReview 는 리뷰와 진행 중인 리뷰 요청을 버린다.
func (s *AIStore) ClearReview() {
	s.mu.Lock()
	s.review = nil
	s.reviewTask.Reset()
	s.mu.Unlock()
	s.events.publish(Event{Kind: EventCleared, Task: TaskReviewContent})
}

func (s *AIStore) ClearTopicSuggestions() {
	s.mu.Lock()
	s.topics = nil
	s.topicsTask.Reset()
	s.mu.Unlock()
	s.events.publish(Event{Kind: EventCleared, Task: TaskFetchTopicSuggestions})
}

// ClearError 는 모든 AI task 의 에러를 지운다.
func (s *AIStore) ClearError() {
	s.mu.Lock()
	s.reviewTask.ClearError()
	s.topicsTask.ClearError()
	s.suggestTask.ClearError()
	s.analysisTask.ClearError()
	s.mu.Unlock()
	s.events.publish(Event{Kind: EventCleared})
}

func (s *AIStore) Snapshot() AISnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := AISnapshot{
		TopicSuggestions: append([]models.TopicSuggestion(nil), s.topics...),
		Suggestions:      append([]string(nil), s.suggestions...),
		Analysis:         s.analysis.Clone(),
		AnalysisPostID:   s.analysisPostID,
		IsReviewing:      s.reviewTask.Pending(),
		IsFetchingTopics: s.topicsTask.Pending(),
		IsGenerating:     s.suggestTask.Pending(),
		IsAnalyzing:      s.analysisTask.Pending(),
		ReviewErr:        s.reviewTask.Err(),
		TopicsErr:        s.topicsTask.Err(),
		SuggestionsErr:   s.suggestTask.Err(),
		AnalysisErr:      s.analysisTask.Err(),
	}
	if s.review != nil {
		r := s.review.Clone()
		snap.Review = &r
	}
	return snap
}
