package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"inkwell/cmd/devserver/reviewer"
	"inkwell/models"
	"inkwell/repositories"
)

const (
	maxTopics        = 10
	trendingMinPosts = 2
	trendingWindow   = 100
)

// curatedTopics are always offered after the trending ones.
var curatedTopics = []models.TopicSuggestion{
	{ID: "curated-first-post", Title: "Your first post", Description: "Introduce yourself and what you plan to write about."},
	{ID: "curated-lessons", Title: "Lessons learned this year", Description: "Three things you would tell your past self."},
	{ID: "curated-tools", Title: "Tools I use every day", Description: "A tour of your daily setup and why it works."},
	{ID: "curated-mistake", Title: "A mistake worth sharing", Description: "What went wrong, and what you changed afterwards."},
}

type AIService struct {
	reviewer reviewer.Reviewer
	posts    repositories.PostRepository
}

func NewAIService(r reviewer.Reviewer, posts repositories.PostRepository) *AIService {
	return &AIService{reviewer: r, posts: posts}
}

func (s *AIService) Review(ctx context.Context, req models.ReviewRequest) (models.AIReview, *Error) {
	if strings.TrimSpace(req.Content) == "" {
		return models.AIReview{}, badRequest("empty_content", reviewer.ErrEmptyContent)
	}
	review, err := s.reviewer.Review(ctx, req)
	if err != nil {
		return models.AIReview{}, fromReviewer(err)
	}
	review.ReadabilityScore = models.ClampScore(review.ReadabilityScore)
	return review, nil
}

func (s *AIService) Suggest(ctx context.Context, prompt string) ([]string, *Error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, badRequest("empty_prompt", reviewer.ErrEmptyContent)
	}
	out, err := s.reviewer.Suggest(ctx, prompt)
	if err != nil {
		return nil, fromReviewer(err)
	}
	return out, nil
}

// Topics offers tags shared by recent published posts as trending topics,
// followed by the curated list.
func (s *AIService) Topics(ctx context.Context) ([]models.TopicSuggestion, *Error) {
	recent, _, err := s.posts.List(ctx, repositories.ListPostsOptions{PublishedOnly: true, Limit: trendingWindow})
	if err != nil {
		return nil, internal("storage_failed", err)
	}

	counts := make(map[string]int)
	display := make(map[string]string)
	for _, p := range recent {
		for _, tag := range p.Tags {
			key := strings.ToLower(tag)
			if _, ok := display[key]; !ok {
				display[key] = tag
			}
			counts[key]++
		}
	}
	keys := make([]string, 0, len(counts))
	for k, n := range counts {
		if n >= trendingMinPosts {
			keys = append(keys, k)
		}
	}
	sort.Slice(keys, func(i, j int) bool {
		if counts[keys[i]] != counts[keys[j]] {
			return counts[keys[i]] > counts[keys[j]]
		}
		return keys[i] < keys[j]
	})

	out := make([]models.TopicSuggestion, 0, maxTopics)
	for _, k := range keys {
		if len(out) == maxTopics {
			break
		}
		out = append(out, models.TopicSuggestion{
			ID:          "tag-" + k,
			Title:       display[k],
			Description: fmt.Sprintf("%d recent posts are about %s.", counts[k], display[k]),
			Trending:    true,
		})
	}
	for _, t := range curatedTopics {
		if len(out) == maxTopics {
			break
		}
		out = append(out, t)
	}
	return out, nil
}

// Analyze computes text and engagement statistics for one post.
func (s *AIService) Analyze(ctx context.Context, id string) (models.PostAnalysis, *Error) {
	p, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}

	text := reviewer.ExtractText(p.Content)
	words := reviewer.Words(text)
	sentences := reviewer.Sentences(text)
	readingTime := reviewer.ReadingTime(text)

	return models.PostAnalysis{
		"postId":           p.ID,
		"title":            p.Title,
		"category":         p.Category,
		"isPublished":      p.IsPublished,
		"wordCount":        len(words),
		"sentenceCount":    len(sentences),
		"readingTime":      readingTime,
		"readabilityScore": reviewer.Readability(sentences, words),
		"keywords":         reviewer.Keywords(words, 5),
		"likesCount":       p.LikesCount,
		"commentsCount":    p.CommentsCount,
		"likesPerMinute":   float64(p.LikesCount) / float64(readingTime),
	}, nil
}

func fromReviewer(err error) *Error {
	switch {
	case errors.Is(err, reviewer.ErrEmptyContent):
		return badRequest("empty_content", err)
	case errors.Is(err, reviewer.ErrQuotaExceeded):
		return &Error{StatusCode: http.StatusTooManyRequests, ErrorCode: "rate_limited", Cause: err}
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return &Error{StatusCode: http.StatusServiceUnavailable, ErrorCode: "reviewer_unavailable", Cause: err}
	default:
		return internal("review_failed", err)
	}
}
