package services

import (
	"context"
	"fmt"
	"time"

	"inkwell/internal/logger"
	"inkwell/models"
	"inkwell/repositories"
)

var seedAuthors = []models.Author{
	{ID: "inkwell-team", Name: "Inkwell Team", Username: "inkwell", Bio: "Notes from the people building Inkwell."},
	{ID: "demo", Name: "Demo Writer", Username: "demo"},
}

type seedPost struct {
	author   int
	title    string
	content  string
	category models.Category
	tags     []string
	draft    bool
	likes    int
}

var seedPosts = []seedPost{
	{0, "Welcome to Inkwell", "<p>Inkwell is a place to write, review and publish. This post walks through the editor.</p>", models.CategoryTutorial, []string{"inkwell", "writing"}, false, 12},
	{0, "Designing a calm reading view", "<p>Whitespace, type scale and contrast matter more than color.</p><p>Here is how we chose ours.</p>", models.CategoryDesign, []string{"typography", "writing"}, false, 7},
	{1, "Why I moved my blog to Go", "<p>Goroutines made the background jobs trivial. The standard library did the rest.</p>", models.CategoryTechnology, []string{"go", "backend"}, false, 21},
	{1, "Pricing a side project", "<p>Charge early. Talk to users. Raise prices when they stop complaining.</p>", models.CategoryBusiness, []string{"pricing", "indie"}, false, 4},
	{1, "Morning routines that stuck", "<p>Two habits survived a whole year: a short walk and no phone before nine.</p>", models.CategoryLifestyle, []string{"habits"}, false, 3},
	{1, "Testing HTTP handlers in Go", "<p>Use httptest. Keep handlers thin. Assert on status codes and bodies.</p>", models.CategoryTechnology, []string{"go", "testing"}, false, 15},
	{1, "Half-finished thoughts on caching", "<p>Draft: invalidation strategies I still need to compare.</p>", models.CategoryTechnology, []string{"caching"}, true, 0},
}

// Seed inserts the demo posts into an empty repository. Creation times are
// spaced an hour apart so listings have a stable order.
func (s *PostService) Seed(ctx context.Context) error {
	_, total, err := s.repo.List(ctx, repositories.ListPostsOptions{Limit: 1})
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	if total > 0 {
		logger.InfoWithFields("seed skipped", logger.Fields{"existing_posts": total})
		return nil
	}
	base := s.now().UTC().Add(-time.Duration(len(seedPosts)) * time.Hour)
	for i, sp := range seedPosts {
		author := seedAuthors[sp.author]
		p := models.Post{
			ID:          fmt.Sprintf("seed-%02d", i+1),
			Title:       sp.title,
			Content:     sp.content,
			Tags:        sp.tags,
			Category:    sp.category,
			IsPublished: !sp.draft,
			LikesCount:  sp.likes,
			CreatedAt:   base.Add(time.Duration(i) * time.Hour),
			UpdatedAt:   base.Add(time.Duration(i) * time.Hour),
			AuthorID:    author.ID,
			Author:      &author,
		}
		derive(&p)
		if err := s.repo.Insert(ctx, &p); err != nil {
			return fmt.Errorf("seed %s: %w", p.ID, err)
		}
	}
	logger.InfoWithFields("seeded demo posts", logger.Fields{"count": len(seedPosts)})
	return nil
}
