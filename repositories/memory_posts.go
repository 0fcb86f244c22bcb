package repositories

import (
	"context"
	"sort"
	"strings"
	"sync"

	"inkwell/models"
)

// MemoryPostRepository keeps posts in process memory. Used by default and in tests.
type MemoryPostRepository struct {
	mu    sync.RWMutex
	posts map[string]models.Post
}

var _ PostRepository = (*MemoryPostRepository)(nil)

func NewMemoryPostRepository() *MemoryPostRepository {
	return &MemoryPostRepository{posts: make(map[string]models.Post)}
}

func (r *MemoryPostRepository) List(ctx context.Context, opts ListPostsOptions) ([]models.Post, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	search := strings.ToLower(strings.TrimSpace(opts.Search))
	matched := make([]models.Post, 0, len(r.posts))
	for _, p := range r.posts {
		if opts.PublishedOnly && !p.IsPublished {
			continue
		}
		if opts.Category != "" && !opts.Category.IsFilterOnly() && p.Category != opts.Category {
			continue
		}
		if search != "" && !containsFold(p, search) {
			continue
		}
		matched = append(matched, p.Clone())
	}
	sortNewestFirst(matched)

	total := len(matched)
	start := opts.Offset
	if start < 0 {
		start = 0
	}
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < total {
		end = start + opts.Limit
	}
	return matched[start:end], total, nil
}

func (r *MemoryPostRepository) ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Post, 0)
	for _, p := range r.posts {
		if p.AuthorID == authorID {
			out = append(out, p.Clone())
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (r *MemoryPostRepository) FindByID(ctx context.Context, id string) (*models.Post, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.posts[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := p.Clone()
	return &cp, nil
}

func (r *MemoryPostRepository) Insert(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.posts[p.ID] = p.Clone()
	return nil
}

func (r *MemoryPostRepository) Replace(ctx context.Context, p *models.Post) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[p.ID]; !ok {
		return ErrNotFound
	}
	r.posts[p.ID] = p.Clone()
	return nil
}

func (r *MemoryPostRepository) Delete(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.posts[id]; !ok {
		return ErrNotFound
	}
	delete(r.posts, id)
	return nil
}

func (r *MemoryPostRepository) IncrementLikes(ctx context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	p, ok := r.posts[id]
	if !ok {
		return ErrNotFound
	}
	p.LikesCount++
	r.posts[id] = p
	return nil
}

func containsFold(p models.Post, lowered string) bool {
	return strings.Contains(strings.ToLower(p.Title), lowered) ||
		strings.Contains(strings.ToLower(p.Excerpt), lowered) ||
		strings.Contains(strings.ToLower(p.Content), lowered)
}

func sortNewestFirst(posts []models.Post) {
	sort.SliceStable(posts, func(i, j int) bool {
		if posts[i].CreatedAt.Equal(posts[j].CreatedAt) {
			return posts[i].ID < posts[j].ID
		}
		return posts[i].CreatedAt.After(posts[j].CreatedAt)
	})
}
