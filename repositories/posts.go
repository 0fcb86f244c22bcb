package repositories

import (
	"context"
	"errors"

	"inkwell/models"
)

var ErrNotFound = errors.New("post not found")

// ListPostsOptions narrows a listing. Zero values mean "no filter".
type ListPostsOptions struct {
	Search   string
	Category models.Category
	// PublishedOnly hides drafts from the public listing.
	PublishedOnly bool
	Offset        int
	Limit         int
}

// PostRepository stores posts for the development server.
// Listings are ordered by created_at, newest first.
type PostRepository interface {
	List(ctx context.Context, opts ListPostsOptions) ([]models.Post, int, error)
	ListByAuthor(ctx context.Context, authorID string) ([]models.Post, error)
	FindByID(ctx context.Context, id string) (*models.Post, error)
	Insert(ctx context.Context, p *models.Post) error
	Replace(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id string) error
	IncrementLikes(ctx context.Context, id string) error
}

// Pinger is implemented by repositories backed by a remote store.
type Pinger interface {
	Ping(ctx context.Context) error
}
