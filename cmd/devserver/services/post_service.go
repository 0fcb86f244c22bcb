package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"inkwell/cmd/devserver/reviewer"
	"inkwell/internal/logger"
	"inkwell/dto"
	"inkwell/models"
	"inkwell/repositories"
)

const (
	DefaultLimit  = 10
	MaxLimit      = 100
	excerptLength = 160
)

var errNotOwner = errors.New("post belongs to another author")

// PostService encapsulates the post rules of the development server.
type PostService struct {
	repo  repositories.PostRepository
	newID func() string
	now   func() time.Time
}

func NewPostService(repo repositories.PostRepository) *PostService {
	return &PostService{repo: repo, newID: uuid.NewString, now: time.Now}
}

type ListPostsInput struct {
	Search   string
	Category string
	Offset   int
	Limit    int
}

// List returns one page of published posts.
func (s *PostService) List(ctx context.Context, in ListPostsInput) (dto.PostPage, *Error) {
	category, err := models.ParseCategory(in.Category)
	if err != nil {
		return dto.PostPage{}, badRequest("invalid_category", err)
	}
	if in.Offset < 0 {
		in.Offset = 0
	}
	if in.Limit <= 0 {
		in.Limit = DefaultLimit
	}
	if in.Limit > MaxLimit {
		in.Limit = MaxLimit
	}

	items, total, err := s.repo.List(ctx, repositories.ListPostsOptions{
		Search:        in.Search,
		Category:      category,
		PublishedOnly: true,
		Offset:        in.Offset,
		Limit:         in.Limit,
	})
	if err != nil {
		return dto.PostPage{}, internal("storage_failed", err)
	}
	return dto.PostPage{
		Items:   items,
		Total:   total,
		Offset:  in.Offset,
		Limit:   in.Limit,
		HasMore: in.Offset+len(items) < total,
	}, nil
}

// ListMine returns every post of authorID, drafts included.
func (s *PostService) ListMine(ctx context.Context, authorID string) ([]models.Post, *Error) {
	items, err := s.repo.ListByAuthor(ctx, authorID)
	if err != nil {
		return nil, internal("storage_failed", err)
	}
	return items, nil
}

func (s *PostService) Get(ctx context.Context, id string) (models.Post, *Error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return models.Post{}, fromRepo(err)
	}
	return *p, nil
}

func (s *PostService) Create(ctx context.Context, author models.Author, in models.CreatePostInput) (models.Post, *Error) {
	if err := in.Validate(); err != nil {
		return models.Post{}, badRequest("invalid_post", err)
	}

	now := s.now().UTC()
	a := author
	p := models.Post{
		ID:          s.newID(),
		Title:       strings.TrimSpace(in.Title),
		Content:     in.Content,
		Tags:        models.NormalizeTags(in.Tags),
		Category:    in.Category,
		IsPublished: in.IsPublished,
		CreatedAt:   now,
		UpdatedAt:   now,
		AuthorID:    author.ID,
		Author:      &a,
	}
	derive(&p)
	if p.Tags == nil {
		p.Tags = []string{}
	}

	if err := s.repo.Insert(ctx, &p); err != nil {
		return models.Post{}, internal("storage_failed", err)
	}
	logger.InfoWithFields("post created", logger.Fields{"post_id": p.ID, "author_id": p.AuthorID})
	return p, nil
}

func (s *PostService) Update(ctx context.Context, authorID string, in models.UpdatePostInput) (models.Post, *Error) {
	if err := in.Validate(); err != nil {
		return models.Post{}, badRequest("invalid_post", err)
	}
	p, svcErr := s.owned(ctx, authorID, in.ID)
	if svcErr != nil {
		return models.Post{}, svcErr
	}

	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		p.Content = *in.Content
	}
	if in.Category != nil {
		p.Category = *in.Category
	}
	if in.Tags != nil {
		p.Tags = models.NormalizeTags(in.Tags)
		if p.Tags == nil {
			p.Tags = []string{}
		}
	}
	if in.IsPublished != nil {
		p.IsPublished = *in.IsPublished
	}
	p.UpdatedAt = s.now().UTC()
	derive(p)

	if err := s.repo.Replace(ctx, p); err != nil {
		return models.Post{}, fromRepo(err)
	}
	return *p, nil
}

func (s *PostService) Delete(ctx context.Context, authorID, id string) *Error {
	if _, svcErr := s.owned(ctx, authorID, id); svcErr != nil {
		return svcErr
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fromRepo(err)
	}
	logger.InfoWithFields("post deleted", logger.Fields{"post_id": id, "author_id": authorID})
	return nil
}

// TogglePublish flips the published flag of a post owned by authorID.
func (s *PostService) TogglePublish(ctx context.Context, authorID, id string) (models.Post, *Error) {
	p, svcErr := s.owned(ctx, authorID, id)
	if svcErr != nil {
		return models.Post{}, svcErr
	}
	p.IsPublished = !p.IsPublished
	p.UpdatedAt = s.now().UTC()
	if err := s.repo.Replace(ctx, p); err != nil {
		return models.Post{}, fromRepo(err)
	}
	return *p, nil
}

func (s *PostService) Like(ctx context.Context, id string) *Error {
	if err := s.repo.IncrementLikes(ctx, id); err != nil {
		return fromRepo(err)
	}
	return nil
}

// HasTitle reports whether any post, draft or not, already has title.
func (s *PostService) HasTitle(ctx context.Context, title string) (bool, *Error) {
	items, _, err := s.repo.List(ctx, repositories.ListPostsOptions{Search: title})
	if err != nil {
		return false, internal("storage_failed", err)
	}
	for _, p := range items {
		if strings.EqualFold(strings.TrimSpace(p.Title), strings.TrimSpace(title)) {
			return true, nil
		}
	}
	return false, nil
}

func (s *PostService) owned(ctx context.Context, authorID, id string) (*models.Post, *Error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, fromRepo(err)
	}
	if p.AuthorID != authorID {
		return nil, forbidden(errNotOwner)
	}
	return p, nil
}

// derive fills the fields computed from content.
func derive(p *models.Post) {
	text := reviewer.ExtractText(p.Content)
	p.Excerpt = reviewer.Excerpt(text, excerptLength)
	p.ReadingTime = reviewer.ReadingTime(text)
}

func fromRepo(err error) *Error {
	if errors.Is(err, repositories.ErrNotFound) {
		return notFound("post_not_found", err)
	}
	return internal("storage_failed", err)
}
