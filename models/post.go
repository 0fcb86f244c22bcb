package models

import (
	"errors"
	"strings"
	"time"
)

// Author is embedded in posts and never mutated by the client.
type Author struct {
	ID        string `bson:"id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Username  string `bson:"username,omitempty" json:"username,omitempty"`
	Email     string `bson:"email,omitempty" json:"email,omitempty"`
	Bio       string `bson:"bio,omitempty" json:"bio,omitempty"`
	AvatarURL string `bson:"avatar_url,omitempty" json:"avatarUrl,omitempty"`
}

// Post represents a published or draft article
// Collection: posts
type Post struct {
	ID            string    `bson:"_id" json:"id"`
	Title         string    `bson:"title" json:"title"`
	Content       string    `bson:"content" json:"content"`
	Excerpt       string    `bson:"excerpt" json:"excerpt"`
	Tags          []string  `bson:"tags" json:"tags"`
	Category      Category  `bson:"category" json:"category"`
	IsPublished   bool      `bson:"is_published" json:"isPublished"`
	LikesCount    int       `bson:"likes_count" json:"likesCount"`
	CommentsCount int       `bson:"comments_count" json:"commentsCount"`
	ReadingTime   int       `bson:"reading_time" json:"readingTime"`
	CreatedAt     time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt     time.Time `bson:"updated_at" json:"updatedAt"`
	AuthorID      string    `bson:"author_id" json:"authorId"`
	Author        *Author   `bson:"author,omitempty" json:"author,omitempty"`
}

// Clone returns a deep copy so callers can never alias store-owned slices.
func (p Post) Clone() Post {
	out := p
	if p.Tags != nil {
		out.Tags = append([]string(nil), p.Tags...)
	}
	if p.Author != nil {
		a := *p.Author
		out.Author = &a
	}
	return out
}

// HasTag reports whether the post carries tag (case-insensitive).
func (p Post) HasTag(tag string) bool {
	for _, t := range p.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}

// NormalizeTags trims, drops empties and removes duplicates while keeping first-seen order.
func NormalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		key := strings.ToLower(t)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, t)
	}
	return out
}

var (
	ErrTitleRequired    = errors.New("title is required")
	ErrContentRequired  = errors.New("content is required")
	ErrCategoryRequired = errors.New("category is required")
)

// CreatePostInput is the authoring payload for POST /posts.
type CreatePostInput struct {
	Title       string   `json:"title"`
	Content     string   `json:"content"`
	Category    Category `json:"category"`
	Tags        []string `json:"tags,omitempty"`
	IsPublished bool     `json:"is_published"`
}

// Validate mirrors the editor rules: title, content and a concrete category are mandatory.
func (in CreatePostInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.Title) == "" {
		errs = append(errs, ErrTitleRequired)
	}
	if strings.TrimSpace(in.Content) == "" {
		errs = append(errs, ErrContentRequired)
	}
	if !in.Category.IsConcrete() {
		errs = append(errs, ErrCategoryRequired)
	}
	return errors.Join(errs...)
}

// UpdatePostInput is the partial payload for PUT /posts/{id}; nil fields are left untouched.
type UpdatePostInput struct {
	ID          string    `json:"id"`
	Title       *string   `json:"title,omitempty"`
	Content     *string   `json:"content,omitempty"`
	Category    *Category `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	IsPublished *bool     `json:"is_published,omitempty"`
}

// Validate checks the fields that are present.
func (in UpdatePostInput) Validate() error {
	var errs []error
	if strings.TrimSpace(in.ID) == "" {
		errs = append(errs, errors.New("id is required"))
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		errs = append(errs, ErrTitleRequired)
	}
	if in.Content != nil && strings.TrimSpace(*in.Content) == "" {
		errs = append(errs, ErrContentRequired)
	}
	if in.Category != nil && !in.Category.IsConcrete() {
		errs = append(errs, ErrCategoryRequired)
	}
	return errors.Join(errs...)
}
