package domain

import (
	"time"

	"github.com/google/uuid"
)

// Post represents a blog post
type Post struct {
	ID          uuid.UUID  `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Slug        string     `json:"slug" db:"slug"`
	Content     string     `json:"content" db:"content"`
	Excerpt     *string    `json:"excerpt,omitempty" db:"excerpt"`
	Status      Status     `json:"status" db:"status"`
	PublishedAt *time.Time `json:"publishedAt,omitempty" db:"published_at"`
	AuthorID    uuid.UUID  `json:"authorId" db:"author_id"`
	CreatedAt   time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt" db:"updated_at"`

	// Related data (populated by listing queries)
	Author     *AuthorSummary `json:"author,omitempty" db:"-"`
	Categories []Category     `json:"categories,omitempty" db:"-"`
	Tags       []Tag          `json:"tags,omitempty" db:"-"`
}

// IsPublished reports whether the post is visible at the given instant
func (p *Post) IsPublished(at time.Time) bool {
	return p.Status == StatusPublished && p.PublishedAt != nil && !p.PublishedAt.After(at)
}

// CreatePostInput represents input for creating a post.
// PublishedAt is only accepted together with StatusPublished; a future value
// schedules the post.
type CreatePostInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Slug        string     `json:"slug" validate:"required,slug,max=255"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Status      Status     `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	AuthorID    uuid.UUID  `json:"authorId" validate:"required"`
}

// UpdatePostInput represents input for updating a post.
// Status changes go through PublishPost and UnpublishPost.
type UpdatePostInput struct {
	Title    *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Slug     *string    `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Content  *string    `json:"content,omitempty"`
	Excerpt  *string    `json:"excerpt,omitempty"`
	AuthorID *uuid.UUID `json:"authorId,omitempty"`
}
