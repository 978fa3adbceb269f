package domain

import (
	"time"

	"github.com/google/uuid"
)

// Page represents a standalone page such as "About"
type Page struct {
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

	Author *AuthorSummary `json:"author,omitempty" db:"-"`
}

// CreatePageInput represents input for creating a page
type CreatePageInput struct {
	Title       string     `json:"title" validate:"required,max=255"`
	Slug        string     `json:"slug" validate:"required,slug,max=255"`
	Content     string     `json:"content"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Status      Status     `json:"status,omitempty" validate:"omitempty,oneof=DRAFT PUBLISHED"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	AuthorID    uuid.UUID  `json:"authorId" validate:"required"`
}

// UpdatePageInput represents input for updating a page
type UpdatePageInput struct {
	Title    *string    `json:"title,omitempty" validate:"omitempty,max=255"`
	Slug     *string    `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Content  *string    `json:"content,omitempty"`
	Excerpt  *string    `json:"excerpt,omitempty"`
	AuthorID *uuid.UUID `json:"authorId,omitempty"`
}
