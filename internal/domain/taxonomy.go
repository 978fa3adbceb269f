package domain

import (
	"time"

	"github.com/google/uuid"
)

// Category groups posts by topic
type Category struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description *string   `json:"description,omitempty" db:"description"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// CategoryWithCount is a category annotated with its number of posts
type CategoryWithCount struct {
	Category
	PostCount int64 `json:"postCount" db:"post_count"`
}

// Tag labels posts
type Tag struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// TagWithCount is a tag annotated with its number of posts
type TagWithCount struct {
	Tag
	PostCount int64 `json:"postCount" db:"post_count"`
}

// PostCategory is the join record linking a post to a category
type PostCategory struct {
	PostID     uuid.UUID `json:"postId" db:"post_id"`
	CategoryID uuid.UUID `json:"categoryId" db:"category_id"`
	AssignedAt time.Time `json:"assignedAt" db:"assigned_at"`
}

// PostTag is the join record linking a post to a tag
type PostTag struct {
	PostID     uuid.UUID `json:"postId" db:"post_id"`
	TagID      uuid.UUID `json:"tagId" db:"tag_id"`
	AssignedAt time.Time `json:"assignedAt" db:"assigned_at"`
}

// CreateCategoryInput represents input for creating a category
type CreateCategoryInput struct {
	Name        string  `json:"name" validate:"required,max=255"`
	Slug        string  `json:"slug" validate:"required,slug,max=255"`
	Description *string `json:"description,omitempty"`
}

// UpdateCategoryInput represents input for updating a category
type UpdateCategoryInput struct {
	Name        *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Slug        *string `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
	Description *string `json:"description,omitempty"`
}

// CreateTagInput represents input for creating a tag
type CreateTagInput struct {
	Name string `json:"name" validate:"required,max=255"`
	Slug string `json:"slug" validate:"required,slug,max=255"`
}

// UpdateTagInput represents input for updating a tag
type UpdateTagInput struct {
	Name *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Slug *string `json:"slug,omitempty" validate:"omitempty,slug,max=255"`
}
