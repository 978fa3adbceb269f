package testutil

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/reactpress/reactpress/internal/domain"
)

// TestPassword is the plaintext password used by NewCreateUserInput
const TestPassword = "s3cret-password"

// NewCreateUserInput creates user input with a unique email
func NewCreateUserInput() domain.CreateUserInput {
	return domain.CreateUserInput{
		Email:    fmt.Sprintf("user-%s@example.com", uuid.NewString()[:8]),
		Name:     "Test User",
		Password: TestPassword,
	}
}

// NewCreatePostInput creates draft post input with the given slug
func NewCreatePostInput(authorID uuid.UUID, slug string) domain.CreatePostInput {
	return domain.CreatePostInput{
		Title:    "Post " + slug,
		Slug:     slug,
		Content:  "Content of " + slug,
		Excerpt:  StringPtr("Excerpt of " + slug),
		AuthorID: authorID,
	}
}

// NewPublishedPostInput creates post input published at the given instant
func NewPublishedPostInput(authorID uuid.UUID, slug string, publishedAt time.Time) domain.CreatePostInput {
	input := NewCreatePostInput(authorID, slug)
	input.Status = domain.StatusPublished
	input.PublishedAt = &publishedAt
	return input
}

// NewCreatePageInput creates draft page input with the given slug
func NewCreatePageInput(authorID uuid.UUID, slug string) domain.CreatePageInput {
	return domain.CreatePageInput{
		Title:    "Page " + slug,
		Slug:     slug,
		Content:  "Content of " + slug,
		AuthorID: authorID,
	}
}

// NewCreateCategoryInput creates category input with the given name and slug
func NewCreateCategoryInput(name, slug string) domain.CreateCategoryInput {
	return domain.CreateCategoryInput{
		Name:        name,
		Slug:        slug,
		Description: StringPtr(name + " articles"),
	}
}

// NewCreateTagInput creates tag input with the given name and slug
func NewCreateTagInput(name, slug string) domain.CreateTagInput {
	return domain.CreateTagInput{Name: name, Slug: slug}
}

// StringPtr returns a pointer to s
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to t
func TimePtr(t time.Time) *time.Time {
	return &t
}
