// Package seed loads the sample ReactPress content used for local installs
// and demos.
package seed

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/reactpress/reactpress/internal/domain"
	"github.com/reactpress/reactpress/internal/repository/sqlrepo"
)

// Admin credentials of the seeded administrator
const (
	AdminEmail    = "admin@reactpress.dev"
	AdminPassword = "admin123"
)

// Summary reports what a seed run wrote
type Summary struct {
	Removed    int64
	Users      int
	Categories int
	Tags       int
	Posts      int
	Pages      int
}

// Run loads the sample content in one transaction. With reset, every
// existing row is removed first.
func Run(ctx context.Context, repos *sqlrepo.Repositories, reset bool, logger *zap.Logger) (*Summary, error) {
	summary := &Summary{}
	err := repos.Transaction(ctx, func(tx *sqlrepo.Repositories) error {
		if reset {
			removed, err := removeAll(ctx, tx)
			if err != nil {
				return err
			}
			summary.Removed = removed
			logger.Info("cleared existing content", zap.Int64("rows", removed))
		}
		return load(ctx, tx, summary)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to seed database: %w", err)
	}

	logger.Info("database seeded",
		zap.Int("users", summary.Users),
		zap.Int("categories", summary.Categories),
		zap.Int("tags", summary.Tags),
		zap.Int("posts", summary.Posts),
		zap.Int("pages", summary.Pages),
	)
	return summary, nil
}

// removeAll removes all content. Post links go with their posts.
func removeAll(ctx context.Context, tx *sqlrepo.Repositories) (int64, error) {
	var total int64
	for _, deleteAll := range []func(context.Context, sqlrepo.Filter) (int64, error){
		tx.Posts.DeleteMany,
		tx.Pages.DeleteMany,
		tx.Tags.DeleteMany,
		tx.Categories.DeleteMany,
		tx.Users.DeleteMany,
	} {
		n, err := deleteAll(ctx, nil)
		if err != nil {
			return 0, err
		}
		total += n
	}
	return total, nil
}

func load(ctx context.Context, tx *sqlrepo.Repositories, summary *Summary) error {
	admin, err := tx.Users.CreateUser(ctx, domain.CreateUserInput{
		Email:    AdminEmail,
		Name:     "Admin User",
		Password: AdminPassword,
		Role:     domain.RoleAdmin,
	})
	if err != nil {
		return err
	}
	summary.Users++

	categories := make([]*domain.Category, 0, len(sampleCategories))
	for _, input := range sampleCategories {
		category, err := tx.Categories.CreateCategory(ctx, input)
		if err != nil {
			return err
		}
		categories = append(categories, category)
		summary.Categories++
	}

	tags := make([]*domain.Tag, 0, len(sampleTags))
	for _, input := range sampleTags {
		tag, err := tx.Tags.CreateTag(ctx, input)
		if err != nil {
			return err
		}
		tags = append(tags, tag)
		summary.Tags++
	}

	post, err := tx.Posts.CreatePost(ctx, domain.CreatePostInput{
		Title:    "Getting Started with ReactPress",
		Slug:     "getting-started-with-reactpress",
		Content:  welcomePost,
		Excerpt:  stringPtr("Learn how to get started with ReactPress, a modern CMS built with React and Next.js"),
		Status:   domain.StatusPublished,
		AuthorID: admin.ID,
	})
	if err != nil {
		return err
	}
	summary.Posts++

	for _, c := range categories[:2] {
		if _, err := tx.Categories.AddPostToCategory(ctx, c.ID, post.ID); err != nil {
			return err
		}
	}
	for _, t := range []*domain.Tag{tags[0], tags[3]} {
		if _, err := tx.Tags.AddPostToTag(ctx, t.ID, post.ID); err != nil {
			return err
		}
	}

	if _, err := tx.Pages.CreatePage(ctx, domain.CreatePageInput{
		Title:    "About ReactPress",
		Slug:     "about",
		Content:  aboutPage,
		Status:   domain.StatusPublished,
		AuthorID: admin.ID,
	}); err != nil {
		return err
	}
	summary.Pages++

	return nil
}

func stringPtr(s string) *string {
	return &s
}
