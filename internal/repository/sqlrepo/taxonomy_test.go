package sqlrepo

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reactpress/reactpress/internal/domain"
	apperrors "github.com/reactpress/reactpress/internal/pkg/errors"
	"github.com/reactpress/reactpress/internal/testutil"
)

func TestCategoryRepository_FindBySlug(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()

		created, err := repos.Categories.CreateCategory(ctx, testutil.NewCreateCategoryInput("React", "react"))
		require.NoError(t, err)
		require.NotNil(t, created.Description)

		found, err := repos.Categories.FindBySlug(ctx, "react")
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, created.ID, found.ID)

		missing, err := repos.Categories.FindBySlug(ctx, "vue")
		require.NoError(t, err)
		assert.Nil(t, missing)
	})
}

func TestCategoryRepository_UpdateCategory(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()

		category, err := repos.Categories.CreateCategory(ctx, domain.CreateCategoryInput{Name: "Prisma", Slug: "prisma"})
		require.NoError(t, err)
		assert.Nil(t, category.Description)

		description := "Database toolkit"
		updated, err := repos.Categories.UpdateCategory(ctx, category.ID, domain.UpdateCategoryInput{Description: &description})
		require.NoError(t, err)
		require.NotNil(t, updated.Description)
		assert.Equal(t, description, *updated.Description)
		assert.Equal(t, "Prisma", updated.Name)

		bad := "Bad Slug"
		_, err = repos.Categories.UpdateCategory(ctx, category.ID, domain.UpdateCategoryInput{Slug: &bad})
		assert.True(t, apperrors.IsValidation(err))
	})
}

func TestCategoryRepository_Associations(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()
		author := createTestUser(t, repos)
		post := createTestPost(t, repos, testutil.NewCreatePostInput(author.ID, "hello"))

		category, err := repos.Categories.CreateCategory(ctx, testutil.NewCreateCategoryInput("React", "react"))
		require.NoError(t, err)

		link, err := repos.Categories.AddPostToCategory(ctx, category.ID, post.ID)
		require.NoError(t, err)
		assert.Equal(t, post.ID, link.PostID)
		assert.Equal(t, category.ID, link.CategoryID)
		assert.WithinDuration(t, time.Now(), link.AssignedAt, 5*time.Second)

		categories, err := repos.Categories.GetCategoriesForPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, categories, 1)
		assert.Equal(t, category.ID, categories[0].ID)

		t.Run("attaching twice conflicts", func(t *testing.T) {
			_, err := repos.Categories.AddPostToCategory(ctx, category.ID, post.ID)
			assert.True(t, apperrors.IsConflict(err), "got %v", err)
		})

		t.Run("unknown references", func(t *testing.T) {
			_, err := repos.Categories.AddPostToCategory(ctx, category.ID, uuid.New())
			assert.True(t, apperrors.IsInvalidReference(err), "got %v", err)

			_, err = repos.Categories.AddPostToCategory(ctx, uuid.New(), post.ID)
			assert.True(t, apperrors.IsInvalidReference(err), "got %v", err)
		})

		require.NoError(t, repos.Categories.RemovePostFromCategory(ctx, category.ID, post.ID))

		categories, err = repos.Categories.GetCategoriesForPost(ctx, post.ID)
		require.NoError(t, err)
		assert.Empty(t, categories)

		err = repos.Categories.RemovePostFromCategory(ctx, category.ID, post.ID)
		assert.True(t, apperrors.IsNotFound(err))

		_, err = repos.Categories.AddPostToCategory(ctx, category.ID, post.ID)
		require.NoError(t, err, "re-adding after removal succeeds")

		// Removing a link leaves both ends in place.
		stillThere, err := repos.Posts.FindByID(ctx, post.ID)
		require.NoError(t, err)
		assert.NotNil(t, stillThere)
	})
}

func TestCategoryRepository_FindAllWithPostCount(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()
		author := createTestUser(t, repos)

		react, err := repos.Categories.CreateCategory(ctx, testutil.NewCreateCategoryInput("React", "react"))
		require.NoError(t, err)
		_, err = repos.Categories.CreateCategory(ctx, testutil.NewCreateCategoryInput("Next.js", "nextjs"))
		require.NoError(t, err)

		for _, slug := range []string{"one", "two"} {
			post := createTestPost(t, repos, testutil.NewCreatePostInput(author.ID, slug))
			_, err := repos.Categories.AddPostToCategory(ctx, react.ID, post.ID)
			require.NoError(t, err)
		}

		counts, err := repos.Categories.FindAllWithPostCount(ctx)
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.Equal(t, "Next.js", counts[0].Name)
		assert.Equal(t, int64(0), counts[0].PostCount)
		assert.Equal(t, "React", counts[1].Name)
		assert.Equal(t, int64(2), counts[1].PostCount)
		assert.Equal(t, react.ID, counts[1].ID)
	})
}

func TestTagRepository_Associations(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()
		author := createTestUser(t, repos)
		post := createTestPost(t, repos, testutil.NewCreatePostInput(author.ID, "hello"))

		frontend, err := repos.Tags.CreateTag(ctx, testutil.NewCreateTagInput("frontend", "frontend"))
		require.NoError(t, err)
		database, err := repos.Tags.CreateTag(ctx, testutil.NewCreateTagInput("database", "database"))
		require.NoError(t, err)

		for _, tag := range []*domain.Tag{frontend, database} {
			link, err := repos.Tags.AddPostToTag(ctx, tag.ID, post.ID)
			require.NoError(t, err)
			assert.Equal(t, tag.ID, link.TagID)
		}

		tags, err := repos.Tags.GetTagsForPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, tags, 2)
		assert.Equal(t, "database", tags[0].Name)
		assert.Equal(t, "frontend", tags[1].Name)

		_, err = repos.Tags.AddPostToTag(ctx, frontend.ID, post.ID)
		assert.True(t, apperrors.IsConflict(err))

		require.NoError(t, repos.Tags.RemovePostFromTag(ctx, frontend.ID, post.ID))
		err = repos.Tags.RemovePostFromTag(ctx, frontend.ID, post.ID)
		assert.True(t, apperrors.IsNotFound(err))

		tags, err = repos.Tags.GetTagsForPost(ctx, post.ID)
		require.NoError(t, err)
		require.Len(t, tags, 1)
		assert.Equal(t, database.ID, tags[0].ID)

		_, err = repos.Tags.AddPostToTag(ctx, frontend.ID, post.ID)
		require.NoError(t, err)
	})
}

func TestTagRepository_FindAllWithPostCount(t *testing.T) {
	forEachBackend(t, func(t *testing.T, repos *Repositories) {
		ctx := context.Background()
		author := createTestUser(t, repos)
		post := createTestPost(t, repos, testutil.NewCreatePostInput(author.ID, "hello"))

		perf, err := repos.Tags.CreateTag(ctx, testutil.NewCreateTagInput("performance", "performance"))
		require.NoError(t, err)
		_, err = repos.Tags.CreateTag(ctx, testutil.NewCreateTagInput("typescript", "typescript"))
		require.NoError(t, err)
		_, err = repos.Tags.AddPostToTag(ctx, perf.ID, post.ID)
		require.NoError(t, err)

		counts, err := repos.Tags.FindAllWithPostCount(ctx)
		require.NoError(t, err)
		require.Len(t, counts, 2)
		assert.Equal(t, "performance", counts[0].Slug)
		assert.Equal(t, int64(1), counts[0].PostCount)
		assert.Equal(t, "typescript", counts[1].Slug)
		assert.Equal(t, int64(0), counts[1].PostCount)

		found, err := repos.Tags.FindBySlug(ctx, "typescript")
		require.NoError(t, err)
		require.NotNil(t, found)

		name := "TypeScript"
		updated, err := repos.Tags.UpdateTag(ctx, found.ID, domain.UpdateTagInput{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "TypeScript", updated.Name)
	})
}
