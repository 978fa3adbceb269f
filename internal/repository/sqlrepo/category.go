package sqlrepo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/reactpress/reactpress/internal/domain"
	"github.com/reactpress/reactpress/internal/pkg/database"
)

var categoriesTable = tableDef{
	table:    "categories",
	resource: "category",
	columns:  []string{"id", "name", "slug", "description", "created_at", "updated_at"},
}

// CategoryRepository handles categories and their post links
type CategoryRepository struct {
	*Base[domain.Category]
}

// NewCategoryRepository creates a new category repository
func NewCategoryRepository(db *database.DB, q sqlx.ExtContext, logger *zap.Logger) *CategoryRepository {
	return &CategoryRepository{Base: newBase[domain.Category](db, q, categoriesTable, logger)}
}

// FindBySlug retrieves a category by slug, or nil when absent
func (r *CategoryRepository) FindBySlug(ctx context.Context, slug string) (*domain.Category, error) {
	return r.findOne(ctx, "find_by_slug", "slug = ?", slug)
}

// FindAllWithPostCount lists every category with its number of posts
func (r *CategoryRepository) FindAllWithPostCount(ctx context.Context) (categories []domain.CategoryWithCount, err error) {
	defer func(start time.Time) { r.observe("find_all_with_post_count", start, err) }(time.Now())

	categories, err = list[domain.CategoryWithCount](ctx, r.q, postCategories.withPostCount(categoriesTable))
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// CreateCategory stores a new category
func (r *CategoryRepository) CreateCategory(ctx context.Context, input domain.CreateCategoryInput) (*domain.Category, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	return r.Create(ctx, Values{
		"name":        input.Name,
		"slug":        input.Slug,
		"description": input.Description,
	})
}

// UpdateCategory applies the set fields of input
func (r *CategoryRepository) UpdateCategory(ctx context.Context, id uuid.UUID, input domain.UpdateCategoryInput) (*domain.Category, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	values := Values{}
	if input.Name != nil {
		values["name"] = *input.Name
	}
	if input.Slug != nil {
		values["slug"] = *input.Slug
	}
	if input.Description != nil {
		values["description"] = *input.Description
	}
	return r.Update(ctx, id, values)
}

// AddPostToCategory links a post to a category
func (r *CategoryRepository) AddPostToCategory(ctx context.Context, categoryID, postID uuid.UUID) (link *domain.PostCategory, err error) {
	defer func(start time.Time) { r.observe("add_post", start, err) }(time.Now())

	at, err := postCategories.attach(ctx, r.q, postID, categoryID)
	if err != nil {
		return nil, r.wrap("add_post", err)
	}

	r.logger.Debug("post added", zap.String("category_id", categoryID.String()), zap.String("post_id", postID.String()))
	return &domain.PostCategory{PostID: postID, CategoryID: categoryID, AssignedAt: at}, nil
}

// RemovePostFromCategory unlinks a post from a category
func (r *CategoryRepository) RemovePostFromCategory(ctx context.Context, categoryID, postID uuid.UUID) (err error) {
	defer func(start time.Time) { r.observe("remove_post", start, err) }(time.Now())

	if err = postCategories.detach(ctx, r.q, postID, categoryID); err != nil {
		return r.wrap("remove_post", err)
	}

	r.logger.Debug("post removed", zap.String("category_id", categoryID.String()), zap.String("post_id", postID.String()))
	return nil
}

// GetCategoriesForPost lists the categories of a post, ordered by name
func (r *CategoryRepository) GetCategoriesForPost(ctx context.Context, postID uuid.UUID) (categories []domain.Category, err error) {
	defer func(start time.Time) { r.observe("get_for_post", start, err) }(time.Now())

	categories, err = list[domain.Category](ctx, r.q, postCategories.forPost(categoriesTable), postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get categories for post: %w", err)
	}
	return categories, nil
}
