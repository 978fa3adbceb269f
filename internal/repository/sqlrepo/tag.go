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

var tagsTable = tableDef{
	table:    "tags",
	resource: "tag",
	columns:  []string{"id", "name", "slug", "created_at", "updated_at"},
}

// TagRepository handles tags and their post links
type TagRepository struct {
	*Base[domain.Tag]
}

// NewTagRepository creates a new tag repository
func NewTagRepository(db *database.DB, q sqlx.ExtContext, logger *zap.Logger) *TagRepository {
	return &TagRepository{Base: newBase[domain.Tag](db, q, tagsTable, logger)}
}

// FindBySlug retrieves a tag by slug, or nil when absent
func (r *TagRepository) FindBySlug(ctx context.Context, slug string) (*domain.Tag, error) {
	return r.findOne(ctx, "find_by_slug", "slug = ?", slug)
}

// FindAllWithPostCount lists every tag with its number of posts
func (r *TagRepository) FindAllWithPostCount(ctx context.Context) (tags []domain.TagWithCount, err error) {
	defer func(start time.Time) { r.observe("find_all_with_post_count", start, err) }(time.Now())

	tags, err = list[domain.TagWithCount](ctx, r.q, postTags.withPostCount(tagsTable))
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

// CreateTag stores a new tag
func (r *TagRepository) CreateTag(ctx context.Context, input domain.CreateTagInput) (*domain.Tag, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	return r.Create(ctx, Values{
		"name": input.Name,
		"slug": input.Slug,
	})
}

// UpdateTag applies the set fields of input
func (r *TagRepository) UpdateTag(ctx context.Context, id uuid.UUID, input domain.UpdateTagInput) (*domain.Tag, error) {
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
	return r.Update(ctx, id, values)
}

// AddPostToTag links a post to a tag
func (r *TagRepository) AddPostToTag(ctx context.Context, tagID, postID uuid.UUID) (link *domain.PostTag, err error) {
	defer func(start time.Time) { r.observe("add_post", start, err) }(time.Now())

	at, err := postTags.attach(ctx, r.q, postID, tagID)
	if err != nil {
		return nil, r.wrap("add_post", err)
	}

	r.logger.Debug("post added", zap.String("tag_id", tagID.String()), zap.String("post_id", postID.String()))
	return &domain.PostTag{PostID: postID, TagID: tagID, AssignedAt: at}, nil
}

// RemovePostFromTag unlinks a post from a tag
func (r *TagRepository) RemovePostFromTag(ctx context.Context, tagID, postID uuid.UUID) (err error) {
	defer func(start time.Time) { r.observe("remove_post", start, err) }(time.Now())

	if err = postTags.detach(ctx, r.q, postID, tagID); err != nil {
		return r.wrap("remove_post", err)
	}

	r.logger.Debug("post removed", zap.String("tag_id", tagID.String()), zap.String("post_id", postID.String()))
	return nil
}

// GetTagsForPost lists the tags of a post, ordered by name
func (r *TagRepository) GetTagsForPost(ctx context.Context, postID uuid.UUID) (tags []domain.Tag, err error) {
	defer func(start time.Time) { r.observe("get_for_post", start, err) }(time.Now())

	tags, err = list[domain.Tag](ctx, r.q, postTags.forPost(tagsTable), postID)
	if err != nil {
		return nil, fmt.Errorf("failed to get tags for post: %w", err)
	}
	return tags, nil
}
