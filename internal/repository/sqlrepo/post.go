package sqlrepo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/reactpress/reactpress/internal/domain"
	"github.com/reactpress/reactpress/internal/pkg/database"
	"github.com/reactpress/reactpress/internal/pkg/pagination"
)

var postsTable = tableDef{
	table:    "posts",
	resource: "post",
	columns:  contentColumns,
}

// postRow is a post joined with its author
type postRow struct {
	domain.Post
	AuthorName  string `db:"author_name"`
	AuthorEmail string `db:"author_email"`
}

type linkedCategory struct {
	PostID uuid.UUID `db:"link_post_id"`
	domain.Category
}

type linkedTag struct {
	PostID uuid.UUID `db:"link_post_id"`
	domain.Tag
}

// postListing selects posts with their author; callers append joins,
// conditions and ordering.
var postListing = "SELECT " + postsTable.selectList("p") +
	", u.name AS author_name, u.email AS author_email" +
	" FROM posts p JOIN users u ON u.id = p.author_id"

const newestPublishedFirst = " ORDER BY p.published_at DESC NULLS LAST"

// PostRepository handles posts. Listings return posts with their author,
// categories and tags loaded.
type PostRepository struct {
	*Base[domain.Post]
}

// NewPostRepository creates a new post repository
func NewPostRepository(db *database.DB, q sqlx.ExtContext, logger *zap.Logger) *PostRepository {
	return &PostRepository{Base: newBase[domain.Post](db, q, postsTable, logger)}
}

// FindBySlug retrieves a post by slug without related data, or nil when absent
func (r *PostRepository) FindBySlug(ctx context.Context, slug string) (*domain.Post, error) {
	return r.findOne(ctx, "find_by_slug", "slug = ?", slug)
}

// FindPublished lists posts that are published and whose publishedAt has
// passed, newest first.
func (r *PostRepository) FindPublished(ctx context.Context, w pagination.Window) ([]domain.Post, error) {
	return r.listing(ctx, "find_published",
		" WHERE p.status = ? AND p.published_at <= ?"+newestPublishedFirst+r.limit(w),
		string(domain.StatusPublished), now())
}

// FindByAuthor lists every post of an author in any status, newest first
func (r *PostRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, w pagination.Window) ([]domain.Post, error) {
	return r.listing(ctx, "find_by_author",
		" WHERE p.author_id = ? ORDER BY p.created_at DESC"+r.limit(w),
		authorID)
}

// FindByCategory lists published posts in the category with the given slug
func (r *PostRepository) FindByCategory(ctx context.Context, categorySlug string, w pagination.Window) ([]domain.Post, error) {
	return r.listing(ctx, "find_by_category",
		" JOIN post_categories pc ON pc.post_id = p.id JOIN categories c ON c.id = pc.category_id"+
			" WHERE c.slug = ? AND p.status = ?"+newestPublishedFirst+r.limit(w),
		categorySlug, string(domain.StatusPublished))
}

// FindByTag lists published posts carrying the tag with the given slug
func (r *PostRepository) FindByTag(ctx context.Context, tagSlug string, w pagination.Window) ([]domain.Post, error) {
	return r.listing(ctx, "find_by_tag",
		" JOIN post_tags pt ON pt.post_id = p.id JOIN tags t ON t.id = pt.tag_id"+
			" WHERE t.slug = ? AND p.status = ?"+newestPublishedFirst+r.limit(w),
		tagSlug, string(domain.StatusPublished))
}

// SearchPosts lists published posts whose title, content or excerpt contains
// the trimmed query. Case sensitivity follows the backend's LIKE. An empty
// query matches every published post.
func (r *PostRepository) SearchPosts(ctx context.Context, query string, w pagination.Window) ([]domain.Post, error) {
	pattern := likePattern(strings.TrimSpace(query))
	return r.listing(ctx, "search",
		` WHERE p.status = ? AND (p.title LIKE ? ESCAPE '\' OR p.content LIKE ? ESCAPE '\' OR p.excerpt LIKE ? ESCAPE '\')`+
			newestPublishedFirst+r.limit(w),
		string(domain.StatusPublished), pattern, pattern, pattern)
}

// CreatePost stores a new post
func (r *PostRepository) CreatePost(ctx context.Context, input domain.CreatePostInput) (*domain.Post, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	status, publishedAt, err := initialPublication(input.Status, input.PublishedAt)
	if err != nil {
		return nil, err
	}
	return r.Create(ctx, Values{
		"title":        input.Title,
		"slug":         input.Slug,
		"content":      input.Content,
		"excerpt":      input.Excerpt,
		"status":       string(status),
		"published_at": publishedAt,
		"author_id":    input.AuthorID,
	})
}

// UpdatePost applies the set fields of input. Status is changed only by
// PublishPost and UnpublishPost.
func (r *PostRepository) UpdatePost(ctx context.Context, id uuid.UUID, input domain.UpdatePostInput) (*domain.Post, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	return r.Update(ctx, id, contentUpdateValues(input.Title, input.Slug, input.Content, input.Excerpt, input.AuthorID))
}

// PublishPost marks a post PUBLISHED with publishedAt set to now
func (r *PostRepository) PublishPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return r.Update(ctx, id, publishValues())
}

// UnpublishPost returns a post to DRAFT and clears publishedAt
func (r *PostRepository) UnpublishPost(ctx context.Context, id uuid.UUID) (*domain.Post, error) {
	return r.Update(ctx, id, unpublishValues())
}

func (r *PostRepository) listing(ctx context.Context, operation, tail string, args ...any) (posts []domain.Post, err error) {
	defer func(start time.Time) { r.observe(operation, start, err) }(time.Now())

	rows, err := list[postRow](ctx, r.q, postListing+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list posts: %w", err)
	}

	posts = make([]domain.Post, len(rows))
	for i, row := range rows {
		posts[i] = row.Post
		posts[i].Author = &domain.AuthorSummary{ID: row.AuthorID, Name: row.AuthorName, Email: row.AuthorEmail}
		posts[i].Categories = []domain.Category{}
		posts[i].Tags = []domain.Tag{}
	}
	if err := r.loadRelations(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// loadRelations fills Categories and Tags of posts with one query per relation
func (r *PostRepository) loadRelations(ctx context.Context, posts []domain.Post) error {
	if len(posts) == 0 {
		return nil
	}
	ids := make([]string, len(posts))
	index := make(map[uuid.UUID]int, len(posts))
	for i, p := range posts {
		ids[i] = p.ID.String()
		index[p.ID] = i
	}

	categories, err := linked[linkedCategory](ctx, r.q, postCategories.forPosts(categoriesTable), ids)
	if err != nil {
		return fmt.Errorf("failed to load post categories: %w", err)
	}
	for _, c := range categories {
		if i, ok := index[c.PostID]; ok {
			posts[i].Categories = append(posts[i].Categories, c.Category)
		}
	}

	tags, err := linked[linkedTag](ctx, r.q, postTags.forPosts(tagsTable), ids)
	if err != nil {
		return fmt.Errorf("failed to load post tags: %w", err)
	}
	for _, t := range tags {
		if i, ok := index[t.PostID]; ok {
			posts[i].Tags = append(posts[i].Tags, t.Tag)
		}
	}
	return nil
}

func linked[T any](ctx context.Context, q sqlx.ExtContext, query string, ids []string) ([]T, error) {
	query, args, err := sqlx.In(query, ids)
	if err != nil {
		return nil, err
	}
	return list[T](ctx, q, query, args...)
}
