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
	"github.com/reactpress/reactpress/internal/pkg/pagination"
)

var pagesTable = tableDef{
	table:    "pages",
	resource: "page",
	columns:  contentColumns,
}

// pageRow is a page joined with its author's name
type pageRow struct {
	domain.Page
	AuthorName string `db:"author_name"`
}

func (row pageRow) page() domain.Page {
	p := row.Page
	p.Author = &domain.AuthorSummary{ID: row.AuthorID, Name: row.AuthorName}
	return p
}

var pageListing = "SELECT " + pagesTable.selectList("p") + ", u.name AS author_name" +
	" FROM pages p JOIN users u ON u.id = p.author_id"

// PageRepository handles standalone pages. Pages are returned with the
// author's id and name attached.
type PageRepository struct {
	*Base[domain.Page]
}

// NewPageRepository creates a new page repository
func NewPageRepository(db *database.DB, q sqlx.ExtContext, logger *zap.Logger) *PageRepository {
	return &PageRepository{Base: newBase[domain.Page](db, q, pagesTable, logger)}
}

// FindBySlug retrieves a page by slug, or nil when absent
func (r *PageRepository) FindBySlug(ctx context.Context, slug string) (page *domain.Page, err error) {
	defer func(start time.Time) { r.observe("find_by_slug", start, err) }(time.Now())

	row, err := get[pageRow](ctx, r.q, pageListing+" WHERE p.slug = ?", slug)
	if err != nil {
		return nil, fmt.Errorf("failed to get page: %w", err)
	}
	if row == nil {
		return nil, nil
	}
	p := row.page()
	return &p, nil
}

// FindPublished lists published pages ordered by title
func (r *PageRepository) FindPublished(ctx context.Context, w pagination.Window) ([]domain.Page, error) {
	return r.listing(ctx, "find_published",
		" WHERE p.status = ? ORDER BY p.title"+r.limit(w),
		string(domain.StatusPublished))
}

// FindByAuthor lists every page of an author, newest first
func (r *PageRepository) FindByAuthor(ctx context.Context, authorID uuid.UUID, w pagination.Window) ([]domain.Page, error) {
	return r.listing(ctx, "find_by_author",
		" WHERE p.author_id = ? ORDER BY p.created_at DESC"+r.limit(w),
		authorID)
}

// CreatePage stores a new page
func (r *PageRepository) CreatePage(ctx context.Context, input domain.CreatePageInput) (*domain.Page, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	status, publishedAt, err := initialPublication(input.Status, input.PublishedAt)
	if err != nil {
		return nil, err
	}
	page, err := r.Create(ctx, Values{
		"title":        input.Title,
		"slug":         input.Slug,
		"content":      input.Content,
		"excerpt":      input.Excerpt,
		"status":       string(status),
		"published_at": publishedAt,
		"author_id":    input.AuthorID,
	})
	if err != nil {
		return nil, err
	}
	return r.withAuthor(ctx, page)
}

// UpdatePage applies the set fields of input. Status is changed only by
// PublishPage and UnpublishPage.
func (r *PageRepository) UpdatePage(ctx context.Context, id uuid.UUID, input domain.UpdatePageInput) (*domain.Page, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	page, err := r.Update(ctx, id, contentUpdateValues(input.Title, input.Slug, input.Content, input.Excerpt, input.AuthorID))
	if err != nil {
		return nil, err
	}
	return r.withAuthor(ctx, page)
}

// PublishPage marks a page PUBLISHED with publishedAt set to now. Publishing
// an already published page refreshes publishedAt.
func (r *PageRepository) PublishPage(ctx context.Context, id uuid.UUID) (*domain.Page, error) {
	page, err := r.Update(ctx, id, publishValues())
	if err != nil {
		return nil, err
	}
	return r.withAuthor(ctx, page)
}

// UnpublishPage returns a page to DRAFT and clears publishedAt
func (r *PageRepository) UnpublishPage(ctx context.Context, id uuid.UUID) (*domain.Page, error) {
	page, err := r.Update(ctx, id, unpublishValues())
	if err != nil {
		return nil, err
	}
	return r.withAuthor(ctx, page)
}

func (r *PageRepository) listing(ctx context.Context, operation, tail string, args ...any) (pages []domain.Page, err error) {
	defer func(start time.Time) { r.observe(operation, start, err) }(time.Now())

	rows, err := list[pageRow](ctx, r.q, pageListing+tail, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list pages: %w", err)
	}
	pages = make([]domain.Page, len(rows))
	for i, row := range rows {
		pages[i] = row.page()
	}
	return pages, nil
}

// withAuthor attaches the author's id and name to page
func (r *PageRepository) withAuthor(ctx context.Context, page *domain.Page) (*domain.Page, error) {
	var name string
	if err := sqlx.GetContext(ctx, r.q, &name, r.q.Rebind("SELECT name FROM users WHERE id = ?"), page.AuthorID); err != nil {
		return nil, fmt.Errorf("failed to load page author: %w", err)
	}
	page.Author = &domain.AuthorSummary{ID: page.AuthorID, Name: name}
	return page, nil
}
