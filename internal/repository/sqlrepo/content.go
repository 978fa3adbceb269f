package sqlrepo

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/reactpress/reactpress/internal/domain"
	apperrors "github.com/reactpress/reactpress/internal/pkg/errors"
)

// contentColumns are shared by posts and pages
var contentColumns = []string{
	"id", "title", "slug", "content", "excerpt", "status", "published_at", "author_id", "created_at", "updated_at",
}

// initialPublication resolves the status and publishedAt of new content.
// Published content without a timestamp is stamped now; a future timestamp
// schedules it. Drafts never carry a timestamp.
func initialPublication(status domain.Status, publishedAt *time.Time) (domain.Status, *time.Time, error) {
	if status == "" {
		status = domain.StatusDraft
	}
	switch status {
	case domain.StatusDraft:
		if publishedAt != nil {
			return "", nil, apperrors.Validation("publishedAt requires status PUBLISHED")
		}
		return status, nil, nil
	case domain.StatusPublished:
		at := now()
		if publishedAt != nil {
			at = publishedAt.UTC().Truncate(time.Microsecond)
		}
		return status, &at, nil
	}
	return "", nil, apperrors.Validation("status must be one of: DRAFT PUBLISHED")
}

// publishValues moves content to PUBLISHED, refreshing publishedAt on every call
func publishValues() Values {
	return Values{"status": string(domain.StatusPublished), "published_at": now()}
}

// unpublishValues moves content back to DRAFT and clears publishedAt
func unpublishValues() Values {
	return Values{"status": string(domain.StatusDraft), "published_at": nil}
}

// contentUpdateValues collects the set fields shared by post and page updates
func contentUpdateValues(title, slug, content, excerpt *string, authorID *uuid.UUID) Values {
	values := Values{}
	if title != nil {
		values["title"] = *title
	}
	if slug != nil {
		values["slug"] = *slug
	}
	if content != nil {
		values["content"] = *content
	}
	if excerpt != nil {
		values["excerpt"] = *excerpt
	}
	if authorID != nil {
		values["author_id"] = *authorID
	}
	return values
}

// likePattern builds a LIKE pattern matching s anywhere, with the LIKE
// wildcards in s escaped by backslash.
func likePattern(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + r.Replace(s) + "%"
}
