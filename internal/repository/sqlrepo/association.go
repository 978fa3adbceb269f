package sqlrepo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/reactpress/reactpress/internal/pkg/database"
	apperrors "github.com/reactpress/reactpress/internal/pkg/errors"
)

// association manages one post join table keyed by (post_id, column)
type association struct {
	table    string
	column   string
	resource string
}

var (
	postCategories = association{table: "post_categories", column: "category_id", resource: "post category"}
	postTags       = association{table: "post_tags", column: "tag_id", resource: "post tag"}
)

// attach inserts the pair. An existing pair is a Conflict; a missing post
// or target is an InvalidReference.
func (a association) attach(ctx context.Context, q sqlx.ExtContext, postID, targetID uuid.UUID) (time.Time, error) {
	at := now()
	_, err := q.ExecContext(ctx, q.Rebind(
		"INSERT INTO "+a.table+" (post_id, "+a.column+", assigned_at) VALUES (?, ?, ?)"),
		postID, targetID, at)
	if err != nil {
		return time.Time{}, database.ClassifyError(err, a.resource)
	}
	return at, nil
}

// detach deletes the pair, failing with NotFound when it does not exist
func (a association) detach(ctx context.Context, q sqlx.ExtContext, postID, targetID uuid.UUID) error {
	res, err := q.ExecContext(ctx, q.Rebind(
		"DELETE FROM "+a.table+" WHERE post_id = ? AND "+a.column+" = ?"),
		postID, targetID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return apperrors.NotFound(a.resource)
	}
	return nil
}

// withPostCount renders a query listing every row of target together with
// the number of posts linked to it, ordered by name.
func (a association) withPostCount(target tableDef) string {
	return "SELECT " + target.selectList("t") + ", COUNT(j.post_id) AS post_count" +
		" FROM " + target.table + " t LEFT JOIN " + a.table + " j ON j." + a.column + " = t.id" +
		" GROUP BY " + target.selectList("t") +
		" ORDER BY t.name"
}

// forPost renders a query listing the rows of target linked to one post
func (a association) forPost(target tableDef) string {
	return "SELECT " + target.selectList("t") +
		" FROM " + target.table + " t JOIN " + a.table + " j ON j." + a.column + " = t.id" +
		" WHERE j.post_id = ? ORDER BY t.name"
}

// forPosts renders a query listing target rows linked to any post in a set,
// each tagged with the post id. The IN list is expanded by sqlx.In.
func (a association) forPosts(target tableDef) string {
	return "SELECT j.post_id AS link_post_id, " + target.selectList("t") +
		" FROM " + target.table + " t JOIN " + a.table + " j ON j." + a.column + " = t.id" +
		" WHERE j.post_id IN (?) ORDER BY t.name"
}
