package sqlrepo

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/reactpress/reactpress/internal/config"
	"github.com/reactpress/reactpress/internal/domain"
	"github.com/reactpress/reactpress/internal/pkg/database"
	"github.com/reactpress/reactpress/internal/testutil"
)

func newTestRepositories(t *testing.T) *Repositories {
	t.Helper()
	return reposFor(testutil.NewSQLiteDB(t))
}

func reposFor(db *database.DB) *Repositories {
	return NewRepositories(db, zap.NewNop(), WithPasswordCost(bcrypt.MinCost))
}

// testBackends lists every driver the repositories support. The PostgreSQL
// entries skip unless POSTGRES_TEST_HOST points at a live server.
var testBackends = []struct {
	driver string
	open   func(t *testing.T) *database.DB
}{
	{config.DriverSQLite, testutil.NewSQLiteDB},
	{config.DriverPgx, func(t *testing.T) *database.DB { return testutil.NewPostgresDB(t, config.DriverPgx) }},
	{config.DriverPostgres, func(t *testing.T) *database.DB { return testutil.NewPostgresDB(t, config.DriverPostgres) }},
}

// forEachBackend runs fn once per driver, each against fresh empty tables
func forEachBackend(t *testing.T, fn func(t *testing.T, repos *Repositories)) {
	t.Helper()
	for _, backend := range testBackends {
		t.Run(backend.driver, func(t *testing.T) {
			fn(t, reposFor(backend.open(t)))
		})
	}
}

func createTestUser(t *testing.T, repos *Repositories) *domain.User {
	t.Helper()
	user, err := repos.Users.CreateUser(context.Background(), testutil.NewCreateUserInput())
	require.NoError(t, err)
	return user
}

func createTestPost(t *testing.T, repos *Repositories, input domain.CreatePostInput) *domain.Post {
	t.Helper()
	post, err := repos.Posts.CreatePost(context.Background(), input)
	require.NoError(t, err)
	return post
}

func slugsOf(posts []domain.Post) []string {
	slugs := make([]string, len(posts))
	for i, p := range posts {
		slugs[i] = p.Slug
	}
	return slugs
}
