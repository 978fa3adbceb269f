package sqlrepo

import (
	"context"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/reactpress/reactpress/internal/pkg/database"
)

// Repositories holds one instance of every entity repository, all bound to
// the same database handle or transaction. Build it once at startup and
// pass it to whatever needs data access.
type Repositories struct {
	Users      *UserRepository
	Posts      *PostRepository
	Pages      *PageRepository
	Categories *CategoryRepository
	Tags       *TagRepository

	db     *database.DB
	hasher *PasswordHasher
	logger *zap.Logger
}

// NewRepositories creates the repository set for db
func NewRepositories(db *database.DB, logger *zap.Logger, opts ...Option) *Repositories {
	if logger == nil {
		logger = zap.NewNop()
	}
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return newRepositories(db, db.Conn, NewPasswordHasher(o.passwordCost), logger)
}

func newRepositories(db *database.DB, q sqlx.ExtContext, hasher *PasswordHasher, logger *zap.Logger) *Repositories {
	return &Repositories{
		Users:      NewUserRepository(db, q, hasher, logger),
		Posts:      NewPostRepository(db, q, logger),
		Pages:      NewPageRepository(db, q, logger),
		Categories: NewCategoryRepository(db, q, logger),
		Tags:       NewTagRepository(db, q, logger),
		db:         db,
		hasher:     hasher,
		logger:     logger,
	}
}

// WithTx returns a repository set whose operations run inside tx. The caller
// owns the transaction.
func (r *Repositories) WithTx(tx *sqlx.Tx) *Repositories {
	return newRepositories(r.db, tx, r.hasher, r.logger)
}

// Transaction runs fn with repositories bound to a new transaction, committing
// when fn returns nil and rolling back otherwise.
func (r *Repositories) Transaction(ctx context.Context, fn func(repos *Repositories) error) error {
	return r.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		return fn(r.WithTx(tx))
	})
}
