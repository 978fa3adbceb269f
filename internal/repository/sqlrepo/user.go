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

var usersTable = tableDef{
	table:    "users",
	resource: "user",
	columns:  []string{"id", "email", "name", "password", "role", "created_at", "updated_at"},
}

// UserRepository handles user data and credentials
type UserRepository struct {
	*Base[domain.User]
	hasher *PasswordHasher
}

// NewUserRepository creates a new user repository. q may be nil to use the
// database handle directly.
func NewUserRepository(db *database.DB, q sqlx.ExtContext, hasher *PasswordHasher, logger *zap.Logger) *UserRepository {
	if hasher == nil {
		hasher = NewPasswordHasher(DefaultPasswordCost)
	}
	return &UserRepository{
		Base:   newBase[domain.User](db, q, usersTable, logger),
		hasher: hasher,
	}
}

// FindByEmail retrieves a user by exact email, or nil when absent
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return r.findOne(ctx, "find_by_email", "email = ?", email)
}

// FindByRole lists users holding role, ordered by email
func (r *UserRepository) FindByRole(ctx context.Context, role domain.Role) (users []domain.User, err error) {
	defer func(start time.Time) { r.observe("find_by_role", start, err) }(time.Now())

	users, err = list[domain.User](ctx, r.q,
		"SELECT "+usersTable.selectList("")+" FROM users WHERE role = ? ORDER BY email", string(role))
	if err != nil {
		return nil, fmt.Errorf("failed to list users by role: %w", err)
	}
	return users, nil
}

// CreateUser stores a new user with a hashed password. Role defaults to AUTHOR.
func (r *UserRepository) CreateUser(ctx context.Context, input domain.CreateUserInput) (*domain.User, error) {
	if err := validate(input); err != nil {
		return nil, err
	}
	role := input.Role
	if role == "" {
		role = domain.RoleAuthor
	}
	hash, err := r.hasher.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	return r.Create(ctx, Values{
		"email":    input.Email,
		"name":     input.Name,
		"password": hash,
		"role":     string(role),
	})
}

// UpdateUser applies the set fields of input, re-hashing a new password
func (r *UserRepository) UpdateUser(ctx context.Context, id uuid.UUID, input domain.UpdateUserInput) (*domain.User, error) {
	if err := validate(input); err != nil {
		return nil, err
	}

	values := Values{}
	if input.Email != nil {
		values["email"] = *input.Email
	}
	if input.Name != nil {
		values["name"] = *input.Name
	}
	if input.Role != nil {
		values["role"] = string(*input.Role)
	}
	if input.Password != nil {
		hash, err := r.hasher.Hash(*input.Password)
		if err != nil {
			return nil, err
		}
		values["password"] = hash
	}

	return r.Update(ctx, id, values)
}

// VerifyPassword returns the user when password matches the stored hash.
// Unknown emails and wrong passwords both yield nil with no error.
func (r *UserRepository) VerifyPassword(ctx context.Context, email, password string) (*domain.User, error) {
	user, err := r.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		r.hasher.CompareDummy(password)
		return nil, nil
	}

	ok, err := r.hasher.Compare(user.Password, password)
	if err != nil {
		r.logger.Warn("stored password hash is unusable", zap.String("id", user.ID.String()), zap.Error(err))
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	return user, nil
}
