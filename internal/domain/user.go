package domain

import (
	"time"

	"github.com/google/uuid"
)

// User represents an account that can author posts and pages
type User struct {
	ID        uuid.UUID `json:"id" db:"id"`
	Email     string    `json:"email" db:"email"`
	Name      string    `json:"name" db:"name"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never plaintext
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// AuthorSummary is the projection of a User attached to posts and pages
type AuthorSummary struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email,omitempty"`
}

// CreateUserInput represents input for creating a user
type CreateUserInput struct {
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required,max=255"`
	Password string `json:"password" validate:"required,max=72"`
	Role     Role   `json:"role,omitempty" validate:"omitempty,oneof=ADMIN EDITOR AUTHOR"`
}

// UpdateUserInput represents input for updating a user
type UpdateUserInput struct {
	Email    *string `json:"email,omitempty" validate:"omitempty,email"`
	Name     *string `json:"name,omitempty" validate:"omitempty,max=255"`
	Password *string `json:"password,omitempty" validate:"omitnil,min=1,max=72"`
	Role     *Role   `json:"role,omitempty" validate:"omitempty,oneof=ADMIN EDITOR AUTHOR"`
}
