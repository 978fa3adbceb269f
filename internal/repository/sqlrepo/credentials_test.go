package sqlrepo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/reactpress/reactpress/internal/pkg/errors"
)

func TestNewPasswordHasherCost(t *testing.T) {
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher(0).Cost())
	assert.Equal(t, DefaultPasswordCost, NewPasswordHasher(bcrypt.MaxCost+1).Cost())
	assert.Equal(t, bcrypt.MinCost, NewPasswordHasher(bcrypt.MinCost).Cost())
}

func TestPasswordHasher(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	hash, err := h.Hash("p")
	require.NoError(t, err)
	assert.NotEqual(t, "p", hash)

	other, err := h.Hash("p")
	require.NoError(t, err)
	assert.NotEqual(t, hash, other, "hashes must be salted")

	ok, err := h.Compare(hash, "p")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Compare(hash, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = h.Compare("not-a-hash", "p")
	assert.Error(t, err)

	assert.NotPanics(t, func() { h.CompareDummy("anything") })
}

func TestPasswordHasherRejectsLongPasswords(t *testing.T) {
	h := NewPasswordHasher(bcrypt.MinCost)

	_, err := h.Hash(strings.Repeat("x", 73))
	assert.True(t, apperrors.IsValidation(err))
}
