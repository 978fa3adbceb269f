package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type slugInput struct {
	Name string `validate:"required,max=10"`
	Slug string `validate:"required,slug"`
}

func TestIsSlug(t *testing.T) {
	tests := []struct {
		slug string
		want bool
	}{
		{"react", true},
		{"nextjs", true},
		{"getting-started-with-reactpress", true},
		{"v2-release", true},
		{"", false},
		{"React", false},
		{"-leading", false},
		{"trailing-", false},
		{"double--hyphen", false},
		{"with space", false},
		{"under_score", false},
	}

	for _, tt := range tests {
		t.Run(tt.slug, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSlug(tt.slug))
		})
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid input", func(t *testing.T) {
		assert.NoError(t, Validate(slugInput{Name: "React", Slug: "react"}))
	})

	t.Run("invalid slug", func(t *testing.T) {
		err := Validate(slugInput{Name: "React", Slug: "Not A Slug"})
		require.Error(t, err)
		require.True(t, IsValidationError(err))

		errs := err.(ValidationErrors)
		require.Len(t, errs, 1)
		assert.Equal(t, "slug", errs[0].Field)
		assert.Contains(t, errs[0].Message, "lowercase")
	})

	t.Run("multiple failures", func(t *testing.T) {
		err := Validate(slugInput{Name: "far too long a name"})
		require.Error(t, err)

		errs := err.(ValidationErrors)
		assert.Len(t, errs, 2)
		assert.Contains(t, err.Error(), "name: must be at most 10 characters")
		assert.Contains(t, err.Error(), "slug: is required")
	})
}
