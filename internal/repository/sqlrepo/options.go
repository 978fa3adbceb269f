package sqlrepo

import (
	"errors"

	apperrors "github.com/reactpress/reactpress/internal/pkg/errors"
	"github.com/reactpress/reactpress/internal/validator"
)

type options struct {
	passwordCost int
}

// Option configures the repositories built by NewRepositories
type Option func(*options)

// WithPasswordCost sets the bcrypt cost used for user passwords
func WithPasswordCost(cost int) Option {
	return func(o *options) {
		o.passwordCost = cost
	}
}

func defaultOptions() options {
	return options{passwordCost: DefaultPasswordCost}
}

// validate runs struct validation and converts failures to a typed error
// carrying one detail per rejected field.
func validate(input any) error {
	err := validator.Validate(input)
	if err == nil {
		return nil
	}
	appErr := apperrors.Validation(err.Error()).WithError(err)
	var fields validator.ValidationErrors
	if errors.As(err, &fields) {
		for _, f := range fields {
			appErr.WithDetail(f.Field, f.Message)
		}
	}
	return appErr
}
