package waitlist

import (
	"strings"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/swipefolio/landing-api/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// NormalizeEmail trims surrounding whitespace and lower-cases the address.
func NormalizeEmail(email string) string {
	// A Caser keeps state, so each call gets its own.
	return cases.Lower(language.Und).String(strings.TrimSpace(email))
}

// ValidateSignup normalizes req and checks it against the subscriber constraints.
// It returns a *ValidationError naming every failing field.
func ValidateSignup(req *SignupRequest) (*ValidatedSignup, error) {
	if req == nil {
		return nil, &ValidationError{Fields: []FieldError{{Field: "email", Message: "email is required"}}}
	}

	signup := &ValidatedSignup{
		Email:     NormalizeEmail(req.Email),
		FirstName: optionalName(req.FirstName),
		LastName:  optionalName(req.LastName),
	}

	if err := validate.Struct(signup); err != nil {
		formatted := apperrors.FormatValidationErrors(err, signup)
		if len(formatted) == 0 {
			return nil, err
		}

		fields := make([]FieldError, 0, len(formatted))
		for _, f := range formatted {
			fields = append(fields, FieldError{Field: f.Field, Message: f.Message})
		}
		return nil, &ValidationError{Fields: fields}
	}

	return signup, nil
}

func optionalName(name string) *string {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
