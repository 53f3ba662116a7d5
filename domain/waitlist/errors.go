package waitlist

import (
	"strings"

	apperrors "github.com/swipefolio/landing-api/pkg/errors"
)

type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError carries every failing field of a signup, in struct order.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	messages := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		messages = append(messages, f.Message)
	}
	return strings.Join(messages, "; ")
}

func NewStorageError(message string, err error) error {
	return apperrors.NewDatabaseError(message, err)
}

// IsStorageError reports whether err, or anything it wraps, came from the subscriber store.
func IsStorageError(err error) bool {
	return apperrors.GetErrorType(err) == apperrors.ErrorTypeDatabaseError
}
