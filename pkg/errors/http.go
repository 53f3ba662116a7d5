package errors

import (
	"errors"
)

// GenericErrorMessage is the only text that crosses the API boundary for server-side faults.
const GenericErrorMessage = "Something went wrong. Please try again later."

func HTTPStatusCode(err error) int {
	if err == nil {
		return StatusInternalServerError
	}

	errorType := GetErrorType(err)

	switch errorType {
	case ErrorTypeNotFound:
		return StatusNotFound
	case ErrorTypeInvalidRequest:
		return StatusBadRequest
	case ErrorTypeUnauthorized:
		return StatusUnauthorized
	case ErrorTypeForbidden:
		return StatusForbidden
	default:
		return StatusInternalServerError
	}
}

func GetHumanReadableMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}

	// SECURITY: avoid leaking internal error strings (DB errors, stack messages, etc.)
	return "An unexpected error occurred"
}

// PublicMessage is GetHumanReadableMessage for client errors and GenericErrorMessage for anything mapped to 5xx.
func PublicMessage(err error) string {
	if HTTPStatusCode(err) >= StatusInternalServerError {
		return GenericErrorMessage
	}

	return GetHumanReadableMessage(err)
}
