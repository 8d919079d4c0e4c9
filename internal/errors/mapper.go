package errors

import (
	"errors"
	"net/http"

	"gorm.io/gorm"
)

// Map converts repo/infra errors into domain errors.
// Keeps service layer clean by centralizing error mapping.
func Map(err error) error {
	if err == nil {
		return nil
	}

	var e *Error
	if errors.As(err, &e) {
		return err // already classified
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return &Error{Kind: KindNotFound, Msg: "record not found", Err: err}

	case errors.Is(err, gorm.ErrDuplicatedKey):
		return &Error{Kind: KindAlreadyExists, Msg: "record already exists", Err: err}

	default:
		return Storage(err)
	}
}

// HTTPStatus maps a domain error to an HTTP status code.
// The transport layer calls this 1:1; no retries are implied by any code.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindInvalidArgument, KindPrerequisiteMissing:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	case KindAlreadyExists:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
