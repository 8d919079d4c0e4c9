package errors

import (
	"errors"
	"fmt"
)

// Kind classifies a failure independently of transport codes.
type Kind int

const (
	KindUnknown Kind = iota
	// KindInvalidArgument: caller supplied structurally or semantically invalid input.
	KindInvalidArgument
	// KindPrerequisiteMissing: a required upstream record (e.g. the survey) does not exist yet.
	KindPrerequisiteMissing
	// KindNotFound: a referenced entity is absent.
	KindNotFound
	// KindAlreadyExists: a uniqueness constraint was violated on write.
	KindAlreadyExists
	// KindUnauthorized: missing or invalid identity token.
	KindUnauthorized
	// KindStorage: the persistence or identity boundary failed unexpectedly.
	KindStorage
)

// Error is the domain error carried between service and transport layers.
type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func InvalidArgument(msg string) error {
	return &Error{Kind: KindInvalidArgument, Msg: msg}
}

func PrerequisiteMissing(msg string) error {
	return &Error{Kind: KindPrerequisiteMissing, Msg: msg}
}

func NotFound(resource string) error {
	return &Error{Kind: KindNotFound, Msg: resource + " not found"}
}

func AlreadyExists(msg string) error {
	return &Error{Kind: KindAlreadyExists, Msg: msg}
}

func Unauthorized(msg string) error {
	return &Error{Kind: KindUnauthorized, Msg: msg}
}

func Storage(err error) error {
	return &Error{Kind: KindStorage, Msg: "storage failure", Err: err}
}

// KindOf extracts the Kind from any error in the chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
