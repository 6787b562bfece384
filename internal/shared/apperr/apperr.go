// Package apperr defines the error kinds shared by every domain and their
// mapping onto HTTP status codes.
package apperr

import (
	"errors"
	"net/http"
	"sort"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindConflict
	KindNotFound
	KindForbidden
	KindUnauthorized
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindForbidden:
		return "forbidden"
	case KindUnauthorized:
		return "unauthorized"
	default:
		return "internal"
	}
}

// Error is a classified application error. Two errors match under errors.Is
// when their codes are equal, so sentinels stay comparable after WithErr.
type Error struct {
	Kind    Kind
	Code    string
	Field   string
	Message string
	Details map[string]string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// WithErr returns a copy of e wrapping cause.
func (e *Error) WithErr(cause error) *Error {
	cp := *e
	cp.Err = cause
	return &cp
}

// WithDetails returns a copy of e carrying field-level details.
func (e *Error) WithDetails(details map[string]string) *Error {
	cp := *e
	cp.Details = details
	return &cp
}

func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Field builds a validation error scoped to one payload field.
func Field(code, field, message string) *Error {
	return &Error{
		Kind:    KindValidation,
		Code:    code,
		Field:   field,
		Message: message,
		Details: map[string]string{field: message},
	}
}

// ConflictField builds a uniqueness error scoped to one payload field.
func ConflictField(code, field, message string) *Error {
	e := Field(code, field, message)
	e.Kind = KindConflict
	return e
}

var (
	ErrValidation   = New(KindValidation, "VALIDATION_ERROR", "Invalid request payload")
	ErrUnauthorized = New(KindUnauthorized, "UNAUTHORIZED", "Authentication credentials were not provided or are invalid")
	ErrInternal     = New(KindInternal, "INTERNAL_ERROR", "Internal server error")
)

// FromValidation converts an ozzo-validation result into a Validation error.
// Non-validation errors (rule internals) are returned as Internal.
func FromValidation(err error) error {
	if err == nil {
		return nil
	}

	var verrs validation.Errors
	if !errors.As(err, &verrs) {
		var internal validation.InternalError
		if errors.As(err, &internal) {
			return ErrInternal.WithErr(err)
		}
		return ErrValidation.WithErr(err)
	}

	details := make(map[string]string, len(verrs))
	fields := make([]string, 0, len(verrs))
	for field, ferr := range verrs {
		if ferr == nil {
			continue
		}
		details[field] = ferr.Error()
		fields = append(fields, field)
	}
	sort.Strings(fields)

	out := ErrValidation.WithDetails(details)
	if len(fields) > 0 {
		out.Field = fields[0]
		out.Message = fields[0] + ": " + details[fields[0]]
	}
	out.Err = err
	return out
}

// KindOf reports the kind of err, KindInternal when unclassified.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindInternal
}

// HTTPStatus maps an error onto its response status.
func HTTPStatus(err error) int {
	switch KindOf(err) {
	case KindValidation, KindConflict:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindForbidden:
		return http.StatusForbidden
	case KindUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}
