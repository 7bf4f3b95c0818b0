// Package errors defines the application error taxonomy and its HTTP mapping.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"

	"github.com/weiwangfds/collegenotes/internal/i18n"
)

// Kind classifies an application error
type Kind string

// Error kinds
const (
	KindValidation Kind = "ValidationError"
	KindNotFound   Kind = "NotFoundError"
	KindUpload     Kind = "UploadError"
	KindUnhandled  Kind = "UnhandledError"
)

var kindStatus = map[Kind]int{
	KindValidation: http.StatusBadRequest,
	KindNotFound:   http.StatusNotFound,
	KindUpload:     http.StatusInternalServerError,
	KindUnhandled:  http.StatusInternalServerError,
}

// AppError application error
// @Description unified application error
type AppError struct {
	// Kind error class
	Kind Kind `json:"kind"`
	// Key i18n message key
	Key string `json:"-"`
	// Message default (en-US) message
	Message string `json:"message"`
	// Details extra information, e.g. the missing fields
	Details string `json:"details,omitempty"`
	// Fields offending input fields of a validation error
	Fields []string `json:"fields,omitempty"`
	// Err wrapped cause
	Err error `json:"-"`
}

// Error implements error
func (e *AppError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Details != "" {
		msg += ": " + e.Details
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	return msg
}

// Unwrap returns the cause
func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches any AppError of the same kind and key, so sentinel values work with errors.Is
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Kind == t.Kind && (t.Key == "" || e.Key == t.Key)
}

// HTTPStatus maps the kind to a status code
func (e *AppError) HTTPStatus() int {
	if status, ok := kindStatus[e.Kind]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// Status is the "fail"/"error" marker of the JSON error body
func (e *AppError) Status() string {
	if e.HTTPStatus() < http.StatusInternalServerError {
		return "fail"
	}
	return "error"
}

// LocalizedMessage translates the message for lang
func (e *AppError) LocalizedMessage(lang string) string {
	if e.Key == "" {
		return e.Message
	}
	return i18n.GetInstance().Translate(e.Key, lang)
}

// WithDetails sets Details on a copy of e
func (e *AppError) WithDetails(details string) *AppError {
	c := *e
	c.Details = details
	return &c
}

// WithError sets the cause on a copy of e
func (e *AppError) WithError(err error) *AppError {
	c := *e
	c.Err = err
	return &c
}

// New creates an error of the given kind with an i18n key
func New(kind Kind, key string) *AppError {
	return &AppError{
		Kind:    kind,
		Key:     key,
		Message: i18n.GetInstance().Translate(key, i18n.LangEnUS),
	}
}

// Validation creates a ValidationError for the given fields
func Validation(details string, fields ...string) *AppError {
	e := New(KindValidation, "validation_failed")
	e.Details = details
	e.Fields = fields
	return e
}

// NotFound creates a NotFoundError
func NotFound(key string) *AppError {
	return New(KindNotFound, key)
}

// Upload wraps an object store or filesystem failure
func Upload(details string, err error) *AppError {
	e := New(KindUpload, "upload_failed")
	e.Details = details
	e.Err = err
	return e
}

// Unhandled wraps any other failure
func Unhandled(err error) *AppError {
	e := New(KindUnhandled, "internal_server_error")
	e.Err = err
	return e
}

// From converts err into an AppError, wrapping unknown errors as UnhandledError
func From(err error) *AppError {
	if err == nil {
		return nil
	}
	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}
	return Unhandled(err)
}

// IsKind reports whether err is an AppError of kind
func IsKind(err error, kind Kind) bool {
	var appErr *AppError
	return stderrors.As(err, &appErr) && appErr.Kind == kind
}

// Predefined errors
var (
	ErrNoteNotFound         = NotFound("note_not_found")
	ErrInvalidID            = New(KindValidation, "invalid_id")
	ErrFileRequired         = New(KindValidation, "file_required")
	ErrFileTooLarge         = New(KindValidation, "file_too_large")
	ErrFileTypeNotAllowed   = New(KindValidation, "file_type_not_allowed")
	ErrStorageNotConfigured = New(KindUpload, "storage_not_configured")
	ErrStorageListFailed    = New(KindUnhandled, "storage_list_failed")
	ErrRouteNotFound        = NotFound("route_not_found")
)
