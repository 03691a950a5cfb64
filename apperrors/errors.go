package apperrors

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// ErrorCode identifies a class of failure that callers branch on.
type ErrorCode string

const (
	CodeNoAvailability      ErrorCode = "NO_AVAILABILITY"
	CodeNotFound            ErrorCode = "NOT_FOUND"
	CodeDuplicateRoomNumber ErrorCode = "DUPLICATE_ROOM_NUMBER"
	CodeRoomInUse           ErrorCode = "ROOM_IN_USE"
	CodeValidation          ErrorCode = "VALIDATION_ERROR"
	CodeStorage             ErrorCode = "STORAGE_FAILURE"

	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUserExists         ErrorCode = "USER_EXISTS"
)

// AppError is the error type returned by services. Err keeps the
// underlying cause for logs; it is never rendered to clients.
type AppError struct {
	Code    ErrorCode
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is matches on code so that errors.Is(err, ErrNoAvailability) holds for
// any AppError carrying the same code.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func New(code ErrorCode, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// Sentinels for errors.Is comparisons.
var (
	ErrNoAvailability      = New(CodeNoAvailability, "no available rooms of the selected type", nil)
	ErrNotFound            = New(CodeNotFound, "not found", nil)
	ErrDuplicateRoomNumber = New(CodeDuplicateRoomNumber, "room number already exists", nil)
	ErrRoomInUse           = New(CodeRoomInUse, "room is referenced by a booking", nil)
	ErrValidation          = New(CodeValidation, "validation failed", nil)
	ErrStorage             = New(CodeStorage, "storage failure", nil)
	ErrUnauthorized        = New(CodeUnauthorized, "authentication required", nil)
	ErrForbidden           = New(CodeForbidden, "access denied", nil)
	ErrInvalidCredentials  = New(CodeInvalidCredentials, "incorrect username or password", nil)
	ErrUserExists          = New(CodeUserExists, "username already registered", nil)
)

func NotFound(what string) *AppError {
	return New(CodeNotFound, what+" not found", nil)
}

func NoAvailability(roomType string) *AppError {
	return New(CodeNoAvailability, fmt.Sprintf("no available rooms of type %q", roomType), nil)
}

func DuplicateRoomNumber(number string, err error) *AppError {
	return New(CodeDuplicateRoomNumber, fmt.Sprintf("room number %q already exists", number), err)
}

// Storage wraps a storage-layer failure. op names the failed operation
// and ends up in logs only.
func Storage(op string, err error) *AppError {
	return New(CodeStorage, op, err)
}

// Validation builds a validation error from per-field messages.
func Validation(fields map[string]string) *AppError {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fields[k])
	}
	return &AppError{
		Code:    CodeValidation,
		Message: strings.Join(parts, " "),
		Fields:  fields,
	}
}

// As returns the AppError in err's chain, if any.
func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// HTTPStatus maps an error code to the response status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case CodeValidation:
		return http.StatusBadRequest
	case CodeNotFound:
		return http.StatusNotFound
	case CodeNoAvailability, CodeDuplicateRoomNumber, CodeRoomInUse, CodeUserExists:
		return http.StatusConflict
	case CodeUnauthorized, CodeInvalidCredentials:
		return http.StatusUnauthorized
	case CodeForbidden:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the text safe to show a client. Storage failures
// collapse to a generic message.
func PublicMessage(e *AppError) string {
	if e.Code == CodeStorage {
		return "internal server error"
	}
	return e.Message
}
