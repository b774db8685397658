package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes used across the application. Each code maps to exactly one
// HTTP status so handlers never pick statuses ad hoc.
const (
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeNotFound         = "NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeDuplicateAccount = "DUPLICATE_ACCOUNT"
	CodeDuplicateFollow  = "DUPLICATE_FOLLOW"
	CodeSelfFollow       = "SELF_FOLLOW"
	CodeExternalIdentity = "EXTERNAL_IDENTITY_ERROR"
	CodeStoreUnavailable = "STORE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for this error.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case CodeValidation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodeForbidden:
		return fiber.StatusForbidden
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeConflict, CodeDuplicateAccount, CodeDuplicateFollow:
		return fiber.StatusConflict
	case CodeSelfFollow:
		return fiber.StatusBadRequest
	case CodeExternalIdentity:
		return fiber.StatusBadGateway
	case CodeStoreUnavailable:
		return fiber.StatusServiceUnavailable
	default:
		return fiber.StatusInternalServerError
	}
}

// Predefined error constructors

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

// NewDuplicateAccountError signals that a username or email is already
// registered. The message never discloses which field collided.
func NewDuplicateAccountError() *AppError {
	return &AppError{
		Code:    CodeDuplicateAccount,
		Message: "Username or email already exists",
	}
}

// NewDuplicateFollowError signals an existing edge between the pair. The
// message carries the current status so callers can render it.
func NewDuplicateFollowError(status FollowStatus) *AppError {
	return &AppError{
		Code:    CodeDuplicateFollow,
		Message: fmt.Sprintf("Follow request already %s", status),
	}
}

func NewSelfFollowError() *AppError {
	return &AppError{
		Code:    CodeSelfFollow,
		Message: "You cannot follow yourself",
	}
}

func NewExternalIdentityError(message string) *AppError {
	return &AppError{
		Code:    CodeExternalIdentity,
		Message: message,
	}
}

// NewStoreUnavailableError wraps a collaborator (database/Redis) failure.
// This is the only error kind logged as an operational incident.
func NewStoreUnavailableError(err error) *AppError {
	return &AppError{
		Code:    CodeStoreUnavailable,
		Message: "Backing store unavailable",
		Err:     err,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// AsAppError extracts an *AppError from err, wrapping unknown errors as
// internal so the boundary always has a code and status to work with.
func AsAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return NewInternalError(err)
}

// RespondWithError recovers an error into a standardized JSON response
// using the status derived from its code.
func RespondWithError(c *fiber.Ctx, err error) error {
	appErr := AsAppError(err)

	response := ErrorResponse{
		Error: appErr.Message,
		Code:  appErr.Code,
	}
	if appErr.Err != nil {
		response.Details = appErr.Err.Error()
	}

	return c.Status(appErr.HTTPStatus()).JSON(response)
}
