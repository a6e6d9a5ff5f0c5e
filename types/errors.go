package types

import (
	"errors"

	"github.com/gofiber/fiber/v2"
)

// AppError is the closed error taxonomy the service layer returns.
// Controllers map Code straight onto the HTTP status; anything that is
// not an AppError answers 500 without leaking internals.
type AppError struct {
	Code    int
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func NewValidationError(message string) *AppError {
	return &AppError{Code: fiber.StatusBadRequest, Message: message}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: fiber.StatusUnauthorized, Message: message}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{Code: fiber.StatusForbidden, Message: message}
}

func NewNotFoundError(message string) *AppError {
	return &AppError{Code: fiber.StatusNotFound, Message: message}
}

// NewConflictError marks a state transition or redemption that lost to
// a concurrent writer or is no longer allowed.
func NewConflictError(message string) *AppError {
	return &AppError{Code: fiber.StatusConflict, Message: message}
}

// NewDependencyError wraps a failure of an external collaborator such
// as the distance matrix or push gateway.
func NewDependencyError(message string, err error) *AppError {
	return &AppError{Code: fiber.StatusBadGateway, Message: message, Err: err}
}

// HTTPStatus resolves the response status for any error.
func HTTPStatus(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return fiber.StatusInternalServerError
}

// PublicMessage resolves the client-facing message for any error.
func PublicMessage(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return "Server Error"
}
