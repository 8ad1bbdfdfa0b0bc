package models

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried by AppError. Handlers translate them to HTTP statuses.
const (
	CodeNotFound            = "NOT_FOUND"
	CodeOwnershipMismatch   = "OWNERSHIP_MISMATCH"
	CodeAccessDenied        = "ACCESS_DENIED"
	CodeContentBlocked      = "CONTENT_BLOCKED"
	CodeUpstreamUnavailable = "UPSTREAM_UNAVAILABLE"
	CodeValidation          = "VALIDATION_ERROR"
	CodeInternal            = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
	// EntityID identifies blocked content so the caller can resubmit an edit.
	EntityID uint `json:"entity_id,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code     string
	Message  string
	EntityID uint
	Err      error
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

// Predefined error constructors

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

// NewOwnershipMismatchError reports that a resource exists but does not
// belong to the path-implied owner. Kept distinct from NOT_FOUND so callers
// can choose to mask or disclose the mismatch.
func NewOwnershipMismatchError(resource string, id interface{}, ownerID uint) *AppError {
	return &AppError{
		Code:    CodeOwnershipMismatch,
		Message: fmt.Sprintf("%s with ID %v does not belong to user %d", resource, id, ownerID),
	}
}

func NewAccessDeniedError(message string) *AppError {
	return &AppError{
		Code:    CodeAccessDenied,
		Message: message,
	}
}

// NewContentBlockedError reports that the entity's current content failed
// moderation. It carries the entity's identity so the caller can unblock the
// content by submitting an edit.
func NewContentBlockedError(resource string, id uint) *AppError {
	return &AppError{
		Code:     CodeContentBlocked,
		Message:  fmt.Sprintf("%s with ID %d is blocked due to inappropriate content; update the content to unblock it", resource, id),
		EntityID: id,
	}
}

// NewUpstreamError wraps a failed call to the moderation/generation service.
func NewUpstreamError(operation string, err error) *AppError {
	return &AppError{
		Code:    CodeUpstreamUnavailable,
		Message: fmt.Sprintf("upstream %s call failed", operation),
		Err:     err,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	if appErr, ok := err.(*AppError); ok {
		response = ErrorResponse{
			Error:    appErr.Message,
			Code:     appErr.Code,
			EntityID: appErr.EntityID,
		}
		if appErr.Err != nil {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}
