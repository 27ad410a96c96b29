package errors

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yukikurage/workspace-api/internal/services"
)

// Error codes
const (
	// Authentication errors
	ErrCodeUnauthorized       = "UNAUTHORIZED"
	ErrCodeInvalidCredentials = "INVALID_CREDENTIALS"

	// Authorization errors
	ErrCodeForbidden = "FORBIDDEN"

	// Validation errors
	ErrCodeInvalidInput = "INVALID_INPUT"
	ErrCodeMissingField = "MISSING_FIELD"

	// Resource errors
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeWorkspaceNotFound = "WORKSPACE_NOT_FOUND"
	ErrCodeAlreadyExists     = "ALREADY_EXISTS"
	ErrCodeConflict          = "CONFLICT"

	// Tenancy errors
	ErrCodeCrossTenant       = "CROSS_TENANT_REFERENCE"
	ErrCodeReferenceNotFound = "REFERENCE_NOT_FOUND"
	ErrCodeInvalidTarget     = "INVALID_TARGET"

	// Business logic errors
	ErrCodeInvalidOperation = "INVALID_OPERATION"
	ErrCodePayloadTooLarge  = "PAYLOAD_TOO_LARGE"

	// Service errors
	ErrCodeInternalError = "INTERNAL_ERROR"
	ErrCodeStorageError  = "STORAGE_ERROR"
)

// APIError represents a standardized API error response
type APIError struct {
	Code    string      `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// NewAPIError creates a new APIError
func NewAPIError(code, message string) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
	}
}

// NewAPIErrorWithDetails creates a new APIError with details
func NewAPIErrorWithDetails(code, message string, details interface{}) *APIError {
	return &APIError{
		Code:    code,
		Message: message,
		Details: details,
	}
}

// RespondWithError sends an error response
func RespondWithError(c *gin.Context, statusCode int, err *APIError) {
	c.JSON(statusCode, err)
}

type domainMapping struct {
	err    error
	status int
	code   string
}

// Ordered from most to least specific; the first match wins.
var domainMappings = []domainMapping{
	{services.ErrTenantNotFound, http.StatusNotFound, ErrCodeWorkspaceNotFound},
	{services.ErrNotFound, http.StatusNotFound, ErrCodeNotFound},
	{services.ErrUserNotFound, http.StatusNotFound, ErrCodeNotFound},

	{services.ErrCrossTenantReference, http.StatusBadRequest, ErrCodeCrossTenant},
	{services.ErrReferenceNotFound, http.StatusBadRequest, ErrCodeReferenceNotFound},
	{services.ErrParentMismatch, http.StatusBadRequest, ErrCodeInvalidTarget},
	{services.ErrInvalidReactionTarget, http.StatusBadRequest, ErrCodeInvalidTarget},
	{services.ErrInvalidMediaTarget, http.StatusBadRequest, ErrCodeInvalidTarget},

	{services.ErrInvalidSlug, http.StatusBadRequest, ErrCodeInvalidInput},
	{services.ErrInvalidWorkspaceSlug, http.StatusBadRequest, ErrCodeInvalidInput},
	{services.ErrInvalidEmail, http.StatusBadRequest, ErrCodeInvalidInput},
	{services.ErrPasswordTooShort, http.StatusBadRequest, ErrCodeInvalidInput},
	{services.ErrReactionTypeTooLong, http.StatusBadRequest, ErrCodeInvalidInput},
	{services.ErrTitleRequired, http.StatusBadRequest, ErrCodeMissingField},
	{services.ErrBodyRequired, http.StatusBadRequest, ErrCodeMissingField},
	{services.ErrReactionTypeRequired, http.StatusBadRequest, ErrCodeMissingField},
	{services.ErrFileRequired, http.StatusBadRequest, ErrCodeMissingField},
	{services.ErrFileTooLarge, http.StatusRequestEntityTooLarge, ErrCodePayloadTooLarge},

	{services.ErrInvalidCredentials, http.StatusUnauthorized, ErrCodeInvalidCredentials},
	{services.ErrAuthenticationNeeded, http.StatusUnauthorized, ErrCodeUnauthorized},
	{services.ErrRegistrationClosed, http.StatusForbidden, ErrCodeForbidden},
	{services.ErrInvalidJoinCode, http.StatusForbidden, ErrCodeForbidden},

	{services.ErrDuplicateReaction, http.StatusConflict, ErrCodeAlreadyExists},
	{services.ErrEmailTaken, http.StatusConflict, ErrCodeAlreadyExists},
	{services.ErrWorkspaceSlugTaken, http.StatusConflict, ErrCodeAlreadyExists},
	{services.ErrSlugTaken, http.StatusConflict, ErrCodeAlreadyExists},
	{services.ErrSlugConflict, http.StatusConflict, ErrCodeConflict},

	{services.ErrImmutable, http.StatusMethodNotAllowed, ErrCodeInvalidOperation},

	{services.ErrStorageFailure, http.StatusInternalServerError, ErrCodeStorageError},
	{services.ErrNoActiveTenant, http.StatusInternalServerError, ErrCodeInternalError},
}

// FromDomainError maps a service error to a status code and response body.
// Unknown errors become a 500 that does not leak the underlying message.
func FromDomainError(err error) (int, *APIError) {
	for _, m := range domainMappings {
		if !stderrors.Is(err, m.err) {
			continue
		}
		if m.status >= http.StatusInternalServerError {
			return m.status, NewAPIError(m.code, m.err.Error())
		}

		var linkErr *services.LinkError
		if stderrors.As(err, &linkErr) {
			return m.status, NewAPIErrorWithDetails(m.code, linkErr.Err.Error(), gin.H{"field": linkErr.Field})
		}
		return m.status, NewAPIError(m.code, m.err.Error())
	}
	return http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, "Internal server error")
}

// RespondWithDomainError writes the response FromDomainError selects for err
// and records err on the context for the request logger.
func RespondWithDomainError(c *gin.Context, err error) {
	_ = c.Error(err)
	status, apiErr := FromDomainError(err)
	RespondWithError(c, status, apiErr)
}

// Helper functions for common error responses

// Unauthorized sends a 401 response
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "Authentication required"
	}
	RespondWithError(c, http.StatusUnauthorized, NewAPIError(ErrCodeUnauthorized, message))
}

// Forbidden sends a 403 response
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "Access denied"
	}
	RespondWithError(c, http.StatusForbidden, NewAPIError(ErrCodeForbidden, message))
}

// NotFound sends a 404 response
func NotFound(c *gin.Context, message string) {
	if message == "" {
		message = "Resource not found"
	}
	RespondWithError(c, http.StatusNotFound, NewAPIError(ErrCodeNotFound, message))
}

// BadRequest sends a 400 response
func BadRequest(c *gin.Context, message string) {
	if message == "" {
		message = "Invalid request"
	}
	RespondWithError(c, http.StatusBadRequest, NewAPIError(ErrCodeInvalidInput, message))
}

// InternalError sends a 500 response
func InternalError(c *gin.Context, message string) {
	if message == "" {
		message = "Internal server error"
	}
	RespondWithError(c, http.StatusInternalServerError, NewAPIError(ErrCodeInternalError, message))
}
