package services

import (
	"errors"

	"github.com/yukikurage/workspace-api/internal/tenancy"
)

var (
	// ErrTenantNotFound and ErrNoActiveTenant come from the tenancy layer and
	// are re-exported so handlers only match against services errors.
	ErrTenantNotFound = tenancy.ErrTenantNotFound
	ErrNoActiveTenant = tenancy.ErrNoActiveTenant

	ErrNotFound              = errors.New("resource not found")
	ErrReferenceNotFound     = errors.New("referenced resource does not exist")
	ErrCrossTenantReference  = errors.New("referenced resource belongs to another workspace")
	ErrInvalidReactionTarget = errors.New("a reaction must target exactly one of a publication or a comment")
	ErrInvalidMediaTarget    = errors.New("media can be attached to a publication or a comment, not both")
	ErrParentMismatch        = errors.New("parent comment belongs to another publication")
	ErrDuplicateReaction     = errors.New("reaction already exists")
	ErrSlugConflict          = errors.New("slug is already taken, retry the request")
	ErrSlugTaken             = errors.New("slug is already used in this workspace")
	ErrInvalidSlug           = errors.New("slug must not contain slashes or control characters")
	ErrStorageFailure        = errors.New("failed to store file")
	ErrAuthenticationNeeded  = errors.New("an authenticated user is required")
	ErrImmutable             = errors.New("resource cannot be modified")

	ErrTitleRequired        = errors.New("title is required")
	ErrBodyRequired         = errors.New("body is required")
	ErrReactionTypeRequired = errors.New("reaction type is required")
	ErrReactionTypeTooLong  = errors.New("reaction type is too long")
	ErrFileRequired         = errors.New("file is required")
	ErrFileTooLarge         = errors.New("file is too large")
)

// LinkError names the reference that failed validation.
type LinkError struct {
	Field string
	Err   error
}

func (e *LinkError) Error() string {
	return e.Field + ": " + e.Err.Error()
}

func (e *LinkError) Unwrap() error {
	return e.Err
}

func linkError(field string, err error) error {
	return &LinkError{Field: field, Err: err}
}
