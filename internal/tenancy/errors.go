package tenancy

import "errors"

var (
	// ErrTenantNotFound is returned when a workspace slug matches no workspace.
	ErrTenantNotFound = errors.New("workspace not found")
	// ErrNoActiveTenant is returned when a tenant-scoped write runs without an
	// active workspace. It signals a programming error rather than bad input.
	ErrNoActiveTenant = errors.New("no active workspace")
)
