package errors

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/yukikurage/workspace-api/internal/services"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		err    error
		status int
		code   string
	}{
		{services.ErrTenantNotFound, http.StatusNotFound, ErrCodeWorkspaceNotFound},
		{fmt.Errorf("load: %w", services.ErrNotFound), http.StatusNotFound, ErrCodeNotFound},
		{services.ErrInvalidReactionTarget, http.StatusBadRequest, ErrCodeInvalidTarget},
		{services.ErrInvalidMediaTarget, http.StatusBadRequest, ErrCodeInvalidTarget},
		{services.ErrDuplicateReaction, http.StatusConflict, ErrCodeAlreadyExists},
		{services.ErrSlugConflict, http.StatusConflict, ErrCodeConflict},
		{services.ErrSlugTaken, http.StatusConflict, ErrCodeAlreadyExists},
		{services.ErrNoActiveTenant, http.StatusInternalServerError, ErrCodeInternalError},
		{fmt.Errorf("%w: disk full", services.ErrStorageFailure), http.StatusInternalServerError, ErrCodeStorageError},
		{services.ErrImmutable, http.StatusMethodNotAllowed, ErrCodeInvalidOperation},
		{fmt.Errorf("driver: connection reset"), http.StatusInternalServerError, ErrCodeInternalError},
	}

	for _, tt := range tests {
		status, apiErr := FromDomainError(tt.err)
		require.Equal(t, tt.status, status, tt.err.Error())
		require.Equal(t, tt.code, apiErr.Code, tt.err.Error())
	}
}

func TestFromDomainError_LinkDetails(t *testing.T) {
	err := &services.LinkError{Field: "channel_id", Err: services.ErrCrossTenantReference}

	status, apiErr := FromDomainError(fmt.Errorf("create: %w", err))
	require.Equal(t, http.StatusBadRequest, status)
	require.Equal(t, ErrCodeCrossTenant, apiErr.Code)
	require.Equal(t, gin.H{"field": "channel_id"}, apiErr.Details)
}

func TestFromDomainError_HidesInternalMessages(t *testing.T) {
	_, apiErr := FromDomainError(fmt.Errorf("%w: s3: AccessDenied for key alpha/x", services.ErrStorageFailure))
	require.Equal(t, services.ErrStorageFailure.Error(), apiErr.Message)
}
