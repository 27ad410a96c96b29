package dto

import (
	"time"

	"github.com/yukikurage/workspace-api/internal/models"
)

// UserDTO represents a user in API responses
type UserDTO struct {
	ID          uint64 `json:"id"`
	WorkspaceID uint64 `json:"workspace_id"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
}

// WorkspaceDTO represents a workspace in API responses
type WorkspaceDTO struct {
	ID              uint64    `json:"id"`
	Slug            string    `json:"slug"`
	Name            string    `json:"name"`
	AllowSelfSignup bool      `json:"allow_self_signup"`
	CreatedAt       time.Time `json:"created_at"`
}

// WorkspaceRefDTO identifies a workspace without its settings
type WorkspaceRefDTO struct {
	ID   uint64 `json:"id"`
	Slug string `json:"slug"`
}

// MeResponse is the current user together with the workspace of the request
type MeResponse struct {
	User      UserDTO         `json:"user"`
	Workspace WorkspaceRefDTO `json:"workspace"`
}

// LoginResponse carries the bearer token issued on login
type LoginResponse struct {
	User      UserDTO         `json:"user"`
	Workspace WorkspaceRefDTO `json:"workspace"`
	Token     string          `json:"token"`
	ExpiresAt time.Time       `json:"expires_at"`
}

// JoinCodeResponse returns a freshly generated join code. It is shown once.
type JoinCodeResponse struct {
	JoinCode string `json:"join_code"`
}

// ToUserDTO converts a User model to UserDTO
func ToUserDTO(user models.User) UserDTO {
	return UserDTO{
		ID:          user.ID,
		WorkspaceID: user.WorkspaceID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// ToWorkspaceDTO converts a Workspace model to WorkspaceDTO
func ToWorkspaceDTO(ws models.Workspace) WorkspaceDTO {
	return WorkspaceDTO{
		ID:              ws.ID,
		Slug:            ws.Slug,
		Name:            ws.Name,
		AllowSelfSignup: ws.AllowSelfSignup,
		CreatedAt:       ws.CreatedAt,
	}
}

// ToWorkspaceRefDTO converts a Workspace model to WorkspaceRefDTO
func ToWorkspaceRefDTO(ws models.Workspace) WorkspaceRefDTO {
	return WorkspaceRefDTO{ID: ws.ID, Slug: ws.Slug}
}
