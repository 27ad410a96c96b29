package handlers

import (
	"net/http"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"

	"github.com/yukikurage/workspace-api/internal/auth"
	"github.com/yukikurage/workspace-api/internal/constants"
	"github.com/yukikurage/workspace-api/internal/dto"
	apierrors "github.com/yukikurage/workspace-api/internal/errors"
	"github.com/yukikurage/workspace-api/internal/middleware"
	"github.com/yukikurage/workspace-api/internal/services"
)

// AuthHandler coordinates authentication-related HTTP handlers.
type AuthHandler struct {
	authService      *services.AuthService
	workspaceService *services.WorkspaceService
	tokens           *auth.TokenManager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService *services.AuthService, workspaceService *services.WorkspaceService, tokens *auth.TokenManager) *AuthHandler {
	return &AuthHandler{
		authService:      authService,
		workspaceService: workspaceService,
		tokens:           tokens,
	}
}

// Register creates a member of the workspace in the path.
func (h *AuthHandler) Register(c *gin.Context) {
	type RegisterRequest struct {
		Email       string `json:"email" binding:"required"`
		DisplayName string `json:"display_name" binding:"max=255"`
		Password    string `json:"password" binding:"required"`
		JoinCode    string `json:"join_code"`
	}

	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.workspaceService.Register(c.Request.Context(), services.RegisterInput{
		Email:       req.Email,
		DisplayName: req.DisplayName,
		Password:    req.Password,
		JoinCode:    req.JoinCode,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, dto.ToUserDTO(*user))
}

// Login authenticates a user, initializes the session and issues a bearer
// token bound to the user's workspace.
func (h *AuthHandler) Login(c *gin.Context) {
	type LoginRequest struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		apierrors.BadRequest(c, "Invalid request body")
		return
	}

	user, err := h.authService.Login(c.Request.Context(), services.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}

	token, err := h.tokens.GenerateToken(user.ID, user.WorkspaceID)
	if err != nil {
		apierrors.InternalError(c, "Failed to issue token")
		return
	}

	session := sessions.Default(c)
	session.Set(constants.ContextKeyUserID, user.ID)
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to save session")
		return
	}

	c.JSON(http.StatusOK, dto.LoginResponse{
		User:      dto.ToUserDTO(*user),
		Workspace: dto.ToWorkspaceRefDTO(user.Workspace),
		Token:     token,
		ExpiresAt: time.Now().Add(h.tokens.TTL()),
	})
}

// Logout removes the authentication session.
func (h *AuthHandler) Logout(c *gin.Context) {
	session := sessions.Default(c)
	session.Clear()
	session.Options(sessions.Options{Path: "/", MaxAge: -1})
	if err := session.Save(); err != nil {
		apierrors.InternalError(c, "Failed to logout")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Logged out successfully",
	})
}

// GetCurrentUser returns the authenticated user with the workspace of the
// request.
func (h *AuthHandler) GetCurrentUser(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		apierrors.Unauthorized(c, "Not authenticated")
		return
	}
	ws, ok := middleware.CurrentWorkspace(c)
	if !ok {
		apierrors.RespondWithDomainError(c, services.ErrNoActiveTenant)
		return
	}

	c.JSON(http.StatusOK, dto.MeResponse{
		User:      dto.ToUserDTO(*user),
		Workspace: dto.ToWorkspaceRefDTO(*ws),
	})
}

// GetWorkspace returns the public settings of the workspace in the path.
func (h *AuthHandler) GetWorkspace(c *gin.Context) {
	ws, ok := middleware.CurrentWorkspace(c)
	if !ok {
		apierrors.RespondWithDomainError(c, services.ErrNoActiveTenant)
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkspaceDTO(*ws))
}

// RotateJoinCode replaces the workspace join code and returns the new one.
func (h *AuthHandler) RotateJoinCode(c *gin.Context) {
	code, err := h.workspaceService.RotateJoinCode(c.Request.Context())
	if err != nil {
		apierrors.RespondWithDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.JoinCodeResponse{JoinCode: code})
}
