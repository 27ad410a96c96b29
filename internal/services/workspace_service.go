package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/auth"
	"github.com/yukikurage/workspace-api/internal/constants"
	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/repository"
	"github.com/yukikurage/workspace-api/internal/tenancy"
	"github.com/yukikurage/workspace-api/internal/utils"
)

var (
	ErrInvalidWorkspaceSlug = errors.New("workspace slug must be lowercase letters, digits and dashes, at most 50 characters")
	ErrWorkspaceSlugTaken   = errors.New("workspace slug already exists")
	ErrEmailTaken           = errors.New("email already registered")
	ErrInvalidEmail         = errors.New("invalid email address")
	ErrPasswordTooShort     = errors.New("password too short")
	ErrRegistrationClosed   = errors.New("workspace does not accept new members without a join code")
	ErrInvalidJoinCode      = errors.New("invalid join code")
)

// SlugInvalidator drops a cached workspace after it changes.
type SlugInvalidator interface {
	Invalidate(ctx context.Context, slug string)
}

// WorkspaceService provisions workspaces and admits their members.
type WorkspaceService struct {
	workspaceRepo repository.WorkspaceRepository
	userRepo      repository.UserRepository
	invalidator   SlugInvalidator
}

// NewWorkspaceService creates a new WorkspaceService. invalidator may be nil
// when workspaces are not cached.
func NewWorkspaceService(workspaceRepo repository.WorkspaceRepository, userRepo repository.UserRepository, invalidator SlugInvalidator) *WorkspaceService {
	return &WorkspaceService{
		workspaceRepo: workspaceRepo,
		userRepo:      userRepo,
		invalidator:   invalidator,
	}
}

// ProvisionInput describes a new workspace.
type ProvisionInput struct {
	Slug            string
	Name            string
	AllowSelfSignup bool
}

// Provision creates a workspace with a fresh join code. The plain join code is
// returned once; only its hash is stored.
func (s *WorkspaceService) Provision(ctx context.Context, input ProvisionInput) (*models.Workspace, string, error) {
	slug := strings.TrimSpace(input.Slug)
	if slug == "" || len(slug) > constants.MaxWorkspaceSlugLen || !ValidSlug(slug) {
		return nil, "", ErrInvalidWorkspaceSlug
	}
	if _, reserved := constants.ReservedWorkspaceSlugs[slug]; reserved {
		return nil, "", ErrInvalidWorkspaceSlug
	}

	code, hash, err := newJoinCode()
	if err != nil {
		return nil, "", err
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = slug
	}
	ws := &models.Workspace{
		Slug:            slug,
		Name:            name,
		AllowSelfSignup: input.AllowSelfSignup,
		JoinCodeHash:    &hash,
	}
	if err := s.workspaceRepo.Create(ctx, ws); err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, "", ErrWorkspaceSlugTaken
		}
		return nil, "", fmt.Errorf("failed to create workspace: %w", err)
	}

	return ws, code, nil
}

// GetBySlug returns a workspace by slug.
func (s *WorkspaceService) GetBySlug(ctx context.Context, slug string) (*models.Workspace, error) {
	ws, err := s.workspaceRepo.FindBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to find workspace: %w", err)
	}
	return ws, nil
}

// RotateJoinCode replaces the active workspace's join code and returns the new
// plain code.
func (s *WorkspaceService) RotateJoinCode(ctx context.Context) (string, error) {
	ws, ok := tenancy.FromContext(ctx)
	if !ok {
		return "", ErrNoActiveTenant
	}

	code, hash, err := newJoinCode()
	if err != nil {
		return "", err
	}
	if err := s.workspaceRepo.UpdateJoinCode(ctx, ws.ID, &hash); err != nil {
		return "", notFound(err, "workspace")
	}
	s.invalidate(ctx, ws.Slug)

	return code, nil
}

// DeleteWorkspace removes a workspace and everything it owns.
func (s *WorkspaceService) DeleteWorkspace(ctx context.Context, slug string) error {
	ws, err := s.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	if err := s.workspaceRepo.Delete(ctx, ws.ID); err != nil {
		return notFound(err, "workspace")
	}
	s.invalidate(ctx, ws.Slug)
	return nil
}

// RegisterInput represents the information needed to join a workspace.
type RegisterInput struct {
	Email       string
	DisplayName string
	Password    string
	JoinCode    string
}

// Register creates a user in the active workspace. The workspace must allow
// self signup or the join code must match.
func (s *WorkspaceService) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	ws, ok := tenancy.FromContext(ctx)
	if !ok {
		return nil, ErrNoActiveTenant
	}

	email := normalizeEmail(input.Email)
	if addr, err := mail.ParseAddress(email); err != nil || addr.Address != email {
		return nil, ErrInvalidEmail
	}
	if len(input.Password) < constants.MinPasswordLength {
		return nil, ErrPasswordTooShort
	}
	// The resolved workspace may come from a cache that holds no join code.
	current, err := s.workspaceRepo.FindByID(ctx, ws.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTenantNotFound
		}
		return nil, fmt.Errorf("failed to load workspace: %w", err)
	}
	if err := admit(current, input.JoinCode); err != nil {
		return nil, err
	}

	if _, err := s.userRepo.FindByEmail(ctx, email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := auth.HashSecret(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	displayName := strings.TrimSpace(input.DisplayName)
	if displayName == "" {
		displayName = email[:strings.IndexByte(email, '@')]
	}
	user := &models.User{
		WorkspaceID:  ws.ID,
		Email:        email,
		DisplayName:  displayName,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if database.IsDuplicateKeyError(err) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func admit(ws *models.Workspace, joinCode string) error {
	joinCode = utils.NormalizeJoinCode(joinCode)
	if joinCode == "" {
		if ws.AllowSelfSignup {
			return nil
		}
		return ErrRegistrationClosed
	}
	if ws.JoinCodeHash == nil || !auth.CompareSecret(*ws.JoinCodeHash, joinCode) {
		return ErrInvalidJoinCode
	}
	return nil
}

func newJoinCode() (string, string, error) {
	code, err := utils.GenerateJoinCode()
	if err != nil {
		return "", "", fmt.Errorf("failed to generate join code: %w", err)
	}
	hash, err := auth.HashSecret(code)
	if err != nil {
		return "", "", fmt.Errorf("failed to hash join code: %w", err)
	}
	return code, hash, nil
}

func (s *WorkspaceService) invalidate(ctx context.Context, slug string) {
	if s.invalidator != nil {
		s.invalidator.Invalidate(ctx, slug)
	}
}
