package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/yukikurage/workspace-api/internal/repository"
	"github.com/yukikurage/workspace-api/internal/tenancy"
	"github.com/yukikurage/workspace-api/internal/testutil"
)

type recordingInvalidator struct {
	slugs []string
}

func (r *recordingInvalidator) Invalidate(_ context.Context, slug string) {
	r.slugs = append(r.slugs, slug)
}

func newWorkspaceService(t *testing.T) (*WorkspaceService, *AuthService, *recordingInvalidator, *testFixture) {
	t.Helper()
	f := newFixture(t)
	inv := &recordingInvalidator{}
	users := repository.NewUserRepository(f.db)
	return NewWorkspaceService(repository.NewWorkspaceRepository(f.db), users, inv), NewAuthService(users), inv, f
}

func TestWorkspaceService_Provision(t *testing.T) {
	svc, _, _, _ := newWorkspaceService(t)
	ctx := context.Background()

	ws, code, err := svc.Provision(ctx, ProvisionInput{Slug: "gamma", Name: "Gamma Inc"})
	require.NoError(t, err)
	require.Equal(t, "gamma", ws.Slug)
	require.False(t, ws.AllowSelfSignup)
	require.Len(t, code, 14)
	require.NotNil(t, ws.JoinCodeHash)
	require.NotEqual(t, code, *ws.JoinCodeHash)

	_, _, err = svc.Provision(ctx, ProvisionInput{Slug: "gamma"})
	require.ErrorIs(t, err, ErrWorkspaceSlugTaken)

	for _, slug := range []string{"", "Gamma", "has space", "-lead", "auth"} {
		_, _, err = svc.Provision(ctx, ProvisionInput{Slug: slug})
		require.ErrorIs(t, err, ErrInvalidWorkspaceSlug, slug)
	}
}

func TestWorkspaceService_Register(t *testing.T) {
	svc, authSvc, _, f := newWorkspaceService(t)

	open := tenancy.WithWorkspace(context.Background(), f.wsA)
	user, err := svc.Register(open, RegisterInput{Email: " New@Alpha.test ", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, f.wsA.ID, user.WorkspaceID)
	require.Equal(t, "new@alpha.test", user.Email)
	require.Equal(t, "new", user.DisplayName)

	_, err = svc.Register(open, RegisterInput{Email: "new@alpha.test", Password: "password123"})
	require.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.Register(open, RegisterInput{Email: "short@alpha.test", Password: "x"})
	require.ErrorIs(t, err, ErrPasswordTooShort)

	_, err = svc.Register(open, RegisterInput{Email: "not-an-email", Password: "password123"})
	require.ErrorIs(t, err, ErrInvalidEmail)

	loggedIn, err := authSvc.Login(context.Background(), LoginInput{Email: "NEW@alpha.test", Password: "password123"})
	require.NoError(t, err)
	require.Equal(t, user.ID, loggedIn.ID)

	_, err = authSvc.Login(context.Background(), LoginInput{Email: "new@alpha.test", Password: "wrong-password"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestWorkspaceService_JoinCode(t *testing.T) {
	svc, _, inv, _ := newWorkspaceService(t)

	ws, code, err := svc.Provision(context.Background(), ProvisionInput{Slug: "closed"})
	require.NoError(t, err)
	ctx := tenancy.WithWorkspace(context.Background(), ws)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@closed.test", Password: "password123"})
	require.ErrorIs(t, err, ErrRegistrationClosed)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@closed.test", Password: "password123", JoinCode: "0000-0000-0000"})
	require.ErrorIs(t, err, ErrInvalidJoinCode)

	_, err = svc.Register(ctx, RegisterInput{Email: "a@closed.test", Password: "password123", JoinCode: " " + code + " "})
	require.NoError(t, err)

	rotated, err := svc.RotateJoinCode(ctx)
	require.NoError(t, err)
	require.NotEqual(t, code, rotated)
	require.Equal(t, []string{"closed"}, inv.slugs)

	// ctx still holds the workspace as resolved before the rotation, as a
	// cached copy on another instance would.
	_, err = svc.Register(ctx, RegisterInput{Email: "b@closed.test", Password: "password123", JoinCode: code})
	require.ErrorIs(t, err, ErrInvalidJoinCode)
	_, err = svc.Register(ctx, RegisterInput{Email: "b@closed.test", Password: "password123", JoinCode: rotated})
	require.NoError(t, err)

	// Cached workspaces carry no join code hash.
	cached := *ws
	cached.JoinCodeHash = nil
	ctx = tenancy.WithWorkspace(context.Background(), &cached)
	_, err = svc.Register(ctx, RegisterInput{Email: "c@closed.test", Password: "password123", JoinCode: rotated})
	require.NoError(t, err)
}

func TestWorkspaceService_Delete(t *testing.T) {
	svc, _, inv, f := newWorkspaceService(t)
	channels := NewChannelService(f.db, repository.NewChannelRepository(f.db), NewSlugAllocator())

	_, err := channels.CreateChannel(f.ctxA, CreateChannelInput{Name: "general"})
	require.NoError(t, err)
	_, err = channels.CreateChannel(f.ctxB, CreateChannelInput{Name: "general"})
	require.NoError(t, err)

	require.NoError(t, svc.DeleteWorkspace(context.Background(), "alpha"))
	require.Equal(t, []string{"alpha"}, inv.slugs)

	_, err = svc.GetBySlug(context.Background(), "alpha")
	require.ErrorIs(t, err, ErrTenantNotFound)

	_, total, err := channels.ListChannels(f.ctxB, pageOne)
	require.NoError(t, err)
	require.EqualValues(t, 1, total)

	_, err = svc.Register(testutil.Context(f.wsB, nil), RegisterInput{Email: "ann@alpha.test", Password: "password123"})
	require.NoError(t, err)
}
