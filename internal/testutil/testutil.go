// Package testutil builds in-memory databases and tenant contexts for tests.
package testutil

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/auth"
	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/tenancy"
)

// NewDB opens a migrated in-memory SQLite database with the tenant scope
// installed. A single connection keeps the in-memory database alive.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	db, err := database.Open(sqlite.Open(":memory:"), nil)
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.Migrate(db))

	t.Cleanup(func() {
		_ = sqlDB.Close()
	})
	return db
}

// CreateWorkspace inserts a workspace that allows self signup.
func CreateWorkspace(t testing.TB, db *gorm.DB, slug string) *models.Workspace {
	t.Helper()

	ws := &models.Workspace{Slug: slug, Name: slug, AllowSelfSignup: true}
	require.NoError(t, db.Omit("Channels", "Publications", "Comments", "Reactions", "Media", "Users").Create(ws).Error)
	return ws
}

// CreateUser inserts a member of ws whose password is "password123".
func CreateUser(t testing.TB, db *gorm.DB, ws *models.Workspace, email string) *models.User {
	t.Helper()

	hash, err := auth.HashSecret("password123")
	require.NoError(t, err)

	user := &models.User{
		WorkspaceID:  ws.ID,
		Email:        email,
		DisplayName:  email,
		PasswordHash: hash,
	}
	require.NoError(t, db.Omit("Workspace").Create(user).Error)
	return user
}

// Context returns a context with ws active and, when user is not nil, user
// authenticated.
func Context(ws *models.Workspace, user *models.User) context.Context {
	ctx := tenancy.WithWorkspace(context.Background(), ws)
	if user != nil {
		ctx = auth.WithUser(ctx, user)
	}
	return ctx
}
