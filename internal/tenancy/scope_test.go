package tenancy_test

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/yukikurage/workspace-api/internal/database"
	"github.com/yukikurage/workspace-api/internal/models"
	"github.com/yukikurage/workspace-api/internal/tenancy"
	"github.com/yukikurage/workspace-api/internal/testutil"
)

type scopeFixture struct {
	db   *gorm.DB
	ctxA context.Context
	ctxB context.Context
	a1   *models.Channel
	a2   *models.Channel
	b1   *models.Channel
}

func newScopeFixture(t *testing.T) *scopeFixture {
	t.Helper()
	db := testutil.NewDB(t)
	wsA := testutil.CreateWorkspace(t, db, "alpha")
	wsB := testutil.CreateWorkspace(t, db, "beta")

	f := &scopeFixture{
		db:   db,
		ctxA: tenancy.WithWorkspace(context.Background(), wsA),
		ctxB: tenancy.WithWorkspace(context.Background(), wsB),
		a1:   &models.Channel{WorkspaceID: wsA.ID, Name: "general", Slug: "general"},
		a2:   &models.Channel{WorkspaceID: wsA.ID, Name: "random", Slug: "random"},
		b1:   &models.Channel{WorkspaceID: wsB.ID, Name: "general", Slug: "general"},
	}
	for _, ch := range []*models.Channel{f.a1, f.a2, f.b1} {
		require.NoError(t, db.Omit("Workspace", "Publications").Create(ch).Error)
	}
	return f
}

func TestScope_Query(t *testing.T) {
	f := newScopeFixture(t)

	var channels []models.Channel
	require.NoError(t, f.db.WithContext(f.ctxA).Find(&channels).Error)
	require.Len(t, channels, 2)
	for _, ch := range channels {
		require.Equal(t, f.a1.WorkspaceID, ch.WorkspaceID)
	}

	var ch models.Channel
	err := f.db.WithContext(f.ctxA).First(&ch, f.b1.ID).Error
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// An OR in the caller's condition cannot widen the scope.
	channels = nil
	require.NoError(t, f.db.WithContext(f.ctxB).
		Where("name = ? OR slug = ?", "general", "random").
		Find(&channels).Error)
	require.Len(t, channels, 1)
	require.Equal(t, f.b1.ID, channels[0].ID)

	var total int64
	require.NoError(t, f.db.WithContext(f.ctxA).Model(&models.Channel{}).Count(&total).Error)
	require.EqualValues(t, 2, total)
}

func TestScope_CountThenFind(t *testing.T) {
	f := newScopeFixture(t)

	query := f.db.WithContext(f.ctxA).Model(&models.Channel{}).Where("name <> ?", "")
	var total int64
	require.NoError(t, query.Count(&total).Error)

	var channels []models.Channel
	require.NoError(t, query.Find(&channels).Error)
	require.EqualValues(t, 2, total)
	require.Len(t, channels, 2)
}

func TestScope_Row(t *testing.T) {
	f := newScopeFixture(t)

	var n int64
	row := f.db.WithContext(f.ctxB).Model(&models.Channel{}).Select("count(*)").Row()
	require.NoError(t, row.Scan(&n))
	require.EqualValues(t, 1, n)
}

func TestScope_UpdateAndDelete(t *testing.T) {
	f := newScopeFixture(t)

	res := f.db.WithContext(f.ctxA).Model(&models.Channel{}).Where("id = ?", f.b1.ID).Update("name", "hijacked")
	require.NoError(t, res.Error)
	require.Zero(t, res.RowsAffected)

	res = f.db.WithContext(f.ctxA).Where("1 = 1").Delete(&models.Channel{})
	require.NoError(t, res.Error)
	require.EqualValues(t, 2, res.RowsAffected)

	var remaining []models.Channel
	require.NoError(t, f.db.Find(&remaining).Error)
	require.Len(t, remaining, 1)
	require.Equal(t, f.b1.ID, remaining[0].ID)
	require.Equal(t, "general", remaining[0].Name)
}

func TestScope_UnscopedModelsAndBypass(t *testing.T) {
	f := newScopeFixture(t)

	var workspaces []models.Workspace
	require.NoError(t, f.db.WithContext(f.ctxA).Find(&workspaces).Error)
	require.Len(t, workspaces, 2)

	var channels []models.Channel
	require.NoError(t, f.db.WithContext(tenancy.WithoutScope(f.ctxA)).Find(&channels).Error)
	require.Len(t, channels, 3)

	channels = nil
	require.NoError(t, f.db.Find(&channels).Error)
	require.Len(t, channels, 3)
}

func TestScope_ConcurrentTenants(t *testing.T) {
	f := newScopeFixture(t)

	var wg sync.WaitGroup
	errs := make(chan error, 40)
	for i := 0; i < 20; i++ {
		for _, tc := range []struct {
			ctx  context.Context
			want int
		}{{f.ctxA, 2}, {f.ctxB, 1}} {
			wg.Add(1)
			go func(ctx context.Context, want int) {
				defer wg.Done()
				var channels []models.Channel
				if err := f.db.WithContext(ctx).Find(&channels).Error; err != nil {
					errs <- err
					return
				}
				if len(channels) != want {
					errs <- gorm.ErrInvalidData
				}
			}(tc.ctx, tc.want)
		}
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}
}

func TestScope_PostgresSQL(t *testing.T) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := database.Open(postgres.New(postgres.Config{Conn: sqlDB}), nil)
	require.NoError(t, err)

	ctx := tenancy.WithWorkspace(context.Background(), &models.Workspace{ID: 7, Slug: "alpha"})

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "channels" WHERE "channels"."workspace_id" = $1`)).
		WithArgs(7).
		WillReturnRows(sqlmock.NewRows([]string{"id", "workspace_id", "name", "slug"}).
			AddRow(1, 7, "general", "general"))

	var channels []models.Channel
	require.NoError(t, db.WithContext(ctx).Find(&channels).Error)
	require.Len(t, channels, 1)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "channels" WHERE (name = $1 OR slug = $2) AND "channels"."workspace_id" = $3`)).
		WithArgs("a", "b", 7).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	require.NoError(t, db.WithContext(ctx).Where("name = ? OR slug = ?", "a", "b").Find(&channels).Error)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM "channels" WHERE "channels"."id" = $1 AND "channels"."workspace_id" = $2`)).
		WithArgs(3, 7).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	require.NoError(t, db.WithContext(ctx).Delete(&models.Channel{}, 3).Error)

	// Workspaces are not tenant scoped.
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "workspaces" WHERE slug = $1`)).
		WithArgs("alpha").
		WillReturnRows(sqlmock.NewRows([]string{"id", "slug"}).AddRow(7, "alpha"))

	var ws models.Workspace
	require.NoError(t, db.WithContext(ctx).Where("slug = ?", "alpha").Find(&ws).Error)

	require.NoError(t, mock.ExpectationsWereMet())
}
