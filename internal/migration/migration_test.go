package migration

import (
	"context"
	"errors"
	"io/fs"
	"testing"
	"time"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/smallbiznis/rides/internal/config"
	"github.com/smallbiznis/rides/internal/ride/domain"
	"github.com/smallbiznis/rides/pkg/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := db.NewTest(t.Name())
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

func TestEnsureSchemaIsIdempotent(t *testing.T) {
	conn := newTestDB(t)
	cfg := db.Config{Type: db.TypeSQLite}
	ctx := context.Background()

	require.NoError(t, EnsureSchema(ctx, conn, cfg))
	require.NoError(t, EnsureSchema(ctx, conn, cfg))

	var tables int64
	require.NoError(t, conn.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'table' AND name = 'rides'").Scan(&tables).Error)
	assert.Equal(t, int64(1), tables)

	var indexes int64
	require.NoError(t, conn.Raw("SELECT count(*) FROM sqlite_master WHERE type = 'index' AND name = 'idx_rides_active'").Scan(&indexes).Error)
	assert.Equal(t, int64(1), indexes)
}

func TestEnsureSchemaActiveDefaultsTrue(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, EnsureSchema(context.Background(), conn, db.Config{Type: db.TypeSQLite}))

	seed := domain.Ride{
		Type:         "standard",
		Datetime:     time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		CityCode:     "NYC",
		CurrencyCode: "USD",
	}
	require.NoError(t, conn.Omit("Active").Create(&seed).Error)

	var ride domain.Ride
	require.NoError(t, conn.First(&ride, seed.ID).Error)
	assert.True(t, ride.Active)
}

func TestEnsureSchemaWrapsFailure(t *testing.T) {
	conn := newTestDB(t)
	require.NoError(t, db.Close(conn))

	err := EnsureSchema(context.Background(), conn, db.Config{Type: db.TypeSQLite})
	require.Error(t, err)

	var initErr *SchemaInitError
	require.ErrorAs(t, err, &initErr)
	assert.Equal(t, db.TypeSQLite, initErr.Dialect)
	assert.Contains(t, err.Error(), "initialize sqlite schema")
}

func TestInitWithRetrySucceedsOnSecondAttempt(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	policy := config.SchemaInitConfig{Attempts: 2, RetryDelay: time.Millisecond, Multiplier: 2}

	calls := 0
	err := InitWithRetry(context.Background(), zap.New(core), policy, func(context.Context) error {
		calls++
		if calls == 1 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "schema initialization failed, retrying", logs.All()[0].Message)
}

func TestInitWithRetryGivesUpAfterAttempts(t *testing.T) {
	policy := config.SchemaInitConfig{Attempts: 3, RetryDelay: time.Millisecond, Multiplier: 2}
	want := &SchemaInitError{Dialect: db.TypePostgres, Err: errors.New("connection refused")}

	calls := 0
	err := InitWithRetry(context.Background(), zap.NewNop(), policy, func(context.Context) error {
		calls++
		return want
	})

	assert.Equal(t, 3, calls)
	var initErr *SchemaInitError
	require.ErrorAs(t, err, &initErr)
	assert.Same(t, want, initErr)
}

func TestInitWithRetrySingleAttempt(t *testing.T) {
	calls := 0
	err := InitWithRetry(context.Background(), zap.NewNop(), config.SchemaInitConfig{}, func(context.Context) error {
		calls++
		return errors.New("down")
	})

	assert.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestEmbeddedMigrationsArePaired(t *testing.T) {
	entries, err := embeddedMigrations.ReadDir(migrationsDir)
	require.NoError(t, err)

	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	assert.ElementsMatch(t, []string{
		"000001_create_rides_table.down.sql",
		"000001_create_rides_table.up.sql",
		"000002_create_rides_active_index.down.sql",
		"000002_create_rides_active_index.up.sql",
	}, names)
}

type fakeMigrator struct {
	upErrs []error
	ups    int
	forced []int
}

func (f *fakeMigrator) Up() error {
	f.ups++
	if len(f.upErrs) == 0 {
		return nil
	}
	err := f.upErrs[0]
	f.upErrs = f.upErrs[1:]
	return err
}

func (f *fakeMigrator) Force(version int) error {
	f.forced = append(f.forced, version)
	return nil
}

func previousVersion(version uint) (uint, error) {
	if version <= 1 {
		return 0, &fs.PathError{Op: "prev", Path: "migrations", Err: fs.ErrNotExist}
	}
	return version - 1, nil
}

func TestApplyMigrations(t *testing.T) {
	tests := []struct {
		name       string
		upErrs     []error
		wantErr    bool
		wantUps    int
		wantForced []int
	}{
		{name: "clean", wantUps: 1},
		{name: "no change", upErrs: []error{migrate.ErrNoChange}, wantUps: 1},
		{
			name:       "dirty second version rolls back one",
			upErrs:     []error{migrate.ErrDirty{Version: 2}},
			wantUps:    2,
			wantForced: []int{1},
		},
		{
			name:       "dirty first version resets to nil",
			upErrs:     []error{migrate.ErrDirty{Version: 1}},
			wantUps:    2,
			wantForced: []int{database.NilVersion},
		},
		{
			name:       "failure after reset",
			upErrs:     []error{migrate.ErrDirty{Version: 2}, errors.New("connection reset by peer")},
			wantErr:    true,
			wantUps:    2,
			wantForced: []int{1},
		},
		{name: "failure", upErrs: []error{errors.New("connection reset by peer")}, wantErr: true, wantUps: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &fakeMigrator{upErrs: tt.upErrs}

			err := applyMigrations(m, previousVersion)

			if tt.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
			assert.Equal(t, tt.wantUps, m.ups)
			assert.Equal(t, tt.wantForced, m.forced)
		})
	}
}
