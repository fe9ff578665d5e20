package migration

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"io/fs"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/smallbiznis/rides/internal/ride/domain"
	"github.com/smallbiznis/rides/pkg/db"
	"gorm.io/gorm"
)

const migrationsDir = "migrations"

//go:embed migrations/*.sql
var embeddedMigrations embed.FS

// SchemaInitError reports that the rides schema could not be ensured.
type SchemaInitError struct {
	Dialect string
	Err     error
}

func (e *SchemaInitError) Error() string {
	return fmt.Sprintf("initialize %s schema: %v", e.Dialect, e.Err)
}

func (e *SchemaInitError) Unwrap() error {
	return e.Err
}

// EnsureSchema makes sure the rides table and its active index exist. It only
// creates what is missing and may run from several instances at once.
func EnsureSchema(ctx context.Context, conn *gorm.DB, cfg db.Config) error {
	dialect := db.NormalizeType(cfg.Type)

	var err error
	switch dialect {
	case db.TypePostgres:
		err = runMigrations(ctx, cfg.URL)
	default:
		err = conn.WithContext(ctx).AutoMigrate(&domain.Ride{})
	}
	if err != nil {
		return &SchemaInitError{Dialect: dialect, Err: err}
	}
	return nil
}

// runMigrations applies the embedded SQL on a dedicated handle so the
// migrator's locked connection never comes out of the request pool.
func runMigrations(ctx context.Context, url string) error {
	sqlDB, err := sql.Open("pgx", url)
	if err != nil {
		return fmt.Errorf("open migration handle: %w", err)
	}
	defer sqlDB.Close()

	if err := sqlDB.PingContext(ctx); err != nil {
		return fmt.Errorf("reach database: %w", err)
	}

	sub, err := fs.Sub(embeddedMigrations, migrationsDir)
	if err != nil {
		return fmt.Errorf("open migrations: %w", err)
	}

	source, err := iofs.New(sub, ".")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	driver, err := postgres.WithInstance(sqlDB, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	migrator, err := migrate.NewWithInstance("iofs", source, "postgres", driver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}
	defer migrator.Close()

	if err := applyMigrations(migrator, source.Prev); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

type schemaMigrator interface {
	Up() error
	Force(version int) error
}

// applyMigrations runs Up. A run interrupted midway leaves the version dirty;
// every migration is idempotent, so the version is forced back to the one
// before it and Up runs once more.
func applyMigrations(m schemaMigrator, prev func(version uint) (uint, error)) error {
	err := m.Up()

	var dirty migrate.ErrDirty
	if errors.As(err, &dirty) {
		target := database.NilVersion
		if dirty.Version > 0 {
			p, prevErr := prev(uint(dirty.Version))
			switch {
			case prevErr == nil:
				target = int(p)
			case !errors.Is(prevErr, fs.ErrNotExist):
				return fmt.Errorf("find version before %d: %w", dirty.Version, prevErr)
			}
		}
		if forceErr := m.Force(target); forceErr != nil {
			return fmt.Errorf("reset dirty version %d: %w", dirty.Version, forceErr)
		}
		err = m.Up()
	}

	if err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return err
	}
	return nil
}
