package db

import (
	"fmt"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

const (
	TypePostgres = "postgres"
	TypeMySQL    = "mysql"
	TypeSQLite   = "sqlite"
)

// Dialect returns a dialector that does not touch the network; the first
// round-trip happens during schema initialization.
func Dialect(cfg Config) (gorm.Dialector, error) {
	switch cfg.Type {
	case TypePostgres, "postgresql", "":
		return postgres.Open(cfg.URL), nil
	case TypeMySQL:
		return mysql.New(mysql.Config{
			DSN:                       cfg.URL,
			SkipInitializeWithVersion: true,
		}), nil
	case TypeSQLite:
		return sqlite.Open(cfg.URL), nil
	default:
		return nil, fmt.Errorf("unsupported %s type", cfg.Type)
	}
}

// NormalizeType maps aliases onto the dialect names used across the service.
func NormalizeType(t string) string {
	switch t {
	case "", "postgresql":
		return TypePostgres
	default:
		return t
	}
}
