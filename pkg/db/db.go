package db

import (
	"context"
	"fmt"
	"strings"

	"github.com/smallbiznis/rides/internal/observability"
	obslogger "github.com/smallbiznis/rides/internal/observability/logger"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
	gormprometheus "gorm.io/plugin/prometheus"
)

var Module = fx.Module("db",
	fx.Provide(ConfigFrom),
	fx.Provide(provide),
)

func provide(lc fx.Lifecycle, cfg Config, obsCfg observability.Config, log *zap.Logger) (*gorm.DB, error) {
	conn, err := Open(cfg, log, obsCfg.Debug())
	if err != nil {
		return nil, err
	}

	if err := conn.Use(otelgorm.NewPlugin(otelgorm.WithoutQueryVariables())); err != nil {
		return nil, fmt.Errorf("register tracing plugin: %w", err)
	}
	if err := conn.Use(gormprometheus.New(gormprometheus.Config{
		DBName:          "rides",
		RefreshInterval: 15,
	})); err != nil {
		return nil, fmt.Errorf("register metrics plugin: %w", err)
	}

	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return Close(conn)
		},
	})

	return conn, nil
}

// Open builds the connection pool. It does not ping the store.
func Open(cfg Config, log *zap.Logger, debug bool) (*gorm.DB, error) {
	dialector, err := Dialect(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := gorm.Open(dialector, &gorm.Config{
		Logger:                 obslogger.NewGormLogger(log, obslogger.DefaultGormLoggerConfig(debug)),
		DisableAutomaticPing:   true,
		SkipDefaultTransaction: true,
	})
	if err != nil {
		return nil, fmt.Errorf("open %s pool: %w", NormalizeType(cfg.Type), err)
	}

	sqlDB, err := conn.DB()
	if err != nil {
		return nil, err
	}
	if cfg.MaxOpenConn > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxOpenConn)
	}
	if cfg.MaxIdleConn > 0 {
		sqlDB.SetMaxIdleConns(cfg.MaxIdleConn)
	}
	if cfg.ConnMaxLifetime > 0 {
		sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}
	if cfg.ConnMaxIdleTime > 0 {
		sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)
	}

	return conn, nil
}

// Close releases every pooled connection.
func Close(conn *gorm.DB) error {
	if conn == nil {
		return nil
	}
	sqlDB, err := conn.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// NewTest opens an isolated in-memory SQLite pool named after the test.
func NewTest(name string) (*gorm.DB, error) {
	return Open(Config{
		Type:        TypeSQLite,
		URL:         fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(name, "/", "_")),
		MaxOpenConn: 1,
		MaxIdleConn: 1,
	}, zap.NewNop(), false)
}
