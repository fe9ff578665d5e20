package migration

import (
	"context"

	"github.com/smallbiznis/rides/internal/config"
	"github.com/smallbiznis/rides/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, dbCfg db.Config, cfg config.Config, log *zap.Logger) error {
		log = log.Named("migration")

		err := InitWithRetry(context.Background(), log, cfg.SchemaInit, func(ctx context.Context) error {
			return EnsureSchema(ctx, conn, dbCfg)
		})
		if err != nil {
			log.Error("failed to initialize database after retry, exiting", zap.Error(err))
			return err
		}

		log.Info("database schema ready", zap.String("dialect", db.NormalizeType(dbCfg.Type)))
		return nil
	}),
)
