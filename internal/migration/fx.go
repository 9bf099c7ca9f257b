package migration

import (
	"github.com/hengly4433/hotel-system/internal/config"
	pkgdb "github.com/hengly4433/hotel-system/pkg/db"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config, log *zap.Logger) error {
		log = log.Named("migration")
		if !cfg.DBAutoMigrate {
			log.Info("auto migration disabled")
			return nil
		}
		if pkgdb.IsSQLite(conn) || conn.Dialector.Name() != "postgres" {
			log.Warn("auto migration skipped, schema files target postgres", zap.String("dialect", conn.Dialector.Name()))
			return nil
		}

		sqlDB, err := conn.DB()
		if err != nil {
			return err
		}
		if err := RunMigrations(sqlDB); err != nil {
			return err
		}
		log.Info("migrations applied")
		return nil
	}),
)
