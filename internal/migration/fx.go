package migration

import (
	"github.com/studiolane/studiolane/internal/config"
	"github.com/studiolane/studiolane/internal/seed"
	"go.uber.org/fx"
	"gorm.io/gorm"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		// Schema migrations are written for postgres; other dialects are
		// expected to be provisioned externally.
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		}

		return seed.EnsureTemplateOrg(conn, cfg.TemplateOrgSlug)
	}),
)
