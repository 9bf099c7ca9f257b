package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/hengly4433/hotel-system/internal/audit"
	"github.com/hengly4433/hotel-system/internal/availability"
	"github.com/hengly4433/hotel-system/internal/catalog"
	"github.com/hengly4433/hotel-system/internal/clock"
	"github.com/hengly4433/hotel-system/internal/config"
	"github.com/hengly4433/hotel-system/internal/folio"
	"github.com/hengly4433/hotel-system/internal/migration"
	"github.com/hengly4433/hotel-system/internal/observability"
	"github.com/hengly4433/hotel-system/internal/providers"
	"github.com/hengly4433/hotel-system/internal/rate"
	"github.com/hengly4433/hotel-system/internal/reservation"
	"github.com/hengly4433/hotel-system/internal/server"
	"github.com/hengly4433/hotel-system/internal/tax"
	"github.com/hengly4433/hotel-system/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,
		clock.Module,

		catalog.Module,
		rate.Module,
		tax.Module,
		availability.Module,
		audit.Module,
		providers.Module,
		folio.Module,
		reservation.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake(cfg config.Config) (*snowflake.Node, error) {
	return snowflake.NewNode(cfg.SnowflakeNode)
}
