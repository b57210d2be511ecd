package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/studiolane/studiolane/internal/catalog"
	"github.com/studiolane/studiolane/internal/config"
	"github.com/studiolane/studiolane/internal/migration"
	"github.com/studiolane/studiolane/internal/observability"
	"github.com/studiolane/studiolane/internal/organization"
	"github.com/studiolane/studiolane/internal/server"
	"github.com/studiolane/studiolane/internal/sitesetting"
	"github.com/studiolane/studiolane/internal/synclock"
	"github.com/studiolane/studiolane/internal/templatesync"
	"github.com/studiolane/studiolane/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		synclock.Module,

		organization.Module,
		catalog.Module,
		sitesetting.Module,
		templatesync.Module,

		migration.Module,
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
