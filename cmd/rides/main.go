package main

import (
	"github.com/smallbiznis/rides/internal/config"
	"github.com/smallbiznis/rides/internal/migration"
	"github.com/smallbiznis/rides/internal/observability"
	"github.com/smallbiznis/rides/internal/server"
	"github.com/smallbiznis/rides/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core Infrastructure
		config.Module,
		observability.Module,
		db.Module,

		// Schema must be ready before the listener starts
		migration.Module,
		server.Module,
	)
	app.Run()
}
