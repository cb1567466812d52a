package app

import (
	"context"
	"log/slog"
	"os"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/equipment"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgrouter"
)

func (a *App) initModules() {
	if a.config.GetBool("modules.equipment.enabled") {
		closer, err := equipment.New(equipment.Dependency{
			Config:  a.config,
			Router:  a.router,
			Context: a.ctx,
			DB:      a.db,
			Auth:    pkgrouter.MiddlewareAuth(a.jwt),
			ID:      a.snowflake,
		})
		if err != nil {
			slog.Error("failed to init module equipment", "error", err)
			os.Exit(1)
		}
		if closer != nil {
			if a.closerFn == nil {
				a.closerFn = map[string]func(context.Context) error{}
			}
			a.closerFn["Equipment"] = closer
		}
	}
}
