package app

import (
	"context"
	"net/http"

	"gorm.io/gorm"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgauth"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgconfig"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkglog"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgrouter"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgroutine"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkguid"
)

type App struct {
	ctx    context.Context
	cancel context.CancelFunc

	// configuration
	config pkgconfig.Config

	// libraries
	uuid      pkguid.StringID
	snowflake pkguid.NumberID
	jwt       *pkgauth.JWT
	goroutine *pkgroutine.Manager

	// resources
	db *gorm.DB

	// server
	router     *pkgrouter.Router
	httpServer *http.Server

	//
	closerFn map[string]func(context.Context) error
}

func New() *App {
	pkglog.InitLogging()

	ctx, cancel := context.WithCancel(context.Background())
	app := &App{
		ctx:    ctx,
		cancel: cancel,
	}

	app.initConfig()
	app.initLibraries()
	app.initResources()
	app.initHTTPServer()
	app.initModules()
	app.initClosers()

	return app
}
