package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/rs/cors"

	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgauth"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgconfig"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgdb"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkglog"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgrouter"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkgroutine"
	"github.com/mithun-gr/Chemical-Equipment-Visualizer/internal/pkg/pkguid"
)

const (
	defaultReadHeaderTimeout = 10 * time.Second
	dbConnectTimeout         = 10 * time.Second
)

func (a *App) initConfig() {
	path := "/config/config.yaml"
	if os.Getenv("LOCAL") == "true" {
		path = "./config/config.yaml"
	}

	cfg, err := pkgconfig.NewViper(path)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		os.Exit(1)
	}

	//nolint:errcheck,gosec // ignore error
	os.Setenv("TZ", cfg.GetString("tz"))
	pkglog.SetLevel(cfg.GetString("log.level"))

	a.config = cfg
}

func (a *App) initLibraries() {
	a.goroutine = pkgroutine.NewManager(100)
	a.uuid = pkguid.NewUUID()

	node := a.config.GetInt("id.snowflake_node")
	snow, err := pkguid.NewSnowflake(node)
	if err != nil {
		slog.Error("failed to init snowflake", "node", node, "error", err)
		os.Exit(1)
	}
	a.snowflake = snow

	jwt, err := pkgauth.NewJWT(a.config.GetBinary("auth.jwt.secret"), a.config.GetString("auth.jwt.issuer"))
	if err != nil {
		slog.Error("failed to init jwt verifier", "error", err)
		os.Exit(1)
	}
	a.jwt = jwt
}

func (a *App) initResources() {
	driver := a.config.GetString("database.driver")
	if driver == "" || driver == "memory" {
		slog.Warn("no database configured, sessions are kept in memory")
		return
	}

	ctx, cancel := context.WithTimeout(a.ctx, dbConnectTimeout)
	defer cancel()

	db, err := pkgdb.Open(ctx, pkgdb.Options{
		Driver:          driver,
		DSN:             a.config.GetString("database.dsn"),
		LogLevel:        a.config.GetString("database.log_level"),
		MaxIdleConns:    int(a.config.GetInt("database.pool.max_idle_conns")),
		MaxOpenConns:    int(a.config.GetInt("database.pool.max_open_conns")),
		ConnMaxLifetime: a.config.GetDuration("database.pool.conn_max_lifetime"),
	})
	if err != nil {
		slog.Error("failed to init database", "driver", driver, "error", err)
		os.Exit(1)
	}

	a.db = db
}

func (a *App) initHTTPServer() {
	a.router = pkgrouter.NewRouter(a.uuid)

	origins := a.config.GetArray("server.cors.allowed_origins")
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	corsHandler := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
			http.MethodOptions,
		},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"Content-Disposition"},
		AllowCredentials: true,
	})

	readHeaderTimeout := a.config.GetDuration("server.read_header_timeout")
	if readHeaderTimeout <= 0 {
		readHeaderTimeout = defaultReadHeaderTimeout
	}

	a.httpServer = &http.Server{
		Addr:              a.config.GetString("server.address.http"),
		Handler:           corsHandler.Handler(a.router),
		ReadHeaderTimeout: readHeaderTimeout,
	}
}

//nolint:unparam // is always nil
func (a *App) initClosers() {
	if a.closerFn == nil {
		a.closerFn = map[string]func(context.Context) error{}
	}

	a.closerFn["HTTP Server"] = func(ctx context.Context) error {
		return a.httpServer.Shutdown(ctx)
	}
	a.closerFn["Config"] = func(context.Context) error {
		return a.config.Close()
	}
	if a.db != nil {
		a.closerFn["Database"] = func(context.Context) error {
			return pkgdb.Close(a.db)
		}
	}
}
