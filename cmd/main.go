package main

import (
	"context"
	"database/sql"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "warbler/docs"
	"warbler/internal/config"
	"warbler/internal/handlers"
	"warbler/internal/logger"
	"warbler/internal/repository"
	"warbler/internal/repository/db"
	"warbler/internal/server"
	"warbler/internal/service"
)

const openTimeout = 30 * time.Second

// @title           Warbler API
// @version         1.0
// @description     Microblogging service: users, follows and short messages.
// @BasePath        /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	configPath := flag.String("config", "", "path to config file (default configs/config.yml)")
	flag.Parse()

	// bootstrap logger until config is known
	boot := logger.Get(logger.InfoLevel)

	cfg, err := config.Load(*configPath)
	if err != nil {
		boot.Fatalw("error reading config", "err", err)
	}

	log := logger.New(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	if cfg.UsesDevSecrets() {
		log.Warnw("using development secrets; set WARBLER_SESSION_SECRET and WARBLER_JWT_SIGNING_KEY")
	}

	conn, dialect, err := openDB(cfg.Database.URL)
	if err != nil {
		log.Fatalw("failed to open database", "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close database", "err", cerr)
		}
	}()
	log.Infow("database ready", "dialect", string(dialect))

	// wire dependencies
	repos := repository.NewRepository(conn, dialect)
	services := service.NewService(repos, service.AuthConfig{
		SigningKey: cfg.JWT.SigningKey,
		TokenTTL:   cfg.JWT.TTL,
	})
	apiHandler := handlers.NewHandler(services, log, handlers.Options{
		SessionSecret: cfg.Session.Secret,
		SecureCookies: cfg.Session.Secure,
		TimelineLimit: cfg.Timeline.Limit,
	})

	srv := server.New(server.Options{
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		WriteTimeout:      cfg.Server.WriteTimeout,
		IdleTimeout:       cfg.Server.IdleTimeout,
	})
	runHTTPServer(srv, cfg.Port, apiHandler, log)

	waitForShutdown(srv, cfg.Server.ShutdownTimeout, log)
}

// openDB connects to the configured database and applies migrations.
func openDB(url string) (*sql.DB, db.Dialect, error) {
	ctx, cancel := context.WithTimeout(context.Background(), openTimeout)
	defer cancel()
	return db.Open(ctx, url)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, port string, handler *handlers.Handler, log *logger.Logger) {
	go func() {
		log.Infow("starting server", "port", port)
		if err := srv.Run(port, handler.InitRoutes()); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, timeout time.Duration, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
