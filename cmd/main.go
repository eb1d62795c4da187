package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "likes_service/docs"
	"likes_service/internal/config"
	"likes_service/internal/handlers"
	"likes_service/internal/logger"
	"likes_service/internal/repository"
	"likes_service/internal/repository/db"
	"likes_service/internal/server"
	"likes_service/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title                       Likes Service API
// @version                     1.0
// @description                 User accounts with session cookies and a like/unlike relation between users.
// @BasePath                    /
// @securityDefinitions.apikey  CookieAuth
// @in                          cookie
// @name                        token
func main() {
	// load configs/config.yml + env
	cfg, err := config.Load()
	if err != nil {
		logger.Get(logger.InfoLevel, logger.FormatConsole).Fatalw("invalid configuration", "err", err)
	}

	// init logger
	log := logger.Get(cfg.Log.Level, cfg.Log.Format)
	defer func() { _ = log.Sync() }()

	// open DB
	conn, err := db.InitDB(cfg.DB.DSN)
	if err != nil {
		log.Fatalw("failed to init sqlite", "dsn", cfg.DB.DSN, "err", err)
	}
	defer func() {
		if cerr := conn.Close(); cerr != nil {
			log.Errorw("failed to close sqlite", "err", cerr)
		}
	}()

	// wire dependencies
	repos := repository.NewRepository(conn)
	services := service.NewService(repos, service.Options{
		SigningKey: cfg.JWTKey,
		BcryptCost: cfg.Auth.BcryptCost,
		Log:        log,
	})
	apiHandler := handlers.NewHandler(services, log)

	srv := server.New(cfg.Port, apiHandler.InitRoutes())
	runHTTPServer(srv, log)

	// graceful shutdown
	waitForShutdown(srv, log)
}

// runHTTPServer runs the HTTP server in a separate goroutine.
func runHTTPServer(srv *server.Server, log *logger.Logger) {
	go func() {
		log.Infow("listening", "addr", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalw("error starting server", "err", err)
		}
	}()
}

// waitForShutdown listens for termination signals and performs graceful shutdown.
func waitForShutdown(srv *server.Server, log *logger.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Infow("shutting down server...")

	// allow in-flight requests to complete
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Errorw("server forced to shutdown", "err", err)
	}
}
