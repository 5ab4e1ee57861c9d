// server/main.go
package main

import (
	"context"
	"log"
	"net/http"

	"github.com/alexedwards/scs/v2"

	"github.com/rexlx/parlance/config"
	"github.com/rexlx/parlance/forum"
	"github.com/rexlx/parlance/logger"
)

func main() {
	cfg, err := config.NewConfig()
	if err != nil {
		log.Fatalf("failed to parse config: %v", err)
	}
	logger := logger.New(cfg.LogLevel)

	ctx := context.Background()
	db, err := forum.NewDatabase(ctx, cfg.Database.DSN)
	if err != nil {
		logger.Fatal("could not initialize database", "error", err.Error())
	}
	defer db.Close()
	logger.Info("connected to the database")

	if cfg.SeedDemo {
		if err := db.SeedForums(ctx); err != nil {
			logger.Fatal("could not seed forums", "error", err.Error())
		}
	}

	session := scs.New()
	session.Lifetime = cfg.SessionLifetime

	handlers, err := forum.NewHandlers(db, session, logger)
	if err != nil {
		logger.Fatal("could not create forum handlers", "error", err.Error())
	}

	mux := http.NewServeMux()
	handlers.RegisterRoutes(mux)

	logger.Info("starting forum server", "addr", cfg.Addr)
	svr := &http.Server{
		Addr:    cfg.Addr,
		Handler: session.LoadAndSave(forum.RequestLogger(logger, mux)),
	}
	if err := svr.ListenAndServe(); err != nil {
		logger.Fatal("server failed", "error", err.Error())
	}
}
