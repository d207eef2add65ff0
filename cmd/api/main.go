package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/guilhermeoliveira05/Leading-Page-MFG/api/routes"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/app"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/catalog"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/internal/storefront"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/config"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/instance"
	"github.com/guilhermeoliveira05/Leading-Page-MFG/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		Format:      cfg.App.LogFormat,
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	backend, err := app.OpenStorage(ctx, cfg, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap cart storage", err)
		os.Exit(1)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			logg.Error(context.Background(), "error closing cart storage", err)
		}
	}()

	cat, err := catalog.Load(cfg.Cart.CatalogPath)
	if err != nil {
		logg.Error(ctx, "failed to load catalog", err)
		os.Exit(1)
	}

	renderer, err := storefront.NewRenderer()
	if err != nil {
		logg.Error(ctx, "failed to parse storefront templates", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	registry, sessions, err := app.NewCartRegistry(cfg, logg, backend.Storage, reg)
	if err != nil {
		logg.Error(ctx, "failed to create cart registry", err)
		os.Exit(1)
	}
	go registry.RunJanitor(ctx, cfg.Cart.SweepInterval, cfg.Cart.IdleTTL)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx = logg.WithFields(ctx, map[string]any{
		"env":      cfg.App.Env,
		"addr":     addr,
		"instance": instance.GetID(),
		"storage":  cfg.Cart.Storage,
		"products": cat.Len(),
	})
	logg.Info(ctx, "starting api server")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(cfg, logg, routes.Deps{
			Registry: registry,
			Sessions: sessions,
			Catalog:  cat,
			Renderer: renderer,
			Gatherer: reg,
		}),
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			logg.Error(ctx, "api server stopped unexpectedly", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		logg.Info(ctx, "shutting down api server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logg.Error(ctx, "api server shutdown failed", err)
		}
	}
}
