package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storeauth/internal/storeapi"
	"storeauth/pkg/authz"
	"storeauth/pkg/config"
	"storeauth/pkg/db"
	"storeauth/pkg/logger"
	"storeauth/pkg/middleware"
	"storeauth/pkg/permissions"
	"storeauth/pkg/staff"
	"storeauth/pkg/stores"
)

func main() {
	cfg := config.Load()
	log := logger.New(cfg.Env)

	catalog := permissions.Default()
	if cfg.CatalogPath != "" {
		var err error
		if catalog, err = permissions.LoadFile(cfg.CatalogPath); err != nil {
			log.Fatalw("permission catalog", "err", err)
		}
	}

	pool := db.MustConnect(cfg, log)
	rdb := db.MustRedis(cfg, log)

	var dir stores.Directory
	var prov staff.Provider
	if pool != nil {
		dir = stores.NewPostgresDirectory(pool, log)
		prov = staff.NewPostgresProvider(pool, log)
		if err := stores.EnsureSchema(context.Background(), pool); err != nil {
			log.Fatalw("ensure schema", "err", err)
		}
		if err := permissions.EnsureCatalog(context.Background(), pool, catalog); err != nil {
			log.Fatalw("ensure catalog", "err", err)
		}
		if err := stores.SeedFromEnv(context.Background(), pool, os.Getenv("STORE_SEED_JSON")); err != nil {
			log.Warnw("store seed", "err", err)
		}
	} else {
		dir = stores.NewMemoryDirectoryFromEnv(log)
		prov = staff.NewMemoryProviderFromEnv(log)
	}
	prov = staff.NewCachedProvider(prov, rdb, cfg.StaffCacheTTL, log)

	engine := authz.NewEngine(dir, prov, log)
	app := &storeapi.App{Engine: engine, Staff: prov, Catalog: catalog, Log: log}

	r := chi.NewRouter()
	r.Use(middleware.RequestID())
	r.Use(middleware.Recover(log))
	r.Use(middleware.Tracing())
	r.Use(middleware.Principal(cfg, log))

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) { w.Write([]byte("ok")) })
	app.RegisterHTTP(r)
	r.Get("/metrics", promhttp.Handler().ServeHTTP)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: r}
	go func() {
		log.Infow("authz-service listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalw("ListenAndServe", "err", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = srv.Shutdown(ctx)
	fmt.Println("authz-service stopped")
}
