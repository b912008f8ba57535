package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/meur/buildforge/internal/api"
	"github.com/meur/buildforge/internal/cache"
	"github.com/meur/buildforge/internal/config"
	"github.com/meur/buildforge/internal/logger"
	"github.com/meur/buildforge/internal/storage"
	"github.com/meur/buildforge/internal/weapons"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		zap.NewExample().Fatal("Failed to load config", zap.Error(err))
	}

	// Flags override the environment
	flag.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	flag.StringVar(&cfg.DBPath, "db", cfg.DBPath, "SQLite database path")
	flag.StringVar(&cfg.StaticDir, "static", cfg.StaticDir, "Frontend build directory to serve at /")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level")
	flag.Parse()

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		zap.NewExample().Fatal("Failed to build logger", zap.Error(err))
	}
	defer log.Sync()

	catalog, err := weapons.Default()
	if err != nil {
		log.Fatal("Failed to load weapon catalog", zap.Error(err))
	}

	store, err := storage.New(cfg.DBPath)
	if err != nil {
		log.Fatal("Failed to initialize storage", zap.Error(err))
	}
	defer store.Close()

	srv := api.New(api.Options{
		Builds:      cache.NewBuilds(store, cfg.CacheSize, cfg.CacheTTL),
		Preferences: store,
		Catalog:     catalog,
		Logger:      log,
		Health:      store,
		CORSOrigins: cfg.CORSOrigins,
		PageSize:    cfg.PageSize,
	})

	if cfg.StaticDir != "" {
		FileServer(srv.Router(), "/", http.Dir(cfg.StaticDir))
	}

	httpServer := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           srv,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		log.Info("buildforge API starting",
			zap.String("addr", "http://localhost:"+cfg.Port),
			zap.String("db", cfg.DBPath),
			zap.Int("weapons", len(catalog.Weapons())))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Error("shutdown", zap.Error(err))
	}
}

// FileServer conveniently sets up a http.FileServer handler to serve
// static files from a http.FileSystem.
func FileServer(r chi.Router, path string, root http.FileSystem) {
	if strings.ContainsAny(path, "{}*") {
		panic("FileServer does not permit URL parameters.")
	}

	if path != "/" && path[len(path)-1] != '/' {
		r.Get(path, http.RedirectHandler(path+"/", http.StatusMovedPermanently).ServeHTTP)
		path += "/"
	}
	path += "*"

	r.Get(path, func(w http.ResponseWriter, req *http.Request) {
		rctx := chi.RouteContext(req.Context())
		pathPrefix := strings.TrimSuffix(rctx.RoutePattern(), "/*")
		fs := http.StripPrefix(pathPrefix, http.FileServer(root))
		fs.ServeHTTP(w, req)
	})
}
