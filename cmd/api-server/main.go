package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"consulthub/internal/catalog"
	"consulthub/internal/content"
	"consulthub/internal/notify"
	"consulthub/internal/server"
	"consulthub/pkg/database"
	"consulthub/pkg/utils"
)

func main() {
	cfg, err := utils.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load config:", err)
		os.Exit(1)
	}
	if err := utils.InitLogger(cfg.Log); err != nil {
		fmt.Fprintln(os.Stderr, "init logger:", err)
		os.Exit(1)
	}
	defer func() { _ = zap.L().Sync() }()

	gin.SetMode(gin.ReleaseMode)

	db := database.MustOpen(database.Config{Path: cfg.Store.Path})
	defer db.Close()
	if err := database.Migrate(db); err != nil {
		zap.L().Fatal("db migrate failed", zap.Error(err))
	}

	normalizer := catalog.NewNormalizer(nil)
	snap, err := content.Load(cfg.Data.Dir, normalizer)
	if err != nil {
		zap.L().Fatal("content load failed", zap.String("dir", cfg.Data.Dir), zap.Error(err))
	}
	for file, rep := range snap.Reports {
		zap.L().Info("content loaded",
			zap.String("file", file),
			zap.Int("input", rep.Input),
			zap.Int("output", rep.Output),
			zap.Any("dropped", rep.Dropped),
		)
	}
	holder := content.NewHolder(snap)

	hub := notify.NewHub(0)
	holder.OnStore(func(s *content.Snapshot) {
		hub.Publish(notify.EventContentReload, gin.H{
			"projects":    s.Projects.Len(),
			"investments": s.Investments.Len(),
			"loaded_at":   s.LoadedAt.UTC(),
		})
	})

	handler, err := server.NewRouter(server.Deps{Config: cfg, DB: db, Content: holder, Hub: hub})
	if err != nil {
		zap.L().Fatal("router setup failed", zap.Error(err))
	}

	httpSrv := &http.Server{
		Addr:              cfg.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("HTTP API server listening", zap.String("addr", cfg.Server.Addr))
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	if cfg.Data.Watch {
		g.Go(func() error {
			return content.Watch(gctx, cfg.Data.Dir, normalizer, holder, cfg.Data.Debounce())
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down HTTP server")
		hub.Close()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return httpSrv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("server stopped with error", zap.Error(err))
		return
	}
	zap.L().Info("servers stopped")
}
