package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"consulthub/internal/catalog"
	"consulthub/internal/content"
	"consulthub/internal/grpcserver"
	"consulthub/pkg/models"
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

	normalizer := catalog.NewNormalizer(nil)
	snap, err := content.Load(cfg.Data.Dir, normalizer)
	if err != nil {
		zap.L().Fatal("content load failed", zap.String("dir", cfg.Data.Dir), zap.Error(err))
	}
	holder := content.NewHolder(snap)

	listener, err := net.Listen("tcp", cfg.GRPC.Addr)
	if err != nil {
		zap.L().Fatal("grpc listen failed", zap.String("addr", cfg.GRPC.Addr), zap.Error(err))
	}

	locale := models.ParseLocale(cfg.Site.DefaultLocale, models.LocaleAr)
	grpcServer, healthSrv := grpcserver.New(holder, locale)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		zap.L().Info("gRPC server listening", zap.String("addr", cfg.GRPC.Addr))
		return grpcServer.Serve(listener)
	})

	if cfg.Data.Watch {
		g.Go(func() error {
			return content.Watch(gctx, cfg.Data.Dir, normalizer, holder, cfg.Data.Debounce())
		})
	}

	g.Go(func() error {
		<-gctx.Done()
		zap.L().Info("shutting down gRPC server")
		healthSrv.Shutdown()
		grpcServer.GracefulStop()
		return nil
	})

	if err := g.Wait(); err != nil {
		zap.L().Error("grpc server stopped with error", zap.Error(err))
		return
	}
	zap.L().Info("grpc server stopped")
}
