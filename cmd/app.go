package cmd

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"readyToHelp/internal/components"
	"readyToHelp/internal/config"
)

func Run() error {
	bootLogger := components.SetupLogger("local")

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(appCtx)
	if err != nil {
		bootLogger.Error("load config failed", "err", err)
		return err
	}
	logger := components.SetupLogger(cfg.Env)

	comps, err := components.InitComponents(appCtx, cfg, logger)
	if err != nil {
		logger.Error("could not init components", "err", err)
		return err
	}

	ctx, stop := context.WithCancel(appCtx)
	defer stop()

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		if err := comps.HttpServer.Run(ctx); err != nil {
			logger.Error("http server failed", "err", err)
		}
		logger.Info("http server stopped")
	}()
	go func() {
		defer wg.Done()
		comps.RunWorkers(ctx)
	}()

	quitChan := make(chan os.Signal, 1)
	signal.Notify(quitChan, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quitChan

	stop()
	logger.Info("captured signal, initiating shutdown", slog.String("signal", sig.String()))

	wg.Wait()

	logger.Info("shutting down the services...")
	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), cfg.Http.ShutdownTimeout)
	defer cancelShutdown()
	comps.ShutdownAll(shutdownCtx)
	logger.Info("gracefully shutting down the servers", slog.Duration("timeout", cfg.Http.ShutdownTimeout))

	return nil
}

