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

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hongminglow/taskboard/internal/config"
	"github.com/hongminglow/taskboard/internal/server"
	"github.com/hongminglow/taskboard/internal/storage"
	"github.com/hongminglow/taskboard/internal/storage/memory"
	"github.com/hongminglow/taskboard/internal/storage/postgres"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openStore(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()

		srv, err := server.New(cfg, store, logger)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			logger.Info("taskboard listening",
				zap.String("addr", srv.Addr()),
				zap.String("env", cfg.Env),
				zap.String("store", cfg.Store))
			if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(sigCh)

		select {
		case err, ok := <-errCh:
			if ok {
				return fmt.Errorf("http server error: %w", err)
			}
			return nil
		case sig := <-sigCh:
			logger.Info("shutting down", zap.String("signal", sig.String()))
		}

		ctxShutdown, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctxShutdown); err != nil {
			logger.Error("graceful shutdown error", zap.Error(err))
		}
		return nil
	},
}

func openStore(ctx context.Context) (storage.Store, error) {
	switch cfg.Store {
	case config.StoreMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return memory.New(), nil
	default:
		store, err := postgres.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("init database: %w", err)
		}
		return store, nil
	}
}
