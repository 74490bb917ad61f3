// Command kvserver exposes a store over an HTTP JSON API with graceful
// shutdown. A final snapshot is saved on the way out when persistence is
// configured.
package main

import (
	"context"
	"errors"
	"flag"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"kvstore/internal/config"
	"kvstore/internal/httpapi"
	"kvstore/internal/logger"
	"kvstore/internal/store"
)

func main() {
	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(logger.Component("kvserver"))
	if err := run(log); err != nil {
		log.Error("server terminated", logger.Error(err))
		os.Exit(1)
	}
}

func run(log *slog.Logger) error {
	var storeCfg config.Store
	if err := config.Load(&storeCfg); err != nil {
		return err
	}
	var serverCfg config.Server
	if err := config.Load(&serverCfg); err != nil {
		return err
	}

	addr := flag.String("addr", serverCfg.Addr, "listen address")
	capacity := flag.Int("capacity", storeCfg.Capacity, "cache capacity")
	snapshot := flag.String("snapshot", storeCfg.SnapshotPath, "snapshot file path (empty disables persistence)")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.New(store.Config{
		Capacity:     *capacity,
		SnapshotPath: *snapshot,
		Logger:       log,
	})
	if err != nil {
		return err
	}
	defer st.Close()

	srv := &http.Server{
		Addr:    *addr,
		Handler: httpapi.New(st, log),
	}

	go func() {
		<-ctx.Done()
		log.Info("shutting down")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Error("shutdown", logger.Error(err))
		}
	}()

	log.Info("server listening", slog.String("addr", *addr),
		logger.Count("capacity", *capacity))
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
