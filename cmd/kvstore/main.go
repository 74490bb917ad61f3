// Command kvstore runs the interactive shell against a local store.
// Settings come from the environment (KVSTORE_CAPACITY, KVSTORE_SNAPSHOT),
// with command-line flags taking precedence.
package main

import (
	"flag"
	"log/slog"
	"os"

	"kvstore/internal/cli"
	"kvstore/internal/config"
	"kvstore/internal/logger"
	"kvstore/internal/store"
)

func main() {
	var cfg config.Store
	if err := config.Load(&cfg); err != nil {
		slog.Error("load configuration", logger.Error(err))
		os.Exit(1)
	}

	capacity := flag.Int("capacity", cfg.Capacity, "cache capacity")
	snapshot := flag.String("snapshot", cfg.SnapshotPath, "snapshot file path (empty disables persistence)")
	flag.Parse()

	log := slog.New(slog.NewTextHandler(os.Stderr, nil)).With(logger.Component("kvstore"))

	st, err := store.New(store.Config{
		Capacity:     *capacity,
		SnapshotPath: *snapshot,
		Logger:       log,
	})
	if err != nil {
		log.Error("create store", logger.Error(err))
		os.Exit(1)
	}

	shell := cli.New(st, os.Stdin, os.Stdout)
	err = shell.Run()

	// Close saves the final snapshot; run it before deciding the exit code.
	st.Close()
	if err != nil {
		log.Error("shell terminated", logger.Error(err))
		os.Exit(1)
	}
}
