// Package config loads settings from environment variables into tagged
// structs. A .env file in the working directory is picked up once, before
// the first parse, and is entirely optional.
package config

import (
	"fmt"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

var dotenvOnce sync.Once

// Store holds the settings shared by every kvstore entry point.
type Store struct {
	// Capacity is the maximum number of cache entries.
	Capacity int `env:"KVSTORE_CAPACITY" envDefault:"1000"`

	// SnapshotPath is the snapshot file; empty disables persistence.
	SnapshotPath string `env:"KVSTORE_SNAPSHOT" envDefault:"kvstore.snap"`
}

// Server holds the HTTP API settings.
type Server struct {
	Addr string `env:"KVSERVER_ADDR" envDefault:":8080"`
}

// Load parses environment variables into cfg, which must be a pointer to a
// struct with env tags.
func Load(cfg any) error {
	dotenvOnce.Do(func() {
		_ = godotenv.Load()
	})
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parse environment: %w", err)
	}
	return nil
}

// MustLoad is Load for startup paths where a bad environment is fatal.
func MustLoad(cfg any) {
	if err := Load(cfg); err != nil {
		panic(err)
	}
}
