package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvstore/internal/config"
)

// unsetenv clears a variable for the test while keeping t.Setenv's restore
// behavior.
func unsetenv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestLoad_StoreDefaults(t *testing.T) {
	unsetenv(t, "KVSTORE_CAPACITY")
	unsetenv(t, "KVSTORE_SNAPSHOT")

	var cfg config.Store
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 1000, cfg.Capacity)
	assert.Equal(t, "kvstore.snap", cfg.SnapshotPath)
}

func TestLoad_StoreOverrides(t *testing.T) {
	t.Setenv("KVSTORE_CAPACITY", "42")
	t.Setenv("KVSTORE_SNAPSHOT", "/tmp/custom.snap")

	var cfg config.Store
	require.NoError(t, config.Load(&cfg))

	assert.Equal(t, 42, cfg.Capacity)
	assert.Equal(t, "/tmp/custom.snap", cfg.SnapshotPath)
}

func TestLoad_ServerDefaults(t *testing.T) {
	unsetenv(t, "KVSERVER_ADDR")

	var cfg config.Server
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, ":8080", cfg.Addr)
}

func TestLoad_InvalidValue(t *testing.T) {
	t.Setenv("KVSTORE_CAPACITY", "not-a-number")

	var cfg config.Store
	require.Error(t, config.Load(&cfg))
}
