package cache_test

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"kvstore/internal/cache"
)

func snapPath(t *testing.T) string {
	t.Helper()
	return filepath.Join(t.TempDir(), "kvstore.snap")
}

func TestSnapshot_RoundTrip(t *testing.T) {
	t.Parallel()

	path := snapPath(t)

	c, err := cache.New(10)
	require.NoError(t, err)

	c.Put("alpha", []byte("1"))
	c.Put("beta", []byte("2"))
	c.Put("gamma", []byte{0x00, 0xff, 0x10}) // values are arbitrary bytes

	require.NoError(t, c.SaveSnapshot(path))
	c.Clear()
	require.True(t, c.Empty())

	loaded, err := c.LoadSnapshot(path)
	require.NoError(t, err)
	require.True(t, loaded)

	assert.Equal(t, 3, c.Len())
	for key, want := range map[string][]byte{
		"alpha": []byte("1"),
		"beta":  []byte("2"),
		"gamma": {0x00, 0xff, 0x10},
	} {
		got, ok := c.Get(key)
		require.True(t, ok, "key %s must survive the round trip", key)
		assert.Equal(t, want, got)
	}
}

func TestSnapshot_PreservesRecencyOrder(t *testing.T) {
	t.Parallel()

	path := snapPath(t)

	c, err := cache.New(3)
	require.NoError(t, err)

	c.Put("a", []byte("A"))
	c.Put("b", []byte("B"))
	c.Put("c", []byte("C"))
	_, ok := c.Get("a") // order is now a, c, b (MRU to LRU)
	require.True(t, ok)

	require.NoError(t, c.SaveSnapshot(path))

	restored, err := cache.New(3)
	require.NoError(t, err)
	loaded, err := restored.LoadSnapshot(path)
	require.NoError(t, err)
	require.True(t, loaded)

	require.Equal(t, []string{"a", "c", "b"}, restored.Keys())

	// Eviction immediately after a load must pick the restored LRU.
	restored.Put("d", []byte("D"))
	_, ok = restored.Get("b")
	assert.False(t, ok, "b was LRU in the snapshot and must be evicted first")
}

func TestSnapshot_LoadTruncatesToCapacity(t *testing.T) {
	t.Parallel()

	path := snapPath(t)

	big, err := cache.New(10)
	require.NoError(t, err)
	for _, k := range []string{"e", "d", "c", "b", "a"} {
		big.Put(k, []byte(k))
	}
	// MRU to LRU on disk: a, b, c, d, e.
	require.NoError(t, big.SaveSnapshot(path))

	small, err := cache.New(3)
	require.NoError(t, err)
	loaded, err := small.LoadSnapshot(path)
	require.NoError(t, err)
	require.True(t, loaded)

	assert.Equal(t, 3, small.Len())
	assert.Equal(t, []string{"a", "b", "c"}, small.Keys(), "the most recently used entries win the truncation")
}

func TestSnapshot_LoadMissingFile(t *testing.T) {
	t.Parallel()

	c, err := cache.New(5)
	require.NoError(t, err)
	c.Put("k", []byte("v"))

	loaded, err := c.LoadSnapshot(filepath.Join(t.TempDir(), "nope.snap"))
	require.NoError(t, err)
	assert.False(t, loaded)

	// A fresh start is not an error and must not touch current content.
	assert.Equal(t, 1, c.Len())
}

func TestSnapshot_WrongVersionLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	path := snapPath(t)

	// A structurally valid file with an unsupported version.
	var buf [8]byte
	binary.LittleEndian.PutUint32(buf[0:4], 99)
	binary.LittleEndian.PutUint32(buf[4:8], 0)
	require.NoError(t, os.WriteFile(path, buf[:], 0o644))

	c, err := cache.New(5)
	require.NoError(t, err)
	c.Put("keep", []byte("me"))

	loaded, err := c.LoadSnapshot(path)
	require.NoError(t, err)
	assert.False(t, loaded)

	v, ok := c.Get("keep")
	require.True(t, ok, "a failed load must not clear existing entries")
	assert.Equal(t, []byte("me"), v)
}

func TestSnapshot_TruncatedFileLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	path := snapPath(t)

	c, err := cache.New(5)
	require.NoError(t, err)
	c.Put("a", []byte("A"))
	c.Put("b", []byte("B"))
	require.NoError(t, c.SaveSnapshot(path))

	// Chop the file mid-entry.
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, raw[:len(raw)-3], 0o644))

	c.Put("c", []byte("C"))
	loaded, err := c.LoadSnapshot(path)
	require.NoError(t, err)
	assert.False(t, loaded)
	assert.Equal(t, 3, c.Len())
}

func TestSnapshot_EmptyCache(t *testing.T) {
	t.Parallel()

	path := snapPath(t)

	c, err := cache.New(5)
	require.NoError(t, err)
	require.NoError(t, c.SaveSnapshot(path))

	c.Put("k", []byte("v"))
	loaded, err := c.LoadSnapshot(path)
	require.NoError(t, err)
	require.True(t, loaded)
	assert.True(t, c.Empty(), "loading an empty snapshot replaces current content")
}

func TestSnapshot_SaveErrorPropagates(t *testing.T) {
	t.Parallel()

	c, err := cache.New(5)
	require.NoError(t, err)
	c.Put("k", []byte("v"))

	err = c.SaveSnapshot(filepath.Join(t.TempDir(), "no", "such", "dir", "f.snap"))
	require.Error(t, err)
}

func TestSnapshot_BinaryKeysAndValues(t *testing.T) {
	t.Parallel()

	path := snapPath(t)

	c, err := cache.New(4)
	require.NoError(t, err)

	key := string([]byte{0x01, 0x02, 0xfe})
	c.Put(key, []byte{})
	c.Put("empty-value", nil)

	require.NoError(t, c.SaveSnapshot(path))
	c.Clear()

	loaded, err := c.LoadSnapshot(path)
	require.NoError(t, err)
	require.True(t, loaded)

	v, ok := c.Get(key)
	require.True(t, ok, "non-UTF-8 keys must round-trip")
	assert.Empty(t, v)

	_, ok = c.Get("empty-value")
	assert.True(t, ok)
}
