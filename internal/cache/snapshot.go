package cache

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
)

// Snapshot binary layout (all integers little-endian):
//
//	u32 version (currently 1)
//	u32 entry count
//	per entry, ordered from most to least recently used:
//	    u32 key length, key bytes, u32 value length, value bytes
//
// Writing MRU first means a load reproduces not just the key-value content
// but the exact recency order, so eviction behaves the same after a restart.
const snapshotVersion = 1

// maxBlobLen bounds a single key or value read from disk. Anything larger is
// treated as a corrupt file rather than an allocation request.
const maxBlobLen = 1 << 30

type snapshotEntry struct {
	key   string
	value []byte
}

// SaveSnapshot serializes the full cache content to path under one exclusive
// lock acquisition. The file is written to a temporary sibling and renamed
// into place, so a crash mid-write never leaves a partial snapshot behind.
func (c *Cache) SaveSnapshot(path string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create snapshot file: %w", err)
	}

	w := bufio.NewWriter(file)
	if err := c.encodeLocked(w); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := w.Flush(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("flush snapshot: %w", err)
	}
	if err := file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("sync snapshot: %w", err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close snapshot file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

// LoadSnapshot replaces the cache content with the entries stored at path.
// It returns (true, nil) when a snapshot was applied and (false, nil) when
// there was nothing usable to load: a missing file, a truncated or corrupt
// file, or an unsupported format version. In every not-loaded case the
// current content is left untouched; the file is fully decoded and validated
// before any state is replaced.
//
// At most capacity entries are read. The file's entry order becomes the new
// recency order, first entry most recently used.
func (c *Cache) LoadSnapshot(path string) (bool, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("open snapshot file: %w", err)
	}
	defer file.Close()

	entries, ok := decodeSnapshot(bufio.NewReader(file), c.capacity)
	if !ok {
		return false, nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.reset()
	for _, e := range entries {
		if _, dup := c.index[e.key]; dup {
			// First occurrence is the more recent one; keep it.
			continue
		}
		h := c.alloc(e.key, e.value)
		c.pushBack(h)
		c.index[e.key] = h
	}
	return true, nil
}

// encodeLocked writes the header and all entries MRU to LRU.
// Caller holds the lock.
func (c *Cache) encodeLocked(w io.Writer) error {
	var header [8]byte
	binary.LittleEndian.PutUint32(header[0:4], snapshotVersion)
	binary.LittleEndian.PutUint32(header[4:8], uint32(len(c.index)))
	if _, err := w.Write(header[:]); err != nil {
		return err
	}

	for h := c.head; h != noHandle; h = c.slots[h].next {
		s := &c.slots[h]
		if err := writeBlob(w, []byte(s.key)); err != nil {
			return err
		}
		if err := writeBlob(w, s.value); err != nil {
			return err
		}
	}
	return nil
}

// decodeSnapshot reads and validates an entire snapshot, returning at most
// capacity entries in file order. Any structural problem, including a wrong
// version, reports !ok without partial results.
func decodeSnapshot(r io.Reader, capacity int) ([]snapshotEntry, bool) {
	var header [8]byte
	if _, err := io.ReadFull(r, header[:]); err != nil {
		return nil, false
	}
	if binary.LittleEndian.Uint32(header[0:4]) != snapshotVersion {
		return nil, false
	}

	count := int(binary.LittleEndian.Uint32(header[4:8]))
	if count > capacity {
		count = capacity
	}

	entries := make([]snapshotEntry, 0, count)
	for i := 0; i < count; i++ {
		key, ok := readBlob(r)
		if !ok {
			return nil, false
		}
		value, ok := readBlob(r)
		if !ok {
			return nil, false
		}
		entries = append(entries, snapshotEntry{key: string(key), value: value})
	}
	return entries, true
}

func writeBlob(w io.Writer, b []byte) error {
	var length [4]byte
	binary.LittleEndian.PutUint32(length[:], uint32(len(b)))
	if _, err := w.Write(length[:]); err != nil {
		return err
	}
	_, err := w.Write(b)
	return err
}

func readBlob(r io.Reader) ([]byte, bool) {
	var length [4]byte
	if _, err := io.ReadFull(r, length[:]); err != nil {
		return nil, false
	}
	n := binary.LittleEndian.Uint32(length[:])
	if n > maxBlobLen {
		return nil, false
	}
	b := make([]byte, n)
	if _, err := io.ReadFull(r, b); err != nil {
		return nil, false
	}
	return b, true
}
