// Package cache implements the two shared-resource caches spec.md §5
// calls for: a moka-style in-memory ref/tag cache keyed by owner/repo,
// and a content-addressed on-disk response cache. Both are read-mostly
// with atomic per-key writes.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/puzpuzpuz/xsync/v3"
)

// Memory is a generic concurrent read-mostly cache, backed by
// puzpuzpuz/xsync's lock-free MapOf the way moka's own sharded map
// avoids a single mutex becoming a bottleneck under the audit runner's
// fan-out across inputs (spec §5 "Shared resources").
type Memory[V any] struct {
	m *xsync.MapOf[string, V]
}

// NewMemory creates an empty in-memory cache.
func NewMemory[V any]() *Memory[V] {
	return &Memory[V]{m: xsync.NewMapOf[string, V]()}
}

// Get returns the cached value for key, if present.
func (c *Memory[V]) Get(key string) (V, bool) {
	return c.m.Load(key)
}

// Set stores v under key, overwriting any previous value.
func (c *Memory[V]) Set(key string, v V) {
	c.m.Store(key, v)
}

// GetOrCompute returns the cached value for key, computing and storing it
// via compute if absent. Concurrent calls for distinct keys never block
// each other; concurrent calls for the same key may both invoke compute
// (last write wins), which is acceptable for a read-mostly ref cache.
func (c *Memory[V]) GetOrCompute(key string, compute func() (V, error)) (V, error) {
	if v, ok := c.m.Load(key); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		var zero V
		return zero, err
	}
	c.m.Store(key, v)
	return v, nil
}

// Disk is a content-addressed on-disk cache for oracle HTTP responses,
// keyed by a sha256 of the logical request key. Writes are atomic per key
// (write to a temp file, then rename), matching the write-then-rename
// idiom used throughout the teacher's pkg/fileutil helpers.
type Disk struct {
	dir string
}

// NewDisk creates a disk cache rooted at dir. An empty dir disables the
// cache: Get always misses and Set is a no-op.
func NewDisk(dir string) *Disk {
	return &Disk{dir: dir}
}

func (d *Disk) path(key string) string {
	sum := sha256.Sum256([]byte(key))
	return filepath.Join(d.dir, hex.EncodeToString(sum[:]))
}

// Get returns the cached bytes for key, if the disk cache is enabled and
// the entry exists.
func (d *Disk) Get(key string) ([]byte, bool) {
	if d.dir == "" {
		return nil, false
	}
	raw, err := os.ReadFile(d.path(key))
	if err != nil {
		return nil, false
	}
	return raw, true
}

// Set writes data for key atomically. A no-op if the disk cache is
// disabled.
func (d *Disk) Set(key string, data []byte) error {
	if d.dir == "" {
		return nil
	}
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(d.dir, "tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return err
	}
	return os.Rename(tmpPath, d.path(key))
}
