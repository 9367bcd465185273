// Package localstore is the on-device key/value store the client uses for
// guest data and as the cache behind remote sync. Values are JSON documents,
// mirroring the browser localStorage the web client uses.
package localstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// Keys for the persisted client state.
const (
	KeySettings = "zenfocus_settings"
	KeyTasks    = "zenfocus_tasks"
	KeySessions = "zenfocus_sessions"
	KeyTheme    = "zenfocus_theme"
	KeyToken    = "zenfocus_token"
	KeyUser     = "zenfocus_user"
)

// ErrNotFound is returned by Get when the key has never been written.
var ErrNotFound = errors.New("localstore: key not found")

// Store is a JSON document store. Get unmarshals the stored document into
// into; Put marshals v and replaces whatever was there.
type Store interface {
	Get(key string, into interface{}) error
	Put(key string, v interface{}) error
	Delete(key string) error
}

// Memory is an in-process Store for tests and ephemeral runs.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Get(key string, into interface{}) error {
	m.mu.RLock()
	raw, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return nil
}

func (m *Memory) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}
	m.mu.Lock()
	m.data[key] = raw
	m.mu.Unlock()
	return nil
}

func (m *Memory) Delete(key string) error {
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

// Dir stores each key as <dir>/<key>.json. Writes go through a temp file
// and rename so a crash never leaves a half-written document.
type Dir struct {
	mu  sync.Mutex
	dir string
}

func NewDir(dir string) (*Dir, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("localstore: create dir: %w", err)
	}
	return &Dir{dir: dir}, nil
}

func (d *Dir) Get(key string, into interface{}) error {
	d.mu.Lock()
	raw, err := os.ReadFile(d.path(key))
	d.mu.Unlock()
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("localstore: read %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, into); err != nil {
		return fmt.Errorf("localstore: decode %s: %w", key, err)
	}
	return nil
}

func (d *Dir) Put(key string, v interface{}) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("localstore: encode %s: %w", key, err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	tmp := d.path(key) + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o600); err != nil {
		return fmt.Errorf("localstore: write %s: %w", key, err)
	}
	if err := os.Rename(tmp, d.path(key)); err != nil {
		return fmt.Errorf("localstore: rename %s: %w", key, err)
	}
	return nil
}

func (d *Dir) Delete(key string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := os.Remove(d.path(key)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("localstore: delete %s: %w", key, err)
	}
	return nil
}

func (d *Dir) path(key string) string {
	// Keys are internal constants, but keep path traversal out anyway.
	safe := strings.ReplaceAll(key, string(filepath.Separator), "_")
	return filepath.Join(d.dir, safe+".json")
}
