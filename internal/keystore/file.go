package keystore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"
	"github.com/gofrs/flock"
)

// FileStore implements Store on two plain files in a private directory:
// keys.json holds the serialized name->secret mapping, active holds the
// active key name as a bare string. This mirrors the two storage slots
// the frontend uses, so the layout stays greppable and recoverable.
type FileStore struct {
	keysPath   string
	activePath string
	lockPath   string
}

// DefaultDir returns the XDG data directory used for file-backed storage,
// typically ~/.local/share/falkey on Linux.
func DefaultDir() string {
	return filepath.Join(xdg.DataHome, "falkey")
}

// NewFileStore creates a file-backed credential store rooted at dir.
// The directory is created with 0700 permissions if missing.
func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create store directory: %w", err)
	}

	return &FileStore{
		keysPath:   filepath.Join(dir, "keys.json"),
		activePath: filepath.Join(dir, "active"),
		lockPath:   filepath.Join(dir, ".lock"),
	}, nil
}

// withLock runs fn while holding the store's file lock exclusively.
// Writes go through here so a reader never sees a half-written file.
// Whole read-modify-write cycles are not transactional; the store
// assumes a single mutating process at a time.
func (s *FileStore) withLock(fn func() error) error {
	return s.locked(fn, func(l *flock.Flock, ctx context.Context) (bool, error) {
		return l.TryLockContext(ctx, 100*time.Millisecond)
	})
}

// withRLock runs fn while holding the store's file lock shared, so
// reads don't observe a write in progress.
func (s *FileStore) withRLock(fn func() error) error {
	return s.locked(fn, func(l *flock.Flock, ctx context.Context) (bool, error) {
		return l.TryRLockContext(ctx, 100*time.Millisecond)
	})
}

func (s *FileStore) locked(fn func() error, acquire func(*flock.Flock, context.Context) (bool, error)) error {
	lock := flock.New(s.lockPath)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	locked, err := acquire(lock, ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire store lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("failed to acquire store lock: timeout")
	}
	defer lock.Unlock()

	return fn()
}

// LoadAll reads and parses keys.json. A missing, empty, or unparseable
// file yields an empty set rather than an error: local state that can't
// be read is indistinguishable from state that was never written.
func (s *FileStore) LoadAll() (map[string]string, error) {
	keys := make(map[string]string)

	err := s.withRLock(func() error {
		data, err := os.ReadFile(s.keysPath)
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return fmt.Errorf("failed to read key file: %w", err)
		}

		if len(data) == 0 {
			return nil
		}

		var parsed map[string]string
		if err := json.Unmarshal(data, &parsed); err != nil {
			// Corrupt blob, start over empty.
			return nil
		}
		for name, secret := range parsed {
			keys[name] = secret
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return keys, nil
}

// SaveAll serializes the full mapping and overwrites keys.json.
func (s *FileStore) SaveAll(keys map[string]string) error {
	return s.withLock(func() error {
		data, err := json.MarshalIndent(keys, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to serialize keys: %w", err)
		}

		if err := os.WriteFile(s.keysPath, data, 0600); err != nil {
			return fmt.Errorf("failed to write key file: %w", err)
		}

		return nil
	})
}

// ActiveName returns the persisted active key name, or "" when unset or
// unreadable.
func (s *FileStore) ActiveName() string {
	var name string
	_ = s.withRLock(func() error {
		data, err := os.ReadFile(s.activePath)
		if err != nil {
			return nil
		}
		name = strings.TrimSpace(string(data))
		return nil
	})
	return name
}

// SetActiveName persists the active name. An empty name is written as-is
// and reads back as "no active credential".
func (s *FileStore) SetActiveName(name string) error {
	return s.withLock(func() error {
		if err := os.WriteFile(s.activePath, []byte(name), 0600); err != nil {
			return fmt.Errorf("failed to write active name: %w", err)
		}
		return nil
	})
}
