// Package snapshot persists normalized cache snapshots between runs, so a
// long-lived session can start from the data it had when it last exited.
package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/duboisf/donate/internal/cache"
)

// Store keeps one JSON file per snapshot name, expired by file mtime.
type Store struct {
	Dir string
	TTL time.Duration
}

// New creates a Store rooted at dir. A TTL of zero never expires.
func New(dir string, ttl time.Duration) *Store {
	return &Store{Dir: dir, TTL: ttl}
}

// DefaultDir returns the donate directory under the user cache dir.
func DefaultDir() (string, error) {
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("determining cache directory: %w", err)
	}
	return filepath.Join(dir, "donate"), nil
}

func (s *Store) path(name string) (string, error) {
	if name == "" || strings.ContainsAny(name, `/\`) || name == "." || name == ".." {
		return "", fmt.Errorf("invalid snapshot name %q", name)
	}
	return filepath.Join(s.Dir, name+".json"), nil
}

// Load reads the snapshot stored under name. It reports false when there is
// none or it is older than the TTL. A file that does not decode is an error.
func (s *Store) Load(name string) (cache.Snapshot, bool, error) {
	path, err := s.path(name)
	if err != nil {
		return nil, false, err
	}
	info, err := os.Stat(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot: %w", err)
	}
	if s.TTL > 0 && time.Since(info.ModTime()) > s.TTL {
		return nil, false, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, false, fmt.Errorf("reading snapshot: %w", err)
	}
	var snap cache.Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false, fmt.Errorf("decoding snapshot %s: %w", name, err)
	}
	return snap, true, nil
}

// Save atomically writes snap under name. It writes to a temp file first
// then renames, so concurrent readers never see a partial write.
func (s *Store) Save(name string, snap cache.Snapshot) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	if err := os.MkdirAll(s.Dir, 0o700); err != nil {
		return fmt.Errorf("creating cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(s.Dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("writing snapshot: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}

// Clear removes every stored snapshot and returns how many were removed.
func (s *Store) Clear() (int, error) {
	entries, err := os.ReadDir(s.Dir)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("listing snapshots: %w", err)
	}
	n := 0
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		if err := os.Remove(filepath.Join(s.Dir, e.Name())); err != nil {
			return n, fmt.Errorf("removing snapshot: %w", err)
		}
		n++
	}
	return n, nil
}
