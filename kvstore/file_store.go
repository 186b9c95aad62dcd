/*
Copyright © 2026 Nautilus One.

Released under MIT license.
*/

package kvstore

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"
)

const fileStoreExt = ".kv"

// FileStore keeps every key in a separate file inside a directory.
// Writes are atomic: the value is written into a temporary file which is then renamed.
type FileStore struct {
	mu  sync.Mutex
	fs  afero.Fs
	dir string
}

var _ Store = (*FileStore)(nil)

// NewFileStore creates a new FileStore rooted at dir. The directory is created if it doesn't exist.
func NewFileStore(fs afero.Fs, dir string) (*FileStore, error) {
	if err := fs.MkdirAll(dir, 0o750); err != nil {
		return nil, fmt.Errorf("create store directory %q: %w", dir, err)
	}
	return &FileStore{fs: fs, dir: dir}, nil
}

func (s *FileStore) path(key string) string {
	return filepath.Join(s.dir, url.PathEscape(key)+fileStoreExt)
}

// Get implements Store.
func (s *FileStore) Get(_ context.Context, key string) (string, bool, error) {
	data, err := afero.ReadFile(s.fs, s.path(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("read key %q: %w", key, err)
	}
	return string(data), true, nil
}

// Set implements Store.
func (s *FileStore) Set(_ context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := afero.TempFile(s.fs, s.dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temporary file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.WriteString(value); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write key %q: %w", key, err)
	}
	if err = tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write key %q: %w", key, err)
	}
	if err = s.fs.Rename(tmpName, s.path(key)); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("write key %q: %w", key, err)
	}
	return nil
}

// Delete implements Store.
func (s *FileStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.fs.Remove(s.path(key)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("delete key %q: %w", key, err)
	}
	return nil
}
