package session

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

// Backend persists the raw session record.
// Read returns fs.ErrNotExist when nothing has been stored.
type Backend interface {
	Read() ([]byte, error)
	Write(data []byte) error
	Remove() error
}

// FileBackend stores the session record in a single file.
type FileBackend struct {
	path string
}

// NewFileBackend returns a backend writing to path. The parent directory is
// created on first write.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

// Path returns the file location.
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Read() ([]byte, error) {
	return os.ReadFile(b.path)
}

// Write replaces the file atomically: the record is written to a sibling
// temp file and renamed over the old one.
func (b *FileBackend) Write(data []byte) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0o700); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}
	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return fmt.Errorf("write session: %w", err)
	}
	if err := os.Rename(tmp, b.path); err == nil {
		return nil
	}
	defer os.Remove(tmp) //nolint:errcheck

	if runtime.GOOS == "windows" {
		_ = os.Remove(b.path)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (b *FileBackend) Remove() error {
	if err := os.Remove(b.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// MemoryBackend keeps the record in memory. FailRead makes Read fail, to
// simulate unavailable storage.
type MemoryBackend struct {
	mu       sync.Mutex
	data     []byte
	FailRead error
}

func (b *MemoryBackend) Read() ([]byte, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.FailRead != nil {
		return nil, b.FailRead
	}
	if b.data == nil {
		return nil, fs.ErrNotExist
	}
	return append([]byte(nil), b.data...), nil
}

func (b *MemoryBackend) Write(data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = append([]byte(nil), data...)
	return nil
}

func (b *MemoryBackend) Remove() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.data = nil
	return nil
}
