package storage

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// FileArea persists a JSON object to disk with owner-only permissions. Every call
// re-reads the file so separate processes see each other's writes.
type FileArea struct {
	mu   sync.Mutex
	path string
}

var _ Area = (*FileArea)(nil)

func NewFileArea(path string) *FileArea {
	return &FileArea{path: path}
}

// Path returns the backing file location.
func (f *FileArea) Path() string { return f.path }

// Get returns false for a missing key and also when the file is unreadable or corrupt.
func (f *FileArea) Get(key string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		return "", false
	}
	v, ok := values[key]
	return v, ok
}

func (f *FileArea) Set(key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	if err != nil {
		// A corrupt file is replaced rather than blocking new writes.
		values = make(map[string]string)
	}
	values[key] = value
	return f.store(values)
}

func (f *FileArea) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.load()
	switch {
	case errors.Is(err, os.ErrNotExist):
		return nil
	case err != nil:
		values = make(map[string]string)
	default:
		if _, ok := values[key]; !ok {
			return nil
		}
	}
	delete(values, key)
	return f.store(values)
}

func (f *FileArea) load() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		return nil, err
	}
	values := make(map[string]string)
	if err := json.Unmarshal(data, &values); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", f.path, err)
	}
	return values, nil
}

func (f *FileArea) store(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("creating %s: %w", filepath.Dir(f.path), err)
	}
	data, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return err
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".session-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o600); err != nil {
		return err
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("replacing %s: %w", f.path, err)
	}
	return nil
}
