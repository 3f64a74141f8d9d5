// Package store keeps named string entries across sessions, the way a
// browser keeps cookies: one value per name, no history.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
)

// File stores entries in a small JSON document on disk. Every Set and
// Delete rewrites the document.
type File struct {
	mu      sync.Mutex
	path    string
	entries map[string]string
}

// Open reads the document at path. A missing file is an empty store.
func Open(path string) (*File, error) {
	f := &File{
		path:    path,
		entries: make(map[string]string),
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("error reading store %s: %w", path, err)
	}
	if len(data) == 0 {
		return f, nil
	}
	if err := json.Unmarshal(data, &f.entries); err != nil {
		return nil, fmt.Errorf("error decoding store %s: %w", path, err)
	}
	if f.entries == nil {
		f.entries = make(map[string]string)
	}
	return f, nil
}

// Path returns the backing file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(name string) (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	v, ok := f.entries[name]
	return v, ok
}

func (f *File) Set(name, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.entries[name] = value
	return f.flushLocked()
}

// Delete removes the entry. Deleting a missing entry is not an error.
func (f *File) Delete(name string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.entries[name]; !ok {
		return nil
	}
	delete(f.entries, name)
	return f.flushLocked()
}

func (f *File) flushLocked() error {
	data, err := json.MarshalIndent(f.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("error encoding store: %w", err)
	}

	if dir := filepath.Dir(f.path); dir != "" {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("error creating store directory: %w", err)
		}
	}

	// Write next to the target and rename so a crash never leaves half a document.
	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("error writing store: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("error replacing store: %w", err)
	}
	return nil
}

// Memory is an in-process store, lost on exit.
type Memory struct {
	mu      sync.Mutex
	entries map[string]string
}

func NewMemory() *Memory {
	return &Memory{entries: make(map[string]string)}
}

func (m *Memory) Get(name string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.entries[name]
	return v, ok
}

func (m *Memory) Set(name, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[name] = value
	return nil
}

func (m *Memory) Delete(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, name)
	return nil
}

// DefaultPath returns the state file under the user's config directory,
// falling back to the working directory.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "midireg.json"
	}
	return filepath.Join(dir, "midireg", "state.json")
}
