// Package token persists the bearer token that authenticates hearth with
// the rental API. The token lives under a single fixed key in a TOML file
// (~/.local/state/hearth/token.toml by default) so it survives restarts.
package token

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	toml "github.com/pelletier/go-toml/v2"
)

// Key is the fixed key the token is stored under.
const Key = "hearth-token"

const defaultPath = "~/.local/state/hearth/token.toml"

// Store persists, retrieves and deletes a single opaque token.
type Store interface {
	Get() string
	Save(token string) error
	Drop() error
}

var (
	_ Store = (*File)(nil)
	_ Store = (*Memory)(nil)
)

// File is a Store backed by a TOML file. Reads are cached after the first
// successful load.
type File struct {
	path string

	mu     sync.Mutex
	loaded bool
	value  string
}

// DefaultPath returns the default token file location.
func DefaultPath() string {
	return defaultPath
}

// NewFile returns a File store at path, expanding a leading tilde. An empty
// path selects DefaultPath.
func NewFile(path string) (*File, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPath
	}
	resolved, err := expandPath(path)
	if err != nil {
		return nil, err
	}
	return &File{path: resolved}, nil
}

// Path returns the resolved file location.
func (f *File) Path() string {
	return f.path
}

// Get returns the stored token or "" when nothing is stored or the file
// cannot be read.
func (f *File) Get() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loaded {
		return f.value
	}
	raw, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			f.loaded = true
		}
		return ""
	}
	var doc map[string]string
	if err := toml.Unmarshal(raw, &doc); err != nil {
		return ""
	}
	f.value = strings.TrimSpace(doc[Key])
	f.loaded = true
	return f.value
}

// Save writes token to disk, replacing any previous value.
func (f *File) Save(token string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create token dir: %w", err)
	}
	raw, err := toml.Marshal(map[string]string{Key: token})
	if err != nil {
		return fmt.Errorf("marshal token: %w", err)
	}
	if err := os.WriteFile(f.path, raw, 0o600); err != nil {
		return fmt.Errorf("write token: %w", err)
	}
	f.value = token
	f.loaded = true
	return nil
}

// Drop removes the stored token. Dropping when nothing is stored is not an
// error.
func (f *File) Drop() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.value = ""
	f.loaded = true
	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove token: %w", err)
	}
	return nil
}

// Memory is an in-process Store for tests.
type Memory struct {
	mu    sync.Mutex
	value string
}

// Get returns the stored token.
func (m *Memory) Get() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.value
}

// Save stores token.
func (m *Memory) Save(token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = token
	return nil
}

// Drop clears the token.
func (m *Memory) Drop() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.value = ""
	return nil
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
