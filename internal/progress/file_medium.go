package progress

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
)

// FileMedium keeps every key in one JSON object on disk, the terminal learner's
// equivalent of a browser profile's local storage.
type FileMedium struct {
	path   string
	mu     sync.Mutex
	values map[string]string
}

// NewFileMedium returns a medium backed by path. The file is created on first write.
func NewFileMedium(path string) *FileMedium {
	return &FileMedium{path: path}
}

func (m *FileMedium) Read(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.load(); err != nil {
		return "", false, err
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *FileMedium) Write(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := m.load(); err != nil {
		return err
	}

	next := make(map[string]string, len(m.values)+1)
	for k, v := range m.values {
		next[k] = v
	}
	next[key] = value

	if err := m.flush(next); err != nil {
		return err
	}
	m.values = next
	return nil
}

func (m *FileMedium) load() error {
	if m.values != nil {
		return nil
	}
	raw, err := os.ReadFile(m.path)
	if errors.Is(err, fs.ErrNotExist) {
		m.values = make(map[string]string)
		return nil
	}
	if err != nil {
		return fmt.Errorf("read %s: %w", m.path, err)
	}

	values := make(map[string]string)
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &values); err != nil {
			return fmt.Errorf("decode %s: %w", m.path, err)
		}
	}
	m.values = values
	return nil
}

// flush writes through a temp file and rename so a crash never leaves half a file.
func (m *FileMedium) flush(values map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return fmt.Errorf("create dir: %w", err)
	}
	raw, err := json.MarshalIndent(values, "", "  ")
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(m.path), ".progress-*")
	if err != nil {
		return fmt.Errorf("create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		return fmt.Errorf("write temp: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp: %w", err)
	}
	if err := os.Rename(tmp.Name(), m.path); err != nil {
		return fmt.Errorf("replace %s: %w", m.path, err)
	}
	return nil
}
