package filesystem

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
)

// Manager handles the local data directory
type Manager struct {
	dataDir    string
	bufferSize int
}

// Ensure Manager implements port.FileSystem
var _ port.FileSystem = (*Manager)(nil)

// NewManager creates a new data directory manager
func NewManager(dataDir string) (*Manager, error) {
	return NewManagerWithBufferSize(dataDir, 1*1024*1024) // 1MB default
}

// NewManagerWithBufferSize creates a new manager with a custom copy buffer size
func NewManagerWithBufferSize(dataDir string, bufferSize int) (*Manager, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}

	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve data dir: %w", err)
	}

	if bufferSize <= 0 {
		bufferSize = 1 * 1024 * 1024
	}

	return &Manager{
		dataDir:    abs,
		bufferSize: bufferSize,
	}, nil
}

// DataDir returns the data directory
func (m *Manager) DataDir() string {
	return m.dataDir
}

// Path returns the full local path for a data file name
func (m *Manager) Path(name string) string {
	return filepath.Join(m.dataDir, name)
}

// Exists reports whether a data file is present
func (m *Manager) Exists(name string) bool {
	info, err := os.Stat(m.Path(name))
	return err == nil && !info.IsDir()
}

// Write streams content into the named data file. The content goes to a
// temporary file first and is renamed into place once fully written, so a
// failed transfer never leaves a partial data file behind.
func (m *Manager) Write(name string, r io.Reader) (string, int64, error) {
	finalPath := m.Path(name)
	tempPath := finalPath + ".downloading"

	f, err := os.Create(tempPath)
	if err != nil {
		return "", 0, fmt.Errorf("failed to create temp file: %w", err)
	}

	buf := make([]byte, m.bufferSize)
	written, err := io.CopyBuffer(f, r, buf)
	if err != nil {
		f.Close()
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to write %s: %w", name, err)
	}

	if err := f.Close(); err != nil {
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to close temp file: %w", err)
	}

	if err := os.Rename(tempPath, finalPath); err != nil {
		os.Remove(tempPath)
		return "", 0, fmt.Errorf("failed to move %s into place: %w", name, err)
	}

	return finalPath, written, nil
}

// Open opens a data file for reading
func (m *Manager) Open(name string) (io.ReadCloser, error) {
	f, err := os.Open(m.Path(name))
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Glob returns the data file names matching a shell pattern, sorted
func (m *Manager) Glob(pattern string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(m.dataDir, pattern))
	if err != nil {
		return nil, fmt.Errorf("bad glob pattern %q: %w", pattern, err)
	}

	names := make([]string, 0, len(matches))
	for _, match := range matches {
		info, err := os.Stat(match)
		if err != nil || info.IsDir() {
			continue
		}
		names = append(names, filepath.Base(match))
	}
	sort.Strings(names)
	return names, nil
}

// Remove deletes a data file
func (m *Manager) Remove(name string) error {
	return os.Remove(m.Path(name))
}
