package port

import "io"

// FileSystem handles the local data directory. Names are plain file names
// relative to the data directory, never paths.
type FileSystem interface {
	// DataDir returns the absolute data directory.
	DataDir() string

	// Path returns the full local path for a data file name.
	Path(name string) string

	// Exists reports whether a data file is present.
	Exists(name string) bool

	// Write streams r into the named data file via a temporary file and
	// rename, returning the final path and bytes written.
	Write(name string, r io.Reader) (string, int64, error)

	// Open opens a data file for reading.
	Open(name string) (io.ReadCloser, error)

	// Glob returns the data file names matching a shell pattern, sorted.
	Glob(pattern string) ([]string, error)

	// Remove deletes a data file.
	Remove(name string) error
}
