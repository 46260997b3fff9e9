package port

import (
	"context"
	"io"
)

// Transfer pulls dataset files from the remote archive.
type Transfer interface {
	// Fetch opens the named remote file for reading. The returned size is
	// -1 when the server does not report one. Missing remote files yield an
	// error wrapping domain.ErrNotFound.
	Fetch(ctx context.Context, name string) (io.ReadCloser, int64, error)

	// List enumerates the file names present under the source's base
	// location. Not every backend can list; those return an error wrapping
	// domain.ErrRemoteUnavailable.
	List(ctx context.Context) ([]string, error)

	// Close releases any underlying connection.
	Close() error
}
