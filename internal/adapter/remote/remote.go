// Package remote provides transfer clients for the GPCP data archive.
// The archive is published both over plain FTP and through HTTP mirrors
// with index pages, so both schemes are supported behind port.Transfer.
package remote

import (
	"fmt"
	"net/url"
	"time"

	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
)

// ClientConfig contains optional transfer client configuration
type ClientConfig struct {
	Timeout    time.Duration // per-transfer timeout (default: 5m)
	BufferSize int           // read buffer size in bytes (default: 1MB)
}

// NewClient creates a transfer client for the base URL, chosen by scheme.
func NewClient(baseURL string, cfg *ClientConfig) (port.Transfer, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	switch u.Scheme {
	case "http", "https":
		return NewHTTPClient(baseURL, cfg), nil
	case "ftp":
		return NewFTPClient(u, cfg), nil
	default:
		return nil, fmt.Errorf("unsupported scheme %q in base URL", u.Scheme)
	}
}
