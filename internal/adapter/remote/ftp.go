package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/textproto"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/jlaffaye/ftp"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
)

// FTPClient fetches dataset files from the archive's anonymous FTP server.
// A connection is dialed per operation: FTP data connections are serial, so
// sharing one control connection across concurrent fetches would not work.
type FTPClient struct {
	host    string
	dir     string
	timeout time.Duration
}

// Ensure FTPClient implements port.Transfer
var _ port.Transfer = (*FTPClient)(nil)

// NewFTPClient creates a new FTP transfer client for a parsed ftp:// URL
func NewFTPClient(u *url.URL, cfg *ClientConfig) *FTPClient {
	timeout := 5 * time.Minute
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}

	host := u.Host
	if u.Port() == "" {
		host = host + ":21"
	}

	return &FTPClient{
		host:    host,
		dir:     strings.TrimRight(u.Path, "/"),
		timeout: timeout,
	}
}

func (c *FTPClient) connect(ctx context.Context) (*ftp.ServerConn, error) {
	conn, err := ftp.Dial(c.host,
		ftp.DialWithContext(ctx),
		ftp.DialWithTimeout(30*time.Second))
	if err != nil {
		return nil, fmt.Errorf("%w: dial %s: %v", domain.ErrRemoteUnavailable, c.host, err)
	}

	if err := conn.Login("anonymous", "anonymous"); err != nil {
		conn.Quit()
		return nil, fmt.Errorf("anonymous login to %s failed: %w", c.host, err)
	}
	return conn, nil
}

// Fetch opens the named remote file for reading
func (c *FTPClient) Fetch(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)

	conn, err := c.connect(ctx)
	if err != nil {
		cancel()
		return nil, 0, err
	}

	remotePath := path.Join(c.dir, name)

	var size int64 = -1
	if n, err := conn.FileSize(remotePath); err == nil {
		size = n
	}

	resp, err := conn.Retr(remotePath)
	if err != nil {
		conn.Quit()
		cancel()
		if isFTPNotFound(err) {
			return nil, 0, fmt.Errorf("fetch %s: %w", remotePath, domain.ErrNotFound)
		}
		return nil, 0, fmt.Errorf("fetch %s: %w", remotePath, err)
	}

	return &ftpBody{resp: resp, conn: conn, cancel: cancel}, size, nil
}

// List enumerates file names in the archive directory
func (c *FTPClient) List(ctx context.Context) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	conn, err := c.connect(ctx)
	if err != nil {
		return nil, err
	}
	defer conn.Quit()

	entries, err := conn.List(c.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.Type != ftp.EntryTypeFile {
			continue
		}
		names = append(names, entry.Name)
	}
	return names, nil
}

// Close is a no-op; connections are per-operation.
func (c *FTPClient) Close() error {
	return nil
}

// ftpBody ties the data stream to its control connection so that closing
// the body also quits the session.
type ftpBody struct {
	resp   *ftp.Response
	conn   *ftp.ServerConn
	cancel context.CancelFunc
}

func (b *ftpBody) Read(p []byte) (int, error) {
	return b.resp.Read(p)
}

func (b *ftpBody) Close() error {
	err := b.resp.Close()
	b.conn.Quit()
	b.cancel()
	return err
}

// isFTPNotFound reports whether an FTP error means the file is absent.
func isFTPNotFound(err error) bool {
	var proto *textproto.Error
	if errors.As(err, &proto) {
		return proto.Code == ftp.StatusFileUnavailable
	}
	return strings.Contains(err.Error(), "550")
}
