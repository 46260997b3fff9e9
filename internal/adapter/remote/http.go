package remote

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/net/html"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
)

// HTTPClient fetches dataset files from an HTTP(S) mirror of the archive.
type HTTPClient struct {
	baseURL    string
	httpClient *http.Client
}

// Ensure HTTPClient implements port.Transfer
var _ port.Transfer = (*HTTPClient)(nil)

// NewHTTPClient creates a new HTTP transfer client
func NewHTTPClient(baseURL string, cfg *ClientConfig) *HTTPClient {
	timeout := 5 * time.Minute
	bufferSize := 1 * 1024 * 1024
	if cfg != nil && cfg.Timeout > 0 {
		timeout = cfg.Timeout
	}
	if cfg != nil && cfg.BufferSize > 0 {
		bufferSize = cfg.BufferSize
	}

	transport := &http.Transport{
		MaxIdleConns:        10,
		MaxIdleConnsPerHost: 2,
		IdleConnTimeout:     90 * time.Second,

		// Dataset files are already gzip compressed
		DisableCompression: true,

		ReadBufferSize:        bufferSize,
		ResponseHeaderTimeout: 30 * time.Second,
	}

	return &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: transport,
			Timeout:   timeout,
		},
	}
}

// Fetch opens the named remote file for reading
func (c *HTTPClient) Fetch(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	ref := c.baseURL + "/" + name

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ref, nil)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to build request for %s: %w", ref, err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("fetch %s: %w", ref, err)
	}

	switch {
	case resp.StatusCode == http.StatusOK:
		return resp.Body, resp.ContentLength, nil
	case resp.StatusCode == http.StatusNotFound:
		resp.Body.Close()
		return nil, 0, fmt.Errorf("fetch %s: %w", ref, domain.ErrNotFound)
	default:
		resp.Body.Close()
		return nil, 0, fmt.Errorf("fetch %s: HTTP %d", ref, resp.StatusCode)
	}
}

// List fetches the base URL as an HTML index page and returns the file
// names found in its anchors. Query strings and directory links are
// skipped; the caller filters for dataset naming.
func (c *HTTPClient) List(ctx context.Context) ([]string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/", nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", c.baseURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("list %s: HTTP %d", c.baseURL, resp.StatusCode)
	}

	doc, err := html.Parse(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("list %s: bad index page: %w", c.baseURL, err)
	}

	var names []string
	walkNodeTree(doc, func(node *html.Node) {
		if name, ok := anchorFileName(node); ok {
			names = append(names, name)
		}
	})
	return names, nil
}

// Close releases idle connections
func (c *HTTPClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}

// anchorFileName extracts a plain file name from an index page anchor.
func anchorFileName(node *html.Node) (string, bool) {
	if node.Type != html.ElementNode || node.Data != "a" {
		return "", false
	}

	for _, a := range node.Attr {
		if a.Key != "href" {
			continue
		}

		ref, err := url.Parse(a.Val)
		if err != nil || ref.IsAbs() || ref.RawQuery != "" {
			continue
		}

		// Directory links end in a slash
		if strings.HasSuffix(ref.Path, "/") || ref.Path == "" {
			continue
		}
		if strings.Contains(ref.Path, "/") {
			continue
		}
		return ref.Path, true
	}
	return "", false
}

// walkNodeTree calls fn for every node in an HTML parse tree.
func walkNodeTree(node *html.Node, fn func(*html.Node)) {
	fn(node)
	for child := node.FirstChild; child != nil; child = child.NextSibling {
		walkNodeTree(child, fn)
	}
}
