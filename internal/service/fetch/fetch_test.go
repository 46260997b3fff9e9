package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
)

// mockTransfer implements port.Transfer for testing
type mockTransfer struct {
	mu      sync.Mutex
	fetched []string
	fail    map[string]error // name -> error to return
	listing []string
	listErr error
}

func (m *mockTransfer) Fetch(ctx context.Context, name string) (io.ReadCloser, int64, error) {
	m.mu.Lock()
	m.fetched = append(m.fetched, name)
	m.mu.Unlock()

	if err, ok := m.fail[name]; ok {
		return nil, 0, err
	}
	content := "data:" + name
	return io.NopCloser(strings.NewReader(content)), int64(len(content)), nil
}

func (m *mockTransfer) List(ctx context.Context) ([]string, error) {
	return m.listing, m.listErr
}

func (m *mockTransfer) Close() error { return nil }

func (m *mockTransfer) fetchCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.fetched)
}

// mockFileSystem implements port.FileSystem in memory
type mockFileSystem struct {
	mu    sync.Mutex
	files map[string]string
}

func newMockFileSystem() *mockFileSystem {
	return &mockFileSystem{files: make(map[string]string)}
}

func (m *mockFileSystem) DataDir() string         { return "/data" }
func (m *mockFileSystem) Path(name string) string { return "/data/" + name }

func (m *mockFileSystem) Exists(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.files[name]
	return ok
}

func (m *mockFileSystem) Write(name string, r io.Reader) (string, int64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, err
	}
	m.mu.Lock()
	m.files[name] = string(data)
	m.mu.Unlock()
	return m.Path(name), int64(len(data)), nil
}

func (m *mockFileSystem) Open(name string) (io.ReadCloser, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.files[name]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return io.NopCloser(strings.NewReader(data)), nil
}

func (m *mockFileSystem) Glob(pattern string) ([]string, error) { return nil, nil }

func (m *mockFileSystem) Remove(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.files, name)
	return nil
}

// mockCatalog implements port.Catalog for testing
type mockCatalog struct {
	mu      sync.Mutex
	entries []port.CatalogEntry
}

func (m *mockCatalog) Record(entry port.CatalogEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return nil
}

func (m *mockCatalog) MarkDecompressed(name string) error { return nil }
func (m *mockCatalog) List() ([]port.CatalogEntry, error) { return m.entries, nil }
func (m *mockCatalog) Close() error                       { return nil }

func testConfig() *Config {
	return &Config{
		Source: domain.Source{
			BaseURL: "https://example.com/1dd-v1.1",
			Prefix:  "gpcp_1dd_v1.1_p1d.",
			Years:   []int{2002, 2003, 2004, 2005, 2006},
		},
		Workers: 1,
	}
}

func TestFetcher_Run_AllItems(t *testing.T) {
	transfer := &mockTransfer{}
	fs := newMockFileSystem()
	f := New(testConfig(), transfer, fs, nil, zap.NewNop())

	summary, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Fetched != 60 || summary.Failed != 0 || summary.Skipped != 0 {
		t.Errorf("summary = %d fetched / %d failed / %d skipped, want 60/0/0",
			summary.Fetched, summary.Failed, summary.Skipped)
	}
	if transfer.fetchCount() != 60 {
		t.Errorf("fetch invocations = %d, want 60", transfer.fetchCount())
	}
	if !fs.Exists("gpcp_1dd_v1.1_p1d.200203.gz") {
		t.Error("expected gpcp_1dd_v1.1_p1d.200203.gz on disk")
	}
}

func TestFetcher_Run_ContinuesAfterFailure(t *testing.T) {
	// First item of the plan fails; every later item must still run
	transfer := &mockTransfer{
		fail: map[string]error{
			"gpcp_1dd_v1.1_p1d.200201.gz": fmt.Errorf("fetch: %w", domain.ErrNotFound),
			"gpcp_1dd_v1.1_p1d.200406.gz": errors.New("connection reset"),
		},
	}
	fs := newMockFileSystem()
	catalog := &mockCatalog{}
	f := New(testConfig(), transfer, fs, catalog, zap.NewNop())

	summary, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Total() != 60 {
		t.Fatalf("total = %d, want 60", summary.Total())
	}
	if summary.Failed != 2 || summary.Fetched != 58 {
		t.Errorf("summary = %d fetched / %d failed, want 58/2", summary.Fetched, summary.Failed)
	}
	if summary.AllFailed() {
		t.Error("AllFailed() = true for partial success")
	}

	// Failures recorded in catalog with the error text
	var failedRecorded int
	for _, e := range catalog.entries {
		if e.Status == domain.OutcomeFailed && e.Error != "" {
			failedRecorded++
		}
	}
	if failedRecorded != 2 {
		t.Errorf("catalog failed entries = %d, want 2", failedRecorded)
	}
}

func TestFetcher_Run_SkipsExisting(t *testing.T) {
	transfer := &mockTransfer{}
	fs := newMockFileSystem()

	// One already compressed on disk, one already decompressed
	fs.files["gpcp_1dd_v1.1_p1d.200201.gz"] = "x"
	fs.files["gpcp_1dd_v1.1_p1d.200202"] = "y"

	f := New(testConfig(), transfer, fs, nil, zap.NewNop())

	summary, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Skipped != 2 || summary.Fetched != 58 {
		t.Errorf("summary = %d fetched / %d skipped, want 58/2", summary.Fetched, summary.Skipped)
	}
	if transfer.fetchCount() != 58 {
		t.Errorf("fetch invocations = %d, want 58", transfer.fetchCount())
	}
}

func TestFetcher_Run_Workers(t *testing.T) {
	transfer := &mockTransfer{}
	fs := newMockFileSystem()

	cfg := testConfig()
	cfg.Workers = 4
	f := New(cfg, transfer, fs, nil, zap.NewNop())

	summary, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Total() != 60 || summary.Fetched != 60 {
		t.Errorf("summary = %d/%d fetched, want 60/60", summary.Fetched, summary.Total())
	}
}

func TestFetcher_Run_RemoteList(t *testing.T) {
	transfer := &mockTransfer{
		listing: []string{
			"gpcp_1dd_v1.1_p1d.200201.gz",
			"gpcp_1dd_v1.1_p1d.200202.gz",
			"gpcp_1dd_v1.1_p1d.199901.gz", // year not configured
			"1DD_v1.1_doc.pdf",            // not a dataset
		},
	}
	fs := newMockFileSystem()

	cfg := testConfig()
	cfg.RemoteList = true
	f := New(cfg, transfer, fs, nil, zap.NewNop())

	summary, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}

	if summary.Total() != 2 || summary.Fetched != 2 {
		t.Errorf("summary = %d/%d fetched, want 2/2", summary.Fetched, summary.Total())
	}
}

func TestFetcher_Run_RemoteListError(t *testing.T) {
	transfer := &mockTransfer{listErr: errors.New("listing refused")}

	cfg := testConfig()
	cfg.RemoteList = true
	f := New(cfg, transfer, newMockFileSystem(), nil, zap.NewNop())

	if _, err := f.Run(context.Background()); err == nil {
		t.Fatal("expected error when listing fails")
	}
}

func TestFetcher_Run_Cancelled(t *testing.T) {
	transfer := &mockTransfer{}
	fs := newMockFileSystem()
	f := New(testConfig(), transfer, fs, nil, zap.NewNop())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	summary, err := f.Run(ctx)
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Total() != 0 {
		t.Errorf("total = %d after immediate cancel, want 0", summary.Total())
	}
}

func TestFetcher_RequestSpacing(t *testing.T) {
	transfer := &mockTransfer{}
	fs := newMockFileSystem()

	cfg := testConfig()
	cfg.Source.Years = []int{2002}
	cfg.Source.Months = []int{1, 2, 3}
	cfg.RequestSpace = 10 * time.Millisecond
	f := New(cfg, transfer, fs, nil, zap.NewNop())

	start := time.Now()
	summary, err := f.Run(context.Background())
	if err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if summary.Fetched != 3 {
		t.Fatalf("fetched = %d, want 3", summary.Fetched)
	}

	// Three spaced transfers need at least two full gaps
	if elapsed := time.Since(start); elapsed < 20*time.Millisecond {
		t.Errorf("run took %v, want >= 20ms with request spacing", elapsed)
	}
}
