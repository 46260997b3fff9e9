package fetch

import (
	"context"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
	"github.com/MeteoBoy4/gpcp-1dd/internal/util/ratelimiter"
)

// Config contains fetcher configuration
type Config struct {
	Source       domain.Source
	Workers      int
	RequestSpace time.Duration // minimum gap between transfer starts
	RemoteList   bool          // enumerate the archive instead of assuming all months exist
}

// Fetcher transfers the planned datasets into the data directory. Every
// item is attempted regardless of earlier failures; the outcome of each
// attempt is collected into the returned summary.
type Fetcher struct {
	config   *Config
	transfer port.Transfer
	fs       port.FileSystem
	catalog  port.Catalog // may be nil
	logger   *zap.Logger
	limiter  *ratelimiter.Limiter
}

// New creates a new Fetcher. catalog may be nil to disable recording.
func New(cfg *Config, transfer port.Transfer, fs port.FileSystem, catalog port.Catalog, logger *zap.Logger) *Fetcher {
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	var limiter *ratelimiter.Limiter
	if cfg.RequestSpace > 0 {
		limiter = ratelimiter.New(cfg.RequestSpace)
	}

	return &Fetcher{
		config:   cfg,
		transfer: transfer,
		fs:       fs,
		catalog:  catalog,
		logger:   logger,
		limiter:  limiter,
	}
}

// Run executes the fetch pass and returns its summary. The returned error
// is non-nil only for setup problems; individual transfer failures are
// recorded in the summary instead.
func (f *Fetcher) Run(ctx context.Context) (*domain.Summary, error) {
	items, err := f.plan(ctx)
	if err != nil {
		return nil, err
	}

	for _, group := range domain.Groups(items) {
		f.logger.Info("fetching datasets",
			zap.Int("year", group.Year),
			zap.String("months", group.Label),
			zap.Int("count", len(group.Members)))
	}

	summary := &domain.Summary{}

	if f.config.Workers == 1 {
		for _, item := range items {
			if ctx.Err() != nil {
				break
			}
			summary.Add(f.fetchOne(ctx, item))
		}
		return summary, nil
	}

	// Bounded worker pool
	jobs := make(chan domain.WorkItem)
	results := make(chan domain.Result)

	var wg sync.WaitGroup
	for i := 0; i < f.config.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				results <- f.fetchOne(ctx, item)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, item := range items {
			select {
			case jobs <- item:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		summary.Add(r)
	}
	return summary, nil
}

// plan resolves the list of work items, either from the configured years
// and months or from a remote directory listing.
func (f *Fetcher) plan(ctx context.Context) ([]domain.WorkItem, error) {
	if !f.config.RemoteList {
		return f.config.Source.Plan(), nil
	}

	names, err := f.transfer.List(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(f.config.Source.Years))
	for _, y := range f.config.Source.Years {
		wanted[y] = true
	}

	var items []domain.WorkItem
	for _, name := range names {
		if !strings.HasPrefix(name, f.config.Source.Prefix) {
			continue
		}
		year, month, err := domain.ParseFilename(name)
		if err != nil {
			continue
		}
		if !wanted[year] {
			continue
		}
		items = append(items, domain.WorkItem{Year: year, Month: month})
	}

	f.logger.Info("resolved remote listing",
		zap.Int("listed", len(names)),
		zap.Int("matched", len(items)))
	return items, nil
}

// fetchOne transfers a single dataset. Failures are returned as a failed
// result, never as a panic or early stop.
func (f *Fetcher) fetchOne(ctx context.Context, item domain.WorkItem) domain.Result {
	name := item.Filename(&f.config.Source)
	result := domain.Result{Item: item, Name: name, When: time.Now()}

	// Already on disk, compressed or decompressed
	if f.fs.Exists(name) || f.fs.Exists(strings.TrimSuffix(name, ".gz")) {
		f.logger.Debug("dataset already present", zap.String("name", name))
		result.Outcome = domain.OutcomeSkipped
		return result
	}

	f.waitTurn(ctx)

	body, _, err := f.transfer.Fetch(ctx, name)
	if err != nil {
		f.logger.Warn("transfer failed",
			zap.String("name", name),
			zap.Error(err))
		result.Outcome = domain.OutcomeFailed
		result.Err = err
		f.record(result)
		return result
	}
	defer body.Close()

	path, written, err := f.fs.Write(name, body)
	if err != nil {
		f.logger.Warn("write failed",
			zap.String("name", name),
			zap.Error(err))
		result.Outcome = domain.OutcomeFailed
		result.Err = err
		f.record(result)
		return result
	}

	f.logger.Info("dataset fetched",
		zap.String("name", name),
		zap.Int64("bytes", written))

	result.Outcome = domain.OutcomeFetched
	result.LocalPath = path
	result.Bytes = written
	f.record(result)
	return result
}

// waitTurn blocks until the request spacing allows another transfer.
func (f *Fetcher) waitTurn(ctx context.Context) {
	if f.limiter == nil {
		return
	}
	for {
		ok, wait := f.limiter.Allow()
		if ok {
			return
		}
		select {
		case <-time.After(wait):
		case <-ctx.Done():
			return
		}
	}
}

// record persists a result in the catalog. Catalog failures are logged and
// otherwise ignored; the data directory remains the source of truth.
func (f *Fetcher) record(result domain.Result) {
	if f.catalog == nil {
		return
	}

	entry := port.CatalogEntry{
		Name:      result.Name,
		Year:      result.Item.Year,
		Month:     result.Item.Month,
		SizeBytes: result.Bytes,
		Status:    result.Outcome,
		FetchedAt: result.When,
	}
	if result.Err != nil {
		entry.Error = result.Err.Error()
	}

	if err := f.catalog.Record(entry); err != nil {
		f.logger.Warn("failed to record result in catalog",
			zap.String("name", result.Name),
			zap.Error(err))
	}
}
