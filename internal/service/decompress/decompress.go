package decompress

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/klauspost/compress/gzip"
	"go.uber.org/zap"

	"github.com/MeteoBoy4/gpcp-1dd/internal/domain"
	"github.com/MeteoBoy4/gpcp-1dd/internal/port"
)

// Decompressor expands fetched datasets in place. Each matched .gz file is
// replaced by its decompressed contents; the compressed file is removed
// only after the decompressed file is fully written.
type Decompressor struct {
	fs      port.FileSystem
	catalog port.Catalog // may be nil
	logger  *zap.Logger
	prefix  string
}

// New creates a new Decompressor for files matching prefix*.gz.
func New(prefix string, fs port.FileSystem, catalog port.Catalog, logger *zap.Logger) *Decompressor {
	return &Decompressor{
		fs:      fs,
		catalog: catalog,
		logger:  logger,
		prefix:  prefix,
	}
}

// Run discovers matching compressed files and decompresses each one. The
// pass never stops on an individual failure. Running it again on a fully
// decompressed directory finds nothing to do.
func (d *Decompressor) Run() (*domain.Summary, error) {
	names, err := d.fs.Glob(d.prefix + "*.gz")
	if err != nil {
		return nil, fmt.Errorf("failed to discover compressed files: %w", err)
	}

	summary := &domain.Summary{}
	for _, name := range names {
		d.logger.Info("decompressing", zap.String("name", name))
		summary.Add(d.decompressOne(name))
	}
	return summary, nil
}

func (d *Decompressor) decompressOne(name string) domain.Result {
	result := domain.Result{Name: name, When: time.Now()}
	result.Item.Year, result.Item.Month, _ = domain.ParseFilename(name)

	outName := strings.TrimSuffix(name, ".gz")

	in, err := d.fs.Open(name)
	if err != nil {
		return d.fail(result, err)
	}
	defer in.Close()

	gz, err := gzip.NewReader(in)
	if err != nil {
		if errors.Is(err, gzip.ErrHeader) {
			err = fmt.Errorf("%s: %w", name, domain.ErrNotCompressed)
		}
		return d.fail(result, err)
	}

	path, written, err := d.fs.Write(outName, gz)
	if err != nil {
		return d.fail(result, err)
	}

	if err := gz.Close(); err != nil {
		// Checksum failure after the copy: drop the bad output
		d.fs.Remove(outName)
		return d.fail(result, fmt.Errorf("%s: %w", name, err))
	}

	if err := d.fs.Remove(name); err != nil {
		d.logger.Warn("decompressed but failed to remove compressed file",
			zap.String("name", name),
			zap.Error(err))
	}

	result.Outcome = domain.OutcomeDecompressed
	result.LocalPath = path
	result.Bytes = written

	if d.catalog != nil {
		if err := d.catalog.MarkDecompressed(name); err != nil && !errors.Is(err, domain.ErrNotFound) {
			d.logger.Warn("failed to update catalog",
				zap.String("name", name),
				zap.Error(err))
		}
	}
	return result
}

func (d *Decompressor) fail(result domain.Result, err error) domain.Result {
	d.logger.Warn("decompression failed",
		zap.String("name", result.Name),
		zap.Error(err))
	result.Outcome = domain.OutcomeFailed
	result.Err = err
	return result
}
