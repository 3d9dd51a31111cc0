package download

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/Nenoeldeeb/quran-databases/internal/config"
	"github.com/Nenoeldeeb/quran-databases/internal/corpus"
	"github.com/Nenoeldeeb/quran-databases/internal/logging"
	"github.com/Nenoeldeeb/quran-databases/internal/quranapi"
)

// Downloader retrieves an edition's pages in batches and assembles the
// combined corpus artifact.
type Downloader struct {
	edition      string
	dir          string
	corpusPath   string
	manifestPath string
	opts         config.Download
	fetcher      quranapi.Fetcher
	logger       *slog.Logger
	progress     func(pages int)
}

// Option configures a Downloader.
type Option func(*Downloader)

// WithProgress registers a callback invoked after each batch with the number
// of pages the batch resolved (fetched and missing alike).
func WithProgress(fn func(pages int)) Option {
	return func(d *Downloader) {
		d.progress = fn
	}
}

// New constructs a Downloader for one edition.
func New(cfg *config.Config, edition string, fetcher quranapi.Fetcher, logger *slog.Logger, opts ...Option) (*Downloader, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	if fetcher == nil {
		return nil, errors.New("fetcher is required")
	}
	if edition == "" {
		return nil, errors.New("edition is required")
	}
	if logger == nil {
		logger = logging.NewNop()
	}
	d := &Downloader{
		edition:      edition,
		dir:          cfg.EditionDir(edition),
		corpusPath:   cfg.CorpusPath(edition),
		manifestPath: cfg.ManifestPath(edition),
		opts:         cfg.Download,
		fetcher:      fetcher,
		logger:       logging.WithComponent(logger, "downloader"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d, nil
}

// Run executes the full download: sequential batches of concurrent fetches,
// per-page artifact persistence, and the combined corpus artifact. The
// returned summary is valid whenever err is nil or a *MissingPagesError.
func (d *Downloader) Run(ctx context.Context) (*Summary, error) {
	if err := os.MkdirAll(d.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create edition directory: %w", err)
	}

	runID := uuid.NewString()
	logger := d.logger.With(
		slog.String(logging.FieldRunID, runID),
		slog.String(logging.FieldEdition, d.edition),
	)

	manifest := corpus.NewManifest(d.edition, runID)
	writers := newWriterPool(d.dir, d.opts.WriteWorkers, manifest)

	start := time.Now()
	var accumulated []corpus.Page
	var missing []int

	logger.Info("download starting",
		slog.Int("start_page", d.opts.StartPage),
		slog.Int("end_page", d.opts.EndPage),
		slog.Int("batch_size", d.opts.BatchSize),
		slog.Int("max_concurrent", d.opts.MaxConcurrent))

	for batchStart := d.opts.StartPage; batchStart <= d.opts.EndPage; batchStart += d.opts.BatchSize {
		batchEnd := batchStart + d.opts.BatchSize - 1
		if batchEnd > d.opts.EndPage {
			batchEnd = d.opts.EndPage
		}

		results, err := d.fetchBatch(ctx, batchStart, batchEnd, logger, writers)
		if err != nil {
			_ = writers.close()
			return nil, err
		}

		// Results arrive indexed by page, so survivors keep ascending
		// page order regardless of fetch completion order.
		for _, result := range results {
			if result.Missing() {
				missing = append(missing, result.Page)
				continue
			}
			accumulated = append(accumulated, corpus.Page{Number: result.Page, Fragments: result.Fragments})
		}

		if d.progress != nil {
			d.progress(len(results))
		}
		elapsed := time.Since(start)
		rate := 0.0
		if elapsed > 0 {
			rate = float64(len(accumulated)) / elapsed.Seconds()
		}
		logger.Info("batch complete",
			slog.Int("batch_start", batchStart),
			slog.Int("batch_end", batchEnd),
			slog.Int("pages_processed", len(accumulated)),
			slog.Float64("pages_per_second", rate))
	}

	document := corpus.Document{Pages: accumulated}
	writers.enqueue(d.edition+".json", document)

	if err := writers.close(); err != nil {
		return nil, fmt.Errorf("persist artifacts: %w", err)
	}
	if err := corpus.WriteManifest(d.manifestPath, manifest); err != nil {
		return nil, err
	}

	summary := &Summary{
		Edition:      d.edition,
		RunID:        runID,
		PagesWanted:  d.opts.EndPage - d.opts.StartPage + 1,
		PagesFetched: len(accumulated),
		MissingPages: missing,
		Elapsed:      time.Since(start),
		CorpusPath:   d.corpusPath,
		ManifestPath: d.manifestPath,
	}

	logger.Info("download complete",
		slog.Int("pages_fetched", summary.PagesFetched),
		slog.Int("pages_missing", len(missing)),
		slog.Duration("elapsed", summary.Elapsed),
		slog.Float64("pages_per_second", summary.Rate()))

	if len(missing) > 0 {
		logger.Warn("pages missing from combined corpus", slog.Any("pages", missing))
		if d.opts.FailOnMissing {
			return summary, &MissingPagesError{Pages: missing}
		}
	}
	return summary, nil
}

// fetchBatch resolves one batch of pages concurrently. The in-flight cap is
// enforced by the group limit; a batch larger than the cap queues internally.
// Fetch failures never fail the batch, only context cancellation does.
func (d *Downloader) fetchBatch(ctx context.Context, first, last int, logger *slog.Logger, writers *writerPool) ([]PageResult, error) {
	results := make([]PageResult, last-first+1)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.opts.MaxConcurrent)
	for page := first; page <= last; page++ {
		idx := page - first
		page := page
		g.Go(func() error {
			fragments, err := d.fetcher.FetchPage(gctx, d.edition, page)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				logger.Warn("page fetch failed",
					slog.Int(logging.FieldPage, page),
					slog.String("error", err.Error()))
				results[idx] = PageResult{Page: page, Err: err}
				return nil
			}
			writers.enqueue(fmt.Sprintf("page_%d.json", page), corpus.Page{Number: page, Fragments: fragments})
			results[idx] = PageResult{Page: page, Fragments: fragments}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
