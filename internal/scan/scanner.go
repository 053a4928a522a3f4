package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/marusama/semaphore/v2"

	"prick/internal/catalog"
	"prick/internal/config"
	"prick/internal/fingerprint"
	"prick/internal/logging"
)

// SourceFactory returns an unopened packet source for path.
type SourceFactory func(path string) (fingerprint.Source, error)

// ProgressFunc receives per-file progress. It may be called from several
// goroutines at once during Run.
type ProgressFunc func(path string, bytesHashed, size int64)

// Scanner fingerprints files and records them in a catalog.
type Scanner struct {
	cfg    *config.Config
	store  *catalog.Store
	logger *slog.Logger
	open   SourceFactory
	alg    fingerprint.Algorithm
}

// New builds a Scanner. store may be nil when only Fingerprint is used.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger, open SourceFactory) (*Scanner, error) {
	if cfg == nil {
		return nil, errors.New("scan: config is required")
	}
	if open == nil {
		return nil, errors.New("scan: source factory is required")
	}
	alg, err := fingerprint.ParseAlgorithm(cfg.Scan.Algorithm)
	if err != nil {
		return nil, err
	}
	return &Scanner{
		cfg:    cfg,
		store:  store,
		logger: logging.NewComponentLogger(logger, "scanner"),
		open:   open,
		alg:    alg,
	}, nil
}

// Algorithm returns the hash used for new fingerprints.
func (s *Scanner) Algorithm() fingerprint.Algorithm {
	return s.alg
}

// Failure records one file the run could not fingerprint.
type Failure struct {
	Path string `json:"path"`
	Err  error  `json:"-"`
}

// Summary describes a completed run.
type Summary struct {
	ScanID      string        `json:"scan_id"`
	Files       int           `json:"files"`
	Hashed      int           `json:"hashed"`
	Skipped     int           `json:"skipped"`
	Failed      int           `json:"failed"`
	BytesHashed int64         `json:"bytes_hashed"`
	Duration    time.Duration `json:"duration"`
	Failures    []Failure     `json:"failures,omitempty"`
}

type fileOutcome struct {
	skipped bool
	bytes   int64
	err     error
}

// Run collects files under roots and fingerprints them into the catalog.
// The returned error is reserved for run-level problems (bad roots, lock
// held, cancellation); per-file failures land in Summary.Failures.
func (s *Scanner) Run(ctx context.Context, roots []string, progress ProgressFunc) (Summary, error) {
	if s.store == nil {
		return Summary{}, errors.New("scan: catalog store is required")
	}
	started := time.Now()
	summary := Summary{ScanID: uuid.NewString()}

	files, err := s.Collect(roots)
	if err != nil {
		return summary, err
	}
	summary.Files = len(files)

	lock, err := acquireLock(s.cfg.CatalogLockPath())
	if err != nil {
		return summary, err
	}
	defer func() {
		if unlockErr := lock.Unlock(); unlockErr != nil {
			s.logger.Warn("release catalog lock", logging.Error(unlockErr))
		}
	}()

	ctx = logging.WithScanID(ctx, summary.ScanID)
	logger := logging.WithContext(ctx, s.logger)
	logger.Info("scan started",
		logging.Int("files", len(files)),
		logging.String("algorithm", s.alg.String()),
		logging.Int("workers", s.cfg.Scan.Workers),
	)

	var (
		mu  sync.Mutex
		wg  sync.WaitGroup
		sem = semaphore.New(s.cfg.Scan.Workers)
	)
	record := func(path string, out fileOutcome) {
		mu.Lock()
		defer mu.Unlock()
		switch {
		case out.err != nil:
			summary.Failed++
			summary.Failures = append(summary.Failures, Failure{Path: path, Err: out.err})
		case out.skipped:
			summary.Skipped++
		default:
			summary.Hashed++
			summary.BytesHashed += out.bytes
		}
	}

	for _, path := range files {
		if err := sem.Acquire(ctx, 1); err != nil {
			break
		}
		wg.Add(1)
		go func(path string) {
			defer wg.Done()
			defer sem.Release(1)
			record(path, s.scanFile(ctx, path, summary.ScanID, progress))
		}(path)
	}
	wg.Wait()

	summary.Duration = time.Since(started)
	logger.Info("scan finished",
		logging.Int("hashed", summary.Hashed),
		logging.Int("skipped", summary.Skipped),
		logging.Int("failed", summary.Failed),
		logging.Int64("bytes_hashed", summary.BytesHashed),
		logging.Duration("duration", summary.Duration),
	)
	if err := ctx.Err(); err != nil {
		return summary, err
	}
	return summary, nil
}

func (s *Scanner) scanFile(ctx context.Context, path, scanID string, progress ProgressFunc) fileOutcome {
	if err := ctx.Err(); err != nil {
		return fileOutcome{err: err}
	}
	fileCtx := logging.WithPath(ctx, path)
	logger := logging.WithContext(fileCtx, s.logger)

	info, err := os.Stat(path)
	if err != nil {
		logging.WarnWithContext(logger, "stat failed", "scan_stat", "check the file still exists", logging.Error(err))
		return fileOutcome{err: fmt.Errorf("stat %s: %w", path, err)}
	}

	if s.cfg.Scan.SkipUnchanged {
		entry, err := s.store.Get(ctx, path)
		switch {
		case err == nil && entry.Unchanged(info.Size(), info.ModTime(), s.alg):
			logger.Debug("unchanged, skipping")
			return fileOutcome{skipped: true}
		case err != nil && !errors.Is(err, catalog.ErrNotFound):
			return fileOutcome{err: err}
		}
	}

	res, err := s.compute(fileCtx, path, s.alg, info.Size(), progress)
	if err != nil {
		logging.WarnWithContext(logger, "fingerprint failed", "scan_fingerprint",
			"file is skipped; run prick hash on it for details", logging.Error(err))
		return fileOutcome{err: err}
	}

	if err := s.store.Put(ctx, catalog.EntryFromResult(res, info.Size(), info.ModTime(), scanID)); err != nil {
		return fileOutcome{err: err}
	}
	logger.Info("fingerprinted",
		logging.String("fingerprint", res.Hex()),
		logging.Int("streams", len(res.StreamDigests)),
		logging.Int64("bytes_hashed", res.BytesHashed),
	)
	return fileOutcome{bytes: res.BytesHashed}
}

// Fingerprint computes the fingerprint of a single file without touching
// the catalog.
func (s *Scanner) Fingerprint(ctx context.Context, path string, progress ProgressFunc) (fingerprint.Result, error) {
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	return s.compute(logging.WithPath(ctx, path), path, s.alg, size, progress)
}

func (s *Scanner) compute(ctx context.Context, path string, alg fingerprint.Algorithm, size int64, progress ProgressFunc) (fingerprint.Result, error) {
	src, err := s.open(path)
	if err != nil {
		return fingerprint.Result{}, fmt.Errorf("%w: %w", fingerprint.ErrOpen, err)
	}

	logger := logging.WithContext(ctx, s.logger)
	sampler := logging.NewProgressSampler(25)
	report := func(hashed int64) {
		if progress != nil {
			progress(path, hashed, size)
		}
		if sampler.Sample(path, hashed, size) {
			logger.Debug("hashing", logging.Int64("bytes_hashed", hashed), logging.Int64("size", size))
		}
	}

	engine := fingerprint.New(src,
		fingerprint.WithAlgorithm(alg),
		fingerprint.WithProgressInterval(s.cfg.Scan.ProgressIntervalBytes),
		fingerprint.WithProgress(report),
		fingerprint.WithLogger(logger),
	)
	res, err := engine.Compute(ctx, path)
	if closeErr := engine.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	if err != nil {
		return fingerprint.Result{}, err
	}
	return res, nil
}
