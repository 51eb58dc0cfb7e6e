package ingestion

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/storage"
)

// DefaultBatchSize is the number of rows written per storage call.
const DefaultBatchSize = 500

// Pipeline loads corpus snapshot dumps into a CorpusWriter.
// It manages concurrent batch writes on a worker pool.
type Pipeline struct {
	writer    storage.CorpusWriter
	pool      *ants.Pool
	batchSize int
	logger    *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent batch writes.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		// Release old pool
		if p.pool != nil {
			p.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		p.pool = pool
		return nil
	}
}

// WithBatchSize sets the rows accumulated per storage write.
// Values below one fall back to DefaultBatchSize.
func WithBatchSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = DefaultBatchSize
		}
		p.batchSize = size
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a snapshot loader writing to writer.
func NewPipeline(writer storage.CorpusWriter, opts ...Option) (*Pipeline, error) {
	if writer == nil {
		return nil, ErrWriterRequired
	}

	// Default pool size
	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}

	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	// Create pipeline with defaults
	p := &Pipeline{
		writer:    writer,
		pool:      pool,
		batchSize: DefaultBatchSize,
		logger:    slog.Default(),
	}

	// Apply options (may override defaults)
	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Summary reports one completed snapshot load.
type Summary struct {
	Studies     int64
	Peaks       int64
	Annotations int64
	Elapsed     time.Duration
	Manifest    *core.Manifest
}

// Run loads the database and features dumps and finishes by writing the
// snapshot manifest. Any parse or write failure aborts the run before the
// manifest exists, so a corrupt snapshot never half-loads behind one.
func (p *Pipeline) Run(ctx context.Context, databasePath, featuresPath string) (*Summary, error) {
	start := time.Now()

	studies, peaks, databaseDigest, err := p.loadDatabase(ctx, databasePath)
	if err != nil {
		return nil, fmt.Errorf("database dump %s: %w", databasePath, err)
	}
	p.logger.Info("database dump loaded",
		"file", databasePath, "studies", studies, "peaks", peaks)

	annotations, featuresDigest, err := p.loadFeatures(ctx, featuresPath)
	if err != nil {
		return nil, fmt.Errorf("features dump %s: %w", featuresPath, err)
	}
	p.logger.Info("features dump loaded",
		"file", featuresPath, "annotations", annotations)

	manifest := &core.Manifest{
		DatabaseFile:   filepath.Base(databasePath),
		DatabaseDigest: databaseDigest,
		FeaturesFile:   filepath.Base(featuresPath),
		FeaturesDigest: featuresDigest,
		Studies:        studies,
		Peaks:          peaks,
		Annotations:    annotations,
	}
	if err := p.writer.PutManifest(ctx, manifest); err != nil {
		return nil, fmt.Errorf("manifest: %w", err)
	}

	return &Summary{
		Studies:     studies,
		Peaks:       peaks,
		Annotations: annotations,
		Elapsed:     time.Since(start),
		Manifest:    manifest,
	}, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}

func (p *Pipeline) loadDatabase(ctx context.Context, path string) (studies, peaks int64, digest string, err error) {
	snap, err := openSnapshot(path)
	if err != nil {
		return 0, 0, "", err
	}
	defer snap.Close()

	reader, err := newDatabaseReader(snap)
	if err != nil {
		return 0, 0, "", err
	}

	group := newBatchGroup(p.pool)
	studyBatch := make([]core.Study, 0, p.batchSize)
	peakBatch := make([]core.Peak, 0, p.batchSize)

	flushStudies := func() error {
		if len(studyBatch) == 0 {
			return nil
		}
		batch := studyBatch
		studyBatch = make([]core.Study, 0, p.batchSize)
		p.logger.Debug("writing study batch", "count", len(batch))
		return group.submit(func() error {
			return p.writer.AddStudies(ctx, batch)
		})
	}
	flushPeaks := func() error {
		if len(peakBatch) == 0 {
			return nil
		}
		batch := peakBatch
		peakBatch = make([]core.Peak, 0, p.batchSize)
		p.logger.Debug("writing peak batch", "count", len(batch))
		return group.submit(func() error {
			return p.writer.AddPeaks(ctx, batch)
		})
	}

	err = reader.ForEach(func(study *core.Study, peak core.Peak) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if fail := group.err(); fail != nil {
			return fail
		}

		if study != nil {
			studies++
			studyBatch = append(studyBatch, *study)
			if len(studyBatch) >= p.batchSize {
				if err := flushStudies(); err != nil {
					return err
				}
			}
		}

		peaks++
		peakBatch = append(peakBatch, peak)
		if len(peakBatch) >= p.batchSize {
			return flushPeaks()
		}
		return nil
	})
	if err == nil {
		err = flushStudies()
	}
	if err == nil {
		err = flushPeaks()
	}

	if waitErr := group.wait(); err == nil {
		err = waitErr
	}
	if err != nil {
		return 0, 0, "", err
	}
	return studies, peaks, snap.Digest(), nil
}

func (p *Pipeline) loadFeatures(ctx context.Context, path string) (annotations int64, digest string, err error) {
	snap, err := openSnapshot(path)
	if err != nil {
		return 0, "", err
	}
	defer snap.Close()

	reader, err := newFeaturesReader(snap)
	if err != nil {
		return 0, "", err
	}

	group := newBatchGroup(p.pool)
	batch := make([]storage.AnnotationRow, 0, p.batchSize)

	flush := func() error {
		if len(batch) == 0 {
			return nil
		}
		rows := batch
		batch = make([]storage.AnnotationRow, 0, p.batchSize)
		p.logger.Debug("writing annotation batch", "count", len(rows))
		return group.submit(func() error {
			return p.writer.AddAnnotations(ctx, rows)
		})
	}

	err = reader.ForEach(func(row storage.AnnotationRow) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if fail := group.err(); fail != nil {
			return fail
		}

		annotations++
		batch = append(batch, row)
		if len(batch) >= p.batchSize {
			return flush()
		}
		return nil
	})
	if err == nil {
		err = flush()
	}

	if waitErr := group.wait(); err == nil {
		err = waitErr
	}
	if err != nil {
		return 0, "", err
	}
	return annotations, snap.Digest(), nil
}

// batchGroup tracks batch writes in flight on the shared pool, keeping the
// first failure.
type batchGroup struct {
	pool *ants.Pool
	wg   sync.WaitGroup

	mu       sync.Mutex
	firstErr error
}

func newBatchGroup(pool *ants.Pool) *batchGroup {
	return &batchGroup{pool: pool}
}

func (g *batchGroup) submit(task func() error) error {
	g.wg.Add(1)
	err := g.pool.Submit(func() {
		defer g.wg.Done()
		if err := task(); err != nil {
			g.fail(err)
		}
	})
	if err != nil {
		g.wg.Done()
		return err
	}
	return nil
}

func (g *batchGroup) fail(err error) {
	g.mu.Lock()
	if g.firstErr == nil {
		g.firstErr = err
	}
	g.mu.Unlock()
}

func (g *batchGroup) err() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.firstErr
}

func (g *batchGroup) wait() error {
	g.wg.Wait()
	return g.err()
}
