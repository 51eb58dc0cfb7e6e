package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/storage"
)

// defaultSearchPath puts the corpus schema first so unqualified table names
// resolve to the standard dump layout.
const defaultSearchPath = "ns, public"

const statsSampleSize = 5

// Corpus implements storage.Corpus over a PostgreSQL/PostGIS database holding
// a standard corpus dump: annotations_terms(study_id, term, weight),
// coordinates(study_id, geom) with 3D points, and metadata(study_id, title,
// authors, journal, year). The accessor is read-only.
type Corpus struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

var _ storage.Corpus = (*Corpus)(nil)

// Option configures a Corpus.
type Option func(*config)

type config struct {
	searchPath string
	logger     *slog.Logger
}

// WithSearchPath overrides the schema search path.
func WithSearchPath(searchPath string) Option {
	return func(c *config) {
		c.searchPath = searchPath
	}
}

// WithLogger sets the logger used for connection diagnostics.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) {
		c.logger = logger
	}
}

// NewCorpus connects to the database and verifies the connection.
// The returned Corpus owns the pool; Close releases it.
func NewCorpus(ctx context.Context, url string, opts ...Option) (*Corpus, error) {
	cfg := config{
		searchPath: defaultSearchPath,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	poolCfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	poolCfg.ConnConfig.RuntimeParams["search_path"] = cfg.searchPath

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
	}

	cfg.logger.Info("corpus database connected",
		"host", poolCfg.ConnConfig.Host,
		"database", poolCfg.ConnConfig.Database)

	return &Corpus{
		pool:   pool,
		logger: cfg.logger,
	}, nil
}

// Close releases the connection pool.
func (c *Corpus) Close() error {
	c.pool.Close()
	return nil
}

// TermWeights returns one row per study annotated with the exact feature
// name, taking the highest weight when a study has several contrasts.
func (c *Corpus) TermWeights(ctx context.Context, feature string) ([]core.TermWeight, error) {
	const query = `
		SELECT study_id, MAX(weight)
		FROM annotations_terms
		WHERE term = $1
		GROUP BY study_id`

	rows, err := c.pool.Query(ctx, query, feature)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var result []core.TermWeight
	for rows.Next() {
		var (
			id     string
			weight float64
		)
		if err := rows.Scan(&id, &weight); err != nil {
			return nil, unavailable(err)
		}
		result = append(result, core.TermWeight{ID: core.StudyID(id), Weight: weight})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return result, nil
}

// TitlesMatching returns studies whose title matches the pattern with ILIKE.
func (c *Corpus) TitlesMatching(ctx context.Context, pattern string) ([]core.TitleMatch, error) {
	const query = `
		SELECT study_id, title
		FROM metadata
		WHERE title ILIKE $1`

	rows, err := c.pool.Query(ctx, query, pattern)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var result []core.TitleMatch
	for rows.Next() {
		var (
			id    string
			title string
		)
		if err := rows.Scan(&id, &title); err != nil {
			return nil, unavailable(err)
		}
		result = append(result, core.TitleMatch{ID: core.StudyID(id), Title: title})
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return result, nil
}

// WeightFor looks up a single study's highest weight for a feature.
func (c *Corpus) WeightFor(ctx context.Context, id core.StudyID, feature string) (float64, bool, error) {
	const query = `
		SELECT weight
		FROM annotations_terms
		WHERE term = $1 AND study_id = $2
		ORDER BY weight DESC
		LIMIT 1`

	var weight float64
	err := c.pool.QueryRow(ctx, query, feature, string(id)).Scan(&weight)
	if err != nil {
		if err == pgx.ErrNoRows {
			return 0, false, nil
		}
		return 0, false, unavailable(err)
	}
	return weight, true, nil
}

// WeightsFor looks up weights for a batch of studies in one round trip.
func (c *Corpus) WeightsFor(ctx context.Context, feature string, ids []core.StudyID) (map[core.StudyID]float64, error) {
	if len(ids) == 0 {
		return map[core.StudyID]float64{}, nil
	}

	const query = `
		SELECT study_id, MAX(weight)
		FROM annotations_terms
		WHERE term = $1 AND study_id = ANY($2)
		GROUP BY study_id`

	idStrings := make([]string, len(ids))
	for i, id := range ids {
		idStrings[i] = string(id)
	}

	rows, err := c.pool.Query(ctx, query, feature, idStrings)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	weights := make(map[core.StudyID]float64, len(ids))
	for rows.Next() {
		var (
			id     string
			weight float64
		)
		if err := rows.Scan(&id, &weight); err != nil {
			return nil, unavailable(err)
		}
		weights[core.StudyID(id)] = weight
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return weights, nil
}

// StudiesNear returns the distinct studies reporting a peak within radiusMM
// of (x, y, z), using the PostGIS distance test over the 3D geometry column.
func (c *Corpus) StudiesNear(ctx context.Context, x, y, z, radiusMM float64) ([]core.StudyID, error) {
	const query = `
		SELECT DISTINCT study_id
		FROM coordinates
		WHERE ST_DWithin(geom, ST_SetSRID(ST_MakePoint($1, $2, $3), 4326), $4)
		ORDER BY study_id`

	rows, err := c.pool.Query(ctx, query, x, y, z, radiusMM)
	if err != nil {
		return nil, unavailable(err)
	}
	defer rows.Close()

	var result []core.StudyID
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, unavailable(err)
		}
		result = append(result, core.StudyID(id))
	}
	if err := rows.Err(); err != nil {
		return nil, unavailable(err)
	}
	return result, nil
}

// Stats reports table counts and small row samples. Count queries failing
// fails the report; sample sections degrade individually.
func (c *Corpus) Stats(ctx context.Context) (*storage.CorpusStats, error) {
	stats := &storage.CorpusStats{Backend: "postgres"}

	counts := []struct {
		query string
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM metadata", &stats.Studies},
		{"SELECT COUNT(*) FROM coordinates", &stats.Peaks},
		{"SELECT COUNT(*) FROM annotations_terms", &stats.Annotations},
	}
	for _, count := range counts {
		if err := c.pool.QueryRow(ctx, count.query).Scan(count.dest); err != nil {
			return nil, unavailable(err)
		}
	}

	if err := c.sampleStudies(ctx, stats); err != nil {
		c.logger.Warn("study sample failed", "err", err)
		stats.Errors = append(stats.Errors, fmt.Sprintf("studies: %v", err))
	}
	if err := c.samplePeaks(ctx, stats); err != nil {
		c.logger.Warn("peak sample failed", "err", err)
		stats.Errors = append(stats.Errors, fmt.Sprintf("peaks: %v", err))
	}
	if err := c.sampleAnnotations(ctx, stats); err != nil {
		c.logger.Warn("annotation sample failed", "err", err)
		stats.Errors = append(stats.Errors, fmt.Sprintf("annotations: %v", err))
	}

	return stats, nil
}

func (c *Corpus) sampleStudies(ctx context.Context, stats *storage.CorpusStats) error {
	const query = `
		SELECT study_id, COALESCE(title, ''), COALESCE(authors, ''),
		       COALESCE(journal, ''), COALESCE(year, 0)
		FROM metadata
		LIMIT $1`

	rows, err := c.pool.Query(ctx, query, statsSampleSize)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			study core.Study
			id    string
		)
		if err := rows.Scan(&id, &study.Title, &study.Authors, &study.Journal, &study.Year); err != nil {
			return err
		}
		study.ID = core.StudyID(id)
		stats.SampleStudies = append(stats.SampleStudies, study)
	}
	return rows.Err()
}

func (c *Corpus) samplePeaks(ctx context.Context, stats *storage.CorpusStats) error {
	const query = `
		SELECT study_id, ST_X(geom), ST_Y(geom), ST_Z(geom)
		FROM coordinates
		LIMIT $1`

	rows, err := c.pool.Query(ctx, query, statsSampleSize)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			peak core.Peak
			id   string
		)
		if err := rows.Scan(&id, &peak.X, &peak.Y, &peak.Z); err != nil {
			return err
		}
		peak.StudyID = core.StudyID(id)
		stats.SamplePeaks = append(stats.SamplePeaks, peak)
	}
	return rows.Err()
}

func (c *Corpus) sampleAnnotations(ctx context.Context, stats *storage.CorpusStats) error {
	const query = `
		SELECT study_id, term, weight
		FROM annotations_terms
		LIMIT $1`

	rows, err := c.pool.Query(ctx, query, statsSampleSize)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			row storage.AnnotationRow
			id  string
		)
		if err := rows.Scan(&id, &row.Feature, &row.Weight); err != nil {
			return err
		}
		row.StudyID = core.StudyID(id)
		stats.SampleAnnotations = append(stats.SampleAnnotations, row)
	}
	return rows.Err()
}

// unavailable classifies a database failure for callers.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
}
