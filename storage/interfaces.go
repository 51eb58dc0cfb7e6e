package storage

import (
	"context"

	"github.com/poiesic/neuroq/core"
)

// Corpus provides read access to the study corpus. Implementations must be
// thread-safe; every method may be called concurrently from request handlers.
//
// Zero matching rows is a valid empty result on every lookup. Errors indicate
// the corpus itself could not be consulted and wrap ErrUnavailable.
type Corpus interface {
	// TermWeights returns the (study, weight) rows annotated with the exact
	// feature name. A study appearing on several rows yields its highest weight.
	TermWeights(ctx context.Context, feature string) ([]core.TermWeight, error)

	// TitlesMatching returns studies whose title contains the pattern's core
	// text, matched case-insensitively. The pattern arrives %-wrapped, as
	// produced by predicate normalization.
	TitlesMatching(ctx context.Context, pattern string) ([]core.TitleMatch, error)

	// WeightFor looks up a single study's weight for a feature.
	// The bool reports whether a row exists; a missing row is not an error.
	WeightFor(ctx context.Context, id core.StudyID, feature string) (float64, bool, error)

	// WeightsFor looks up weights for a batch of studies in one pass.
	// Studies without a row for the feature are absent from the map.
	WeightsFor(ctx context.Context, feature string, ids []core.StudyID) (map[core.StudyID]float64, error)

	// StudiesNear returns the distinct studies reporting a peak within
	// radiusMM of (x, y, z), in ascending ID order.
	StudiesNear(ctx context.Context, x, y, z, radiusMM float64) ([]core.StudyID, error)

	// Stats reports corpus counts, small row samples, and the snapshot
	// manifest when one exists. Individual sample sections may fail without
	// failing the report; such failures are listed in Errors.
	Stats(ctx context.Context) (*CorpusStats, error)

	// Close releases the accessor and any backend it owns.
	Close() error
}

// CorpusWriter loads corpus records. Only embedded backends implement it;
// server-facing corpora are read-only.
type CorpusWriter interface {
	// AddStudies stores study metadata records.
	AddStudies(ctx context.Context, studies []core.Study) error

	// AddPeaks stores activation coordinates.
	AddPeaks(ctx context.Context, peaks []core.Peak) error

	// AddAnnotations stores (study, feature, weight) rows.
	AddAnnotations(ctx context.Context, rows []AnnotationRow) error

	// PutManifest records the provenance of the loaded snapshot.
	PutManifest(ctx context.Context, manifest *core.Manifest) error

	// Close releases writer resources. It does not close the backend.
	Close() error
}

// AnnotationRow is one term annotation as written and sampled, with the
// feature name alongside the stored fields.
type AnnotationRow struct {
	StudyID core.StudyID
	Feature string
	Weight  float64
}

// CorpusStats is a corpus status report.
type CorpusStats struct {
	Backend     string
	Studies     int64
	Peaks       int64
	Annotations int64

	SampleStudies     []core.Study
	SamplePeaks       []core.Peak
	SampleAnnotations []AnnotationRow

	// Manifest is nil for backends without snapshot provenance.
	Manifest *core.Manifest

	// Errors lists sample sections that could not be gathered.
	Errors []string
}
