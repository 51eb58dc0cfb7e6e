package badger

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/storage"
)

const statsSampleSize = 5

// Corpus implements storage.Corpus over an embedded snapshot store.
//
// Exact feature lookups ride the annotation key prefix. Title and spatial
// lookups scan the study and peak records linearly; embedded snapshots are
// dev and test scale, where a scan is cheaper than maintaining substring or
// spatial indices.
type Corpus struct {
	backend *Backend
}

var _ storage.Corpus = (*Corpus)(nil)

// NewCorpus creates a read accessor over an open backend. The backend stays
// owned by the caller.
func NewCorpus(backend *Backend) *Corpus {
	return &Corpus{backend: backend}
}

// Close implements storage.Corpus. The backend is closed by its owner.
func (c *Corpus) Close() error {
	return nil
}

// TermWeights returns the (study, weight) rows stored under the feature.
func (c *Corpus) TermWeights(ctx context.Context, feature string) ([]core.TermWeight, error) {
	var rows []core.TermWeight
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = makePartialAnnotationKey(feature)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			annotation, err := readAnnotation(iter.Item())
			if err != nil {
				return err
			}
			rows = append(rows, core.TermWeight{ID: annotation.StudyID, Weight: annotation.Weight})
		}
		return nil
	}, false)
	if err != nil {
		return nil, unavailable(err)
	}
	return rows, nil
}

// TitlesMatching scans study records for titles containing the pattern's
// core text, case-insensitively.
func (c *Corpus) TitlesMatching(ctx context.Context, pattern string) ([]core.TitleMatch, error) {
	needle := strings.ToLower(strings.Trim(pattern, "%"))

	var rows []core.TitleMatch
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(studyRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			study, err := readStudy(iter.Item())
			if err != nil {
				return err
			}
			if study.Title == "" {
				continue
			}
			if strings.Contains(strings.ToLower(study.Title), needle) {
				rows = append(rows, core.TitleMatch{ID: study.ID, Title: study.Title})
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, unavailable(err)
	}
	return rows, nil
}

// WeightFor looks up a single study's weight for a feature.
func (c *Corpus) WeightFor(ctx context.Context, id core.StudyID, feature string) (float64, bool, error) {
	var (
		weight float64
		found  bool
	)
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeAnnotationKey(feature, id))
		if err != nil {
			if err == badger.ErrKeyNotFound {
				return nil
			}
			return err
		}
		annotation, err := readAnnotation(item)
		if err != nil {
			return err
		}
		weight = annotation.Weight
		found = true
		return nil
	}, false)
	if err != nil {
		return 0, false, unavailable(err)
	}
	return weight, found, nil
}

// WeightsFor looks up weights for a batch of studies in one transaction.
func (c *Corpus) WeightsFor(ctx context.Context, feature string, ids []core.StudyID) (map[core.StudyID]float64, error) {
	weights := make(map[core.StudyID]float64, len(ids))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, id := range ids {
			item, err := tx.Get(makeAnnotationKey(feature, id))
			if err != nil {
				if err == badger.ErrKeyNotFound {
					continue
				}
				return err
			}
			annotation, err := readAnnotation(item)
			if err != nil {
				return err
			}
			weights[annotation.StudyID] = annotation.Weight
		}
		return nil
	}, false)
	if err != nil {
		return nil, unavailable(err)
	}
	return weights, nil
}

// StudiesNear scans peaks for points within radiusMM of (x, y, z) and
// returns the distinct studies in ascending ID order.
func (c *Corpus) StudiesNear(ctx context.Context, x, y, z, radiusMM float64) ([]core.StudyID, error) {
	radiusSq := radiusMM * radiusMM
	seen := make(map[core.StudyID]struct{})

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(peakPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			peak, err := readPeak(iter.Item())
			if err != nil {
				return err
			}
			if _, ok := seen[peak.StudyID]; ok {
				continue
			}
			dx, dy, dz := peak.X-x, peak.Y-y, peak.Z-z
			if dx*dx+dy*dy+dz*dz <= radiusSq {
				seen[peak.StudyID] = struct{}{}
			}
		}
		return nil
	}, false)
	if err != nil {
		return nil, unavailable(err)
	}

	ids := make([]core.StudyID, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids, nil
}

// Stats reports snapshot counts, row samples, and the manifest.
func (c *Corpus) Stats(ctx context.Context) (*storage.CorpusStats, error) {
	stats := &storage.CorpusStats{Backend: "badger"}

	err := c.backend.WithTx(func(tx *badger.Txn) error {
		stats.Studies = countPrefix(tx, []byte(studyRecordPrefix+":"))
		stats.Peaks = countPrefix(tx, []byte(peakPrefix+":"))
		stats.Annotations = countPrefix(tx, []byte(annotationPrefix+":"))
		return nil
	}, false)
	if err != nil {
		return nil, unavailable(err)
	}

	// Sample sections are independent; one failing leaves its section empty.
	if err := c.sampleStudies(stats); err != nil {
		c.backend.logger.Warn("study sample failed", "err", err)
		stats.Errors = append(stats.Errors, fmt.Sprintf("studies: %v", err))
	}
	if err := c.samplePeaks(stats); err != nil {
		c.backend.logger.Warn("peak sample failed", "err", err)
		stats.Errors = append(stats.Errors, fmt.Sprintf("peaks: %v", err))
	}
	if err := c.sampleAnnotations(stats); err != nil {
		c.backend.logger.Warn("annotation sample failed", "err", err)
		stats.Errors = append(stats.Errors, fmt.Sprintf("annotations: %v", err))
	}

	manifest, err := c.Manifest(ctx)
	if err != nil && err != storage.ErrNotFound {
		c.backend.logger.Warn("manifest read failed", "err", err)
		stats.Errors = append(stats.Errors, fmt.Sprintf("manifest: %v", err))
	}
	stats.Manifest = manifest

	return stats, nil
}

func (c *Corpus) sampleStudies(stats *storage.CorpusStats) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(studyRecordPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid() && len(stats.SampleStudies) < statsSampleSize; iter.Next() {
			study, err := readStudy(iter.Item())
			if err != nil {
				return err
			}
			stats.SampleStudies = append(stats.SampleStudies, *study)
		}
		return nil
	}, false)
}

func (c *Corpus) samplePeaks(stats *storage.CorpusStats) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(peakPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid() && len(stats.SamplePeaks) < statsSampleSize; iter.Next() {
			peak, err := readPeak(iter.Item())
			if err != nil {
				return err
			}
			stats.SamplePeaks = append(stats.SamplePeaks, *peak)
		}
		return nil
	}, false)
}

func (c *Corpus) sampleAnnotations(stats *storage.CorpusStats) error {
	return c.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(annotationPrefix + ":")
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid() && len(stats.SampleAnnotations) < statsSampleSize; iter.Next() {
			item := iter.Item()
			feature, _, ok := splitAnnotationKey(item.Key())
			if !ok {
				continue
			}
			annotation, err := readAnnotation(item)
			if err != nil {
				return err
			}
			stats.SampleAnnotations = append(stats.SampleAnnotations, storage.AnnotationRow{
				StudyID: annotation.StudyID,
				Feature: feature,
				Weight:  annotation.Weight,
			})
		}
		return nil
	}, false)
}

// Helper methods

// countPrefix counts keys under a prefix without prefetching values.
func countPrefix(tx *badger.Txn, prefix []byte) int64 {
	opts := badger.DefaultIteratorOptions
	opts.Prefix = prefix
	opts.PrefetchValues = false
	iter := tx.NewIterator(opts)
	defer iter.Close()

	var n int64
	for iter.Rewind(); iter.Valid(); iter.Next() {
		n++
	}
	return n
}

// readStudy decodes a study record from an iterator item.
func readStudy(item *badger.Item) (*core.Study, error) {
	var study *core.Study
	err := item.Value(func(val []byte) error {
		var unmarshalErr error
		study, unmarshalErr = storage.UnmarshalStudy(val)
		return unmarshalErr
	})
	return study, err
}

// readPeak decodes a peak record from an iterator item.
func readPeak(item *badger.Item) (*core.Peak, error) {
	var peak *core.Peak
	err := item.Value(func(val []byte) error {
		var unmarshalErr error
		peak, unmarshalErr = storage.UnmarshalPeak(val)
		return unmarshalErr
	})
	return peak, err
}

// readAnnotation decodes an annotation record from an iterator item.
func readAnnotation(item *badger.Item) (*core.Annotation, error) {
	var annotation *core.Annotation
	err := item.Value(func(val []byte) error {
		var unmarshalErr error
		annotation, unmarshalErr = storage.UnmarshalAnnotation(val)
		return unmarshalErr
	})
	return annotation, err
}

// unavailable classifies a backend failure for callers.
func unavailable(err error) error {
	return fmt.Errorf("%w: %w", storage.ErrUnavailable, err)
}
