package badger

import (
	"context"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/storage"
)

// Writer implements storage.CorpusWriter for BadgerDB.
type Writer struct {
	backend *Backend
	peakSeq *badger.Sequence
}

var _ storage.CorpusWriter = (*Writer)(nil)

// NewWriter creates a snapshot writer over an open backend.
func NewWriter(backend *Backend) (*Writer, error) {
	peakSeq, err := backend.GetSequence(peakIDSeq)
	if err != nil {
		return nil, err
	}

	return &Writer{
		backend: backend,
		peakSeq: peakSeq,
	}, nil
}

// Close releases the peak sequence. The backend stays open.
func (w *Writer) Close() error {
	return w.peakSeq.Release()
}

// AddStudies stores study metadata records.
func (w *Writer) AddStudies(ctx context.Context, studies []core.Study) error {
	return w.backend.WithTx(func(tx *badger.Txn) error {
		for i := range studies {
			key := makeStudyKey(studies[i].ID)
			value := storage.MarshalStudy(&studies[i])
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// AddPeaks stores activation coordinates, one key per peak.
func (w *Writer) AddPeaks(ctx context.Context, peaks []core.Peak) error {
	return w.backend.WithTx(func(tx *badger.Txn) error {
		for i := range peaks {
			seq, err := w.peakSeq.Next()
			if err != nil {
				return err
			}
			key := makePeakKey(peaks[i].StudyID, seq)
			value := storage.MarshalPeak(&peaks[i])
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}

// AddAnnotations stores (study, feature, weight) rows. Rewriting a
// (feature, study) pair overwrites the stored weight.
func (w *Writer) AddAnnotations(ctx context.Context, rows []storage.AnnotationRow) error {
	return w.backend.WithTx(func(tx *badger.Txn) error {
		for _, row := range rows {
			key := makeAnnotationKey(row.Feature, row.StudyID)
			annotation := core.Annotation{StudyID: row.StudyID, Weight: row.Weight}
			value := storage.MarshalAnnotation(&annotation)
			if err := tx.Set(key, value); err != nil {
				return err
			}
		}
		return tx.Commit()
	}, true)
}
