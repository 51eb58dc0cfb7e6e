package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/storage"
)

// featuresReader streams a features dump: one row per study, one column per
// feature, weights in the cells. Zero weights are skipped; the matrix is
// sparse in all but name.
type featuresReader struct {
	csv      *csv.Reader
	features []string
	line     int
}

func newFeaturesReader(r io.Reader) (*featuresReader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: features header: %w", ErrMalformedSnapshot, err)
	}
	if len(header) < 2 {
		return nil, fmt.Errorf("%w: features header carries no feature columns", ErrMalformedSnapshot)
	}

	features := make([]string, len(header)-1)
	for i, name := range header[1:] {
		features[i] = featureName(name)
	}

	return &featuresReader{
		csv:      cr,
		features: features,
		line:     1,
	}, nil
}

// featureName maps a dump column to its corpus feature key. Raw dumps carry
// bare term names; database exports carry full feature keys already.
func featureName(name string) string {
	name = strings.TrimSpace(name)
	if strings.HasPrefix(name, core.FeaturePrefix) {
		return name
	}
	return core.FeaturePrefix + name
}

// ForEach invokes fn once per nonzero (study, feature) weight.
func (r *featuresReader) ForEach(fn func(row storage.AnnotationRow) error) error {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
		}
		r.line++

		id := core.StudyID(strings.TrimSpace(record[0]))
		if id == "" {
			return fmt.Errorf("%w: line %d: empty study id", ErrMalformedSnapshot, r.line)
		}

		for i, raw := range record[1:] {
			weight, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
			if err != nil {
				return fmt.Errorf("%w: line %d: weight %q: %w", ErrMalformedSnapshot, r.line, raw, err)
			}
			if weight == 0 {
				continue
			}
			row := storage.AnnotationRow{
				StudyID: id,
				Feature: r.features[i],
				Weight:  weight,
			}
			if err := fn(row); err != nil {
				return err
			}
		}
	}
}
