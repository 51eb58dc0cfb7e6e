package ingestion

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/poiesic/neuroq/core"
)

// databaseColumns holds the field positions found in a database dump
// header. The dump carries one row per reported peak, with the study
// metadata columns repeated on every row.
type databaseColumns struct {
	id      int
	x, y, z int
	title   int
	authors int
	year    int
	journal int
}

func mapDatabaseColumns(header []string) (databaseColumns, error) {
	cols := databaseColumns{
		id: -1, x: -1, y: -1, z: -1,
		title: -1, authors: -1, year: -1, journal: -1,
	}
	for i, name := range header {
		switch strings.ToLower(strings.TrimSpace(name)) {
		case "id":
			cols.id = i
		case "x":
			cols.x = i
		case "y":
			cols.y = i
		case "z":
			cols.z = i
		case "title":
			cols.title = i
		case "authors":
			cols.authors = i
		case "year":
			cols.year = i
		case "journal":
			cols.journal = i
		}
	}
	if cols.id < 0 || cols.x < 0 || cols.y < 0 || cols.z < 0 {
		return cols, fmt.Errorf("%w: database header missing id/x/y/z columns", ErrMalformedSnapshot)
	}
	return cols, nil
}

// databaseReader streams a database dump peak by peak.
type databaseReader struct {
	csv  *csv.Reader
	cols databaseColumns
	seen map[core.StudyID]bool
	line int
}

func newDatabaseReader(r io.Reader) (*databaseReader, error) {
	cr := csv.NewReader(r)
	cr.Comma = '\t'
	cr.LazyQuotes = true // titles may carry bare quotes

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%w: database header: %w", ErrMalformedSnapshot, err)
	}
	cols, err := mapDatabaseColumns(header)
	if err != nil {
		return nil, err
	}

	return &databaseReader{
		csv:  cr,
		cols: cols,
		seen: make(map[core.StudyID]bool),
		line: 1,
	}, nil
}

// ForEach invokes fn once per peak row. The study record is passed on the
// first row of each study and nil on the repeats.
func (r *databaseReader) ForEach(fn func(study *core.Study, peak core.Peak) error) error {
	for {
		record, err := r.csv.Read()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("%w: %w", ErrMalformedSnapshot, err)
		}
		r.line++

		id := core.StudyID(strings.TrimSpace(record[r.cols.id]))
		if id == "" {
			return fmt.Errorf("%w: line %d: empty study id", ErrMalformedSnapshot, r.line)
		}

		peak := core.Peak{StudyID: id}
		if peak.X, err = parseCoordinate(record[r.cols.x]); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrMalformedSnapshot, r.line, err)
		}
		if peak.Y, err = parseCoordinate(record[r.cols.y]); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrMalformedSnapshot, r.line, err)
		}
		if peak.Z, err = parseCoordinate(record[r.cols.z]); err != nil {
			return fmt.Errorf("%w: line %d: %w", ErrMalformedSnapshot, r.line, err)
		}

		var study *core.Study
		if !r.seen[id] {
			r.seen[id] = true
			study = &core.Study{
				ID:      id,
				Title:   field(record, r.cols.title),
				Authors: field(record, r.cols.authors),
				Journal: field(record, r.cols.journal),
				Year:    parseYear(field(record, r.cols.year)),
			}
		}

		if err := fn(study, peak); err != nil {
			return err
		}
	}
}

func parseCoordinate(raw string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, fmt.Errorf("coordinate %q: %w", raw, err)
	}
	return v, nil
}

// parseYear accepts plain integers and the float form some exports write.
// The year is display metadata; an unreadable value loads as zero.
func parseYear(raw string) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	if year, err := strconv.Atoi(raw); err == nil {
		return year
	}
	if f, err := strconv.ParseFloat(raw, 64); err == nil {
		return int(f)
	}
	return 0
}

func field(record []string, idx int) string {
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
