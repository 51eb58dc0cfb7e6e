package dissoc

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/storage"
)

// Matcher evaluates a single predicate into the set of studies it selects.
type Matcher struct {
	corpus storage.Corpus
	logger *slog.Logger
}

// NewMatcher creates a matcher over the corpus.
func NewMatcher(corpus storage.Corpus, logger *slog.Logger) (*Matcher, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{corpus: corpus, logger: logger}, nil
}

// Match evaluates the predicate. An empty corpus answer yields an empty set;
// an error means the corpus could not be consulted and carries no partial set.
func (m *Matcher) Match(ctx context.Context, p core.Predicate) (core.MatchSet, error) {
	switch pred := p.(type) {
	case core.TermPredicate:
		return m.matchTerm(ctx, pred)
	case core.LocationPredicate:
		return m.matchLocation(ctx, pred)
	default:
		return nil, fmt.Errorf("%w: kind %d", ErrUnsupportedPredicate, p.Kind())
	}
}

// matchTerm unions the annotation path and the title path. Annotation rows
// carry weights; title rows carry titles; studies on both paths carry both.
func (m *Matcher) matchTerm(ctx context.Context, pred core.TermPredicate) (core.MatchSet, error) {
	weights, err := m.corpus.TermWeights(ctx, pred.FeatureKey())
	if err != nil {
		m.logger.Error("term weight lookup failed", "term", pred.CanonicalKey, "err", err)
		return nil, err
	}

	titles, err := m.corpus.TitlesMatching(ctx, pred.DisplayPattern)
	if err != nil {
		m.logger.Error("title lookup failed", "term", pred.CanonicalKey, "err", err)
		return nil, err
	}

	set := make(core.MatchSet, len(weights)+len(titles))
	for _, row := range weights {
		weight := row.Weight
		set[row.ID] = core.StudyMatch{ID: row.ID, Weight: &weight}
	}
	for _, row := range titles {
		if match, ok := set[row.ID]; ok {
			match.Title = row.Title
			set[row.ID] = match
			continue
		}
		set[row.ID] = core.StudyMatch{ID: row.ID, Title: row.Title}
	}
	return set, nil
}

// matchLocation selects studies with a peak inside the predicate's radius.
// Spatial matches carry IDs only.
func (m *Matcher) matchLocation(ctx context.Context, pred core.LocationPredicate) (core.MatchSet, error) {
	ids, err := m.corpus.StudiesNear(ctx, pred.X, pred.Y, pred.Z, pred.RadiusMM)
	if err != nil {
		m.logger.Error("spatial lookup failed", "location", pred.Describe(), "err", err)
		return nil, err
	}

	set := make(core.MatchSet, len(ids))
	for _, id := range ids {
		set[id] = core.StudyMatch{ID: id}
	}
	return set, nil
}
