package dissoc

import (
	"context"
	"log/slog"
	"slices"

	"golang.org/x/sync/errgroup"

	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/storage"
)

// DefaultMatchLimit bounds the studies returned from one dissociation.
// The difference is counted in full before the bound applies.
const DefaultMatchLimit = 100

// Dissociator evaluates "A but not B" queries over a corpus.
type Dissociator struct {
	matcher    *Matcher
	corpus     storage.Corpus
	logger     *slog.Logger
	matchLimit int
	radiusMM   float64
}

// Option configures a Dissociator.
type Option func(*Dissociator) error

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dissociator) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// WithMatchLimit overrides the result bound. Values below one fall back to
// DefaultMatchLimit.
func WithMatchLimit(limit int) Option {
	return func(d *Dissociator) error {
		if limit < 1 {
			limit = DefaultMatchLimit
		}
		d.matchLimit = limit
		return nil
	}
}

// WithRadiusMM overrides the spatial radius applied to parsed locations.
// Values at or below zero fall back to core.DefaultRadiusMM.
func WithRadiusMM(radiusMM float64) Option {
	return func(d *Dissociator) error {
		if radiusMM <= 0 {
			radiusMM = core.DefaultRadiusMM
		}
		d.radiusMM = radiusMM
		return nil
	}
}

// NewDissociator creates an evaluator over the corpus.
func NewDissociator(corpus storage.Corpus, opts ...Option) (*Dissociator, error) {
	if corpus == nil {
		return nil, ErrCorpusRequired
	}

	logger := slog.Default()
	matcher, err := NewMatcher(corpus, logger)
	if err != nil {
		return nil, err
	}

	d := &Dissociator{
		matcher:    matcher,
		corpus:     corpus,
		logger:     logger,
		matchLimit: DefaultMatchLimit,
		radiusMM:   core.DefaultRadiusMM,
	}

	// Apply options
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	d.matcher.logger = d.logger

	return d, nil
}

// DissociateTerms normalizes two raw terms and dissociates them.
func (d *Dissociator) DissociateTerms(ctx context.Context, rawA, rawB string) (*core.DissociationResult, error) {
	a, err := core.NormalizeTerm(rawA)
	if err != nil {
		return nil, err
	}
	b, err := core.NormalizeTerm(rawB)
	if err != nil {
		return nil, err
	}
	return d.Dissociate(ctx, a, b)
}

// DissociateLocations parses two coordinate strings and dissociates them,
// applying the configured radius.
func (d *Dissociator) DissociateLocations(ctx context.Context, rawA, rawB string) (*core.DissociationResult, error) {
	a, err := d.ParseLocation(rawA)
	if err != nil {
		return nil, err
	}
	b, err := d.ParseLocation(rawB)
	if err != nil {
		return nil, err
	}
	return d.Dissociate(ctx, a, b)
}

// ParseLocation parses a coordinate string with the configured radius.
func (d *Dissociator) ParseLocation(raw string) (core.LocationPredicate, error) {
	pred, err := core.ParseLocation(raw)
	if err != nil {
		return core.LocationPredicate{}, err
	}
	pred.RadiusMM = d.radiusMM
	return pred, nil
}

// Match evaluates a single predicate, for plain listings.
func (d *Dissociator) Match(ctx context.Context, p core.Predicate) (core.MatchSet, error) {
	return d.matcher.Match(ctx, p)
}

// MatchLimit returns the configured result bound.
func (d *Dissociator) MatchLimit() int {
	return d.matchLimit
}

// Dissociate returns the studies matching a and not b.
func (d *Dissociator) Dissociate(ctx context.Context, a, b core.Predicate) (*core.DissociationResult, error) {
	return d.DissociateWithMonitor(ctx, a, b, nil)
}

// DissociateWithMonitor evaluates the dissociation with monitoring.
// The monitor receives callbacks at each stage of the evaluation.
//
// Both sides are matched concurrently; the first corpus failure cancels the
// other side and aborts the query. The difference is ordered by ascending
// study ID, counted in full, then truncated to the match limit.
func (d *Dissociator) DissociateWithMonitor(ctx context.Context, a, b core.Predicate, monitor Monitor) (*core.DissociationResult, error) {
	// Use noop monitor if none provided
	if monitor == nil {
		monitor = &noopMonitor{}
	}

	monitor.Start(a, b)

	var setA, setB core.MatchSet
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		setA, err = d.matcher.Match(gctx, a)
		return err
	})
	g.Go(func() error {
		var err error
		setB, err = d.matcher.Match(gctx, b)
		return err
	})
	if err := g.Wait(); err != nil {
		d.logger.Error("dissociation match failed",
			"a", a.Describe(), "b", b.Describe(), "err", err)
		return nil, err
	}
	monitor.AfterMatch(a, setA)
	monitor.AfterMatch(b, setB)

	diff := make([]core.StudyID, 0, len(setA))
	for id := range setA {
		if _, excluded := setB[id]; !excluded {
			diff = append(diff, id)
		}
	}
	slices.Sort(diff)

	total := len(diff)
	monitor.AfterDifference(diff, total)

	if len(diff) > d.matchLimit {
		diff = diff[:d.matchLimit]
	}

	matches := make([]core.StudyMatch, 0, len(diff))
	for _, id := range diff {
		matches = append(matches, setA[id])
	}

	// Term results carry weights; matches that arrived through the title
	// path alone get one batched lookup.
	if term, isTerm := a.(core.TermPredicate); isTerm {
		if err := d.backfillWeights(ctx, term, matches, monitor); err != nil {
			return nil, err
		}
	}

	result := &core.DissociationResult{
		PredicateA: a,
		PredicateB: b,
		Matches:    matches,
		TotalCount: total,
	}
	monitor.Finish(result)

	return result, nil
}

// backfillWeights fills missing weights on the bounded matches in one
// corpus round trip. A lookup failure fails the query; results never
// silently drop weights the corpus may hold.
func (d *Dissociator) backfillWeights(ctx context.Context, term core.TermPredicate, matches []core.StudyMatch, monitor Monitor) error {
	missing := make([]core.StudyID, 0, len(matches))
	for i := range matches {
		if matches[i].Weight == nil {
			missing = append(missing, matches[i].ID)
		}
	}
	if len(missing) == 0 {
		monitor.AfterWeightBackfill(0)
		return nil
	}

	weights, err := d.corpus.WeightsFor(ctx, term.FeatureKey(), missing)
	if err != nil {
		d.logger.Error("weight backfill failed",
			"term", term.CanonicalKey, "count", len(missing), "err", err)
		return err
	}

	filled := 0
	for i := range matches {
		if matches[i].Weight != nil {
			continue
		}
		if weight, ok := weights[matches[i].ID]; ok {
			matches[i].Weight = &weight
			filled++
		}
	}
	monitor.AfterWeightBackfill(filled)
	return nil
}
