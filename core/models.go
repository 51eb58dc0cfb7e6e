package core

//go:generate go run ../cmd/musgen

// StudyID is the corpus-wide identifier of a study (a PubMed ID in the
// standard corpus dumps). IDs are treated as opaque strings; ordering, where
// required, is plain byte order.
type StudyID string

// FeaturePrefix is the naming convention for term features in the corpus
// annotation table. A term's feature key is FeaturePrefix + canonical key.
const FeaturePrefix = "terms_abstract_tfidf__"

// DefaultRadiusMM is the spatial match radius applied to parsed locations.
const DefaultRadiusMM = 10.0

// PredicateKind identifies the variant of a Predicate.
type PredicateKind int

const (
	// PredicateTerm selects studies by cognitive term.
	PredicateTerm PredicateKind = iota + 1
	// PredicateLocation selects studies by activation coordinate.
	PredicateLocation
)

// Predicate is one side of a dissociation query. Exactly two variants exist:
// TermPredicate and LocationPredicate.
type Predicate interface {
	Kind() PredicateKind
	// Describe returns a short human-readable form for logs and payloads.
	Describe() string
}

// TermPredicate selects studies associated with a cognitive term, either
// through the corpus term annotations or through a title substring match.
// Both derived fields are fixed at normalization time.
type TermPredicate struct {
	Raw            string // term as received, unmodified
	CanonicalKey   string // lowercased, hyphens folded to underscores
	DisplayPattern string // lowercased, separators folded to spaces, %-wrapped
}

// Kind implements Predicate.
func (p TermPredicate) Kind() PredicateKind { return PredicateTerm }

// Describe implements Predicate.
func (p TermPredicate) Describe() string { return p.CanonicalKey }

// FeatureKey returns the annotation feature name for this term.
func (p TermPredicate) FeatureKey() string { return FeaturePrefix + p.CanonicalKey }

// LocationPredicate selects studies reporting an activation peak within
// RadiusMM of the point (X, Y, Z) in MNI space.
type LocationPredicate struct {
	X, Y, Z  float64
	RadiusMM float64
}

// Kind implements Predicate.
func (p LocationPredicate) Kind() PredicateKind { return PredicateLocation }

// Describe implements Predicate.
func (p LocationPredicate) Describe() string {
	return FormatCoordinate(p.X) + "_" + FormatCoordinate(p.Y) + "_" + FormatCoordinate(p.Z)
}

// Coordinates returns the point as a [x, y, z] triple.
func (p LocationPredicate) Coordinates() [3]float64 { return [3]float64{p.X, p.Y, p.Z} }

// StudyMatch is a single study selected by a predicate evaluation.
// Title is empty and Weight is nil when the corpus carries no value for them.
type StudyMatch struct {
	ID     StudyID
	Title  string
	Weight *float64
}

// MatchSet holds one predicate evaluation keyed by study. Sets are built per
// request and discarded with it; they are never shared or cached.
type MatchSet map[StudyID]StudyMatch

// DissociationResult is the outcome of evaluating "A but not B".
type DissociationResult struct {
	PredicateA Predicate
	PredicateB Predicate

	// Matches holds the studies selected by A and not by B, ordered by
	// ascending StudyID and truncated to the evaluator's match limit.
	Matches []StudyMatch

	// TotalCount is the size of the difference before truncation.
	TotalCount int
}

// Study is a corpus metadata record.
type Study struct {
	ID      StudyID
	Title   string
	Authors string
	Journal string
	Year    int
}

// Peak is a single activation coordinate reported by a study.
type Peak struct {
	StudyID StudyID
	X       float64
	Y       float64
	Z       float64
}

// Annotation is one (feature, study) weight from the corpus term table.
type Annotation struct {
	StudyID StudyID
	Weight  float64
}

// TermWeight is one row of an exact feature lookup.
type TermWeight struct {
	ID     StudyID
	Weight float64
}

// TitleMatch is one row of a title substring lookup.
type TitleMatch struct {
	ID    StudyID
	Title string
}

// Manifest records the provenance of an ingested corpus snapshot.
type Manifest struct {
	DatabaseFile   string
	DatabaseDigest string // hex BLAKE2b-256 of the raw file
	FeaturesFile   string
	FeaturesDigest string
	Studies        int64
	Peaks          int64
	Annotations    int64
	IngestedAt     int64 // Unix seconds
}
