package dissoc

import (
	"slices"

	"github.com/poiesic/neuroq/core"
)

// StudyResult is one study row in a term payload.
type StudyResult struct {
	StudyID string   `json:"study_id"`
	Title   string   `json:"title,omitempty"`
	Weight  *float64 `json:"weight,omitempty"`
}

// TermDissociationPayload is the response shape for a term dissociation.
type TermDissociationPayload struct {
	TermA      string        `json:"term_a"`
	TermB      string        `json:"term_b"`
	TotalCount int           `json:"total_count"`
	Results    []StudyResult `json:"results"`
}

// LocationDissociationPayload is the response shape for a location
// dissociation. Count is the full difference size; the study list is bounded.
type LocationDissociationPayload struct {
	LocationA [3]float64     `json:"location_a"`
	LocationB [3]float64     `json:"location_b"`
	Studies   []core.StudyID `json:"studies_near_a_not_b"`
	Count     int            `json:"count"`
	RadiusMM  float64        `json:"radius_mm"`
}

// TermListingPayload is the response shape for a single-term listing.
type TermListingPayload struct {
	Term       string        `json:"term"`
	TotalCount int           `json:"total_count"`
	Results    []StudyResult `json:"results"`
}

// LocationListingPayload is the response shape for a single-location listing.
type LocationListingPayload struct {
	Location [3]float64     `json:"location"`
	Studies  []core.StudyID `json:"studies"`
	Count    int            `json:"count"`
	RadiusMM float64        `json:"radius_mm"`
}

// FormatTermDissociation shapes a term dissociation result.
// The result must come from two term predicates.
func FormatTermDissociation(result *core.DissociationResult) *TermDissociationPayload {
	return &TermDissociationPayload{
		TermA:      result.PredicateA.Describe(),
		TermB:      result.PredicateB.Describe(),
		TotalCount: result.TotalCount,
		Results:    studyResults(result.Matches),
	}
}

// FormatLocationDissociation shapes a location dissociation result.
// The result must come from two location predicates.
func FormatLocationDissociation(result *core.DissociationResult) *LocationDissociationPayload {
	locA, _ := result.PredicateA.(core.LocationPredicate)
	locB, _ := result.PredicateB.(core.LocationPredicate)

	ids := make([]core.StudyID, 0, len(result.Matches))
	for _, match := range result.Matches {
		ids = append(ids, match.ID)
	}

	return &LocationDissociationPayload{
		LocationA: locA.Coordinates(),
		LocationB: locB.Coordinates(),
		Studies:   ids,
		Count:     result.TotalCount,
		RadiusMM:  locA.RadiusMM,
	}
}

// FormatTermListing shapes a single-term match set, ordered by ascending
// study ID and bounded by limit. A limit below one means unbounded.
func FormatTermListing(term core.TermPredicate, set core.MatchSet, limit int) *TermListingPayload {
	matches := sortedMatches(set)
	total := len(matches)
	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}

	return &TermListingPayload{
		Term:       term.CanonicalKey,
		TotalCount: total,
		Results:    studyResults(matches),
	}
}

// FormatLocationListing shapes a single-location match list, ordered by
// ascending study ID and bounded by limit. A limit below one means unbounded.
func FormatLocationListing(loc core.LocationPredicate, ids []core.StudyID, limit int) *LocationListingPayload {
	bounded := slices.Clone(ids)
	slices.Sort(bounded)
	total := len(bounded)
	if limit > 0 && len(bounded) > limit {
		bounded = bounded[:limit]
	}
	if bounded == nil {
		bounded = []core.StudyID{}
	}

	return &LocationListingPayload{
		Location: loc.Coordinates(),
		Studies:  bounded,
		Count:    total,
		RadiusMM: loc.RadiusMM,
	}
}

// studyResults converts matches to payload rows, preserving order.
func studyResults(matches []core.StudyMatch) []StudyResult {
	results := make([]StudyResult, 0, len(matches))
	for _, match := range matches {
		results = append(results, StudyResult{
			StudyID: string(match.ID),
			Title:   match.Title,
			Weight:  match.Weight,
		})
	}
	return results
}

// sortedMatches orders a match set by ascending study ID.
func sortedMatches(set core.MatchSet) []core.StudyMatch {
	matches := make([]core.StudyMatch, 0, len(set))
	for _, match := range set {
		matches = append(matches, match)
	}
	slices.SortFunc(matches, func(a, b core.StudyMatch) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return matches
}
