// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package core

import (
	"fmt"
	"strconv"
	"strings"
)

// NormalizeTerm builds a TermPredicate from raw user input.
//
// Derivations:
//   - CanonicalKey: lowercase, hyphens folded to underscores. Matches the
//     feature naming of the corpus annotation table.
//   - DisplayPattern: the canonical key with underscores folded to spaces,
//     wrapped in % wildcards for case-insensitive substring matching.
//
// Both derivations are pure and idempotent: normalizing an already canonical
// key yields the same predicate.
func NormalizeTerm(raw string) (TermPredicate, error) {
	if strings.TrimSpace(raw) == "" {
		return TermPredicate{}, fmt.Errorf("%w: %w", ErrInvalidPredicate, ErrEmptyTerm)
	}

	canonical := strings.ReplaceAll(strings.ToLower(raw), "-", "_")
	display := "%" + strings.ReplaceAll(canonical, "_", " ") + "%"

	return TermPredicate{
		Raw:            raw,
		CanonicalKey:   canonical,
		DisplayPattern: display,
	}, nil
}

// ParseLocation builds a LocationPredicate from an "X_Y_Z" coordinate string.
// Exactly three underscore-separated numeric components are required; the
// radius is filled with DefaultRadiusMM.
func ParseLocation(raw string) (LocationPredicate, error) {
	parts := strings.Split(raw, "_")
	if len(parts) != 3 {
		return LocationPredicate{}, fmt.Errorf("%w: %w: %q has %d components",
			ErrInvalidPredicate, ErrLocationFormat, raw, len(parts))
	}

	var coords [3]float64
	for i, part := range parts {
		v, err := strconv.ParseFloat(part, 64)
		if err != nil {
			return LocationPredicate{}, fmt.Errorf("%w: %w: %q",
				ErrInvalidPredicate, ErrLocationComponent, part)
		}
		coords[i] = v
	}

	return LocationPredicate{
		X:        coords[0],
		Y:        coords[1],
		Z:        coords[2],
		RadiusMM: DefaultRadiusMM,
	}, nil
}

// FormatCoordinate renders a coordinate component the way ParseLocation
// accepts it back.
func FormatCoordinate(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
