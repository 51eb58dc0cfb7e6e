package core

import "testing"

func TestTermPredicateFeatureKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{
			name: "single word",
			key:  "emotion",
			want: "terms_abstract_tfidf__emotion",
		},
		{
			name: "multi word",
			key:  "posterior_cingulate",
			want: "terms_abstract_tfidf__posterior_cingulate",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := TermPredicate{CanonicalKey: tt.key}
			if got := p.FeatureKey(); got != tt.want {
				t.Errorf("FeatureKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestPredicateKinds(t *testing.T) {
	var term Predicate = TermPredicate{CanonicalKey: "emotion"}
	var loc Predicate = LocationPredicate{X: 1, Y: 2, Z: 3, RadiusMM: DefaultRadiusMM}

	if term.Kind() != PredicateTerm {
		t.Errorf("term Kind() = %v, want %v", term.Kind(), PredicateTerm)
	}
	if loc.Kind() != PredicateLocation {
		t.Errorf("location Kind() = %v, want %v", loc.Kind(), PredicateLocation)
	}
}

func TestLocationPredicateDescribe(t *testing.T) {
	p := LocationPredicate{X: 10, Y: -20.5, Z: 30}

	if got := p.Describe(); got != "10_-20.5_30" {
		t.Errorf("Describe() = %q, want %q", got, "10_-20.5_30")
	}

	// Describe output must parse back to the same point.
	back, err := ParseLocation(p.Describe())
	if err != nil {
		t.Fatalf("ParseLocation(Describe()) error = %v", err)
	}
	if back.X != p.X || back.Y != p.Y || back.Z != p.Z {
		t.Errorf("round trip = (%v, %v, %v), want (%v, %v, %v)",
			back.X, back.Y, back.Z, p.X, p.Y, p.Z)
	}
}

func TestLocationPredicateCoordinates(t *testing.T) {
	p := LocationPredicate{X: -8, Y: 14, Z: 2}
	if got := p.Coordinates(); got != [3]float64{-8, 14, 2} {
		t.Errorf("Coordinates() = %v, want %v", got, [3]float64{-8, 14, 2})
	}
}
