package core

import (
	"errors"
	"testing"
)

func TestNormalizeTerm(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantKey     string
		wantPattern string
		wantErr     error
	}{
		{
			name:        "simple term",
			raw:         "emotion",
			wantKey:     "emotion",
			wantPattern: "%emotion%",
		},
		{
			name:        "uppercase folded",
			raw:         "Emotion",
			wantKey:     "emotion",
			wantPattern: "%emotion%",
		},
		{
			name:        "hyphenated term",
			raw:         "Posterior-Cingulate",
			wantKey:     "posterior_cingulate",
			wantPattern: "%posterior cingulate%",
		},
		{
			name:        "underscored term",
			raw:         "working_memory",
			wantKey:     "working_memory",
			wantPattern: "%working memory%",
		},
		{
			name:        "mixed separators",
			raw:         "Pain-related_response",
			wantKey:     "pain_related_response",
			wantPattern: "%pain related response%",
		},
		{
			name:    "empty term",
			raw:     "",
			wantErr: ErrEmptyTerm,
		},
		{
			name:    "blank term",
			raw:     "   ",
			wantErr: ErrEmptyTerm,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NormalizeTerm(tt.raw)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("NormalizeTerm(%q) error = nil, want %v", tt.raw, tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("NormalizeTerm(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidPredicate) {
					t.Errorf("NormalizeTerm(%q) error = %v, want wrapped ErrInvalidPredicate", tt.raw, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("NormalizeTerm(%q) error = %v, want nil", tt.raw, err)
			}
			if p.Raw != tt.raw {
				t.Errorf("Raw = %q, want %q", p.Raw, tt.raw)
			}
			if p.CanonicalKey != tt.wantKey {
				t.Errorf("CanonicalKey = %q, want %q", p.CanonicalKey, tt.wantKey)
			}
			if p.DisplayPattern != tt.wantPattern {
				t.Errorf("DisplayPattern = %q, want %q", p.DisplayPattern, tt.wantPattern)
			}
		})
	}
}

func TestNormalizeTermIdempotent(t *testing.T) {
	first, err := NormalizeTerm("Posterior-Cingulate")
	if err != nil {
		t.Fatalf("NormalizeTerm() error = %v", err)
	}

	second, err := NormalizeTerm(first.CanonicalKey)
	if err != nil {
		t.Fatalf("NormalizeTerm() error = %v", err)
	}

	if second.CanonicalKey != first.CanonicalKey {
		t.Errorf("re-normalized key = %q, want %q", second.CanonicalKey, first.CanonicalKey)
	}
	if second.DisplayPattern != first.DisplayPattern {
		t.Errorf("re-normalized pattern = %q, want %q", second.DisplayPattern, first.DisplayPattern)
	}
}

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    [3]float64
		wantErr error
	}{
		{
			name: "integer coordinates",
			raw:  "10_-20_30",
			want: [3]float64{10, -20, 30},
		},
		{
			name: "decimal coordinates",
			raw:  "1.5_-2.25_0",
			want: [3]float64{1.5, -2.25, 0},
		},
		{
			name: "origin",
			raw:  "0_0_0",
			want: [3]float64{0, 0, 0},
		},
		{
			name:    "two components",
			raw:     "10_20",
			wantErr: ErrLocationFormat,
		},
		{
			name:    "four components",
			raw:     "10_20_30_40",
			wantErr: ErrLocationFormat,
		},
		{
			name:    "non-numeric components",
			raw:     "a_b_c",
			wantErr: ErrLocationComponent,
		},
		{
			name:    "one bad component",
			raw:     "10_x_30",
			wantErr: ErrLocationComponent,
		},
		{
			name:    "empty string",
			raw:     "",
			wantErr: ErrLocationFormat,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ParseLocation(tt.raw)

			if tt.wantErr != nil {
				if err == nil {
					t.Fatalf("ParseLocation(%q) error = nil, want %v", tt.raw, tt.wantErr)
				}
				if !errors.Is(err, tt.wantErr) {
					t.Errorf("ParseLocation(%q) error = %v, want %v", tt.raw, err, tt.wantErr)
				}
				if !errors.Is(err, ErrInvalidPredicate) {
					t.Errorf("ParseLocation(%q) error = %v, want wrapped ErrInvalidPredicate", tt.raw, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("ParseLocation(%q) error = %v, want nil", tt.raw, err)
			}
			if got := [3]float64{p.X, p.Y, p.Z}; got != tt.want {
				t.Errorf("ParseLocation(%q) = %v, want %v", tt.raw, got, tt.want)
			}
			if p.RadiusMM != DefaultRadiusMM {
				t.Errorf("RadiusMM = %v, want %v", p.RadiusMM, DefaultRadiusMM)
			}
		})
	}
}
