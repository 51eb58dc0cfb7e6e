package storage

import (
	"testing"

	"github.com/poiesic/neuroq/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalUnmarshalStudy(t *testing.T) {
	tests := []struct {
		name  string
		study *core.Study
	}{
		{
			name: "full record",
			study: &core.Study{
				ID:      "9802886",
				Title:   "Dissociating prefrontal and parietal cortex activation",
				Authors: "Smith E, Jonides J",
				Journal: "NeuroImage",
				Year:    1998,
			},
		},
		{
			name:  "minimal record",
			study: &core.Study{ID: "1"},
		},
		{
			name: "unicode title",
			study: &core.Study{
				ID:    "12345",
				Title: "Amygdala réponse émotionnelle",
				Year:  2004,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalStudy(tt.study)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalStudy(data)
			require.NoError(t, err)
			assert.Equal(t, tt.study, decoded)
		})
	}
}

func TestMarshalUnmarshalPeak(t *testing.T) {
	tests := []struct {
		name string
		peak *core.Peak
	}{
		{
			name: "positive coordinates",
			peak: &core.Peak{StudyID: "100", X: 24, Y: 6, Z: -18},
		},
		{
			name: "fractional coordinates",
			peak: &core.Peak{StudyID: "200", X: -1.5, Y: 0.25, Z: 63.75},
		},
		{
			name: "origin",
			peak: &core.Peak{StudyID: "300"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := MarshalPeak(tt.peak)
			require.NotEmpty(t, data)

			decoded, err := UnmarshalPeak(data)
			require.NoError(t, err)
			assert.Equal(t, tt.peak, decoded)
		})
	}
}

func TestMarshalUnmarshalAnnotation(t *testing.T) {
	annotation := &core.Annotation{StudyID: "9802886", Weight: 0.0821}

	data := MarshalAnnotation(annotation)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalAnnotation(data)
	require.NoError(t, err)
	assert.Equal(t, annotation, decoded)
}

func TestMarshalUnmarshalManifest(t *testing.T) {
	manifest := &core.Manifest{
		DatabaseFile:   "database.txt.gz",
		DatabaseDigest: "ab54d286f5e2",
		FeaturesFile:   "features.txt.gz",
		FeaturesDigest: "77cc01f0a3d9",
		Studies:        14371,
		Peaks:          507891,
		Annotations:    3228478,
		IngestedAt:     1724140800,
	}

	data := MarshalManifest(manifest)
	require.NotEmpty(t, data)

	decoded, err := UnmarshalManifest(data)
	require.NoError(t, err)
	assert.Equal(t, manifest, decoded)
}

func TestUnmarshalInvalid(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty data", []byte{}},
		{"truncated data", []byte{0x08, 0x31}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := UnmarshalStudy(tt.data)
			assert.Error(t, err)

			_, err = UnmarshalManifest(tt.data)
			assert.Error(t, err)
		})
	}
}
