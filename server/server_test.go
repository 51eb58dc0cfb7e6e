package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/dissoc"
	"github.com/poiesic/neuroq/storage"
	"github.com/poiesic/neuroq/storage/badger"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// newSeededCorpus loads the fixture used across the handler tests: four
// studies split between emotion and pain annotations, with peaks at the
// origin, nearby, and far away.
func newSeededCorpus(t *testing.T) storage.Corpus {
	t.Helper()

	corpus, writer, backend, err := badger.NewMemoryCorpus()
	require.NoError(t, err)
	t.Cleanup(func() {
		writer.Close()
		backend.Close()
	})

	ctx := context.Background()

	require.NoError(t, writer.AddStudies(ctx, []core.Study{
		{ID: "100", Title: "Emotion and amygdala response", Year: 2005},
		{ID: "200", Title: "Working memory load", Year: 2003},
		{ID: "300", Title: "Emotion regulation strategies", Year: 2008},
		{ID: "400", Title: "Pain responses in somatosensory cortex", Year: 2010},
	}))
	require.NoError(t, writer.AddPeaks(ctx, []core.Peak{
		{StudyID: "100", X: 0, Y: 0, Z: 0},
		{StudyID: "200", X: 2, Y: 2, Z: 2},
		{StudyID: "300", X: 100, Y: 100, Z: 100},
		{StudyID: "400", X: -44, Y: -60, Z: 20},
	}))
	require.NoError(t, writer.AddAnnotations(ctx, []storage.AnnotationRow{
		{StudyID: "100", Feature: core.FeaturePrefix + "emotion", Weight: 0.31},
		{StudyID: "300", Feature: core.FeaturePrefix + "emotion", Weight: 0.08},
		{StudyID: "300", Feature: core.FeaturePrefix + "pain", Weight: 0.11},
		{StudyID: "400", Feature: core.FeaturePrefix + "pain", Weight: 0.05},
	}))

	return corpus
}

func newTestServer(t *testing.T, opts ...ConfigOption) *Server {
	t.Helper()

	s, err := NewServer(newSeededCorpus(t), NewConfig(opts...))
	require.NoError(t, err)
	return s
}

func get(s *Server, path string, header map[string]string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	for k, v := range header {
		req.Header.Set(k, v)
	}
	s.Router().ServeHTTP(w, req)
	return w
}

func TestNewServer(t *testing.T) {
	corpus := newSeededCorpus(t)

	t.Run("valid configuration", func(t *testing.T) {
		s, err := NewServer(corpus, NewConfig())
		require.NoError(t, err)
		assert.NotNil(t, s.Router())
	})

	t.Run("nil config uses defaults", func(t *testing.T) {
		s, err := NewServer(corpus, nil)
		require.NoError(t, err)
		assert.Equal(t, ":8080", s.config.Addr)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, err := NewServer(corpus, NewConfig(WithMatchLimit(0)))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "MatchLimit")
	})

	t.Run("nil corpus", func(t *testing.T) {
		_, err := NewServer(nil, nil)
		assert.Equal(t, ErrCorpusRequired, err)
	})
}

func TestRootEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "<p>Server working!</p>", w.Body.String())
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestImageEndpoint(t *testing.T) {
	t.Run("configured", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "brain.gif")
		require.NoError(t, os.WriteFile(path, []byte("GIF89a"), 0o644))

		s := newTestServer(t, WithImagePath(path))
		w := get(s, "/img", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "GIF89a", w.Body.String())
	})

	t.Run("unconfigured", func(t *testing.T) {
		s := newTestServer(t)
		w := get(s, "/img", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestTermStudies(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/terms/emotion/studies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload dissoc.TermListingPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "emotion", payload.Term)
	assert.Equal(t, 2, payload.TotalCount)
	require.Len(t, payload.Results, 2)
	assert.Equal(t, "100", payload.Results[0].StudyID)
	assert.Equal(t, "300", payload.Results[1].StudyID)
	require.NotNil(t, payload.Results[0].Weight)
	assert.InDelta(t, 0.31, *payload.Results[0].Weight, 1e-9)

	t.Run("hyphens fold into the canonical key", func(t *testing.T) {
		w := get(s, "/terms/Working-Memory/studies", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var payload dissoc.TermListingPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		assert.Equal(t, "working_memory", payload.Term)
		require.Len(t, payload.Results, 1)
		assert.Equal(t, "200", payload.Results[0].StudyID)
	})

	t.Run("blank term", func(t *testing.T) {
		w := get(s, "/terms/%20/studies", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "error")
	})
}

func TestLocationStudies(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/locations/0_0_0/studies", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload dissoc.LocationListingPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, [3]float64{0, 0, 0}, payload.Location)
	assert.Equal(t, []core.StudyID{"100", "200"}, payload.Studies)
	assert.Equal(t, 2, payload.Count)
	assert.Equal(t, 10.0, payload.RadiusMM)

	t.Run("malformed coordinates", func(t *testing.T) {
		w := get(s, "/locations/1_2/studies", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("non-numeric component", func(t *testing.T) {
		w := get(s, "/locations/1_x_3/studies", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDissociateTermsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/dissociate/terms/pain/emotion", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload dissoc.TermDissociationPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, "pain", payload.TermA)
	assert.Equal(t, "emotion", payload.TermB)
	assert.Equal(t, 1, payload.TotalCount)
	require.Len(t, payload.Results, 1)
	assert.Equal(t, "400", payload.Results[0].StudyID)

	t.Run("reverse direction", func(t *testing.T) {
		w := get(s, "/dissociate/terms/emotion/pain", nil)
		require.Equal(t, http.StatusOK, w.Code)

		var payload dissoc.TermDissociationPayload
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
		require.Len(t, payload.Results, 1)
		assert.Equal(t, "100", payload.Results[0].StudyID)
	})

	t.Run("blank side", func(t *testing.T) {
		w := get(s, "/dissociate/terms/%20/emotion", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestDissociateLocationsEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/dissociate/locations/0_0_0/100_100_100", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload dissoc.LocationDissociationPayload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, [3]float64{0, 0, 0}, payload.LocationA)
	assert.Equal(t, [3]float64{100, 100, 100}, payload.LocationB)
	assert.Equal(t, []core.StudyID{"100", "200"}, payload.Studies)
	assert.Equal(t, 2, payload.Count)
	assert.Equal(t, 10.0, payload.RadiusMM)

	t.Run("malformed side", func(t *testing.T) {
		w := get(s, "/dissociate/locations/0_0_0/1_2", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestStatusEndpoint(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/test_db", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var payload statusResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.True(t, payload.OK)
	assert.Equal(t, "badger", payload.Backend)
	assert.Equal(t, int64(4), payload.Studies)
	assert.Equal(t, int64(4), payload.Peaks)
	assert.Equal(t, int64(4), payload.Annotations)
	assert.NotEmpty(t, payload.SampleStudies)
	assert.NotEmpty(t, payload.SamplePeaks)
	assert.NotEmpty(t, payload.SampleAnnotations)
	assert.Nil(t, payload.Manifest)
}

func TestStatusEndpoint_CorpusFailure(t *testing.T) {
	s, err := NewServer(&failingCorpus{}, nil)
	require.NoError(t, err)

	w := get(s, "/test_db", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var payload map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Equal(t, false, payload["ok"])
	assert.Contains(t, payload["error"], "corpus unavailable")
}

func TestEngineFailureAnswers500(t *testing.T) {
	s, err := NewServer(&failingCorpus{}, nil)
	require.NoError(t, err)

	w := get(s, "/terms/emotion/studies", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")

	w = get(s, "/dissociate/terms/emotion/pain", nil)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestRequestID(t *testing.T) {
	s := newTestServer(t)

	w := get(s, "/", nil)
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))

	w = get(s, "/", map[string]string{"X-Request-ID": "req-123"})
	assert.Equal(t, "req-123", w.Header().Get("X-Request-ID"))
}

// failingCorpus answers every lookup with an unavailable error.
type failingCorpus struct{}

var _ storage.Corpus = (*failingCorpus)(nil)

func (f *failingCorpus) fail() error {
	return fmt.Errorf("%w: backend offline", storage.ErrUnavailable)
}

func (f *failingCorpus) TermWeights(_ context.Context, _ string) ([]core.TermWeight, error) {
	return nil, f.fail()
}

func (f *failingCorpus) TitlesMatching(_ context.Context, _ string) ([]core.TitleMatch, error) {
	return nil, f.fail()
}

func (f *failingCorpus) WeightFor(_ context.Context, _ core.StudyID, _ string) (float64, bool, error) {
	return 0, false, f.fail()
}

func (f *failingCorpus) WeightsFor(_ context.Context, _ string, _ []core.StudyID) (map[core.StudyID]float64, error) {
	return nil, f.fail()
}

func (f *failingCorpus) StudiesNear(_ context.Context, _, _, _, _ float64) ([]core.StudyID, error) {
	return nil, f.fail()
}

func (f *failingCorpus) Stats(_ context.Context) (*storage.CorpusStats, error) {
	return nil, f.fail()
}

func (f *failingCorpus) Close() error { return nil }
