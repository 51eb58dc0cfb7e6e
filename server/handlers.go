package server

import (
	"errors"
	"net/http"
	"slices"

	"github.com/gin-gonic/gin"

	"github.com/poiesic/neuroq/core"
	"github.com/poiesic/neuroq/dissoc"
)

const livenessBody = "<p>Server working!</p>"

func (s *Server) handleRoot(c *gin.Context) {
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(livenessBody))
}

func (s *Server) handleImage(c *gin.Context) {
	if s.config.ImagePath == "" {
		c.JSON(http.StatusNotFound, gin.H{"error": "no image configured"})
		return
	}
	c.File(s.config.ImagePath)
}

func (s *Server) handleTermStudies(c *gin.Context) {
	pred, err := core.NormalizeTerm(c.Param("term"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	set, err := s.dissociator.Match(c.Request.Context(), pred)
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dissoc.FormatTermListing(pred, set, s.dissociator.MatchLimit()))
}

func (s *Server) handleLocationStudies(c *gin.Context) {
	pred, err := s.dissociator.ParseLocation(c.Param("coords"))
	if err != nil {
		s.renderError(c, err)
		return
	}

	set, err := s.dissociator.Match(c.Request.Context(), pred)
	if err != nil {
		s.renderError(c, err)
		return
	}

	ids := make([]core.StudyID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	c.JSON(http.StatusOK, dissoc.FormatLocationListing(pred, ids, s.dissociator.MatchLimit()))
}

func (s *Server) handleDissociateTerms(c *gin.Context) {
	result, err := s.dissociator.DissociateTerms(c.Request.Context(),
		c.Param("term_a"), c.Param("term_b"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dissoc.FormatTermDissociation(result))
}

func (s *Server) handleDissociateLocations(c *gin.Context) {
	result, err := s.dissociator.DissociateLocations(c.Request.Context(),
		c.Param("coords_a"), c.Param("coords_b"))
	if err != nil {
		s.renderError(c, err)
		return
	}
	c.JSON(http.StatusOK, dissoc.FormatLocationDissociation(result))
}

// statusResponse is the GET /test_db payload.
type statusResponse struct {
	OK          bool   `json:"ok"`
	Backend     string `json:"backend"`
	Studies     int64  `json:"studies"`
	Peaks       int64  `json:"peaks"`
	Annotations int64  `json:"annotations"`

	SampleStudies     []statusStudy      `json:"sample_studies"`
	SamplePeaks       []statusPeak       `json:"sample_peaks"`
	SampleAnnotations []statusAnnotation `json:"sample_annotations"`

	Manifest *statusManifest `json:"manifest,omitempty"`
	Errors   []string        `json:"errors,omitempty"`
}

type statusStudy struct {
	StudyID string `json:"study_id"`
	Title   string `json:"title"`
	Authors string `json:"authors,omitempty"`
	Journal string `json:"journal,omitempty"`
	Year    int    `json:"year,omitempty"`
}

type statusPeak struct {
	StudyID string  `json:"study_id"`
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Z       float64 `json:"z"`
}

type statusAnnotation struct {
	StudyID string  `json:"study_id"`
	Term    string  `json:"term"`
	Weight  float64 `json:"weight"`
}

type statusManifest struct {
	DatabaseFile   string `json:"database_file"`
	DatabaseDigest string `json:"database_digest"`
	FeaturesFile   string `json:"features_file"`
	FeaturesDigest string `json:"features_digest"`
	Studies        int64  `json:"studies"`
	Peaks          int64  `json:"peaks"`
	Annotations    int64  `json:"annotations"`
	IngestedAt     int64  `json:"ingested_at"`
}

func (s *Server) handleStatus(c *gin.Context) {
	stats, err := s.corpus.Stats(c.Request.Context())
	if err != nil {
		s.logger.Error("status check failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": err.Error()})
		return
	}

	resp := statusResponse{
		OK:                true,
		Backend:           stats.Backend,
		Studies:           stats.Studies,
		Peaks:             stats.Peaks,
		Annotations:       stats.Annotations,
		SampleStudies:     make([]statusStudy, 0, len(stats.SampleStudies)),
		SamplePeaks:       make([]statusPeak, 0, len(stats.SamplePeaks)),
		SampleAnnotations: make([]statusAnnotation, 0, len(stats.SampleAnnotations)),
		Errors:            slices.Clone(stats.Errors),
	}
	for _, study := range stats.SampleStudies {
		resp.SampleStudies = append(resp.SampleStudies, statusStudy{
			StudyID: string(study.ID),
			Title:   study.Title,
			Authors: study.Authors,
			Journal: study.Journal,
			Year:    study.Year,
		})
	}
	for _, peak := range stats.SamplePeaks {
		resp.SamplePeaks = append(resp.SamplePeaks, statusPeak{
			StudyID: string(peak.StudyID),
			X:       peak.X, Y: peak.Y, Z: peak.Z,
		})
	}
	for _, row := range stats.SampleAnnotations {
		resp.SampleAnnotations = append(resp.SampleAnnotations, statusAnnotation{
			StudyID: string(row.StudyID),
			Term:    row.Feature,
			Weight:  row.Weight,
		})
	}
	if stats.Manifest != nil {
		resp.Manifest = &statusManifest{
			DatabaseFile:   stats.Manifest.DatabaseFile,
			DatabaseDigest: stats.Manifest.DatabaseDigest,
			FeaturesFile:   stats.Manifest.FeaturesFile,
			FeaturesDigest: stats.Manifest.FeaturesDigest,
			Studies:        stats.Manifest.Studies,
			Peaks:          stats.Manifest.Peaks,
			Annotations:    stats.Manifest.Annotations,
			IngestedAt:     stats.Manifest.IngestedAt,
		}
	}

	c.JSON(http.StatusOK, resp)
}

// renderError maps an engine error onto the response. Bad predicate input is
// the caller's fault; everything else is the corpus's.
func (s *Server) renderError(c *gin.Context, err error) {
	if errors.Is(err, core.ErrInvalidPredicate) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	s.logger.Error("request failed",
		"request_id", c.GetString(requestIDKey), "path", c.FullPath(), "err", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
