package badger

import (
	"fmt"
	"strings"

	"github.com/poiesic/neuroq/core"
)

// Key prefixes for different data types
const (
	studyRecordPrefix = "sturec"
	annotationPrefix  = "annrec"
	peakPrefix        = "pkrec"
	peakIDSeq         = "pkrecseq"
	manifestKey       = "corpus:manifest"
)

// makeStudyKey generates a key for a study record by ID.
func makeStudyKey(id core.StudyID) []byte {
	return []byte(fmt.Sprintf("%s:%s", studyRecordPrefix, id))
}

// makeAnnotationKey generates a key for one (feature, study) annotation.
// Format: prefix:feature:studyID
func makeAnnotationKey(feature string, id core.StudyID) []byte {
	return []byte(fmt.Sprintf("%s:%s:%s", annotationPrefix, feature, id))
}

// makePartialAnnotationKey generates the scan prefix for one feature's
// annotations. Feature names never contain ':', so the trailing separator
// makes the prefix exact.
func makePartialAnnotationKey(feature string) []byte {
	return []byte(fmt.Sprintf("%s:%s:", annotationPrefix, feature))
}

// makePeakKey generates a key for one activation peak.
// Format: prefix:studyID:seq, with seq from the peak sequence.
func makePeakKey(id core.StudyID, seq uint64) []byte {
	return []byte(fmt.Sprintf("%s:%s:%d", peakPrefix, id, seq))
}

// splitAnnotationKey recovers (feature, studyID) from an annotation key.
func splitAnnotationKey(key []byte) (feature string, id core.StudyID, ok bool) {
	parts := strings.SplitN(string(key), ":", 3)
	if len(parts) != 3 || parts[0] != annotationPrefix {
		return "", "", false
	}
	return parts[1], core.StudyID(parts[2]), true
}
