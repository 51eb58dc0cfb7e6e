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


package storage

import (
	"github.com/poiesic/neuroq/core"
)

// MarshalStudy serializes a Study to bytes.
func MarshalStudy(study *core.Study) []byte {
	buf := make([]byte, core.StudyMUS.Size(*study))
	core.StudyMUS.Marshal(*study, buf)
	return buf
}

// UnmarshalStudy deserializes a Study from bytes.
func UnmarshalStudy(data []byte) (*core.Study, error) {
	study, _, err := core.StudyMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &study, nil
}

// MarshalPeak serializes a Peak to bytes.
func MarshalPeak(peak *core.Peak) []byte {
	buf := make([]byte, core.PeakMUS.Size(*peak))
	core.PeakMUS.Marshal(*peak, buf)
	return buf
}

// UnmarshalPeak deserializes a Peak from bytes.
func UnmarshalPeak(data []byte) (*core.Peak, error) {
	peak, _, err := core.PeakMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &peak, nil
}

// MarshalAnnotation serializes an Annotation to bytes.
func MarshalAnnotation(annotation *core.Annotation) []byte {
	buf := make([]byte, core.AnnotationMUS.Size(*annotation))
	core.AnnotationMUS.Marshal(*annotation, buf)
	return buf
}

// UnmarshalAnnotation deserializes an Annotation from bytes.
func UnmarshalAnnotation(data []byte) (*core.Annotation, error) {
	annotation, _, err := core.AnnotationMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &annotation, nil
}

// MarshalManifest serializes a Manifest to bytes.
func MarshalManifest(manifest *core.Manifest) []byte {
	buf := make([]byte, core.ManifestMUS.Size(*manifest))
	core.ManifestMUS.Marshal(*manifest, buf)
	return buf
}

// UnmarshalManifest deserializes a Manifest from bytes.
func UnmarshalManifest(data []byte) (*core.Manifest, error) {
	manifest, _, err := core.ManifestMUS.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	return &manifest, nil
}
