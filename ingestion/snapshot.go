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


package ingestion

import (
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"strings"

	"github.com/go-crypt/x/blake2b"
	"github.com/klauspost/compress/gzip"
)

// snapshotFile streams a dump file, hashing the raw bytes as they pass
// through. Files ending in .gz are decompressed transparently; the digest
// always covers the bytes as they sit on disk.
type snapshotFile struct {
	file   *os.File
	gz     *gzip.Reader
	reader io.Reader
	digest hash.Hash
}

func openSnapshot(path string) (*snapshotFile, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	digest, err := blake2b.New(32, nil)
	if err != nil {
		file.Close()
		return nil, err
	}

	s := &snapshotFile{
		file:   file,
		reader: io.TeeReader(file, digest),
		digest: digest,
	}

	if strings.HasSuffix(path, ".gz") {
		gz, err := gzip.NewReader(s.reader)
		if err != nil {
			file.Close()
			return nil, fmt.Errorf("%w: %s: %w", ErrMalformedSnapshot, path, err)
		}
		s.gz = gz
		s.reader = gz
	}

	return s, nil
}

func (s *snapshotFile) Read(p []byte) (int, error) {
	return s.reader.Read(p)
}

// Digest returns the hex BLAKE2b-256 of the raw bytes read so far.
// Call it after the file has been fully consumed.
func (s *snapshotFile) Digest() string {
	return hex.EncodeToString(s.digest.Sum(nil))
}

func (s *snapshotFile) Close() error {
	if s.gz != nil {
		s.gz.Close()
	}
	return s.file.Close()
}
