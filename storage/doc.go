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


// Package storage provides the corpus access layer for neuroq.
//
// This package defines the accessor interfaces that decouple the query engine
// from any particular corpus backend. Two backends implement them: an embedded
// BadgerDB snapshot store (storage/badger) and a PostgreSQL/PostGIS database
// (storage/postgres).
//
// # Constructor Return Type Pattern
//
// Engine and server code holds these interfaces, never a backend type; only
// the open/close plumbing sees concrete backends. The test helper hands out
// interfaces directly:
//
//	corpus, writer, backend, err := badger.NewMemoryCorpus()
//
// Constructors within a backend package return concrete types.
//
// # Interfaces
//
//   - Corpus: read-side lookups used by predicate matching (term weights,
//     title substrings, spatial proximity) plus a status report.
//   - CorpusWriter: batch loading of snapshot dumps. Only the embedded
//     backend is writable; server-facing corpora stay read-only.
//
// # Error Contract
//
// Zero matching rows is a valid empty result everywhere. A returned error
// means the corpus itself could not be consulted; such errors wrap
// ErrUnavailable so callers can classify them without inspecting backends.
//
// # Thread Safety
//
// Corpus implementations must be safe for concurrent use; the engine
// evaluates both sides of a dissociation in parallel against one Corpus.
//
// # Context Support
//
// All accessor methods take context.Context and honor cancellation between
// backend operations.
package storage
