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


// Package dissoc implements dissociation queries over a study corpus.
//
// A dissociation asks which studies match predicate A but not predicate B.
// The Matcher type evaluates one predicate into a study set, combining:
//   - Exact feature lookups against the corpus term annotations
//   - Case-insensitive title substring matching
//   - Spatial proximity search over activation peaks
//
// The Dissociator type evaluates both sides concurrently, takes the
// asymmetric difference, and returns an ordered, bounded result with study
// titles and term weights attached where the corpus has them.
package dissoc
