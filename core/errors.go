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


package core

import "errors"

// Predicate validation errors. Every normalization failure wraps
// ErrInvalidPredicate so callers can classify with a single errors.Is.
var (
	// ErrInvalidPredicate indicates user input that cannot become a predicate.
	ErrInvalidPredicate = errors.New("invalid predicate")

	// ErrEmptyTerm indicates a blank term.
	ErrEmptyTerm = errors.New("term cannot be empty")

	// ErrLocationFormat indicates a coordinate string without exactly three
	// underscore-separated components.
	ErrLocationFormat = errors.New("location must be X_Y_Z")

	// ErrLocationComponent indicates a coordinate component that is not a number.
	ErrLocationComponent = errors.New("location component is not numeric")
)
