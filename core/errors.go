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

// Domain errors
var (
	// ErrUnknownPriority indicates a priority string outside the taxonomy.
	ErrUnknownPriority = errors.New("unknown priority")

	// ErrUnknownLabel indicates a label string outside the taxonomy.
	ErrUnknownLabel = errors.New("unknown label")

	// ErrEmptyRoster indicates a validator was constructed without any team members.
	ErrEmptyRoster = errors.New("team roster cannot be empty")

	// ErrEmptyTaxonomy indicates a validator was constructed without any labels.
	ErrEmptyTaxonomy = errors.New("label taxonomy cannot be empty")

	// ErrEmptyVerbList indicates a validator was constructed without verb prefixes.
	ErrEmptyVerbList = errors.New("verb list cannot be empty")
)
