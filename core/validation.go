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

import (
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// MaxTitleLength is the longest title a candidate record may carry.
const MaxTitleLength = 80

// Field names reported by validation, in check order.
const (
	FieldTitle       = "title"
	FieldDescription = "description"
	FieldOwner       = "owner"
	FieldPriority    = "priority"
	FieldLabels      = "labels"
)

// ValidationResult is the outcome of validating one candidate record.
// The zero value is valid; an invalid result names the first failing field
// and a reason phrased so it can be fed back as a repair instruction.
type ValidationResult struct {
	Field  string
	Reason string
}

// Valid reports whether the record passed all checks.
func (r ValidationResult) Valid() bool {
	return r.Field == ""
}

// String renders the result as "field: reason", or "valid".
func (r ValidationResult) String() string {
	if r.Valid() {
		return "valid"
	}
	return r.Field + ": " + r.Reason
}

func invalid(field, reason string) ValidationResult {
	return ValidationResult{Field: field, Reason: reason}
}

// Validator checks candidate records against the record contract.
// It is a pure function of its reference sets; safe for concurrent use.
type Validator struct {
	roster     TeamRoster
	labels     LabelTaxonomy
	priorities PriorityTaxonomy
	verbs      VerbList
}

// NewValidator creates a validator over the given reference sets.
func NewValidator(roster TeamRoster, labels LabelTaxonomy, priorities PriorityTaxonomy, verbs VerbList) (*Validator, error) {
	if len(roster) == 0 {
		return nil, ErrEmptyRoster
	}
	if len(labels) == 0 || len(priorities) == 0 {
		return nil, ErrEmptyTaxonomy
	}
	if len(verbs) == 0 {
		return nil, ErrEmptyVerbList
	}
	return &Validator{roster: roster, labels: labels, priorities: priorities, verbs: verbs}, nil
}

// Validate checks a candidate record in the fixed order
// title, description, owner, priority, labels and reports the first failure.
// chunkText is the source text the candidate was extracted from; the
// description must share at least one filtered token with it (a weak
// grounding check, not semantic verification).
//
// Validation rules:
//   - Title is non-empty, at most MaxTitleLength characters, and begins
//     with an imperative verb from the configured verb list
//   - Description is non-empty and grounded in the chunk text
//   - Owner is a roster member or the literal "Unassigned"
//   - Priority is a member of the priority taxonomy
//   - Labels is a non-empty subset of the label taxonomy
func (v *Validator) Validate(record *CandidateRecord, chunkText string) ValidationResult {
	if record == nil {
		return invalid(FieldTitle, "record is missing entirely; produce a complete record")
	}

	if res := v.validateTitle(record.Title); !res.Valid() {
		return res
	}
	if res := v.validateDescription(record.Description, chunkText); !res.Valid() {
		return res
	}
	if res := v.validateOwner(record.Owner); !res.Valid() {
		return res
	}
	if !v.priorities.Contains(record.Priority) {
		return invalid(FieldPriority, fmt.Sprintf(
			"priority value %q is invalid; choose from %s", record.Priority, priorityNames(v.priorities)))
	}
	return v.validateLabels(record.Labels)
}

func (v *Validator) validateTitle(title string) ValidationResult {
	if strings.TrimSpace(title) == "" {
		return invalid(FieldTitle, "title is empty; provide a short imperative summary")
	}
	if utf8.RuneCountInString(title) > MaxTitleLength {
		return invalid(FieldTitle, fmt.Sprintf(
			"title is %d characters, the maximum is %d; shorten it",
			utf8.RuneCountInString(title), MaxTitleLength))
	}
	if !v.verbs.HasPrefix(title) {
		return invalid(FieldTitle, fmt.Sprintf(
			"title %q must begin with an imperative verb such as Fix, Add, or Update", title))
	}
	return ValidationResult{}
}

func (v *Validator) validateDescription(description, chunkText string) ValidationResult {
	if strings.TrimSpace(description) == "" {
		return invalid(FieldDescription, "description is empty; describe the task in one or two sentences")
	}

	chunkTokens := TokenSet(chunkText)
	for _, token := range Tokenize(description) {
		if chunkTokens[token] {
			return ValidationResult{}
		}
	}
	return invalid(FieldDescription,
		"description shares no words with the source text; describe the task using the source's own terms")
}

func (v *Validator) validateOwner(owner string) ValidationResult {
	if owner == OwnerUnassigned {
		return ValidationResult{}
	}
	if !v.roster.Contains(owner) {
		return invalid(FieldOwner, fmt.Sprintf(
			"owner %q is not on the team roster (%s); use a roster member or %q",
			owner, strings.Join(v.roster, ", "), OwnerUnassigned))
	}
	return ValidationResult{}
}

func (v *Validator) validateLabels(labels []Label) ValidationResult {
	if len(labels) == 0 {
		return invalid(FieldLabels, fmt.Sprintf(
			"labels are empty; assign at least one of %s", labelNames(v.labels)))
	}
	for _, label := range labels {
		if !v.labels.Contains(label) {
			return invalid(FieldLabels, fmt.Sprintf(
				"label %q is invalid; choose from %s", label, labelNames(v.labels)))
		}
	}
	return ValidationResult{}
}

// priorityNames renders the taxonomy highest severity first, the order a
// repair instruction should suggest values in.
func priorityNames(priorities PriorityTaxonomy) string {
	sorted := append(PriorityTaxonomy(nil), priorities...)
	slices.SortFunc(sorted, func(a, b Priority) int { return int(b) - int(a) })
	names := make([]string, len(sorted))
	for i, p := range sorted {
		names[i] = p.String()
	}
	return strings.Join(names, ", ")
}

func labelNames(labels LabelTaxonomy) string {
	names := make([]string, len(labels))
	for i, l := range labels {
		names[i] = l.String()
	}
	return strings.Join(names, ", ")
}
