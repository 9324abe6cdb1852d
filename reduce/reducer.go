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


package reduce

import (
	"fmt"
	"log/slog"
	"sort"
	"unicode/utf8"

	"github.com/poiesic/ticketsmith/core"
)

// Default clustering thresholds. Both are named, configurable parameters;
// the measures are documented on titleSimilarity and descriptionOverlap.
const (
	DefaultTitleThreshold       = 0.5
	DefaultDescriptionThreshold = 0.6
)

// Conflict resolution reasons recorded in conflict logs.
const (
	// ReasonSafetyFirst marks a priority disagreement resolved by taking
	// the highest severity, regardless of provenance order.
	ReasonSafetyFirst = "safety-first"
	// ReasonRecency marks a same-source disagreement resolved in favor of
	// the statement occurring later in the document ("Actually, ...").
	ReasonRecency = "recency"
	// ReasonEarliestProvenance marks a cross-source disagreement resolved
	// in favor of the first source to make a claim.
	ReasonEarliestProvenance = "earliest-provenance"
	// ReasonMostDetailed marks title/description selection by the most
	// detailed description.
	ReasonMostDetailed = "most-detailed"
)

// FieldVariants is the synthetic conflict-log key that collects alternate
// titles and descriptions of candidates merged into one record.
const FieldVariants = "variants"

// Reducer deduplicates candidate records and resolves field-level conflicts
// into finalized records. It runs single-threaded after the map barrier and
// operates purely on structured candidates: it never sees raw text and never
// re-invokes the extraction capability.
//
// The reducer assumes every input is individually schema-valid; it only
// arbitrates cross-candidate disagreement.
type Reducer struct {
	titleThreshold float64
	descThreshold  float64
	logger         *slog.Logger
}

// Option configures a Reducer.
type Option func(*Reducer) error

// WithTitleThreshold sets the minimum title similarity for two candidates to
// cluster. Default is DefaultTitleThreshold.
func WithTitleThreshold(threshold float64) Option {
	return func(r *Reducer) error {
		if threshold <= 0 || threshold > 1 {
			return fmt.Errorf("%w: title threshold %v", ErrInvalidThreshold, threshold)
		}
		r.titleThreshold = threshold
		return nil
	}
}

// WithDescriptionThreshold sets the minimum description overlap for two
// candidates to cluster. Default is DefaultDescriptionThreshold.
func WithDescriptionThreshold(threshold float64) Option {
	return func(r *Reducer) error {
		if threshold <= 0 || threshold > 1 {
			return fmt.Errorf("%w: description threshold %v", ErrInvalidThreshold, threshold)
		}
		r.descThreshold = threshold
		return nil
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reducer) error {
		if logger == nil {
			logger = slog.Default()
		}
		r.logger = logger
		return nil
	}
}

// NewReducer creates a reducer with the given options.
func NewReducer(opts ...Option) (*Reducer, error) {
	r := &Reducer{
		titleThreshold: DefaultTitleThreshold,
		descThreshold:  DefaultDescriptionThreshold,
		logger:         slog.Default().With("component", "reducer"),
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// Reduce clusters candidates that describe the same underlying task and
// merges each cluster into one finalized record. Output order is ascending
// by each cluster's earliest contributing provenance, and the result is
// identical (by content) for any permutation of the input.
func (r *Reducer) Reduce(candidates []core.CandidateRecord) []core.FinalizedRecord {
	if len(candidates) == 0 {
		return nil
	}

	// Sort by provenance first so clustering and merging depend only on the
	// recorded order, never on arrival order.
	sorted := append([]core.CandidateRecord(nil), candidates...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if c := sorted[i].Provenance.Compare(sorted[j].Provenance); c != 0 {
			return c < 0
		}
		if sorted[i].Title != sorted[j].Title {
			return sorted[i].Title < sorted[j].Title
		}
		return sorted[i].Description < sorted[j].Description
	})

	uf := newUnionFind(len(sorted))
	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if r.sameTask(&sorted[i], &sorted[j]) {
				uf.union(i, j)
			}
		}
	}

	// Collect clusters in order of their earliest member, which is also the
	// required output order.
	clusterOf := make(map[int]int, len(sorted))
	var clusters [][]core.CandidateRecord
	for i := range sorted {
		root := uf.find(i)
		idx, ok := clusterOf[root]
		if !ok {
			idx = len(clusters)
			clusterOf[root] = idx
			clusters = append(clusters, nil)
		}
		clusters[idx] = append(clusters[idx], sorted[i])
	}

	out := make([]core.FinalizedRecord, len(clusters))
	for i, members := range clusters {
		out[i] = r.merge(members)
	}

	r.logger.Debug("reduced candidates",
		"candidates", len(candidates),
		"records", len(out))
	return out
}

// sameTask reports whether two candidates refer to the same underlying task.
func (r *Reducer) sameTask(a, b *core.CandidateRecord) bool {
	if titleSimilarity(a.Title, b.Title) >= r.titleThreshold {
		return true
	}
	return descriptionOverlap(a.Description, b.Description) >= r.descThreshold
}

// merge folds one cluster into a finalized record. Members arrive in
// provenance order.
//
// Policies:
//   - description/owner: same-source corrections collapse by recency (the
//     later statement wins), then cross-source disagreement resolves by the
//     most detailed description (description) or the earliest assignment
//     (owner)
//   - title follows the candidate that supplied the description; title and
//     description alternates are logged under the synthetic "variants" key
//   - priority: safety-first, the highest severity wins regardless of order
//   - labels: union, no conflict concept
func (r *Reducer) merge(members []core.CandidateRecord) core.FinalizedRecord {
	var conflicts []core.ConflictEntry

	// Same-source recency collapse: the latest statement of each source
	// speaks for that source.
	effectives, recencyConflicts := collapseBySource(members)
	conflicts = append(conflicts, recencyConflicts...)

	// Primary candidate: the per-source effective with the most detailed
	// description, ties broken by earliest provenance (effectives are
	// already provenance-ordered).
	primary := effectives[0]
	for _, eff := range effectives[1:] {
		if descriptionLength(eff) > descriptionLength(primary) {
			primary = eff
		}
	}

	if descs := distinctInOrder(effectives, func(c core.CandidateRecord) string { return c.Description }); len(descs) > 1 {
		conflicts = append(conflicts, core.ConflictEntry{
			Field:  FieldVariants,
			Values: descs,
			Winner: primary.Description,
			Reason: ReasonMostDetailed,
		})
	}

	if titles := distinctInOrder(members, func(c core.CandidateRecord) string { return c.Title }); len(titles) > 1 {
		conflicts = append(conflicts, core.ConflictEntry{
			Field:  FieldVariants,
			Values: titles,
			Winner: primary.Title,
			Reason: ReasonMostDetailed,
		})
	}

	owner, ownerConflict := resolveOwner(members)
	if ownerConflict != nil {
		conflicts = append(conflicts, *ownerConflict)
	}

	priority := members[0].Priority
	for _, m := range members[1:] {
		if m.Priority > priority {
			priority = m.Priority
		}
	}
	if values := distinctInOrder(members, func(c core.CandidateRecord) string { return c.Priority.String() }); len(values) > 1 {
		conflicts = append(conflicts, core.ConflictEntry{
			Field:  core.FieldPriority,
			Values: values,
			Winner: priority.String(),
			Reason: ReasonSafetyFirst,
		})
	}

	var labels []core.Label
	provenance := make([]core.Provenance, len(members))
	for i, m := range members {
		labels = append(labels, m.Labels...)
		provenance[i] = m.Provenance
	}

	return core.FinalizedRecord{
		Title:            primary.Title,
		Description:      primary.Description,
		Owner:            owner,
		Priority:         priority,
		Labels:           core.NormalizeLabels(labels),
		MergedProvenance: provenance,
		Conflicts:        conflicts,
	}
}

// collapseBySource reduces each source's members to its latest statement and
// logs a recency conflict whenever a later chunk of the same source changed
// the description (the "Actually, make it Tuesday" case).
func collapseBySource(members []core.CandidateRecord) ([]core.CandidateRecord, []core.ConflictEntry) {
	var ordinals []int
	grouped := make(map[int][]core.CandidateRecord)
	for _, m := range members {
		ord := m.Provenance.SourceOrdinal
		if _, ok := grouped[ord]; !ok {
			ordinals = append(ordinals, ord)
		}
		grouped[ord] = append(grouped[ord], m)
	}

	var effectives []core.CandidateRecord
	var conflicts []core.ConflictEntry
	for _, ord := range ordinals {
		group := grouped[ord]
		latest := group[len(group)-1]
		effectives = append(effectives, latest)

		if descs := distinctInOrder(group, func(c core.CandidateRecord) string { return c.Description }); len(descs) > 1 {
			conflicts = append(conflicts, core.ConflictEntry{
				Field:  core.FieldDescription,
				Values: descs,
				Winner: latest.Description,
				Reason: ReasonRecency,
			})
		}
	}
	return effectives, conflicts
}

// resolveOwner applies the owner policy across a cluster: within a source the
// latest assignment supersedes earlier ones; across sources the first source
// to assign an owner wins. Returns "Unassigned" when nobody assigned.
func resolveOwner(members []core.CandidateRecord) (string, *core.ConflictEntry) {
	type sourceClaim struct {
		first core.Provenance // provenance of the source's first assignment
		owner string          // the source's latest assignment
		count int             // distinct assignments within the source
	}

	var ordinals []int
	claims := make(map[int]*sourceClaim)
	var assigned []string // every non-Unassigned value, in provenance order
	for _, m := range members {
		if m.Owner == core.OwnerUnassigned {
			continue
		}
		assigned = append(assigned, m.Owner)
		ord := m.Provenance.SourceOrdinal
		claim, ok := claims[ord]
		if !ok {
			ordinals = append(ordinals, ord)
			claims[ord] = &sourceClaim{first: m.Provenance, owner: m.Owner, count: 1}
			continue
		}
		if claim.owner != m.Owner {
			claim.count++
		}
		claim.owner = m.Owner // recency within the source
	}

	if len(assigned) == 0 {
		return core.OwnerUnassigned, nil
	}

	// First source to assign wins (ordinals follow provenance order).
	winning := claims[ordinals[0]]

	distinct := distinctStrings(assigned)
	if len(distinct) == 1 {
		return winning.owner, nil
	}

	reason := ReasonEarliestProvenance
	if winning.count > 1 {
		reason = ReasonRecency
	}
	return winning.owner, &core.ConflictEntry{
		Field:  core.FieldOwner,
		Values: distinct,
		Winner: winning.owner,
		Reason: reason,
	}
}

func descriptionLength(c core.CandidateRecord) int {
	return utf8.RuneCountInString(c.Description)
}

// distinctInOrder extracts a field from each member and returns the distinct
// values in first-occurrence order.
func distinctInOrder(members []core.CandidateRecord, field func(core.CandidateRecord) string) []string {
	values := make([]string, len(members))
	for i, m := range members {
		values[i] = field(m)
	}
	return distinctStrings(values)
}

func distinctStrings(values []string) []string {
	seen := make(map[string]bool, len(values))
	var out []string
	for _, v := range values {
		if !seen[v] {
			seen[v] = true
			out = append(out, v)
		}
	}
	return out
}
