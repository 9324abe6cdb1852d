package core

//go:generate go run ../cmd/musgen

import (
	"encoding/binary"
	"fmt"
	"strings"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so identical content
// produces identical IDs.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// Priority is the severity of a work item.
// Numeric order is severity order: a larger value is more severe,
// which lets conflict resolution take the maximum directly.
type Priority int

const (
	// PriorityLow represents routine work.
	PriorityLow Priority = iota + 1
	// PriorityHigh represents important work.
	PriorityHigh
	// PriorityCritical represents work that must happen immediately.
	PriorityCritical
)

// String returns the canonical name of the priority.
func (p Priority) String() string {
	switch p {
	case PriorityLow:
		return "Low"
	case PriorityHigh:
		return "High"
	case PriorityCritical:
		return "Critical"
	default:
		return fmt.Sprintf("Priority(%d)", int(p))
	}
}

// IsValid reports whether the priority is one of the defined values.
func (p Priority) IsValid() bool {
	return p >= PriorityLow && p <= PriorityCritical
}

// ParsePriority converts a raw string into a Priority.
// Matching is case-insensitive.
func ParsePriority(s string) (Priority, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "low":
		return PriorityLow, nil
	case "high":
		return PriorityHigh, nil
	case "critical":
		return PriorityCritical, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownPriority, s)
	}
}

// Label categorizes a work item.
type Label int

const (
	// LabelBug marks defect work.
	LabelBug Label = iota + 1
	// LabelFeature marks new functionality.
	LabelFeature
	// LabelDocs marks documentation work.
	LabelDocs
	// LabelTechDebt marks internal cleanup work.
	LabelTechDebt
)

// String returns the canonical name of the label.
func (l Label) String() string {
	switch l {
	case LabelBug:
		return "Bug"
	case LabelFeature:
		return "Feature"
	case LabelDocs:
		return "Docs"
	case LabelTechDebt:
		return "TechDebt"
	default:
		return fmt.Sprintf("Label(%d)", int(l))
	}
}

// ParseLabel converts a raw string into a Label.
// Matching is case-insensitive and tolerates common spellings.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "bug":
		return LabelBug, nil
	case "feature":
		return LabelFeature, nil
	case "docs", "documentation":
		return LabelDocs, nil
	case "techdebt", "tech debt", "tech-debt":
		return LabelTechDebt, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownLabel, s)
	}
}

// OwnerUnassigned is the literal owner value for work nobody has claimed yet.
const OwnerUnassigned = "Unassigned"

// Provenance records where a candidate came from: which source document,
// which chunk of it, and which extraction attempt produced the candidate.
// It is the only ordering signal the reducer is allowed to use.
type Provenance struct {
	Source        string
	SourceOrdinal int // position of the source among the run's inputs
	ChunkIndex    int // position of the chunk within its source
	Attempt       int // 1-based extraction attempt number
}

// Compare orders provenances by source position, then chunk position,
// then attempt. The result is negative, zero, or positive in the usual way.
func (p Provenance) Compare(other Provenance) int {
	if p.SourceOrdinal != other.SourceOrdinal {
		return p.SourceOrdinal - other.SourceOrdinal
	}
	if p.ChunkIndex != other.ChunkIndex {
		return p.ChunkIndex - other.ChunkIndex
	}
	return p.Attempt - other.Attempt
}

// Before reports whether p occurs strictly earlier than other.
func (p Provenance) Before(other Provenance) bool {
	return p.Compare(other) < 0
}

// SameSource reports whether both provenances come from the same input document.
func (p Provenance) SameSource(other Provenance) bool {
	return p.SourceOrdinal == other.SourceOrdinal
}

// String renders the provenance as "source#chunk@attempt".
func (p Provenance) String() string {
	return fmt.Sprintf("%s#%d@%d", p.Source, p.ChunkIndex, p.Attempt)
}

// CandidateRecord is one proposed work item extracted from a single chunk.
// Candidates are immutable once produced and are consumed only by the reducer.
type CandidateRecord struct {
	Title       string
	Description string
	Owner       string
	Priority    Priority
	Labels      []Label
	Provenance  Provenance
}

// ConflictEntry documents one field-level disagreement between candidates
// that contributed to a finalized record, and how it was settled.
type ConflictEntry struct {
	Field  string   // field that disagreed, or "variants" for alternate titles/descriptions
	Values []string // the values that disagreed, in provenance order
	Winner string   // the value that was kept
	Reason string   // resolution policy: "safety-first", "recency", "earliest-provenance", "most-detailed"
}

// FinalizedRecord is the merged, conflict-resolved output for one cluster
// of candidates. It is created once by the reducer and never mutated.
type FinalizedRecord struct {
	Title            string
	Description      string
	Owner            string
	Priority         Priority
	Labels           []Label
	MergedProvenance []Provenance    // every candidate that contributed, in provenance order
	Conflicts        []ConflictEntry // empty for single-candidate clusters
}

// TicketBatch is the pipeline's terminal output: finalized records in
// deterministic merge order.
type TicketBatch struct {
	RunID     ID
	CreatedAt time.Time
	Records   []FinalizedRecord
}

// NormalizeLabels returns a canonical copy of a label set: defined labels
// first in declaration order, duplicates removed, unknown values preserved
// at the end so validation can still report them.
func NormalizeLabels(labels []Label) []Label {
	seen := make(map[Label]bool, len(labels))
	out := make([]Label, 0, len(labels))
	for l := LabelBug; l <= LabelTechDebt; l++ {
		for _, have := range labels {
			if have == l && !seen[l] {
				seen[l] = true
				out = append(out, l)
			}
		}
	}
	for _, have := range labels {
		if !seen[have] {
			seen[have] = true
			out = append(out, have)
		}
	}
	return out
}
