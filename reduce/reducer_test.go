package reduce

import (
	"math/rand"
	"testing"

	"github.com/poiesic/ticketsmith/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestReducer(t *testing.T, opts ...Option) *Reducer {
	t.Helper()
	r, err := NewReducer(opts...)
	require.NoError(t, err)
	return r
}

func prov(ordinal, chunk int) core.Provenance {
	return core.Provenance{Source: "notes", SourceOrdinal: ordinal, ChunkIndex: chunk, Attempt: 1}
}

func TestReduce_Empty(t *testing.T) {
	r := newTestReducer(t)
	assert.Nil(t, r.Reduce(nil))
}

func TestReduce_SingleCandidateHasEmptyConflictLog(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{{
		Title:       "Fix login page",
		Description: "The login page crashes on iOS.",
		Owner:       "alice",
		Priority:    core.PriorityHigh,
		Labels:      []core.Label{core.LabelBug},
		Provenance:  prov(0, 0),
	}})

	require.Len(t, records, 1)
	assert.Empty(t, records[0].Conflicts)
	assert.Equal(t, "Fix login page", records[0].Title)
	assert.Equal(t, "alice", records[0].Owner)
	assert.Len(t, records[0].MergedProvenance, 1)
}

func TestReduce_Deduplication(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Fix Login",
			Description: "The login page is broken and needs fixing before release.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 1),
		},
		{
			Title:       "Login bug",
			Description: "Login is broken.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 5),
		},
	})

	require.Len(t, records, 1, "near-duplicate titles must merge into one record")

	var variants *core.ConflictEntry
	for i := range records[0].Conflicts {
		if records[0].Conflicts[i].Field == FieldVariants {
			variants = &records[0].Conflicts[i]
		}
	}
	require.NotNil(t, variants, "differing titles must be logged as variants")
	assert.ElementsMatch(t, []string{"Fix Login", "Login bug"}, variants.Values)
	assert.Len(t, records[0].MergedProvenance, 2)
}

func TestReduce_DistinctTasksStaySeparate(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Fix login crash",
			Description: "Login crashes on iOS startup.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 0),
		},
		{
			Title:       "Write deployment docs",
			Description: "Document the staging deployment workflow.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityLow,
			Labels:      []core.Label{core.LabelDocs},
			Provenance:  prov(0, 1),
		},
	})

	assert.Len(t, records, 2)
}

// Safety-first: the higher severity wins regardless of provenance order.
func TestReduce_PriorityConflict(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Fix checkout flow",
			Description: "Checkout is broken for mobile users at the payment step.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 0),
		},
		{
			Title:       "Fix checkout flow",
			Description: "Checkout is broken for mobile users.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityLow,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 3),
		},
	})

	require.Len(t, records, 1)
	assert.Equal(t, core.PriorityHigh, records[0].Priority, "High vs Low must resolve to High")

	found := false
	for _, c := range records[0].Conflicts {
		if c.Field == core.FieldPriority {
			found = true
			assert.Equal(t, ReasonSafetyFirst, c.Reason)
			assert.Equal(t, "High", c.Winner)
			assert.ElementsMatch(t, []string{"High", "Low"}, c.Values)
		}
	}
	assert.True(t, found, "priority disagreement must always be logged")
}

// Recency: a later statement from the same source supersedes an earlier one.
func TestReduce_RecencyConflict(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Deliver project milestone",
			Description: "Project is due Monday.",
			Owner:       "alice",
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelFeature},
			Provenance:  prov(0, 0),
		},
		{
			Title:       "Deliver project milestone",
			Description: "Actually, the project is due Tuesday.",
			Owner:       "bob",
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelFeature},
			Provenance:  prov(0, 4),
		},
	})

	require.Len(t, records, 1)
	assert.Contains(t, records[0].Description, "Tuesday", "later same-source statement must win")
	assert.Equal(t, "bob", records[0].Owner, "later same-source owner assignment must win")

	reasons := make(map[string]string)
	for _, c := range records[0].Conflicts {
		reasons[c.Field] = c.Reason
	}
	assert.Equal(t, ReasonRecency, reasons[core.FieldDescription])
	assert.Equal(t, ReasonRecency, reasons[core.FieldOwner])
}

// Cross-source owner disagreement: the first source to assign wins.
func TestReduce_OwnerEarliestProvenanceAcrossSources(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Update billing docs",
			Description: "The billing docs are stale and need a rewrite.",
			Owner:       "alice",
			Priority:    core.PriorityLow,
			Labels:      []core.Label{core.LabelDocs},
			Provenance:  core.Provenance{Source: "meeting", SourceOrdinal: 0, ChunkIndex: 2, Attempt: 1},
		},
		{
			Title:       "Update billing docs",
			Description: "Billing docs rewrite.",
			Owner:       "charlie",
			Priority:    core.PriorityLow,
			Labels:      []core.Label{core.LabelDocs},
			Provenance:  core.Provenance{Source: "chat", SourceOrdinal: 1, ChunkIndex: 0, Attempt: 1},
		},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "alice", records[0].Owner)

	for _, c := range records[0].Conflicts {
		if c.Field == core.FieldOwner {
			assert.Equal(t, ReasonEarliestProvenance, c.Reason)
			return
		}
	}
	t.Fatal("owner disagreement must be logged")
}

func TestReduce_UnassignedNeverOverridesAssignment(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Fix search index",
			Description: "The search index drops new documents on update.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 0),
		},
		{
			Title:       "Fix search index",
			Description: "Search index drops documents.",
			Owner:       "bob",
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 2),
		},
	})

	require.Len(t, records, 1)
	assert.Equal(t, "bob", records[0].Owner)

	for _, c := range records[0].Conflicts {
		assert.NotEqual(t, core.FieldOwner, c.Field,
			"Unassigned vs an assignment is not a disagreement")
	}
}

// Cross-source description disagreement: the most detailed wins and the
// alternates land under the synthetic variants key.
func TestReduce_DescriptionAlternatesLoggedAsVariants(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Fix search index",
			Description: "Search index drops documents.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 0),
		},
		{
			Title:       "Fix search index",
			Description: "The search index drops newly added documents whenever the mapping updates.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(1, 0),
		},
	})

	require.Len(t, records, 1)
	assert.Contains(t, records[0].Description, "mapping updates",
		"the more detailed description must win")

	var variants *core.ConflictEntry
	for i := range records[0].Conflicts {
		if records[0].Conflicts[i].Field == FieldVariants {
			variants = &records[0].Conflicts[i]
		}
	}
	require.NotNil(t, variants, "differing descriptions must be logged as variants")
	assert.Equal(t, ReasonMostDetailed, variants.Reason)
	assert.Contains(t, variants.Values, "Search index drops documents.")
	for _, c := range records[0].Conflicts {
		assert.NotEqual(t, core.FieldDescription, c.Field,
			"cross-source alternates belong under variants, not description")
	}
}

func TestReduce_LabelsAreUnioned(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Refactor config loader",
			Description: "The config loader mixes parsing and validation responsibilities.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityLow,
			Labels:      []core.Label{core.LabelTechDebt},
			Provenance:  prov(0, 0),
		},
		{
			Title:       "Refactor config loader",
			Description: "Config loader needs docs too.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityLow,
			Labels:      []core.Label{core.LabelDocs, core.LabelTechDebt},
			Provenance:  prov(0, 1),
		},
	})

	require.Len(t, records, 1)
	assert.Equal(t, []core.Label{core.LabelDocs, core.LabelTechDebt}, records[0].Labels)

	for _, c := range records[0].Conflicts {
		assert.NotEqual(t, core.FieldLabels, c.Field, "labels are additive, never a conflict")
	}
}

// Reduction must be idempotent under input permutation: same records by
// content, ordered only by provenance.
func TestReduce_DeterministicUnderPermutation(t *testing.T) {
	candidates := []core.CandidateRecord{
		{
			Title:       "Fix Login",
			Description: "The login page is broken on iOS and crashes at startup.",
			Owner:       "alice",
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 1),
		},
		{
			Title:       "Login bug",
			Description: "Login broken.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityCritical,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 5),
		},
		{
			Title:       "Write release notes",
			Description: "Draft the release notes for the quarterly launch.",
			Owner:       "bob",
			Priority:    core.PriorityLow,
			Labels:      []core.Label{core.LabelDocs},
			Provenance:  prov(0, 3),
		},
	}

	r := newTestReducer(t)
	baseline := r.Reduce(candidates)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 20; i++ {
		shuffled := append([]core.CandidateRecord(nil), candidates...)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got := r.Reduce(shuffled)
		assert.Equal(t, baseline, got, "permutation %d changed the reduction", i)
	}
}

func TestReduce_OutputOrderFollowsEarliestProvenance(t *testing.T) {
	r := newTestReducer(t)

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Write onboarding guide",
			Description: "New hires need an onboarding guide for the deploy tooling.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityLow,
			Labels:      []core.Label{core.LabelDocs},
			Provenance:  prov(0, 7),
		},
		{
			Title:       "Fix payment retries",
			Description: "Payment retries double-charge customers under load.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityCritical,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 2),
		},
	})

	require.Len(t, records, 2)
	assert.Equal(t, "Fix payment retries", records[0].Title,
		"clusters must be emitted in ascending provenance order")
}

func TestReduce_TransitiveClustering(t *testing.T) {
	// A~B and B~C must put A, B, C in one cluster even if A and C alone
	// would not match.
	r := newTestReducer(t, WithTitleThreshold(0.5))

	records := r.Reduce([]core.CandidateRecord{
		{
			Title:       "Fix login crash",
			Description: "Crash report one for the login flow on mobile clients.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 0),
		},
		{
			Title:       "Fix login",
			Description: "Login is failing for some users.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 1),
		},
		{
			Title:       "Fix login timeout",
			Description: "Timeout report for authentication under heavy load today.",
			Owner:       core.OwnerUnassigned,
			Priority:    core.PriorityHigh,
			Labels:      []core.Label{core.LabelBug},
			Provenance:  prov(0, 2),
		},
	})

	assert.Len(t, records, 1)
}

func TestNewReducer_InvalidThreshold(t *testing.T) {
	_, err := NewReducer(WithTitleThreshold(0))
	assert.ErrorIs(t, err, ErrInvalidThreshold)

	_, err = NewReducer(WithDescriptionThreshold(1.5))
	assert.ErrorIs(t, err, ErrInvalidThreshold)
}
