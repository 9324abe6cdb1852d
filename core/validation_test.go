package core

import "testing"

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(
		TeamRoster{"alice", "bob", "charlie"},
		DefaultLabelTaxonomy(),
		DefaultPriorityTaxonomy(),
		DefaultVerbList(),
	)
	if err != nil {
		t.Fatalf("NewValidator() error: %v", err)
	}
	return v
}

func TestValidate(t *testing.T) {
	chunkText := "The checkout button is 404ing on mobile devices!"

	valid := CandidateRecord{
		Title:       "Fix checkout button on mobile",
		Description: "The checkout button returns a 404 on mobile devices.",
		Owner:       "alice",
		Priority:    PriorityHigh,
		Labels:      []Label{LabelBug},
	}

	tests := []struct {
		name      string
		mutate    func(*CandidateRecord)
		wantField string
	}{
		{
			name:   "valid record",
			mutate: func(r *CandidateRecord) {},
		},
		{
			name:   "unassigned owner is valid",
			mutate: func(r *CandidateRecord) { r.Owner = OwnerUnassigned },
		},
		{
			name:      "empty title",
			mutate:    func(r *CandidateRecord) { r.Title = "" },
			wantField: FieldTitle,
		},
		{
			name: "title too long",
			mutate: func(r *CandidateRecord) {
				for len(r.Title) <= MaxTitleLength {
					r.Title += " button"
				}
			},
			wantField: FieldTitle,
		},
		{
			name:      "title without imperative verb",
			mutate:    func(r *CandidateRecord) { r.Title = "Checkout button broken" },
			wantField: FieldTitle,
		},
		{
			name:      "empty description",
			mutate:    func(r *CandidateRecord) { r.Description = "" },
			wantField: FieldDescription,
		},
		{
			name:      "ungrounded description",
			mutate:    func(r *CandidateRecord) { r.Description = "Investigate database latency spikes." },
			wantField: FieldDescription,
		},
		{
			name:      "owner not on roster",
			mutate:    func(r *CandidateRecord) { r.Owner = "mallory" },
			wantField: FieldOwner,
		},
		{
			name:      "empty owner",
			mutate:    func(r *CandidateRecord) { r.Owner = "" },
			wantField: FieldOwner,
		},
		{
			name:      "invalid priority",
			mutate:    func(r *CandidateRecord) { r.Priority = Priority(99) },
			wantField: FieldPriority,
		},
		{
			name:      "empty labels",
			mutate:    func(r *CandidateRecord) { r.Labels = nil },
			wantField: FieldLabels,
		},
		{
			name:      "label outside taxonomy",
			mutate:    func(r *CandidateRecord) { r.Labels = []Label{LabelBug, Label(42)} },
			wantField: FieldLabels,
		},
	}

	v := newTestValidator(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record := valid
			record.Labels = append([]Label(nil), valid.Labels...)
			tt.mutate(&record)

			res := v.Validate(&record, chunkText)
			if tt.wantField == "" {
				if !res.Valid() {
					t.Errorf("Validate() = %v, want valid", res)
				}
				return
			}
			if res.Valid() {
				t.Fatalf("Validate() = valid, want failure on %q", tt.wantField)
			}
			if res.Field != tt.wantField {
				t.Errorf("Validate() failed on %q, want %q (reason: %s)", res.Field, tt.wantField, res.Reason)
			}
			if res.Reason == "" {
				t.Errorf("Validate() reported no reason for field %q", res.Field)
			}
		})
	}
}

// Validation must report the same first-failing field no matter how many
// fields are broken; repair prompts depend on this being reproducible.
func TestValidate_FirstFailingFieldIsDeterministic(t *testing.T) {
	v := newTestValidator(t)

	record := &CandidateRecord{
		Title:       "broken everywhere",
		Description: "",
		Owner:       "nobody",
		Priority:    Priority(0),
		Labels:      nil,
	}

	first := v.Validate(record, "some chunk text")
	for i := 0; i < 10; i++ {
		res := v.Validate(record, "some chunk text")
		if res != first {
			t.Fatalf("Validate() = %v on repeat %d, want %v", res, i, first)
		}
	}
	if first.Field != FieldTitle {
		t.Errorf("first failing field = %q, want %q", first.Field, FieldTitle)
	}
}

func TestValidate_NilRecord(t *testing.T) {
	v := newTestValidator(t)
	if res := v.Validate(nil, "text"); res.Valid() {
		t.Error("Validate(nil) = valid, want failure")
	}
}

func TestNewValidator_EmptyReferenceSets(t *testing.T) {
	if _, err := NewValidator(nil, DefaultLabelTaxonomy(), DefaultPriorityTaxonomy(), DefaultVerbList()); err != ErrEmptyRoster {
		t.Errorf("empty roster error = %v, want %v", err, ErrEmptyRoster)
	}
	if _, err := NewValidator(TeamRoster{"alice"}, nil, DefaultPriorityTaxonomy(), DefaultVerbList()); err != ErrEmptyTaxonomy {
		t.Errorf("empty label taxonomy error = %v, want %v", err, ErrEmptyTaxonomy)
	}
	if _, err := NewValidator(TeamRoster{"alice"}, DefaultLabelTaxonomy(), nil, DefaultVerbList()); err != ErrEmptyTaxonomy {
		t.Errorf("empty priority taxonomy error = %v, want %v", err, ErrEmptyTaxonomy)
	}
	if _, err := NewValidator(TeamRoster{"alice"}, DefaultLabelTaxonomy(), DefaultPriorityTaxonomy(), nil); err != ErrEmptyVerbList {
		t.Errorf("empty verb list error = %v, want %v", err, ErrEmptyVerbList)
	}
}
