package core

import "strings"

// TeamRoster is the set of people work can be assigned to.
// It is read-only for the duration of a pipeline run.
type TeamRoster []string

// Contains reports whether name is a roster member.
// Matching is case-insensitive so "alice" and "Alice" refer to the same person.
func (r TeamRoster) Contains(name string) bool {
	for _, member := range r {
		if strings.EqualFold(member, name) {
			return true
		}
	}
	return false
}

// DefaultTeamRoster returns the built-in demo roster. Real deployments
// supply their own.
func DefaultTeamRoster() TeamRoster {
	return TeamRoster{"alice", "bob", "charlie"}
}

// LabelTaxonomy is the set of labels a work item may carry.
type LabelTaxonomy []Label

// Contains reports whether the label is part of the taxonomy.
func (t LabelTaxonomy) Contains(label Label) bool {
	for _, member := range t {
		if member == label {
			return true
		}
	}
	return false
}

// DefaultLabelTaxonomy returns the full built-in label set.
func DefaultLabelTaxonomy() LabelTaxonomy {
	return LabelTaxonomy{LabelBug, LabelFeature, LabelDocs, LabelTechDebt}
}

// PriorityTaxonomy is the set of priorities a work item may carry.
type PriorityTaxonomy []Priority

// Contains reports whether the priority is part of the taxonomy.
func (t PriorityTaxonomy) Contains(priority Priority) bool {
	for _, member := range t {
		if member == priority {
			return true
		}
	}
	return false
}

// DefaultPriorityTaxonomy returns the full built-in priority set.
func DefaultPriorityTaxonomy() PriorityTaxonomy {
	return PriorityTaxonomy{PriorityLow, PriorityHigh, PriorityCritical}
}

// VerbList is the set of imperative verbs a ticket title may begin with.
// The verb-prefix check is a heuristic stand-in for part-of-speech tagging:
// it catches titles like "Login is broken" without a language model.
type VerbList []string

// HasPrefix reports whether the first word of title is one of the verbs.
func (v VerbList) HasPrefix(title string) bool {
	fields := strings.Fields(title)
	if len(fields) == 0 {
		return false
	}
	first := strings.ToLower(strings.Trim(fields[0], ".,!?;:"))
	for _, verb := range v {
		if first == strings.ToLower(verb) {
			return true
		}
	}
	return false
}

// DefaultVerbList returns the built-in imperative verb prefixes.
func DefaultVerbList() VerbList {
	return VerbList{
		"add", "build", "clean", "configure", "create", "debug", "delete",
		"deploy", "design", "document", "enable", "extend", "fix", "implement",
		"improve", "integrate", "investigate", "migrate", "monitor", "move",
		"optimize", "refactor", "remove", "rename", "replace", "research",
		"resolve", "restore", "review", "rewrite", "set", "setup", "split",
		"support", "test", "update", "upgrade", "validate", "verify", "write",
	}
}
