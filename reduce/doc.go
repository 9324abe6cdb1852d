// Package reduce merges the map stage's flat candidate sequence into a
// deduplicated, conflict-resolved set of finalized records.
//
// Candidates cluster when their titles are near-duplicates under a named
// similarity measure or their descriptions substantially overlap; grouping
// is computed with an index-based union-find so transitive matches land in
// one cluster at near-linear cost. Each cluster merges under explicit
// policies: safety-first for priority (highest severity wins), recency for
// same-source corrections (the later statement wins), most-detailed
// description for title and description selection, and set union for labels.
// Every disagreement is recorded in the finalized record's conflict log.
//
// Reduction depends only on recorded provenance order, never on input
// order, so the pipeline's output is deterministic regardless of worker
// scheduling.
package reduce
