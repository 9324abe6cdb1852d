// Package pipeline orchestrates the map-reduce run that turns raw text
// sources into a finalized ticket batch.
//
// A run proceeds in three stages. The sources are split into bounded chunks,
// each chunk is extracted independently on a worker pool with a
// validate-repair-retry loop around the extraction capability, and the
// surviving candidates are reduced into de-duplicated, conflict-resolved
// records. Chunk failures are isolated: one bad chunk costs its own
// candidates, and only when more than the configured fraction of chunks
// fails does the run abort as a whole.
package pipeline
