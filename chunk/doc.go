// Package chunk splits raw source text into bounded, order-preserving
// segments for extraction.
//
// The chunker prefers paragraph boundaries, falls back to sentence
// boundaries when a paragraph alone exceeds the size budget, and splits
// mid-sentence only as a last resort when a single sentence exceeds the
// budget (degraded mode, flagged on the chunk). For non-degraded splits,
// concatenating chunk texts in index order reproduces the source exactly.
//
// Sizes are measured in characters or in BPE tokens (via tiktoken), and an
// optional overlap repeats the tail of each chunk as leading context on the
// next one so corrections that straddle a boundary stay visible to the
// extractor.
package chunk
