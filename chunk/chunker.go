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


package chunk

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Unit selects how chunk sizes are measured.
type Unit string

const (
	// UnitCharacters measures chunk size in Unicode characters.
	UnitCharacters Unit = "characters"
	// UnitTokens measures chunk size in BPE tokens.
	UnitTokens Unit = "tokens"
)

// DefaultBudget is the default maximum chunk size.
const DefaultBudget = 1200

// Chunk is an ordered segment of one source document.
// Concatenating the Text of all chunks of a source in Index order
// reconstructs the source exactly, unless a single sentence exceeded the
// budget and forced a degraded hard split.
type Chunk struct {
	Source        string
	SourceOrdinal int
	Index         int
	Text          string
	Overlap       string // trailing text of the previous chunk, empty unless overlap is configured
	Size          int    // estimated size of Text in the configured unit
	Degraded      bool   // true if this chunk was produced by a mid-sentence hard split
}

// ExtractionText returns the text handed to the extraction capability:
// the configured overlap from the previous chunk followed by this chunk's span.
func (c Chunk) ExtractionText() string {
	if c.Overlap == "" {
		return c.Text
	}
	return c.Overlap + c.Text
}

// Chunker splits raw text into bounded, order-preserving segments.
// It prefers paragraph boundaries, falls back to sentence boundaries, and
// splits mid-sentence only when a single sentence exceeds the budget.
type Chunker struct {
	budget  int
	overlap int
	unit    Unit
	sizer   sizer
}

// Option configures a Chunker.
type Option func(*Chunker) error

// WithBudget sets the maximum chunk size in the configured unit.
// Default is DefaultBudget.
func WithBudget(budget int) Option {
	return func(c *Chunker) error {
		if budget < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidBudget, budget)
		}
		c.budget = budget
		return nil
	}
}

// WithOverlap sets how much trailing text of each chunk is repeated as
// leading context on the next chunk, in the configured unit. Default is 0.
// Overlap preserves cross-boundary context like "due Monday... Actually,
// Tuesday" spanning a split; it never affects reconstruction, which uses
// Text only.
func WithOverlap(overlap int) Option {
	return func(c *Chunker) error {
		if overlap < 0 {
			return fmt.Errorf("%w: %d", ErrInvalidOverlap, overlap)
		}
		c.overlap = overlap
		return nil
	}
}

// WithUnit sets the size unit. Default is UnitCharacters.
func WithUnit(unit Unit) Option {
	return func(c *Chunker) error {
		switch unit {
		case UnitCharacters, UnitTokens:
			c.unit = unit
			return nil
		default:
			return fmt.Errorf("%w: %q", ErrInvalidUnit, unit)
		}
	}
}

// NewChunker creates a chunker with the given options.
func NewChunker(opts ...Option) (*Chunker, error) {
	c := &Chunker{
		budget: DefaultBudget,
		unit:   UnitCharacters,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	switch c.unit {
	case UnitTokens:
		s, err := newTokenSizer()
		if err != nil {
			return nil, err
		}
		c.sizer = s
	default:
		c.sizer = charSizer{}
	}

	if c.overlap >= c.budget {
		return nil, fmt.Errorf("%w: overlap %d must be smaller than budget %d",
			ErrInvalidOverlap, c.overlap, c.budget)
	}
	return c, nil
}

// Split segments one source document into chunks.
// Empty input yields no chunks, not an error.
func (c *Chunker) Split(text, source string, sourceOrdinal int) []Chunk {
	if text == "" {
		return nil
	}

	spans := c.pack(splitParagraphs(text))

	chunks := make([]Chunk, len(spans))
	for i, span := range spans {
		chunks[i] = Chunk{
			Source:        source,
			SourceOrdinal: sourceOrdinal,
			Index:         i,
			Text:          span.text,
			Size:          c.sizer.Size(span.text),
			Degraded:      span.degraded,
		}
		if c.overlap > 0 && i > 0 {
			chunks[i].Overlap = c.tailOf(spans[i-1].text)
		}
	}
	return chunks
}

type span struct {
	text     string
	degraded bool
}

// pack greedily accumulates segments into spans under the budget,
// descending to finer boundaries when a single segment is oversized.
func (c *Chunker) pack(segments []string) []span {
	var out []span
	var acc strings.Builder
	accSize := 0

	flush := func() {
		if acc.Len() > 0 {
			out = append(out, span{text: acc.String()})
			acc.Reset()
			accSize = 0
		}
	}

	for _, seg := range segments {
		segSize := c.sizer.Size(seg)

		if segSize > c.budget {
			// Paragraph over budget: retry at sentence granularity.
			flush()
			for _, sentence := range splitSentences(seg) {
				sentSize := c.sizer.Size(sentence)
				if sentSize > c.budget {
					// Single sentence over budget: degraded hard split.
					flush()
					for _, piece := range c.hardSplit(sentence) {
						out = append(out, span{text: piece, degraded: true})
					}
					continue
				}
				if accSize > 0 && accSize+sentSize > c.budget {
					flush()
				}
				acc.WriteString(sentence)
				accSize += sentSize
			}
			flush()
			continue
		}

		if accSize > 0 && accSize+segSize > c.budget {
			flush()
		}
		acc.WriteString(seg)
		accSize += segSize
	}
	flush()
	return out
}

// hardSplit cuts text into budget-sized pieces with no regard for boundaries.
// Used only when a single sentence exceeds the budget (degraded mode).
// Pieces still concatenate back to the input.
func (c *Chunker) hardSplit(text string) []string {
	if s, ok := c.sizer.(splitter); ok {
		return s.Split(text, c.budget)
	}

	var pieces []string
	for text != "" {
		cut := c.cutRunes(text)
		pieces = append(pieces, text[:cut])
		text = text[cut:]
	}
	return pieces
}

// cutRunes finds the byte offset of the largest prefix within the budget.
func (c *Chunker) cutRunes(text string) int {
	count := 0
	for i := range text {
		if count == c.budget {
			return i
		}
		count++
	}
	return len(text)
}

// tailOf returns the trailing portion of text that fits the overlap size.
func (c *Chunker) tailOf(text string) string {
	limit := c.overlap
	if c.unit == UnitTokens {
		limit = c.overlap * 4
	}
	n := utf8.RuneCountInString(text)
	if n <= limit {
		return text
	}
	// Walk back limit runes from the end.
	skip := n - limit
	for i := range text {
		if skip == 0 {
			return text[i:]
		}
		skip--
	}
	return ""
}
