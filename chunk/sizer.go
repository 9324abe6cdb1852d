package chunk

import (
	"unicode/utf8"

	"github.com/pkoukk/tiktoken-go"
)

// sizer estimates the size of a piece of text in the configured unit.
type sizer interface {
	Size(text string) int
}

// splitter cuts text into pieces of at most budget units each. Sizers that
// implement it get exact degraded splits instead of the rune approximation.
type splitter interface {
	Split(text string, budget int) []string
}

type charSizer struct{}

func (charSizer) Size(text string) int {
	return utf8.RuneCountInString(text)
}

// tokenSizer counts BPE tokens the way OpenAI-family models do.
type tokenSizer struct {
	encoding *tiktoken.Tiktoken
}

func newTokenSizer() (*tokenSizer, error) {
	encoding, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, err
	}
	return &tokenSizer{encoding: encoding}, nil
}

func (s *tokenSizer) Size(text string) int {
	return len(s.encoding.Encode(text, nil, nil))
}

// Split slices the token stream into budget-sized groups and decodes each
// group back to text. Concatenating the pieces reproduces the input exactly,
// and each piece holds at most budget tokens.
func (s *tokenSizer) Split(text string, budget int) []string {
	tokens := s.encoding.Encode(text, nil, nil)
	pieces := make([]string, 0, (len(tokens)+budget-1)/budget)
	for start := 0; start < len(tokens); start += budget {
		end := min(start+budget, len(tokens))
		pieces = append(pieces, s.encoding.Decode(tokens[start:end]))
	}
	return pieces
}
