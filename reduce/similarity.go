package reduce

import (
	"strings"

	"github.com/poiesic/ticketsmith/core"
	"github.com/xrash/smetrics"
)

// jaroWinklerFloor gates the edit-distance signal: Jaro-Winkler scores even
// unrelated phrases around 0.5, so it only counts when it indicates a
// near-identical spelling.
const jaroWinklerFloor = 0.9

// titleSimilarity scores two titles in [0, 1]. It is the named similarity
// measure behind clustering: a token-overlap Dice coefficient, computed
// case- and punctuation-insensitively, which catches reorderings
// ("Fix Login" vs "Login bug"), combined with a gated Jaro-Winkler ratio
// that catches near-spellings ("Fix login" vs "Fix logins").
func titleSimilarity(a, b string) float64 {
	tokensA := core.Tokenize(a)
	tokensB := core.Tokenize(b)

	jw := smetrics.JaroWinkler(strings.Join(tokensA, " "), strings.Join(tokensB, " "), 0.7, 4)
	if jw >= jaroWinklerFloor {
		return jw
	}
	return diceCoefficient(tokensA, tokensB)
}

// descriptionOverlap scores how substantially two descriptions overlap,
// as the Dice coefficient of their filtered token sets.
func descriptionOverlap(a, b string) float64 {
	return diceCoefficient(core.Tokenize(a), core.Tokenize(b))
}

// diceCoefficient is 2|A∩B| / (|A|+|B|) over token sets.
func diceCoefficient(a, b []string) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}

	setA := make(map[string]bool, len(a))
	for _, token := range a {
		setA[token] = true
	}
	setB := make(map[string]bool, len(b))
	for _, token := range b {
		setB[token] = true
	}

	shared := 0
	for token := range setA {
		if setB[token] {
			shared++
		}
	}
	return 2 * float64(shared) / float64(len(setA)+len(setB))
}
