package chunk

// splitParagraphs splits text after every blank line (a run of two or more
// newlines). Separators stay attached to the preceding segment so the
// segments concatenate back to the input exactly.
func splitParagraphs(text string) []string {
	var segments []string
	start := 0
	i := 0
	for i < len(text) {
		if text[i] != '\n' {
			i++
			continue
		}
		j := i
		for j < len(text) && text[j] == '\n' {
			j++
		}
		if j-i >= 2 {
			segments = append(segments, text[start:j])
			start = j
		}
		i = j
	}
	if start < len(text) {
		segments = append(segments, text[start:])
	}
	return segments
}

// splitSentences splits text after sentence-ending punctuation followed by
// whitespace, and after newlines. A period inside a number or abbreviation
// ("3.5", "v1.2") is not followed by whitespace and is left alone.
// Trailing whitespace stays attached to the preceding segment so the
// segments concatenate back to the input exactly.
func splitSentences(text string) []string {
	var segments []string
	start := 0
	for i := 0; i < len(text); i++ {
		ch := text[i]
		if ch != '.' && ch != '!' && ch != '?' && ch != '\n' {
			continue
		}
		j := i + 1
		for j < len(text) && (text[j] == ' ' || text[j] == '\t' || text[j] == '\n') {
			j++
		}
		if ch == '\n' || j > i+1 || j == len(text) {
			segments = append(segments, text[start:j])
			start = j
			i = j - 1
		}
	}
	if start < len(text) {
		segments = append(segments, text[start:])
	}
	return segments
}
