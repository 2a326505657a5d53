// Package chunker splits long documents into pieces that fit the per-request
// text limit, preferring paragraph, then sentence, then word boundaries.
package chunker

import (
	"strings"
	"unicode"
)

// sentenceEnd holds the terminal punctuation of the catalog scripts, including
// the Arabic question mark and full stop.
const sentenceEnd = ".!?؟۔…"

// Chunk splits text into trimmed pieces of at most maxRunes runes each. Text
// that already fits, or a non-positive maxRunes, yields a single piece. Blank
// text yields none.
func Chunk(text string, maxRunes int) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	runes := []rune(text)
	if maxRunes <= 0 || len(runes) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	for len(runes) > maxRunes {
		cut := findSplit(runes[:maxRunes])
		if chunk := strings.TrimSpace(string(runes[:cut])); chunk != "" {
			chunks = append(chunks, chunk)
		}
		runes = []rune(strings.TrimSpace(string(runes[cut:])))
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		chunks = append(chunks, rest)
	}
	return chunks
}

// findSplit returns the rune index at which to end the piece taken from window.
func findSplit(window []rune) int {
	// Paragraph break.
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
		if window[i] == '\n' && window[i-1] == '\r' && i >= 3 && window[i-2] == '\n' && window[i-3] == '\r' {
			return i + 1
		}
	}

	// Sentence end followed by whitespace.
	for i := len(window) - 2; i > 0; i-- {
		if strings.ContainsRune(sentenceEnd, window[i]) && unicode.IsSpace(window[i+1]) {
			return i + 1
		}
	}

	// Word boundary.
	for i := len(window) - 1; i > 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i
		}
	}

	return len(window)
}

// Join reassembles translated pieces as separate paragraphs.
func Join(pieces []string) string {
	return strings.Join(pieces, "\n\n")
}
