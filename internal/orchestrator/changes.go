package orchestrator

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/sergi/go-diff/diffmatchpatch"
)

type ChangeKind string

const (
	ChangeReplace ChangeKind = "replace"
	ChangeDelete  ChangeKind = "delete"
	ChangeInsert  ChangeKind = "insert"
)

// Change is one edit a spell check made. A delete directly followed by an
// insert is reported as a single replace.
type Change struct {
	Kind ChangeKind
	From string
	To   string
}

func (c Change) String() string {
	switch c.Kind {
	case ChangeReplace:
		return fmt.Sprintf("%q → %q", c.From, c.To)
	case ChangeDelete:
		return fmt.Sprintf("- %q", c.From)
	default:
		return fmt.Sprintf("+ %q", c.To)
	}
}

// Changes lists the word-level edits that turn original into corrected.
func Changes(original, corrected string) []Change {
	diffs := wordDiff(original, corrected)

	var changes []Change
	for i := 0; i < len(diffs); i++ {
		d := diffs[i]
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			continue
		case diffmatchpatch.DiffDelete:
			if i+1 < len(diffs) && diffs[i+1].Type == diffmatchpatch.DiffInsert {
				changes = append(changes, Change{Kind: ChangeReplace, From: d.Text, To: diffs[i+1].Text})
				i++
				continue
			}
			changes = append(changes, Change{Kind: ChangeDelete, From: d.Text})
		case diffmatchpatch.DiffInsert:
			changes = append(changes, Change{Kind: ChangeInsert, To: d.Text})
		}
	}
	return changes
}

// InlineDiff marks deleted words as [-text-] and inserted words as {+text+}.
func InlineDiff(original, corrected string) string {
	diffs := wordDiff(original, corrected)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffEqual:
			b.WriteString(d.Text)
		case diffmatchpatch.DiffDelete:
			b.WriteString("[-" + d.Text + "-]")
		case diffmatchpatch.DiffInsert:
			b.WriteString("{+" + d.Text + "+}")
		}
	}
	return b.String()
}

// tokenBase is the first rune used to encode tokens. Runes from the private use
// area upward are valid and never surrogates.
const tokenBase = 0xE000

// wordDiff diffs whole words and whitespace runs. Each distinct token is
// encoded as one rune, diffed, and decoded back, the way diffmatchpatch's
// line mode works.
func wordDiff(original, corrected string) []diffmatchpatch.Diff {
	var tokens []string
	index := make(map[string]rune)
	encode := func(text string) []rune {
		var out []rune
		for _, tok := range tokenize(text) {
			r, ok := index[tok]
			if !ok {
				r = rune(tokenBase + len(tokens))
				index[tok] = r
				tokens = append(tokens, tok)
			}
			out = append(out, r)
		}
		return out
	}
	a, b := encode(original), encode(corrected)

	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMainRunes(a, b, false))
	for i := range diffs {
		var text strings.Builder
		for _, r := range diffs[i].Text {
			text.WriteString(tokens[r-tokenBase])
		}
		diffs[i].Text = text.String()
	}
	return diffs
}

// tokenize splits text into alternating runs of whitespace and non-whitespace.
func tokenize(text string) []string {
	var tokens []string
	start := 0
	prevSpace := false
	for i, r := range text {
		space := unicode.IsSpace(r)
		if i > 0 && space != prevSpace {
			tokens = append(tokens, text[start:i])
			start = i
		}
		prevSpace = space
	}
	if start < len(text) {
		tokens = append(tokens, text[start:])
	}
	return tokens
}
