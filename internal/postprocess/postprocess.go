// Package postprocess strips reasoning traces that local models emit even when
// thinking is switched off. Quotes, prefixes and inner whitespace are left alone:
// the translation result is otherwise returned as generated.
package postprocess

import (
	"regexp"
	"strings"
)

// Go's RE2 has no backreferences, so each tag pair is spelled out.
var reasoningBlockRe = regexp.MustCompile(
	`(?is)<think>.*?</think>|<thinking>.*?</thinking>|<reasoning>.*?</reasoning>`,
)

// An opening tag with no close means the model was cut off mid-thought.
var openReasoningRe = regexp.MustCompile(`(?is)(?:<think>|<thinking>|<reasoning>).*$`)

// StripReasoning removes complete and truncated reasoning blocks and trims the result.
func StripReasoning(text string) string {
	text = reasoningBlockRe.ReplaceAllString(text, "")
	text = openReasoningRe.ReplaceAllString(text, "")
	return strings.TrimSpace(text)
}
