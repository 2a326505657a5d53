package internal

import "unicode/utf8"

// MaxTextLength is the largest source text, in runes, accepted for a single request.
const MaxTextLength = 5000

type TranslationRequest struct {
	Text       string `json:"text"`
	SourceLang string `json:"source_lang"`
	TargetLang string `json:"target_lang"`
}

// TooLong reports whether the request text exceeds MaxTextLength.
func (r TranslationRequest) TooLong() bool {
	return utf8.RuneCountInString(r.Text) > MaxTextLength
}
