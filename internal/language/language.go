// Package language holds the fixed catalog of languages offered for translation.
package language

import (
	"golang.org/x/text/language"
)

// Language is one selectable entry. Code is the identity; Name is what goes into prompts.
type Language struct {
	Code   string `json:"code"`
	Name   string `json:"name"`
	Native string `json:"native"`
}

const (
	DefaultSource = "en"
	DefaultTarget = "ar-IQ"

	fallbackSourceName = "English"
	fallbackTargetName = "Arabic (Iraqi dialect)"
)

var catalog = []Language{
	{Code: "en", Name: "English", Native: "الإنجليزية"},
	{Code: "ar", Name: "Arabic (Standard)", Native: "العربية (فصحى)"},
	{Code: "ar-IQ", Name: "Arabic (Iraqi dialect)", Native: "العربية (لهجة عراقية)"},
	{Code: "ku-sorani", Name: "Kurdish (Sorani)", Native: "الكردية (سوراني)"},
	{Code: "ku-badini", Name: "Kurdish (Badini)", Native: "الكردية (باديني)"},
	{Code: "ku-kurmanji", Name: "Kurdish (Kurmanji)", Native: "الكردية (كرمانجي)"},
	{Code: "fr", Name: "French", Native: "الفرنسية"},
	{Code: "es", Name: "Spanish", Native: "الإسبانية"},
	{Code: "de", Name: "German", Native: "الألمانية"},
	{Code: "tr", Name: "Turkish", Native: "التركية"},
}

// All returns a copy of the catalog in display order.
func All() []Language {
	out := make([]Language, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup finds a catalog entry by code.
func Lookup(code string) (Language, bool) {
	for _, l := range catalog {
		if l.Code == code {
			return l, true
		}
	}
	return Language{}, false
}

// SourceName returns the prompt name for a source code, falling back to English.
func SourceName(code string) string {
	if l, ok := Lookup(code); ok {
		return l.Name
	}
	return fallbackSourceName
}

// TargetName returns the prompt name for a target code, falling back to Iraqi Arabic.
func TargetName(code string) string {
	if l, ok := Lookup(code); ok {
		return l.Name
	}
	return fallbackTargetName
}

// Tag returns the best-effort BCP 47 tag for the entry. Kurdish dialect names are not
// registered variants and are dropped, leaving the "ku" base.
func (l Language) Tag() language.Tag {
	return language.Make(l.Code)
}

// Base returns the ISO 639-1 base language of a catalog code ("ar" for "ar-IQ").
func Base(code string) string {
	base, _ := language.Make(code).Base()
	return base.String()
}
