// Package detector guesses the source language of a text among the catalog
// languages that have a statistical model.
package detector

import (
	"strings"

	lingua "github.com/pemistahl/lingua-go"
)

// codes maps detectable languages to catalog codes. Kurdish has no model, and
// Arabic resolves to the standard variety.
var codes = map[lingua.Language]string{
	lingua.English: "en",
	lingua.Arabic:  "ar",
	lingua.French:  "fr",
	lingua.Spanish: "es",
	lingua.German:  "de",
	lingua.Turkish: "tr",
}

type Detector struct {
	detector lingua.LanguageDetector
}

func New() *Detector {
	langs := make([]lingua.Language, 0, len(codes))
	for l := range codes {
		langs = append(langs, l)
	}

	detector := lingua.NewLanguageDetectorBuilder().
		FromLanguages(langs...).
		Build()

	return &Detector{detector: detector}
}

func (d *Detector) Detect(text string) (lingua.Language, bool) {
	if strings.TrimSpace(text) == "" {
		return lingua.Unknown, false
	}
	return d.detector.DetectLanguageOf(text)
}

// DetectCode returns the catalog code of the detected language.
func (d *Detector) DetectCode(text string) (string, bool) {
	lang, ok := d.Detect(text)
	if !ok {
		return "", false
	}
	code, ok := codes[lang]
	return code, ok
}

// Detectable reports whether code is one of the languages New can detect.
func Detectable(code string) bool {
	for _, c := range codes {
		if c == code {
			return true
		}
	}
	return false
}
