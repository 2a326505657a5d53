// Package validator checks that a translation result is in the expected target language.
package validator

import (
	"fmt"
	"strings"

	"github.com/valpere/tarjem/internal/detector"
	"github.com/valpere/tarjem/internal/language"
)

// minValidationLength is the minimum rune count required to attempt language detection.
const minValidationLength = 20

// Validator checks that a translation result is written in the expected target language.
// The underlying language detector is expensive to build; reuse the instance.
type Validator struct {
	det *detector.Detector
}

func New() *Validator {
	return &Validator{det: detector.New()}
}

// Check returns an error when translatedText is empty or was detected as a
// language other than targetCode. Short texts, undetectable target languages
// and ambiguous detections pass.
func (v *Validator) Check(translatedText, targetCode string) error {
	text := strings.TrimSpace(translatedText)
	if text == "" {
		return fmt.Errorf("translation is empty")
	}
	if targetCode == "" || len([]rune(text)) < minValidationLength {
		return nil
	}

	want := language.Base(targetCode)
	if !detector.Detectable(want) {
		return nil
	}

	detected, ok := v.det.DetectCode(text)
	if !ok {
		return nil
	}
	if detected != want {
		return fmt.Errorf("expected %s but detected %s", language.TargetName(targetCode), language.SourceName(detected))
	}
	return nil
}
