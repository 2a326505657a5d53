package detector

import (
	"testing"
)

func TestDetector_DetectCode(t *testing.T) {
	d := New()

	tests := []struct {
		name     string
		text     string
		wantCode string
		wantOK   bool
	}{
		{
			name:   "empty text",
			text:   "",
			wantOK: false,
		},
		{
			name:   "whitespace only",
			text:   "   \n",
			wantOK: false,
		},
		{
			name:     "english text",
			text:     "Hello, this is a test in English.",
			wantCode: "en",
			wantOK:   true,
		},
		{
			name:     "arabic text",
			text:     "مرحبا، هذا اختبار باللغة العربية.",
			wantCode: "ar",
			wantOK:   true,
		},
		{
			name:     "german text",
			text:     "Hallo, das ist ein Test auf Deutsch.",
			wantCode: "de",
			wantOK:   true,
		},
		{
			name:     "french text",
			text:     "Bonjour, ceci est un test en français.",
			wantCode: "fr",
			wantOK:   true,
		},
		{
			name:     "spanish text",
			text:     "Hola, esto es una prueba en español.",
			wantCode: "es",
			wantOK:   true,
		},
		{
			name:     "turkish text",
			text:     "Merhaba, bu Türkçe bir deneme cümlesidir.",
			wantCode: "tr",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, ok := d.DetectCode(tt.text)
			if ok != tt.wantOK {
				t.Errorf("DetectCode(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
				return
			}
			if code != tt.wantCode {
				t.Errorf("DetectCode(%q) = %q, want %q", tt.text, code, tt.wantCode)
			}
		})
	}
}

func TestDetector_Detect_Unknown(t *testing.T) {
	d := New()
	if _, ok := d.Detect(""); ok {
		t.Error("expected empty text to be undetected")
	}
}

func TestDetectable(t *testing.T) {
	for _, code := range []string{"en", "ar", "fr", "es", "de", "tr"} {
		if !Detectable(code) {
			t.Errorf("expected %s to be detectable", code)
		}
	}
	for _, code := range []string{"ku", "ar-IQ", ""} {
		if Detectable(code) {
			t.Errorf("expected %q not to be detectable", code)
		}
	}
}
