package markdown

import (
	"strings"
	"testing"
)

func TestToHTML(t *testing.T) {
	out, err := ToHTML([]byte("# Title\n\n> quoted\n\n| a | b |\n|---|---|\n| 1 | 2 |\n"))
	if err != nil {
		t.Fatalf("ToHTML failed: %v", err)
	}
	for _, want := range []string{"<h1>Title</h1>", "<blockquote>", "<table>"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestToHTML_OmitsRawHTML(t *testing.T) {
	out, err := ToHTML([]byte("<script>alert(1)</script>"))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("raw HTML leaked into output: %s", out)
	}
}

func TestEscape(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"plain", "plain"},
		{"*bold*", `\*bold\*`},
		{"a_b", `a\_b`},
		{"<b>", `\<b\>`},
		{"# not a heading", `\# not a heading`},
		{"مرحبا", "مرحبا"},
	}
	for _, tt := range tests {
		if got := Escape(tt.in); got != tt.want {
			t.Errorf("Escape(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestQuote(t *testing.T) {
	got := Quote("line one\n\n*two*")
	want := "> line one\n>\n> \\*two\\*"
	if got != want {
		t.Errorf("Quote = %q, want %q", got, want)
	}
}

func TestEscapedTextRendersLiterally(t *testing.T) {
	out, err := ToHTML([]byte(Escape("*not emphasis* <i>x</i>")))
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(out, "<em>") || strings.Contains(out, "<i>") {
		t.Errorf("escaped text was interpreted: %s", out)
	}
}
