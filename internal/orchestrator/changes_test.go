package orchestrator

import "testing"

func TestChanges(t *testing.T) {
	tests := []struct {
		name      string
		original  string
		corrected string
		want      []Change
	}{
		{
			name:      "identical",
			original:  "All good.",
			corrected: "All good.",
			want:      nil,
		},
		{
			name:      "replacement",
			original:  "I has a cat",
			corrected: "I have a cat",
			want:      []Change{{Kind: ChangeReplace, From: "has", To: "have"}},
		},
		{
			name:      "punctuation replaces the whole word",
			original:  "Hello world",
			corrected: "Hello, world",
			want:      []Change{{Kind: ChangeReplace, From: "Hello", To: "Hello,"}},
		},
		{
			name:      "insertion",
			original:  "I am here",
			corrected: "I am here now",
			want:      []Change{{Kind: ChangeInsert, To: " now"}},
		},
		{
			name:      "deletion",
			original:  "Stop here please",
			corrected: "Stop here",
			want:      []Change{{Kind: ChangeDelete, From: " please"}},
		},
		{
			name:      "arabic",
			original:  "انا ذهبت الى السوق",
			corrected: "أنا ذهبت إلى السوق",
			want: []Change{
				{Kind: ChangeReplace, From: "انا", To: "أنا"},
				{Kind: ChangeReplace, From: "الى", To: "إلى"},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Changes(tt.original, tt.corrected)
			if len(got) != len(tt.want) {
				t.Fatalf("Changes = %+v, want %+v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("change %d = %+v, want %+v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestInlineDiff(t *testing.T) {
	if got := InlineDiff("same", "same"); got != "same" {
		t.Errorf("InlineDiff identical = %q", got)
	}
	if got := InlineDiff("Hello world", "Hello, world"); got != "[-Hello-]{+Hello,+} world" {
		t.Errorf("InlineDiff = %q", got)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("  two words\n")
	want := []string{"  ", "two", " ", "words", "\n"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %q, want %q", got, want)
	}
	for i := range got {
		if got[i] != want[i] {
			t.Errorf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
	if tokenize("") != nil {
		t.Error("expected no tokens for empty text")
	}
}

func TestChange_String(t *testing.T) {
	tests := []struct {
		c    Change
		want string
	}{
		{Change{Kind: ChangeReplace, From: "a", To: "b"}, `"a" → "b"`},
		{Change{Kind: ChangeDelete, From: "a"}, `- "a"`},
		{Change{Kind: ChangeInsert, To: "b"}, `+ "b"`},
	}
	for _, tt := range tests {
		if got := tt.c.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
