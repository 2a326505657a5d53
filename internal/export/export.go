// Package export writes the translation history as Markdown, HTML or JSON.
package export

import (
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/valpere/tarjem/internal/history"
	"github.com/valpere/tarjem/internal/markdown"
)

type Format string

const (
	FormatMarkdown Format = "md"
	FormatHTML     Format = "html"
	FormatJSON     Format = "json"
)

func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "md", "markdown":
		return FormatMarkdown, nil
	case "html", "htm":
		return FormatHTML, nil
	case "json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unknown export format %q (want md, html or json)", s)
	}
}

func Write(w io.Writer, entries []history.Entry, format Format) error {
	switch format {
	case FormatMarkdown:
		_, err := io.WriteString(w, Markdown(entries))
		return err
	case FormatHTML:
		return writeHTML(w, entries)
	case FormatJSON:
		return writeJSON(w, entries)
	default:
		return fmt.Errorf("unknown export format %q", format)
	}
}

// FormatTime renders an entry timestamp in UTC.
func FormatTime(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("2006-01-02 15:04:05 UTC")
}

func Markdown(entries []history.Entry) string {
	var b strings.Builder
	b.WriteString("# Translation history\n")
	if len(entries) == 0 {
		b.WriteString("\nNo translations yet.\n")
		return b.String()
	}

	for _, e := range entries {
		fmt.Fprintf(&b, "\n## %s → %s\n\n", markdown.Escape(nameOr(e.SourceLangName, e.SourceLang)), markdown.Escape(nameOr(e.TargetLangName, e.TargetLang)))
		fmt.Fprintf(&b, "*%s*\n\n", FormatTime(e.Timestamp))
		b.WriteString(markdown.Quote(e.SourceText))
		b.WriteString("\n\n")
		b.WriteString(markdown.Escape(e.TranslatedText))
		b.WriteString("\n")
	}
	return b.String()
}

func nameOr(name, code string) string {
	if name != "" {
		return name
	}
	return code
}

var page = template.Must(template.New("page").Parse(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>Translation history</title>
</head>
<body dir="auto">
{{.}}</body>
</html>
`))

func writeHTML(w io.Writer, entries []history.Entry) error {
	body, err := markdown.ToHTML([]byte(Markdown(entries)))
	if err != nil {
		return fmt.Errorf("failed to render history: %w", err)
	}
	return page.Execute(w, template.HTML(body))
}

func writeJSON(w io.Writer, entries []history.Entry) error {
	if entries == nil {
		entries = []history.Entry{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(entries)
}
