// Package markdown renders Markdown to HTML and escapes user text for safe
// embedding in generated Markdown.
package markdown

import (
	"bytes"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var converter = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

// ToHTML converts md to an HTML fragment. Raw HTML in the input is omitted.
func ToHTML(md []byte) (string, error) {
	var buf bytes.Buffer
	if err := converter.Convert(md, &buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}

var escaper = strings.NewReplacer(
	`\`, `\\`,
	"`", "\\`",
	`*`, `\*`,
	`_`, `\_`,
	`[`, `\[`,
	`]`, `\]`,
	`<`, `\<`,
	`>`, `\>`,
	`#`, `\#`,
	`|`, `\|`,
	`~`, `\~`,
)

// Escape makes text render literally inside a Markdown paragraph.
func Escape(text string) string {
	return escaper.Replace(text)
}

// Quote escapes text and turns every line into a blockquote line.
func Quote(text string) string {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
	for i, line := range lines {
		if line == "" {
			lines[i] = ">"
			continue
		}
		lines[i] = "> " + Escape(line)
	}
	return strings.Join(lines, "\n")
}
