package render

import (
	"bytes"
	"html/template"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	htmlrenderer "github.com/yuin/goldmark/renderer/html"
)

var markdownEngine = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		extension.Strikethrough,
		extension.Linkify,
	),
	goldmark.WithRendererOptions(
		htmlrenderer.WithHardWraps(),
	),
)

// Markdown converts an entry description to HTML. Journal text is treated
// as plain paragraphs with light markdown; raw HTML is not passed through.
func Markdown(text string) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return ""
	}

	var out bytes.Buffer
	if err := markdownEngine.Convert([]byte(trimmed), &out); err != nil {
		return "<p>" + template.HTMLEscapeString(trimmed) + "</p>"
	}
	return out.String()
}
