package render

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMarkdown(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"blank", "   \n  ", ""},
		{"paragraph", "a quiet morning", "<p>a quiet morning</p>\n"},
		{"emphasis", "saw a *huge* wave", "<p>saw a <em>huge</em> wave</p>\n"},
		{"hard wrap", "line one\nline two", "<p>line one<br>\nline two</p>\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Markdown(tt.in))
		})
	}
}

func TestMarkdownEscapesRawHTML(t *testing.T) {
	out := Markdown(`<script>alert(1)</script>`)
	assert.NotContains(t, out, "<script>")
}
