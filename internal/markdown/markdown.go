// Package markdown renders the short markdown snippets users put in
// milestone reward text.
package markdown

import (
	"bytes"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
)

// Render converts a markdown snippet to HTML. Raw HTML in the source is
// escaped by goldmark's default renderer.
func Render(source string) (string, error) {
	var buf bytes.Buffer
	err := md.Convert([]byte(source), &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
