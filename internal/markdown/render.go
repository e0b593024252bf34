// Package markdown renders memo content to sanitized HTML. Rendering is a
// pure function of the content string; untrusted markup is stripped rather
// than escaped so stored memos can never inject script into a client.
package markdown

import (
	"bytes"
	"fmt"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

var (
	engine = goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	// The UGC policy allows the formatting tags markdown produces and
	// drops everything executable.
	policy = bluemonday.UGCPolicy()
)

// Render converts markdown content to sanitized HTML.
func Render(content string) (string, error) {
	var buf bytes.Buffer
	if err := engine.Convert([]byte(content), &buf); err != nil {
		return "", fmt.Errorf("failed to render markdown: %w", err)
	}
	return policy.Sanitize(buf.String()), nil
}
