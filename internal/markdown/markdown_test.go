package markdown

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestToHTML(t *testing.T) {
	html, err := ToHTML("**bold** and `code`")
	require.NoError(t, err)
	require.Contains(t, html, "<strong>bold</strong>")
	require.Contains(t, html, "<code>code</code>")
}

func TestToHTMLHardWraps(t *testing.T) {
	html, err := ToHTML("first line\nsecond line")
	require.NoError(t, err)
	require.Contains(t, html, "<br>")
}

func TestToHTMLRawHTMLNotRendered(t *testing.T) {
	html, err := ToHTML(`<script>alert("x")</script>`)
	require.NoError(t, err)
	require.NotContains(t, html, "<script>")
}
