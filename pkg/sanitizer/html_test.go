package sanitizer_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/hireloop/pkg/sanitizer"
)

func TestStripHTML(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "script injection", input: `<p>Hello</p><script>alert('xss')</script>`, want: "Hello"},
		{name: "nested tags", input: `<div><p>nested <span>content</span></p></div>`, want: "nested content"},
		{name: "event handler", input: `<img src="x" onerror="alert('xss')">`, want: ""},
		{name: "javascript url", input: `<a href="javascript:alert('xss')">click</a>`, want: "click"},
		{name: "entities decoded", input: "Fish & Chips <b>Shop</b>", want: "Fish & Chips Shop"},
		{name: "plain text trimmed", input: "  Used bike, good condition ", want: "Used bike, good condition"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tt.want, sanitizer.StripHTML(tt.input))
		})
	}
}

func TestSanitizeHTML(t *testing.T) {
	t.Parallel()

	out := sanitizer.SanitizeHTML(`<h2>Safety</h2><p onclick="x()">Meet in <a href="javascript:alert(1)">public</a></p><script>bad()</script>`)
	require.Contains(t, out, "<h2>Safety</h2>")
	require.Contains(t, out, "<p>Meet in ")
	require.NotContains(t, out, "onclick")
	require.NotContains(t, out, "javascript:")
	require.NotContains(t, out, "<script>")
}

func TestSanitizeHTML_ButtonClass(t *testing.T) {
	t.Parallel()

	out := sanitizer.SanitizeHTML(`<a href="/post" class="btn">Post</a><a href="/x" class="evil">X</a>`)
	require.Contains(t, out, `class="btn"`)
	require.NotContains(t, out, "evil")
}
