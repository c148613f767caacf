package markdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderer_Render(t *testing.T) {
	r := NewRenderer()

	tests := []struct {
		name     string
		in       string
		contains []string
		excludes []string
	}{
		{
			name:     "emphasis",
			in:       "Your site is **back online**.",
			contains: []string{"<strong>back online</strong>"},
		},
		{
			name:     "raw html is not passed through",
			in:       "hi <script>alert(1)</script>",
			excludes: []string{"<script>", "alert(1)</script>"},
		},
		{
			name:     "javascript links are stripped",
			in:       "[click](javascript:alert(1))",
			excludes: []string{"javascript:"},
		},
		{
			name:     "external links open in a new tab",
			in:       "see https://fixmy.site/help",
			contains: []string{`href="https://fixmy.site/help"`, `target="_blank"`, `nofollow`},
		},
		{
			name:     "line breaks are kept",
			in:       "line one\nline two",
			contains: []string{"<br"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := r.Render(tt.in)
			require.NoError(t, err)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
			for _, s := range tt.excludes {
				assert.NotContains(t, out, s)
			}
		})
	}
}
