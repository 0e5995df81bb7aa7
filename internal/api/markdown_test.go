package api

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRenderMarkdown(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		want    []string
		notWant []string
	}{
		{
			name: "bold and code",
			text: "The **ablation** misses `lr=0.1`",
			want: []string{"<strong>ablation</strong>", "<code>lr=0.1</code>"},
		},
		{
			name:    "script is stripped",
			text:    "fine <script>alert(1)</script> text",
			want:    []string{"fine"},
			notWant: []string{"<script", "alert(1)</script>"},
		},
		{
			name:    "dangerous link is dropped",
			text:    "[click](javascript:alert(1))",
			notWant: []string{"javascript:"},
		},
		{
			name: "plain text",
			text: "P1 summary one",
			want: []string{"<p>P1 summary one</p>"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := string(renderMarkdown(tc.text))
			for _, w := range tc.want {
				assert.Contains(t, got, w)
			}
			for _, w := range tc.notWant {
				assert.NotContains(t, got, w)
			}
		})
	}
}
