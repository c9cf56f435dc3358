package rules_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/macropower/regent/pkg/rules"
)

func TestSplitBody(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
		want []string
	}{
		{
			name: "empty body",
			body: "",
			want: nil,
		},
		{
			name: "single block",
			body: "One paragraph.\n",
			want: []string{"One paragraph."},
		},
		{
			name: "blank line separated blocks",
			body: "First.\n\nSecond.\n\n\nThird.\n",
			want: []string{"First.", "Second.", "Third."},
		},
		{
			name: "blank lines with trailing whitespace",
			body: "First.\n  \nSecond.\n",
			want: []string{"First.", "Second."},
		},
		{
			name: "multi-line block stays together",
			body: "- item one\n- item two\n\nNext block.\n",
			want: []string{"- item one\n- item two", "Next block."},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			blocks := rules.SplitBody(tt.body)

			got := make([]string, 0, len(blocks))
			for _, b := range blocks {
				got = append(got, b.Text)
			}

			if tt.want == nil {
				assert.Empty(t, got)
			} else {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFingerprint(t *testing.T) {
	t.Parallel()

	a := rules.Fingerprint([]byte("content"))
	b := rules.Fingerprint([]byte("content"))
	c := rules.Fingerprint([]byte("different"))

	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}

func TestExtractFrontmatter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		content  string
		wantMeta string
		wantBody string
		wantOK   bool
	}{
		{
			name:     "front-matter and body",
			content:  "---\norigin: project\n---\nBody text.\n",
			wantMeta: "origin: project",
			wantBody: "Body text.\n",
			wantOK:   true,
		},
		{
			name:     "no front-matter",
			content:  "Just a body.\n",
			wantMeta: "",
			wantBody: "Just a body.\n",
			wantOK:   false,
		},
		{
			name:     "unterminated fence is all body",
			content:  "---\norigin: project\nBody text.\n",
			wantMeta: "",
			wantBody: "---\norigin: project\nBody text.\n",
			wantOK:   false,
		},
		{
			name:     "closing fence at end of input",
			content:  "---\norigin: project\n---",
			wantMeta: "origin: project",
			wantBody: "",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			meta, body, ok := rules.ExtractFrontmatter(tt.content)
			require.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantMeta, meta)
			assert.Equal(t, tt.wantBody, body)
		})
	}
}

func TestParseOrigin(t *testing.T) {
	t.Parallel()

	for _, o := range rules.AllOrigins {
		parsed, err := rules.ParseOrigin(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, parsed)
	}

	_, err := rules.ParseOrigin("cosmic")
	require.Error(t, err)
}

func TestOrigin_Tier(t *testing.T) {
	t.Parallel()

	// Tiers must be strictly increasing in AllOrigins order.
	for i := 1; i < len(rules.AllOrigins); i++ {
		assert.Greater(t, rules.AllOrigins[i].Tier(), rules.AllOrigins[i-1].Tier())
	}
}
