package rewrite

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountRemaining(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		patterns []string
		want     []Remaining
	}{
		{
			name:     "clean_content",
			content:  "callTool(rangeConfigs, 'range', { action: 'sort', });",
			patterns: []string{"'sort_range'", "'delete_range'"},
			want:     nil,
		},
		{
			name:     "leftover_counted",
			content:  "a 'sort_range' b 'sort_range' c",
			patterns: []string{"'sort_range'"},
			want: []Remaining{
				{Pattern: "'sort_range'", Count: 2, Context: "a 'sort_range' b 'sort_range' c"},
			},
		},
		{
			name:     "empty_pattern_skipped",
			content:  "anything",
			patterns: []string{""},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CountRemaining([]byte(tt.content), tt.patterns)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountRemaining_ContextWindow(t *testing.T) {
	prefix := strings.Repeat("x", 200)
	suffix := strings.Repeat("y", 200)
	content := prefix + "'filter_table'" + suffix

	got := CountRemaining([]byte(content), []string{"'filter_table'"})
	require.Len(t, got, 1)
	assert.Equal(t, 1, got[0].Count)
	assert.Contains(t, got[0].Context, "'filter_table'")
	assert.LessOrEqual(t, len(got[0].Context), contextBefore+contextAfter+len("'filter_table'"))
	assert.True(t, strings.HasPrefix(got[0].Context, "xxxx"), "context should keep text before the match")
}
