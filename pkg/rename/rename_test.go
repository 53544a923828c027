package rename

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/patchrc/pkg/rewrite"
)

func TestRules_Expansion(t *testing.T) {
	tests := []struct {
		name        string
		entry       ToolRename
		wantInline  rewrite.Rule
		wantSplitRe string
	}{
		{
			name: "same_registry_with_action",
			entry: ToolRename{
				OldRegistry: "rangeConfigs",
				OldName:     "sort_range",
				NewName:     "range",
				Action:      "sort",
			},
			wantInline: rewrite.Rule{
				Name:    "rangeConfigs/sort_range -> range/sort",
				Pattern: "rangeConfigs, 'sort_range', {",
				Replace: "rangeConfigs, 'range', { action: 'sort',",
			},
			wantSplitRe: `rangeConfigs,\n(\s+)'sort_range',\n(\s+)\{`,
		},
		{
			name: "registry_change_with_extra_arg",
			entry: ToolRename{
				OldRegistry: "rangeConfigs",
				OldName:     "auto_fit_columns",
				NewRegistry: "rangeFormatConfigs",
				NewName:     "range_format",
				Action:      "auto_fit",
				Extra:       []Arg{{Name: "fitTarget", Value: "columns"}},
			},
			wantInline: rewrite.Rule{
				Name:    "rangeConfigs/auto_fit_columns -> range_format/auto_fit",
				Pattern: "rangeConfigs, 'auto_fit_columns', {",
				Replace: "rangeFormatConfigs, 'range_format', { action: 'auto_fit', fitTarget: 'columns',",
			},
			wantSplitRe: `rangeConfigs,\n(\s+)'auto_fit_columns',\n(\s+)\{`,
		},
		{
			name: "no_action",
			entry: ToolRename{
				OldRegistry: "workbookConfigs",
				OldName:     "get_query",
				NewName:     "workbook_query",
			},
			wantInline: rewrite.Rule{
				Name:    "workbookConfigs/get_query -> workbook_query",
				Pattern: "workbookConfigs, 'get_query', {",
				Replace: "workbookConfigs, 'workbook_query', {",
			},
			wantSplitRe: `workbookConfigs,\n(\s+)'get_query',\n(\s+)\{`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules := Rules(tt.entry)
			require.Len(t, rules, 2)

			assert.Equal(t, tt.wantInline, rules[0])
			assert.True(t, rules[1].Regex)
			assert.True(t, rules[1].MultiLine)
			assert.Equal(t, tt.wantSplitRe, rules[1].Pattern)
		})
	}
}

func TestTableRules_AppliedToSource(t *testing.T) {
	table := []ToolRename{
		{OldRegistry: "tableConfigs", OldName: "sort_table", NewName: "table", Action: "sort"},
		{OldRegistry: "conditionalFormatConfigs", OldName: "add_data_bar", NewName: "conditional_format", Action: "add",
			Extra: []Arg{{Name: "type", Value: "dataBar"}}},
	}

	source := strings.Join([]string{
		"await callTool(tableConfigs, 'sort_table', { tableName: TABLE });",
		"await callTool(",
		"    tableConfigs,",
		"    'sort_table',",
		"    { tableName: TABLE3 },",
		");",
		"await callTool(conditionalFormatConfigs, 'add_data_bar', { address: CF_RANGE });",
	}, "\n")

	want := strings.Join([]string{
		"await callTool(tableConfigs, 'table', { action: 'sort', tableName: TABLE });",
		"await callTool(",
		"    tableConfigs,",
		"    'table',",
		"    { action: 'sort', tableName: TABLE3 },",
		");",
		"await callTool(conditionalFormatConfigs, 'conditional_format', { action: 'add', type: 'dataBar', address: CF_RANGE });",
	}, "\n")

	engine := rewrite.NewEngine()
	rules := TableRules(table)
	require.NoError(t, engine.ValidateRules(rules))

	result, err := engine.Apply(context.Background(), strings.NewReader(source), rules)
	require.NoError(t, err)
	assert.Equal(t, want, string(result.ModifiedContent))
	assert.Equal(t, 3, result.TotalCount)
	assert.Zero(t, result.LineDelta, "rename must not change the line count")
}

func TestToolRename_Validate(t *testing.T) {
	tests := []struct {
		name      string
		entry     ToolRename
		wantError string
	}{
		{
			name:  "valid",
			entry: ToolRename{OldRegistry: "a", OldName: "b", NewName: "c"},
		},
		{
			name:      "missing_old_registry",
			entry:     ToolRename{OldName: "b", NewName: "c"},
			wantError: "old_registry is required",
		},
		{
			name:      "missing_old_name",
			entry:     ToolRename{OldRegistry: "a", NewName: "c"},
			wantError: "old_name is required",
		},
		{
			name:      "missing_new_name",
			entry:     ToolRename{OldRegistry: "a", OldName: "b"},
			wantError: "new_name is required",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.entry.Validate()
			if tt.wantError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantError)
				return
			}
			require.NoError(t, err)
		})
	}
}
