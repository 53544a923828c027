// Package rename expands grouped tool-rename tables into rewrite rules.
//
// A migration moves flat tool invocations like
//
//	callTool(rangeConfigs, 'sort_range', { ... })
//
// to a grouped "registry + action" convention:
//
//	callTool(rangeConfigs, 'range', { action: 'sort', ... })
//
// Call sites appear in two shapes: the registry, name and argument object on
// one line, or split across three lines with arbitrary indentation. Each
// table entry therefore expands to a literal rule for the inline form and a
// regex rule that preserves indentation for the split form.
package rename

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/walteh/patchrc/pkg/rewrite"
	"gitlab.com/tozd/go/errors"
)

// Arg is an extra discriminator argument injected after the action,
// e.g. type: 'list' or filterType: 'manual'. Order is preserved.
type Arg struct {
	Name  string `json:"name" yaml:"name"`
	Value string `json:"value" yaml:"value"`
}

// ToolRename describes the migration of one flat tool name into a grouped
// registry/action pair
type ToolRename struct {
	// OldRegistry is the registry variable at the call site, e.g. rangeConfigs
	OldRegistry string `json:"old_registry" yaml:"old_registry"`

	// OldName is the flat tool name being retired
	OldName string `json:"old_name" yaml:"old_name"`

	// NewRegistry is the registry after the migration (often unchanged)
	NewRegistry string `json:"new_registry" yaml:"new_registry"`

	// NewName is the grouped tool name
	NewName string `json:"new_name" yaml:"new_name"`

	// Action is the discriminator added to the argument object. Empty
	// means the call keeps its arguments untouched.
	Action string `json:"action,omitempty" yaml:"action,omitempty"`

	// Extra are additional discriminator arguments added after the action
	Extra []Arg `json:"extra,omitempty" yaml:"extra,omitempty"`
}

// argPrefix builds the opening of the replacement argument object:
// "{ action: 'sort', filterType: 'manual'," or plain "{" when there is
// nothing to inject.
func (t ToolRename) argPrefix() string {
	parts := make([]string, 0, 1+len(t.Extra))
	if t.Action != "" {
		parts = append(parts, fmt.Sprintf("action: '%s'", t.Action))
	}
	for _, a := range t.Extra {
		parts = append(parts, fmt.Sprintf("%s: '%s'", a.Name, a.Value))
	}
	if len(parts) == 0 {
		return "{"
	}
	return "{ " + strings.Join(parts, ", ") + ","
}

// registry after the migration, defaulting to the old one
func (t ToolRename) newRegistry() string {
	if t.NewRegistry != "" {
		return t.NewRegistry
	}
	return t.OldRegistry
}

// Validate checks that the entry names both sides of the migration
func (t ToolRename) Validate() error {
	if t.OldRegistry == "" {
		return errors.Errorf("old_registry is required")
	}
	if t.OldName == "" {
		return errors.Errorf("old_name is required")
	}
	if t.NewName == "" {
		return errors.Errorf("new_name is required")
	}
	return nil
}

// Rules expands one table entry into its inline and split-form rewrite rules
func Rules(t ToolRename) []rewrite.Rule {
	label := fmt.Sprintf("%s/%s -> %s", t.OldRegistry, t.OldName, t.NewName)
	if t.Action != "" {
		label = fmt.Sprintf("%s/%s", label, t.Action)
	}

	inline := rewrite.Rule{
		Name:    label,
		Pattern: fmt.Sprintf("%s, '%s', {", t.OldRegistry, t.OldName),
		Replace: fmt.Sprintf("%s, '%s', %s", t.newRegistry(), t.NewName, t.argPrefix()),
	}

	split := rewrite.Rule{
		Name: label + " (split)",
		Pattern: regexp.QuoteMeta(t.OldRegistry) + `,\n(\s+)` +
			regexp.QuoteMeta("'"+t.OldName+"'") + `,\n(\s+)\{`,
		Replace: fmt.Sprintf("%s,\n${1}'%s',\n${2}%s",
			t.newRegistry(), t.NewName, t.argPrefix()),
		Regex:     true,
		MultiLine: true,
	}

	return []rewrite.Rule{inline, split}
}

// TableRules expands a whole rename table, keeping table order
func TableRules(table []ToolRename) []rewrite.Rule {
	rules := make([]rewrite.Rule, 0, 2*len(table))
	for _, t := range table {
		rules = append(rules, Rules(t)...)
	}
	return rules
}
