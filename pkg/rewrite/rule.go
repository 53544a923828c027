package rewrite

import (
	"context"
	"io"
	"regexp"
)

// Rule defines a single substitution in a rename pass. Literal rules are
// matched with plain string search; regex rules support capture references
// ($1, ${name}) in Replace.
type Rule struct {
	// Name identifies the rule in logs and results
	Name string

	// Pattern is the literal text or regular expression to match
	Pattern string

	// Replace is the replacement text (a template for regex rules)
	Replace string

	// Regex marks Pattern as a regular expression
	Regex bool

	// MultiLine compiles the regex with (?m) so ^ and $ match line boundaries
	MultiLine bool
}

// RuleResult reports how often a single rule matched. A zero count is a
// no-op, not an error: passes use it to spot already-applied or missing
// patterns.
type RuleResult struct {
	// Name is the rule name
	Name string

	// Pattern is the rule pattern
	Pattern string

	// Count is the number of matches replaced
	Count int
}

// Result contains the outcome of applying an ordered rule list to a buffer
type Result struct {
	// WasModified indicates if any rule matched
	WasModified bool

	// TotalCount is the number of replacements made across all rules
	TotalCount int

	// LineDelta is the change in newline count from original to modified
	LineDelta int

	// OriginalContent is the content before replacements
	OriginalContent []byte

	// ModifiedContent is the content after replacements
	ModifiedContent []byte

	// Rules holds per-rule results in application order
	Rules []RuleResult
}

// Rewriter defines the interface for substitution passes
type Rewriter interface {
	// Apply runs the rules strictly in order against the content. Each
	// rule sees the effects of the rules before it.
	Apply(ctx context.Context, content io.Reader, rules []Rule) (*Result, error)

	// ValidateRules checks that all rules are well formed
	ValidateRules(rules []Rule) error
}

// compile builds the regexp for a regex rule
func (r Rule) compile() (*regexp.Regexp, error) {
	pattern := r.Pattern
	if r.MultiLine {
		pattern = "(?m)" + pattern
	}
	return regexp.Compile(pattern)
}

// Label returns the rule name, falling back to the pattern
func (r Rule) Label() string {
	if r.Name != "" {
		return r.Name
	}
	return r.Pattern
}
