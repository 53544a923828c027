package rewrite

import (
	"context"
	"io"
	"strings"

	"gitlab.com/tozd/go/errors"
)

// Engine implements Rewriter with sequential in-memory substitution
type Engine struct{}

// NewEngine creates a new Engine
func NewEngine() *Engine {
	return &Engine{}
}

// Apply implements Rewriter.Apply
func (e *Engine) Apply(ctx context.Context, content io.Reader, rules []Rule) (*Result, error) {
	originalContent, err := io.ReadAll(content)
	if err != nil {
		return nil, errors.Errorf("reading content: %w", err)
	}

	result := &Result{
		OriginalContent: originalContent,
		ModifiedContent: originalContent,
		Rules:           make([]RuleResult, 0, len(rules)),
	}

	currentContent := string(originalContent)
	for _, rule := range rules {
		if rule.Pattern == "" {
			continue
		}

		var newContent string
		var count int
		if rule.Regex {
			re, err := rule.compile()
			if err != nil {
				return nil, errors.Errorf("rule %q: compiling pattern: %w", rule.Label(), err)
			}
			count = len(re.FindAllStringIndex(currentContent, -1))
			newContent = re.ReplaceAllString(currentContent, rule.Replace)
		} else {
			count = strings.Count(currentContent, rule.Pattern)
			newContent = strings.ReplaceAll(currentContent, rule.Pattern, rule.Replace)
		}

		result.Rules = append(result.Rules, RuleResult{
			Name:    rule.Label(),
			Pattern: rule.Pattern,
			Count:   count,
		})

		if count > 0 {
			result.WasModified = true
			result.TotalCount += count
		}

		currentContent = newContent
	}

	result.ModifiedContent = []byte(currentContent)
	result.LineDelta = strings.Count(currentContent, "\n") - strings.Count(string(originalContent), "\n")
	return result, nil
}

// ValidateRules implements Rewriter.ValidateRules
func (e *Engine) ValidateRules(rules []Rule) error {
	for i, rule := range rules {
		if rule.Pattern == "" {
			return errors.Errorf("rule %d: pattern is required", i)
		}
		if rule.Regex {
			if _, err := rule.compile(); err != nil {
				return errors.Errorf("rule %d (%s): invalid regex: %w", i, rule.Label(), err)
			}
		}
	}
	return nil
}
