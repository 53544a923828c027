// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package log

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
)

// 🎨 Display configuration
const (
	ruleIndent = 4  // spaces to indent rule entries
	nameWidth  = 45 // Base width for rule name
	countWidth = 6  // Width for match count
)

// 🎯 RuleOperation represents one applied rule for logging
type RuleOperation struct {
	Rule    string // Rule name
	Pattern string // Rule pattern
	Count   int    // Number of matches replaced
}

// 📦 PassOperation represents a rename pass run for logging
type PassOperation struct {
	Name   string // Pass name
	Target string // Target file being rewritten
	Rules  int    // Number of rules in the pass
}

// 🎯 Logger handles structured logging with console output
type Logger struct {
	zlog       zerolog.Logger
	console    io.Writer
	mu         sync.Mutex
	currentOp  *PassOperation
	operations []RuleOperation
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:    zlog,
		console: console,
		mu:      sync.Mutex{},
	}
}

// 📝 formatRuleOperation formats a rule operation for display
func (l *Logger) formatRuleOperation(op RuleOperation) string {
	// A rule that matched nothing is a no-op; the scripts rely on seeing
	// those to detect already-applied or missing patterns
	var symbol rune
	var symbolColor color.Attribute
	switch {
	case op.Count > 0:
		symbol = '⟳'
		symbolColor = color.FgBlue
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	countText := fmt.Sprintf("%*d", countWidth, op.Count)
	if op.Count == 0 {
		countText = color.New(color.Faint).Sprint(countText)
	}

	return fmt.Sprintf("%s%s %s %s",
		fmt.Sprintf("%*s", ruleIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, op.Rule),
		countText)
}

// 📝 LogRuleOperation logs an applied rule
func (l *Logger) LogRuleOperation(ctx context.Context, op RuleOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.operations = append(l.operations, op)

	fmt.Fprintln(l.console, l.formatRuleOperation(op))

	l.zlog.Info().
		Str("rule", op.Rule).
		Str("pattern", op.Pattern).
		Int("count", op.Count).
		Msg("rule applied")
}

// 📝 StartPassOperation starts a new pass operation
func (l *Logger) StartPassOperation(ctx context.Context, op PassOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.operations = nil

	fmt.Fprintf(l.console, "[rewriting %s]\n",
		color.New(color.FgCyan).Sprint(op.Target))

	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Name),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprintf("%d rules", op.Rules))

	l.zlog.Info().
		Str("pass", op.Name).
		Str("target", op.Target).
		Int("rules", op.Rules).
		Msg("starting pass operation")
}

// 📝 EndPassOperation ends the current pass operation
func (l *Logger) EndPassOperation(ctx context.Context) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	total := 0
	for _, op := range l.operations {
		total += op.Count
	}

	l.zlog.Info().
		Str("pass", l.currentOp.Name).
		Int("rules", len(l.operations)).
		Int("replacements", total).
		Msg("pass operation complete")

	l.currentOp = nil
	l.operations = nil
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	patchrcText := color.New(color.Bold, color.FgCyan).Sprint("patchrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", patchrcText, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}
