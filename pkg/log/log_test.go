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
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLogger(t *testing.T) {
	// Disable color for testing
	color.NoColor = true
	defer func() { color.NoColor = false }()

	tests := []struct {
		name     string
		op       func(t *testing.T, logger *Logger)
		wantLogs []string
	}{
		{
			name: "log_rule_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.LogRuleOperation(context.Background(), RuleOperation{
					Rule:    "rangeConfigs/sort_range -> range/sort",
					Pattern: "rangeConfigs, 'sort_range', {",
					Count:   3,
				})
			},
			wantLogs: []string{
				"⟳ rangeConfigs/sort_range -> range/sort              3",
			},
		},
		{
			name: "log_noop_rule",
			op: func(t *testing.T, logger *Logger) {
				logger.LogRuleOperation(context.Background(), RuleOperation{
					Rule:  "already-applied",
					Count: 0,
				})
			},
			wantLogs: []string{
				"- already-applied                                    0",
			},
		},
		{
			name: "log_pass_operation",
			op: func(t *testing.T, logger *Logger) {
				logger.StartPassOperation(context.Background(), PassOperation{
					Name:   "grouped-tool-migration",
					Target: "/tmp/test-taskpane.ts",
					Rules:  12,
				})
			},
			wantLogs: []string{
				"[rewriting /tmp/test-taskpane.ts]",
				"◆ grouped-tool-migration • 12 rules",
			},
		},
		{
			name: "log_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Info("info message")
				logger.Warning("warning message")
				logger.Error("error message")
				logger.Success("success message")
			},
			wantLogs: []string{
				"ℹ️  info message",
				"⚠️  warning message",
				"❌ error message",
				"✅ success message",
			},
		},
		{
			name: "log_formatted_messages",
			op: func(t *testing.T, logger *Logger) {
				logger.Infof("info %s", "test")
				logger.Successf("success %s", "test")
			},
			wantLogs: []string{
				"ℹ️  info test",
				"✅ success test",
			},
		},
		{
			name: "log_header",
			op: func(t *testing.T, logger *Logger) {
				logger.Header("applying rename pass")
			},
			wantLogs: []string{
				"patchrc • applying rename pass",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Create buffer for console output
			buf := &bytes.Buffer{}
			logger := New(buf, zerolog.InfoLevel)

			// Perform operation
			tt.op(t, logger)

			// Check output
			output := strings.TrimSpace(buf.String())
			lines := strings.Split(output, "\n")

			require.Equal(t, len(tt.wantLogs), len(lines), "number of log lines should match")
			for i, want := range tt.wantLogs {
				assert.Equal(t, want, strings.TrimSpace(lines[i]), "log line %d should match", i)
			}
		})
	}
}
