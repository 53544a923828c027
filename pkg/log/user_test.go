package log

import (
	"bytes"
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"gitlab.com/tozd/go/errors"
)

func TestUserLogger_LogFileChange(t *testing.T) {
	tests := []struct {
		name   string
		change FileChange
		want   string
	}{
		{
			name: "rewritten_with_description",
			change: FileChange{
				Type:        FileRewritten,
				Path:        "/tmp/test-taskpane.ts",
				Description: "3 replacements",
			},
			want: "Rewrote test-taskpane.ts (3 replacements)",
		},
		{
			name: "unchanged",
			change: FileChange{
				Type: FileUnchanged,
				Path: "/tmp/test-taskpane.ts",
			},
			want: "Unchanged test-taskpane.ts",
		},
		{
			name: "skipped",
			change: FileChange{
				Type:        FileSkipped,
				Path:        "/tmp/test-taskpane.ts",
				Description: "dry run, 3 replacements",
			},
			want: "Skipped test-taskpane.ts (dry run, 3 replacements)",
		},
		{
			name: "error",
			change: FileChange{
				Type:  FileError,
				Path:  "/tmp/test-taskpane.ts",
				Error: errors.New("marker not found"),
			},
			want: "Error test-taskpane.ts",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// The structured mirror is the capturable side of the output
			buf := &bytes.Buffer{}
			logger := zerolog.New(buf)
			ctx := logger.WithContext(context.Background())

			u := NewUserLogger(ctx)
			u.LogFileChange(tt.change)

			assert.Contains(t, buf.String(), tt.want)
			if tt.change.Error != nil {
				assert.Contains(t, buf.String(), tt.change.Error.Error())
			}
		})
	}
}
