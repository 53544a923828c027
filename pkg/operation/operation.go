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

// Package operation runs rename passes against their target files
package operation

import (
	"context"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/walteh/patchrc/pkg/config"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/rewrite"
	"github.com/walteh/patchrc/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// 🎯 Operator defines the main interface for patchrc operations
type Operator interface {
	// Apply runs the pass over all targets and records the outcome
	Apply(ctx context.Context) (*Summary, error)
	// Check reports legacy names still present in the targets
	Check(ctx context.Context) ([]FileReport, error)
	// Status reports whether the pass still has work to do
	Status(ctx context.Context) (bool, error)
}

// 🔧 Options contains configuration for the operator
type Options struct {
	// Pass is the rename pass to run
	Pass *config.Pass
	// BaseDir is the directory target globs resolve against
	BaseDir string
	// LockPath is the pass lock file (defaults to BaseDir/.patchrc.lock)
	LockPath string
	// ConfigHash identifies the config the lock file was written for
	ConfigHash string
	// Logger reports per-rule results
	Logger *log.Logger
	// UserLogger, when set, emits per-file feedback after a run
	UserLogger *log.UserLogger
	// DryRun applies rules without writing files or state
	DryRun bool
	// Async rewrites target files concurrently
	Async bool
}

// 📊 Summary reports the outcome of an Apply run
type Summary struct {
	// Files is the number of target files processed
	Files int
	// Rewritten is the number of files that changed
	Rewritten int
	// TotalCount is the number of replacements across all files
	TotalCount int
	// LineDelta is the total change in line count
	LineDelta int
	// AlreadyApplied is true when no rule matched anywhere
	AlreadyApplied bool
	// Outcomes holds per-file results in target order
	Outcomes []FileOutcome
}

// 📄 FileOutcome is the result of rewriting one target file
type FileOutcome struct {
	Path   string
	Result *rewrite.Result
}

// 🔍 FileReport lists legacy names still present in one target file
type FileReport struct {
	Path      string
	Remaining []rewrite.Remaining
}

// 🏭 New creates a new operator with the given options
func New(opts Options) (Operator, error) {
	if opts.Pass == nil {
		return nil, errors.Errorf("pass is required")
	}
	if opts.Logger == nil {
		return nil, errors.Errorf("logger is required")
	}
	if opts.BaseDir == "" {
		opts.BaseDir = "."
	}
	if opts.LockPath == "" {
		opts.LockPath = filepath.Join(opts.BaseDir, state.LockFileName)
	}
	return &operator{
		opts:   opts,
		engine: rewrite.NewEngine(),
	}, nil
}

// 🎮 operator implements the Operator interface
type operator struct {
	opts   Options
	engine *rewrite.Engine
}

// 🎯 resolveTargets expands the pass target globs relative to the base dir
func (op *operator) resolveTargets() ([]string, error) {
	seen := map[string]bool{}
	var targets []string

	for _, pattern := range op.opts.Pass.Targets {
		matches, err := doublestar.FilepathGlob(filepath.Join(op.opts.BaseDir, pattern))
		if err != nil {
			return nil, errors.Errorf("expanding target %q: %w", pattern, err)
		}
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				targets = append(targets, m)
			}
		}
	}

	if len(targets) == 0 {
		return nil, errors.Errorf("no files match targets %v", op.opts.Pass.Targets)
	}

	sort.Strings(targets)
	return targets, nil
}
