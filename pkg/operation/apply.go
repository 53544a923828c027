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

package operation

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/log"
	"github.com/walteh/patchrc/pkg/rewrite"
	"github.com/walteh/patchrc/pkg/state"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 🏃 Apply runs the pass over all targets and records the outcome
func (op *operator) Apply(ctx context.Context) (*Summary, error) {
	logger := zerolog.Ctx(ctx)

	rules := op.opts.Pass.CompiledRules()
	if err := op.engine.ValidateRules(rules); err != nil {
		return nil, errors.Errorf("validating rules: %w", err)
	}

	targets, err := op.resolveTargets()
	if err != nil {
		return nil, err
	}
	logger.Debug().Strs("targets", targets).Int("rules", len(rules)).Msg("applying pass")

	outcomes := make([]FileOutcome, len(targets))
	if op.opts.Async {
		g, gctx := errgroup.WithContext(ctx)
		for i, target := range targets {
			i, target := i, target
			g.Go(func() error {
				result, err := op.applyFile(gctx, target, rules)
				if err != nil {
					return err
				}
				outcomes[i] = FileOutcome{Path: target, Result: result}
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, target := range targets {
			result, err := op.applyFile(ctx, target, rules)
			if err != nil {
				return nil, err
			}
			outcomes[i] = FileOutcome{Path: target, Result: result}
		}
	}

	summary := op.report(ctx, outcomes)

	if !op.opts.DryRun {
		if err := op.recordState(ctx, outcomes, summary); err != nil {
			return nil, err
		}
	}

	return summary, nil
}

// 📄 applyFile rewrites a single target file
func (op *operator) applyFile(ctx context.Context, path string, rules []rewrite.Rule) (*rewrite.Result, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("reading %s: %w", path, err)
	}

	// A missing marker means the file is not the one the pass was written
	// for; abort rather than rewrite the wrong thing
	for _, marker := range op.opts.Pass.Markers {
		if !strings.Contains(string(content), marker) {
			return nil, errors.Errorf("marker not found in %s: %q", path, marker)
		}
	}

	result, err := op.engine.Apply(ctx, bytes.NewReader(content), rules)
	if err != nil {
		return nil, errors.Errorf("applying rules to %s: %w", path, err)
	}

	if remaining := rewrite.CountRemaining(result.ModifiedContent, op.opts.Pass.Forbidden); len(remaining) > 0 {
		r := remaining[0]
		return nil, errors.Errorf("forbidden pattern %q still present in %s (%d occurrences, first at ...%s...)",
			r.Pattern, path, r.Count, r.Context)
	}

	if result.WasModified && !op.opts.DryRun {
		info, err := os.Stat(path)
		if err != nil {
			return nil, errors.Errorf("stating %s: %w", path, err)
		}
		if err := os.WriteFile(path, result.ModifiedContent, info.Mode().Perm()); err != nil {
			return nil, errors.Errorf("writing %s: %w", path, err)
		}
	}

	return result, nil
}

// 📝 report logs per-rule results and builds the summary
func (op *operator) report(ctx context.Context, outcomes []FileOutcome) *Summary {
	summary := &Summary{Outcomes: outcomes, Files: len(outcomes)}

	for _, outcome := range outcomes {
		op.opts.Logger.StartPassOperation(ctx, log.PassOperation{
			Name:   op.opts.Pass.Name,
			Target: outcome.Path,
			Rules:  len(outcome.Result.Rules),
		})
		for _, rr := range outcome.Result.Rules {
			op.opts.Logger.LogRuleOperation(ctx, log.RuleOperation{
				Rule:    rr.Name,
				Pattern: rr.Pattern,
				Count:   rr.Count,
			})
		}
		op.opts.Logger.EndPassOperation(ctx)

		if op.opts.UserLogger != nil {
			op.opts.UserLogger.LogFileChange(fileChange(outcome, op.opts.DryRun))
		}

		if outcome.Result.WasModified {
			summary.Rewritten++
		}
		summary.TotalCount += outcome.Result.TotalCount
		summary.LineDelta += outcome.Result.LineDelta
	}

	summary.AlreadyApplied = summary.TotalCount == 0
	if summary.AlreadyApplied {
		op.opts.Logger.Warning("no rule matched: pass appears to be already applied")
	} else {
		op.opts.Logger.Successf("%d replacements across %d files (line delta %+d)",
			summary.TotalCount, summary.Files, summary.LineDelta)
	}

	return summary
}

// 🎨 fileChange translates one outcome into user-facing feedback
func fileChange(outcome FileOutcome, dryRun bool) log.FileChange {
	change := log.FileChange{Path: outcome.Path}
	switch {
	case outcome.Result.WasModified && dryRun:
		change.Type = log.FileSkipped
		change.Description = fmt.Sprintf("dry run, %d replacements", outcome.Result.TotalCount)
	case outcome.Result.WasModified:
		change.Type = log.FileRewritten
		change.Description = fmt.Sprintf("%d replacements", outcome.Result.TotalCount)
	default:
		change.Type = log.FileUnchanged
	}
	return change
}

// 💾 recordState writes the pass outcome to the lock file
func (op *operator) recordState(ctx context.Context, outcomes []FileOutcome, summary *Summary) error {
	st, err := state.Load(ctx, op.opts.LockPath)
	if err != nil {
		return errors.Errorf("loading state: %w", err)
	}

	passState := state.PassState{
		Name:       op.opts.Pass.Name,
		AppliedAt:  time.Now().UTC(),
		LineDelta:  summary.LineDelta,
		TotalCount: summary.TotalCount,
	}
	for _, outcome := range outcomes {
		counts := make(map[string]int, len(outcome.Result.Rules))
		for _, rr := range outcome.Result.Rules {
			counts[rr.Name] = rr.Count
		}
		passState.Files = append(passState.Files, state.FileState{
			Path:        outcome.Path,
			ContentHash: state.HashContent(outcome.Result.ModifiedContent),
			RuleCounts:  counts,
		})
	}

	st.ConfigHash = op.opts.ConfigHash
	st.PutPass(passState)

	if err := state.Write(ctx, op.opts.LockPath, st); err != nil {
		return errors.Errorf("saving state: %w", err)
	}
	return nil
}
