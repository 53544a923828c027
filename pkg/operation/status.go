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
	"os"

	"github.com/rs/zerolog"
	"github.com/walteh/patchrc/pkg/rewrite"
	"github.com/walteh/patchrc/pkg/state"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Status reports whether the pass still has work to do. A pass is
// pending when it was never recorded, the recorded files drifted, or any
// rule still matches a target.
func (op *operator) Status(ctx context.Context) (bool, error) {
	logger := zerolog.Ctx(ctx)

	st, err := state.Load(ctx, op.opts.LockPath)
	if err != nil {
		return false, errors.Errorf("loading state: %w", err)
	}

	if st.FindPass(op.opts.Pass.Name) == nil {
		logger.Debug().Str("pass", op.opts.Pass.Name).Msg("pass never applied")
		return true, nil
	}

	consistent, err := st.IsConsistent(ctx)
	if err != nil {
		return false, errors.Errorf("checking consistency: %w", err)
	}
	if !consistent {
		logger.Debug().Msg("recorded files have drifted")
		return true, nil
	}

	// Live scan: a recorded pass can still be pending if targets were
	// regenerated with the old names
	rules := op.opts.Pass.CompiledRules()
	if err := op.engine.ValidateRules(rules); err != nil {
		return false, errors.Errorf("validating rules: %w", err)
	}

	targets, err := op.resolveTargets()
	if err != nil {
		return false, err
	}

	for _, target := range targets {
		content, err := os.ReadFile(target)
		if err != nil {
			return false, errors.Errorf("reading %s: %w", target, err)
		}
		result, err := op.engine.Apply(ctx, bytes.NewReader(content), rules)
		if err != nil {
			return false, errors.Errorf("scanning %s: %w", target, err)
		}
		if result.WasModified {
			logger.Debug().Str("target", target).Msg("rules still match")
			return true, nil
		}
	}

	return false, nil
}

// 🔎 Check reports legacy names still present in the targets
func (op *operator) Check(ctx context.Context) ([]FileReport, error) {
	targets, err := op.resolveTargets()
	if err != nil {
		return nil, err
	}

	var reports []FileReport
	for _, target := range targets {
		content, err := os.ReadFile(target)
		if err != nil {
			return nil, errors.Errorf("reading %s: %w", target, err)
		}
		remaining := rewrite.CountRemaining(content, op.opts.Pass.Forbidden)
		if len(remaining) > 0 {
			reports = append(reports, FileReport{Path: target, Remaining: remaining})
		}
	}
	return reports, nil
}
