package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewApplyCmd creates a new apply command
func NewApplyCmd(load opts.Loader) *cobra.Command {
	var (
		dryRun bool
		async  bool
	)

	cmd := &cobra.Command{
		Use:   "apply",
		Short: "Apply the rename pass to its target files",
		Long: `Apply runs the configured rename pass over its target files.
It will:
1. Expand the rename table and rules in order
2. Rewrite each target, reporting per-rule match counts
3. Fail if any forbidden legacy name remains
4. Record the outcome in the lock file`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "apply").Logger().WithContext(ctx)

			ro, err := load(ctx)
			if err != nil {
				return err
			}

			op, err := operation.New(operation.Options{
				Pass:       ro.Pass,
				BaseDir:    ro.BaseDir,
				ConfigHash: ro.ConfigHash,
				Logger:     ro.Logger,
				UserLogger: ro.UserLogger,
				DryRun:     dryRun,
				Async:      async,
			})
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			ro.Logger.Header(fmt.Sprintf("applying pass %s", ro.Pass.Name))

			summary, err := op.Apply(ctx)
			if err != nil {
				return errors.Errorf("applying pass: %w", err)
			}

			if dryRun {
				ro.UserLogger.LogPassChange(fmt.Sprintf(
					"Dry run: %d replacements would be made across %d files",
					summary.TotalCount, summary.Files))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "apply rules without writing files or state")
	cmd.Flags().BoolVar(&async, "async", false, "rewrite target files concurrently")

	return cmd
}
