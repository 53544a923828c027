package commands

import (
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewStatusCmd creates a new status command
func NewStatusCmd(load opts.Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Check if the pass still has work to do",
		Long: `Status checks whether the rename pass needs to be applied.
It will:
1. Load the lock file
2. Verify the recorded target files have not drifted
3. Scan the targets for rules that would still match
4. Report if the pass is pending`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "status").Logger().WithContext(ctx)

			ro, err := load(ctx)
			if err != nil {
				return err
			}

			op, err := operation.New(operation.Options{
				Pass:       ro.Pass,
				BaseDir:    ro.BaseDir,
				ConfigHash: ro.ConfigHash,
				Logger:     ro.Logger,
			})
			if err != nil {
				return errors.Errorf("creating operator: %w", err)
			}

			pending, err := op.Status(ctx)
			if err != nil {
				return errors.Errorf("checking status: %w", err)
			}

			if pending {
				ro.UserLogger.LogPassChange("Pass needs to be applied")
			} else {
				ro.UserLogger.LogPassChange("Pass is up to date")
			}
			return nil
		},
	}

	return cmd
}
