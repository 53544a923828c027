package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/opts"
	"github.com/walteh/patchrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// NewCheckCmd creates a new check command
func NewCheckCmd(load opts.Loader) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check",
		Short: "Report forbidden legacy names still present in targets",
		Long: `Check scans the target files for the pass's forbidden patterns and
reports every remaining occurrence with surrounding context. It exits
non-zero when any legacy name is found.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			ctx = zerolog.Ctx(ctx).With().Str("command", "check").Logger().WithContext(ctx)

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

			reports, err := op.Check(ctx)
			if err != nil {
				return errors.Errorf("checking targets: %w", err)
			}

			if len(reports) == 0 {
				ro.UserLogger.LogValidation(true, "No legacy names remain", nil)
				return nil
			}

			total := 0
			for _, report := range reports {
				for _, r := range report.Remaining {
					total += r.Count
					ro.Logger.Warning(fmt.Sprintf("%s: %q x%d ...%s...",
						report.Path, r.Pattern, r.Count, r.Context))
				}
			}
			return errors.Errorf("%d legacy occurrences remain in %d files", total, len(reports))
		},
	}

	return cmd
}
