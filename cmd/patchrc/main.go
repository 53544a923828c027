package main

import (
	"context"
	"os"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/walteh/patchrc/cmd/patchrc/commands"
	"github.com/walteh/patchrc/pkg/log"
)

func main() {
	// Setup logging
	setupLogging()
	ctx := zlog.Logger.WithContext(context.Background())

	// Create user logger
	userLogger := log.NewUserLogger(ctx)

	// Create root command
	rootCmd := &cobra.Command{
		Use:   "patchrc",
		Short: "A tool for applying rename passes to generated source files",
		Long: `patchrc applies ordered rename passes (tool-rename tables plus literal
and regex rules) to target files, verifies no legacy names remain, and
tracks applied passes in a lock file.`,
	}

	// Add shared flags
	addRootFlags(rootCmd)

	// Add commands
	rootCmd.AddCommand(
		commands.NewApplyCmd(newRootOpts),
		commands.NewCheckCmd(newRootOpts),
		commands.NewStatusCmd(newRootOpts),
	)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		userLogger.LogValidation(false, "Command failed", err)
		os.Exit(1)
	}
}
