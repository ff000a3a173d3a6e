package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/tamarack-ui/tamarack/internal/config"
	"github.com/tamarack-ui/tamarack/internal/update"
)

func init() {
	rootCmd.AddCommand(updateCmd)
}

var updateCmd = &cobra.Command{
	Use:   "check-update",
	Short: "Check for updates",
	Long:  `Check if a new version of tamarack is available.`,
	Example: heredoc.Doc(`
		# Check for updates
		tamarack check-update
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
		defer cancel()

		info, err := update.CheckForUpdate(ctx)
		if err != nil {
			return fmt.Errorf("failed to check for updates: %w", err)
		}
		if err := update.SaveLastCheck(config.GlobalDataDir(), info); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Failed to save update check: %v\n", err)
		}

		out := cmd.OutOrStdout()
		if !info.Available {
			fmt.Fprintf(out, "You are running the latest version: %s\n", info.CurrentVersion)
			return nil
		}

		fmt.Fprintf(out, "\nA new version of tamarack is available!\n\n")
		fmt.Fprintf(out, "Current version: %s\n", info.CurrentVersion)
		fmt.Fprintf(out, "Latest version:  %s\n\n", info.LatestVersion)
		fmt.Fprintf(out, "Visit %s to download the latest version.\n", info.ReleaseURL)
		return nil
	},
}
