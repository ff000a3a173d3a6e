package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/tamarack-ui/tamarack/internal/config"
)

var dirsCmd = &cobra.Command{
	Use:   "dirs",
	Short: "Print directories used by tamarack",
	Long: `Print the directories where tamarack stores its configuration and data files.
This includes the global configuration directory and data directory.`,
	Example: heredoc.Doc(`
		# Print all directories
		tamarack dirs

		# Print only the config directory
		tamarack dirs --config

		# Print only the data directory
		tamarack dirs --data
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		configOnly, _ := cmd.Flags().GetBool("config-dir")
		dataOnly, _ := cmd.Flags().GetBool("data")

		if configOnly && dataOnly {
			return fmt.Errorf("cannot specify both --config-dir and --data flags")
		}

		configDir := filepath.Dir(config.GlobalConfig())
		dataDir := config.GlobalDataDir()
		out := cmd.OutOrStdout()

		switch {
		case configOnly:
			fmt.Fprintln(out, configDir)
		case dataOnly:
			fmt.Fprintln(out, dataDir)
		default:
			fmt.Fprintf(out, "Config directory: %s\n", configDir)
			fmt.Fprintf(out, "Data directory:   %s\n", dataDir)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(dirsCmd)
	dirsCmd.Flags().Bool("config-dir", false, "Print only the config directory")
	dirsCmd.Flags().Bool("data", false, "Print only the data directory")
}
