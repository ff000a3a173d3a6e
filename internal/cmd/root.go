package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/MakeNowJust/heredoc"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/tamarack-ui/tamarack/internal/config"
	"github.com/tamarack-ui/tamarack/internal/log"
	"github.com/tamarack-ui/tamarack/internal/source"
	"github.com/tamarack-ui/tamarack/internal/tui"
	"github.com/tamarack-ui/tamarack/internal/tui/util"
	"github.com/tamarack-ui/tamarack/internal/update"
	"github.com/tamarack-ui/tamarack/internal/version"
)

func init() {
	rootCmd.PersistentFlags().StringP("cwd", "c", "", "Current working directory")
	rootCmd.PersistentFlags().String("config", "", "Config file, merged over the global and project ones")
	rootCmd.PersistentFlags().BoolP("debug", "d", false, "Debug")
	rootCmd.PersistentFlags().StringP("source", "s", "", "Source to read entries from")

	rootCmd.Flags().BoolP("help", "h", false, "Help")
	rootCmd.Flags().Bool("no-watch", false, "Do not apply config changes while running")
}

var rootCmd = &cobra.Command{
	Use:   "tamarack",
	Short: "Scroll through endless feeds in your terminal",
	Long: heredoc.Doc(`
		Tamarack is an infinite scroller for the terminal. Entries are pulled
		from a source in pages as you scroll, so feeds of any length open
		instantly and stay smooth.

		Sources:
		  generated[:<delay>]   deterministic sample entries
		  file:<glob>           one entry per line of the matching files
		  follow:<path>         one entry per line appended to a file
		  cmd:<command>         one entry per line of a command's output
		  http:<url>            a JSON endpoint paged with offset and limit
		  sqlite:<path>         a database written by "tamarack import"
	`),
	Example: heredoc.Doc(`
		# Browse sample data
		tamarack

		# Browse sample data that takes a while to load
		tamarack -s generated:500ms

		# Browse every log file of a project
		tamarack -s 'file:logs/**/*.log'

		# Watch a file grow
		tamarack -s follow:/var/log/system.log

		# Browse the output of a command
		tamarack -s 'cmd:git log --oneline'
	`),
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		noWatch, _ := cmd.Flags().GetBool("no-watch")

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()

		spec := sourceSpec(cmd, cfg)
		src, err := source.Open(ctx, spec, source.Options{WorkingDir: cfg.WorkingDir()})
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		model := tui.New(ctx, cfg, src, spec, tui.WithConfigWatch(!noWatch))
		program := tea.NewProgram(
			model,
			tea.WithAltScreen(),
			tea.WithContext(ctx),
			tea.WithMouseCellMotion(),
		)
		go notifyUpdate(ctx, program)

		defer log.RecoverPanic("main", cancel)
		if _, err := program.Run(); err != nil {
			slog.Error("TUI run error", "error", err)
			return fmt.Errorf("TUI error: %v", err)
		}
		return nil
	},
}

func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(version.Version),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// setup loads the configuration for the flags of cmd and starts logging.
func setup(cmd *cobra.Command) (*config.Config, error) {
	debug, _ := cmd.Flags().GetBool("debug")
	configFile, _ := cmd.Flags().GetString("config")

	cwd, err := ResolveCwd(cmd)
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cwd, configFile, debug)
	if err != nil {
		return nil, err
	}
	log.Setup(cfg.LogFile(), cfg.Options.Debug)
	slog.Debug("Loaded config", "cwd", cwd, "source", cfg.Source)
	return cfg, nil
}

// sourceSpec returns the --source flag, or the configured source.
func sourceSpec(cmd *cobra.Command, cfg *config.Config) string {
	if spec, _ := cmd.Flags().GetString("source"); spec != "" {
		return spec
	}
	return cfg.Source
}

// ResolveCwd returns the --cwd flag, changing into it, or the current
// directory.
func ResolveCwd(cmd *cobra.Command) (string, error) {
	cwd, _ := cmd.Flags().GetString("cwd")
	if cwd != "" {
		if err := os.Chdir(cwd); err != nil {
			return "", fmt.Errorf("failed to change directory: %v", err)
		}
		return cwd, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %v", err)
	}
	return cwd, nil
}

func notifyUpdate(ctx context.Context, program *tea.Program) {
	for info := range update.DefaultChecker.CheckAsync(ctx, config.GlobalDataDir()) {
		program.Send(util.InfoMsg{
			Type: util.InfoTypeInfo,
			Msg:  fmt.Sprintf("tamarack %s is available", info.LatestVersion),
			TTL:  10 * time.Second,
		})
	}
}
