package cmd

import (
	"context"
	"fmt"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/tamarack-ui/tamarack/internal/source"
)

var importCmd = &cobra.Command{
	Use:   "import <database>",
	Short: "Copy entries of a source into a SQLite database",
	Long: heredoc.Doc(`
		Copy entries of a source into a SQLite database, creating it if needed.
		Entries already in the database are kept. Browse the result with
		the sqlite:<database> source.
	`),
	Example: heredoc.Doc(`
		# Snapshot a command's output
		tamarack import -s 'cmd:git log --oneline' history.db

		# Import the first thousand lines of a log
		tamarack import -s file:app.log --count 1000 app.db
	`),
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		count, _ := cmd.Flags().GetInt("count")

		ctx := cmd.Context()
		src, err := source.Open(ctx, sourceSpec(cmd, cfg), source.Options{WorkingDir: cfg.WorkingDir()})
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		db, err := source.OpenSQLite(ctx, args[0])
		if err != nil {
			return err
		}
		defer db.Close()

		read, inserted, err := runImport(ctx, src, db, count)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Read %d entries, imported %d into %s\n", read, inserted, db.Path())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
	importCmd.Flags().IntP("count", "n", -1, "Number of entries to import, -1 for all")
}

func runImport(ctx context.Context, src source.Source, db *source.SQLite, count int) (read, inserted int, err error) {
	pager := source.NewPager(src)
	err = pager.Drain(ctx, fetchPageSize, count, func(page []source.Entry) error {
		n, err := db.Insert(ctx, page...)
		if err != nil {
			return err
		}
		read += len(page)
		inserted += n
		return nil
	})
	if err != nil {
		return read, inserted, fmt.Errorf("failed to import entries: %w", err)
	}
	return read, inserted, nil
}
