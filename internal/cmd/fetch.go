package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/tamarack-ui/tamarack/internal/source"
	"gopkg.in/yaml.v3"
)

const fetchPageSize = 100

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Print entries of a source",
	Long:  `Read entries from a source without the interface and print them.`,
	Example: heredoc.Doc(`
		# Print the first 20 sample entries
		tamarack fetch --count 20

		# Print a command's output as JSON
		tamarack fetch -s 'cmd:ls -1' --format json

		# Skip the first 100 lines of a log
		tamarack fetch -s file:app.log --offset 100 --count 10
	`),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := setup(cmd)
		if err != nil {
			return err
		}
		opts := fetchOptions{}
		opts.count, _ = cmd.Flags().GetInt("count")
		opts.offset, _ = cmd.Flags().GetInt("offset")
		opts.format, _ = cmd.Flags().GetString("format")

		src, err := source.Open(cmd.Context(), sourceSpec(cmd, cfg), source.Options{WorkingDir: cfg.WorkingDir()})
		if err != nil {
			return fmt.Errorf("failed to open source: %w", err)
		}
		defer src.Close()

		return runFetch(cmd.Context(), cmd.OutOrStdout(), src, opts)
	},
}

func init() {
	rootCmd.AddCommand(fetchCmd)
	fetchCmd.Flags().IntP("count", "n", 50, "Number of entries to print, -1 for all")
	fetchCmd.Flags().Int("offset", 0, "Number of entries to skip")
	fetchCmd.Flags().StringP("format", "f", "text", "Output format (text, json, yaml)")
}

type fetchOptions struct {
	offset int
	count  int
	format string
}

func runFetch(ctx context.Context, w io.Writer, src source.Source, opts fetchOptions) error {
	format := strings.ToLower(opts.format)
	switch format {
	case "text", "json", "yaml":
	default:
		return fmt.Errorf("unsupported format: %s", opts.format)
	}

	pager := source.NewPager(src)
	if opts.offset > 0 {
		if err := pager.Drain(ctx, fetchPageSize, opts.offset, func([]source.Entry) error { return nil }); err != nil {
			return fmt.Errorf("failed to skip entries: %w", err)
		}
	}

	next := pager.Offset()
	var entries []source.Entry
	err := pager.Drain(ctx, fetchPageSize, opts.count, func(page []source.Entry) error {
		if format == "text" {
			defer func() { next += len(page) }()
			return formatText(w, next, page)
		}
		entries = append(entries, page...)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to fetch entries: %w", err)
	}

	switch format {
	case "json":
		return formatJSON(w, entries)
	case "yaml":
		return formatYAML(w, entries)
	}
	return nil
}

func formatText(w io.Writer, offset int, entries []source.Entry) error {
	for i, e := range entries {
		if _, err := fmt.Fprintf(w, "%d\t%s\n", offset+i+1, e.Title); err != nil {
			return err
		}
		if e.Body == "" {
			continue
		}
		for line := range strings.SplitSeq(strings.TrimRight(e.Body, "\n"), "\n") {
			if _, err := fmt.Fprintf(w, "\t%s\n", line); err != nil {
				return err
			}
		}
	}
	return nil
}

func formatJSON(w io.Writer, entries []source.Entry) error {
	if entries == nil {
		entries = []source.Entry{}
	}
	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}

func formatYAML(w io.Writer, entries []source.Entry) error {
	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal YAML: %w", err)
	}
	_, err = fmt.Fprint(w, string(data))
	return err
}
