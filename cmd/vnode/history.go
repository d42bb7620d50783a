package main

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/vango-dev/vnode/internal/errors"
	"github.com/vango-dev/vnode/internal/history"
)

func historyCmd(flags *globalFlags) *cobra.Command {
	var (
		db       string
		limit    int
		document string
	)

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recorded publishes",
		Long: `List publishes recorded with render --history, newest first.

Examples:
  vnode history --db publishes.db
  vnode history --limit 5`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := flags.loadConfig(".")
			if err != nil {
				return err
			}
			if db == "" {
				db = cfg.Publish.History
			}
			if db == "" {
				return errors.New("E101").WithDetail("No history database is configured").
					WithSuggestion("Pass --db or set publish.history")
			}

			ledger, err := history.Open(db)
			if err != nil {
				return errors.New("E153").Wrap(err)
			}
			defer ledger.Close()

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			entries, err := ledger.List(ctx, history.Filter{Document: document, Limit: limit})
			if err != nil {
				return errors.New("E153").Wrap(err)
			}

			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				fmt.Fprintln(out, "No publishes recorded.")
				return nil
			}
			tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(tw, "TIME\tDOCUMENT\tTARGET\tENTRY\tBYTES\tSHA256")
			for _, e := range entries {
				fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.12s\n",
					e.CreatedAt.Local().Format(time.DateTime), e.Document, e.Target, e.Entry, e.Bytes, e.SHA256)
			}
			return tw.Flush()
		},
	}

	cmd.Flags().StringVar(&db, "db", "", "History database (default from config)")
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum entries to show (0 for all)")
	cmd.Flags().StringVar(&document, "document", "", "Only show publishes of this document (absolute path)")

	return cmd
}
