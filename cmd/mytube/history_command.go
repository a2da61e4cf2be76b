package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/api"
)

func newHistoryCommand(ctx *commandContext) *cobra.Command {
	var limit int
	var statuses []string

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent download jobs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := ctx.client().History(cmd.Context(), limit, statuses)
			if err != nil {
				return err
			}
			if len(resp.Items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No downloads recorded.")
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderHistoryTable(resp.Items))
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of rows")
	cmd.Flags().StringSliceVar(&statuses, "status", nil, "Filter by status (pending, running, completed, failed, cancelled)")
	return cmd
}

func renderHistoryTable(items []api.HistoryItem) string {
	headers := []string{"JOB", "KIND", "STATUS", "URL", "CREATED", "ERROR"}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		rows = append(rows, []string{
			shortJobID(item.JobID),
			item.Kind,
			statusLabel(item.Status),
			truncate(item.URL, 48),
			formatHistoryTime(item.CreatedAt),
			truncate(item.ErrorMessage, 40),
		})
	}
	return renderTable(headers, rows, nil)
}

func shortJobID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}

func truncate(value string, max int) string {
	if len(value) <= max {
		return value
	}
	if max <= 3 {
		return value[:max]
	}
	return value[:max-3] + "..."
}

func formatHistoryTime(value string) string {
	if value == "" {
		return ""
	}
	parsed, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return value
	}
	return parsed.Local().Format("2006-01-02 15:04")
}
