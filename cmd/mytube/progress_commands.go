package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/api"
)

func newProgressCommand(ctx *commandContext) *cobra.Command {
	var watch bool

	cmd := &cobra.Command{
		Use:   "progress <job-id>",
		Short: "Show the latest progress snapshot for a job",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client := ctx.client()
			id := args[0]
			for {
				snap, err := client.Progress(cmd.Context(), id)
				if err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), renderProgressLine(snap))
				if !watch || terminalStatus(snap.Status) {
					return nil
				}
				select {
				case <-cmd.Context().Done():
					return cmd.Context().Err()
				case <-time.After(time.Second):
				}
			}
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "Poll until the job reaches a terminal state")
	return cmd
}

func newCancelCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancel <job-id>",
		Short: "Cancel a running download",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := ctx.client().Cancel(cmd.Context(), args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Cancellation requested for %s\n", args[0])
			return nil
		},
	}
}

func renderProgressLine(snap api.ProgressResponse) string {
	switch snap.Status {
	case "downloading":
		return fmt.Sprintf("%s  %.1f%%  %s  ETA %s", snap.Status, snap.Percent, snap.Speed, snap.ETA)
	case "error":
		return fmt.Sprintf("%s  %s", snap.Status, snap.Error)
	case "completed":
		return fmt.Sprintf("%s  %.1f%%", snap.Status, snap.Percent)
	default:
		return snap.Status
	}
}

func terminalStatus(status string) bool {
	switch status {
	case "completed", "error", "cancelled":
		return true
	}
	return false
}
