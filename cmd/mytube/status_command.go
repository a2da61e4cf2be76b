package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/api"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show daemon status and dependency health",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			status, err := ctx.client().Status(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			colorize := shouldColorize(out)
			for _, line := range renderDaemonStatus(status, colorize) {
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
}

func renderDaemonStatus(status api.DaemonStatus, colorize bool) []string {
	var lines []string

	lines = append(lines, renderSectionHeader("Daemon", colorize)...)
	runningKind := statusError
	runningMsg := "not running"
	if status.Running {
		runningKind = statusOK
		runningMsg = fmt.Sprintf("pid %d", status.PID)
	}
	lines = append(lines,
		renderStatusLine("Daemon", runningKind, runningMsg, colorize),
		renderStatusLine("Active jobs", statusInfo, fmt.Sprintf("%d", status.ActiveJobs), colorize),
		renderStatusLine("Download dir", statusInfo, status.DownloadDir, colorize),
		renderStatusLine("History db", statusInfo, status.HistoryDBPath, colorize),
	)

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("History", colorize)...)
	lines = append(lines, renderStatusLine("Total", statusInfo, fmt.Sprintf("%d", status.History.Total), colorize))
	counts := []struct {
		label string
		value int
		kind  statusKind
	}{
		{"Running", status.History.Running, statusInfo},
		{"Completed", status.History.Completed, statusOK},
		{"Failed", status.History.Failed, statusError},
		{"Cancelled", status.History.Cancelled, statusWarn},
	}
	for _, count := range counts {
		kind := count.kind
		if count.value == 0 {
			kind = statusInfo
		}
		lines = append(lines, renderStatusLine(count.label, kind, fmt.Sprintf("%d", count.value), colorize))
	}

	lines = append(lines, "")
	lines = append(lines, renderSectionHeader("Dependencies", colorize)...)
	for _, dep := range status.Dependencies {
		kind := statusOK
		message := dep.Command
		if !dep.Available {
			kind = statusError
			if dep.Optional {
				kind = statusWarn
			}
			message = dep.Detail
		}
		lines = append(lines, renderStatusLine(dependencyLabel(dep), kind, message, colorize))
	}
	return lines
}

func dependencyLabel(dep api.DependencyStatus) string {
	label := strings.TrimSpace(dep.Name)
	if label == "" {
		label = "Dependency"
	}
	return label
}
