package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Jayasakthi-07/modern-youtube-downloader/internal/downloads"
)

func newDownloadCommand(ctx *commandContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "download",
		Short: "Download a video, audio track, or playlist",
	}
	cmd.AddCommand(newDownloadVideoCommand(ctx))
	cmd.AddCommand(newDownloadAudioCommand(ctx))
	cmd.AddCommand(newDownloadPlaylistCommand(ctx))
	return cmd
}

func newDownloadVideoCommand(ctx *commandContext) *cobra.Command {
	var quality string
	var format string
	var startTime string
	var endTime string

	cmd := &cobra.Command{
		Use:   "video <url>",
		Short: "Download a single video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := downloads.VideoRequest{
				URL:       args[0],
				Quality:   quality,
				Format:    format,
				StartTime: startTime,
				EndTime:   endTime,
			}
			resp, err := ctx.client().StartVideo(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Download complete\n  id:  %s\n  url: %s%s\n", resp.ID, ctx.serverURL(), resp.URL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&quality, "quality", "q", "1080", "Maximum vertical resolution (144-2160)")
	cmd.Flags().StringVarP(&format, "format", "f", "mp4", "Container format (mp4, webm, mkv)")
	cmd.Flags().StringVar(&startTime, "start", "", "Clip start time (seconds or HH:MM:SS)")
	cmd.Flags().StringVar(&endTime, "end", "", "Clip end time (seconds or HH:MM:SS)")
	return cmd
}

func newDownloadAudioCommand(ctx *commandContext) *cobra.Command {
	var format string
	var quality string

	cmd := &cobra.Command{
		Use:   "audio <url>",
		Short: "Download the audio track only",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := downloads.AudioRequest{
				URL:     args[0],
				Format:  format,
				Quality: quality,
			}
			resp, err := ctx.client().StartAudio(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Download complete\n  id:  %s\n  url: %s%s\n", resp.ID, ctx.serverURL(), resp.URL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "mp3", "Audio format (mp3, m4a, aac, opus, flac, wav)")
	cmd.Flags().StringVarP(&quality, "quality", "q", "192K", "Audio bitrate")
	return cmd
}

func newDownloadPlaylistCommand(ctx *commandContext) *cobra.Command {
	var quality string
	var format string
	var audioOnly bool

	cmd := &cobra.Command{
		Use:   "playlist <url>",
		Short: "Download every item of a playlist",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := downloads.PlaylistRequest{
				URL:       args[0],
				Quality:   quality,
				Format:    format,
				AudioOnly: audioOnly,
			}
			resp, err := ctx.client().StartPlaylist(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Playlist download complete\n  id:  %s\n  url: %s%s\n", resp.ID, ctx.serverURL(), resp.URL)
			return nil
		},
	}
	cmd.Flags().StringVarP(&quality, "quality", "q", "1080", "Maximum vertical resolution (144-2160)")
	cmd.Flags().StringVarP(&format, "format", "f", "mp4", "Container or audio format")
	cmd.Flags().BoolVar(&audioOnly, "audio-only", false, "Extract audio tracks instead of video")
	return cmd
}
