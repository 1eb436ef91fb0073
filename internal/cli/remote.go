package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/video-stream/captions/internal/segment"
	"github.com/video-stream/captions/internal/summary"
	"github.com/video-stream/captions/internal/transcript"
	"github.com/video-stream/captions/internal/youtube"
)

// copyToClipboard is replaced in tests.
var copyToClipboard = clipboard.WriteAll

func newTranscriptCmd() *cobra.Command {
	var (
		lang     string
		segments bool
		format   string
	)
	cmd := &cobra.Command{
		Use:   "transcript URL",
		Short: "Fetch the captions of a video",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 2*time.Minute)
			defer cancel()

			if format != "txt" && format != "vtt" && format != "srt" {
				return fmt.Errorf("unknown format %q (valid: txt, vtt, srt)", format)
			}
			res, err := newTranscriptService(cfg, nil, logger).Fetch(ctx, transcript.Request{
				URL: args[0], Lang: lang, TextOnly: format == "txt",
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "vtt":
				fmt.Fprint(out, transcript.ToVTT(res.Chunks))
				return nil
			case "srt":
				fmt.Fprint(out, transcript.ToSRT(res.Chunks))
				return nil
			}
			if !segments {
				fmt.Fprintln(out, res.Content)
				return nil
			}
			for _, s := range segment.Segment(res.Content, res.Lang) {
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "preferred caption language")
	cmd.Flags().BoolVarP(&segments, "segments", "s", false, "print one sentence per line")
	cmd.Flags().StringVarP(&format, "format", "f", "txt", "output format: txt, vtt or srt")
	return cmd
}

func newSummarizeCmd() *cobra.Command {
	var (
		lang        string
		engine      string
		html        bool
		toClipboard bool
	)
	cmd := &cobra.Command{
		Use:   "summarize URL",
		Short: "Fetch the captions of a video and summarize them",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := loadConfig()
			if err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Minute)
			defer cancel()

			res, err := newTranscriptService(cfg, nil, logger).Fetch(ctx, transcript.Request{
				URL: args[0], Lang: lang, TextOnly: true,
			})
			if err != nil {
				return fmt.Errorf("fetch transcript: %w", err)
			}

			svc := newSummaryService(cfg, nil, logger)
			sum, err := svc.Summarize(ctx, summary.Input{
				Transcript: res.Content,
				Lang:       res.Lang,
				URL:        args[0],
				Engine:     engine,
			})
			if err != nil {
				return err
			}

			text := sum.Text
			if html {
				text, err = summary.RenderHTML(sum.Text, sum.VideoID, svc.Parser())
				if err != nil {
					return err
				}
			}

			out := cmd.OutOrStdout()
			if sum.VideoID != "" {
				fmt.Fprintln(out, youtube.WatchURL(sum.VideoID))
			}
			fmt.Fprintln(out, text)

			if toClipboard {
				if err := copyToClipboard(text); err != nil {
					return fmt.Errorf("copy to clipboard: %w", err)
				}
				logger.Info("summary copied to clipboard")
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "preferred caption language")
	cmd.Flags().StringVarP(&engine, "engine", "e", "", "summary engine (openai or gemini)")
	cmd.Flags().BoolVar(&html, "html", false, "render the summary as HTML")
	cmd.Flags().BoolVarP(&toClipboard, "copy", "c", false, "copy the summary to the clipboard")
	return cmd
}
