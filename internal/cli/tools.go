package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/video-stream/captions/internal/segment"
	"github.com/video-stream/captions/internal/timestamp"
	"github.com/video-stream/captions/internal/youtube"
)

// textArg joins args, or reads stdin when there are none.
func textArg(cmd *cobra.Command, args []string) (string, error) {
	if len(args) > 0 {
		return strings.Join(args, " "), nil
	}
	data, err := io.ReadAll(cmd.InOrStdin())
	if err != nil {
		return "", fmt.Errorf("read stdin: %w", err)
	}
	return string(data), nil
}

func newSegmentCmd() *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "segment [text...]",
		Short: "Split caption text into sentences, one per line",
		Long:  "Split caption text into sentences. Reads stdin when no text is given.",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := textArg(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, s := range segment.Segment(text, lang) {
				fmt.Fprintln(out, s)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&lang, "lang", "l", "en", "caption language code")
	return cmd
}

func newVideoIDCmd() *cobra.Command {
	var watch bool
	cmd := &cobra.Command{
		Use:   "videoid URL...",
		Short: "Print the video ID of each YouTube URL",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			var missing []string
			for _, u := range args {
				id, ok := youtube.ExtractVideoID(u)
				if !ok {
					missing = append(missing, u)
					continue
				}
				if watch {
					fmt.Fprintln(out, youtube.WatchURL(id))
				} else {
					fmt.Fprintln(out, id)
				}
			}
			if len(missing) > 0 {
				return fmt.Errorf("no video ID in: %s", strings.Join(missing, ", "))
			}
			return nil
		},
	}
	cmd.Flags().BoolVarP(&watch, "watch-url", "w", false, "print the canonical watch URL instead")
	return cmd
}

func newTimestampCmd() *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "timestamp TIMESTAMP...",
		Short: "Convert MM:SS or HH:MM:SS to seconds",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p := timestamp.Parser{Strict: strict}
			out := cmd.OutOrStdout()
			for _, ts := range args {
				secs, err := p.Parse(ts)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "%s\t%d\n", ts, secs)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "reject malformed timestamps instead of reading them as 0")
	return cmd
}
