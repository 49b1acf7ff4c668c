package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/encypherai/c2patext/engine"
)

func newExtractCmd() *cobra.Command {
	var inPath string

	cmd := &cobra.Command{
		Use:               "extract",
		Short:             "Print the payload embedded in a text file, without verifying it",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			inBytes, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("reading input text: %w", err)
			}

			logger := slogcontext.FromCtx(cmd.Context()).With(slog.String("realm", "extract"))

			extracted, ok := engine.Extract(string(inBytes))
			if !ok {
				logger.Log(cmd.Context(), slog.LevelInfo, "no payload found", slog.String("in", inPath))
				fmt.Fprintln(cmd.OutOrStdout(), "no payload found")
				return nil
			}
			logger.Log(cmd.Context(), slog.LevelDebug, "extracted payload", slog.String("format", string(extracted.Format)))

			out, err := json.MarshalIndent(extracted, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding extracted payload: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "path to the text file to inspect (required)")
	_ = cmd.MarkFlagRequired("in")

	return cmd
}
