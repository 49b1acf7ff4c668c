package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/encypherai/c2patext/cmd/c2patext/internal/log"
)

// RootCmd represents the base command when called without any subcommands.
var RootCmd = &cobra.Command{
	Use:   "c2patext [sub-command]",
	Short: "Embed, extract, and verify provenance manifests in plain text",
	Long: `c2patext embeds a cryptographically signed provenance manifest into text
using invisible Unicode variation selectors, and extracts or verifies it
back out.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := log.NewLogger(cmd)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		cmd.SetContext(slogcontext.NewCtx(cmd.Context(), logger))
		return nil
	},
	DisableAutoGenTag: true,
	SilenceUsage:      true,
	SilenceErrors:     true,
}

// Execute adds all child commands to RootCmd and runs it. Called once from
// main.main.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	log.RegisterFlags(RootCmd.PersistentFlags())

	RootCmd.AddCommand(newKeygenCmd())
	RootCmd.AddCommand(newEmbedCmd())
	RootCmd.AddCommand(newExtractCmd())
	RootCmd.AddCommand(newVerifyCmd())
}
