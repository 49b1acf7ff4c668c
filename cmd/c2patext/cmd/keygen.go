package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/encypherai/c2patext/cmd/c2patext/internal/keyfile"
)

func newKeygenCmd() *cobra.Command {
	var privatePath, publicPath string

	cmd := &cobra.Command{
		Use:               "keygen",
		Short:             "Generate a fresh Ed25519 signing keypair",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, _, err := keyfile.Generate(privatePath, publicPath); err != nil {
				return err
			}
			slogcontext.FromCtx(cmd.Context()).With(slog.String("realm", "keygen")).Log(cmd.Context(), slog.LevelInfo,
				"generated signing keypair", slog.String("private_key", privatePath), slog.String("public_key", publicPath))
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&privatePath, "private-key-out", "c2patext.key", "path to write the raw Ed25519 private key")
	cmd.Flags().StringVar(&publicPath, "public-key-out", "c2patext.pub", "path to write the raw Ed25519 public key")

	return cmd
}
