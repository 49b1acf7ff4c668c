package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/encypherai/c2patext/c2paconfig"
	"github.com/encypherai/c2patext/cmd/c2patext/internal/keyfile"
	"github.com/encypherai/c2patext/engine"
	"github.com/encypherai/c2patext/keyresolver"
)

func newVerifyCmd() *cobra.Command {
	var (
		inPath             string
		publicKeyPath      string
		signerID           string
		requireHardBinding bool
		acceptedContexts   []string
	)

	cmd := &cobra.Command{
		Use:               "verify",
		Short:             "Verify the signed payload embedded in a text file",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			pub, err := keyfile.LoadPublic(publicKeyPath)
			if err != nil {
				return err
			}

			inBytes, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("reading input text: %w", err)
			}

			resolver := keyresolver.NewInMemory()
			resolver.Register(signerID, keyresolver.VerificationKey{PublicKey: pub})

			opts := engine.VerifyOptions{
				RequireHardBinding:     &requireHardBinding,
				ReturnPayloadOnFailure: true,
			}
			if len(acceptedContexts) > 0 {
				accepted := make(map[string]bool, len(acceptedContexts))
				for _, c := range acceptedContexts {
					accepted[c] = true
				}
				opts.Config = c2paconfig.Config{AcceptedContexts: accepted}
			}

			logger := slogcontext.FromCtx(cmd.Context()).With(slog.String("realm", "verify"))
			logger.Log(cmd.Context(), slog.LevelDebug, "verifying payload", slog.String("in", inPath), slog.String("signer_id", signerID))

			valid, gotSignerID, extracted, err := engine.Verify(cmd.Context(), string(inBytes), resolver, opts)
			if err != nil {
				return err
			}

			result := map[string]any{
				"valid":     valid,
				"signer_id": gotSignerID,
			}
			if extracted != nil {
				result["extracted"] = extracted
			}
			out, err := json.MarshalIndent(result, "", "  ")
			if err != nil {
				return fmt.Errorf("encoding verification result: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))

			if !valid {
				logger.Log(cmd.Context(), slog.LevelInfo, "verification failed", slog.String("signer_id", gotSignerID))
				return fmt.Errorf("verification failed")
			}
			logger.Log(cmd.Context(), slog.LevelInfo, "verification succeeded", slog.String("signer_id", gotSignerID))
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "path to the text file to verify (required)")
	cmd.Flags().StringVar(&publicKeyPath, "public-key", "", "path to the raw Ed25519 public key (required)")
	cmd.Flags().StringVar(&signerID, "signer-id", "", "signer id to resolve the public key against (required)")
	cmd.Flags().BoolVar(&requireHardBinding, "require-hard-binding", true, "require and check the c2pa hard binding")
	cmd.Flags().StringSliceVar(&acceptedContexts, "accepted-context", nil, "override the allowlisted @context URLs accepted at verification (repeatable); defaults to the built-in C2PA v2.2/v2.3 URLs")

	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("public-key")
	_ = cmd.MarkFlagRequired("signer-id")

	return cmd
}
