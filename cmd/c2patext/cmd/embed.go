package cmd

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	slogcontext "github.com/veqryn/slog-context"

	"github.com/encypherai/c2patext/cmd/c2patext/internal/keyfile"
	"github.com/encypherai/c2patext/engine"
	"github.com/encypherai/c2patext/legacysite"
	"github.com/encypherai/c2patext/model"
)

// c2paManifestExtra is the optional JSON shape for --manifest-extra,
// carrying the c2pa-only fields engine.EmbedOptions exposes.
type c2paManifestExtra struct {
	ClaimGenerator string         `json:"claim_generator"`
	Context        string         `json:"@context"`
	Actions        []model.Action `json:"actions"`
	AIAssertion    map[string]any `json:"ai_assertion"`
	CustomClaims   map[string]any `json:"custom_claims"`
}

func newEmbedCmd() *cobra.Command {
	var (
		inPath, outPath   string
		privateKeyPath    string
		signerID          string
		format            string
		payloadPath       string
		manifestExtraPath string
		hardBinding       bool
		targetName        string
		distribute        bool
		omitKeys          []string
	)

	cmd := &cobra.Command{
		Use:               "embed",
		Short:             "Embed a signed provenance payload into a text file",
		Args:              cobra.NoArgs,
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
		RunE: func(cmd *cobra.Command, args []string) error {
			priv, err := keyfile.LoadPrivate(privateKeyPath)
			if err != nil {
				return err
			}

			inBytes, err := os.ReadFile(inPath)
			if err != nil {
				return fmt.Errorf("reading input text: %w", err)
			}

			fmtTag := model.Format(format)
			logger := slogcontext.FromCtx(cmd.Context()).With(slog.String("realm", "embed"))
			logger.Log(cmd.Context(), slog.LevelDebug, "embedding payload", slog.String("format", format), slog.String("in", inPath))

			opts := engine.EmbedOptions{
				OmitKeys: omitKeys,
			}
			opts.AddHardBinding = &hardBinding

			var payload model.Payload
			switch fmtTag {
			case model.FormatC2PA:
				extra, err := readManifestExtra(manifestExtraPath)
				if err != nil {
					return err
				}
				opts.ClaimGenerator = extra.ClaimGenerator
				opts.Context = extra.Context
				opts.Actions = extra.Actions
				opts.AIAssertion = extra.AIAssertion
				opts.CustomClaims = extra.CustomClaims
			case model.FormatBasic:
				target, err := legacysite.ParseTarget(targetName)
				if err != nil {
					return err
				}
				opts.Target = target
				opts.DistributeAcrossTargets = distribute
				var basic model.Basic
				if err := readJSONFile(payloadPath, &basic); err != nil {
					return err
				}
				payload = basic
			case model.FormatManifestJSON, model.FormatManifestCBOR:
				target, err := legacysite.ParseTarget(targetName)
				if err != nil {
					return err
				}
				opts.Target = target
				opts.DistributeAcrossTargets = distribute
				var manifest model.LegacyManifest
				if err := readJSONFile(payloadPath, &manifest); err != nil {
					return err
				}
				payload = manifest
			default:
				return fmt.Errorf("unknown --format %q", format)
			}

			out, err := engine.Embed(string(inBytes), fmtTag, payload, priv, signerID, opts)
			if err != nil {
				return err
			}

			if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
				return fmt.Errorf("writing output text: %w", err)
			}
			logger.Log(cmd.Context(), slog.LevelInfo, "embed complete", slog.String("out", outPath), slog.Int("bytes", len(out)))
			fmt.Fprintf(cmd.OutOrStdout(), "embedded %s payload, wrote %s\n", format, outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&inPath, "in", "", "path to the input text file (required)")
	cmd.Flags().StringVar(&outPath, "out", "", "path to write the text with the embedded payload (required)")
	cmd.Flags().StringVar(&privateKeyPath, "private-key", "", "path to the raw Ed25519 private key (required)")
	cmd.Flags().StringVar(&signerID, "signer-id", "", "signer id recorded in the envelope (required)")
	cmd.Flags().StringVar(&format, "format", string(model.FormatC2PA), "payload format: c2pa, basic, manifest-json, manifest-cbor")
	cmd.Flags().StringVar(&payloadPath, "payload", "", "path to a JSON file with payload fields (basic/manifest-json/manifest-cbor)")
	cmd.Flags().StringVar(&manifestExtraPath, "manifest-extra", "", "path to a JSON file with extra c2pa manifest fields (claim_generator, actions, ai_assertion, custom_claims)")
	cmd.Flags().BoolVar(&hardBinding, "hard-binding", true, "add the c2pa.hash.data.v1 hard binding (c2pa format only)")
	cmd.Flags().StringVar(&targetName, "target", legacysite.Whitespace.String(), "legacy site-selection target")
	cmd.Flags().BoolVar(&distribute, "distribute", false, "distribute the legacy payload across multiple sites")
	cmd.Flags().StringSliceVar(&omitKeys, "omit-key", nil, "payload keys to omit before signing, top-level or nested in custom_metadata (basic format only)")

	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	_ = cmd.MarkFlagRequired("private-key")
	_ = cmd.MarkFlagRequired("signer-id")

	return cmd
}

func readManifestExtra(path string) (c2paManifestExtra, error) {
	if path == "" {
		return c2paManifestExtra{}, nil
	}
	var extra c2paManifestExtra
	if err := readJSONFile(path, &extra); err != nil {
		return c2paManifestExtra{}, err
	}
	return extra, nil
}

func readJSONFile(path string, v any) error {
	if path == "" {
		return nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading %q: %w", path, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("parsing %q: %w", path, err)
	}
	return nil
}
