package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/dshills/codelens/internal/providers"
	"github.com/spf13/cobra"
)

var flagAll bool

var modelsCmd = &cobra.Command{
	Use:   "models",
	Short: "Gemini model listing and checks",
}

var modelsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the models available to the configured API key",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(cmd, err)
		}
		g, err := providers.NewGemini(cfg.Model, providers.Options{
			APIKey:  cfg.Gemini.APIKey,
			BaseURL: cfg.Gemini.BaseURL,
		})
		if err != nil {
			return fail(cmd, err)
		}

		models, err := g.ListModels(cmd.Context())
		if err != nil {
			return fail(cmd, err)
		}
		if !flagAll {
			kept := models[:0]
			for _, m := range models {
				if m.SupportsGenerate() {
					kept = append(kept, m)
				}
			}
			models = kept
		}

		out := cmd.OutOrStdout()
		if cfg.Format == "json" {
			enc := json.NewEncoder(out)
			enc.SetIndent("", "  ")
			if err := enc.Encode(models); err != nil {
				return fail(cmd, err)
			}
			return nil
		}
		for _, m := range models {
			name := strings.TrimPrefix(m.Name, "models/")
			marker := " "
			if name == g.Model() {
				marker = "*"
			}
			fmt.Fprintf(out, "%s %s", marker, name)
			if m.DisplayName != "" {
				fmt.Fprintf(out, "  (%s)", m.DisplayName)
			}
			fmt.Fprintln(out)
		}
		return nil
	},
}

var modelsDoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Validate the Gemini key and model",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(cmd, err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "Checking %s (%s)...\n", cfg.Provider, cfg.Model)

		p, err := newGenerator(cfg)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %v\n", err)
			exitCode = ExitAuthError
			return nil
		}

		ctx, cancel := context.WithTimeout(cmd.Context(), 30*time.Second)
		defer cancel()

		_, err = p.Generate(ctx, providers.Request{
			SystemPrompt: "Respond with exactly: ok",
			Prompt:       "ping",
			MaxTokens:    10,
		})
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "FAIL: %v\n", err)
			exitCode = exitCodeFor(err)
			return nil
		}

		fmt.Fprintf(cmd.OutOrStdout(), "OK: %s is configured and responding\n", cfg.Model)
		return nil
	},
}

func init() {
	modelsCmd.AddCommand(modelsListCmd)
	modelsCmd.AddCommand(modelsDoctorCmd)
	modelsListCmd.Flags().BoolVar(&flagAll, "all", false, "Include models that cannot generate content")
	modelsListCmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json)")
}
