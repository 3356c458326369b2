package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dshills/codelens/internal/output"
	"github.com/dshills/codelens/internal/source"
	"github.com/spf13/cobra"
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <file>",
	Short: "Ask Gemini for optimization suggestions on a local file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(cmd, err)
		}
		logger := LoggerFromContext(cmd.Context())

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fail(cmd, usageError(fmt.Errorf("reading %s: %w", args[0], err)))
		}
		art, err := source.FromUpload(filepath.Base(args[0]), data)
		if err != nil {
			return fail(cmd, usageError(err))
		}

		engine, err := newEngine(cfg, logger)
		if err != nil {
			return fail(cmd, err)
		}
		res, err := engine.Optimize(cmd.Context(), art)
		if err != nil {
			return fail(cmd, err)
		}

		if err := output.WriteResult(cmd.OutOrStdout(), res, cfg.Format, flagOut); err != nil {
			return fail(cmd, err)
		}
		return nil
	},
}

func init() {
	addOutputFlags(optimizeCmd)
}
