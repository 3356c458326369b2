package cli

import (
	"errors"
	"log/slog"

	"github.com/dshills/codelens/internal/auth"
	"github.com/dshills/codelens/internal/config"
	"github.com/dshills/codelens/internal/metrics"
	"github.com/dshills/codelens/internal/redact"
	"github.com/dshills/codelens/internal/web"
	"github.com/dshills/codelens/internal/workbench"
	"github.com/spf13/cobra"
)

var flagAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the web interface",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return fail(cmd, err)
		}
		logger := LoggerFromContext(cmd.Context())

		m := metrics.New()
		bench, err := newWorkbench(cfg, m, logger)
		if err != nil {
			return fail(cmd, err)
		}
		e, err := web.NewServer(web.Options{
			Workbench: bench,
			Metrics:   m,
			Defaults:  web.Defaults{Repo: cfg.GitHub.DefaultRepo},
			Logger:    logger,
		})
		if err != nil {
			return fail(cmd, err)
		}

		logger.Info("starting web interface", "addr", cfg.Server.Addr, "model", cfg.Model,
			"extension", cfg.GitHub.Extension)
		if err := web.Run(cmd.Context(), e, cfg.Server.Addr, logger); err != nil {
			return fail(cmd, err)
		}
		return nil
	},
}

// newWorkbench wires the login gate, model engine, and per-token GitHub
// clients. It refuses to build without login credentials.
func newWorkbench(cfg config.Config, m *metrics.Metrics, logger *slog.Logger) (*workbench.Workbench, error) {
	gate := auth.NewGate(cfg.Auth)
	if !gate.Configured() {
		return nil, usageError(errors.New("no login configured: set auth.username and auth.password " +
			"(or CODELENS_USERNAME and CODELENS_PASSWORD)"))
	}
	engine, err := newEngine(cfg, logger)
	if err != nil {
		return nil, err
	}

	return workbench.New(workbench.Options{
		Gate: gate,
		Hosting: func(token string) (workbench.Hosting, error) {
			client, err := newHostingClient(cfg, token, logger)
			if err != nil {
				return nil, err
			}
			return client, nil
		},
		Suggester: engine,
		Extension: cfg.GitHub.Extension,
		Metrics:   m,
		Redactor:  redact.New(cfg.Auth.Password, cfg.GitHub.Token, cfg.Gemini.APIKey),
		Logger:    logger,
	}), nil
}

func init() {
	serveCmd.Flags().StringVar(&flagAddr, "addr", "", "Listen address (default :8501)")
	serveCmd.Flags().StringVar(&flagExtension, "extension", "", "Only offer changed files with this extension")
	serveCmd.Flags().StringVar(&flagRepo, "repo", "", "Repository pre-filled in the sidebar")
}
