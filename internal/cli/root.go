package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/dshills/codelens/internal/config"
	"github.com/dshills/codelens/internal/github"
	"github.com/dshills/codelens/internal/logging"
	"github.com/dshills/codelens/internal/providers"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

// Exit codes
const (
	ExitSuccess      = 0
	ExitUsageError   = 2
	ExitAuthError    = 3
	ExitRuntimeError = 4
)

// Global flags
var (
	flagLogLevel string
	flagModel    string
	flagFormat   string
	flagOut      string
)

type loggerKey struct{}

var rootCmd = &cobra.Command{
	Use:   "codelens",
	Short: "Gemini code suggestions for uploads and pull requests",
	Long: "Codelens sends Python code, uploaded or taken from a GitHub pull request, to Gemini and " +
		"shows the optimization or review suggestions in a web page or on the terminal.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger := logging.NewLogger(cmd.ErrOrStderr(), logging.ParseLevel(resolveLogLevel()))
		cmd.SetContext(context.WithValue(cmd.Context(), loggerKey{}, logger))
		return nil
	},
}

// Run executes the root command and returns an exit code.
func Run() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	exitCode = ExitSuccess
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// Cobra already prints the error
		return ExitUsageError
	}

	return exitCode
}

// exitCode is set by command handlers to control the process exit code.
var exitCode = ExitSuccess

// LoggerFromContext returns the logger stored by the root command, or an
// info-level stderr logger when none is present.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return logging.NewLogger(os.Stderr, logging.LevelInfo)
}

// resolveLogLevel prefers --log-level, then the configured level. Config
// errors are reported later by the command that loads it.
func resolveLogLevel() string {
	if flagLogLevel != "" {
		return flagLogLevel
	}
	cfg, err := config.Load(nil)
	if err != nil {
		return ""
	}
	return cfg.LogLevel
}

func buildOverrides() map[string]string {
	m := make(map[string]string)
	if flagModel != "" {
		m["model"] = flagModel
	}
	if flagFormat != "" {
		m["format"] = flagFormat
	}
	if flagLogLevel != "" {
		m["logLevel"] = flagLogLevel
	}
	if flagAddr != "" {
		m["server.addr"] = flagAddr
	}
	if flagExtension != "" {
		m["github.extension"] = flagExtension
	}
	if flagRepo != "" {
		m["github.defaultRepo"] = flagRepo
	}
	return m
}

// loadConfig merges flag overrides into the effective config and validates it.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(buildOverrides())
	if err != nil {
		return config.Config{}, usageError(err)
	}
	if err := cfg.Validate(); err != nil {
		return config.Config{}, usageError(fmt.Errorf("invalid configuration: %w", err))
	}
	return cfg, nil
}

// fail logs err, records its exit code, and swallows the error so cobra
// does not print usage for a runtime failure.
func fail(cmd *cobra.Command, err error) error {
	LoggerFromContext(cmd.Context()).Error("command failed", "command", cmd.CommandPath(), "error", err)
	exitCode = exitCodeFor(err)
	return nil
}

func exitCodeFor(err error) int {
	var coded *codedError
	var fetchErr *github.FetchError
	switch {
	case errors.As(err, &coded):
		return coded.code
	case providers.IsAuthError(err),
		errors.Is(err, providers.ErrMissingAPIKey),
		errors.Is(err, github.ErrMissingToken):
		return ExitAuthError
	case errors.As(err, &fetchErr) && (fetchErr.Status == 401 || fetchErr.Status == 403):
		return ExitAuthError
	default:
		return ExitRuntimeError
	}
}

// codedError pins an exit code to an error.
type codedError struct {
	code int
	err  error
}

func (e *codedError) Error() string { return e.err.Error() }

func (e *codedError) Unwrap() error { return e.err }

func usageError(err error) error {
	return &codedError{code: ExitUsageError, err: err}
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print codelens version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "codelens version %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagModel, "model", "", "Gemini model name")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(optimizeCmd)
	rootCmd.AddCommand(prCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(modelsCmd)
	rootCmd.AddCommand(versionCmd)
}

func addOutputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&flagFormat, "format", "", "Output format (text, json, markdown)")
	cmd.Flags().StringVar(&flagOut, "out", "", "Output file path (default: stdout)")
}
