package cli

import (
	"log/slog"

	"github.com/dshills/codelens/internal/config"
	"github.com/dshills/codelens/internal/github"
	"github.com/dshills/codelens/internal/providers"
	"github.com/dshills/codelens/internal/suggest"
)

// newGenerator builds the model client described by cfg.
func newGenerator(cfg config.Config) (providers.Generator, error) {
	return providers.New(cfg.Provider, cfg.Model, providers.Options{
		APIKey:  cfg.Gemini.APIKey,
		BaseURL: cfg.Gemini.BaseURL,
	})
}

func newEngine(cfg config.Config, logger *slog.Logger) (*suggest.Engine, error) {
	gen, err := newGenerator(cfg)
	if err != nil {
		return nil, err
	}
	return suggest.NewEngine(gen, cfg.Model, logger), nil
}

func newHostingClient(cfg config.Config, token string, logger *slog.Logger) (*github.Client, error) {
	return github.NewClient(token, github.Options{
		APIURL: cfg.GitHub.APIURL,
		RawURL: cfg.GitHub.RawURL,
		Logger: logger,
	})
}

// resolveRepo picks the repository from the config (which already carries
// --repo), falling back to the origin remote of the working directory.
func resolveRepo(cfg config.Config) (string, error) {
	if cfg.GitHub.DefaultRepo != "" {
		if _, _, err := github.ParseRepo(cfg.GitHub.DefaultRepo); err != nil {
			return "", usageError(err)
		}
		return cfg.GitHub.DefaultRepo, nil
	}
	repo, err := github.DetectRepo()
	if err != nil {
		return "", usageError(err)
	}
	return repo, nil
}
