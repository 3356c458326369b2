package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the codelens configuration.
type Config struct {
	Provider string       `json:"provider" yaml:"provider" env:"CODELENS_PROVIDER"`
	Model    string       `json:"model" yaml:"model" env:"CODELENS_MODEL"`
	Format   string       `json:"format" yaml:"format" env:"CODELENS_FORMAT"`
	LogLevel string       `json:"logLevel" yaml:"logLevel" env:"CODELENS_LOG_LEVEL"`
	Server   ServerConfig `json:"server" yaml:"server"`
	Auth     AuthConfig   `json:"auth" yaml:"auth"`
	GitHub   GitHubConfig `json:"github" yaml:"github"`
	Gemini   GeminiConfig `json:"gemini" yaml:"gemini"`
}

// ServerConfig controls the web UI listener.
type ServerConfig struct {
	Addr string `json:"addr" yaml:"addr" env:"CODELENS_ADDR"`
}

// AuthConfig holds the single username/password pair accepted by the login gate.
// PasswordHash, when set, is a bcrypt hash and takes precedence over Password.
type AuthConfig struct {
	Username     string `json:"username,omitempty" yaml:"username,omitempty" env:"CODELENS_USERNAME"`
	Password     string `json:"password,omitempty" yaml:"password,omitempty" env:"CODELENS_PASSWORD"`
	PasswordHash string `json:"passwordHash,omitempty" yaml:"passwordHash,omitempty" env:"CODELENS_PASSWORD_HASH"`
}

// GitHubConfig controls pull-request acquisition.
type GitHubConfig struct {
	Token       string `json:"token,omitempty" yaml:"token,omitempty" env:"CODELENS_GITHUB_TOKEN"`
	APIURL      string `json:"apiURL" yaml:"apiURL" env:"CODELENS_GITHUB_API_URL"`
	RawURL      string `json:"rawURL" yaml:"rawURL" env:"CODELENS_GITHUB_RAW_URL"`
	Extension   string `json:"extension" yaml:"extension" env:"CODELENS_EXTENSION"`
	DefaultRepo string `json:"defaultRepo,omitempty" yaml:"defaultRepo,omitempty" env:"CODELENS_REPO"`
}

// GeminiConfig holds model API settings.
type GeminiConfig struct {
	APIKey  string `json:"apiKey,omitempty" yaml:"apiKey,omitempty" env:"GEMINI_API_KEY"`
	BaseURL string `json:"baseURL" yaml:"baseURL" env:"CODELENS_GEMINI_BASE_URL"`
}

const masked = "********"

// Default returns a Config with all defaults applied.
func Default() Config {
	return Config{
		Provider: "gemini",
		Model:    "gemini-2.0-flash",
		Format:   "text",
		LogLevel: "info",
		Server: ServerConfig{
			Addr: ":8501",
		},
		GitHub: GitHubConfig{
			APIURL:    "https://api.github.com/",
			RawURL:    "https://raw.githubusercontent.com",
			Extension: ".py",
		},
		Gemini: GeminiConfig{
			BaseURL: "https://generativelanguage.googleapis.com/v1beta",
		},
	}
}

// Masked returns a copy of cfg with every secret replaced by a placeholder.
func (c Config) Masked() Config {
	mask := func(s string) string {
		if s == "" {
			return ""
		}
		return masked
	}
	c.Auth.Password = mask(c.Auth.Password)
	c.Auth.PasswordHash = mask(c.Auth.PasswordHash)
	c.GitHub.Token = mask(c.GitHub.Token)
	c.Gemini.APIKey = mask(c.Gemini.APIKey)
	return c
}

// Validate reports settings the rest of the program cannot work with.
func (c Config) Validate() error {
	var errs []error
	switch c.Provider {
	case "gemini", "google":
	default:
		errs = append(errs, fmt.Errorf("unsupported provider %q (only gemini is available)", c.Provider))
	}
	switch c.Format {
	case "text", "json", "markdown":
	default:
		errs = append(errs, fmt.Errorf("unsupported format %q", c.Format))
	}
	if c.Model == "" {
		errs = append(errs, errors.New("model must not be empty"))
	}
	if !strings.HasPrefix(c.GitHub.Extension, ".") {
		errs = append(errs, fmt.Errorf("extension %q must start with a dot", c.GitHub.Extension))
	}
	return errors.Join(errs...)
}

// ConfigDir returns the platform-appropriate config directory for codelens.
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "codelens"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "codelens"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "codelens"), nil
		}
		return filepath.Join(home, "AppData", "Roaming", "codelens"), nil
	default:
		return filepath.Join(home, ".config", "codelens"), nil
	}
}

// ConfigPath returns the full path to the config file. CODELENS_CONFIG wins
// over the platform default.
func ConfigPath() (string, error) {
	if p := os.Getenv("CODELENS_CONFIG"); p != "" {
		return p, nil
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// LoadFile loads the config file over the defaults, ignoring .env and the
// environment. A missing file yields Default().
func LoadFile() (Config, error) {
	cfg := Default()
	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	if _, err := decodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Save writes the config to the config file, as YAML when the path ends in
// .yaml or .yml and as JSON otherwise.
func Save(cfg Config) error {
	path, err := ConfigPath()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	var data []byte
	if isYAML(path) {
		data, err = yaml.Marshal(cfg)
	} else {
		data, err = json.MarshalIndent(cfg, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	return os.WriteFile(path, data, 0o600)
}

// Load builds the effective config by merging: defaults <- file <- .env <- env <- overrides.
// The overrides map comes from CLI flags (only non-zero values should be set).
func Load(overrides map[string]string) (Config, error) {
	cfg := Default()

	path, err := ConfigPath()
	if err != nil {
		return Config{}, err
	}
	if _, err := decodeFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := loadDotEnv(); err != nil {
		return Config{}, err
	}
	if err := mergeEnv(&cfg); err != nil {
		return Config{}, err
	}
	mergeOverrides(&cfg, overrides)

	return cfg, nil
}

// decodeFile unmarshals path onto cfg, leaving fields absent from the file
// untouched. A missing file is not an error.
func decodeFile(path string, cfg *Config) (bool, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fmt.Errorf("reading config file: %w", err)
	}
	if isYAML(path) {
		err = yaml.Unmarshal(data, cfg)
	} else {
		err = json.Unmarshal(data, cfg)
	}
	if err != nil {
		return false, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return true, nil
}

func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// loadDotEnv reads CODELENS_ENV_FILE (default ./.env) into the process
// environment. Variables that are already set are not overridden.
func loadDotEnv() error {
	path := os.Getenv("CODELENS_ENV_FILE")
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("checking env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("loading env file %s: %w", path, err)
	}
	return nil
}

func mergeEnv(cfg *Config) error {
	if err := env.Parse(cfg); err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.GitHub.Token == "" {
		cfg.GitHub.Token = os.Getenv("GITHUB_TOKEN")
	}
	if cfg.Gemini.APIKey == "" {
		cfg.Gemini.APIKey = os.Getenv("GOOGLE_API_KEY")
	}
	return nil
}

func mergeOverrides(cfg *Config, overrides map[string]string) {
	for k, v := range overrides {
		if v == "" {
			continue
		}
		// Unknown keys are ignored here; SetField rejects them for `config set`.
		_ = SetField(cfg, k, v)
	}
}

// Keys lists every key accepted by SetField.
var Keys = []string{
	"provider", "model", "format", "logLevel",
	"server.addr",
	"auth.username", "auth.password", "auth.passwordHash",
	"github.token", "github.apiURL", "github.rawURL", "github.extension", "github.defaultRepo",
	"gemini.apiKey", "gemini.baseURL",
}

// SetField sets a single config field by key name. Returns error if key is unknown.
func SetField(cfg *Config, key, value string) error {
	switch key {
	case "provider":
		cfg.Provider = value
	case "model":
		cfg.Model = value
	case "format":
		cfg.Format = value
	case "logLevel":
		cfg.LogLevel = value
	case "server.addr":
		cfg.Server.Addr = value
	case "auth.username":
		cfg.Auth.Username = value
	case "auth.password":
		cfg.Auth.Password = value
	case "auth.passwordHash":
		cfg.Auth.PasswordHash = value
	case "github.token":
		cfg.GitHub.Token = value
	case "github.apiURL":
		cfg.GitHub.APIURL = value
	case "github.rawURL":
		cfg.GitHub.RawURL = value
	case "github.extension":
		if !strings.HasPrefix(value, ".") {
			value = "." + value
		}
		cfg.GitHub.Extension = value
	case "github.defaultRepo":
		cfg.GitHub.DefaultRepo = value
	case "gemini.apiKey":
		cfg.Gemini.APIKey = value
	case "gemini.baseURL":
		cfg.Gemini.BaseURL = value
	default:
		return fmt.Errorf("unknown config key: %s", key)
	}
	return nil
}
