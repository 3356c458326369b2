// Package config loads and merges codelens configuration from multiple sources.
//
// Precedence (highest to lowest):
//  1. CLI flags
//  2. Environment variables (CODELENS_*, GEMINI_API_KEY, GITHUB_TOKEN)
//  3. A .env file (CODELENS_ENV_FILE, default ./.env), which never overrides
//     variables already present in the environment
//  4. Config file ($CODELENS_CONFIG or $XDG_CONFIG_HOME/codelens/config.json;
//     .yaml and .yml paths are read as YAML)
//  5. Built-in defaults
//
// Use [Load] to obtain a merged [Config], [Save] to write a config file, and
// [SetField] to update a single key.
package config
