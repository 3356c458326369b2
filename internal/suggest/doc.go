// Package suggest turns a code artifact into model suggestions.
//
// It owns the two fixed prompt templates (optimize and review), builds the
// prompt by plain interpolation, sends it to a providers.Generator once and
// wraps the raw reply in a Result. The reply is never parsed; presenters show
// it as returned.
package suggest
