// Package redact keeps credentials out of anything shown to a user or written
// to a log.
//
// Two layers apply: exact replacement of the secrets this process was
// configured with (see [New]), and regex heuristics for common credential
// shapes such as Google API keys, GitHub tokens, bearer headers and key query
// parameters. Matches become [REDACTED].
package redact
