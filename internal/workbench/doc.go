// Package workbench runs the user actions behind the codelens page.
//
// Each request builds a fresh [Session] from the submitted form, one handler
// mutates it (login, optimize an upload, browse a pull request, ask for a
// review, show a diff) and the presenter renders the result. Nothing is kept
// between requests. Failures never escape a handler: they become session
// messages with secrets scrubbed, a warn log line, and a metrics count.
package workbench
