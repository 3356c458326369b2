// Package web serves the codelens page.
//
// One echo server hosts a single HTML page: a sidebar with credentials and
// repository selectors, an upload form, and the pull-request actions. Every
// POST rebuilds a workbench.Session from the form, runs one action and
// renders the page again. Code and diffs are highlighted with chroma, model
// replies are rendered from markdown with goldmark.
package web
