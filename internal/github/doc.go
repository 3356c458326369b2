// Package github fetches pull-request material from GitHub: branch names,
// open pull requests with their changed files, raw file content at a branch,
// and the per-file patch GitHub computes for a pull request.
//
// REST calls go through google/go-github with a bearer token. Raw content is
// read from raw.githubusercontent.com (or a configured mirror) with a plain GET.
// Every failed call is reported as a *FetchError.
package github
