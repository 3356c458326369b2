package workbench

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dshills/codelens/internal/auth"
	"github.com/dshills/codelens/internal/github"
	"github.com/dshills/codelens/internal/logging"
	"github.com/dshills/codelens/internal/metrics"
	"github.com/dshills/codelens/internal/redact"
	"github.com/dshills/codelens/internal/source"
	"github.com/dshills/codelens/internal/suggest"
)

// User-visible message texts.
const (
	MsgMissingToken   = "Please enter your GitHub token in the sidebar to proceed."
	MsgMissingRepo    = "Please enter a repository as owner/repo."
	MsgNoPullRequests = "No open PRs found in the repository."
	MsgDiffNotFound   = "Diff not found for this file."
	MsgNoDiff         = "No diff available."
	MsgNoFileSelected = "Select a file from the pull request first."
)

// Hosting is the pull-request source used by the browse actions.
type Hosting interface {
	ListBranches(ctx context.Context, repo string) ([]string, error)
	ListPullRequests(ctx context.Context, repo, base, ext string) ([]github.PullRequestSummary, error)
	FetchRaw(ctx context.Context, repo, branch, path string) (string, error)
	FileDiff(ctx context.Context, repo string, number int, path string) (string, error)
}

// HostingFactory builds a Hosting for the token entered by the user.
type HostingFactory func(token string) (Hosting, error)

// Suggester turns an artifact into a model reply.
type Suggester interface {
	Run(ctx context.Context, art source.Artifact, tmpl suggest.Template) (*suggest.Result, error)
}

// Options configures a Workbench.
type Options struct {
	Gate      *auth.Gate
	Hosting   HostingFactory
	Suggester Suggester
	// Extension filters pull-request files, e.g. ".py".
	Extension string
	Metrics   *metrics.Metrics
	Redactor  *redact.Redactor
	Logger    *slog.Logger
}

// Workbench holds the collaborators shared by every action. It has no
// per-request state and is safe for concurrent use.
type Workbench struct {
	gate      *auth.Gate
	hosting   HostingFactory
	suggester Suggester
	ext       string
	metrics   *metrics.Metrics
	redactor  *redact.Redactor
	logger    *slog.Logger
}

// New creates a Workbench.
func New(opts Options) *Workbench {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	return &Workbench{
		gate:      opts.Gate,
		hosting:   opts.Hosting,
		suggester: opts.Suggester,
		ext:       opts.Extension,
		metrics:   opts.Metrics,
		redactor:  opts.Redactor,
		logger:    logger,
	}
}

// Extension returns the pull-request file filter.
func (w *Workbench) Extension() string { return w.ext }

// Login checks the session credentials. It reports whether the user may
// proceed and records the gate's message.
func (w *Workbench) Login(s *Session) bool {
	err := w.gate.Check(s.Username, s.Password)
	w.metrics.Action("login", err)
	s.Authenticated = err == nil
	switch {
	case err == nil:
		s.Add(LevelSuccess, auth.Message(nil))
	case errors.Is(err, auth.ErrMissingCredentials):
		s.Add(LevelWarning, auth.Message(err))
	default:
		w.logger.Warn("login rejected", "username", s.Username)
		s.Add(LevelError, auth.Message(err))
	}
	return s.Authenticated
}

// Optimize decodes an uploaded file and asks the model for optimizations.
func (w *Workbench) Optimize(ctx context.Context, s *Session, filename string, data []byte) {
	if !w.Login(s) {
		return
	}
	art, err := source.FromUpload(filename, data)
	if err != nil {
		w.fail(s, "optimize", "Could not read upload", err)
		return
	}
	s.Artifact = &art

	res, err := w.run(ctx, art, suggest.TemplateOptimize)
	if err != nil {
		w.fail(s, "optimize", "❌ Gemini API error", err)
		return
	}
	s.Result = res
	w.metrics.Action("optimize", nil)
}

// Browse loads branches, open pull requests against the selected branch, the
// selected pull request's files and the selected file's content.
func (w *Workbench) Browse(ctx context.Context, s *Session) {
	if !w.Login(s) {
		return
	}
	if w.browse(ctx, s) {
		w.metrics.Action("browse", nil)
	}
}

// Suggest reviews the selected pull-request file with the model.
func (w *Workbench) Suggest(ctx context.Context, s *Session) {
	if !w.Login(s) || !w.browse(ctx, s) {
		return
	}
	if s.Artifact == nil {
		s.Add(LevelWarning, MsgNoFileSelected)
		return
	}
	res, err := w.run(ctx, *s.Artifact, suggest.TemplateReview)
	if err != nil {
		w.fail(s, "suggest", "AI analysis failed", err)
		return
	}
	s.Result = res
	w.metrics.Action("suggest", nil)
}

// ShowDiff fetches the hosting service's patch for the selected file.
func (w *Workbench) ShowDiff(ctx context.Context, s *Session) {
	if !w.Login(s) || !w.browse(ctx, s) {
		return
	}
	if s.FilePath == "" {
		s.Add(LevelWarning, MsgNoFileSelected)
		return
	}
	h, err := w.hosting(s.Token)
	if err != nil {
		w.fail(s, "diff", "Error fetching diff", err)
		return
	}
	diff, err := h.FileDiff(ctx, s.Repo, s.PRNumber, s.FilePath)
	w.metrics.External("github", "file_diff", err)
	switch {
	case errors.Is(err, github.ErrFileNotInPullRequest):
		s.Add(LevelWarning, MsgDiffNotFound)
	case errors.Is(err, github.ErrNoPatch):
		s.Add(LevelInfo, MsgNoDiff)
	case err != nil:
		w.fail(s, "diff", "Error fetching diff", err)
		return
	default:
		s.Diff = diff
	}
	w.metrics.Action("diff", nil)
}

// browse fills the pull-request part of the session. It returns false when a
// step failed; the reason is already recorded as a message.
func (w *Workbench) browse(ctx context.Context, s *Session) bool {
	s.Repo = strings.TrimSpace(s.Repo)
	if s.Token == "" {
		s.Add(LevelWarning, MsgMissingToken)
		return false
	}
	if _, _, err := github.ParseRepo(s.Repo); err != nil {
		s.Add(LevelWarning, MsgMissingRepo)
		return false
	}

	h, err := w.hosting(s.Token)
	if err != nil {
		w.fail(s, "browse", "🚫 Failed to fetch branches", err)
		return false
	}

	branches, err := h.ListBranches(ctx, s.Repo)
	w.metrics.External("github", "list_branches", err)
	if err != nil {
		s.Branches = nil
		w.fail(s, "browse", "🚫 Failed to fetch branches", err)
		return false
	}
	s.Branches = branches
	s.Branch = pick(branches, s.Branch)

	prs, err := h.ListPullRequests(ctx, s.Repo, s.Branch, w.ext)
	w.metrics.External("github", "list_pull_requests", err)
	if err != nil {
		w.fail(s, "browse", "❌ Error fetching PRs", err)
		return false
	}
	s.PullRequests = prs
	if len(prs) == 0 {
		s.PRNumber = 0
		s.Add(LevelInfo, MsgNoPullRequests)
		return true
	}

	pr, ok := s.SelectedPR()
	if !ok {
		pr = prs[0]
		s.PRNumber = pr.Number
	}
	s.Files = pr.Files
	if len(s.Files) == 0 {
		s.FilePath = ""
		s.Add(LevelWarning, NoFilesMessage(w.ext))
		return true
	}

	names := make([]string, len(s.Files))
	for i, f := range s.Files {
		names[i] = f.Name
	}
	s.FilePath = pick(names, s.FilePath)

	content, err := h.FetchRaw(ctx, s.Repo, pr.Branch, s.FilePath)
	w.metrics.External("github", "fetch_raw", err)
	if err != nil {
		w.fail(s, "browse", "Error fetching file content", err)
		return false
	}
	art := source.FromPullRequest(s.Repo, pr.Branch, pr.Number, s.FilePath, content)
	s.Artifact = &art
	return true
}

func (w *Workbench) run(ctx context.Context, art source.Artifact, tmpl suggest.Template) (*suggest.Result, error) {
	start := time.Now()
	res, err := w.suggester.Run(ctx, art, tmpl)
	w.metrics.ObserveModel(time.Since(start))
	w.metrics.External("gemini", string(tmpl), err)
	var callErr *suggest.ModelCallError
	if errors.As(err, &callErr) {
		// The action prefix already names the failure.
		return nil, callErr.Err
	}
	return res, err
}

// fail records err as an error message, logs it and counts the action as
// failed.
func (w *Workbench) fail(s *Session, action, prefix string, err error) {
	text := w.redactor.Error(err)
	w.logger.Warn("action failed", "action", action, "err", text)
	w.metrics.Action(action, err)
	s.Add(LevelError, fmt.Sprintf("%s: %s", prefix, text))
}

// NoFilesMessage is shown when a pull request changes no file matching ext.
func NoFilesMessage(ext string) string {
	lang := source.LanguageFor("x" + ext)
	switch {
	case lang != "":
		lang = strings.ToUpper(lang[:1]) + lang[1:]
	case ext != "":
		lang = ext
	default:
		return "No files modified in this PR."
	}
	return fmt.Sprintf("No %s files modified in this PR.", lang)
}

// pick returns want if it is one of options, else the first option.
func pick(options []string, want string) string {
	if want != "" && slices.Contains(options, want) {
		return want
	}
	if len(options) == 0 {
		return ""
	}
	return options[0]
}
