package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os/exec"
	"regexp"
	"strings"
	"time"

	gh "github.com/google/go-github/v68/github"

	"github.com/dshills/codelens/internal/logging"
)

const (
	defaultRawURL = "https://raw.githubusercontent.com"
	perPage       = 100
)

var (
	// ErrMissingToken is returned when no access token is supplied.
	ErrMissingToken = errors.New("GitHub token is required")
	// ErrFileNotInPullRequest is returned by FileDiff when the path is not
	// part of the pull request.
	ErrFileNotInPullRequest = errors.New("diff not found for this file")
	// ErrNoPatch is returned by FileDiff when GitHub has no patch for the
	// file (binary or oversized changes).
	ErrNoPatch = errors.New("no diff available")
)

// FetchError wraps any failed call to the hosting service.
type FetchError struct {
	Op     string
	Status int
	Err    error
}

func (e *FetchError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s failed (status %d): %v", e.Op, e.Status, e.Err)
	}
	return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// ChangedFile is one file touched by a pull request.
type ChangedFile struct {
	Name   string `json:"name"`
	Status string `json:"status"`
}

// PullRequestSummary is the subset of pull-request data shown to the user.
type PullRequestSummary struct {
	Number    int           `json:"number"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"createdAt"`
	Branch    string        `json:"branch"`
	Base      string        `json:"base"`
	Files     []ChangedFile `json:"files"`
}

// Label is the selector text for a pull request.
func (p PullRequestSummary) Label() string {
	return fmt.Sprintf("#%d - %s (→ %s)", p.Number, p.Title, p.Branch)
}

// Options configures a Client. Zero values select public GitHub endpoints.
type Options struct {
	APIURL     string
	RawURL     string
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Client provides access to the GitHub REST API and raw file content.
type Client struct {
	api     *gh.Client
	token   string
	rawURL  string
	httpCli *http.Client
	logger  *slog.Logger
}

// NewClient creates a client authenticated with a bearer token.
func NewClient(token string, opts Options) (*Client, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	httpCli := opts.HTTPClient
	if httpCli == nil {
		httpCli = &http.Client{Timeout: 60 * time.Second}
	}

	api := gh.NewClient(httpCli).WithAuthToken(token)
	if opts.APIURL != "" {
		base, err := url.Parse(strings.TrimRight(opts.APIURL, "/") + "/")
		if err != nil {
			return nil, fmt.Errorf("parsing GitHub API URL: %w", err)
		}
		api.BaseURL = base
	}

	rawURL := strings.TrimRight(opts.RawURL, "/")
	if rawURL == "" {
		rawURL = defaultRawURL
	}

	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	return &Client{
		api:     api,
		token:   token,
		rawURL:  rawURL,
		httpCli: httpCli,
		logger:  logger,
	}, nil
}

// ListBranches returns every branch name in repo ("owner/name").
func (c *Client) ListBranches(ctx context.Context, repo string) ([]string, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &gh.BranchListOptions{ListOptions: gh.ListOptions{PerPage: perPage}}
	var names []string
	for {
		branches, resp, err := c.api.Repositories.ListBranches(ctx, owner, name, opts)
		if err != nil {
			return nil, fetchError("listing branches", resp, err)
		}
		for _, b := range branches {
			names = append(names, b.GetName())
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	c.logger.Debug("listed branches", "repo", repo, "count", len(names))
	return names, nil
}

// ListPullRequests returns open pull requests in repo. When base is non-empty
// only pull requests targeting that branch are returned. Each summary lists only
// the changed files whose name ends in ext; an empty ext keeps every file.
func (c *Client) ListPullRequests(ctx context.Context, repo, base, ext string) ([]PullRequestSummary, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:       "open",
		Base:        base,
		ListOptions: gh.ListOptions{PerPage: perPage},
	}
	var prs []PullRequestSummary
	for {
		page, resp, err := c.api.PullRequests.List(ctx, owner, name, opts)
		if err != nil {
			return nil, fetchError("listing pull requests", resp, err)
		}
		for _, pr := range page {
			prs = append(prs, PullRequestSummary{
				Number:    pr.GetNumber(),
				Title:     pr.GetTitle(),
				CreatedAt: pr.GetCreatedAt().Time,
				Branch:    pr.GetHead().GetRef(),
				Base:      pr.GetBase().GetRef(),
			})
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	prs = FilterByBase(prs, base)
	for i := range prs {
		files, err := c.listFiles(ctx, owner, name, prs[i].Number)
		if err != nil {
			return nil, err
		}
		changed := make([]ChangedFile, 0, len(files))
		for _, f := range files {
			changed = append(changed, ChangedFile{Name: f.GetFilename(), Status: f.GetStatus()})
		}
		prs[i].Files = FilterFiles(changed, ext)
		if dropped := len(changed) - len(prs[i].Files); dropped > 0 {
			c.logger.Debug("skipped files outside extension filter",
				"repo", repo, "pr", prs[i].Number, "ext", ext, "dropped", dropped)
		}
	}
	return prs, nil
}

// GetPullRequest returns one pull request with the changed files whose name
// ends in ext.
func (c *Client) GetPullRequest(ctx context.Context, repo string, number int, ext string) (PullRequestSummary, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return PullRequestSummary{}, err
	}
	pr, resp, err := c.api.PullRequests.Get(ctx, owner, name, number)
	if err != nil {
		return PullRequestSummary{}, fetchError(fmt.Sprintf("fetching PR #%d", number), resp, err)
	}
	files, err := c.listFiles(ctx, owner, name, number)
	if err != nil {
		return PullRequestSummary{}, err
	}
	changed := make([]ChangedFile, 0, len(files))
	for _, f := range files {
		changed = append(changed, ChangedFile{Name: f.GetFilename(), Status: f.GetStatus()})
	}
	return PullRequestSummary{
		Number:    pr.GetNumber(),
		Title:     pr.GetTitle(),
		CreatedAt: pr.GetCreatedAt().Time,
		Branch:    pr.GetHead().GetRef(),
		Base:      pr.GetBase().GetRef(),
		Files:     FilterFiles(changed, ext),
	}, nil
}

// FileDiff returns the unified diff for one file within a pull request.
func (c *Client) FileDiff(ctx context.Context, repo string, number int, path string) (string, error) {
	owner, name, err := ParseRepo(repo)
	if err != nil {
		return "", err
	}
	files, err := c.listFiles(ctx, owner, name, number)
	if err != nil {
		return "", err
	}
	for _, f := range files {
		if f.GetFilename() != path {
			continue
		}
		if f.GetPatch() == "" {
			return "", ErrNoPatch
		}
		return f.GetPatch(), nil
	}
	return "", ErrFileNotInPullRequest
}

// FetchRaw downloads the text of path at branch from the raw content host.
func (c *Client) FetchRaw(ctx context.Context, repo, branch, path string) (string, error) {
	if _, _, err := ParseRepo(repo); err != nil {
		return "", err
	}
	rawURL := fmt.Sprintf("%s/%s/%s/%s", c.rawURL, repo, escapePath(branch), escapePath(path))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpCli.Do(req)
	if err != nil {
		return "", &FetchError{Op: "fetching file content", Err: err}
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", &FetchError{Op: "fetching file content", Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode == http.StatusNotFound {
		return "", &FetchError{Op: "fetching file content", Status: resp.StatusCode,
			Err: fmt.Errorf("%s not found on branch %s", path, branch)}
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &FetchError{Op: "fetching file content", Status: resp.StatusCode,
			Err: fmt.Errorf("unexpected response: %s", strings.TrimSpace(string(body)))}
	}
	return string(body), nil
}

func (c *Client) listFiles(ctx context.Context, owner, name string, number int) ([]*gh.CommitFile, error) {
	opts := &gh.ListOptions{PerPage: perPage}
	var all []*gh.CommitFile
	for {
		files, resp, err := c.api.PullRequests.ListFiles(ctx, owner, name, number, opts)
		if err != nil {
			return nil, fetchError(fmt.Sprintf("listing files of PR #%d", number), resp, err)
		}
		all = append(all, files...)
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return all, nil
}

// FilterByBase keeps pull requests whose base branch equals base. An empty
// base keeps everything.
func FilterByBase(prs []PullRequestSummary, base string) []PullRequestSummary {
	if base == "" {
		return prs
	}
	out := make([]PullRequestSummary, 0, len(prs))
	for _, pr := range prs {
		if pr.Base == base {
			out = append(out, pr)
		}
	}
	return out
}

// FilterFiles keeps files whose name ends in ext. An empty ext keeps everything.
func FilterFiles(files []ChangedFile, ext string) []ChangedFile {
	if ext == "" {
		return files
	}
	out := make([]ChangedFile, 0, len(files))
	for _, f := range files {
		if strings.HasSuffix(f.Name, ext) {
			out = append(out, f)
		}
	}
	return out
}

func fetchError(op string, resp *gh.Response, err error) error {
	fe := &FetchError{Op: op, Err: err}
	if resp != nil && resp.Response != nil {
		fe.Status = resp.StatusCode
	}
	return fe
}

func escapePath(p string) string {
	parts := strings.Split(p, "/")
	for i, s := range parts {
		parts[i] = url.PathEscape(s)
	}
	return strings.Join(parts, "/")
}

// ParseRepo splits an "owner/name" slug.
func ParseRepo(repo string) (owner, name string, err error) {
	parts := strings.Split(strings.TrimSpace(repo), "/")
	if len(parts) != 2 || strings.TrimSpace(parts[0]) == "" || strings.TrimSpace(parts[1]) == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", repo)
	}
	return strings.TrimSpace(parts[0]), strings.TrimSpace(parts[1]), nil
}

var (
	httpsRemoteRe = regexp.MustCompile(`^https?://[^/]+/([^/]+)/([^/\s]+?)/?$`)
	sshRemoteRe   = regexp.MustCompile(`^[^@]+@[^:]+:([^/]+)/([^/\s]+?)/?$`)
)

// DetectRepo returns the "owner/name" slug of the git remote origin in the
// current directory.
func DetectRepo() (string, error) {
	out, err := exec.Command("git", "remote", "get-url", "origin").Output()
	if err != nil {
		return "", fmt.Errorf("cannot detect repo: git remote get-url origin failed: %w", err)
	}
	owner, repo, err := ParseRemoteURL(strings.TrimSpace(string(out)))
	if err != nil {
		return "", err
	}
	return owner + "/" + repo, nil
}

// ParseRemoteURL extracts owner/repo from a git remote URL.
func ParseRemoteURL(url string) (owner, repo string, err error) {
	url = strings.TrimSuffix(url, ".git")

	if m := httpsRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	if m := sshRemoteRe.FindStringSubmatch(url); len(m) == 3 {
		return m[1], m[2], nil
	}
	return "", "", fmt.Errorf("cannot parse owner/repo from remote URL: %s", url)
}
