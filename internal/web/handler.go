package web

import (
	"embed"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/dshills/codelens/internal/auth"
	"github.com/dshills/codelens/internal/github"
	"github.com/dshills/codelens/internal/logging"
	"github.com/dshills/codelens/internal/workbench"
)

//go:embed templates/index.html
var templates embed.FS

// Defaults prefill the page on first load.
type Defaults struct {
	Repo string
}

// Handler serves the page and its form actions.
type Handler struct {
	bench    *workbench.Workbench
	defaults Defaults
	logger   *slog.Logger
	page     *template.Template
}

// NewHandler parses the page template.
func NewHandler(bench *workbench.Workbench, defaults Defaults, logger *slog.Logger) (*Handler, error) {
	if logger == nil {
		logger = logging.Discard()
	}
	page, err := template.ParseFS(templates, "templates/index.html")
	if err != nil {
		return nil, err
	}
	return &Handler{bench: bench, defaults: defaults, logger: logger, page: page}, nil
}

// RegisterRoutes registers the page routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/", h.Index)
	e.POST("/optimize", h.Optimize)
	e.POST("/review", h.Review)
	e.GET("/healthz", h.Healthz)
}

// Index renders the empty page.
func (h *Handler) Index(c echo.Context) error {
	s := &workbench.Session{Repo: h.defaults.Repo}
	s.Add(workbench.LevelWarning, auth.Message(auth.ErrMissingCredentials))
	return h.render(c, http.StatusOK, s)
}

// Optimize handles the upload form.
func (h *Handler) Optimize(c echo.Context) error {
	s := sessionFromForm(c)

	fh, err := c.FormFile("file")
	if err != nil {
		if h.bench.Login(s) {
			if errors.Is(err, http.ErrMissingFile) {
				s.Add(workbench.LevelWarning, "Choose a file to upload.")
			} else {
				s.Add(workbench.LevelError, "Could not read upload: "+err.Error())
			}
		}
		return h.render(c, http.StatusOK, s)
	}

	f, err := fh.Open()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not open upload")
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "could not read upload")
	}

	h.bench.Optimize(c.Request().Context(), s, fh.Filename, data)
	return h.render(c, http.StatusOK, s)
}

// Review handles the pull-request actions selected by the action field.
func (h *Handler) Review(c echo.Context) error {
	s := sessionFromForm(c)
	ctx := c.Request().Context()

	switch action := c.FormValue("action"); action {
	case "load", "":
		h.bench.Browse(ctx, s)
	case "suggest":
		h.bench.Suggest(ctx, s)
	case "diff":
		h.bench.ShowDiff(ctx, s)
	default:
		s.Add(workbench.LevelError, "Unknown action: "+action)
		return h.render(c, http.StatusBadRequest, s)
	}
	return h.render(c, http.StatusOK, s)
}

// Healthz reports liveness.
func (h *Handler) Healthz(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func sessionFromForm(c echo.Context) *workbench.Session {
	pr, _ := strconv.Atoi(c.FormValue("pr"))
	return &workbench.Session{
		Username: c.FormValue("username"),
		Password: c.FormValue("password"),
		Repo:     strings.TrimSpace(c.FormValue("repo")),
		Token:    strings.TrimSpace(c.FormValue("token")),
		Branch:   c.FormValue("branch"),
		PRNumber: pr,
		FilePath: c.FormValue("path"),
	}
}

type pageData struct {
	Session    *workbench.Session
	Extension  string
	SelectedPR *github.PullRequestSummary
	CodeHTML   template.HTML
	ResultHTML template.HTML
	DiffHTML   template.HTML
}

// Messages splits session messages between the sidebar (login) and the main
// column.
func (p pageData) Messages(area string) []workbench.Message {
	var out []workbench.Message
	for _, m := range p.Session.Messages {
		sidebar := isLoginMessage(m.Text)
		if (area == "sidebar") == sidebar {
			out = append(out, m)
		}
	}
	return out
}

func isLoginMessage(text string) bool {
	return text == auth.Message(nil) ||
		text == auth.Message(auth.ErrMissingCredentials) ||
		text == auth.Message(auth.ErrInvalidCredentials)
}

func (h *Handler) render(c echo.Context, status int, s *workbench.Session) error {
	data := pageData{Session: s, Extension: h.bench.Extension()}
	if pr, ok := s.SelectedPR(); ok {
		data.SelectedPR = &pr
	}

	var err error
	if s.Artifact != nil {
		if data.CodeHTML, err = highlight(s.Artifact.Content, s.Artifact.Language(), true); err != nil {
			h.logger.Warn("highlighting failed", "err", err)
			data.CodeHTML = preformatted(s.Artifact.Content)
		}
	}
	if s.Result != nil {
		if data.ResultHTML, err = renderMarkdown(s.Result.Content); err != nil {
			h.logger.Warn("markdown rendering failed", "err", err)
			data.ResultHTML = preformatted(s.Result.Content)
		}
	}
	if s.Diff != "" {
		if data.DiffHTML, err = highlight(s.Diff, "diff", false); err != nil {
			data.DiffHTML = preformatted(s.Diff)
		}
	}

	var buf strings.Builder
	if err := h.page.Execute(&buf, data); err != nil {
		return err
	}
	return c.HTML(status, buf.String())
}
