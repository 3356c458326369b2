package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"
)

func newTestClient(t *testing.T, mux *http.ServeMux) *Client {
	t.Helper()
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	c, err := NewClient("test-token", Options{
		APIURL:     server.URL,
		RawURL:     server.URL + "/raw",
		HTTPClient: server.Client(),
	})
	if err != nil {
		t.Fatalf("NewClient error: %v", err)
	}
	return c
}

func TestNewClient_MissingToken(t *testing.T) {
	if _, err := NewClient("  ", Options{}); !errors.Is(err, ErrMissingToken) {
		t.Errorf("err = %v, want ErrMissingToken", err)
	}
}

func TestListBranches(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/branches", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Authorization = %q, want %q", r.Header.Get("Authorization"), "Bearer test-token")
		}
		fmt.Fprint(w, `[{"name":"main"},{"name":"dev"}]`)
	})
	c := newTestClient(t, mux)

	branches, err := c.ListBranches(context.Background(), "octo/demo")
	if err != nil {
		t.Fatalf("ListBranches error: %v", err)
	}
	if want := []string{"main", "dev"}; !reflect.DeepEqual(branches, want) {
		t.Errorf("branches = %v, want %v", branches, want)
	}
}

func TestListBranches_Paginates(t *testing.T) {
	mux := http.NewServeMux()
	var serverURL string
	mux.HandleFunc("/repos/octo/demo/branches", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			fmt.Fprint(w, `[{"name":"b2"}]`)
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/octo/demo/branches?page=2>; rel="next"`, serverURL))
		fmt.Fprint(w, `[{"name":"b1"}]`)
	})
	server := httptest.NewServer(mux)
	defer server.Close()
	serverURL = server.URL

	c, err := NewClient("test-token", Options{APIURL: server.URL, HTTPClient: server.Client()})
	if err != nil {
		t.Fatal(err)
	}
	branches, err := c.ListBranches(context.Background(), "octo/demo")
	if err != nil {
		t.Fatalf("ListBranches error: %v", err)
	}
	if want := []string{"b1", "b2"}; !reflect.DeepEqual(branches, want) {
		t.Errorf("branches = %v, want %v", branches, want)
	}
}

func TestListBranches_Non2xx(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/branches", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		fmt.Fprint(w, `{"message":"Not Found"}`)
	})
	c := newTestClient(t, mux)

	branches, err := c.ListBranches(context.Background(), "octo/demo")
	if err == nil {
		t.Fatal("Expected error for 404")
	}
	if len(branches) != 0 {
		t.Errorf("branches = %v, want none", branches)
	}
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %T, want *FetchError", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", fe.Status)
	}
}

func TestListBranches_InvalidRepo(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())
	if _, err := c.ListBranches(context.Background(), "not-a-slug"); err == nil {
		t.Fatal("Expected error for invalid repo")
	}
}

func TestListPullRequests(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls", func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("state"); got != "open" {
			t.Errorf("state = %q, want open", got)
		}
		if got := r.URL.Query().Get("base"); got != "main" {
			t.Errorf("base = %q, want main", got)
		}
		// The second PR targets another base; the client must drop it even if the
		// server ignores the filter.
		fmt.Fprint(w, `[
			{"number":7,"title":"Speed up parser","created_at":"2024-05-01T10:00:00Z",
			 "head":{"ref":"feature/parser"},"base":{"ref":"main"}},
			{"number":8,"title":"Docs","created_at":"2024-05-02T10:00:00Z",
			 "head":{"ref":"docs"},"base":{"ref":"release"}}
		]`)
	})
	mux.HandleFunc("/repos/octo/demo/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"filename":"app/main.py","status":"modified","patch":"@@ -1 +1 @@"},
			{"filename":"README.md","status":"modified","patch":"@@ -1 +1 @@"}
		]`)
	})
	c := newTestClient(t, mux)

	prs, err := c.ListPullRequests(context.Background(), "octo/demo", "main", ".py")
	if err != nil {
		t.Fatalf("ListPullRequests error: %v", err)
	}
	if len(prs) != 1 {
		t.Fatalf("len(prs) = %d, want 1", len(prs))
	}
	pr := prs[0]
	if pr.Number != 7 || pr.Branch != "feature/parser" || pr.Base != "main" {
		t.Errorf("pr = %+v", pr)
	}
	if want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC); !pr.CreatedAt.Equal(want) {
		t.Errorf("CreatedAt = %v, want %v", pr.CreatedAt, want)
	}
	if want := []ChangedFile{{Name: "app/main.py", Status: "modified"}}; !reflect.DeepEqual(pr.Files, want) {
		t.Errorf("Files = %+v, want %+v", pr.Files, want)
	}
	if got, want := pr.Label(), "#7 - Speed up parser (→ feature/parser)"; got != want {
		t.Errorf("Label() = %q, want %q", got, want)
	}
}

func TestGetPullRequest(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/5", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"number":5,"title":"Fix loop","head":{"ref":"fix"},"base":{"ref":"main"}}`)
	})
	mux.HandleFunc("/repos/octo/demo/pulls/5/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[{"filename":"loop.py","status":"modified"},{"filename":"go.mod","status":"modified"}]`)
	})
	c := newTestClient(t, mux)

	pr, err := c.GetPullRequest(context.Background(), "octo/demo", 5, ".py")
	if err != nil {
		t.Fatalf("GetPullRequest error: %v", err)
	}
	if pr.Branch != "fix" || pr.Title != "Fix loop" {
		t.Errorf("pr = %+v", pr)
	}
	if len(pr.Files) != 1 || pr.Files[0].Name != "loop.py" {
		t.Errorf("Files = %+v", pr.Files)
	}

	if _, err := c.GetPullRequest(context.Background(), "octo/demo", 6, ".py"); err == nil {
		t.Error("Expected error for missing PR")
	}
}

func TestFilterByBase(t *testing.T) {
	fixture := []PullRequestSummary{
		{Number: 1, Base: "main"},
		{Number: 2, Base: "develop"},
		{Number: 3, Base: "main"},
		{Number: 4, Base: "main-old"},
	}
	tests := []struct {
		base string
		want []int
	}{
		{"main", []int{1, 3}},
		{"develop", []int{2}},
		{"missing", []int{}},
		{"", []int{1, 2, 3, 4}},
	}
	for _, tt := range tests {
		t.Run(tt.base, func(t *testing.T) {
			got := []int{}
			for _, pr := range FilterByBase(fixture, tt.base) {
				got = append(got, pr.Number)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("FilterByBase(%q) = %v, want %v", tt.base, got, tt.want)
			}
		})
	}
}

func TestFilterFiles(t *testing.T) {
	files := []ChangedFile{{Name: "a.py"}, {Name: "b.pyc"}, {Name: "c.go"}, {Name: "d/e.py"}}
	got := FilterFiles(files, ".py")
	if len(got) != 2 || got[0].Name != "a.py" || got[1].Name != "d/e.py" {
		t.Errorf("FilterFiles = %+v", got)
	}
	if got := FilterFiles(files, ""); len(got) != len(files) {
		t.Errorf("empty ext should keep all files, got %d", len(got))
	}
}

func TestFileDiff(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octo/demo/pulls/3/files", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `[
			{"filename":"app.py","status":"modified","patch":"@@ -1 +1 @@\n-a\n+b"},
			{"filename":"logo.png","status":"added"}
		]`)
	})
	c := newTestClient(t, mux)
	ctx := context.Background()

	diff, err := c.FileDiff(ctx, "octo/demo", 3, "app.py")
	if err != nil {
		t.Fatalf("FileDiff error: %v", err)
	}
	if diff != "@@ -1 +1 @@\n-a\n+b" {
		t.Errorf("diff = %q", diff)
	}

	if _, err := c.FileDiff(ctx, "octo/demo", 3, "logo.png"); !errors.Is(err, ErrNoPatch) {
		t.Errorf("binary file err = %v, want ErrNoPatch", err)
	}
	if _, err := c.FileDiff(ctx, "octo/demo", 3, "other.py"); !errors.Is(err, ErrFileNotInPullRequest) {
		t.Errorf("missing file err = %v, want ErrFileNotInPullRequest", err)
	}
}

func TestFetchRaw(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/raw/octo/demo/feature/x/src/app.py", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer test-token" {
			t.Errorf("Authorization = %q", r.Header.Get("Authorization"))
		}
		fmt.Fprint(w, "print('hi')\n")
	})
	c := newTestClient(t, mux)

	content, err := c.FetchRaw(context.Background(), "octo/demo", "feature/x", "src/app.py")
	if err != nil {
		t.Fatalf("FetchRaw error: %v", err)
	}
	if content != "print('hi')\n" {
		t.Errorf("content = %q", content)
	}
}

func TestFetchRaw_NotFound(t *testing.T) {
	c := newTestClient(t, http.NewServeMux())

	_, err := c.FetchRaw(context.Background(), "octo/demo", "main", "gone.py")
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("err = %v, want *FetchError", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Errorf("Status = %d, want 404", fe.Status)
	}
}

func TestParseRepo(t *testing.T) {
	tests := []struct {
		in          string
		owner, name string
		wantErr     bool
	}{
		{"octo/demo", "octo", "demo", false},
		{" octo/demo ", "octo", "demo", false},
		{"octo", "", "", true},
		{"octo/", "", "", true},
		{"a/b/c", "", "", true},
	}
	for _, tt := range tests {
		owner, name, err := ParseRepo(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseRepo(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseRepo(%q) error: %v", tt.in, err)
			continue
		}
		if owner != tt.owner || name != tt.name {
			t.Errorf("ParseRepo(%q) = %q, %q", tt.in, owner, name)
		}
	}
}

func TestParseRemoteURL(t *testing.T) {
	tests := []struct {
		url   string
		owner string
		repo  string
	}{
		{"https://github.com/octo/demo.git", "octo", "demo"},
		{"https://github.com/octo/demo", "octo", "demo"},
		{"git@github.com:octo/demo.git", "octo", "demo"},
		{"https://github.com/golang/go.dev.git", "golang", "go.dev"},
		{"https://github.com/golang/go.dev", "golang", "go.dev"},
		{"git@github.com:octo/my.lib.git", "octo", "my.lib"},
	}
	for _, tt := range tests {
		owner, repo, err := ParseRemoteURL(tt.url)
		if err != nil {
			t.Errorf("ParseRemoteURL(%q) error: %v", tt.url, err)
			continue
		}
		if owner != tt.owner || repo != tt.repo {
			t.Errorf("ParseRemoteURL(%q) = (%q, %q), want (%q, %q)", tt.url, owner, repo, tt.owner, tt.repo)
		}
	}
	if _, _, err := ParseRemoteURL("not a url"); err == nil {
		t.Error("Expected error for unparseable URL")
	}
}
