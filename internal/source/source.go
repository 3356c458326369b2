// Package source defines the code artifact handed to the suggestion engine and
// decodes direct uploads into one.
package source

import (
	"fmt"
	"path"
	"strings"
	"unicode/utf8"
)

// Kind identifies where an artifact came from.
type Kind string

const (
	KindUpload      Kind = "upload"
	KindPullRequest Kind = "pull-request"
)

// Origin describes the source of an artifact.
type Origin struct {
	Kind     Kind   `json:"kind"`
	Filename string `json:"filename,omitempty"`
	Repo     string `json:"repo,omitempty"`
	Branch   string `json:"branch,omitempty"`
	PR       int    `json:"pr,omitempty"`
	Path     string `json:"path,omitempty"`
}

// String renders the origin for headings and log lines.
func (o Origin) String() string {
	switch o.Kind {
	case KindPullRequest:
		return fmt.Sprintf("%s#%d:%s@%s", o.Repo, o.PR, o.Path, o.Branch)
	default:
		return o.Filename
	}
}

// Artifact is a blob of source text plus its origin. It is never modified
// after construction.
type Artifact struct {
	Content string `json:"content"`
	Origin  Origin `json:"origin"`
}

// Name is the file name shown to the user.
func (a Artifact) Name() string {
	if a.Origin.Kind == KindPullRequest {
		return a.Origin.Path
	}
	return a.Origin.Filename
}

// Language guesses a highlighting language from the file extension. Unknown
// extensions yield "".
func (a Artifact) Language() string {
	return LanguageFor(a.Name())
}

var languages = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".jsx":   "jsx",
	".ts":    "typescript",
	".tsx":   "tsx",
	".rs":    "rust",
	".java":  "java",
	".rb":    "ruby",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".cs":    "csharp",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".sql":   "sql",
	".sh":    "bash",
	".yaml":  "yaml",
	".yml":   "yaml",
	".json":  "json",
}

// LanguageFor maps a file name to a highlighting language.
func LanguageFor(name string) string {
	return languages[strings.ToLower(path.Ext(name))]
}

// DecodeError reports an upload that is not valid UTF-8.
type DecodeError struct {
	Filename string
	Offset   int
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s is not valid UTF-8 text (invalid byte at offset %d)", e.Filename, e.Offset)
}

// FromUpload decodes an uploaded file. Content is taken as-is; only UTF-8
// validity is checked.
func FromUpload(filename string, data []byte) (Artifact, error) {
	if off := invalidOffset(data); off >= 0 {
		return Artifact{}, &DecodeError{Filename: filename, Offset: off}
	}
	return Artifact{
		Content: string(data),
		Origin:  Origin{Kind: KindUpload, Filename: filename},
	}, nil
}

// FromPullRequest wraps content fetched for a file in a pull request.
func FromPullRequest(repo, branch string, pr int, filePath, content string) Artifact {
	return Artifact{
		Content: content,
		Origin: Origin{
			Kind:   KindPullRequest,
			Repo:   repo,
			Branch: branch,
			PR:     pr,
			Path:   filePath,
		},
	}
}

func invalidOffset(data []byte) int {
	if utf8.Valid(data) {
		return -1
	}
	for i := 0; i < len(data); {
		r, size := utf8.DecodeRune(data[i:])
		if r == utf8.RuneError && size == 1 {
			return i
		}
		i += size
	}
	return -1
}
