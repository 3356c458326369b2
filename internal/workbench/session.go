package workbench

import (
	"github.com/dshills/codelens/internal/github"
	"github.com/dshills/codelens/internal/source"
	"github.com/dshills/codelens/internal/suggest"
)

// Level is the severity of a user-visible message.
type Level string

const (
	LevelInfo    Level = "info"
	LevelSuccess Level = "success"
	LevelWarning Level = "warning"
	LevelError   Level = "error"
)

// Message is one line shown to the user.
type Message struct {
	Level Level  `json:"level"`
	Text  string `json:"text"`
}

// Session is the state of one interaction. It is built from request input and
// discarded after rendering.
type Session struct {
	Authenticated bool
	Username      string
	Password      string

	Repo   string
	Token  string
	Branch string

	Branches     []string
	PullRequests []github.PullRequestSummary
	PRNumber     int
	Files        []github.ChangedFile
	FilePath     string

	Artifact *source.Artifact
	Result   *suggest.Result
	Diff     string

	Messages []Message
}

// SelectedPR returns the pull request matching PRNumber, if loaded.
func (s *Session) SelectedPR() (github.PullRequestSummary, bool) {
	for _, pr := range s.PullRequests {
		if pr.Number == s.PRNumber {
			return pr, true
		}
	}
	return github.PullRequestSummary{}, false
}

// HasErrors reports whether any error message was recorded.
func (s *Session) HasErrors() bool {
	for _, m := range s.Messages {
		if m.Level == LevelError {
			return true
		}
	}
	return false
}

// Add records a user-visible message.
func (s *Session) Add(level Level, text string) {
	s.Messages = append(s.Messages, Message{Level: level, Text: text})
}
