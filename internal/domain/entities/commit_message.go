package entities

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"
)

const (
	maxBranchNameLength = 15
	maxPRTitleLength    = 50
)

var (
	whitespacePattern     = regexp.MustCompile(`\s+`)
	invalidBranchPattern  = regexp.MustCompile(`[:~^\\]+`)
	errEmptyCommitMessage = errors.New("commit message is empty")
)

// CommitMessage is the message used for the commit and the pull request.
type CommitMessage struct {
	Title string // first line
	Body  string // whole message
}

// ParseCommitMessage splits a commit message into title and body.
func ParseCommitMessage(content string) (CommitMessage, error) {
	title, _, _ := strings.Cut(content, "\n")
	title = strings.TrimRight(title, "\r")
	if strings.TrimSpace(title) == "" {
		return CommitMessage{}, errEmptyCommitMessage
	}
	return CommitMessage{Title: title, Body: content}, nil
}

// ReadCommitMessageFile reads and parses a commit message file.
func ReadCommitMessageFile(path string) (CommitMessage, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return CommitMessage{}, fmt.Errorf("failed to read commit message file: %w", err)
	}

	message, err := ParseCommitMessage(string(data))
	if err != nil {
		return CommitMessage{}, fmt.Errorf("invalid commit message file %q: %w", path, err)
	}
	return message, nil
}

// BranchName derives the deterministic branch name used as the idempotency
// key for duplicate pull request detection.
func BranchName(title string) string {
	name := whitespacePattern.ReplaceAllString(title, "-")
	name = invalidBranchPattern.ReplaceAllString(name, "-")
	return truncate(name, maxBranchNameLength)
}

// PullRequestTitle truncates a commit title to the pull request title length.
func PullRequestTitle(title string) string {
	return truncate(title, maxPRTitleLength)
}

func truncate(value string, length int) string {
	runes := []rune(value)
	if len(runes) <= length {
		return value
	}
	return string(runes[:length])
}
