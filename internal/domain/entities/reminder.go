package entities

import (
	"sort"
	"strings"
	"time"
)

const mentionPrefix = "@"

// Commit is the part of a commit needed to rank committers.
type Commit struct {
	CommitterLogin string
	Date           time.Time
}

// IssueComment is a comment on a pull request's issue thread.
type IssueComment struct {
	Author    string
	Body      string
	CreatedAt time.Time
}

// LastReminder scans chronologically ordered comments from newest to oldest
// and returns the creation time of the latest mention posted by actor.
func LastReminder(comments []IssueComment, actor string) (time.Time, bool) {
	for i := len(comments) - 1; i >= 0; i-- {
		comment := comments[i]
		if comment.Author == actor && strings.HasPrefix(comment.Body, mentionPrefix) {
			return comment.CreatedAt, true
		}
	}
	return time.Time{}, false
}

// RankCommitters orders committer logins by commit count, descending. Ties
// keep the order in which the committers were first seen.
func RankCommitters(commits []Commit) []string {
	counts := make(map[string]int)
	var order []string
	for _, commit := range commits {
		if commit.CommitterLogin == "" {
			continue
		}
		if _, seen := counts[commit.CommitterLogin]; !seen {
			order = append(order, commit.CommitterLogin)
		}
		counts[commit.CommitterLogin]++
	}

	sort.SliceStable(order, func(i, j int) bool {
		return counts[order[i]] > counts[order[j]]
	})
	return order
}

// MentionBody renders the reminder comment for the given logins.
func MentionBody(logins []string) string {
	mentions := make([]string, 0, len(logins))
	for _, login := range logins {
		mentions = append(mentions, mentionPrefix+login)
	}
	return strings.Join(mentions, " ")
}
