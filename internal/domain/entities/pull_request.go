package entities

import "fmt"

// PullRequest is an open or freshly created pull request.
type PullRequest struct {
	Number    int
	Title     string
	URL       string
	HeadRef   string
	HeadLabel string // "owner:branch"
	BaseRef   string
	State     string
	// Owner and Repository identify the base repository the PR lives in.
	Owner      string
	Repository string
}

// PullRequestInput contains the data needed to create a pull request.
type PullRequestInput struct {
	Title string
	Head  string // "fork_owner:branch"
	Base  string
	Body  string
}

// QualifiedHead builds the qualified head reference used to find a fork's PR.
func QualifiedHead(forkOwner, branch string) string {
	return fmt.Sprintf("%s:%s", forkOwner, branch)
}
