package repositories

import (
	"context"

	"github.com/rios0rios0/prbot/internal/domain/entities"
)

// RemoteRepository abstracts the Git hosting service (GitHub or a GitHub
// Enterprise instance) providing search, raw file access, forks, pull requests
// and issue comments.
type RemoteRepository interface {
	// SearchRepositories returns candidate repositories, most recently updated
	// first. Quota or permission failures yield the partial list, not an error.
	SearchRepositories(ctx context.Context, query entities.SearchQuery) ([]entities.CandidateRepository, error)

	// SearchCode returns code search hits. Hits are only a filter, the file
	// content must be fetched and checked before use.
	SearchCode(ctx context.Context, query entities.CodeQuery) ([]entities.CodeHit, error)

	// FetchRaw downloads raw file content. Returns entities.ErrNotFound on 404.
	FetchRaw(ctx context.Context, rawURL string) (string, error)

	// ListOpenPullRequests returns the open PRs of owner/repo whose head is head
	// ("fork_owner:branch").
	ListOpenPullRequests(ctx context.Context, owner, repo, head string) ([]entities.PullRequest, error)

	// Fork forks owner/repo into the authenticated account.
	Fork(ctx context.Context, owner, repo string) (entities.CandidateRepository, error)

	// DeleteRepository deletes owner/repo and reports whether it was removed.
	DeleteRepository(ctx context.Context, owner, repo string) (bool, error)

	// CreatePullRequest opens a PR. Returns entities.ErrPullRequestExists when
	// one already exists for the same head.
	CreatePullRequest(
		ctx context.Context,
		owner, repo string,
		input entities.PullRequestInput,
	) (entities.PullRequest, error)

	// ListCommits returns the recent commits on the default branch.
	ListCommits(ctx context.Context, owner, repo string) ([]entities.Commit, error)

	// ListIssueComments returns all comments of an issue or PR, oldest first.
	ListIssueComments(ctx context.Context, owner, repo string, number int) ([]entities.IssueComment, error)

	// CreateIssueComment posts a comment on an issue or PR.
	CreateIssueComment(ctx context.Context, owner, repo string, number int, body string) error

	// ListForks returns the forks owned by owner, with their parent populated.
	ListForks(ctx context.Context, owner string) ([]entities.CandidateRepository, error)

	// CloneURL returns the URL git should clone the repository from.
	CloneURL(repo entities.CandidateRepository) string
}
