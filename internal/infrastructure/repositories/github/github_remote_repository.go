package github

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	gh "github.com/google/go-github/v66/github"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
)

const (
	perPage = 100

	// search requires a non-empty query
	fallbackRepositoryQuery = "is:public"
)

// GitHubRemoteRepository implements repositories.RemoteRepository for GitHub
// and GitHub Enterprise.
type GitHubRemoteRepository struct {
	token         string
	domain        string
	cloneProtocol string
	maxPages      int
	httpClient    *http.Client
	client        *gh.Client
	log           logger.FieldLogger
}

// NewGitHubRemoteRepository creates a GitHub client authenticated with token
// against the API configured in settings.
func NewGitHubRemoteRepository(
	settings *entities.Settings,
	token string,
	log logger.FieldLogger,
) (repositories.RemoteRepository, error) {
	baseURL, err := parseAPIURL(settings.APIURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL %q: %w", settings.APIURL, err)
	}

	httpClient := newHTTPClient(token, settings.RequestsPerSecond, log)
	client := gh.NewClient(httpClient)
	client.BaseURL = baseURL

	return &GitHubRemoteRepository{
		token:         token,
		domain:        settings.Domain,
		cloneProtocol: settings.CloneProtocol,
		maxPages:      settings.MaxSearchPages,
		httpClient:    httpClient,
		client:        client,
		log:           log,
	}, nil
}

func (r *GitHubRemoteRepository) SearchRepositories(
	ctx context.Context,
	query entities.SearchQuery,
) ([]entities.CandidateRepository, error) {
	terms := query.String()
	if strings.TrimSpace(terms) == "" {
		terms = fallbackRepositoryQuery
	}

	var repos []entities.CandidateRepository
	opts := &gh.SearchOptions{
		Sort:        "updated",
		Order:       "desc",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for page := 1; page <= r.maxPages; page++ {
		opts.Page = page
		result, resp, err := r.client.Search.Repositories(ctx, terms, opts)
		if err != nil {
			if isQuotaError(err) {
				r.log.Warnf("Repository search stopped on page %d: %v", page, err)
				return repos, nil
			}
			if page == 1 {
				return nil, fmt.Errorf("failed to search repositories: %w", err)
			}
			r.log.Warnf("Repository search failed on page %d, keeping %d results: %v", page, len(repos), err)
			return repos, nil
		}

		for _, repo := range result.Repositories {
			repos = append(repos, toCandidate(repo))
		}

		if resp.NextPage == 0 || len(repos) >= result.GetTotal() {
			break
		}
	}

	r.log.Debugf("Repository search %q returned %d repositories", terms, len(repos))
	return repos, nil
}

func (r *GitHubRemoteRepository) SearchCode(
	ctx context.Context,
	query entities.CodeQuery,
) ([]entities.CodeHit, error) {
	result, _, err := r.client.Search.Code(ctx, query.String(), &gh.SearchOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search code %q: %w", query.String(), err)
	}

	hits := make([]entities.CodeHit, 0, len(result.CodeResults))
	for _, code := range result.CodeResults {
		hits = append(hits, entities.CodeHit{
			HTMLURL: code.GetHTMLURL(),
			Path:    code.GetPath(),
		})
	}
	return hits, nil
}

func (r *GitHubRemoteRepository) FetchRaw(ctx context.Context, rawURL string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return "", fmt.Errorf("failed to build request for %q: %w", rawURL, err)
	}

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to fetch %q: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", fmt.Errorf("%w: %s", entities.ErrNotFound, rawURL)
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return "", fmt.Errorf("failed to fetch %q: unexpected status %d", rawURL, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read %q: %w", rawURL, err)
	}
	return string(body), nil
}

func (r *GitHubRemoteRepository) ListOpenPullRequests(
	ctx context.Context,
	owner, repo, head string,
) ([]entities.PullRequest, error) {
	prs, _, err := r.client.PullRequests.List(ctx, owner, repo, &gh.PullRequestListOptions{
		State:       "open",
		Head:        head,
		ListOptions: gh.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests of %s/%s: %w", owner, repo, err)
	}

	result := make([]entities.PullRequest, 0, len(prs))
	for _, pr := range prs {
		result = append(result, toPullRequest(owner, repo, pr))
	}
	return result, nil
}

func (r *GitHubRemoteRepository) Fork(
	ctx context.Context,
	owner, repo string,
) (entities.CandidateRepository, error) {
	fork, _, err := r.client.Repositories.CreateFork(ctx, owner, repo, &gh.RepositoryCreateForkOptions{})
	if err != nil {
		// 202 Accepted: the fork is being created in the background
		var accepted *gh.AcceptedError
		if !errors.As(err, &accepted) || fork == nil {
			return entities.CandidateRepository{}, fmt.Errorf("failed to fork %s/%s: %w", owner, repo, err)
		}
	}

	candidate := toCandidate(fork)
	if !candidate.HasParent() {
		candidate.ParentOwner = owner
		candidate.ParentName = repo
	}
	return candidate, nil
}

func (r *GitHubRemoteRepository) DeleteRepository(ctx context.Context, owner, repo string) (bool, error) {
	resp, err := r.client.Repositories.Delete(ctx, owner, repo)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("failed to delete %s/%s: %w", owner, repo, err)
	}
	return resp.StatusCode == http.StatusNoContent, nil
}

func (r *GitHubRemoteRepository) CreatePullRequest(
	ctx context.Context,
	owner, repo string,
	input entities.PullRequestInput,
) (entities.PullRequest, error) {
	maintainerCanModify := true
	pr, _, err := r.client.PullRequests.Create(ctx, owner, repo, &gh.NewPullRequest{
		Title:               &input.Title,
		Head:                &input.Head,
		Base:                &input.Base,
		Body:                &input.Body,
		MaintainerCanModify: &maintainerCanModify,
	})
	if err != nil {
		var errResp *gh.ErrorResponse
		if errors.As(err, &errResp) && errResp.Response != nil &&
			errResp.Response.StatusCode == http.StatusUnprocessableEntity {
			return entities.PullRequest{}, fmt.Errorf("%w: %s", entities.ErrPullRequestExists, errResp.Message)
		}
		return entities.PullRequest{}, fmt.Errorf("failed to create pull request on %s/%s: %w", owner, repo, err)
	}

	return toPullRequest(owner, repo, pr), nil
}

func (r *GitHubRemoteRepository) ListCommits(
	ctx context.Context,
	owner, repo string,
) ([]entities.Commit, error) {
	commits, _, err := r.client.Repositories.ListCommits(ctx, owner, repo, &gh.CommitsListOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list commits of %s/%s: %w", owner, repo, err)
	}

	result := make([]entities.Commit, 0, len(commits))
	for _, commit := range commits {
		result = append(result, entities.Commit{
			CommitterLogin: commit.GetCommitter().GetLogin(),
			Date:           commit.GetCommit().GetCommitter().GetDate().Time,
		})
	}
	return result, nil
}

func (r *GitHubRemoteRepository) ListIssueComments(
	ctx context.Context,
	owner, repo string,
	number int,
) ([]entities.IssueComment, error) {
	var result []entities.IssueComment
	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		comments, resp, err := r.client.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list comments of %s/%s#%d: %w", owner, repo, number, err)
		}

		for _, comment := range comments {
			result = append(result, entities.IssueComment{
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return result, nil
}

func (r *GitHubRemoteRepository) CreateIssueComment(
	ctx context.Context,
	owner, repo string,
	number int,
	body string,
) error {
	_, _, err := r.client.Issues.CreateComment(ctx, owner, repo, number, &gh.IssueComment{Body: &body})
	if err != nil {
		return fmt.Errorf("failed to comment on %s/%s#%d: %w", owner, repo, number, err)
	}
	return nil
}

func (r *GitHubRemoteRepository) ListForks(
	ctx context.Context,
	owner string,
) ([]entities.CandidateRepository, error) {
	var forks []entities.CandidateRepository
	opts := &gh.RepositoryListByUserOptions{
		Type:        "owner",
		ListOptions: gh.ListOptions{PerPage: perPage},
	}

	for {
		repos, resp, err := r.client.Repositories.ListByUser(ctx, owner, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list repos for %q: %w", owner, err)
		}

		for _, repo := range repos {
			if !repo.GetFork() {
				continue
			}
			// listings omit the parent, only the full repository carries it
			full, _, getErr := r.client.Repositories.Get(ctx, owner, repo.GetName())
			if getErr != nil {
				r.log.Warnf("Failed to read fork %s/%s: %v", owner, repo.GetName(), getErr)
				continue
			}
			forks = append(forks, toCandidate(full))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return forks, nil
}

func (r *GitHubRemoteRepository) CloneURL(repo entities.CandidateRepository) string {
	if r.cloneProtocol == entities.CloneProtocolSSH {
		return fmt.Sprintf("git@%s:%s/%s.git", r.domain, repo.Owner, repo.Name)
	}
	return fmt.Sprintf(
		"https://x-access-token:%s@%s/%s/%s.git",
		r.token, r.domain, repo.Owner, repo.Name,
	)
}

// isQuotaError reports whether err means search is rate limited or forbidden.
func isQuotaError(err error) bool {
	var rateErr *gh.RateLimitError
	if errors.As(err, &rateErr) {
		return true
	}
	var abuseErr *gh.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return true
	}
	var errResp *gh.ErrorResponse
	return errors.As(err, &errResp) && errResp.Response != nil &&
		errResp.Response.StatusCode == http.StatusForbidden
}

func toCandidate(repo *gh.Repository) entities.CandidateRepository {
	parent := repo.GetParent()
	return entities.CandidateRepository{
		Owner:               repo.GetOwner().GetLogin(),
		Name:                repo.GetName(),
		FullName:            repo.GetFullName(),
		DefaultBranch:       repo.GetDefaultBranch(),
		CloneURL:            repo.GetCloneURL(),
		SSHURL:              repo.GetSSHURL(),
		Fork:                repo.GetFork(),
		ParentOwner:         parent.GetOwner().GetLogin(),
		ParentName:          parent.GetName(),
		ParentDefaultBranch: parent.GetDefaultBranch(),
	}
}

func toPullRequest(owner, repo string, pr *gh.PullRequest) entities.PullRequest {
	return entities.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		URL:        pr.GetHTMLURL(),
		HeadRef:    pr.GetHead().GetRef(),
		HeadLabel:  pr.GetHead().GetLabel(),
		BaseRef:    pr.GetBase().GetRef(),
		State:      pr.GetState(),
		Owner:      owner,
		Repository: repo,
	}
}
