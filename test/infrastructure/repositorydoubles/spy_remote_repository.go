//go:build integration || unit || test

// Package repositorydoubles provides test doubles (spies, stubs, dummies) for
// repository interfaces. These are hand-crafted implementations, no mock frameworks.
package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
)

// SpyRemoteRepository implements repositories.RemoteRepository as a configurable spy.
// Configure the response fields for the methods your test exercises,
// then inspect the call-tracking fields to verify behavior.
type SpyRemoteRepository struct {
	// --- SearchRepositories ---
	Repositories  []entities.CandidateRepository
	SearchErr     error
	SearchQueries []entities.SearchQuery

	// --- SearchCode ---
	CodeHits    map[string][]entities.CodeHit // full name -> hits
	CodeErr     error
	CodeQueries []entities.CodeQuery

	// --- FetchRaw ---
	RawContents map[string]string // raw URL -> content
	FetchedURLs []string

	// --- ListOpenPullRequests ---
	OpenPullRequests   map[string][]entities.PullRequest // "owner/repo" -> PRs
	ListPRErr          error
	OnListPullRequests func(owner, repo, head string) ([]entities.PullRequest, error)
	ListedHeads        []string

	// --- Fork ---
	ForkErr   error
	ForkCalls []string

	// --- DeleteRepository ---
	Deleted     bool
	DeleteErr   error
	DeleteCalls []string

	// --- CreatePullRequest ---
	CreatedPR   entities.PullRequest
	CreatePRErr error
	PRInputs    []entities.PullRequestInput

	// --- ListCommits ---
	Commits        map[string][]entities.Commit // "owner/repo" -> commits
	ListCommitsErr error

	// --- ListIssueComments ---
	Comments        map[string][]entities.IssueComment // "owner/repo#number" -> comments
	ListCommentsErr error

	// --- CreateIssueComment ---
	CreateCommentErr error
	PostedComments   []string // "owner/repo#number body"

	// --- ListForks ---
	Forks        []entities.CandidateRepository
	ListForksErr error
}

var _ repositories.RemoteRepository = (*SpyRemoteRepository)(nil)

func (s *SpyRemoteRepository) SearchRepositories(
	_ context.Context, query entities.SearchQuery,
) ([]entities.CandidateRepository, error) {
	s.SearchQueries = append(s.SearchQueries, query)
	return s.Repositories, s.SearchErr
}

func (s *SpyRemoteRepository) SearchCode(
	_ context.Context, query entities.CodeQuery,
) ([]entities.CodeHit, error) {
	s.CodeQueries = append(s.CodeQueries, query)
	if s.CodeErr != nil {
		return nil, s.CodeErr
	}
	return s.CodeHits[query.Repository], nil
}

func (s *SpyRemoteRepository) FetchRaw(_ context.Context, rawURL string) (string, error) {
	s.FetchedURLs = append(s.FetchedURLs, rawURL)
	if content, ok := s.RawContents[rawURL]; ok {
		return content, nil
	}
	return "", fmt.Errorf("%w: %s", entities.ErrNotFound, rawURL)
}

func (s *SpyRemoteRepository) ListOpenPullRequests(
	_ context.Context, owner, repo, head string,
) ([]entities.PullRequest, error) {
	s.ListedHeads = append(s.ListedHeads, head)
	if s.OnListPullRequests != nil {
		return s.OnListPullRequests(owner, repo, head)
	}
	if s.ListPRErr != nil {
		return nil, s.ListPRErr
	}
	return s.OpenPullRequests[owner+"/"+repo], nil
}

func (s *SpyRemoteRepository) Fork(
	_ context.Context, owner, repo string,
) (entities.CandidateRepository, error) {
	s.ForkCalls = append(s.ForkCalls, owner+"/"+repo)
	if s.ForkErr != nil {
		return entities.CandidateRepository{}, s.ForkErr
	}
	return entities.CandidateRepository{
		Owner:       "fork-owner",
		Name:        repo,
		FullName:    "fork-owner/" + repo,
		Fork:        true,
		ParentOwner: owner,
		ParentName:  repo,
	}, nil
}

func (s *SpyRemoteRepository) DeleteRepository(_ context.Context, owner, repo string) (bool, error) {
	s.DeleteCalls = append(s.DeleteCalls, owner+"/"+repo)
	return s.Deleted, s.DeleteErr
}

func (s *SpyRemoteRepository) CreatePullRequest(
	_ context.Context, owner, repo string, input entities.PullRequestInput,
) (entities.PullRequest, error) {
	s.PRInputs = append(s.PRInputs, input)
	if s.CreatePRErr != nil {
		return entities.PullRequest{}, s.CreatePRErr
	}
	pr := s.CreatedPR
	pr.Owner = owner
	pr.Repository = repo
	return pr, nil
}

func (s *SpyRemoteRepository) ListCommits(
	_ context.Context, owner, repo string,
) ([]entities.Commit, error) {
	return s.Commits[owner+"/"+repo], s.ListCommitsErr
}

func (s *SpyRemoteRepository) ListIssueComments(
	_ context.Context, owner, repo string, number int,
) ([]entities.IssueComment, error) {
	if s.ListCommentsErr != nil {
		return nil, s.ListCommentsErr
	}
	return s.Comments[fmt.Sprintf("%s/%s#%d", owner, repo, number)], nil
}

func (s *SpyRemoteRepository) CreateIssueComment(
	_ context.Context, owner, repo string, number int, body string,
) error {
	if s.CreateCommentErr != nil {
		return s.CreateCommentErr
	}
	s.PostedComments = append(s.PostedComments, fmt.Sprintf("%s/%s#%d %s", owner, repo, number, body))
	return nil
}

func (s *SpyRemoteRepository) ListForks(
	_ context.Context, _ string,
) ([]entities.CandidateRepository, error) {
	return s.Forks, s.ListForksErr
}

func (s *SpyRemoteRepository) CloneURL(repo entities.CandidateRepository) string {
	return fmt.Sprintf("https://github.com/%s/%s.git", repo.Owner, repo.Name)
}
