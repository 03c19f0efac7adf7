package commands

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/prbot/internal/infrastructure/repositories"
)

// Reconcile is the interface for the reconciliation engine shared by the
// "bump" and "replace" subcommands.
type Reconcile interface {
	Execute(ctx context.Context, opts ReconcileOptions) (*entities.RunReport, error)
}

// ReconcileOptions holds runtime options for a single run.
type ReconcileOptions struct {
	Settings      *entities.Settings
	Token         string
	ForkOwner     string
	MatcherName   string
	Matcher       entities.MatcherOptions
	CommitMessage entities.CommitMessage
	Query         entities.SearchQuery

	DeleteForks       bool // delete an existing fork before forking again
	MentionCommitters bool // remind committers on created or existing PRs
	SweepReminders    bool // remind on every open PR before searching
	Sync              bool // sync the fork with upstream before editing
	DryRun            bool // stop after the pull request check
}

// ReconcileCommand searches candidate repositories and, for each one holding
// an outdated entry, forks, edits, pushes and opens a pull request.
// Repositories are processed one at a time, in search order.
type ReconcileCommand struct {
	remoteFactory infraRepos.RemoteFactory
	matchers      *infraRepos.MatcherRegistry
	checkouts     repositories.CheckoutRepository
	reminder      Remind
	clock         clockwork.Clock
	log           logger.FieldLogger
}

// NewReconcileCommand creates a new ReconcileCommand.
func NewReconcileCommand(
	remoteFactory infraRepos.RemoteFactory,
	matchers *infraRepos.MatcherRegistry,
	checkouts repositories.CheckoutRepository,
	reminder Remind,
	clock clockwork.Clock,
	log logger.FieldLogger,
) *ReconcileCommand {
	return &ReconcileCommand{
		remoteFactory: remoteFactory,
		matchers:      matchers,
		checkouts:     checkouts,
		reminder:      reminder,
		clock:         clock,
		log:           log,
	}
}

// run is the state shared by every repository of one execution.
type run struct {
	opts    ReconcileOptions
	remote  repositories.RemoteRepository
	matcher repositories.MatcherRepository
	branch  string
	head    string
}

// Execute runs the reconciliation. Only setup failures and fatal repository
// failures (a fork that cannot be created) are returned as errors; the report
// holds the outcome of every processed repository.
func (it *ReconcileCommand) Execute(ctx context.Context, opts ReconcileOptions) (*entities.RunReport, error) {
	remote, err := it.remoteFactory(opts.Settings, opts.Token)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}
	matcher, err := it.matchers.Get(opts.MatcherName, opts.Matcher)
	if err != nil {
		return nil, err
	}

	branch := entities.BranchName(opts.CommitMessage.Title)
	current := &run{
		opts:    opts,
		remote:  remote,
		matcher: matcher,
		branch:  branch,
		head:    entities.QualifiedHead(opts.ForkOwner, branch),
	}

	if opts.SweepReminders {
		it.reminder.Sweep(ctx, remote, opts.ForkOwner, branch, opts.Settings.ReminderInterval)
	}

	repos, err := remote.SearchRepositories(ctx, opts.Query)
	if err != nil {
		return nil, err
	}
	it.log.Infof("Found %d candidate repositories for %q", len(repos), opts.Query.String())

	if !opts.DryRun {
		if resetErr := it.checkouts.Reset(opts.Settings.WorkDir); resetErr != nil {
			return nil, fmt.Errorf("%w: %w", entities.ErrFatal, resetErr)
		}
	}

	report := &entities.RunReport{}
	for _, repo := range repos {
		if ctx.Err() != nil {
			return report, ctx.Err()
		}

		result, fatalErr := it.reconcile(ctx, current, repo)
		report.Add(result)
		if fatalErr != nil {
			return report, fatalErr
		}
	}

	it.log.Infof(
		"Run complete: %d repositories checked, %d pull requests created, %d skipped, %d aborted",
		len(report.Results),
		report.Count(entities.OutcomeDone),
		report.Count(entities.OutcomeSkipped),
		report.Count(entities.OutcomeAborted),
	)
	return report, nil
}

// reconcile drives one repository through the state machine. The returned
// error is only set when the whole run must stop.
func (it *ReconcileCommand) reconcile(
	ctx context.Context,
	current *run,
	repo entities.CandidateRepository,
) (entities.RepositoryResult, error) {
	log := it.log.WithField("repo", repo.FullName)
	result := entities.RepositoryResult{Repository: repo}
	opts := current.opts

	location, outcome, err := it.check(ctx, current, repo, log)
	if location == nil {
		result.Outcome = outcome
		result.Err = err
		return result, nil
	}

	existing, done := it.findOpenPullRequest(ctx, current, repo, log)
	if done {
		result.Outcome = entities.OutcomeSkipped
		result.PullRequest = existing
		return result, nil
	}

	if opts.DryRun {
		log.Infof("Dry run: would open a pull request for %s", location.FilePath)
		result.Outcome = entities.OutcomeDryRun
		return result, nil
	}

	checkout, err := it.prepareCheckout(ctx, current, repo, log)
	if err != nil {
		result.Outcome = entities.OutcomeAborted
		result.Err = err
		if errors.Is(err, entities.ErrFatal) {
			return result, err
		}
		return result, nil
	}

	outcome, err = it.edit(ctx, current, checkout, location.FilePath, log)
	if outcome != entities.OutcomeDone {
		result.Outcome = outcome
		result.Err = err
		return result, nil
	}

	pr, outcome, err := it.openPullRequest(ctx, current, repo, log)
	result.Outcome = outcome
	result.PullRequest = pr
	result.Err = err
	return result, nil
}

// check finds the file to edit through code search and validates the match
// against freshly fetched content.
func (it *ReconcileCommand) check(
	ctx context.Context,
	current *run,
	repo entities.CandidateRepository,
	log logger.FieldLogger,
) (*entities.MatchLocation, entities.Outcome, error) {
	hits, err := current.remote.SearchCode(ctx, entities.CodeQuery{
		Term:       current.matcher.SearchTerm(),
		Language:   current.matcher.CodeLanguage(),
		Repository: repo.FullName,
	})
	if err != nil {
		log.Warnf("Code search failed: %v", err)
		return nil, entities.OutcomeNoMatch, err
	}
	if len(hits) == 0 {
		log.Debug("No code search hits")
		return nil, entities.OutcomeNoMatch, nil
	}

	rawURL, err := entities.RawURL(hits[0].HTMLURL, repo.DefaultBranch)
	if err != nil {
		log.Warnf("Unusable search hit: %v", err)
		return nil, entities.OutcomeNoMatch, err
	}
	raw, err := entities.ParseRawURL(rawURL, repo.DefaultBranch)
	if err != nil {
		log.Warnf("Unusable search hit: %v", err)
		return nil, entities.OutcomeNoMatch, err
	}

	content, err := current.remote.FetchRaw(ctx, rawURL)
	if err != nil {
		log.Warnf("Failed to fetch %s: %v", rawURL, err)
		return nil, entities.OutcomeNoMatch, err
	}

	match := current.matcher.Match(content)
	switch match.Status {
	case entities.MatchInvalid:
		log.Warnf("Skipping %s: %s", raw.Path, match.Reason)
		return nil, entities.OutcomeInvalid, nil
	case entities.MatchNotFound:
		log.Debugf("Nothing to update in %s", raw.Path)
		return nil, entities.OutcomeNoMatch, nil
	}

	if match.Dependency != nil {
		log.Infof("%s has %s version %s", raw.Path, match.Dependency.ArtifactID, match.Dependency.Version)
	} else {
		log.Infof("%s contains %q", raw.Path, match.Snippet)
	}
	return &entities.MatchLocation{RawURL: rawURL, FilePath: raw.Path, Match: match}, entities.OutcomeDone, nil
}

// findOpenPullRequest reports whether the repository must be skipped because
// a pull request from the run's branch is already open, or cannot be checked.
func (it *ReconcileCommand) findOpenPullRequest(
	ctx context.Context,
	current *run,
	repo entities.CandidateRepository,
	log logger.FieldLogger,
) (*entities.PullRequest, bool) {
	prs, err := current.remote.ListOpenPullRequests(ctx, repo.Owner, repo.Name, current.head)
	if err != nil {
		log.Warnf("Failed to check for open pull requests, skipping: %v", err)
		return nil, true
	}
	if len(prs) == 0 {
		return nil, false
	}

	existing := prs[0]
	log.Infof("Pull request from %s already open: %s", current.head, existing.URL)
	it.remind(ctx, current, existing)
	return &existing, true
}

// prepareCheckout forks the repository and clones the fork, synced with
// upstream when requested.
func (it *ReconcileCommand) prepareCheckout(
	ctx context.Context,
	current *run,
	repo entities.CandidateRepository,
	log logger.FieldLogger,
) (entities.LocalCheckout, error) {
	opts := current.opts
	settings := opts.Settings

	if opts.DeleteForks {
		deleted, err := current.remote.DeleteRepository(ctx, opts.ForkOwner, repo.Name)
		switch {
		case err != nil:
			log.Warnf("Couldn't delete fork %s/%s: %v", opts.ForkOwner, repo.Name, err)
		case deleted:
			log.Infof("Deleted fork %s/%s", opts.ForkOwner, repo.Name)
		default:
			log.Infof("No fork %s/%s to delete", opts.ForkOwner, repo.Name)
		}
	}

	fork, err := current.remote.Fork(ctx, repo.Owner, repo.Name)
	if err != nil {
		log.Errorf("Couldn't fork %s to %s: %v", repo.FullName, opts.ForkOwner, err)
		return entities.LocalCheckout{}, fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	// forks are created asynchronously
	if err = sleep(ctx, it.clock, settings.ForkDelay); err != nil {
		return entities.LocalCheckout{}, err
	}

	destination := filepath.Join(settings.WorkDir, repo.Owner+"_"+repo.Name)
	checkout, err := it.checkouts.Clone(
		ctx, current.remote.CloneURL(fork), destination, settings.CloneAttempts, settings.CloneRetryDelay,
	)
	if err != nil {
		log.Errorf("Giving up on %s: %v", repo.FullName, err)
		return entities.LocalCheckout{}, err
	}

	if opts.Sync {
		if err = it.checkouts.SyncWithUpstream(
			ctx, checkout, repo.DefaultBranch, current.remote.CloneURL(repo), settings.SyncRollback,
		); err != nil {
			log.Errorf("Failed to sync fork with upstream: %v", err)
			return entities.LocalCheckout{}, err
		}
	}
	return checkout, nil
}

// edit re-validates the match on the checkout, rewrites the file and pushes
// the branch. OutcomeDone means the branch is ready for a pull request.
func (it *ReconcileCommand) edit(
	ctx context.Context,
	current *run,
	checkout entities.LocalCheckout,
	path string,
	log logger.FieldLogger,
) (entities.Outcome, error) {
	content, err := it.checkouts.ReadFile(checkout, path)
	if err != nil {
		if errors.Is(err, entities.ErrFileNotFound) {
			log.Infof("%s no longer exists on the default branch, skipping", path)
			return entities.OutcomeMissingFile, err
		}
		return entities.OutcomeAborted, err
	}

	match := current.matcher.Match(content)
	if !match.Found() {
		log.Infof("%s no longer needs an update (%s), skipping", path, match.Status)
		if match.Status == entities.MatchInvalid {
			return entities.OutcomeInvalid, nil
		}
		return entities.OutcomeNoMatch, nil
	}

	updated := current.matcher.Replace(content, match)
	if updated == content {
		return entities.OutcomeAborted, fmt.Errorf("replacing %q in %s changed nothing", match.Snippet, path)
	}
	if after := current.matcher.Match(updated); after.Found() && after.SameDependency(match) {
		return entities.OutcomeAborted, fmt.Errorf(
			"%s still has %s at %s after the edit", path, match.Dependency.ArtifactID, match.Dependency.Version,
		)
	}
	if err = it.checkouts.WriteFile(checkout, path, updated); err != nil {
		return entities.OutcomeAborted, err
	}

	if err = it.checkouts.CommitAndPush(ctx, checkout, current.branch, []string{path}, current.opts.CommitMessage); err != nil {
		log.Errorf("Failed to push %s: %v", current.branch, err)
		return entities.OutcomeAborted, err
	}
	log.Infof("Pushed branch %s", current.branch)
	return entities.OutcomeDone, nil
}

// openPullRequest re-checks for an open pull request and creates one.
func (it *ReconcileCommand) openPullRequest(
	ctx context.Context,
	current *run,
	repo entities.CandidateRepository,
	log logger.FieldLogger,
) (*entities.PullRequest, entities.Outcome, error) {
	prs, err := current.remote.ListOpenPullRequests(ctx, repo.Owner, repo.Name, current.head)
	if err == nil && len(prs) > 0 {
		existing := prs[0]
		log.Infof("Pull request opened meanwhile: %s", existing.URL)
		it.remind(ctx, current, existing)
		return &existing, entities.OutcomeSkipped, nil
	}

	message := current.opts.CommitMessage
	pr, err := current.remote.CreatePullRequest(ctx, repo.Owner, repo.Name, entities.PullRequestInput{
		Title: entities.PullRequestTitle(message.Title),
		Head:  current.head,
		Base:  repo.DefaultBranch,
		Body:  message.Body,
	})
	if err != nil {
		if errors.Is(err, entities.ErrPullRequestExists) {
			log.Infof("Pull request already exists: %v", err)
			return nil, entities.OutcomeSkipped, err
		}
		log.Errorf("Couldn't create pull request from %s: %v", current.head, err)
		return nil, entities.OutcomeAborted, err
	}

	log.Infof("Created pull request %s", pr.URL)
	it.remind(ctx, current, pr)
	return &pr, entities.OutcomeDone, nil
}

func (it *ReconcileCommand) remind(ctx context.Context, current *run, pr entities.PullRequest) {
	if !current.opts.MentionCommitters {
		return
	}
	it.reminder.RemindPullRequest(
		ctx, current.remote, pr, current.opts.ForkOwner, current.opts.Settings.ReminderInterval,
	)
}

// sleep waits for d on clock unless ctx is done first.
func sleep(ctx context.Context, clock clockwork.Clock, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-clock.After(d):
		return nil
	}
}
