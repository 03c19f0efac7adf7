package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
	infraRepos "github.com/rios0rios0/prbot/internal/infrastructure/repositories"
)

// Remind is the interface for the reminder policy.
type Remind interface {
	// Execute sweeps every open PR of the actor created from the branch
	// derived from the commit message (the "remind" subcommand).
	Execute(ctx context.Context, opts RemindOptions) error

	// RemindPullRequest mentions the top committers of the PR's base
	// repository unless the actor reminded them recently. Returns true when a
	// comment was posted.
	RemindPullRequest(
		ctx context.Context,
		remote repositories.RemoteRepository,
		pr entities.PullRequest,
		actor string,
		interval time.Duration,
	) bool

	// Sweep reminds on the open PR with head actor:branch of every fork the
	// actor owns. Returns how many comments were posted.
	Sweep(
		ctx context.Context,
		remote repositories.RemoteRepository,
		actor, branch string,
		interval time.Duration,
	) int
}

// RemindOptions holds runtime options for a standalone reminder sweep.
type RemindOptions struct {
	Settings      *entities.Settings
	Token         string
	Actor         string
	CommitMessage entities.CommitMessage
}

// RemindCommand implements the reminder policy.
type RemindCommand struct {
	remoteFactory infraRepos.RemoteFactory
	clock         clockwork.Clock
	log           logger.FieldLogger
}

// NewRemindCommand creates a new RemindCommand.
func NewRemindCommand(
	remoteFactory infraRepos.RemoteFactory,
	clock clockwork.Clock,
	log logger.FieldLogger,
) *RemindCommand {
	return &RemindCommand{
		remoteFactory: remoteFactory,
		clock:         clock,
		log:           log,
	}
}

func (it *RemindCommand) Execute(ctx context.Context, opts RemindOptions) error {
	remote, err := it.remoteFactory(opts.Settings, opts.Token)
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	branch := entities.BranchName(opts.CommitMessage.Title)
	posted := it.Sweep(ctx, remote, opts.Actor, branch, opts.Settings.ReminderInterval)
	it.log.Infof("Reminder sweep complete: %d comments posted", posted)
	return nil
}

func (it *RemindCommand) Sweep(
	ctx context.Context,
	remote repositories.RemoteRepository,
	actor, branch string,
	interval time.Duration,
) int {
	forks, err := remote.ListForks(ctx, actor)
	if err != nil {
		it.log.Warnf("Failed to list forks of %s: %v", actor, err)
		return 0
	}
	it.log.Infof("Checking %d forks of %s for open pull requests", len(forks), actor)

	head := entities.QualifiedHead(actor, branch)
	posted := 0
	for _, fork := range forks {
		if !fork.HasParent() {
			continue
		}

		prs, listErr := remote.ListOpenPullRequests(ctx, fork.ParentOwner, fork.ParentName, head)
		if listErr != nil {
			it.log.Warnf("Failed to list pull requests of %s/%s: %v", fork.ParentOwner, fork.ParentName, listErr)
			continue
		}
		if len(prs) == 0 {
			continue
		}

		if it.RemindPullRequest(ctx, remote, prs[0], actor, interval) {
			posted++
		}
	}
	return posted
}

func (it *RemindCommand) RemindPullRequest(
	ctx context.Context,
	remote repositories.RemoteRepository,
	pr entities.PullRequest,
	actor string,
	interval time.Duration,
) bool {
	log := it.log.WithField("repo", pr.Owner+"/"+pr.Repository)

	comments, err := remote.ListIssueComments(ctx, pr.Owner, pr.Repository, pr.Number)
	if err != nil {
		log.Warnf("Failed to read comments of #%d, not reminding: %v", pr.Number, err)
		return false
	}

	if last, ok := entities.LastReminder(comments, actor); ok {
		if age := it.clock.Since(last); age < interval {
			log.Debugf("Last reminder on #%d was %s ago, skipping", pr.Number, age.Round(time.Second))
			return false
		}
	}

	commits, err := remote.ListCommits(ctx, pr.Owner, pr.Repository)
	if err != nil {
		log.Warnf("Failed to list commits, not reminding on #%d: %v", pr.Number, err)
		return false
	}

	committers := entities.RankCommitters(commits)
	if len(committers) == 0 {
		log.Infof("No committers to mention on #%d", pr.Number)
		return false
	}

	body := entities.MentionBody(committers)
	if commentErr := remote.CreateIssueComment(ctx, pr.Owner, pr.Repository, pr.Number, body); commentErr != nil {
		log.Errorf("Failed to mention committers %q on #%d: %v", body, pr.Number, commentErr)
		return false
	}

	log.Infof("Mentioned recent committers on #%d: %q", pr.Number, body)
	return true
}
