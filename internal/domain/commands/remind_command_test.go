//go:build unit

package commands_test

import (
	"errors"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/prbot/internal/domain/commands"
	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
	"github.com/rios0rios0/prbot/test/domain/entitybuilders"
	doubles "github.com/rios0rios0/prbot/test/infrastructure/repositorydoubles"
)

const reminderInterval = 7 * 24 * time.Hour

//nolint:gochecknoglobals // fixed clock reading shared by the reminder tests
var reminderNow = time.Date(2026, time.October, 17, 12, 0, 0, 0, time.UTC)

func newRemindCommand(remote *doubles.SpyRemoteRepository) *commands.RemindCommand {
	log, _ := logtest.NewNullLogger()
	factory := func(_ *entities.Settings, _ string) (repositories.RemoteRepository, error) {
		return remote, nil
	}
	return commands.NewRemindCommand(factory, clockwork.NewFakeClockAt(reminderNow), log)
}

func openPullRequest() entities.PullRequest {
	return entities.PullRequest{Number: 4, Owner: "upstream", Repository: "project", HeadLabel: "bot:Bump-junit-to-4"}
}

func committers(logins ...string) []entities.Commit {
	commits := make([]entities.Commit, 0, len(logins))
	for _, login := range logins {
		commits = append(commits, entities.Commit{CommitterLogin: login, Date: reminderNow.Add(-time.Hour)})
	}
	return commits
}

func TestRemindCommandRemindPullRequest(t *testing.T) {
	t.Parallel()

	t.Run("should mention committers ranked by commit count", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{
			Commits: map[string][]entities.Commit{
				"upstream/project": committers("alice", "bob", "bob", "carol", "bob", "carol"),
			},
		}
		command := newRemindCommand(remote)

		// when
		posted := command.RemindPullRequest(t.Context(), remote, openPullRequest(), "bot", reminderInterval)

		// then
		assert.True(t, posted)
		assert.Equal(t, []string{"upstream/project#4 @bob @carol @alice"}, remote.PostedComments)
	})

	t.Run("should not remind again within the interval", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{
			Commits: map[string][]entities.Commit{"upstream/project": committers("alice")},
			Comments: map[string][]entities.IssueComment{
				"upstream/project#4": {
					{Author: "bot", Body: "@alice", CreatedAt: reminderNow.Add(-reminderInterval + time.Minute)},
				},
			},
		}
		command := newRemindCommand(remote)

		// when
		posted := command.RemindPullRequest(t.Context(), remote, openPullRequest(), "bot", reminderInterval)

		// then
		assert.False(t, posted)
		assert.Empty(t, remote.PostedComments)
	})

	t.Run("should remind again once the interval has fully elapsed", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{
			Commits: map[string][]entities.Commit{"upstream/project": committers("alice")},
			Comments: map[string][]entities.IssueComment{
				"upstream/project#4": {
					{Author: "bot", Body: "@alice", CreatedAt: reminderNow.Add(-reminderInterval)},
				},
			},
		}
		command := newRemindCommand(remote)

		// when
		posted := command.RemindPullRequest(t.Context(), remote, openPullRequest(), "bot", reminderInterval)

		// then
		assert.True(t, posted)
		assert.Equal(t, []string{"upstream/project#4 @alice"}, remote.PostedComments)
	})

	t.Run("should ignore recent mentions by other users", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{
			Commits: map[string][]entities.Commit{"upstream/project": committers("alice")},
			Comments: map[string][]entities.IssueComment{
				"upstream/project#4": {
					{Author: "bot", Body: "@alice", CreatedAt: reminderNow.Add(-30 * 24 * time.Hour)},
					{Author: "alice", Body: "@bot thanks, will look", CreatedAt: reminderNow.Add(-time.Hour)},
					{Author: "bot", Body: "rebased", CreatedAt: reminderNow.Add(-time.Minute)},
				},
			},
		}
		command := newRemindCommand(remote)

		// when
		posted := command.RemindPullRequest(t.Context(), remote, openPullRequest(), "bot", reminderInterval)

		// then
		assert.True(t, posted)
	})

	t.Run("should post nothing when there are no committers", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{}
		command := newRemindCommand(remote)

		// when
		posted := command.RemindPullRequest(t.Context(), remote, openPullRequest(), "bot", reminderInterval)

		// then
		assert.False(t, posted)
		assert.Empty(t, remote.PostedComments)
	})

	t.Run("should not remind when comments cannot be read", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{
			Commits:         map[string][]entities.Commit{"upstream/project": committers("alice")},
			ListCommentsErr: errors.New("500 internal server error"),
		}
		command := newRemindCommand(remote)

		// when
		posted := command.RemindPullRequest(t.Context(), remote, openPullRequest(), "bot", reminderInterval)

		// then
		assert.False(t, posted)
		assert.Empty(t, remote.PostedComments)
	})

	t.Run("should report a failed comment as not posted", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{
			Commits:          map[string][]entities.Commit{"upstream/project": committers("alice")},
			CreateCommentErr: errors.New("403 forbidden"),
		}
		command := newRemindCommand(remote)

		// when
		posted := command.RemindPullRequest(t.Context(), remote, openPullRequest(), "bot", reminderInterval)

		// then
		assert.False(t, posted)
	})
}

func TestRemindCommandSweep(t *testing.T) {
	t.Parallel()

	t.Run("should remind on the open pull request of every fork with a parent", func(t *testing.T) {
		t.Parallel()

		// given
		builder := entitybuilders.NewCandidateRepositoryBuilder().WithOwner("bot")
		remote := &doubles.SpyRemoteRepository{
			Forks: []entities.CandidateRepository{
				builder.WithName("project").WithParent("upstream", "project").BuildCandidateRepository(),
				builder.WithName("orphan").WithParent("", "").BuildCandidateRepository(),
				builder.WithName("idle").WithParent("acme", "idle").BuildCandidateRepository(),
			},
			OpenPullRequests: map[string][]entities.PullRequest{
				"upstream/project": {openPullRequest()},
			},
			Commits: map[string][]entities.Commit{"upstream/project": committers("alice")},
		}
		command := newRemindCommand(remote)

		// when
		posted := command.Sweep(t.Context(), remote, "bot", "Bump-junit-to-4", reminderInterval)

		// then
		assert.Equal(t, 1, posted)
		assert.Equal(t, []string{"bot:Bump-junit-to-4", "bot:Bump-junit-to-4"}, remote.ListedHeads)
		assert.Equal(t, []string{"upstream/project#4 @alice"}, remote.PostedComments)
	})

	t.Run("should post nothing when forks cannot be listed", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{ListForksErr: errors.New("401 bad credentials")}
		command := newRemindCommand(remote)

		// when
		posted := command.Sweep(t.Context(), remote, "bot", "Bump-junit-to-4", reminderInterval)

		// then
		assert.Equal(t, 0, posted)
		assert.Empty(t, remote.ListedHeads)
	})
}

func TestRemindCommandExecute(t *testing.T) {
	t.Parallel()

	t.Run("should sweep with the branch derived from the commit title", func(t *testing.T) {
		t.Parallel()

		// given
		remote := &doubles.SpyRemoteRepository{
			Forks: []entities.CandidateRepository{
				entitybuilders.NewCandidateRepositoryBuilder().WithOwner("bot").WithParent("upstream", "project").BuildCandidateRepository(),
			},
		}
		command := newRemindCommand(remote)
		opts := commands.RemindOptions{
			Settings:      entities.DefaultSettings(),
			Actor:         "bot",
			CommitMessage: entities.CommitMessage{Title: "Bump junit to 4.13.2"},
		}

		// when
		err := command.Execute(t.Context(), opts)

		// then
		require.NoError(t, err)
		assert.Equal(t, []string{"bot:Bump-junit-to-4"}, remote.ListedHeads)
	})
}
