//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"time"

	"github.com/rios0rios0/prbot/internal/domain/commands"
	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
)

// StubRemindCommand is a stub implementation of commands.Remind.
type StubRemindCommand struct {
	// --- Execute ---
	ExecuteCallCount int
	ExecuteErr       error
	LastOpts         commands.RemindOptions

	// --- RemindPullRequest ---
	Reminded     []entities.PullRequest
	RemindResult bool
	LastActor    string
	LastInterval time.Duration

	// --- Sweep ---
	SweptBranches []string
	SweepResult   int
}

var _ commands.Remind = (*StubRemindCommand)(nil)

func (s *StubRemindCommand) Execute(_ context.Context, opts commands.RemindOptions) error {
	s.ExecuteCallCount++
	s.LastOpts = opts
	return s.ExecuteErr
}

func (s *StubRemindCommand) RemindPullRequest(
	_ context.Context,
	_ repositories.RemoteRepository,
	pr entities.PullRequest,
	actor string,
	interval time.Duration,
) bool {
	s.Reminded = append(s.Reminded, pr)
	s.LastActor = actor
	s.LastInterval = interval
	return s.RemindResult
}

func (s *StubRemindCommand) Sweep(
	_ context.Context,
	_ repositories.RemoteRepository,
	_ string,
	branch string,
	_ time.Duration,
) int {
	s.SweptBranches = append(s.SweptBranches, branch)
	return s.SweepResult
}
