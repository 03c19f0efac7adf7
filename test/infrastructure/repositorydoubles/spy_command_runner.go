//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"

	"github.com/rios0rios0/prbot/internal/infrastructure/repositories/git"
)

// SpyCommandRunner implements git.CommandRunner without running git.
// Every invocation is recorded; clone failures and per-subcommand errors are
// configurable.
type SpyCommandRunner struct {
	// --- configuration ---
	Clock         clockwork.Clock
	CloneFailures int                            // clone calls that fail before one succeeds
	OnClone       func(destination string) error // runs on a successful clone
	FailOn        map[string]error               // subcommand -> error

	// --- spy ---
	Calls      [][]string
	Dirs       []string
	CloneTimes []time.Time
	cloneCalls int
}

var _ git.CommandRunner = (*SpyCommandRunner)(nil)

func (s *SpyCommandRunner) Run(_ context.Context, dir string, args ...string) (string, error) {
	s.Calls = append(s.Calls, args)
	s.Dirs = append(s.Dirs, dir)

	if len(args) == 0 {
		return "", nil
	}

	if args[0] == "clone" {
		s.cloneCalls++
		if s.Clock != nil {
			s.CloneTimes = append(s.CloneTimes, s.Clock.Now())
		}
		if s.cloneCalls <= s.CloneFailures {
			return "fatal: unable to access", &git.CommandError{
				Args:     args,
				ExitCode: 128,
				Output:   "fatal: unable to access",
				Err:      fmt.Errorf("clone attempt %d failed", s.cloneCalls),
			}
		}
		if s.OnClone != nil {
			return "", s.OnClone(args[len(args)-1])
		}
		return "", nil
	}

	if err, ok := s.FailOn[args[0]]; ok {
		return "error", err
	}
	return "", nil
}

// Subcommands returns the first argument of every recorded call.
func (s *SpyCommandRunner) Subcommands() []string {
	result := make([]string, 0, len(s.Calls))
	for _, call := range s.Calls {
		if len(call) > 0 {
			result = append(result, call[0])
		}
	}
	return result
}

// CloneCalls returns how many clone invocations were made.
func (s *SpyCommandRunner) CloneCalls() int {
	return s.cloneCalls
}
