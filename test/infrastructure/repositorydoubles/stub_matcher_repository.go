//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
)

// StubMatcherRepository implements repositories.MatcherRepository with canned
// results: Match always returns Result and Replace always returns Replaced.
type StubMatcherRepository struct {
	Term     string
	Language string
	Result   entities.Match
	Replaced string

	MatchCalls int
}

var _ repositories.MatcherRepository = (*StubMatcherRepository)(nil)

func (s *StubMatcherRepository) Name() string         { return "stub" }
func (s *StubMatcherRepository) SearchTerm() string   { return s.Term }
func (s *StubMatcherRepository) CodeLanguage() string { return s.Language }

func (s *StubMatcherRepository) Match(_ string) entities.Match {
	s.MatchCalls++
	return s.Result
}

func (s *StubMatcherRepository) Replace(_ string, _ entities.Match) string {
	return s.Replaced
}
