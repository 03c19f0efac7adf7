//go:build integration || unit || test

package entitybuilders //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"github.com/rios0rios0/prbot/internal/domain/entities"
	testkit "github.com/rios0rios0/testkit/pkg/test"
)

// CandidateRepositoryBuilder helps create test repositories with a fluent interface.
type CandidateRepositoryBuilder struct {
	*testkit.BaseBuilder
	owner         string
	name          string
	defaultBranch string
	fork          bool
	parentOwner   string
	parentName    string
}

// NewCandidateRepositoryBuilder creates a new repository builder with sensible defaults.
func NewCandidateRepositoryBuilder() *CandidateRepositoryBuilder {
	return &CandidateRepositoryBuilder{
		BaseBuilder:   testkit.NewBaseBuilder(),
		owner:         "upstream",
		name:          "project",
		defaultBranch: "main",
	}
}

// WithOwner sets the repository owner.
func (b *CandidateRepositoryBuilder) WithOwner(owner string) *CandidateRepositoryBuilder {
	b.owner = owner
	return b
}

// WithName sets the repository name.
func (b *CandidateRepositoryBuilder) WithName(name string) *CandidateRepositoryBuilder {
	b.name = name
	return b
}

// WithDefaultBranch sets the default branch.
func (b *CandidateRepositoryBuilder) WithDefaultBranch(branch string) *CandidateRepositoryBuilder {
	b.defaultBranch = branch
	return b
}

// WithParent marks the repository as a fork of parentOwner/parentName.
func (b *CandidateRepositoryBuilder) WithParent(parentOwner, parentName string) *CandidateRepositoryBuilder {
	b.fork = true
	b.parentOwner = parentOwner
	b.parentName = parentName
	return b
}

// Build creates the repository (satisfies testkit.Builder interface).
func (b *CandidateRepositoryBuilder) Build() interface{} {
	return b.BuildCandidateRepository()
}

// BuildCandidateRepository creates the repository with a concrete return type.
func (b *CandidateRepositoryBuilder) BuildCandidateRepository() entities.CandidateRepository {
	repo := entities.CandidateRepository{
		Owner:         b.owner,
		Name:          b.name,
		FullName:      b.owner + "/" + b.name,
		DefaultBranch: b.defaultBranch,
		CloneURL:      "https://github.com/" + b.owner + "/" + b.name + ".git",
		SSHURL:        "git@github.com:" + b.owner + "/" + b.name + ".git",
		Fork:          b.fork,
	}
	if b.fork {
		repo.ParentOwner = b.parentOwner
		repo.ParentName = b.parentName
		repo.ParentDefaultBranch = b.defaultBranch
	}
	return repo
}

// Reset clears the builder state, allowing it to be reused.
func (b *CandidateRepositoryBuilder) Reset() testkit.Builder {
	b.BaseBuilder.Reset()
	b.owner = "upstream"
	b.name = "project"
	b.defaultBranch = "main"
	b.fork = false
	b.parentOwner = ""
	b.parentName = ""
	return b
}

// Clone creates a deep copy of the CandidateRepositoryBuilder.
func (b *CandidateRepositoryBuilder) Clone() testkit.Builder {
	return &CandidateRepositoryBuilder{
		BaseBuilder:   b.BaseBuilder.Clone().(*testkit.BaseBuilder),
		owner:         b.owner,
		name:          b.name,
		defaultBranch: b.defaultBranch,
		fork:          b.fork,
		parentOwner:   b.parentOwner,
		parentName:    b.parentName,
	}
}
