//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/prbot/internal/domain/entities"
)

func TestMatchSplice(t *testing.T) {
	t.Parallel()

	content := "<version>1.0</version><version>1.0</version>"

	t.Run("should replace only the recorded span", func(t *testing.T) {
		t.Parallel()

		// given
		match := entities.Match{Status: entities.MatchFound, Snippet: "1.0", Start: 31, End: 34}

		// when
		updated := match.Splice(content, "2.0")

		// then
		assert.Equal(t, "<version>1.0</version><version>2.0</version>", updated)
	})

	t.Run("should leave content alone when the span no longer holds the snippet", func(t *testing.T) {
		t.Parallel()

		// given
		match := entities.Match{Status: entities.MatchFound, Snippet: "1.0", Start: 0, End: 3}

		// when
		updated := match.Splice(content, "2.0")

		// then
		assert.Equal(t, content, updated)
	})

	t.Run("should leave content alone without a span", func(t *testing.T) {
		t.Parallel()

		// given
		match := entities.Match{Status: entities.MatchFound, Snippet: "1.0"}

		// when
		updated := match.Splice(content, "2.0")

		// then
		assert.Equal(t, content, updated)
	})
}

func TestMatchSameDependency(t *testing.T) {
	t.Parallel()

	t.Run("should compare dependency descriptors by value", func(t *testing.T) {
		t.Parallel()

		// given
		first := entities.Match{Dependency: &entities.DependencyDescriptor{ArtifactID: "junit", Version: "4.12.0"}}
		same := entities.Match{Dependency: &entities.DependencyDescriptor{ArtifactID: "junit", Version: "4.12.0"}}
		bumped := entities.Match{Dependency: &entities.DependencyDescriptor{ArtifactID: "junit", Version: "4.13.2"}}

		// when / then
		assert.True(t, first.SameDependency(same))
		assert.False(t, first.SameDependency(bumped))
		assert.False(t, first.SameDependency(entities.Match{}))
	})
}
