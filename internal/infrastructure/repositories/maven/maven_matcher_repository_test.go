//go:build unit

package maven_test

import (
	"strings"
	"testing"

	logtest "github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
	"github.com/rios0rios0/prbot/internal/infrastructure/repositories/maven"
)

const pom = `<?xml version="1.0" encoding="UTF-8"?>
<project xmlns="http://maven.apache.org/POM/4.0.0">
  <modelVersion>4.0.0</modelVersion>
  <dependencies>
    <dependency>
      <groupId>org.slf4j</groupId>
      <artifactId>slf4j-api</artifactId>
      <version>1.0.0</version>
    </dependency>
    <dependency>
      <groupId>junit</groupId>
      <artifactId>junit</artifactId>
      <version>1.0.0</version>
    </dependency>
  </dependencies>
  <build>
    <plugins>
      <plugin>
        <groupId>org.apache.maven.plugins</groupId>
        <artifactId>maven-compiler-plugin</artifactId>
        <version>3.1.0</version>
      </plugin>
    </plugins>
  </build>
</project>
`

func newMatcher(t *testing.T, opts entities.MatcherOptions) repositories.MatcherRepository {
	t.Helper()
	log, _ := logtest.NewNullLogger()
	matcher, err := maven.NewMatcherRepository(opts, log)
	require.NoError(t, err)
	return matcher
}

func dependencyPOM(version string) string {
	return `<project><dependencies><dependency>
<groupId>junit</groupId><artifactId>junit</artifactId><version>` + version + `</version>
</dependency></dependencies></project>`
}

func TestMavenMatcherRepositoryMatch(t *testing.T) {
	t.Parallel()

	t.Run("should find a dependency older than the minimum", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "1.2.0"})

		// when
		match := matcher.Match(pom)

		// then
		require.Equal(t, entities.MatchFound, match.Status)
		assert.Equal(t, "junit", match.Dependency.ArtifactID)
		assert.Equal(t, "1.0.0", match.Dependency.Version)
		assert.Equal(t, "1.0.0", match.Snippet)
		assert.Equal(t, "1.0.0", pom[match.Start:match.End])
		assert.Greater(t, match.Start, strings.Index(pom, "<artifactId>junit</artifactId>"))
	})

	t.Run("should not match when the dependency is newer than the minimum", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "0.9.0"})

		// when
		match := matcher.Match(pom)

		// then
		assert.Equal(t, entities.MatchNotFound, match.Status)
	})

	t.Run("should flag only versions strictly lower than the minimum", func(t *testing.T) {
		t.Parallel()

		pairs := []struct{ lower, higher string }{
			{"1.0.0", "1.0.1"},
			{"1.9.0", "1.10.0"},
			{"1.0.0-alpha", "1.0.0"},
			{"1.0.0-alpha", "1.0.0-alpha.1"},
			{"1.0.0-beta.2", "1.0.0-beta.11"},
			{"0.9.9", "1.0.0"},
			{"2.3.4", "10.0.0"},
		}
		for _, pair := range pairs {
			// given
			lowerMatcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: pair.higher})
			higherMatcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: pair.lower})
			equalMatcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: pair.lower})

			// when
			outdated := lowerMatcher.Match(dependencyPOM(pair.lower))
			newer := higherMatcher.Match(dependencyPOM(pair.higher))
			equal := equalMatcher.Match(dependencyPOM(pair.lower))

			// then
			assert.Equal(t, entities.MatchFound, outdated.Status, "%s < %s", pair.lower, pair.higher)
			assert.Equal(t, entities.MatchNotFound, newer.Status, "%s >= %s", pair.higher, pair.lower)
			assert.Equal(t, entities.MatchNotFound, equal.Status, "%s == %s", pair.lower, pair.lower)
		}
	})

	t.Run("should report an unparseable version as invalid", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "1.2.0"})

		// when
		match := matcher.Match(dependencyPOM("${junit.version}"))

		// then
		assert.Equal(t, entities.MatchInvalid, match.Status)
		assert.NotEmpty(t, match.Reason)
	})

	t.Run("should not match when the dependencies element is missing", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "1.2.0"})

		// when
		match := matcher.Match(`<project><modelVersion>4.0.0</modelVersion></project>`)

		// then
		assert.Equal(t, entities.MatchNotFound, match.Status)
	})

	t.Run("should not match content that is not XML", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "1.2.0"})

		// when
		match := matcher.Match("not xml at all")

		// then
		assert.Equal(t, entities.MatchNotFound, match.Status)
	})

	t.Run("should skip dependencies whose group differs from the filter", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "1.2.0", GroupID: "org.junit"})

		// when
		match := matcher.Match(pom)

		// then
		assert.Equal(t, entities.MatchNotFound, match.Status)
	})

	t.Run("should keep dependencies without a groupId under a group filter", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "1.2.0", GroupID: "org.junit"})
		content := `<project><dependencies><dependency>
<artifactId>junit</artifactId><version>1.0.0</version>
</dependency></dependencies></project>`

		// when
		match := matcher.Match(content)

		// then
		assert.Equal(t, entities.MatchFound, match.Status)
	})

	t.Run("should look under build/plugins for plugins", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{
			Target:         "maven-compiler-plugin",
			Version:        "3.8.1",
			DependencyType: entities.DependencyTypePlugin,
		})

		// when
		match := matcher.Match(pom)

		// then
		require.Equal(t, entities.MatchFound, match.Status)
		assert.Equal(t, "3.1.0", match.Dependency.Version)
	})
}

func TestMavenMatcherRepositoryReplace(t *testing.T) {
	t.Parallel()

	t.Run("should replace only the first matching version element", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "slf4j-api", Version: "1.2.0"})
		match := matcher.Match(pom)

		// when
		updated := matcher.Replace(pom, match)

		// then
		assert.Contains(t, updated, "<artifactId>slf4j-api</artifactId>\n      <version>1.2.0</version>")
		assert.Contains(t, updated, "<artifactId>junit</artifactId>\n      <version>1.0.0</version>")
	})

	t.Run("should not touch an earlier element holding the same version", func(t *testing.T) {
		t.Parallel()

		// given
		content := `<project>
  <parent><groupId>org.acme</groupId><artifactId>parent</artifactId><version>4.12.0</version></parent>
  <artifactId>app</artifactId>
  <version>4.12.0</version>
  <dependencies>
    <dependency><groupId>org.acme</groupId><artifactId>core</artifactId><version>4.12.0</version></dependency>
    <dependency><groupId>junit</groupId><artifactId>junit</artifactId><version>4.12.0</version></dependency>
  </dependencies>
</project>`
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "4.13.2"})
		match := matcher.Match(content)
		require.True(t, match.Found())

		// when
		updated := matcher.Replace(content, match)

		// then
		assert.Equal(t, 3, strings.Count(updated, "<version>4.12.0</version>"))
		assert.Contains(t, updated, "<artifactId>junit</artifactId><version>4.13.2</version>")
		assert.Equal(t, entities.MatchNotFound, matcher.Match(updated).Status)
	})

	t.Run("should keep the whitespace around the version text", func(t *testing.T) {
		t.Parallel()

		// given
		content := dependencyPOM("\n  4.12.0\n")
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "4.13.2"})
		match := matcher.Match(content)

		// when
		updated := matcher.Replace(content, match)

		// then
		assert.Contains(t, updated, "<version>\n  4.13.2\n</version>")
	})

	t.Run("should refuse to rewrite a version hidden behind a comment", func(t *testing.T) {
		t.Parallel()

		// given
		content := dependencyPOM("<!-- pinned -->4.12.0")
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "4.13.2"})
		match := matcher.Match(content)
		require.True(t, match.Found())

		// when
		updated := matcher.Replace(content, match)

		// then
		assert.Equal(t, content, updated)
	})

	t.Run("should leave content untouched without a match", func(t *testing.T) {
		t.Parallel()

		// given
		matcher := newMatcher(t, entities.MatcherOptions{Target: "junit", Version: "1.2.0"})

		// when
		updated := matcher.Replace(pom, entities.Match{Status: entities.MatchNotFound})

		// then
		assert.Equal(t, pom, updated)
	})
}

func TestNewMatcherRepository(t *testing.T) {
	t.Parallel()

	t.Run("should fail fast on an invalid target version", func(t *testing.T) {
		t.Parallel()

		// given
		log, _ := logtest.NewNullLogger()

		// when
		_, err := maven.NewMatcherRepository(entities.MatcherOptions{Target: "junit", Version: "1.2"}, log)

		// then
		require.ErrorIs(t, err, entities.ErrFatal)
	})

	t.Run("should reject an unknown dependency type", func(t *testing.T) {
		t.Parallel()

		// given
		log, _ := logtest.NewNullLogger()

		// when
		_, err := maven.NewMatcherRepository(
			entities.MatcherOptions{Target: "junit", Version: "1.2.0", DependencyType: "profile"}, log,
		)

		// then
		require.Error(t, err)
	})
}
