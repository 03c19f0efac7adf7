//go:build unit

package entities_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/prbot/internal/domain/entities"
)

func TestParseCommitMessage(t *testing.T) {
	t.Parallel()

	t.Run("should use the first line as title and the whole message as body", func(t *testing.T) {
		t.Parallel()

		// given
		content := "Bump junit to 4.13.2\r\n\r\nFixes CVE-2020-15250.\r\n"

		// when
		message, err := entities.ParseCommitMessage(content)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Bump junit to 4.13.2", message.Title)
		assert.Equal(t, content, message.Body)
	})

	t.Run("should reject a message with a blank first line", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.ParseCommitMessage("   \nbody only")

		// then
		require.Error(t, err)
	})
}

func TestReadCommitMessageFile(t *testing.T) {
	t.Parallel()

	t.Run("should read and parse the file", func(t *testing.T) {
		t.Parallel()

		// given
		path := filepath.Join(t.TempDir(), "message.txt")
		require.NoError(t, os.WriteFile(path, []byte("Replace log4j\n"), 0o600))

		// when
		message, err := entities.ReadCommitMessageFile(path)

		// then
		require.NoError(t, err)
		assert.Equal(t, "Replace log4j", message.Title)
	})

	t.Run("should fail for a missing file", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.ReadCommitMessageFile(filepath.Join(t.TempDir(), "missing.txt"))

		// then
		require.Error(t, err)
	})
}

func TestBranchName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		title string
		want  string
	}{
		{name: "should replace whitespace runs with dashes", title: "a  b\tc", want: "a-b-c"},
		{name: "should replace characters git refuses in refs", title: "fix:a~b^c\\d", want: "fix-a-b-c-d"},
		{name: "should truncate to fifteen characters", title: "Bump junit to 4.13.2", want: "Bump-junit-to-4"},
		{name: "should keep short titles unchanged", title: "bump", want: "bump"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			got := entities.BranchName(tt.title)

			// then
			assert.Equal(t, tt.want, got)
		})
	}

	t.Run("should be deterministic for the same title", func(t *testing.T) {
		t.Parallel()

		// when
		first := entities.BranchName("Upgrade the parent POM")
		second := entities.BranchName("Upgrade the parent POM")

		// then
		assert.Equal(t, first, second)
		assert.LessOrEqual(t, len(first), 15)
	})
}

func TestPullRequestTitle(t *testing.T) {
	t.Parallel()

	t.Run("should truncate titles to fifty characters", func(t *testing.T) {
		t.Parallel()

		// given
		title := "Upgrade jackson-databind to 2.12.7.1 to fix the deserialization vulnerability"

		// when
		got := entities.PullRequestTitle(title)

		// then
		assert.Equal(t, title[:50], got)
	})

	t.Run("should keep short titles unchanged", func(t *testing.T) {
		t.Parallel()

		// when
		got := entities.PullRequestTitle("Bump junit")

		// then
		assert.Equal(t, "Bump junit", got)
	})
}
