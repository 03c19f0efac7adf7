//go:build unit

package entities_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/prbot/internal/domain/entities"
)

func TestParsePushedExpression(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		expr    string
		want    string
		wantErr bool
	}{
		{name: "should read a bare date as pushed after", expr: "2026-09-17", want: ">2026-09-17"},
		{name: "should keep a greater-or-equal prefix", expr: ">=2026-09-17", want: ">=2026-09-17"},
		{name: "should keep a less-than prefix", expr: "<2026-09-17", want: "<2026-09-17"},
		{name: "should keep a date range", expr: "2026-01-01..2026-09-17", want: "2026-01-01..2026-09-17"},
		{name: "should reject a malformed date", expr: "17/09/2026", wantErr: true},
		{name: "should reject a range with a malformed end", expr: "2026-01-01..soon", wantErr: true},
		{name: "should reject an empty expression", expr: " ", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			// when
			got, err := entities.ParsePushedExpression(tt.expr)

			// then
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewSearchQuery(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

	t.Run("should default to repositories pushed in the last month", func(t *testing.T) {
		t.Parallel()

		// when
		query, err := entities.NewSearchQuery("Java", "", false, now)

		// then
		require.NoError(t, err)
		assert.Equal(t, `pushed:>2026-09-17 language:"Java"`, query.String())
	})

	t.Run("should drop the pushed filter when disabled", func(t *testing.T) {
		t.Parallel()

		// when
		query, err := entities.NewSearchQuery("HCL", "2020-01-01", true, now)

		// then
		require.NoError(t, err)
		assert.Equal(t, `language:"HCL"`, query.String())
	})

	t.Run("should quote a language name containing a space", func(t *testing.T) {
		t.Parallel()

		// when
		query, err := entities.NewSearchQuery("Visual Basic", "", true, now)

		// then
		require.NoError(t, err)
		assert.Equal(t, `language:"Visual Basic"`, query.String())
	})

	t.Run("should return the parse error for an invalid date", func(t *testing.T) {
		t.Parallel()

		// when
		_, err := entities.NewSearchQuery("Java", "yesterday", false, now)

		// then
		require.Error(t, err)
	})
}

func TestCodeQueryString(t *testing.T) {
	t.Parallel()

	t.Run("should scope the term to the repository and quoted language", func(t *testing.T) {
		t.Parallel()

		// given
		query := entities.CodeQuery{Term: "junit", Language: "Maven POM", Repository: "acme/api"}

		// when
		got := query.String()

		// then
		assert.Equal(t, `junit repo:acme/api language:"Maven POM"`, got)
	})

	t.Run("should omit an empty language", func(t *testing.T) {
		t.Parallel()

		// when
		got := entities.CodeQuery{Term: "log4j", Repository: "acme/api"}.String()

		// then
		assert.Equal(t, "log4j repo:acme/api", got)
	})
}
