//go:build unit

package entities_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rios0rios0/prbot/internal/domain/entities"
)

func TestRunReportCount(t *testing.T) {
	t.Parallel()

	t.Run("should count results per outcome", func(t *testing.T) {
		t.Parallel()

		// given
		report := &entities.RunReport{}
		report.Add(entities.RepositoryResult{Outcome: entities.OutcomeDone})
		report.Add(entities.RepositoryResult{Outcome: entities.OutcomeSkipped})
		report.Add(entities.RepositoryResult{Outcome: entities.OutcomeDone})

		// when
		done := report.Count(entities.OutcomeDone)
		aborted := report.Count(entities.OutcomeAborted)

		// then
		assert.Equal(t, 2, done)
		assert.Equal(t, 0, aborted)
		assert.Equal(t, "done", entities.OutcomeDone.String())
	})
}
