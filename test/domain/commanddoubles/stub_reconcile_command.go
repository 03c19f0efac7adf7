//go:build integration || unit || test

package commanddoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"

	"github.com/rios0rios0/prbot/internal/domain/commands"
	"github.com/rios0rios0/prbot/internal/domain/entities"
)

// StubReconcileCommand is a stub implementation of commands.Reconcile.
type StubReconcileCommand struct {
	ExecuteCallCount int
	ExecuteErr       error
	Report           *entities.RunReport
	LastOpts         commands.ReconcileOptions
}

var _ commands.Reconcile = (*StubReconcileCommand)(nil)

func (s *StubReconcileCommand) Execute(
	_ context.Context,
	opts commands.ReconcileOptions,
) (*entities.RunReport, error) {
	s.ExecuteCallCount++
	s.LastOpts = opts
	if s.Report == nil {
		return &entities.RunReport{}, s.ExecuteErr
	}
	return s.Report, s.ExecuteErr
}
