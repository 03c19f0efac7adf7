//go:build integration || unit || test

package repositorydoubles //nolint:revive,staticcheck // Test package naming follows established project structure

import (
	"context"
	"fmt"
	"time"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
)

// CloneCall records one Clone invocation.
type CloneCall struct {
	URL         string
	Destination string
	Attempts    int
	Delay       time.Duration
}

// CommitCall records one CommitAndPush invocation.
type CommitCall struct {
	Branch  string
	Files   []string
	Message entities.CommitMessage
}

// SpyCheckoutRepository implements repositories.CheckoutRepository in memory.
type SpyCheckoutRepository struct {
	// --- Reset ---
	ResetErr   error
	ResetRoots []string

	// --- Clone ---
	CloneErr   error
	CloneCalls []CloneCall

	// --- SyncWithUpstream ---
	SyncErr   error
	SyncCalls []string // upstream URLs

	// --- CommitAndPush ---
	CommitErr   error
	CommitCalls []CommitCall

	// --- ReadFile / WriteFile ---
	Files   map[string]string // path -> content
	Written map[string]string
}

var _ repositories.CheckoutRepository = (*SpyCheckoutRepository)(nil)

func (s *SpyCheckoutRepository) Reset(root string) error {
	s.ResetRoots = append(s.ResetRoots, root)
	return s.ResetErr
}

func (s *SpyCheckoutRepository) Clone(
	_ context.Context, url, destination string, attempts int, delay time.Duration,
) (entities.LocalCheckout, error) {
	s.CloneCalls = append(s.CloneCalls, CloneCall{
		URL: url, Destination: destination, Attempts: attempts, Delay: delay,
	})
	if s.CloneErr != nil {
		return entities.LocalCheckout{}, s.CloneErr
	}
	return entities.LocalCheckout{Path: destination, Branch: "main"}, nil
}

func (s *SpyCheckoutRepository) SyncWithUpstream(
	_ context.Context, _ entities.LocalCheckout, _, upstreamURL string, _ int,
) error {
	s.SyncCalls = append(s.SyncCalls, upstreamURL)
	return s.SyncErr
}

func (s *SpyCheckoutRepository) CommitAndPush(
	_ context.Context, _ entities.LocalCheckout, branch string, files []string, message entities.CommitMessage,
) error {
	s.CommitCalls = append(s.CommitCalls, CommitCall{Branch: branch, Files: files, Message: message})
	return s.CommitErr
}

func (s *SpyCheckoutRepository) ReadFile(_ entities.LocalCheckout, path string) (string, error) {
	content, ok := s.Files[path]
	if !ok {
		return "", fmt.Errorf("%w: %s", entities.ErrFileNotFound, path)
	}
	return content, nil
}

func (s *SpyCheckoutRepository) WriteFile(_ entities.LocalCheckout, path, content string) error {
	if s.Written == nil {
		s.Written = make(map[string]string)
	}
	s.Written[path] = content
	return nil
}
