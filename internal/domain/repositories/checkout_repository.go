package repositories

import (
	"context"
	"time"

	"github.com/rios0rios0/prbot/internal/domain/entities"
)

// CheckoutRepository manages local clones of forks and runs git against them.
type CheckoutRepository interface {
	// Reset removes the working tree root and everything below it.
	Reset(root string) error

	// Clone clones url into destination, retrying up to attempts times with
	// delay between attempts.
	Clone(ctx context.Context, url, destination string, attempts int, delay time.Duration) (entities.LocalCheckout, error)

	// SyncWithUpstream brings the fork's default branch in line with upstream
	// and force-pushes it to origin. rollback is how many commits to drop
	// before pulling.
	SyncWithUpstream(
		ctx context.Context,
		checkout entities.LocalCheckout,
		defaultBranch, upstreamURL string,
		rollback int,
	) error

	// CommitAndPush creates branch, commits exactly files and force-pushes.
	CommitAndPush(
		ctx context.Context,
		checkout entities.LocalCheckout,
		branch string,
		files []string,
		message entities.CommitMessage,
	) error

	// ReadFile reads a file relative to the checkout root.
	// Returns entities.ErrFileNotFound if it does not exist.
	ReadFile(checkout entities.LocalCheckout, path string) (string, error)

	// WriteFile overwrites a file relative to the checkout root.
	WriteFile(checkout entities.LocalCheckout, path, content string) error
}
