package git

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/prbot/internal/domain/entities"
)

const (
	originRemote   = "origin"
	upstreamRemote = "upstream"

	dirMode  = 0o755
	fileMode = 0o644
)

// GitCheckoutRepository implements repositories.CheckoutRepository by invoking
// git through a CommandRunner and inspecting the result with go-git.
type GitCheckoutRepository struct {
	runner CommandRunner
	clock  clockwork.Clock
	log    logger.FieldLogger
}

// NewGitCheckoutRepository creates a checkout manager.
func NewGitCheckoutRepository(
	runner CommandRunner,
	clock clockwork.Clock,
	log logger.FieldLogger,
) *GitCheckoutRepository {
	return &GitCheckoutRepository{
		runner: runner,
		clock:  clock,
		log:    log,
	}
}

func (r *GitCheckoutRepository) Reset(root string) error {
	if err := os.RemoveAll(root); err != nil {
		return fmt.Errorf("failed to remove working tree %q: %w", root, err)
	}
	if err := os.MkdirAll(root, dirMode); err != nil {
		return fmt.Errorf("failed to create working tree %q: %w", root, err)
	}
	return nil
}

func (r *GitCheckoutRepository) Clone(
	ctx context.Context,
	url, destination string,
	attempts int,
	delay time.Duration,
) (entities.LocalCheckout, error) {
	var lastErr error

	for attempt := 1; attempt <= attempts; attempt++ {
		// a failed clone can leave a partial directory behind
		if err := os.RemoveAll(destination); err != nil {
			return entities.LocalCheckout{}, fmt.Errorf("failed to clean %q: %w", destination, err)
		}

		_, err := r.runner.Run(ctx, "", "clone", url, destination)
		if err == nil {
			branch, branchErr := currentBranch(destination)
			if branchErr != nil {
				return entities.LocalCheckout{}, branchErr
			}
			r.log.Debugf("Cloned %s into %s on branch %s", redactURL(url), destination, branch)
			return entities.LocalCheckout{Path: destination, Branch: branch}, nil
		}

		lastErr = err
		r.log.Warnf("Clone attempt %d/%d of %s failed: %v", attempt, attempts, redactURL(url), err)
		if attempt == attempts || delay <= 0 {
			continue
		}

		select {
		case <-ctx.Done():
			return entities.LocalCheckout{}, ctx.Err()
		case <-r.clock.After(delay):
		}
	}

	return entities.LocalCheckout{}, fmt.Errorf(
		"failed to clone %s after %d attempts: %w", redactURL(url), attempts, lastErr,
	)
}

func (r *GitCheckoutRepository) SyncWithUpstream(
	ctx context.Context,
	checkout entities.LocalCheckout,
	defaultBranch, upstreamURL string,
	rollback int,
) error {
	if _, err := r.runner.Run(ctx, checkout.Path, "checkout", defaultBranch); err != nil {
		return fmt.Errorf("failed to check out %s: %w", defaultBranch, err)
	}

	repo, err := gogit.PlainOpen(checkout.Path)
	if err != nil {
		return fmt.Errorf("failed to open %q: %w", checkout.Path, err)
	}

	if _, remoteErr := repo.Remote(upstreamRemote); errors.Is(remoteErr, gogit.ErrRemoteNotFound) {
		if _, addErr := r.runner.Run(ctx, checkout.Path, "remote", "add", upstreamRemote, upstreamURL); addErr != nil {
			return fmt.Errorf("failed to add upstream remote: %w", addErr)
		}
	}

	steps := min(rollback, commitCount(repo, rollback+1)-1)
	if steps > 0 {
		// best effort, a shallow history only limits how far back we go
		if _, resetErr := r.runner.Run(
			ctx, checkout.Path, "reset", "--hard", fmt.Sprintf("HEAD~%d", steps),
		); resetErr != nil {
			r.log.Warnf("Failed to roll back %d commits in %s: %v", steps, checkout.Path, resetErr)
		}
	}

	if _, err = r.runner.Run(ctx, checkout.Path, "pull", upstreamRemote, defaultBranch); err != nil {
		return fmt.Errorf("failed to pull upstream %s: %w", defaultBranch, err)
	}
	if _, err = r.runner.Run(ctx, checkout.Path, "push", "-f", originRemote, defaultBranch); err != nil {
		return fmt.Errorf("failed to push %s to origin: %w", defaultBranch, err)
	}
	return nil
}

func (r *GitCheckoutRepository) CommitAndPush(
	ctx context.Context,
	checkout entities.LocalCheckout,
	branch string,
	files []string,
	message entities.CommitMessage,
) error {
	changed, err := changedFiles(checkout.Path, files)
	if err != nil {
		return err
	}
	if len(changed) == 0 {
		return fmt.Errorf("nothing to commit in %s", checkout.Path)
	}

	if _, err = r.runner.Run(ctx, checkout.Path, "checkout", "-b", branch); err != nil {
		return fmt.Errorf("failed to create branch %s: %w", branch, err)
	}

	addArgs := append([]string{"add", "--"}, changed...)
	if _, err = r.runner.Run(ctx, checkout.Path, addArgs...); err != nil {
		return fmt.Errorf("failed to stage changes: %w", err)
	}

	if _, err = r.runner.Run(ctx, checkout.Path, "commit", "-m", message.Body); err != nil {
		return fmt.Errorf("failed to commit: %w", err)
	}

	if _, err = r.runner.Run(
		ctx, checkout.Path, "push", "-f", "--set-upstream", originRemote, branch,
	); err != nil {
		return fmt.Errorf("failed to push %s: %w", branch, err)
	}
	return nil
}

func (r *GitCheckoutRepository) ReadFile(checkout entities.LocalCheckout, path string) (string, error) {
	fullPath, err := resolve(checkout, path)
	if err != nil {
		return "", err
	}

	data, err := os.ReadFile(fullPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("%w: %s", entities.ErrFileNotFound, path)
		}
		return "", fmt.Errorf("failed to read %q: %w", path, err)
	}
	return string(data), nil
}

func (r *GitCheckoutRepository) WriteFile(checkout entities.LocalCheckout, path, content string) error {
	fullPath, err := resolve(checkout, path)
	if err != nil {
		return err
	}
	if writeErr := os.WriteFile(fullPath, []byte(content), fileMode); writeErr != nil {
		return fmt.Errorf("failed to write %q: %w", path, writeErr)
	}
	return nil
}

// resolve joins a repository-relative path to the checkout root, refusing
// paths that escape it.
func resolve(checkout entities.LocalCheckout, path string) (string, error) {
	if !filepath.IsLocal(filepath.FromSlash(path)) {
		return "", fmt.Errorf("path %q is outside the checkout", path)
	}
	return filepath.Join(checkout.Path, filepath.FromSlash(path)), nil
}

// currentBranch reads the branch HEAD points to. It works on empty
// repositories too, where HEAD is a dangling symbolic reference.
func currentBranch(path string) (string, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return "", fmt.Errorf("failed to open clone %q: %w", path, err)
	}

	head, err := repo.Reference(plumbing.HEAD, false)
	if err != nil {
		return "", fmt.Errorf("failed to read HEAD of %q: %w", path, err)
	}
	if head.Type() == plumbing.SymbolicReference {
		return head.Target().Short(), nil
	}
	return head.Name().Short(), nil
}

// commitCount counts commits reachable from HEAD, stopping at limit.
func commitCount(repo *gogit.Repository, limit int) int {
	iter, err := repo.Log(&gogit.LogOptions{})
	if err != nil {
		return 0
	}
	defer iter.Close()

	count := 0
	for count < limit {
		if _, nextErr := iter.Next(); nextErr != nil {
			break
		}
		count++
	}
	return count
}

// changedFiles returns the subset of files that differ from the index.
func changedFiles(path string, files []string) ([]string, error) {
	repo, err := gogit.PlainOpen(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %q: %w", path, err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, fmt.Errorf("failed to get worktree: %w", err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, fmt.Errorf("failed to read status: %w", err)
	}

	var changed []string
	for _, file := range files {
		if fileStatus, ok := status[filepath.ToSlash(file)]; ok && fileStatus.Worktree != gogit.Unmodified {
			changed = append(changed, file)
		}
	}
	return changed, nil
}
