package git

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os/exec"
	"strings"
)

// CommandRunner runs git with the given arguments inside dir and returns the
// combined stdout and stderr.
type CommandRunner interface {
	Run(ctx context.Context, dir string, args ...string) (string, error)
}

// CommandError is returned when a git invocation exits with a non-zero status.
// Credentials in URL arguments are hidden when the error is printed.
type CommandError struct {
	Args     []string
	ExitCode int
	Output   string
	Err      error
}

func (e *CommandError) Error() string {
	return fmt.Sprintf(
		"git %s exited with status %d: %s",
		strings.Join(redactArgs(e.Args), " "), e.ExitCode, strings.TrimSpace(e.Output),
	)
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ExecRunner runs the git binary found in PATH.
type ExecRunner struct{}

// NewExecRunner creates a runner backed by os/exec.
func NewExecRunner() *ExecRunner {
	return &ExecRunner{}
}

func (r *ExecRunner) Run(ctx context.Context, dir string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = dir

	output, err := cmd.CombinedOutput()
	if err != nil {
		exitCode := -1
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			exitCode = exitErr.ExitCode()
		}
		return string(output), &CommandError{
			Args:     args,
			ExitCode: exitCode,
			Output:   string(output),
			Err:      err,
		}
	}
	return string(output), nil
}

func redactArgs(args []string) []string {
	redacted := make([]string, len(args))
	for i, arg := range args {
		redacted[i] = redactURL(arg)
	}
	return redacted
}

// redactURL hides credentials embedded in an HTTPS remote URL.
func redactURL(raw string) string {
	if !strings.Contains(raw, "://") {
		return raw
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return raw
	}
	return parsed.Redacted()
}
