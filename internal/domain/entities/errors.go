package entities

import "errors"

var (
	// ErrNotFound is returned by remote lookups that resolved to a 404.
	ErrNotFound = errors.New("not found")

	// ErrPullRequestExists is returned when the hosting service rejects a pull
	// request because one already exists for the same head and base.
	ErrPullRequestExists = errors.New("pull request already exists")

	// ErrFileNotFound is returned when a file is absent from a local checkout.
	ErrFileNotFound = errors.New("file not found in checkout")

	// ErrFatal marks errors that must stop the whole run.
	ErrFatal = errors.New("fatal")
)
