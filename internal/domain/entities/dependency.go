package entities

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// DependencyDescriptor is a versioned dependency found in a manifest.
type DependencyDescriptor struct {
	ArtifactID string // artifact id, or module source for Terraform
	GroupID    string // optional, Maven only
	Version    string // version as written in the manifest
}

// ParseVersion parses a strict semantic version (major.minor.patch with
// optional pre-release and build metadata).
func ParseVersion(value string) (*semver.Version, error) {
	version, err := semver.StrictNewVersion(value)
	if err != nil {
		return nil, fmt.Errorf("invalid semantic version %q: %w", value, err)
	}
	return version, nil
}

// IsOutdated reports whether the dependency version is strictly lower than
// minimum. A version that does not parse is an error, never "older".
func (d DependencyDescriptor) IsOutdated(minimum *semver.Version) (bool, error) {
	current, err := ParseVersion(d.Version)
	if err != nil {
		return false, err
	}
	return current.LessThan(minimum), nil
}
