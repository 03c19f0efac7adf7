package maven

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
)

const (
	matcherName  = "maven"
	codeLanguage = "Maven POM"
)

type elementPath struct {
	parent string
	child  string
}

//nolint:gochecknoglobals // lookup table
var elementPaths = map[string]elementPath{
	entities.DependencyTypeDependency: {parent: "dependencies", child: "dependency"},
	entities.DependencyTypePlugin:     {parent: "build/plugins", child: "plugin"},
}

// MavenMatcherRepository finds an outdated dependency or plugin in a pom.xml.
type MavenMatcherRepository struct {
	artifactID string
	groupID    string
	version    string
	minimum    *semver.Version
	path       elementPath
	log        logger.FieldLogger
}

// NewMatcherRepository creates the Maven matcher. The target version must be
// a valid semantic version.
func NewMatcherRepository(
	opts entities.MatcherOptions,
	log logger.FieldLogger,
) (repositories.MatcherRepository, error) {
	if opts.Target == "" {
		return nil, fmt.Errorf("%w: artifact id is required", entities.ErrFatal)
	}

	minimum, err := entities.ParseVersion(opts.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	depType := opts.DependencyType
	if depType == "" {
		depType = entities.DependencyTypeDependency
	}
	path, ok := elementPaths[depType]
	if !ok {
		return nil, fmt.Errorf("%w: unknown dependency type %q", entities.ErrFatal, depType)
	}

	return &MavenMatcherRepository{
		artifactID: opts.Target,
		groupID:    opts.GroupID,
		version:    opts.Version,
		minimum:    minimum,
		path:       path,
		log:        log,
	}, nil
}

func (m *MavenMatcherRepository) Name() string         { return matcherName }
func (m *MavenMatcherRepository) SearchTerm() string   { return m.artifactID }
func (m *MavenMatcherRepository) CodeLanguage() string { return codeLanguage }

func (m *MavenMatcherRepository) Match(content string) entities.Match {
	root, err := parsePOM(content)
	if err != nil {
		m.log.Debugf("Could not parse POM: %v", err)
		return entities.Match{Status: entities.MatchNotFound, Reason: err.Error()}
	}

	parent := root.find(m.path.parent)
	if parent == nil {
		return entities.Match{Status: entities.MatchNotFound, Reason: "no <" + m.path.parent + "> element"}
	}

	result := entities.Match{Status: entities.MatchNotFound}
	for _, child := range parent.children(m.path.child) {
		artifactID, _ := child.text("artifactId")
		version, hasVersion := child.text("version")
		if artifactID != m.artifactID || !hasVersion {
			continue
		}

		// a missing groupId may be inherited from the parent POM
		groupID, hasGroup := child.text("groupId")
		if m.groupID != "" && hasGroup && groupID != m.groupID {
			continue
		}

		dependency := entities.DependencyDescriptor{ArtifactID: artifactID, GroupID: groupID, Version: version}
		outdated, versionErr := dependency.IsOutdated(m.minimum)
		if versionErr != nil {
			m.log.Warnf("Skipping %s with unparseable version %q", artifactID, version)
			result = entities.Match{
				Status:     entities.MatchInvalid,
				Dependency: &dependency,
				Reason:     versionErr.Error(),
			}
			continue
		}
		if !outdated {
			continue
		}

		found := entities.Match{Status: entities.MatchFound, Snippet: version, Dependency: &dependency}
		if start, end, ok := child.textSpan(content, "version"); ok {
			found.Start, found.End = start, end
		}
		return found
	}
	return result
}

// Replace rewrites the version text of the matched element only.
func (m *MavenMatcherRepository) Replace(content string, match entities.Match) string {
	if !match.Found() {
		return content
	}
	return match.Splice(content, m.version)
}
