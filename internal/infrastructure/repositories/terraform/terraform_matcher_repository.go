package terraform

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclparse"
	logger "github.com/sirupsen/logrus"
	"github.com/zclconf/go-cty/cty"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/domain/repositories"
)

const (
	matcherName  = "terraform"
	codeLanguage = "HCL"
	refQuery     = "?ref="
)

var refPattern = regexp.MustCompile(`\?ref=([^&\s"]+)`)

// TerraformMatcherRepository finds a module block whose source equals the
// target and whose version is older than the minimum. Registry modules carry
// the version in a `version` attribute, Git modules in a `?ref=` query.
type TerraformMatcherRepository struct {
	source  string
	version string
	minimum *semver.Version
	log     logger.FieldLogger
}

// NewMatcherRepository creates the Terraform matcher. The target version must
// be a valid semantic version.
func NewMatcherRepository(
	opts entities.MatcherOptions,
	log logger.FieldLogger,
) (repositories.MatcherRepository, error) {
	if opts.Target == "" {
		return nil, fmt.Errorf("%w: module source is required", entities.ErrFatal)
	}
	minimum, err := entities.ParseVersion(opts.Version)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	return &TerraformMatcherRepository{
		source:  opts.Target,
		version: opts.Version,
		minimum: minimum,
		log:     log,
	}, nil
}

func (m *TerraformMatcherRepository) Name() string         { return matcherName }
func (m *TerraformMatcherRepository) SearchTerm() string   { return m.source }
func (m *TerraformMatcherRepository) CodeLanguage() string { return codeLanguage }

func (m *TerraformMatcherRepository) Match(content string) entities.Match {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL([]byte(content), "main.tf")
	if diags.HasErrors() {
		m.log.Debugf("Could not parse HCL: %v", diags.Error())
		return entities.Match{Status: entities.MatchNotFound, Reason: diags.Error()}
	}

	bodyContent, _, diags := file.Body.PartialContent(&hcl.BodySchema{
		Blocks: []hcl.BlockHeaderSchema{
			{Type: "module", LabelNames: []string{"name"}},
		},
	})
	if diags.HasErrors() {
		return entities.Match{Status: entities.MatchNotFound, Reason: diags.Error()}
	}

	result := entities.Match{Status: entities.MatchNotFound}
	for _, block := range bodyContent.Blocks {
		// nested blocks produce diagnostics, attributes are still returned
		attrs, _ := block.Body.JustAttributes()

		source, ok := stringAttribute(attrs, "source")
		if !ok {
			continue
		}

		version, start, end, ok := m.locateVersion(content, attrs, source)
		if !ok {
			continue
		}

		dependency := entities.DependencyDescriptor{ArtifactID: m.source, Version: version}
		outdated, err := entities.DependencyDescriptor{
			ArtifactID: m.source,
			Version:    strings.TrimPrefix(version, "v"),
		}.IsOutdated(m.minimum)
		if err != nil {
			m.log.Warnf("Skipping module %q with unparseable version %q", source, version)
			result = entities.Match{Status: entities.MatchInvalid, Dependency: &dependency, Reason: err.Error()}
			continue
		}
		if !outdated {
			continue
		}

		return entities.Match{
			Status:     entities.MatchFound,
			Snippet:    version,
			Dependency: &dependency,
			Start:      start,
			End:        end,
		}
	}
	return result
}

// locateVersion returns the version of a module pointing at the target source
// and the byte range of the version text in content. A zero range means the
// text could not be pinned, for instance because it is escaped.
func (m *TerraformMatcherRepository) locateVersion(
	content string,
	attrs hcl.Attributes,
	source string,
) (string, int, int, bool) {
	if source == m.source {
		version, ok := stringAttribute(attrs, "version")
		if !ok {
			return "", 0, 0, false
		}
		start, end := locateIn(content, attrs["version"].Expr.Range(), version)
		return version, start, end, true
	}

	// Git sources pin the version in the ref query parameter
	matches := refPattern.FindStringSubmatch(source)
	if len(matches) < 2 || refPattern.ReplaceAllString(source, "") != m.source {
		return "", 0, 0, false
	}
	start, end := locateIn(content, attrs["source"].Expr.Range(), refQuery+matches[1])
	if end > start {
		start += len(refQuery)
	}
	return matches[1], start, end, true
}

// locateIn finds text inside the source range of an expression.
func locateIn(content string, rng hcl.Range, text string) (int, int) {
	if rng.End.Byte > len(content) || rng.Start.Byte > rng.End.Byte {
		return 0, 0
	}
	offset := strings.Index(content[rng.Start.Byte:rng.End.Byte], text)
	if offset < 0 {
		return 0, 0
	}
	start := rng.Start.Byte + offset
	return start, start + len(text)
}

// Replace rewrites the version text of the matched module only, keeping a
// leading "v".
func (m *TerraformMatcherRepository) Replace(content string, match entities.Match) string {
	if !match.Found() {
		return content
	}

	newVersion := m.version
	if strings.HasPrefix(match.Snippet, "v") {
		newVersion = "v" + newVersion
	}
	return match.Splice(content, newVersion)
}

func stringAttribute(attrs hcl.Attributes, name string) (string, bool) {
	attr, ok := attrs[name]
	if !ok {
		return "", false
	}
	value, diags := attr.Expr.Value(&hcl.EvalContext{})
	if diags.HasErrors() || !value.IsKnown() || value.IsNull() || value.Type() != cty.String {
		return "", false
	}
	return value.AsString(), true
}
