package repositories

import (
	"fmt"
	"sort"

	logger "github.com/sirupsen/logrus"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	domainRepos "github.com/rios0rios0/prbot/internal/domain/repositories"
)

// MatcherFactory is a constructor function that creates a MatcherRepository
// from the command line input.
type MatcherFactory func(opts entities.MatcherOptions, log logger.FieldLogger) (domainRepos.MatcherRepository, error)

// MatcherRegistry manages all registered matcher implementations.
type MatcherRegistry struct {
	matchers map[string]MatcherFactory
	log      logger.FieldLogger
}

// NewMatcherRegistry creates an empty matcher registry.
func NewMatcherRegistry(log logger.FieldLogger) *MatcherRegistry {
	return &MatcherRegistry{
		matchers: make(map[string]MatcherFactory),
		log:      log,
	}
}

// Register adds a matcher factory under the given name (e.g. "maven").
func (r *MatcherRegistry) Register(name string, factory MatcherFactory) {
	r.matchers[name] = factory
}

// Get returns a configured matcher for the given name and options.
func (r *MatcherRegistry) Get(name string, opts entities.MatcherOptions) (domainRepos.MatcherRepository, error) {
	factory, ok := r.matchers[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown matcher type %q", entities.ErrFatal, name)
	}
	return factory(opts, r.log)
}

// Names returns the sorted list of registered matcher names.
func (r *MatcherRegistry) Names() []string {
	names := make([]string, 0, len(r.matchers))
	for name := range r.matchers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
