package repositories

import (
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"go.uber.org/dig"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	domainRepos "github.com/rios0rios0/prbot/internal/domain/repositories"
	gitRepo "github.com/rios0rios0/prbot/internal/infrastructure/repositories/git"
	ghRepo "github.com/rios0rios0/prbot/internal/infrastructure/repositories/github"
	literalRepo "github.com/rios0rios0/prbot/internal/infrastructure/repositories/literal"
	mavenRepo "github.com/rios0rios0/prbot/internal/infrastructure/repositories/maven"
	tfRepo "github.com/rios0rios0/prbot/internal/infrastructure/repositories/terraform"
)

// RegisterProviders registers all repository providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register the GitHub client factory
	if err := container.Provide(func(log logger.FieldLogger) RemoteFactory {
		return func(settings *entities.Settings, token string) (domainRepos.RemoteRepository, error) {
			return ghRepo.NewGitHubRemoteRepository(settings, token, log)
		}
	}); err != nil {
		return err
	}

	// Register matcher registry with all matcher implementations
	if err := container.Provide(func(log logger.FieldLogger) *MatcherRegistry {
		reg := NewMatcherRegistry(log)
		reg.Register("maven", mavenRepo.NewMatcherRepository)
		reg.Register("terraform", tfRepo.NewMatcherRepository)
		reg.Register("literal", func(
			opts entities.MatcherOptions, _ logger.FieldLogger,
		) (domainRepos.MatcherRepository, error) {
			return literalRepo.NewMatcherRepository(opts)
		})
		return reg
	}); err != nil {
		return err
	}

	// Register the local checkout manager
	if err := container.Provide(func() clockwork.Clock {
		return clockwork.NewRealClock()
	}); err != nil {
		return err
	}
	if err := container.Provide(func() gitRepo.CommandRunner {
		return gitRepo.NewExecRunner()
	}); err != nil {
		return err
	}
	if err := container.Provide(gitRepo.NewGitCheckoutRepository); err != nil {
		return err
	}
	if err := container.Provide(func(impl *gitRepo.GitCheckoutRepository) domainRepos.CheckoutRepository {
		return impl
	}); err != nil {
		return err
	}

	return nil
}
