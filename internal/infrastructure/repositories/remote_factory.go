package repositories

import (
	"github.com/rios0rios0/prbot/internal/domain/entities"
	domainRepos "github.com/rios0rios0/prbot/internal/domain/repositories"
)

// RemoteFactory creates a RemoteRepository authenticated with token. The token
// is only known once the command line is parsed, so commands receive the
// factory instead of a client.
type RemoteFactory func(settings *entities.Settings, token string) (domainRepos.RemoteRepository, error)
