package internal

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/prbot/internal/domain/commands"
	"github.com/rios0rios0/prbot/internal/infrastructure/controllers"
	"github.com/rios0rios0/prbot/internal/infrastructure/repositories"
)

// RegisterProviders registers all internal providers with the DIG container.
// The caller provides the logger.FieldLogger shared by every component.
func RegisterProviders(container *dig.Container) error {
	// Register all layers (bottom-up: infrastructure repos -> domain commands -> controllers)
	if err := repositories.RegisterProviders(container); err != nil {
		return err
	}
	if err := commands.RegisterProviders(container); err != nil {
		return err
	}
	if err := controllers.RegisterProviders(container); err != nil {
		return err
	}

	return container.Provide(NewAppInternal)
}
