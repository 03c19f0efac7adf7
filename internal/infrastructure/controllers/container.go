package controllers

import (
	"go.uber.org/dig"

	"github.com/rios0rios0/prbot/internal/domain/entities"
)

// RegisterProviders registers all controller providers with the DIG container.
func RegisterProviders(container *dig.Container) error {
	// Register controller constructors
	if err := container.Provide(NewBumpController); err != nil {
		return err
	}
	if err := container.Provide(NewReplaceController); err != nil {
		return err
	}
	if err := container.Provide(NewRemindController); err != nil {
		return err
	}
	if err := container.Provide(NewControllers); err != nil {
		return err
	}

	return nil
}

// NewControllers aggregates all controllers into a slice for the AppInternal.
func NewControllers(
	bumpController *BumpController,
	replaceController *ReplaceController,
	remindController *RemindController,
) *[]entities.Controller {
	return &[]entities.Controller{
		bumpController,
		replaceController,
		remindController,
	}
}
