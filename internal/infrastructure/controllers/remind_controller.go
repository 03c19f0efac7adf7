package controllers

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/prbot/internal/domain/commands"
	"github.com/rios0rios0/prbot/internal/domain/entities"
)

const remindArgs = 3

// RemindController handles the "remind" subcommand.
type RemindController struct {
	command commands.Remind
	log     logger.FieldLogger
}

// NewRemindController creates a new RemindController.
func NewRemindController(command commands.Remind, log logger.FieldLogger) *RemindController {
	return &RemindController{command: command, log: log}
}

// GetBind returns the Cobra command metadata for the remind controller.
func (it *RemindController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "remind COMMIT_MESSAGE_FILE FORK_OWNER TOKEN",
		Short: "Mention recent committers on open pull requests",
		Long: `Find every fork owned by FORK_OWNER whose upstream has an open pull request
from the branch derived from COMMIT_MESSAGE_FILE, and mention the upstream's
recent committers unless they were reminded within the reminder interval.`,
		Args: cobra.ExactArgs(remindArgs),
	}
}

// Execute runs a standalone reminder sweep.
func (it *RemindController) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	token := entities.ResolveToken(args[2], it.log)
	if args[1] == "" || token == "" {
		return fmt.Errorf("%w: FORK_OWNER and TOKEN %w", entities.ErrFatal, errMissingArgument)
	}

	message, err := entities.ReadCommitMessageFile(args[0])
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	settings, err := loadSettings(ctx, cmd, it.log)
	if err != nil {
		return fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	return it.command.Execute(ctx, commands.RemindOptions{
		Settings:      settings,
		Token:         token,
		Actor:         args[1],
		CommitMessage: message,
	})
}

// AddFlags has nothing to add; remind only uses the persistent flags.
func (it *RemindController) AddFlags(_ *cobra.Command) {}
