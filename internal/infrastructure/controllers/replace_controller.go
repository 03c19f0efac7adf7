package controllers

import (
	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/prbot/internal/domain/commands"
	"github.com/rios0rios0/prbot/internal/domain/entities"
)

const (
	replaceArgs    = 5
	literalMatcher = "literal"
)

// ReplaceController handles the "replace" subcommand.
type ReplaceController struct {
	command commands.Reconcile
	clock   clockwork.Clock
	log     logger.FieldLogger
}

// NewReplaceController creates a new ReplaceController.
func NewReplaceController(command commands.Reconcile, clock clockwork.Clock, log logger.FieldLogger) *ReplaceController {
	return &ReplaceController{command: command, clock: clock, log: log}
}

// GetBind returns the Cobra command metadata for the replace controller.
func (it *ReplaceController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "replace OLD NEW COMMIT_MESSAGE_FILE FORK_OWNER TOKEN",
		Short: "Open pull requests that replace every occurrence of OLD with NEW",
		Long: `Search repositories for files containing OLD (case-sensitive) and open a
pull request from a fork owned by FORK_OWNER replacing every occurrence in the
first matching file with NEW.`,
		Args: cobra.ExactArgs(replaceArgs),
	}
}

// Execute runs the reconciliation with the literal matcher.
func (it *ReplaceController) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	opts, err := newReconcileOptions(ctx, cmd, it.clock, it.log, reconcileInput{
		messageFile: args[2],
		forkOwner:   args[3],
		token:       args[4],
	})
	if err != nil {
		return err
	}

	wordBoundary, _ := cmd.Flags().GetBool("word-boundary")
	opts.MatcherName = literalMatcher
	opts.Matcher = entities.MatcherOptions{
		Target:       args[0],
		Replacement:  args[1],
		WordBoundary: wordBoundary,
	}

	it.log.Infof("Replacing %q with %q in %q", args[0], args[1], opts.Query.String())
	return runReconcile(ctx, it.command, opts, it.log)
}

// AddFlags adds the replace-specific flags to the given Cobra command.
func (it *ReplaceController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().Bool("word-boundary", false, "Only match OLD as a whole word")
}
