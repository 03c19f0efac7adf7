package controllers

import (
	"fmt"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/prbot/internal/domain/commands"
	"github.com/rios0rios0/prbot/internal/domain/entities"
)

const bumpArgs = 5

// BumpController handles the "bump" subcommand.
type BumpController struct {
	command commands.Reconcile
	clock   clockwork.Clock
	log     logger.FieldLogger
}

// NewBumpController creates a new BumpController.
func NewBumpController(command commands.Reconcile, clock clockwork.Clock, log logger.FieldLogger) *BumpController {
	return &BumpController{command: command, clock: clock, log: log}
}

// GetBind returns the Cobra command metadata for the bump controller.
func (it *BumpController) GetBind() entities.ControllerBind {
	return entities.ControllerBind{
		Use:   "bump ARTIFACT_ID VERSION COMMIT_MESSAGE_FILE FORK_OWNER TOKEN",
		Short: "Open pull requests that raise an outdated dependency to VERSION",
		Long: `Search repositories for a Maven dependency, Maven plugin or Terraform
module older than VERSION, and open a pull request from a fork owned by
FORK_OWNER that raises it to VERSION.

VERSION must be a full semantic version (major.minor.patch). The first line of
COMMIT_MESSAGE_FILE is the commit and pull request title, the whole file is the
commit message and pull request body. TOKEN may be a literal token, a ${VAR}
reference or the path to a file holding the token.`,
		Args: cobra.ExactArgs(bumpArgs),
	}
}

// Execute runs the reconciliation with a versioned matcher.
func (it *BumpController) Execute(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	artifactID, version := args[0], args[1]

	opts, err := newReconcileOptions(ctx, cmd, it.clock, it.log, reconcileInput{
		messageFile: args[2],
		forkOwner:   args[3],
		token:       args[4],
	})
	if err != nil {
		return err
	}

	// fail before any network call on a target that can never match
	if _, err = entities.ParseVersion(version); err != nil {
		return fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	opts.MatcherName, _ = cmd.Flags().GetString("ecosystem")
	groupID, _ := cmd.Flags().GetString("group-id")
	depType, _ := cmd.Flags().GetString("dep-type")
	opts.Matcher = entities.MatcherOptions{
		Target:         artifactID,
		Version:        version,
		GroupID:        groupID,
		DependencyType: depType,
	}

	it.log.Infof("Bumping %s to %s in %q", artifactID, version, opts.Query.String())
	return runReconcile(ctx, it.command, opts, it.log)
}

// AddFlags adds the bump-specific flags to the given Cobra command.
func (it *BumpController) AddFlags(cmd *cobra.Command) {
	cmd.Flags().String("ecosystem", "maven", "Manifest type to search (maven, terraform)")
	cmd.Flags().String("group-id", "", "Only match Maven entries with this groupId")
	cmd.Flags().String("dep-type", entities.DependencyTypeDependency,
		fmt.Sprintf("Maven entry type (%s, %s)", entities.DependencyTypeDependency, entities.DependencyTypePlugin))
}
