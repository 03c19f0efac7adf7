package controllers

import (
	"context"
	"errors"
	"fmt"

	"github.com/jonboulle/clockwork"
	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/prbot/internal/domain/commands"
	"github.com/rios0rios0/prbot/internal/domain/entities"
)

// Persistent flag names shared by every subcommand.
const (
	FlagConfig           = "config"
	FlagLanguage         = "language"
	FlagPushedDate       = "pushed-date"
	FlagNoPushedDate     = "no-pushed-date"
	FlagDeleteForks      = "delete-forks"
	FlagMentionCommitter = "at-mention-committers"
	FlagSweepReminders   = "sweep-reminders"
	FlagDomain           = "domain"
	FlagAPIURL           = "api-url"
	FlagWorkDir          = "work-dir"
	FlagReminderInterval = "reminder-interval"
	FlagSSH              = "ssh"
	FlagNoSync           = "no-sync"
	FlagDryRun           = "dry-run"
	FlagVerbosity        = "verbosity"
)

var errMissingArgument = errors.New("argument must not be empty")

// AddPersistentFlags registers the flags shared by all subcommands on root.
func AddPersistentFlags(root *cobra.Command) {
	flags := root.PersistentFlags()
	flags.StringP(FlagConfig, "c", "", "Path to config file (default: auto-detect)")
	flags.StringP(FlagLanguage, "l", "", "Only search repositories written in this language")
	flags.String(FlagPushedDate, "",
		"Only search repositories pushed after this date (YYYY-MM-DD, >=DATE, <DATE or FROM..TO; default: one month ago)")
	flags.Bool(FlagNoPushedDate, false, "Do not filter repositories by push date")
	flags.Bool(FlagDeleteForks, false, "Delete an existing fork before forking again")
	flags.Bool(FlagMentionCommitter, false, "Mention the top committers on created or already open pull requests")
	flags.Bool(FlagSweepReminders, false, "Remind on every open pull request of the fork owner before searching")
	flags.String(FlagDomain, "", "GitHub domain (default: github.com)")
	flags.String(FlagAPIURL, "", "GitHub API URL (default: https://api.github.com/)")
	flags.String(FlagWorkDir, "", "Directory where forks are cloned (default: repos)")
	flags.Duration(FlagReminderInterval, 0, "Minimum time between two reminders on a pull request (default: 168h)")
	flags.Bool(FlagSSH, false, "Clone forks over SSH instead of HTTPS")
	flags.Bool(FlagNoSync, false, "Do not sync forks with upstream before editing")
	flags.Bool(FlagDryRun, false, "Stop after checking for open pull requests")
	flags.CountP(FlagVerbosity, "v", "Increase log verbosity")
}

// loadSettings resolves the settings file, then applies explicitly set flags
// on top of the file and environment values.
func loadSettings(ctx context.Context, cmd *cobra.Command, log logger.FieldLogger) (*entities.Settings, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString(FlagConfig)
	if configPath == "" {
		found, err := entities.FindConfigFile()
		if err != nil {
			log.Debugf("No config file: %v", err)
		}
		configPath = found
	}
	if configPath != "" {
		log.Infof("Using config file: %s", configPath)
	}

	settings, err := entities.NewSettings(ctx, configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if flags.Changed(FlagDomain) {
		settings.Domain, _ = flags.GetString(FlagDomain)
	}
	if flags.Changed(FlagAPIURL) {
		settings.APIURL, _ = flags.GetString(FlagAPIURL)
	}
	if flags.Changed(FlagWorkDir) {
		settings.WorkDir, _ = flags.GetString(FlagWorkDir)
	}
	if flags.Changed(FlagReminderInterval) {
		settings.ReminderInterval, _ = flags.GetDuration(FlagReminderInterval)
	}
	if ssh, _ := flags.GetBool(FlagSSH); ssh {
		settings.CloneProtocol = entities.CloneProtocolSSH
	}

	if err = settings.Validate(); err != nil {
		return nil, err
	}
	return settings, nil
}

// reconcileInput holds the positional arguments common to "bump" and "replace".
type reconcileInput struct {
	messageFile string
	forkOwner   string
	token       string
}

// newReconcileOptions builds the options shared by every reconciliation
// subcommand. The matcher fields are left to the caller.
func newReconcileOptions(
	ctx context.Context,
	cmd *cobra.Command,
	clock clockwork.Clock,
	log logger.FieldLogger,
	input reconcileInput,
) (commands.ReconcileOptions, error) {
	flags := cmd.Flags()

	if input.forkOwner == "" {
		return commands.ReconcileOptions{}, fmt.Errorf("%w: FORK_OWNER %w", entities.ErrFatal, errMissingArgument)
	}
	token := entities.ResolveToken(input.token, log)
	if token == "" {
		return commands.ReconcileOptions{}, fmt.Errorf("%w: TOKEN %w", entities.ErrFatal, errMissingArgument)
	}

	message, err := entities.ReadCommitMessageFile(input.messageFile)
	if err != nil {
		return commands.ReconcileOptions{}, fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	settings, err := loadSettings(ctx, cmd, log)
	if err != nil {
		return commands.ReconcileOptions{}, fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	language, _ := flags.GetString(FlagLanguage)
	pushed, _ := flags.GetString(FlagPushedDate)
	noPushed, _ := flags.GetBool(FlagNoPushedDate)
	query, err := entities.NewSearchQuery(language, pushed, noPushed, clock.Now())
	if err != nil {
		return commands.ReconcileOptions{}, fmt.Errorf("%w: %w", entities.ErrFatal, err)
	}

	deleteForks, _ := flags.GetBool(FlagDeleteForks)
	mention, _ := flags.GetBool(FlagMentionCommitter)
	sweep, _ := flags.GetBool(FlagSweepReminders)
	noSync, _ := flags.GetBool(FlagNoSync)
	dryRun, _ := flags.GetBool(FlagDryRun)

	return commands.ReconcileOptions{
		Settings:          settings,
		Token:             token,
		ForkOwner:         input.forkOwner,
		CommitMessage:     message,
		Query:             query,
		DeleteForks:       deleteForks,
		MentionCommitters: mention,
		SweepReminders:    sweep,
		Sync:              !noSync,
		DryRun:            dryRun,
	}, nil
}

// runReconcile executes the engine and turns the report into an error when
// the run had to stop.
func runReconcile(
	ctx context.Context,
	command commands.Reconcile,
	opts commands.ReconcileOptions,
	log logger.FieldLogger,
) error {
	report, err := command.Execute(ctx, opts)
	if report != nil {
		for _, result := range report.Results {
			entry := log.WithField("repo", result.Repository.FullName)
			if result.Err != nil {
				entry.Debugf("%s: %v", result.Outcome, result.Err)
				continue
			}
			entry.Debug(result.Outcome.String())
		}
	}
	return err
}
