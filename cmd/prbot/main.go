package main

import (
	"context"
	"os"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/rios0rios0/prbot/internal"
	"github.com/rios0rios0/prbot/internal/infrastructure/controllers"
)

func buildRootCommand() *cobra.Command {
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	cmd := &cobra.Command{
		Use:   "prbot",
		Short: "Bulk pull request bot for GitHub",
		Long: `Search GitHub for repositories that hold an outdated Maven dependency or
plugin, an outdated Terraform module or a literal string, and open a pull
request against each of them from a fork.

Usage modes:
  prbot bump junit 4.13.2 message.txt my-bot $GITHUB_TOKEN     Raise junit to 4.13.2
  prbot replace old-host new-host message.txt my-bot token.txt Replace a string
  prbot remind message.txt my-bot $GITHUB_TOKEN                 Remind on open pull requests`,
		SilenceUsage: true,
		PersistentPreRun: func(command *cobra.Command, _ []string) {
			if verbosity, _ := command.Flags().GetCount(controllers.FlagVerbosity); verbosity > 0 {
				logger.SetLevel(logger.DebugLevel)
			}
		},
	}

	controllers.AddPersistentFlags(cmd)
	return cmd
}

func addSubcommands(rootCmd *cobra.Command, appContext *internal.AppInternal) {
	for _, controller := range appContext.GetControllers() {
		bind := controller.GetBind()
		ctrl := controller // capture for closure
		//nolint:exhaustruct // Minimal Command initialization with required fields only
		subCmd := &cobra.Command{
			Use:   bind.Use,
			Short: bind.Short,
			Long:  bind.Long,
			Args:  bind.Args,
			RunE: func(command *cobra.Command, arguments []string) error {
				return ctrl.Execute(command, arguments)
			},
		}

		// Add controller-specific flags
		ctrl.AddFlags(subCmd)

		rootCmd.AddCommand(subCmd)
	}
}

func main() {
	//nolint:exhaustruct // Minimal TextFormatter initialization with required fields only
	logger.SetFormatter(&logger.TextFormatter{
		ForceColors:   true,
		FullTimestamp: true,
	})
	if os.Getenv("DEBUG") == "true" {
		logger.SetLevel(logger.DebugLevel)
	}

	cobraRoot := buildRootCommand()

	// Inject controllers via DIG
	appContext := injectAppContext(logger.StandardLogger())
	addSubcommands(cobraRoot, appContext)

	if err := cobraRoot.ExecuteContext(context.Background()); err != nil {
		logger.Fatalf("Error executing 'prbot': %s", err)
	}
}
