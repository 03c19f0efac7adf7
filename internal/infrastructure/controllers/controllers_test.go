//go:build unit

package controllers_test

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/require"

	"github.com/rios0rios0/prbot/internal/domain/entities"
	"github.com/rios0rios0/prbot/internal/infrastructure/controllers"
)

//nolint:gochecknoglobals // fixed clock reading shared by the controller tests
var controllerNow = time.Date(2026, time.October, 17, 9, 0, 0, 0, time.UTC)

// execute runs controller as a subcommand of a root carrying the persistent flags.
func execute(t *testing.T, controller entities.Controller, args ...string) error {
	t.Helper()

	//nolint:exhaustruct // Minimal Command initialization with required fields only
	root := &cobra.Command{Use: "prbot", SilenceUsage: true, SilenceErrors: true}
	controllers.AddPersistentFlags(root)

	bind := controller.GetBind()
	//nolint:exhaustruct // Minimal Command initialization with required fields only
	sub := &cobra.Command{Use: bind.Use, Args: bind.Args, RunE: controller.Execute}
	controller.AddFlags(sub)
	root.AddCommand(sub)

	root.SetArgs(args)
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	return root.ExecuteContext(t.Context())
}

// fixtureFiles writes a commit message and an empty config file, so the test
// never picks up a config file from the environment.
func fixtureFiles(t *testing.T) (string, string) {
	t.Helper()
	dir := t.TempDir()

	message := filepath.Join(dir, "message.txt")
	require.NoError(t, os.WriteFile(message, []byte("Bump junit to 4.13.2\n\nSecurity fix.\n"), 0o600))

	config := filepath.Join(dir, ".prbot.yaml")
	require.NoError(t, os.WriteFile(config, []byte("work_dir: checkouts\n"), 0o600))
	return message, config
}
