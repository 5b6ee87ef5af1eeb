package app

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"

	"github.com/tallyops/ledgersync/cmd/application"
	"github.com/tallyops/ledgersync/cmd/ledgersync/cmd/check"
	"github.com/tallyops/ledgersync/cmd/ledgersync/cmd/reconcile"
)

// Ensure App implements application.Application at compile time.
var _ application.Application = (*App)(nil)

// NewReconcileCommand creates the reconcile command with app dependencies.
func (a *App) NewReconcileCommand() *cobra.Command {
	return reconcile.NewCommand(a)
}

// NewCheckCommand creates the check command with app dependencies.
func (a *App) NewCheckCommand() *cobra.Command {
	return check.NewCommand(a)
}

// NewVersionCommand creates the version command.
func (a *App) NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Long:  `Show version information for the ledgersync CLI.`,
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Printf("ledgersync version %s\n", a.version)
			fmt.Printf("commit: %s\n", a.commit)
			fmt.Printf("built: %s\n", a.date)
			fmt.Printf("built by: %s\n", a.builtBy)
			fmt.Printf("go version: %s\n", runtime.Version())
			fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
