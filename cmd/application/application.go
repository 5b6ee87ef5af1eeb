// Package application defines the contract between the application
// layer and command implementations, enabling dependency injection and
// testability.
//
// Commands accept this interface rather than the concrete App type so
// they can be tested against the Mock in this package.
package application

import (
	"github.com/rs/zerolog"

	"github.com/tallyops/ledgersync"
)

// Application provides the application surface that commands need.
// The App struct from cmd/ledgersync/app implements this interface.
type Application interface {
	// Reconciler builds a reconciler from the application configuration.
	// Extra options (typically from command flags) are applied on top of
	// the configured defaults.
	Reconciler(opts ...ledgersync.Option) (ledgersync.Reconciler, error)

	// Logger returns the configured logger instance.
	Logger() *zerolog.Logger

	// OutputFormat returns the configured output format (table, json, yaml).
	OutputFormat() string

	// Quiet reports whether progress output should be suppressed.
	Quiet() bool

	// Version returns the application version string.
	Version() string

	// Commit returns the git commit hash.
	Commit() string

	// Date returns the build date.
	Date() string

	// BuiltBy returns the build system identifier.
	BuiltBy() string
}
