// Package app provides the application context and dependency management
// for the ledgersync CLI. It centralizes configuration, logging, and
// reconciler construction for the command implementations.
package app

import (
	"github.com/rs/zerolog"

	"github.com/tallyops/ledgersync"
)

// App represents the ledgersync application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger
}

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	app.config = config

	logger := NewLogger(config)
	app.logger = &logger

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the configured output format.
func (a *App) OutputFormat() string {
	return a.config.Output
}

// Quiet reports whether progress output should be suppressed.
func (a *App) Quiet() bool {
	return a.config.Quiet
}

// Reconciler builds a reconciler from the application configuration.
// Options passed in (typically from command flags) are applied after the
// configured defaults, so flags win. Each call builds a fresh instance;
// a command runs at most one.
func (a *App) Reconciler(opts ...ledgersync.Option) (ledgersync.Reconciler, error) {
	return ledgersync.New(append(a.reconcilerOptions(), opts...)...)
}

// reconcilerOptions constructs reconciler options from the app configuration.
func (a *App) reconcilerOptions() []ledgersync.Option {
	opts := []ledgersync.Option{
		ledgersync.WithDocumentIDs(a.config.MainSheetID, a.config.UploadSheetID),
		ledgersync.WithLogger(a.logger),
	}

	if a.config.CredentialsJSON != "" {
		opts = append(opts, ledgersync.WithCredentialsJSON(a.config.CredentialsJSON))
	}
	if a.config.CredentialsFile != "" {
		opts = append(opts, ledgersync.WithCredentialsFile(a.config.CredentialsFile))
	}
	if a.config.LayoutFile != "" {
		opts = append(opts, ledgersync.WithLayoutFile(a.config.LayoutFile))
	}

	return opts
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}
