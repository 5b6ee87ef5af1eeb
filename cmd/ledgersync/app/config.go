package app

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration loaded from command-line
// flags, environment variables, .env files, and the optional
// ~/.ledgersync.yaml config file.
type Config struct {
	// Global flags
	Verbose bool
	Quiet   bool
	NoColor bool
	Output  string

	// Config file
	ConfigFile string

	// Document configuration. The environment contract matches the
	// automation that schedules this tool: GCP_SA_KEY carries the
	// service account key inline, MAIN_SHEET_ID and NEW_DATA_SHEET_ID
	// identify the documents.
	MainSheetID     string
	UploadSheetID   string
	CredentialsJSON string
	CredentialsFile string
	LayoutFile      string

	// Run behavior
	DryRun     bool
	KeepUpload bool

	// Logging configuration. LogLevel holds the explicit --log-level
	// flag; the LOG_LEVEL environment variable is consulted separately
	// so that -v and -q still take precedence over it.
	LogLevel  string
	LogFormat string
	LogOutput string
}

// LoadConfig loads configuration from all sources in order of precedence:
//  1. Command-line flags (handled by cobra)
//  2. Environment variables
//  3. .env files
//  4. Config file (~/.ledgersync.yaml)
//  5. Defaults
func LoadConfig() (*Config, error) {
	// Load .env files first (before Viper env binding)
	loadEnvFiles()

	// Set up Viper for environment variables
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))

	// Bind the document and credential variables explicitly so they are
	// visible even when only set through a .env file.
	bindDocumentEnv()

	// Try to read config file if it exists
	configFile := viper.GetString("config")
	if configFile != "" {
		viper.SetConfigFile(configFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(home)
			viper.AddConfigPath(".")
			viper.SetConfigType("yaml")
			viper.SetConfigName(".ledgersync")
		}
	}

	// Read config file (ignore error if not found)
	_ = viper.ReadInConfig()

	config := &Config{
		// Global flags (may be overridden by cobra flags later)
		Verbose: viper.GetBool("verbose"),
		Quiet:   viper.GetBool("quiet"),
		NoColor: viper.GetBool("no-color"),
		Output:  viper.GetString("output"),

		// Config file
		ConfigFile: viper.ConfigFileUsed(),

		// Document configuration
		MainSheetID:     viper.GetString("main_sheet_id"),
		UploadSheetID:   viper.GetString("new_data_sheet_id"),
		CredentialsJSON: viper.GetString("gcp_sa_key"),
		CredentialsFile: viper.GetString("google_application_credentials"),
		LayoutFile:      viper.GetString("ledgersync_layout"),

		// Logging configuration
		LogFormat: getEnvOrDefault("LOG_FORMAT", "auto"),
		LogOutput: getEnvOrDefault("LOG_OUTPUT", "stderr"),
	}

	return config, nil
}

// UpdateFromFlags updates config values from parsed command flags.
// This should be called after cobra parses flags so that flag values
// take precedence over config file and environment values.
func (c *Config) UpdateFromFlags(verbose, quiet, noColor bool, output, logLevel string) {
	c.Verbose = verbose
	c.Quiet = quiet
	c.NoColor = noColor
	if output != "" {
		c.Output = output
	}
	if logLevel != "" {
		c.LogLevel = logLevel
	}
}

// loadEnvFiles loads environment variables from .env files.
// .env.local overrides .env.
func loadEnvFiles() {
	envFiles := []string{
		".env",
		".env.local",
	}

	for _, envFile := range envFiles {
		_ = godotenv.Load(envFile)
	}
}

// bindDocumentEnv explicitly binds the documented environment variables
// to Viper.
func bindDocumentEnv() {
	keys := []string{
		"GCP_SA_KEY",
		"MAIN_SHEET_ID",
		"NEW_DATA_SHEET_ID",
		"GOOGLE_APPLICATION_CREDENTIALS",
		"LEDGERSYNC_LAYOUT",
	}

	for _, key := range keys {
		_ = viper.BindEnv(key)
	}
}

// getEnvOrDefault returns the environment variable value or the default if not set.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
