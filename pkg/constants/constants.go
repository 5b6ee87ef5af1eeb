// Package constants provides shared constants used throughout the
// ledgersync codebase: document roles, API scopes, and timeouts that
// should be consistent across the application.
package constants

import "time"

// Document roles label the two spreadsheets in errors, logs, and reports.
const (
	// DocMain is the persistent accounts ledger document.
	DocMain = "main"

	// DocUpload is the transient uploaded export document.
	DocUpload = "upload"
)

// Google API scopes the service account credential must be granted.
const (
	// ScopeSpreadsheets covers reading and writing spreadsheet values.
	ScopeSpreadsheets = "https://www.googleapis.com/auth/spreadsheets"

	// ScopeDrive covers deleting the upload document after a merge.
	ScopeDrive = "https://www.googleapis.com/auth/drive"
)

// Timeout constants define timeout durations used in the application.
const (
	// DefaultHTTPTimeout is the standard timeout for Sheets and Drive calls.
	DefaultHTTPTimeout = 2 * time.Minute

	// CommandTimeout is the default timeout for CLI commands.
	CommandTimeout = 10 * time.Minute
)
