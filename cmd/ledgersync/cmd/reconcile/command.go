// Package reconcile provides the reconcile command implementation.
package reconcile

import (
	"github.com/spf13/cobra"

	"github.com/tallyops/ledgersync/cmd/application"
)

// NewCommand creates the reconcile command using app context.
func NewCommand(app application.Application) *cobra.Command {
	var flags *Flags

	cmd := &cobra.Command{
		Use:   "reconcile",
		Short: "Merge the upload document into the billing ledger",
		Long: `Reconcile merges an uploaded accounts worksheet into the main billing
ledger:

1. Rows whose account key matches an existing ledger row update it in place
2. Rows with unknown account keys are appended with the default tier
3. The derived rate column is cleared and its lookup formula restored
4. The upload document is deleted once the merge has landed

Document IDs and credentials come from the environment (MAIN_SHEET_ID,
NEW_DATA_SHEET_ID, GCP_SA_KEY) or a config file. Flags take precedence.`,
		Example: `  ledgersync reconcile                      # Merge the configured upload
  ledgersync reconcile --dry-run            # Preview changes without writing
  ledgersync reconcile --keep-upload        # Merge but keep the upload document
  ledgersync reconcile -o json              # Machine-readable result`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return ExecuteReconcile(cmd.Context(), app, flags)
		},
	}

	// Add reconcile-specific flags
	flags = addReconcileFlags(cmd)

	return cmd
}

// Flags holds flags for the reconcile command.
type Flags struct {
	DryRun        bool
	KeepUpload    bool
	MainSheetID   string
	UploadSheetID string
	Credentials   string
	Layout        string
}

// addReconcileFlags registers reconcile-specific flags and returns their
// destination struct.
func addReconcileFlags(cmd *cobra.Command) *Flags {
	flags := &Flags{}

	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false,
		"Stage the merge and report changes without writing anything")
	cmd.Flags().BoolVar(&flags.KeepUpload, "keep-upload", false,
		"Keep the upload document after a successful merge")
	cmd.Flags().StringVar(&flags.MainSheetID, "main-sheet-id", "",
		"Main ledger document ID (overrides MAIN_SHEET_ID)")
	cmd.Flags().StringVar(&flags.UploadSheetID, "upload-sheet-id", "",
		"Upload document ID (overrides NEW_DATA_SHEET_ID)")
	cmd.Flags().StringVar(&flags.Credentials, "credentials", "",
		"Path to a service account key file (overrides GCP_SA_KEY)")
	cmd.Flags().StringVar(&flags.Layout, "layout", "",
		"Path to a worksheet layout YAML file")

	return flags
}
