package reconcile

import (
	"context"
	"fmt"
	"os"

	"github.com/tallyops/ledgersync"
	"github.com/tallyops/ledgersync/cmd/application"
	"github.com/tallyops/ledgersync/internal/cmd/output"
)

// ExecuteReconcile performs the merge and reports the results.
func ExecuteReconcile(ctx context.Context, app application.Application, flags *Flags) error {
	quiet := app.Quiet()
	if !quiet {
		fmt.Fprintf(os.Stderr, "\n🔄 Starting reconcile...\n\n")
	}

	rec, err := app.Reconciler(buildOptions(flags)...)
	if err != nil {
		return err
	}

	result, err := rec.Run(ctx)
	if err != nil {
		return err
	}

	// Display results based on output format
	if format := app.OutputFormat(); format == "json" || format == "yaml" {
		formatter := output.NewFormatter(output.Format(format))
		return formatter.Format(os.Stdout, result)
	}

	return handleResult(result, quiet)
}

// buildOptions translates command flags into reconciler options. Unset
// flags leave the configured values alone.
func buildOptions(flags *Flags) []ledgersync.Option {
	var opts []ledgersync.Option

	if flags.MainSheetID != "" {
		opts = append(opts, ledgersync.WithMainDocumentID(flags.MainSheetID))
	}
	if flags.UploadSheetID != "" {
		opts = append(opts, ledgersync.WithUploadDocumentID(flags.UploadSheetID))
	}
	if flags.Credentials != "" {
		opts = append(opts, ledgersync.WithCredentialsFile(flags.Credentials))
	}
	if flags.Layout != "" {
		opts = append(opts, ledgersync.WithLayoutFile(flags.Layout))
	}
	if flags.DryRun {
		opts = append(opts, ledgersync.WithDryRun(true))
	}
	if flags.KeepUpload {
		opts = append(opts, ledgersync.WithKeepUpload(true))
	}

	return opts
}

// handleResult prints the human-readable outcome to stderr.
func handleResult(result *ledgersync.Result, quiet bool) error {
	if result.DryRun {
		if !quiet {
			fmt.Fprintf(os.Stderr, "🔍 Dry run mode - no changes were made\n")
			fmt.Fprintf(os.Stderr, "📊 Total: %s\n", result.Summary())
		}
		return nil
	}

	if quiet {
		return nil
	}

	if !result.HasChanges() {
		fmt.Fprintf(os.Stderr, "✅ Ledger already up to date - no account changes needed\n")
	}
	if result.CleanupWarning != nil {
		fmt.Fprintf(os.Stderr, "⚠️  Could not delete upload document: %v\n", result.CleanupWarning)
	}
	if result.UploadDeleted {
		fmt.Fprintf(os.Stderr, "🗑️  Upload document deleted\n")
	}

	fmt.Fprintf(os.Stderr, "\n🎉 Reconcile completed successfully!\n")
	fmt.Fprintf(os.Stderr, "📊 Total: %s\n", result.Summary())

	return nil
}
