// Package check provides the access verification command.
package check

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/tallyops/ledgersync/cmd/application"
	"github.com/tallyops/ledgersync/internal/cmd/output"
)

// NewCommand creates the check command using app context.
func NewCommand(app application.Application) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Verify access to the configured documents",
		Long: `Check authenticates with the configured service account and verifies
that both documents are reachable:

  - The main ledger document and its accounts worksheet
  - The upload document and its first worksheet

No data is modified. Use this to validate credentials and document
sharing before scheduling a reconcile.`,
		Example: `  ledgersync check                          # Verify both documents
  ledgersync check -o json                  # Machine-readable report`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCheck(cmd.Context(), app)
		},
	}
}

func runCheck(ctx context.Context, app application.Application) error {
	rec, err := app.Reconciler()
	if err != nil {
		return err
	}

	report, err := rec.Check(ctx)
	if err != nil {
		return err
	}

	format := output.DetectFormat(app.OutputFormat())

	// For structured output, return the full report
	if format != output.FormatTable {
		formatter := output.NewFormatter(format)
		return formatter.Format(os.Stdout, report)
	}

	// For table output, show full UI with headers
	fmt.Println()
	fmt.Println("Document Access:")
	if report.ServiceAccount != "" {
		fmt.Printf("Service account: %s\n", report.ServiceAccount)
	}
	fmt.Println()

	data := output.Data{
		Headers: []string{"Role", "Document", "Title", "Worksheet", "Rows"},
		Rows:    make([][]string, 0, len(report.Documents)),
	}
	for _, doc := range report.Documents {
		data.Rows = append(data.Rows, []string{
			doc.Role,
			doc.ID,
			doc.Title,
			doc.Worksheet,
			strconv.Itoa(doc.Rows),
		})
	}

	formatter := output.NewFormatter(format)
	if err := formatter.Format(os.Stdout, data); err != nil {
		return err
	}

	if !app.Quiet() {
		fmt.Fprintf(os.Stderr, "\n✅ Access check passed\n")
	}

	return nil
}
