// Package ledgersync reconciles a persistent billing accounts ledger
// kept in a Google Sheets document with a transient uploaded accounts
// export. Matched accounts get their updatable fields overwritten in
// place, unknown accounts are appended with a default tier, the derived
// rate column is reset to its lookup formula, and the upload document is
// deleted once its data has been merged.
package ledgersync

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/tallyops/ledgersync/internal/gauth"
	"github.com/tallyops/ledgersync/internal/sheets"
	"github.com/tallyops/ledgersync/pkg/ledger"
	"github.com/tallyops/ledgersync/pkg/logging"
)

// Reconciler runs the ledger reconciliation pipeline.
type Reconciler interface {
	// Run executes the full pipeline: load, merge, write-back,
	// post-process, cleanup. Each stage is gated on the previous one;
	// the returned error reports which stage failed.
	Run(ctx context.Context) (*Result, error)

	// Check verifies credentials and access to both documents without
	// mutating anything.
	Check(ctx context.Context) (*CheckReport, error)
}

// Gateway is the remote spreadsheet surface the pipeline drives. The
// Sheets/Drive service satisfies it; tests substitute fakes.
type Gateway interface {
	Document(ctx context.Context, doc, spreadsheetID string) (*sheets.DocumentInfo, error)
	FirstWorksheet(ctx context.Context, doc, spreadsheetID string) (string, error)
	Values(ctx context.Context, doc, spreadsheetID, worksheet string) ([][]string, error)
	RowCount(ctx context.Context, doc, spreadsheetID, worksheet string) (int, error)
	Overwrite(ctx context.Context, spreadsheetID, worksheet string, grid [][]string) error
	Append(ctx context.Context, spreadsheetID, worksheet string, rows [][]any) error
	Clear(ctx context.Context, spreadsheetID, worksheet, a1 string) error
	WriteFormula(ctx context.Context, spreadsheetID, worksheet, cell, formula string) error
	Delete(ctx context.Context, doc, spreadsheetID string) error
}

// reconciler is the internal implementation of the Reconciler interface.
type reconciler struct {
	config *config
}

// New creates a Reconciler with the given options. Document IDs and
// credentials are validated when a run starts, not here, so a
// misconfigured instance fails inside the authentication stage the way
// every other failure surfaces.
func New(opts ...Option) (Reconciler, error) {
	r := &reconciler{config: defaultConfig()}
	if err := r.options(opts...); err != nil {
		return nil, fmt.Errorf("applying options: %w", err)
	}
	return r, nil
}

// options applies the given options to the reconciler config.
func (r *reconciler) options(opts ...Option) error {
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(r.config); err != nil {
			return err
		}
	}
	return nil
}

// logger returns the configured logger, or the package default.
func (r *reconciler) logger() *zerolog.Logger {
	if r.config.logger != nil {
		return r.config.logger
	}
	return logging.Default()
}

// connect validates the configuration and opens the gateway. The
// credentials are nil when a custom gateway is injected.
func (r *reconciler) connect(ctx context.Context) (Gateway, *gauth.Credentials, error) {
	if err := r.config.validate(); err != nil {
		return nil, nil, err
	}
	if r.config.gateway != nil {
		return r.config.gateway, nil, nil
	}
	creds, err := gauth.Resolve(r.config.credentialsJSON, r.config.credentialsFile)
	if err != nil {
		return nil, nil, err
	}
	client, err := creds.Client(ctx)
	if err != nil {
		return nil, nil, err
	}
	svc, err := sheets.New(ctx, client)
	if err != nil {
		return nil, nil, err
	}
	return svc, creds, nil
}

// layout returns the configured layout.
func (r *reconciler) layout() *ledger.Layout {
	return r.config.layout
}
