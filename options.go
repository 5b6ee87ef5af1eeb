package ledgersync

import (
	"github.com/rs/zerolog"

	"github.com/tallyops/ledgersync/pkg/errors"
	"github.com/tallyops/ledgersync/pkg/ledger"
)

// Option is a function that configures a Reconciler instance
type Option func(*config) error

// config holds the reconciler configuration assembled from options.
type config struct {
	mainSheetID   string
	uploadSheetID string

	credentialsJSON string
	credentialsFile string

	layout *ledger.Layout

	dryRun     bool
	keepUpload bool

	logger  *zerolog.Logger
	gateway Gateway
}

// defaultConfig returns the baseline configuration.
func defaultConfig() *config {
	return &config{
		layout: ledger.DefaultLayout(),
	}
}

// validate checks that the configuration can drive a run.
func (c *config) validate() error {
	if c.mainSheetID == "" {
		return &errors.ValidationError{
			Field:   "main_sheet_id",
			Message: "main document ID is required",
		}
	}
	if c.uploadSheetID == "" {
		return &errors.ValidationError{
			Field:   "upload_sheet_id",
			Message: "upload document ID is required",
		}
	}
	if c.layout == nil {
		return &errors.ValidationError{
			Field:   "layout",
			Message: "layout is required",
		}
	}
	return c.layout.Validate()
}

// WithDocumentIDs configures the main ledger document and the upload
// document the run operates on.
func WithDocumentIDs(mainSheetID, uploadSheetID string) Option {
	return func(c *config) error {
		c.mainSheetID = mainSheetID
		c.uploadSheetID = uploadSheetID
		return nil
	}
}

// WithMainDocumentID overrides just the main ledger document ID.
func WithMainDocumentID(id string) Option {
	return func(c *config) error {
		c.mainSheetID = id
		return nil
	}
}

// WithUploadDocumentID overrides just the upload document ID.
func WithUploadDocumentID(id string) Option {
	return func(c *config) error {
		c.uploadSheetID = id
		return nil
	}
}

// WithCredentialsJSON configures an inline service account key payload.
// Inline credentials take precedence over a key file.
func WithCredentialsJSON(payload string) Option {
	return func(c *config) error {
		c.credentialsJSON = payload
		return nil
	}
}

// WithCredentialsFile configures a service account key file path.
func WithCredentialsFile(path string) Option {
	return func(c *config) error {
		c.credentialsFile = path
		return nil
	}
}

// WithLayout configures the worksheet layout contract. The default
// layout matches the production billing ledger.
func WithLayout(layout *ledger.Layout) Option {
	return func(c *config) error {
		c.layout = layout
		return nil
	}
}

// WithLayoutFile loads a worksheet layout from a YAML file and uses it
// in place of the default layout.
func WithLayoutFile(path string) Option {
	return func(c *config) error {
		layout, err := ledger.LoadLayout(path)
		if err != nil {
			return err
		}
		c.layout = layout
		return nil
	}
}

// WithDryRun configures whether the run stops after the merge and
// reports the staged plan without writing anything.
func WithDryRun(enabled bool) Option {
	return func(c *config) error {
		c.dryRun = enabled
		return nil
	}
}

// WithKeepUpload configures whether the upload document is kept after a
// successful merge instead of being deleted.
func WithKeepUpload(enabled bool) Option {
	return func(c *config) error {
		c.keepUpload = enabled
		return nil
	}
}

// WithLogger configures the logger used by the pipeline.
func WithLogger(logger *zerolog.Logger) Option {
	return func(c *config) error {
		c.logger = logger
		return nil
	}
}

// WithGateway configures a custom spreadsheet gateway, bypassing
// service account authentication. Used by tests.
func WithGateway(gateway Gateway) Option {
	return func(c *config) error {
		c.gateway = gateway
		return nil
	}
}
