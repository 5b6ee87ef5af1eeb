// Package sheets is the Google Sheets and Drive gateway the pipeline
// reads and writes through. Every method takes the document's role
// label ("main" or "upload") purely for error context, so failures
// report which document they hit without the caller re-wrapping.
package sheets

import (
	"context"
	"fmt"
	"net/http"

	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
	gsheets "google.golang.org/api/sheets/v4"

	"github.com/tallyops/ledgersync/pkg/errors"
)

// userEntered is the write mode for every mutation: the remote service
// parses written text the way it parses user-typed input, so numbers
// become numbers and formulas come alive.
const userEntered = "USER_ENTERED"

// Service wraps the Sheets and Drive APIs behind the handful of calls
// the reconciler needs.
type Service struct {
	sheets *gsheets.Service
	drive  *drive.Service
}

type config struct {
	endpoint string
}

// Option configures the Service.
type Option func(*config)

// WithEndpoint overrides the API base URL. Tests point this at a local
// fake server.
func WithEndpoint(url string) Option {
	return func(c *config) { c.endpoint = url }
}

// New builds the gateway on top of an already-authenticated HTTP
// client.
func New(ctx context.Context, client *http.Client, opts ...Option) (*Service, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}

	clientOpts := []option.ClientOption{option.WithHTTPClient(client)}
	if cfg.endpoint != "" {
		clientOpts = append(clientOpts, option.WithEndpoint(cfg.endpoint))
	}

	sheetsSvc, err := gsheets.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating sheets client: %w", err)
	}
	driveSvc, err := drive.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("creating drive client: %w", err)
	}
	return &Service{sheets: sheetsSvc, drive: driveSvc}, nil
}

// statusCode digs the HTTP status out of an API error, 0 if there is
// none (network failure, context cancellation).
func statusCode(err error) int {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code
	}
	return 0
}

// worksheetRange qualifies an A1 range with its worksheet title so the
// call lands on the right sheet of the document.
func worksheetRange(worksheet, a1 string) string {
	return fmt.Sprintf("'%s'!%s", worksheet, a1)
}

// titleRange is the A1 reference of a whole worksheet: its quoted
// title.
func titleRange(worksheet string) string {
	return fmt.Sprintf("'%s'", worksheet)
}
