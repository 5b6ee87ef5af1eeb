// Package gauth handles Google service-account credentials for the
// Sheets and Drive APIs. The key payload is accepted inline (the
// GCP_SA_KEY contract used by the automation that runs this tool) or as
// a key file, and is validated before any network call is made.
package gauth

import (
	"context"
	"encoding/json"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/tallyops/ledgersync/pkg/constants"
	"github.com/tallyops/ledgersync/pkg/errors"
)

// TypeServiceAccount is the only credential type the reconciler accepts.
const TypeServiceAccount = "service_account"

// EnvCredentialsFile is Google's standard pointer to a key file on disk.
const EnvCredentialsFile = "GOOGLE_APPLICATION_CREDENTIALS"

// Key is the parsed service-account key payload.
type Key struct {
	Type         string `json:"type"`
	ProjectID    string `json:"project_id"`
	PrivateKeyID string `json:"private_key_id"`
	PrivateKey   string `json:"private_key"`
	ClientEmail  string `json:"client_email"`
	ClientID     string `json:"client_id"`
	TokenURI     string `json:"token_uri"`
}

// Credentials is a validated service-account key plus its raw payload,
// which the JWT config is built from.
type Credentials struct {
	Key    *Key
	Source string // where the payload came from, for error context

	raw []byte
}

// Resolve locates and validates the credential payload. An inline JSON
// payload wins over a key file path, which wins over the
// GOOGLE_APPLICATION_CREDENTIALS environment variable.
func Resolve(inline, path string) (*Credentials, error) {
	switch {
	case inline != "":
		return Parse([]byte(inline), "GCP_SA_KEY")
	case path != "":
		return ParseFile(path)
	}
	if env := os.Getenv(EnvCredentialsFile); env != "" {
		return ParseFile(env)
	}
	return nil, errors.NewAuthenticationError("", "no credentials configured: set GCP_SA_KEY or provide a key file", nil)
}

// Parse validates a raw service-account key payload.
func Parse(data []byte, source string) (*Credentials, error) {
	var key Key
	if err := json.Unmarshal(data, &key); err != nil {
		return nil, errors.NewAuthenticationError(source, "credential payload is not valid JSON", err)
	}
	if key.Type == "" {
		return nil, errors.NewAuthenticationError(source, "credential payload is missing the 'type' field", nil)
	}
	if key.Type != TypeServiceAccount {
		return nil, errors.NewAuthenticationError(source, "credential type must be 'service_account', got '"+key.Type+"'", nil)
	}
	if key.ClientEmail == "" {
		return nil, errors.NewAuthenticationError(source, "credential payload is missing 'client_email'", nil)
	}
	if key.PrivateKey == "" {
		return nil, errors.NewAuthenticationError(source, "credential payload is missing 'private_key'", nil)
	}
	return &Credentials{Key: &key, Source: source, raw: data}, nil
}

// ParseFile reads and validates a service-account key file.
func ParseFile(path string) (*Credentials, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- reading the key file the operator pointed at
	if err != nil {
		return nil, errors.NewAuthenticationError(path, "cannot read credential file", err)
	}
	return Parse(data, path)
}

// Client builds an HTTP client that authenticates as the service account
// with the spreadsheet and drive scopes. The underlying transport
// carries the default timeout.
func (c *Credentials) Client(ctx context.Context) (*http.Client, error) {
	cfg, err := google.JWTConfigFromJSON(c.raw, constants.ScopeSpreadsheets, constants.ScopeDrive)
	if err != nil {
		return nil, errors.NewAuthenticationError(c.Source, "building JWT config from key", err)
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, &http.Client{
		Timeout: constants.DefaultHTTPTimeout,
	})
	return cfg.Client(ctx), nil
}
