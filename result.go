package ledgersync

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tallyops/ledgersync/pkg/errors"
)

// Result reports what a run did.
type Result struct {
	// Updated is the number of ledger rows overwritten in place.
	Updated int `json:"updated" yaml:"updated"`

	// Appended is the number of new account rows appended.
	Appended int `json:"appended" yaml:"appended"`

	// Skipped is the number of upload rows ignored for an empty key.
	Skipped int `json:"skipped" yaml:"skipped"`

	// Malformed lists rows from either document that were too short to
	// carry a key cell.
	Malformed []*errors.SchemaError `json:"malformed,omitempty" yaml:"malformed,omitempty"`

	// MainRows is the ledger row count after write-back, header
	// included. On a dry run it is the count at load time.
	MainRows int `json:"main_rows" yaml:"main_rows"`

	// DryRun reports whether the run stopped after the merge.
	DryRun bool `json:"dry_run" yaml:"dry_run"`

	// UploadDeleted reports whether the upload document was deleted.
	UploadDeleted bool `json:"upload_deleted" yaml:"upload_deleted"`

	// CleanupWarning carries the upload deletion failure, if any. It is
	// a warning: the merge has already succeeded.
	CleanupWarning error `json:"-" yaml:"-"`

	// Duration is the wall-clock time of the run.
	Duration time.Duration `json:"duration" yaml:"duration"`
}

// pluralize formats a count with its noun.
func pluralize(singular, plural string, n int) string {
	noun := plural
	if n == 1 {
		noun = singular
	}
	return fmt.Sprintf("%s %s", humanize.Comma(int64(n)), noun)
}

// HasChanges reports whether the merge staged any account changes.
func (r *Result) HasChanges() bool {
	return r.Updated > 0 || r.Appended > 0
}

// Summary returns a one-line human readable description of the run.
func (r *Result) Summary() string {
	var b strings.Builder
	if r.DryRun {
		b.WriteString("dry run: would update ")
	} else {
		b.WriteString("updated ")
	}
	b.WriteString(pluralize("account", "accounts", r.Updated))
	if r.DryRun {
		b.WriteString(", would append ")
	} else {
		b.WriteString(", appended ")
	}
	b.WriteString(pluralize("account", "accounts", r.Appended))
	if r.Skipped > 0 {
		fmt.Fprintf(&b, ", skipped %s without a key", pluralize("row", "rows", r.Skipped))
	}
	if len(r.Malformed) > 0 {
		fmt.Fprintf(&b, ", flagged %s", pluralize("malformed row", "malformed rows", len(r.Malformed)))
	}
	fmt.Fprintf(&b, " (%s ledger rows)", humanize.Comma(int64(r.MainRows)))
	return b.String()
}
