package ledgersync

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tallyops/ledgersync/internal/sheets"
	"github.com/tallyops/ledgersync/pkg/constants"
	"github.com/tallyops/ledgersync/pkg/errors"
)

func TestCheckReportsBothDocuments(t *testing.T) {
	gw := fixtureGateway()
	gw.documents = map[string]*sheets.DocumentInfo{
		"main-id": {
			ID:         "main-id",
			Title:      "Billing Ledger",
			Worksheets: []string{"All_accounts", "DTR Details"},
		},
		"upload-id": {
			ID:         "upload-id",
			Title:      "Accounts Export",
			Worksheets: []string{"Export 2024-11"},
		},
	}
	r := newReconciler(t, gw)

	report, err := r.Check(context.Background())
	require.NoError(t, err)

	// An injected gateway bypasses service account authentication.
	assert.Empty(t, report.ServiceAccount)
	require.Len(t, report.Documents, 2)

	main := report.Documents[0]
	assert.Equal(t, constants.DocMain, main.Role)
	assert.Equal(t, "main-id", main.ID)
	assert.Equal(t, "Billing Ledger", main.Title)
	assert.Equal(t, "All_accounts", main.Worksheet)
	assert.Equal(t, 3, main.Rows)

	upload := report.Documents[1]
	assert.Equal(t, constants.DocUpload, upload.Role)
	assert.Equal(t, "upload-id", upload.ID)
	assert.Equal(t, "Accounts Export", upload.Title)
	assert.Equal(t, "Export 2024-11", upload.Worksheet)
	assert.Equal(t, 4, upload.Rows)

	// A check never mutates either document.
	assert.Nil(t, gw.overwrote)
	assert.Nil(t, gw.appended)
	assert.Empty(t, gw.formula)
	assert.False(t, gw.deleted)
}

func TestCheckRejectsMissingWorksheet(t *testing.T) {
	gw := fixtureGateway()
	gw.documents = map[string]*sheets.DocumentInfo{
		"main-id": {
			ID:         "main-id",
			Title:      "Billing Ledger",
			Worksheets: []string{"Summary"},
		},
	}
	r := newReconciler(t, gw)

	_, err := r.Check(context.Background())
	require.Error(t, err)

	var stageErr *errors.StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, errors.StageLoad, stageErr.Stage)
	assert.Equal(t, 3, errors.ExitCode(err))
	assert.ErrorContains(t, err, `has no worksheet "All_accounts"`)
}

func TestCheckDocumentNotFound(t *testing.T) {
	gw := fixtureGateway()
	r := newReconciler(t, gw)

	_, err := r.Check(context.Background())
	require.Error(t, err)

	assert.Equal(t, 3, errors.ExitCode(err))
	assert.True(t, errors.IsNotFound(err))
}
