package ledgersync

import (
	"context"
	"time"

	"github.com/tallyops/ledgersync/pkg/constants"
	"github.com/tallyops/ledgersync/pkg/errors"
	"github.com/tallyops/ledgersync/pkg/ledger"
	"github.com/tallyops/ledgersync/pkg/reconcile"
)

// Run executes the reconciliation pipeline against the configured
// documents.
func (r *reconciler) Run(ctx context.Context) (*Result, error) {
	// Step 0: Set context
	if ctx == nil {
		ctx = context.Background()
	}
	start := time.Now()
	log := r.logger()
	layout := r.layout()

	// Step 1: Authenticate and open the spreadsheet gateway
	gw, creds, err := r.connect(ctx)
	if err != nil {
		return nil, errors.AtStage(errors.StageAuth, err)
	}
	if creds != nil {
		log.Debug().
			Str("service_account", creds.Key.ClientEmail).
			Str("source", creds.Source).
			Msg("Service account authenticated")
	}

	// Step 2: Load both documents
	mainGrid, err := gw.Values(ctx, constants.DocMain, r.config.mainSheetID, layout.MainWorksheet)
	if err != nil {
		return nil, errors.AtStage(errors.StageLoad, err)
	}
	uploadWorksheet, err := gw.FirstWorksheet(ctx, constants.DocUpload, r.config.uploadSheetID)
	if err != nil {
		return nil, errors.AtStage(errors.StageLoad, err)
	}
	uploadGrid, err := gw.Values(ctx, constants.DocUpload, r.config.uploadSheetID, uploadWorksheet)
	if err != nil {
		return nil, errors.AtStage(errors.StageLoad, err)
	}
	log.Info().
		Int("main_rows", len(mainGrid)).
		Int("upload_rows", len(uploadGrid)).
		Str("upload_worksheet", uploadWorksheet).
		Msg("Documents loaded")

	// Step 3: Parse both grids and merge the upload into the ledger
	mainTable, err := ledger.ParseMainTable(mainGrid, layout)
	if err != nil {
		return nil, errors.AtStage(errors.StageMerge, err)
	}
	uploadTable, err := ledger.ParseUploadTable(uploadGrid, layout)
	if err != nil {
		return nil, errors.AtStage(errors.StageMerge, err)
	}
	plan := reconcile.Merge(mainTable, uploadTable, layout)
	for _, m := range plan.Malformed {
		log.Warn().
			Str("document", m.Doc).
			Int("row", m.Row).
			Int("width", m.Width).
			Msg("Row too short to carry an account key")
	}
	if plan.HasChanges() {
		log.Info().
			Int("updated", len(plan.Updates)).
			Int("appended", len(plan.Appends)).
			Int("skipped", plan.Skipped).
			Msg("Changes staged")
	} else {
		log.Info().Msg("No changes staged")
	}

	result := &Result{
		Updated:   len(plan.Updates),
		Appended:  len(plan.Appends),
		Skipped:   plan.Skipped,
		Malformed: plan.Malformed,
		MainRows:  len(mainGrid),
		DryRun:    r.config.dryRun,
	}

	// Step 4: Stop here on a dry run
	if r.config.dryRun {
		log.Info().Bool("dry_run", true).Msg("Dry run completed - no changes applied")
		result.Duration = time.Since(start)
		return result, nil
	}

	// Step 5: Write the merged ledger back
	plan.Apply(mainTable)
	if err := gw.Overwrite(ctx, r.config.mainSheetID, layout.MainWorksheet, mainTable.Grid()); err != nil {
		return nil, errors.AtStage(errors.StageWriteBack, err)
	}
	log.Info().Int("rows", mainTable.Len()).Msg("Ledger written back")
	if rows := plan.AppendRows(); len(rows) > 0 {
		if err := gw.Append(ctx, r.config.mainSheetID, layout.MainWorksheet, rows); err != nil {
			return nil, errors.AtStage(errors.StageWriteBack, err)
		}
		log.Info().Int("rows", len(rows)).Msg("New accounts appended")
	}

	// Step 6: Reset the derived rate column against the final row count
	rows, err := gw.RowCount(ctx, constants.DocMain, r.config.mainSheetID, layout.MainWorksheet)
	if err != nil {
		return nil, errors.AtStage(errors.StagePostProcess, err)
	}
	result.MainRows = rows
	if rows > 1 {
		if err := gw.Clear(ctx, r.config.mainSheetID, layout.MainWorksheet, layout.ClearRange(rows)); err != nil {
			return nil, errors.AtStage(errors.StagePostProcess, err)
		}
	}
	if err := gw.WriteFormula(ctx, r.config.mainSheetID, layout.MainWorksheet, layout.FormulaCell(), layout.RateFormula); err != nil {
		return nil, errors.AtStage(errors.StagePostProcess, err)
	}
	log.Info().
		Int("rows", rows).
		Str("cell", layout.FormulaCell()).
		Msg("Derived column reset")

	// Step 7: Delete the consumed upload document
	if r.config.keepUpload {
		log.Info().Msg("Keeping upload document")
	} else if err := gw.Delete(ctx, constants.DocUpload, r.config.uploadSheetID); err != nil {
		// The merge has already succeeded; deletion failure is a warning.
		result.CleanupWarning = err
		log.Warn().Err(err).Msg("Could not delete upload document")
	} else {
		result.UploadDeleted = true
		log.Info().Str("document", r.config.uploadSheetID).Msg("Upload document deleted")
	}

	result.Duration = time.Since(start)
	return result, nil
}
