package ledger

// MainRecord is one data row of the main table, split around the
// updatable span. Lead and Tail reproduce the loaded cells verbatim on
// write-back; only Update may be replaced by a merge. Account is a copy
// of the key cell, empty when the row is too short to carry one.
type MainRecord struct {
	Lead    []string // cells before the update span (none in the default layout)
	Update  []string // the updatable span
	Tail    []string // cells from the end of the update span onward, key included
	Account string   // key cell value
}

// Cells reassembles the record into a sheet row. The result reproduces
// the loaded row exactly except for a replaced update span.
func (r *MainRecord) Cells() []string {
	cells := make([]string, 0, len(r.Lead)+len(r.Update)+len(r.Tail))
	cells = append(cells, r.Lead...)
	cells = append(cells, r.Update...)
	return append(cells, r.Tail...)
}

// UploadRecord is one data row of the upload table. The document's extra
// leading column is dropped at parse time. Fields holds the append span,
// padded with empty cells to the span width when the loaded row ran
// short of it.
type UploadRecord struct {
	Account string   // key cell value; empty keys do not participate in the merge
	Fields  []string // append span cells, always AppendSpanLen wide
}

// UpdateSpan returns a copy of the leading fields that overwrite a
// matched main row's update span.
func (r *UploadRecord) UpdateSpan(l *Layout) []string {
	return append([]string(nil), r.Fields[:l.UpdateSpanLen]...)
}

func parseMainRecord(row []string, l *Layout) MainRecord {
	spanEnd := l.UpdateSpanStart + l.UpdateSpanLen
	rec := MainRecord{
		Lead:   spanOf(row, 0, l.UpdateSpanStart),
		Update: spanOf(row, l.UpdateSpanStart, spanEnd),
		Tail:   spanOf(row, spanEnd, len(row)),
	}
	if l.MainKeyColumn < len(row) {
		rec.Account = row[l.MainKeyColumn]
	}
	return rec
}

func parseUploadRecord(row []string, l *Layout) UploadRecord {
	fields := spanOf(row, l.AppendSpanStart, l.AppendSpanStart+l.AppendSpanLen)
	for len(fields) < l.AppendSpanLen {
		fields = append(fields, "")
	}
	return UploadRecord{
		Account: row[l.UploadKeyColumn],
		Fields:  fields,
	}
}

// spanOf copies row[from:to], clipped to the row's actual length.
func spanOf(row []string, from, to int) []string {
	if from > len(row) {
		from = len(row)
	}
	if to > len(row) {
		to = len(row)
	}
	out := make([]string, to-from)
	copy(out, row[from:to])
	return out
}
