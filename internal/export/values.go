package export

import "holdops/internal/report"

// SheetValues converts flat rows to spreadsheet values with a header row.
// Header rows leave the amount cell empty.
func SheetValues(rows []report.FlatRow) [][]any {
	out := make([][]any, 0, len(rows)+1)
	out = append(out, []any{"Label", "Amount", "Row Type"})
	for _, r := range rows {
		var amount any = ""
		if r.Value != nil {
			amount = *r.Value
		}
		out = append(out, []any{IndentedLabel(r), amount, RowType(r)})
	}
	return out
}

// MonthlySheetValues converts monthly buckets to spreadsheet values.
func MonthlySheetValues(buckets []report.MonthlyBucket) [][]any {
	out := make([][]any, 0, len(buckets)+1)
	out = append(out, []any{"Month", "Income", "Expenses", "Net"})
	for _, b := range buckets {
		out = append(out, []any{b.Month, b.Income, b.Expenses, b.Net})
	}
	return out
}
