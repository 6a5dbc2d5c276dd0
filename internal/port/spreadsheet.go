package port

import "context"

// SpreadsheetClient writes and reads spreadsheet tabs.
type SpreadsheetClient interface {
	// WriteRows replaces the contents of tab and returns the updated A1 range.
	WriteRows(ctx context.Context, spreadsheetID, tab string, rows [][]any) (string, error)
	ReadRange(ctx context.Context, spreadsheetID, rng string) ([][]string, error)
}
