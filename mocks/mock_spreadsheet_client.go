package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// MockSpreadsheetClient is a mock implementation of port.SpreadsheetClient.
type MockSpreadsheetClient struct {
	mock.Mock
}

func (m *MockSpreadsheetClient) WriteRows(ctx context.Context, spreadsheetID, tab string, rows [][]any) (string, error) {
	args := m.Called(ctx, spreadsheetID, tab, rows)
	return args.String(0), args.Error(1)
}

func (m *MockSpreadsheetClient) ReadRange(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	args := m.Called(ctx, spreadsheetID, rng)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([][]string), args.Error(1)
}
