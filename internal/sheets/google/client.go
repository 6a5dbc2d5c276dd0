// Package google writes report rows to Google Sheets.
package google

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
	goption "google.golang.org/api/option"
	gsheet "google.golang.org/api/sheets/v4"

	"holdops/internal/config"
	"holdops/internal/domain"
)

const providerName = "sheets"

// Client implements port.SpreadsheetClient.
type Client struct {
	svc *gsheet.Service
	log *zap.Logger
}

// New creates a Sheets client using service account credentials from cfg.
func New(ctx context.Context, cfg *config.SheetsConfig, log *zap.Logger) (*Client, error) {
	credentialsJSON := []byte(strings.TrimSpace(cfg.CredentialsJSON))
	if len(credentialsJSON) == 0 {
		if cfg.CredentialsFile == "" {
			return nil, domain.ErrSheetsDisabled
		}
		var err error
		credentialsJSON, err = os.ReadFile(cfg.CredentialsFile)
		if err != nil {
			return nil, fmt.Errorf("read service account file: %w", err)
		}
	}

	svc, err := gsheet.NewService(ctx,
		goption.WithCredentialsJSON(credentialsJSON),
		goption.WithScopes(gsheet.SpreadsheetsScope))
	if err != nil {
		return nil, fmt.Errorf("create sheets service: %w", err)
	}
	return NewWithService(svc, log), nil
}

// NewWithService wraps an existing Sheets service.
func NewWithService(svc *gsheet.Service, log *zap.Logger) *Client {
	return &Client{svc: svc, log: log}
}

// WriteRows clears tab, creating it when missing, and writes rows from A1.
func (c *Client) WriteRows(ctx context.Context, spreadsheetID, tab string, rows [][]any) (string, error) {
	if err := c.ensureTab(ctx, spreadsheetID, tab); err != nil {
		return "", err
	}

	quoted := quoteTab(tab)
	if _, err := c.svc.Spreadsheets.Values.Clear(spreadsheetID, quoted, &gsheet.ClearValuesRequest{}).
		Context(ctx).Do(); err != nil {
		return "", wrapAPIError("clear tab", err)
	}

	values := make([][]interface{}, len(rows))
	for i, r := range rows {
		values[i] = r
	}
	resp, err := c.svc.Spreadsheets.Values.Update(spreadsheetID, quoted+"!A1", &gsheet.ValueRange{Values: values}).
		ValueInputOption("USER_ENTERED").
		Context(ctx).Do()
	if err != nil {
		return "", wrapAPIError("write rows", err)
	}

	c.log.Info("sheets: rows written",
		zap.String("spreadsheet_id", spreadsheetID),
		zap.String("range", resp.UpdatedRange),
		zap.Int64("rows", resp.UpdatedRows))
	return resp.UpdatedRange, nil
}

// ReadRange returns the formatted cell values of an A1 range.
func (c *Client) ReadRange(ctx context.Context, spreadsheetID, rng string) ([][]string, error) {
	resp, err := c.svc.Spreadsheets.Values.Get(spreadsheetID, rng).Context(ctx).Do()
	if err != nil {
		return nil, wrapAPIError("read range", err)
	}
	out := make([][]string, 0, len(resp.Values))
	for _, row := range resp.Values {
		cells := make([]string, len(row))
		for i, v := range row {
			cells[i] = fmt.Sprint(v)
		}
		out = append(out, cells)
	}
	return out, nil
}

func (c *Client) ensureTab(ctx context.Context, spreadsheetID, tab string) error {
	ss, err := c.svc.Spreadsheets.Get(spreadsheetID).Fields("sheets.properties.title").Context(ctx).Do()
	if err != nil {
		return wrapAPIError("get spreadsheet", err)
	}
	for _, s := range ss.Sheets {
		if s.Properties != nil && s.Properties.Title == tab {
			return nil
		}
	}

	req := &gsheet.BatchUpdateSpreadsheetRequest{
		Requests: []*gsheet.Request{{
			AddSheet: &gsheet.AddSheetRequest{Properties: &gsheet.SheetProperties{Title: tab}},
		}},
	}
	if _, err := c.svc.Spreadsheets.BatchUpdate(spreadsheetID, req).Context(ctx).Do(); err != nil {
		return wrapAPIError("add tab", err)
	}
	c.log.Info("sheets: tab created", zap.String("spreadsheet_id", spreadsheetID), zap.String("tab", tab))
	return nil
}

// quoteTab quotes a sheet title for use in an A1 range.
func quoteTab(tab string) string {
	return "'" + strings.ReplaceAll(tab, "'", "''") + "'"
}

func wrapAPIError(op string, err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return fmt.Errorf("sheets %s: %w", op, domain.NewUpstreamError(providerName, gerr.Code, gerr.Message, ""))
	}
	return fmt.Errorf("sheets %s: %w: %v", op, domain.ErrUpstreamUnavailable, err)
}
