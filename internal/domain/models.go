package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"holdops/internal/report"
)

// Company is one operating company of the holding group, linked to its
// accounting realm.
type Company struct {
	Slug    string `json:"slug"`
	RealmID string `json:"realm_id"`
	Name    string `json:"name"`
}

// ReportRequest describes one accounting report fetch.
type ReportRequest struct {
	Kind             ReportKind
	Start            string
	End              string
	AsOf             string
	AccountingMethod string
	SummarizeBy      string
	// KeepZero overrides the flattening policy's zero filtering when set.
	KeepZero *bool
}

// Variant returns a stable key fragment identifying the request parameters.
func (r ReportRequest) Variant() string {
	parts := []string{string(r.Kind)}
	for _, p := range []string{r.Start, r.End, r.AsOf, r.AccountingMethod, r.SummarizeBy} {
		if p != "" {
			parts = append(parts, strings.ToLower(p))
		}
	}
	return strings.Join(parts, ":")
}

// ValidateDates checks that the date fields are YYYY-MM-DD and ordered.
func (r ReportRequest) ValidateDates() error {
	var start, end time.Time
	for _, f := range []struct {
		name string
		val  string
		dst  *time.Time
	}{{"start", r.Start, &start}, {"end", r.End, &end}, {"as_of", r.AsOf, nil}} {
		if f.val == "" {
			continue
		}
		t, err := time.Parse(time.DateOnly, f.val)
		if err != nil {
			return fmt.Errorf("%w: %s must be YYYY-MM-DD", ErrInvalidDate, f.name)
		}
		if f.dst != nil {
			*f.dst = t
		}
	}
	if !start.IsZero() && !end.IsZero() && end.Before(start) {
		return fmt.Errorf("%w: end is before start", ErrInvalidDate)
	}
	return nil
}

// FlatReport is a normalized report as served to the dashboard.
type FlatReport struct {
	Company     string           `json:"company"`
	Kind        ReportKind       `json:"kind"`
	ReportName  string           `json:"report_name"`
	StartPeriod string           `json:"start_period,omitempty"`
	EndPeriod   string           `json:"end_period,omitempty"`
	Currency    string           `json:"currency,omitempty"`
	Rows        []report.FlatRow `json:"rows"`
	GeneratedAt time.Time        `json:"generated_at"`
}

// AgingReport is a receivables or payables aging summary.
type AgingReport struct {
	Company     string            `json:"company"`
	Side        AgingSide         `json:"side"`
	AsOf        string            `json:"as_of,omitempty"`
	Currency    string            `json:"currency,omitempty"`
	Rows        []report.AgingRow `json:"rows"`
	GeneratedAt time.Time         `json:"generated_at"`
}

// MonthlyReport is one company's profit and loss pivoted by month.
type MonthlyReport struct {
	Company string                 `json:"company"`
	Year    int                    `json:"year"`
	Buckets []report.MonthlyBucket `json:"buckets"`
}

// ConsolidatedMonthly is the monthly series of several companies plus their sum.
type ConsolidatedMonthly struct {
	Year      int                    `json:"year"`
	Companies []MonthlyReport        `json:"companies"`
	All       []report.MonthlyBucket `json:"all"`
}

// ExpenseTrend is a company's expense breakdown by category and month.
type ExpenseTrend struct {
	Company    string                  `json:"company"`
	Year       int                     `json:"year"`
	Categories []string                `json:"categories"`
	Months     []report.MonthBreakdown `json:"months"`
}

// ChatMessage is one turn of an LLM conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a conversation sent to the LLM.
type ChatRequest struct {
	System    string        `json:"system,omitempty"`
	Messages  []ChatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens,omitempty"`
	Company   string        `json:"company,omitempty"`
}

// ChatReply is the LLM's answer.
type ChatReply struct {
	Text         string `json:"text"`
	Model        string `json:"model"`
	StopReason   string `json:"stop_reason"`
	Truncated    bool   `json:"truncated"`
	InputTokens  int    `json:"input_tokens"`
	OutputTokens int    `json:"output_tokens"`
}

// Email is an outbound transactional message.
type Email struct {
	To      []string
	Subject string
	HTML    string
	Text    string
	Tags    map[string]string
}

// DigestSection is one company's part of the monthly digest.
type DigestSection struct {
	Company Company              `json:"company"`
	Bucket  report.MonthlyBucket `json:"bucket"`
	Lines   []report.FlatRow     `json:"lines"`
	Error   string               `json:"error,omitempty"`
}

// Digest is the monthly operations summary across companies.
type Digest struct {
	Year        int             `json:"year"`
	Month       int             `json:"month"`
	Period      string          `json:"period"`
	Sections    []DigestSection `json:"sections"`
	Narrative   string          `json:"narrative,omitempty"`
	Text        string          `json:"text"`
	HTML        string          `json:"html"`
	SentTo      []string        `json:"sent_to,omitempty"`
	GeneratedAt time.Time       `json:"generated_at"`
}

// ExportResult points at an uploaded report export.
type ExportResult struct {
	Key       string       `json:"key"`
	URL       string       `json:"url"`
	Format    ExportFormat `json:"format"`
	Rows      int          `json:"rows"`
	ExpiresIn int64        `json:"expires_in"`
}

// SheetWriteResult describes rows written to a spreadsheet tab.
type SheetWriteResult struct {
	SpreadsheetID string `json:"spreadsheet_id"`
	Range         string `json:"range"`
	Rows          int    `json:"rows"`
}

// KVEntry is one key-value store record.
type KVEntry struct {
	Key       string          `db:"key" json:"key"`
	Value     json.RawMessage `db:"value" json:"value"`
	ExpiresAt *time.Time      `db:"expires_at" json:"expires_at,omitempty"`
	UpdatedAt time.Time       `db:"updated_at" json:"updated_at"`
}
