package domain

import (
	"fmt"
	"strings"
)

// ReportKind is the dashboard's name for an accounting report.
type ReportKind string

const (
	ReportProfitAndLoss         ReportKind = "profit-and-loss"
	ReportProfitAndLossDetail   ReportKind = "profit-and-loss-detail"
	ReportBalanceSheet          ReportKind = "balance-sheet"
	ReportCashFlow              ReportKind = "cash-flow"
	ReportAgedReceivables       ReportKind = "aged-receivables"
	ReportAgedPayables          ReportKind = "aged-payables"
	ReportAgedReceivablesDetail ReportKind = "aged-receivables-detail"
	ReportAgedPayablesDetail    ReportKind = "aged-payables-detail"
)

// vendorReportNames maps ReportKind to the accounting API's report path.
var vendorReportNames = map[ReportKind]string{
	ReportProfitAndLoss:         "ProfitAndLoss",
	ReportProfitAndLossDetail:   "ProfitAndLossDetail",
	ReportBalanceSheet:          "BalanceSheet",
	ReportCashFlow:              "CashFlow",
	ReportAgedReceivables:       "AgedReceivables",
	ReportAgedPayables:          "AgedPayables",
	ReportAgedReceivablesDetail: "AgedReceivableDetail",
	ReportAgedPayablesDetail:    "AgedPayableDetail",
}

// VendorName returns the accounting API report name.
func (k ReportKind) VendorName() string {
	return vendorReportNames[k]
}

// IsAgingSummary reports whether the kind is a flat aging summary.
func (k ReportKind) IsAgingSummary() bool {
	return k == ReportAgedReceivables || k == ReportAgedPayables
}

// ParseReportKind validates a report kind from a URL segment.
func ParseReportKind(s string) (ReportKind, error) {
	k := ReportKind(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := vendorReportNames[k]; !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidReportKind, s)
	}
	return k, nil
}

// AgingSide selects receivables or payables.
type AgingSide string

const (
	AgingReceivables AgingSide = "receivables"
	AgingPayables    AgingSide = "payables"
)

// ReportKind returns the aging summary report for the side.
func (s AgingSide) ReportKind() ReportKind {
	if s == AgingPayables {
		return ReportAgedPayables
	}
	return ReportAgedReceivables
}

// ParseAgingSide validates an aging side from a URL segment.
func ParseAgingSide(s string) (AgingSide, error) {
	switch AgingSide(strings.ToLower(strings.TrimSpace(s))) {
	case AgingReceivables:
		return AgingReceivables, nil
	case AgingPayables:
		return AgingPayables, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidAgingSide, s)
	}
}

// ExportFormat is a file encoding for report exports.
type ExportFormat string

const (
	ExportCSV  ExportFormat = "csv"
	ExportXLSX ExportFormat = "xlsx"
)

// ContentType returns the MIME type of the format.
func (f ExportFormat) ContentType() string {
	if f == ExportXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// ParseExportFormat validates an export format, defaulting to xlsx.
func ParseExportFormat(s string) (ExportFormat, error) {
	switch ExportFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", ExportXLSX:
		return ExportXLSX, nil
	case ExportCSV:
		return ExportCSV, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrExportFormat, s)
	}
}

// Accounting methods accepted by the reports API.
const (
	AccountingAccrual = "Accrual"
	AccountingCash    = "Cash"
)
