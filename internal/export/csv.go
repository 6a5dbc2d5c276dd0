// Package export encodes normalized report rows as CSV, XLSX and sheet values.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"holdops/internal/report"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// FlatColumns is the header row of flat report exports.
var FlatColumns = []string{"Label", "Amount", "Row Type", "Depth"}

// MonthlyColumns is the header row of monthly exports.
var MonthlyColumns = []string{"Month", "Income", "Expenses", "Net"}

const indent = "  "

// WriteCSV writes rows as CSV with a BOM and a header row. Labels are
// indented two spaces per depth level.
func WriteCSV(w io.Writer, rows []report.FlatRow) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(FlatColumns); err != nil {
		return err
	}
	for _, r := range rows {
		if err := cw.Write([]string{
			IndentedLabel(r),
			formatAmount(r.Value),
			RowType(r),
			strconv.Itoa(r.Depth),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteMonthlyCSV writes monthly buckets as CSV with a BOM and a header row.
func WriteMonthlyCSV(w io.Writer, buckets []report.MonthlyBucket) error {
	if _, err := w.Write(BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(MonthlyColumns); err != nil {
		return err
	}
	for _, b := range buckets {
		if err := cw.Write([]string{b.Month, formatMoney(b.Income), formatMoney(b.Expenses), formatMoney(b.Net)}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// IndentedLabel prefixes the label with two spaces per depth level.
func IndentedLabel(r report.FlatRow) string {
	return strings.Repeat(indent, r.Depth) + r.Label
}

// RowType names the kind of a flat row.
func RowType(r report.FlatRow) string {
	switch {
	case r.IsHeader:
		return "header"
	case r.IsTotal:
		return "total"
	default:
		return "line"
	}
}

func formatAmount(v *float64) string {
	if v == nil {
		return ""
	}
	return formatMoney(*v)
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename replaces characters other than letters, digits, hyphen
// and underscore with _, collapses repeats and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns {company}_{kind}_{YYYY-MM-DD}.{ext}.
func BuildFilename(company, kind, ext string, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s.%s", SanitizeFilename(company), SanitizeFilename(kind), now.Format("2006-01-02"), ext)
}
