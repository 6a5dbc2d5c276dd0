package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Unassigned marks a column that maps to no month of the target year.
const Unassigned = -1

// Summary labels recognized by PivotMonthly.
const (
	LabelTotalIncome   = "Total Income"
	LabelTotalExpenses = "Total Expenses"
	LabelTotalCOGS     = "Total Cost of Goods Sold"
	LabelNetIncome     = "Net Income"
)

// MonthlyBucket holds one month's headline totals.
type MonthlyBucket struct {
	Month    string  `json:"month"`
	Income   float64 `json:"income"`
	Expenses float64 `json:"expenses"`
	Net      float64 `json:"net"`
}

// IsZero reports whether all three totals are zero.
func (b MonthlyBucket) IsZero() bool {
	return b.Income == 0 && b.Expenses == 0 && b.Net == 0
}

// PivotOptions controls PivotMonthly.
type PivotOptions struct {
	// Compact drops months whose totals are all zero.
	Compact bool
}

// MonthLabel formats a month as "Jan 24".
func MonthLabel(year int, month time.Month) string {
	return fmt.Sprintf("%s %02d", month.String()[:3], year%100)
}

// MapColumns resolves every column to a month index (0-11) of year, or
// Unassigned for non-monetary columns, columns of other years and the
// vendor's aggregate total column.
func MapColumns(columns []Column, year int) []int {
	months := make([]int, len(columns))
	for i := range columns {
		months[i] = columnMonth(columns[i], year)
	}
	return months
}

func columnMonth(col Column, year int) int {
	if !col.IsMoney() || strings.EqualFold(col.Meta["ColKey"], "total") {
		return Unassigned
	}
	raw := strings.TrimSpace(col.StartDate())
	if len(raw) > len(time.DateOnly) {
		raw = raw[:len(time.DateOnly)]
	}
	start, err := time.Parse(time.DateOnly, raw)
	if err != nil || start.Year() != year {
		return Unassigned
	}
	return int(start.Month()) - 1
}

type summaryField int

const (
	fieldNone summaryField = iota
	fieldIncome
	fieldExpenses
	fieldNet
)

func fieldFor(label string) summaryField {
	switch label {
	case LabelTotalIncome:
		return fieldIncome
	case LabelTotalExpenses, LabelTotalCOGS:
		return fieldExpenses
	case LabelNetIncome:
		return fieldNet
	default:
		return fieldNone
	}
}

type monthTotals struct {
	income, expenses, net decimal.Decimal
}

type yearTotals [12]monthTotals

// PivotMonthly reduces every section summary of a month-summarized profit and
// loss report into twelve calendar buckets. Summary cell i pairs with column
// i; cell 0 is the label. Income and net overwrite; the expense and
// cost-of-goods totals add up.
func PivotMonthly(nodes []Node, columns []Column, year int, opts PivotOptions) []MonthlyBucket {
	totals := collectSummaries(nodes, MapColumns(columns, year), yearTotals{})

	out := make([]MonthlyBucket, 0, len(totals))
	for m, t := range totals {
		b := MonthlyBucket{
			Month:    MonthLabel(year, time.Month(m+1)),
			Income:   toFloat(t.income),
			Expenses: toFloat(t.expenses),
			Net:      toFloat(t.net),
		}
		if opts.Compact && b.IsZero() {
			continue
		}
		out = append(out, b)
	}
	return out
}

func collectSummaries(nodes []Node, months []int, acc yearTotals) yearTotals {
	for i := range nodes {
		n := &nodes[i]
		if n.Kind != KindSection {
			continue
		}
		if n.HasSummary() {
			acc = applySummary(n.Summary, months, acc)
		}
		acc = collectSummaries(n.Children, months, acc)
	}
	return acc
}

func applySummary(summary []Cell, months []int, acc yearTotals) yearTotals {
	field := fieldFor(cellValue(summary, 0))
	if field == fieldNone {
		return acc
	}
	for i := 1; i < len(summary) && i < len(months); i++ {
		m := months[i]
		if m == Unassigned {
			continue
		}
		v := parseDecimal(summary[i].Value)
		switch field {
		case fieldIncome:
			acc[m].income = v
		case fieldExpenses:
			acc[m].expenses = acc[m].expenses.Add(v)
		case fieldNet:
			acc[m].net = v
		}
	}
	return acc
}

// SumBuckets adds equally long monthly series position by position, keeping
// the first series' month labels. Series of another length are skipped.
func SumBuckets(series ...[]MonthlyBucket) []MonthlyBucket {
	if len(series) == 0 {
		return []MonthlyBucket{}
	}
	n := len(series[0])
	acc := make([]monthTotals, n)
	for _, s := range series {
		if len(s) != n {
			continue
		}
		for i, b := range s {
			acc[i].income = acc[i].income.Add(decimal.NewFromFloat(b.Income))
			acc[i].expenses = acc[i].expenses.Add(decimal.NewFromFloat(b.Expenses))
			acc[i].net = acc[i].net.Add(decimal.NewFromFloat(b.Net))
		}
	}
	out := make([]MonthlyBucket, n)
	for i, t := range acc {
		out[i] = MonthlyBucket{
			Month:    series[0][i].Month,
			Income:   toFloat(t.income),
			Expenses: toFloat(t.expenses),
			Net:      toFloat(t.net),
		}
	}
	return out
}

// CompactBuckets drops all-zero months.
func CompactBuckets(buckets []MonthlyBucket) []MonthlyBucket {
	out := make([]MonthlyBucket, 0, len(buckets))
	for _, b := range buckets {
		if !b.IsZero() {
			out = append(out, b)
		}
	}
	return out
}
