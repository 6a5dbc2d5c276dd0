package report

import (
	"bytes"
	"encoding/json"
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultTopCategories is the number of expense categories kept by name.
const DefaultTopCategories = 8

// OtherCategory collects the categories beyond the top N.
const OtherCategory = "Other"

var accountCode = regexp.MustCompile(`^\d+(\.\d+)?\s+`)

// StripAccountCode removes a leading account number such as "6000 " or
// "6100.20 " from a label.
func StripAccountCode(label string) string {
	return accountCode.ReplaceAllString(strings.TrimSpace(label), "")
}

// IsExpenseSection reports whether a section label opens an expense subtree.
func IsExpenseSection(label string) bool {
	return label == "Expenses" || label == "Cost of Goods Sold"
}

// CategoryValue is one category's amount within a month.
type CategoryValue struct {
	Category string
	Amount   float64
}

// MonthBreakdown is one month of the expense breakdown.
type MonthBreakdown struct {
	Month  string
	Values []CategoryValue
}

// Value returns the amount recorded for a category, or 0.
func (m MonthBreakdown) Value(category string) float64 {
	for _, v := range m.Values {
		if v.Category == category {
			return v.Amount
		}
	}
	return 0
}

// MarshalJSON renders the month as a flat object keyed by category, in rank
// order: {"month":"Jan 24","Rent":500,"Other":12}.
func (m MonthBreakdown) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(`{"month":`)
	month, err := json.Marshal(m.Month)
	if err != nil {
		return nil, err
	}
	buf.Write(month)
	for _, v := range m.Values {
		key, err := json.Marshal(v.Category)
		if err != nil {
			return nil, err
		}
		amount, err := json.Marshal(v.Amount)
		if err != nil {
			return nil, err
		}
		buf.WriteByte(',')
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(amount)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CategoryBreakdown is the per-month expense series by category.
type CategoryBreakdown struct {
	Categories []string         `json:"categories"`
	Months     []MonthBreakdown `json:"months"`
}

type series [12]decimal.Decimal

func (s series) sum() decimal.Decimal {
	total := decimal.Zero
	for _, v := range s {
		total = total.Add(v)
	}
	return total
}

type expenseAcc struct {
	order  []string
	values map[string]series
}

// ExpenseBreakdown collects every leaf under the "Expenses" and "Cost of
// Goods Sold" sections, keyed by label with account codes stripped, and keeps
// the topN largest categories by yearly total. The rest is folded into
// OtherCategory for months where it is positive. topN <= 0 means
// DefaultTopCategories.
func ExpenseBreakdown(nodes []Node, columns []Column, year int, topN int) CategoryBreakdown {
	if topN <= 0 {
		topN = DefaultTopCategories
	}
	months := MapColumns(columns, year)
	acc := collectExpenses(nodes, months, false, expenseAcc{values: map[string]series{}})

	ranked := rankCategories(acc)
	kept := ranked
	if len(kept) > topN {
		kept = ranked[:topN]
	}

	var other series
	for _, name := range ranked[len(kept):] {
		vals := acc.values[name]
		for m := range other {
			other[m] = other[m].Add(vals[m])
		}
	}
	hasOther := false
	for _, v := range other {
		if v.IsPositive() {
			hasOther = true
			break
		}
	}

	categories := make([]string, 0, len(kept)+1)
	categories = append(categories, kept...)
	if hasOther {
		categories = append(categories, OtherCategory)
	}

	out := CategoryBreakdown{Categories: categories, Months: make([]MonthBreakdown, 12)}
	for m := range out.Months {
		values := make([]CategoryValue, 0, len(categories))
		for _, name := range kept {
			values = append(values, CategoryValue{Category: name, Amount: toFloat(acc.values[name][m])})
		}
		if other[m].IsPositive() {
			values = append(values, CategoryValue{Category: OtherCategory, Amount: toFloat(other[m])})
		}
		out.Months[m] = MonthBreakdown{Month: MonthLabel(year, time.Month(m+1)), Values: values}
	}
	return out
}

func collectExpenses(nodes []Node, months []int, inExpenses bool, acc expenseAcc) expenseAcc {
	for i := range nodes {
		n := &nodes[i]
		if n.Kind == KindSection {
			acc = collectExpenses(n.Children, months, inExpenses || IsExpenseSection(n.Label()), acc)
			continue
		}
		if !inExpenses {
			continue
		}
		label := StripAccountCode(n.Label())
		if label == "" {
			continue
		}
		vals, seen := acc.values[label]
		if !seen {
			acc.order = append(acc.order, label)
		}
		for c := 1; c < len(n.Cells) && c < len(months); c++ {
			if m := months[c]; m != Unassigned {
				vals[m] = vals[m].Add(parseDecimal(n.Cells[c].Value))
			}
		}
		acc.values[label] = vals
	}
	return acc
}

// rankCategories orders labels by yearly total, largest first, then by name.
func rankCategories(acc expenseAcc) []string {
	ranked := append([]string(nil), acc.order...)
	totals := make(map[string]decimal.Decimal, len(ranked))
	for _, name := range ranked {
		totals[name] = acc.values[name].sum()
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if c := totals[ranked[i]].Cmp(totals[ranked[j]]); c != 0 {
			return c > 0
		}
		return ranked[i] < ranked[j]
	})
	return ranked
}
