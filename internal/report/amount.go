package report

import (
	"strings"

	"github.com/shopspring/decimal"
)

// AmountColumn selects which cell of a row holds its amount.
type AmountColumn int

const (
	// AmountSecond reads the amount from the cell after the label.
	AmountSecond AmountColumn = iota
	// AmountLast reads the amount from the final cell, for variable-width rows.
	AmountLast
)

func (a AmountColumn) String() string {
	if a == AmountLast {
		return "last"
	}
	return "second"
}

// pick returns the raw amount text, or "" when the row has no amount cell.
func (a AmountColumn) pick(cells []Cell) string {
	if len(cells) < 2 {
		return ""
	}
	if a == AmountLast {
		return cells[len(cells)-1].Value
	}
	return cells[1].Value
}

// ParseAmount parses a vendor amount. Blank or unparsable text is 0.
func ParseAmount(s string) float64 {
	f, _ := parseDecimal(s).Float64()
	return f
}

func parseDecimal(s string) decimal.Decimal {
	s = strings.ReplaceAll(strings.TrimSpace(s), ",", "")
	if s == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

func toFloat(d decimal.Decimal) float64 {
	f, _ := d.Float64()
	return f
}
