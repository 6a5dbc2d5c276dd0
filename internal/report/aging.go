package report

import "github.com/shopspring/decimal"

// AgingColumns names the aging buckets in cell order, followed by the total.
var AgingColumns = []string{"Current", "1-30", "31-60", "61-90", "91+", "Total"}

// AgingTotalLabel labels the synthetic column-sum row.
const AgingTotalLabel = "TOTAL"

const agingBuckets = 5

// AgingRow is a flat aging line: the header, one entity, or the total.
type AgingRow struct {
	FlatRow
	Current    float64  `json:"current"`
	Days1To30  float64  `json:"days1To30"`
	Days31To60 float64  `json:"days31To60"`
	Days61To90 float64  `json:"days61To90"`
	Days91Plus float64  `json:"days91Plus"`
	Total      float64  `json:"total"`
	Columns    []string `json:"columns,omitempty"`
}

type agingLine struct {
	buckets [agingBuckets]decimal.Decimal
	total   decimal.Decimal
}

func (l agingLine) add(o agingLine) agingLine {
	for i := range l.buckets {
		l.buckets[i] = l.buckets[i].Add(o.buckets[i])
	}
	l.total = l.total.Add(o.total)
	return l
}

func (l agingLine) row(label string, isTotal bool) AgingRow {
	total := toFloat(l.total)
	return AgingRow{
		FlatRow:    FlatRow{Label: label, Value: &total, IsTotal: isTotal},
		Current:    toFloat(l.buckets[0]),
		Days1To30:  toFloat(l.buckets[1]),
		Days31To60: toFloat(l.buckets[2]),
		Days61To90: toFloat(l.buckets[3]),
		Days91Plus: toFloat(l.buckets[4]),
		Total:      total,
	}
}

// readAgingLine reads [name, current, 1-30, 31-60, 61-90, 91+, total]. The
// total always comes from the last cell.
func readAgingLine(cells []Cell) agingLine {
	var l agingLine
	for i := range l.buckets {
		if i+1 < len(cells)-1 {
			l.buckets[i] = parseDecimal(cells[i+1].Value)
		}
	}
	l.total = parseDecimal(AmountLast.pick(cells))
	return l
}

// FlattenAgingRows turns a receivables or payables aging report into a header
// row, one row per entity with a non-zero total, and a TOTAL row summing the
// emitted entities. Only top-level leaves are read; the vendor's own grand
// total section is ignored.
func FlattenAgingRows(nodes []Node) []AgingRow {
	out := []AgingRow{{
		FlatRow: FlatRow{Label: "Name", IsHeader: true},
		Columns: AgingColumns,
	}}

	var sum agingLine
	for i := range nodes {
		n := &nodes[i]
		if n.Kind != KindData {
			continue
		}
		label := n.Label()
		if label == "" {
			continue
		}
		line := readAgingLine(n.Cells)
		if line.total.IsZero() {
			continue
		}
		out = append(out, line.row(label, false))
		sum = sum.add(line)
	}

	return append(out, sum.row(AgingTotalLabel, true))
}
