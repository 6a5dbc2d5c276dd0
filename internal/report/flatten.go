package report

// FlatRow is one line of a flattened report.
type FlatRow struct {
	Label    string   `json:"label"`
	Value    *float64 `json:"value"`
	IsTotal  bool     `json:"isTotal"`
	IsHeader bool     `json:"isHeader"`
	Depth    int      `json:"depth"`
}

// Amount returns the row value, treating header rows as 0.
func (r FlatRow) Amount() float64 {
	if r.Value == nil {
		return 0
	}
	return *r.Value
}

// FlattenRows walks the tree depth-first. A section emits its header before
// its children and its total after them; leaves emit a single row.
func FlattenRows(nodes []Node, opts Options) []FlatRow {
	return flatten(nodes, 0, opts, make([]FlatRow, 0, len(nodes)))
}

func flatten(nodes []Node, depth int, opts Options, out []FlatRow) []FlatRow {
	for i := range nodes {
		n := &nodes[i]
		label := n.Label()

		if n.Kind == KindSection {
			if label != "" && !opts.SuppressHeaders {
				out = append(out, FlatRow{Label: label, IsHeader: true, Depth: depth})
			}
			out = flatten(n.Children, depth+1, opts, out)
			if n.HasSummary() {
				v := ParseAmount(opts.Amount.pick(n.Summary))
				out = append(out, FlatRow{Label: totalLabel(n), Value: &v, IsTotal: true, Depth: depth})
			}
			continue
		}

		if label == "" {
			continue
		}
		v := ParseAmount(opts.Amount.pick(n.Cells))
		if v == 0 && opts.DropZero {
			continue
		}
		out = append(out, FlatRow{Label: label, Value: &v, Depth: depth})
	}
	return out
}

// totalLabel names a section total. Unlabelled sections (gross profit, net
// income) fall back to their summary's own label.
func totalLabel(n *Node) string {
	if label := n.Label(); label != "" {
		return "Total " + label
	}
	if label := n.SummaryLabel(); label != "" {
		return label
	}
	return "Total"
}
