// Package report normalizes the accounting vendor's hierarchical report
// documents into flat, analyzable shapes.
//
// The raw JSON is decoded once, at the boundary, into a typed tree of Nodes.
// Every transformation in this package is a pure function over that tree:
// nothing is logged, nothing is cached and missing optional structures
// degrade to empty values instead of errors.
package report

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// ErrMalformed is returned by Decode when the payload is not a report document.
var ErrMalformed = errors.New("malformed report document")

// NodeKind discriminates report nodes.
type NodeKind int

const (
	KindData NodeKind = iota
	KindSection
)

func (k NodeKind) String() string {
	if k == KindSection {
		return "Section"
	}
	return "Data"
}

// Cell is a single column value of a row, header or summary.
type Cell struct {
	Value string `json:"value"`
	ID    string `json:"id,omitempty"`
}

// Node is one element of the report tree. Sections carry Header, Children
// and Summary; Data leaves carry Cells.
type Node struct {
	Kind     NodeKind
	Group    string
	Header   []Cell
	Children []Node
	Summary  []Cell
	Cells    []Cell

	hasSummary bool
}

// Label returns the node's own label: the first header cell of a section or
// the first cell of a leaf.
func (n *Node) Label() string {
	if n.Kind == KindSection {
		return cellValue(n.Header, 0)
	}
	return cellValue(n.Cells, 0)
}

// HasSummary reports whether the section carried a summary record.
func (n *Node) HasSummary() bool {
	return n.hasSummary
}

// SummaryLabel returns the first summary cell.
func (n *Node) SummaryLabel() string {
	return cellValue(n.Summary, 0)
}

// NewSection builds a section node. A nil summary means the section has none.
func NewSection(label string, summary []Cell, children ...Node) Node {
	var header []Cell
	if label != "" {
		header = []Cell{{Value: label}}
	}
	return Node{
		Kind:       KindSection,
		Header:     header,
		Children:   children,
		Summary:    summary,
		hasSummary: summary != nil,
	}
}

// NewData builds a leaf node from raw cell values.
func NewData(values ...string) Node {
	return Node{Kind: KindData, Cells: Cells(values...)}
}

// Cells converts plain strings into cells.
func Cells(values ...string) []Cell {
	out := make([]Cell, len(values))
	for i, v := range values {
		out[i] = Cell{Value: v}
	}
	return out
}

type wireColData struct {
	ColData []Cell `json:"ColData"`
}

type wireRows struct {
	Row []Node `json:"Row"`
}

type wireNode struct {
	Type    string       `json:"type"`
	Group   string       `json:"group"`
	Header  *wireColData `json:"Header"`
	Rows    *wireRows    `json:"Rows"`
	Summary *wireColData `json:"Summary"`
	ColData []Cell       `json:"ColData"`
}

// UnmarshalJSON decodes the vendor row shape. Untyped nodes are classified by
// shape: anything with rows, a header or a summary is a section.
func (n *Node) UnmarshalJSON(data []byte) error {
	var w wireNode
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}

	*n = Node{Group: w.Group}
	switch {
	case strings.EqualFold(w.Type, "Section"):
		n.Kind = KindSection
	case strings.EqualFold(w.Type, "Data"):
		n.Kind = KindData
	case w.Rows != nil || w.Header != nil || w.Summary != nil:
		n.Kind = KindSection
	default:
		n.Kind = KindData
	}

	if n.Kind == KindData {
		n.Cells = w.ColData
		return nil
	}
	if w.Header != nil {
		n.Header = w.Header.ColData
	}
	if w.Rows != nil {
		n.Children = w.Rows.Row
	}
	if w.Summary != nil {
		n.hasSummary = true
		n.Summary = w.Summary.ColData
		if n.Summary == nil {
			n.Summary = []Cell{}
		}
	}
	return nil
}

// Column describes one report column.
type Column struct {
	Title string
	Type  string
	Meta  map[string]string
}

// IsMoney reports whether the column carries currency amounts.
func (c Column) IsMoney() bool {
	return strings.EqualFold(c.Type, "Money")
}

// StartDate returns the column's period start date metadata, if any.
func (c Column) StartDate() string {
	return c.Meta["StartDate"]
}

type wireColumn struct {
	ColTitle string `json:"ColTitle"`
	ColType  string `json:"ColType"`
	MetaData []struct {
		Name  string `json:"Name"`
		Value string `json:"Value"`
	} `json:"MetaData"`
}

// UnmarshalJSON flattens the vendor's name/value metadata list into a map.
func (c *Column) UnmarshalJSON(data []byte) error {
	var w wireColumn
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*c = Column{Title: w.ColTitle, Type: w.ColType}
	if len(w.MetaData) > 0 {
		c.Meta = make(map[string]string, len(w.MetaData))
		for _, m := range w.MetaData {
			c.Meta[m.Name] = m.Value
		}
	}
	return nil
}

// ReportHeader is the document's descriptive header.
type ReportHeader struct {
	Time               string `json:"Time"`
	ReportName         string `json:"ReportName"`
	StartPeriod        string `json:"StartPeriod"`
	EndPeriod          string `json:"EndPeriod"`
	Currency           string `json:"Currency"`
	SummarizeColumnsBy string `json:"SummarizeColumnsBy"`
}

// Document is a decoded report.
type Document struct {
	Header  ReportHeader
	Columns []Column
	Rows    []Node
}

type wireDocument struct {
	Header  ReportHeader `json:"Header"`
	Columns struct {
		Column []Column `json:"Column"`
	} `json:"Columns"`
	Rows struct {
		Row []Node `json:"Row"`
	} `json:"Rows"`
}

// UnmarshalJSON decodes the vendor document envelope.
func (d *Document) UnmarshalJSON(data []byte) error {
	var w wireDocument
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*d = Document{Header: w.Header, Columns: w.Columns.Column, Rows: w.Rows.Row}
	return nil
}

// Decode parses a raw report payload.
func Decode(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return &doc, nil
}

func cellValue(cells []Cell, i int) string {
	if i < 0 || i >= len(cells) {
		return ""
	}
	return strings.TrimSpace(cells[i].Value)
}
