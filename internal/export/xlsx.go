package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"holdops/internal/report"
)

const (
	maxSheetName = 31
	moneyNumFmt  = 4 // #,##0.00
)

var invalidSheetChars = strings.NewReplacer(":", " ", "\\", " ", "/", " ", "?", " ", "*", " ", "[", "(", "]", ")")

// SheetName makes title usable as a worksheet name.
func SheetName(title string) string {
	s := strings.TrimSpace(invalidSheetChars.Replace(title))
	s = strings.Trim(s, "'")
	if s == "" {
		return "Report"
	}
	if r := []rune(s); len(r) > maxSheetName {
		s = string(r[:maxSheetName])
	}
	return s
}

type styles struct {
	bold      int
	money     int
	boldMoney int
	indents   map[int]int
	f         *excelize.File
}

func newStyles(f *excelize.File) (*styles, error) {
	s := &styles{indents: make(map[int]int), f: f}
	var err error
	if s.bold, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	if s.money, err = f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt}); err != nil {
		return nil, err
	}
	if s.boldMoney, err = f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt, Font: &excelize.Font{Bold: true}}); err != nil {
		return nil, err
	}
	return s, nil
}

// label returns a style indenting the label cell by depth, bold when strong.
func (s *styles) label(depth int, strong bool) (int, error) {
	key := depth*2 + boolInt(strong)
	if id, ok := s.indents[key]; ok {
		return id, nil
	}
	st := &excelize.Style{Alignment: &excelize.Alignment{Indent: depth}}
	if strong {
		st.Font = &excelize.Font{Bold: true}
	}
	id, err := s.f.NewStyle(st)
	if err != nil {
		return 0, err
	}
	s.indents[key] = id
	return id, nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// WriteXLSX writes rows as a one-sheet workbook. Headers and totals are
// bold and labels are indented by depth.
func WriteXLSX(w io.Writer, title string, rows []report.FlatRow) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("creating styles: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &[]interface{}{"Label", "Amount"}); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "B1", st.bold); err != nil {
		return err
	}

	for i, r := range rows {
		rowNum := i + 2
		labelCell, _ := excelize.CoordinatesToCellName(1, rowNum)
		amountCell, _ := excelize.CoordinatesToCellName(2, rowNum)
		strong := r.IsHeader || r.IsTotal

		if err := f.SetCellStr(sheet, labelCell, r.Label); err != nil {
			return err
		}
		labelStyle, err := st.label(r.Depth, strong)
		if err != nil {
			return err
		}
		if err := f.SetCellStyle(sheet, labelCell, labelCell, labelStyle); err != nil {
			return err
		}
		if r.Value == nil {
			continue
		}
		if err := f.SetCellFloat(sheet, amountCell, *r.Value, -1, 64); err != nil {
			return err
		}
		moneyStyle := st.money
		if strong {
			moneyStyle = st.boldMoney
		}
		if err := f.SetCellStyle(sheet, amountCell, amountCell, moneyStyle); err != nil {
			return err
		}
	}

	if err := f.SetColWidth(sheet, "A", "A", 48); err != nil {
		return err
	}
	if err := f.SetColWidth(sheet, "B", "B", 16); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}

// WriteMonthlyXLSX writes monthly buckets as a one-sheet workbook.
func WriteMonthlyXLSX(w io.Writer, title string, buckets []report.MonthlyBucket) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := SheetName(title)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("naming sheet: %w", err)
	}
	st, err := newStyles(f)
	if err != nil {
		return fmt.Errorf("creating styles: %w", err)
	}

	header := make([]interface{}, len(MonthlyColumns))
	for i, c := range MonthlyColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", "D1", st.bold); err != nil {
		return err
	}
	for i, b := range buckets {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &[]interface{}{b.Month, b.Income, b.Expenses, b.Net}); err != nil {
			return err
		}
	}
	if len(buckets) > 0 {
		last, _ := excelize.CoordinatesToCellName(4, len(buckets)+1)
		if err := f.SetCellStyle(sheet, "B2", last, st.money); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "D", 14); err != nil {
		return err
	}
	_, err = f.WriteTo(w)
	return err
}
