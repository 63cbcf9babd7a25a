// Package export writes the ledger to spreadsheet files.
package export

import (
	"github.com/mrwolf/budget-ai/internal/ledger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

const (
	SheetSummary  = "Summary"
	SheetIncome   = "Income"
	SheetExpenses = "Expenses"
)

// XLSX returns a workbook with a summary sheet, the income list and the
// expense list. Amounts are written as numbers in the given currency.
func XLSX(snap ledger.Snapshot, totals ledger.Totals, code string) ([]byte, error) {
	xlsx := excelize.NewFile()
	defer xlsx.Close()

	_ = xlsx.SetAppProps(&excelize.AppProperties{
		Application: "budget-ai",
		DocSecurity: 2,
	})

	sheet := xlsx.GetSheetName(xlsx.GetActiveSheetIndex())
	if err := xlsx.SetSheetName(sheet, SheetSummary); err != nil {
		return nil, err
	}
	if _, err := xlsx.NewSheet(SheetIncome); err != nil {
		return nil, err
	}
	if _, err := xlsx.NewSheet(SheetExpenses); err != nil {
		return nil, err
	}

	styles, err := newStyles(xlsx)
	if err != nil {
		return nil, err
	}

	writeSummary(xlsx, styles, snap, totals, code)
	writeIncome(xlsx, styles, snap.Incomes, code)
	writeExpenses(xlsx, styles, snap.Expenses, code)

	buf, err := xlsx.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type sheetStyles struct {
	header int
	amount int
	total  int
}

func newStyles(xlsx *excelize.File) (sheetStyles, error) {
	var s sheetStyles
	var err error
	if s.header, err = xlsx.NewStyle(mergeStyles(fontBold(), thinBorder("bottom"))); err != nil {
		return s, err
	}
	if s.amount, err = xlsx.NewStyle(numberFormat()); err != nil {
		return s, err
	}
	if s.total, err = xlsx.NewStyle(mergeStyles(fontBold(), numberFormat(), thinBorder("top"))); err != nil {
		return s, err
	}
	return s, nil
}

func writeSummary(xlsx *excelize.File, st sheetStyles, snap ledger.Snapshot, totals ledger.Totals, code string) {
	sheet := SheetSummary
	_ = xlsx.SetColWidth(sheet, "A", "A", 20)
	_ = xlsx.SetColWidth(sheet, "B", "C", 15)

	_ = xlsx.SetCellValue(sheet, cell('A', 1), "Currency")
	_ = xlsx.SetCellValue(sheet, cell('B', 1), code)
	_ = xlsx.SetCellStyle(sheet, cell('A', 1), cell('B', 1), st.header)

	row := 2
	for _, line := range []struct {
		label  string
		amount decimal.Decimal
	}{
		{"Total income", totals.TotalIncome},
		{"Total expenses", totals.TotalExpenses},
		{"Balance", totals.Balance},
	} {
		_ = xlsx.SetCellValue(sheet, cell('A', row), line.label)
		_ = xlsx.SetCellValue(sheet, cell('B', row), line.amount.InexactFloat64())
		_ = xlsx.SetCellStyle(sheet, cell('B', row), cell('B', row), st.amount)
		row++
	}
	_ = xlsx.SetCellStyle(sheet, cell('A', row-1), cell('B', row-1), st.total)

	cats := ledger.ByCategory(snap)
	if len(cats) == 0 {
		return
	}
	row++
	_ = xlsx.SetCellValue(sheet, cell('A', row), "Category")
	_ = xlsx.SetCellValue(sheet, cell('B', row), "Amount")
	_ = xlsx.SetCellValue(sheet, cell('C', row), "Items")
	_ = xlsx.SetCellStyle(sheet, cell('A', row), cell('C', row), st.header)
	row++
	for _, ct := range cats {
		_ = xlsx.SetCellValue(sheet, cell('A', row), string(ct.Category))
		_ = xlsx.SetCellValue(sheet, cell('B', row), ct.Amount.InexactFloat64())
		_ = xlsx.SetCellValue(sheet, cell('C', row), ct.Count)
		_ = xlsx.SetCellStyle(sheet, cell('B', row), cell('B', row), st.amount)
		row++
	}
}

func writeIncome(xlsx *excelize.File, st sheetStyles, records []ledger.IncomeRecord, code string) {
	sheet := SheetIncome
	_ = xlsx.SetColWidth(sheet, "A", "A", 40)
	_ = xlsx.SetColWidth(sheet, "B", "B", 15)

	_ = xlsx.SetCellValue(sheet, cell('A', 1), "Source")
	_ = xlsx.SetCellValue(sheet, cell('B', 1), "Amount ("+code+")")
	_ = xlsx.SetCellStyle(sheet, cell('A', 1), cell('B', 1), st.header)

	for i, r := range records {
		row := i + 2
		_ = xlsx.SetCellValue(sheet, cell('A', row), r.Source)
		_ = xlsx.SetCellValue(sheet, cell('B', row), r.Amount.InexactFloat64())
		_ = xlsx.SetCellStyle(sheet, cell('B', row), cell('B', row), st.amount)
	}
	freezeHeader(xlsx, sheet)
}

func writeExpenses(xlsx *excelize.File, st sheetStyles, records []ledger.ExpenseRecord, code string) {
	sheet := SheetExpenses
	_ = xlsx.SetColWidth(sheet, "A", "A", 12)
	_ = xlsx.SetColWidth(sheet, "B", "B", 40)
	_ = xlsx.SetColWidth(sheet, "C", "D", 15)

	_ = xlsx.SetCellValue(sheet, cell('A', 1), "Date")
	_ = xlsx.SetCellValue(sheet, cell('B', 1), "Description")
	_ = xlsx.SetCellValue(sheet, cell('C', 1), "Category")
	_ = xlsx.SetCellValue(sheet, cell('D', 1), "Amount ("+code+")")
	_ = xlsx.SetCellStyle(sheet, cell('A', 1), cell('D', 1), st.header)

	for i, r := range records {
		row := i + 2
		_ = xlsx.SetCellValue(sheet, cell('A', row), r.Date)
		_ = xlsx.SetCellValue(sheet, cell('B', row), r.Description)
		_ = xlsx.SetCellValue(sheet, cell('C', row), string(r.Category))
		_ = xlsx.SetCellValue(sheet, cell('D', row), r.Amount.InexactFloat64())
		_ = xlsx.SetCellStyle(sheet, cell('D', row), cell('D', row), st.amount)
	}
	freezeHeader(xlsx, sheet)
}

func freezeHeader(xlsx *excelize.File, sheet string) {
	_ = xlsx.SetPanes(sheet, &excelize.Panes{
		ActivePane:  "bottomLeft",
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
	})
}

func cell(col rune, row int) string {
	name, _ := excelize.CoordinatesToCellName(int(col-'A')+1, row)
	return name
}

func numberFormat() *excelize.Style {
	f := "#,##0.00"
	return &excelize.Style{CustomNumFmt: &f}
}

func fontBold() *excelize.Style {
	return &excelize.Style{Font: &excelize.Font{Bold: true}}
}

func thinBorder(where ...string) *excelize.Style {
	s := &excelize.Style{}
	for _, w := range where {
		s.Border = append(s.Border, excelize.Border{Type: w, Color: "#000000", Style: 1})
	}
	return s
}

func mergeStyles(styles ...*excelize.Style) *excelize.Style {
	out := &excelize.Style{}
	for _, s := range styles {
		if s.Font != nil {
			out.Font = s.Font
		}
		if s.CustomNumFmt != nil {
			out.CustomNumFmt = s.CustomNumFmt
		}
		out.Border = append(out.Border, s.Border...)
	}
	return out
}
