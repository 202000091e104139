// Package report renders budget data as spreadsheets.
package report

import (
	"io"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/Tawhide16/CampusKit/core/budget"
)

// Sheet names
const (
	SummarySheet      = "Summary"
	MonthlySheet      = "Monthly"
	TransactionsSheet = "Transactions"
)

// ContentType is the MIME type of the workbooks written by WriteBudget.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func amount(d decimal.Decimal) float64 {
	f, _ := d.Round(2).Float64()
	return f
}

type sheetWriter struct {
	f     *excelize.File
	name  string
	row   int
	style int
}

// header writes a bold row.
func (sw *sheetWriter) header(vals ...interface{}) error {
	if err := sw.append(vals...); err != nil {
		return err
	}
	first, _ := excelize.CoordinatesToCellName(1, sw.row)
	last, _ := excelize.CoordinatesToCellName(len(vals), sw.row)
	return sw.f.SetCellStyle(sw.name, first, last, sw.style)
}

func (sw *sheetWriter) append(vals ...interface{}) error {
	sw.row++
	cell, err := excelize.CoordinatesToCellName(1, sw.row)
	if err != nil {
		return err
	}
	return sw.f.SetSheetRow(sw.name, cell, &vals)
}

func (sw *sheetWriter) skip() { sw.row++ }

// WriteBudget writes a workbook made of the summary, the monthly breakdown and the transactions, most recent first.
func WriteBudget(w io.Writer, summary budget.Summary, txs []budget.Transaction) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cErr := f.Close(); err == nil && cErr != nil {
			err = errors.Wrap(cErr, "closing workbook")
		}
	}()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "creating header style")
	}

	if err = f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return errors.Wrap(err, "renaming default sheet")
	}
	for _, name := range []string{MonthlySheet, TransactionsSheet} {
		if _, err = f.NewSheet(name); err != nil {
			return errors.Wrapf(err, "creating %s sheet", name)
		}
	}

	if err = writeSummary(&sheetWriter{f: f, name: SummarySheet, style: bold}, summary); err != nil {
		return errors.Wrap(err, "writing summary")
	}
	if err = writeMonthly(&sheetWriter{f: f, name: MonthlySheet, style: bold}, summary.Monthly); err != nil {
		return errors.Wrap(err, "writing monthly breakdown")
	}
	if err = writeTransactions(&sheetWriter{f: f, name: TransactionsSheet, style: bold}, txs); err != nil {
		return errors.Wrap(err, "writing transactions")
	}

	_ = f.SetColWidth(TransactionsSheet, "B", "B", 30)
	f.SetActiveSheet(0)
	return errors.Wrap(f.Write(w), "writing workbook")
}

func writeSummary(sw *sheetWriter, s budget.Summary) error {
	rows := [][]interface{}{
		{"Range", s.Range},
		{"Total income", amount(s.TotalIncome)},
		{"Total expenses", amount(s.TotalExpenses)},
		{"Balance", amount(s.Balance)},
	}
	for _, row := range rows {
		if err := sw.append(row...); err != nil {
			return err
		}
	}
	if len(s.Categories) == 0 {
		return nil
	}

	sw.skip()
	if err := sw.header("Category", "Spent", "Share (%)"); err != nil {
		return err
	}
	for _, c := range s.Categories {
		if err := sw.append(c.Name, amount(c.Value), c.Percent); err != nil {
			return err
		}
	}
	return nil
}

func writeMonthly(sw *sheetWriter, months []budget.MonthSummary) error {
	if err := sw.header("Month", "Income", "Expense"); err != nil {
		return err
	}
	for _, m := range months {
		if err := sw.append(m.Month, amount(m.Income), amount(m.Expense)); err != nil {
			return err
		}
	}
	return nil
}

func writeTransactions(sw *sheetWriter, txs []budget.Transaction) error {
	if err := sw.header("Date", "Title", "Type", "Category", "Amount"); err != nil {
		return err
	}
	for _, tx := range budget.SortByDateDesc(txs) {
		if err := sw.append(tx.Date, tx.Title, tx.Type, tx.Category, amount(tx.Amount)); err != nil {
			return err
		}
	}
	return nil
}
