// Package render turns ledger state into a terminal view.
package render

import (
	"fmt"
	"time"

	"github.com/mrwolf/budget-ai/internal/currency"
	"github.com/mrwolf/budget-ai/internal/ledger"
)

type SummaryState int

const (
	SummaryIdle SummaryState = iota
	SummaryPending
	SummaryText
	SummaryError
)

const PendingMessage = "Analyzing..."

// Summary is what the analysis panel shows.
type Summary struct {
	State SummaryState
	Text  string
}

func Pending() Summary { return Summary{State: SummaryPending, Text: PendingMessage} }
func Result(text string) Summary { return Summary{State: SummaryText, Text: text} }
func Failure(msg string) Summary { return Summary{State: SummaryError, Text: msg} }

// Row is one line of a list. Index is 1-based.
type Row struct {
	Index  int
	Date   string
	Label  string
	Detail string
	Amount string
}

type View struct {
	Header        string
	Currency      string
	TotalIncome   string
	TotalExpenses string
	Balance       string
	Negative      bool
	Incomes       []Row
	Expenses      []Row
	ExpenseCount  string
	Categories    []Row
	Summary       Summary
}

// Build derives the display model from a snapshot. It has no side effects.
func Build(snap ledger.Snapshot, totals ledger.Totals, f *currency.Formatter, code string, now time.Time) View {
	v := View{
		Header:        now.Month().String() + " Budget",
		Currency:      code,
		TotalIncome:   f.Format(totals.TotalIncome, code),
		TotalExpenses: f.Format(totals.TotalExpenses, code),
		Balance:       f.Format(totals.Balance, code),
		Negative:      totals.Balance.IsNegative(),
		ExpenseCount:  fmt.Sprintf("%d items", len(snap.Expenses)),
	}

	for i, r := range snap.Incomes {
		v.Incomes = append(v.Incomes, Row{
			Index:  i + 1,
			Label:  r.Source,
			Amount: f.Format(r.Amount, code),
		})
	}
	for i, r := range snap.Expenses {
		v.Expenses = append(v.Expenses, Row{
			Index:  i + 1,
			Date:   r.Date,
			Label:  r.Description,
			Detail: string(r.Category),
			Amount: f.Format(r.Amount, code),
		})
	}
	for _, ct := range ledger.ByCategory(snap) {
		v.Categories = append(v.Categories, Row{
			Label:  string(ct.Category),
			Detail: fmt.Sprintf("%d items", ct.Count),
			Amount: f.Format(ct.Amount, code),
		})
	}
	return v
}
