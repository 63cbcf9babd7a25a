package ledger

import "github.com/shopspring/decimal"

// Totals are always derived from the records; they are never stored.
type Totals struct {
	TotalIncome   decimal.Decimal
	TotalExpenses decimal.Decimal
	Balance       decimal.Decimal
}

type CategoryTotal struct {
	Category Category
	Amount   decimal.Decimal
	Count    int
}

func Aggregate(s Snapshot) Totals {
	income := decimal.Zero
	for _, r := range s.Incomes {
		income = income.Add(r.Amount)
	}
	expenses := decimal.Zero
	for _, r := range s.Expenses {
		expenses = expenses.Add(r.Amount)
	}
	return Totals{
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
	}
}

// ByCategory sums expenses per category, in category display order. Categories
// without expenses are omitted.
func ByCategory(s Snapshot) []CategoryTotal {
	sums := make(map[Category]*CategoryTotal)
	for _, r := range s.Expenses {
		ct, ok := sums[r.Category]
		if !ok {
			ct = &CategoryTotal{Category: r.Category, Amount: decimal.Zero}
			sums[r.Category] = ct
		}
		ct.Amount = ct.Amount.Add(r.Amount)
		ct.Count++
	}

	var out []CategoryTotal
	for _, c := range categories {
		if ct, ok := sums[c]; ok {
			out = append(out, *ct)
		}
	}
	return out
}
