package budget

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Tawhide16/CampusKit/core"
)

var hundred = decimal.NewFromInt(100)

type (
	// CategorySlice is one expense category's share of the spending.
	CategorySlice struct {
		Name    string          `json:"name"`
		Color   string          `json:"color"`
		Value   decimal.Decimal `json:"value"`
		Percent int64           `json:"percent"`
	}

	MonthSummary struct {
		Month   string          `json:"month"` // YYYY-MM
		Income  decimal.Decimal `json:"income"`
		Expense decimal.Decimal `json:"expense"`
	}

	Summary struct {
		Range         string          `json:"range"`
		TotalIncome   decimal.Decimal `json:"totalIncome"`
		TotalExpenses decimal.Decimal `json:"totalExpenses"`
		Balance       decimal.Decimal `json:"balance"`
		Categories    []CategorySlice `json:"categories"`
		Monthly       []MonthSummary  `json:"monthly"`
	}
)

// Total sums the amounts of the transactions of type typ.
func Total(txs []Transaction, typ string) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		if tx.Type == typ {
			sum = sum.Add(tx.Amount)
		}
	}
	return sum
}

func Balance(txs []Transaction) decimal.Decimal {
	return Total(txs, TypeIncome).Sub(Total(txs, TypeExpense))
}

// CategoryBreakdown sums expenses per expense category, in category order.
// Categories without spending are left out.
func CategoryBreakdown(categories []Category, txs []Transaction) []CategorySlice {
	slices := make([]CategorySlice, 0, len(categories))
	total := decimal.Zero
	for _, cat := range categories {
		if cat.Type != TypeExpense {
			continue
		}
		sum := decimal.Zero
		for _, tx := range txs {
			if tx.Type == TypeExpense && tx.Category == cat.Name {
				sum = sum.Add(tx.Amount)
			}
		}
		if !sum.IsPositive() {
			continue
		}
		total = total.Add(sum)
		slices = append(slices, CategorySlice{Name: cat.Name, Color: cat.Color, Value: sum})
	}
	for i := range slices {
		slices[i].Percent = slices[i].Value.Div(total).Mul(hundred).Round(0).IntPart()
	}
	return slices
}

func monthKey(date string) string {
	if len(date) < 7 {
		return date
	}
	return date[:7]
}

// MonthlyBreakdown groups transactions by YYYY-MM, oldest month first.
// Anything that is not income counts as an expense.
func MonthlyBreakdown(txs []Transaction) []MonthSummary {
	byMonth := make(map[string]*MonthSummary)
	for _, tx := range txs {
		key := monthKey(tx.Date)
		ms, ok := byMonth[key]
		if !ok {
			ms = &MonthSummary{Month: key, Income: decimal.Zero, Expense: decimal.Zero}
			byMonth[key] = ms
		}
		if tx.Type == TypeIncome {
			ms.Income = ms.Income.Add(tx.Amount)
		} else {
			ms.Expense = ms.Expense.Add(tx.Amount)
		}
	}

	months := make([]MonthSummary, 0, len(byMonth))
	for _, ms := range byMonth {
		months = append(months, *ms)
	}
	sort.Slice(months, func(i, j int) bool { return months[i].Month < months[j].Month })
	return months
}

// FilterByRange keeps the transactions dated at most week/month/year days before now.
// Future-dated transactions are kept; undated ones only with RangeAll or an unknown range.
func FilterByRange(txs []Transaction, r string, now time.Time) []Transaction {
	days, ok := rangeDays[r]
	if !ok {
		return append(make([]Transaction, 0, len(txs)), txs...)
	}

	bound := time.Duration(days) * 24 * time.Hour
	kept := make([]Transaction, 0, len(txs))
	for _, tx := range txs {
		date, err := time.Parse(core.DateLayout, tx.Date)
		if err != nil {
			continue
		}
		if now.Sub(date) <= bound {
			kept = append(kept, tx)
		}
	}
	return kept
}

// SortByDateDesc returns a copy of txs, most recent first.
func SortByDateDesc(txs []Transaction) []Transaction {
	sorted := append(make([]Transaction, 0, len(txs)), txs...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date > sorted[j].Date })
	return sorted
}

// Summarize computes the dashboard figures over the transactions within r.
func Summarize(categories []Category, txs []Transaction, r string, now time.Time) Summary {
	txs = FilterByRange(txs, r, now)
	income, expenses := Total(txs, TypeIncome), Total(txs, TypeExpense)
	return Summary{
		Range:         r,
		TotalIncome:   income,
		TotalExpenses: expenses,
		Balance:       income.Sub(expenses),
		Categories:    CategoryBreakdown(categories, txs),
		Monthly:       MonthlyBreakdown(txs),
	}
}
