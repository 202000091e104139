package budget

import (
	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/Tawhide16/CampusKit/core"
)

// StorageKey is where transactions and categories are persisted, together.
const StorageKey = "budgetData"

// Entry types
const (
	TypeIncome  = "income"
	TypeExpense = "expense"
)

// Ranges
const (
	RangeWeek  = "week"
	RangeMonth = "month"
	RangeYear  = "year"
	RangeAll   = "all"
)

var rangeDays = map[string]int{
	RangeWeek:  7,
	RangeMonth: 30,
	RangeYear:  365,
}

func init() {
	// amounts are numbers on the wire, as the stored data always had them
	decimal.MarshalJSONWithoutQuotes = true
}

type (
	Transaction struct {
		ID       int64           `json:"id"`
		Title    string          `json:"title"`
		Amount   decimal.Decimal `json:"amount"`
		Type     string          `json:"type"`
		Category string          `json:"category"` // Category.Name
		Date     string          `json:"date"`     // YYYY-MM-DD
	}

	Category struct {
		ID    int64  `json:"id"`
		Name  string `json:"name"`
		Type  string `json:"type"`
		Color string `json:"color"`
	}

	// Data is the persisted shape of the budget store.
	Data struct {
		Transactions []Transaction `json:"transactions"`
		Categories   []Category    `json:"categories"`
	}
)

// NewTransaction contains information needed to create or edit a Transaction.
type NewTransaction struct {
	Title    string           `json:"title" validate:"required,notblank"`
	Amount   *decimal.Decimal `json:"amount" validate:"required,gte=0"`
	Type     string           `json:"type" validate:"required,oneof=income expense"`
	Category string           `json:"category" validate:"required,notblank"`
	Date     string           `json:"date" validate:"required,isodate"`
}

func (nt *NewTransaction) Validate(validate *validator.Validate) error {
	nt.Title = core.CleanString(nt.Title)
	nt.Type = core.CleanString(nt.Type, true /* lower */)
	nt.Category = core.CleanString(nt.Category)
	nt.Date = core.CleanString(nt.Date)
	return validate.Struct(nt)
}

// NewCategory contains information needed to create or edit a Category.
type NewCategory struct {
	Name  string `json:"name" validate:"required,notblank"`
	Type  string `json:"type" validate:"required,oneof=income expense"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
}

func (nc *NewCategory) Validate(validate *validator.Validate) error {
	nc.Name = core.CleanString(nc.Name)
	nc.Type = core.CleanString(nc.Type, true /* lower */)
	nc.Color = core.CleanString(nc.Color, true /* lower */)
	return validate.Struct(nc)
}

type QueryFilter struct {
	Range string `query:"range" json:"range" validate:"budgetrange"`
	Type  string `query:"type" json:"type" validate:"omitempty,oneof=income expense"`
}

// Validate cleans the filter, defaulting to the whole history.
func (qf *QueryFilter) Validate(validate *validator.Validate) error {
	qf.Range = core.CleanString(qf.Range, true /* lower */)
	qf.Type = core.CleanString(qf.Type, true /* lower */)
	if qf.Range == "" {
		qf.Range = RangeAll
	}
	return validate.Struct(qf)
}

// DefaultCategories are seeded whenever the stored category list is empty.
func DefaultCategories() []Category {
	return []Category{
		{ID: 1, Name: "Food", Type: TypeExpense, Color: "#FF8042"},
		{ID: 2, Name: "Transport", Type: TypeExpense, Color: "#00C49F"},
		{ID: 3, Name: "Entertainment", Type: TypeExpense, Color: "#FFBB28"},
		{ID: 4, Name: "Shopping", Type: TypeExpense, Color: "#0088FE"},
		{ID: 5, Name: "Salary", Type: TypeIncome, Color: "#00C49F"},
		{ID: 6, Name: "Freelance", Type: TypeIncome, Color: "#0088FE"},
		{ID: 7, Name: "Gifts", Type: TypeIncome, Color: "#FFBB28"},
	}
}
