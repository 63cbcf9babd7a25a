package ledger

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar date format stored on expense records.
const DateLayout = "2006-01-02"

const (
	CategoryHousing       Category = "Housing"
	CategoryFood          Category = "Food"
	CategoryTransport     Category = "Transport"
	CategoryUtilities     Category = "Utilities"
	CategoryHealth        Category = "Health"
	CategoryEntertainment Category = "Entertainment"
	CategoryShopping      Category = "Shopping"
	CategoryEducation     Category = "Education"
	CategoryDebt          Category = "Debt"
	CategorySavings       Category = "Savings"
	CategoryOther         Category = "Other"
)

type (
	Category string

	IncomeRecord struct {
		Source string          `json:"source"`
		Amount decimal.Decimal `json:"amount"`
	}

	ExpenseRecord struct {
		Date        string          `json:"date"`
		Description string          `json:"desc"`
		Category    Category        `json:"category"`
		Amount      decimal.Decimal `json:"amount"`
	}

	// Snapshot is a copy of the ledger at one point in time. Mutating it
	// never affects the store it came from.
	Snapshot struct {
		Incomes  []IncomeRecord
		Expenses []ExpenseRecord
	}
)

var (
	ErrEmptySource      = errors.New("empty income source")
	ErrEmptyDescription = errors.New("empty expense description")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrInvalidCategory  = errors.New("invalid category")
	ErrInvalidCurrency  = errors.New("invalid currency code")
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrPersist          = errors.New("persisting ledger")
)

var categories = []Category{
	CategoryHousing,
	CategoryFood,
	CategoryTransport,
	CategoryUtilities,
	CategoryHealth,
	CategoryEntertainment,
	CategoryShopping,
	CategoryEducation,
	CategoryDebt,
	CategorySavings,
	CategoryOther,
}

// Categories returns the fixed category set in display order.
func Categories() []Category {
	return append([]Category(nil), categories...)
}

// ParseCategory matches s against the category set, ignoring case and
// surrounding whitespace.
func ParseCategory(s string) (Category, error) {
	s = strings.TrimSpace(s)
	for _, c := range categories {
		if strings.EqualFold(s, string(c)) {
			return c, nil
		}
	}
	return "", ErrInvalidCategory
}

// ParseAmount parses user input into a positive amount. A single comma with
// at most two digits after it is a decimal separator ("12,50"); otherwise
// commas must group thousands ("1,000", "1,000.50"). Anything else is
// rejected.
func ParseAmount(s string) (decimal.Decimal, error) {
	s, ok := normalizeSeparators(strings.TrimSpace(s))
	if !ok || s == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if !d.IsPositive() {
		return decimal.Zero, ErrInvalidAmount
	}
	return d, nil
}

func normalizeSeparators(s string) (string, bool) {
	if !strings.Contains(s, ",") {
		return s, true
	}
	if strings.Count(s, ",") == 1 && !strings.Contains(s, ".") {
		whole, frac, _ := strings.Cut(s, ",")
		if len(frac) >= 1 && len(frac) <= 2 {
			return whole + "." + frac, true
		}
	}

	whole, frac, hasFrac := strings.Cut(s, ".")
	groups := strings.Split(whole, ",")
	lead := strings.TrimLeft(groups[0], "+-")
	if len(lead) < 1 || len(lead) > 3 {
		return "", false
	}
	for _, g := range groups[1:] {
		if len(g) != 3 {
			return "", false
		}
	}
	out := strings.Join(groups, "")
	if hasFrac {
		out += "." + frac
	}
	return out, true
}

func (r IncomeRecord) Validate() error {
	if strings.TrimSpace(r.Source) == "" {
		return ErrEmptySource
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	return nil
}

func (r ExpenseRecord) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return ErrEmptyDescription
	}
	if _, err := ParseCategory(string(r.Category)); err != nil {
		return err
	}
	if !r.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if _, err := time.Parse(DateLayout, r.Date); err != nil {
		return errors.New("invalid date: " + r.Date)
	}
	return nil
}
