package prompt

import (
	"fmt"
	"strings"

	"github.com/mrwolf/budget-ai/internal/ledger"
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
)

// NoneLine stands in for an empty record list.
const NoneLine = "- None"

// The first entry is the fallback for unsupported languages.
var supported = []struct {
	tag      language.Tag
	template string
}{
	{language.English, englishTemplate},
	{language.Uzbek, uzbekTemplate},
}

var matcher = newMatcher()

func newMatcher() language.Matcher {
	tags := make([]language.Tag, len(supported))
	for i, s := range supported {
		tags[i] = s.tag
	}
	return language.NewMatcher(tags)
}

// Languages returns the base language codes Build has templates for.
func Languages() []string {
	out := make([]string, len(supported))
	for i, s := range supported {
		base, _ := s.tag.Base()
		out[i] = base.String()
	}
	return out
}

// Resolve maps a requested language to a supported one. Unknown or malformed
// values resolve to English.
func Resolve(lang string) language.Tag {
	return supported[templateIndex(lang)].tag
}

func templateIndex(lang string) int {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return 0
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return 0
	}
	return idx
}

// Build renders the analysis request for the current ledger. The output
// depends only on its arguments.
func Build(snap ledger.Snapshot, totals ledger.Totals, currencyCode, lang string) string {
	code := strings.ToUpper(strings.TrimSpace(currencyCode))
	tmpl := supported[templateIndex(lang)].template

	return fmt.Sprintf(tmpl,
		amount(totals.TotalIncome, code),
		amount(totals.TotalExpenses, code),
		amount(totals.Balance, code),
		incomeLines(snap.Incomes, code),
		expenseLines(snap.Expenses, code),
	)
}

func incomeLines(records []ledger.IncomeRecord, code string) string {
	if len(records) == 0 {
		return NoneLine
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("- %s: %s", r.Source, amount(r.Amount, code))
	}
	return strings.Join(lines, "\n")
}

func expenseLines(records []ledger.ExpenseRecord, code string) string {
	if len(records) == 0 {
		return NoneLine
	}
	lines := make([]string, len(records))
	for i, r := range records {
		lines[i] = fmt.Sprintf("- [%s] %s (%s): %s", r.Category, r.Description, r.Date, amount(r.Amount, code))
	}
	return strings.Join(lines, "\n")
}

func amount(d decimal.Decimal, code string) string {
	return d.String() + " " + code
}
