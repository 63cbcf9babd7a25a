package tracker

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/mrwolf/budget-ai/internal/ledger"
	"github.com/shopspring/decimal"
)

type Op int

const (
	OpNone Op = iota
	OpIncome
	OpExpense
	OpRemoveIncome
	OpRemoveExpense
	OpCurrency
	OpLanguage
	OpList
	OpAnalyze
	OpHistory
	OpCategories
	OpMonth
	OpHelp
	OpQuit
)

var ErrUnknownCommand = errors.New("unknown command")

// UsageError reports a malformed command line.
type UsageError struct {
	Usage string
	Err   error
}

func (e *UsageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%v (usage: %s)", e.Err, e.Usage)
	}
	return "usage: " + e.Usage
}

func (e *UsageError) Unwrap() error { return e.Err }

// Command is one parsed input line. Index is zero-based. A zero Month
// means the current month.
type Command struct {
	Op       Op
	Amount   decimal.Decimal
	Text     string
	Category ledger.Category
	Index    int
	Month    time.Month
}

const (
	usageIncome   = "income <amount> <source>"
	usageExpense  = "expense <amount> <category> <description>"
	usageRemove   = "rm income|expense <n>"
	usageCurrency = "currency <CODE>"
	usageLang     = "lang <language>"
	usageMonth    = "month <name|1-12|current>"
)

// Help lists the commands.
const Help = `Commands:
  income <amount> <source>                     add income
  expense <amount> <category> <description>    add an expense dated today
  rm income|expense <n>                        remove entry n from a list
  currency <CODE>                              set the display currency, e.g. USD
  lang <language>                              analysis language (en, uz)
  month <name|1-12|current>                    month shown in the header
  list                                         show the budget
  analyze                                      ask the AI for a summary
  history                                      show recent summaries
  categories                                   list expense categories
  help                                         show this help
  quit                                         exit`

// ParseCommand maps one input line to a Command. Blank lines give OpNone.
func ParseCommand(line string) (Command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return Command{Op: OpNone}, nil
	}
	name, args := strings.ToLower(fields[0]), fields[1:]

	switch name {
	case "income", "inc":
		if len(args) < 2 {
			return Command{}, &UsageError{Usage: usageIncome}
		}
		amount, err := ledger.ParseAmount(args[0])
		if err != nil {
			return Command{}, &UsageError{Usage: usageIncome, Err: err}
		}
		return Command{Op: OpIncome, Amount: amount, Text: strings.Join(args[1:], " ")}, nil

	case "expense", "exp":
		if len(args) < 3 {
			return Command{}, &UsageError{Usage: usageExpense}
		}
		amount, err := ledger.ParseAmount(args[0])
		if err != nil {
			return Command{}, &UsageError{Usage: usageExpense, Err: err}
		}
		cat, err := ledger.ParseCategory(args[1])
		if err != nil {
			return Command{}, &UsageError{Usage: usageExpense, Err: err}
		}
		return Command{Op: OpExpense, Amount: amount, Category: cat, Text: strings.Join(args[2:], " ")}, nil

	case "rm", "remove", "del":
		if len(args) != 2 {
			return Command{}, &UsageError{Usage: usageRemove}
		}
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return Command{}, &UsageError{Usage: usageRemove, Err: fmt.Errorf("%q is not a list position", args[1])}
		}
		switch strings.ToLower(args[0]) {
		case "income", "inc":
			return Command{Op: OpRemoveIncome, Index: n - 1}, nil
		case "expense", "exp":
			return Command{Op: OpRemoveExpense, Index: n - 1}, nil
		}
		return Command{}, &UsageError{Usage: usageRemove}

	case "currency", "cur":
		if len(args) != 1 {
			return Command{}, &UsageError{Usage: usageCurrency}
		}
		return Command{Op: OpCurrency, Text: strings.ToUpper(args[0])}, nil

	case "lang", "language":
		if len(args) != 1 {
			return Command{}, &UsageError{Usage: usageLang}
		}
		return Command{Op: OpLanguage, Text: args[0]}, nil

	case "month":
		if len(args) != 1 {
			return Command{}, &UsageError{Usage: usageMonth}
		}
		m, err := parseMonth(args[0])
		if err != nil {
			return Command{}, &UsageError{Usage: usageMonth, Err: err}
		}
		return Command{Op: OpMonth, Month: m}, nil

	case "list", "ls":
		return Command{Op: OpList}, nil
	case "analyze", "ai":
		return Command{Op: OpAnalyze}, nil
	case "history":
		return Command{Op: OpHistory}, nil
	case "categories", "cats":
		return Command{Op: OpCategories}, nil
	case "help", "?":
		return Command{Op: OpHelp}, nil
	case "quit", "exit", "q":
		return Command{Op: OpQuit}, nil
	}
	return Command{}, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
}

// parseMonth accepts a month name, its first three letters, or 1-12.
// "current" gives 0.
func parseMonth(s string) (time.Month, error) {
	s = strings.ToLower(s)
	if s == "current" || s == "now" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		if n < 1 || n > 12 {
			return 0, fmt.Errorf("%q is not a month", s)
		}
		return time.Month(n), nil
	}
	for m := time.January; m <= time.December; m++ {
		name := strings.ToLower(m.String())
		if s == name || (len(s) >= 3 && strings.HasPrefix(name, s)) {
			return m, nil
		}
	}
	return 0, fmt.Errorf("%q is not a month", s)
}
