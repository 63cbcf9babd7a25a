package ledger

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mrwolf/budget-ai/internal/clock"
	"github.com/shopspring/decimal"
	log "github.com/sirupsen/logrus"
)

// Persisted keys. They match the keys the browser build kept in local storage
// so exported data stays interchangeable.
const (
	KeyIncome   = "incomeData"
	KeyExpense  = "expenseData"
	KeyCurrency = "budgetCurrency"

	DefaultCurrency = "KRW"
)

// KV is the durable key-value mirror of the ledger.
type KV interface {
	Get(key string) (value string, found bool, err error)
	Set(key, value string) error
}

// Store owns the income and expense collections and the currency preference.
// It has exactly one writer and is not safe for concurrent use.
type Store struct {
	kv       KV
	clock    clock.Clock
	logger   log.FieldLogger
	incomes  []IncomeRecord
	expenses []ExpenseRecord
	currency string
}

type Option func(*Store)

func WithClock(c clock.Clock) Option {
	return func(s *Store) {
		s.clock = c
	}
}

func WithLogger(l log.FieldLogger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

func NewStore(kv KV, opts ...Option) *Store {
	s := &Store{
		kv:       kv,
		clock:    clock.System{},
		logger:   log.StandardLogger(),
		currency: DefaultCurrency,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted ledger. Missing or malformed data never fails:
// the affected collection starts empty and a warning is logged.
func (s *Store) Load() {
	s.incomes = loadRecords[IncomeRecord](s, KeyIncome)
	s.expenses = loadRecords[ExpenseRecord](s, KeyExpense)
	for i := range s.expenses {
		// Validate accepted it, so the lookup cannot fail.
		s.expenses[i].Category, _ = ParseCategory(string(s.expenses[i].Category))
	}

	s.currency = DefaultCurrency
	raw, found, err := s.kv.Get(KeyCurrency)
	switch {
	case err != nil:
		s.logger.WithError(err).Warn("reading currency preference, using default")
	case found && strings.TrimSpace(raw) != "":
		s.currency = strings.ToUpper(strings.TrimSpace(raw))
	}

	s.logger.WithFields(log.Fields{
		"incomes":  len(s.incomes),
		"expenses": len(s.expenses),
		"currency": s.currency,
	}).Debug("ledger loaded")
}

type validator interface {
	Validate() error
}

func loadRecords[T validator](s *Store, key string) []T {
	raw, found, err := s.kv.Get(key)
	if err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("reading persisted ledger, starting empty")
		return nil
	}
	if !found || strings.TrimSpace(raw) == "" {
		return nil
	}

	var records []T
	if err := json.Unmarshal([]byte(raw), &records); err != nil {
		s.logger.WithError(err).WithField("key", key).Warn("malformed persisted ledger, starting empty")
		return nil
	}

	kept := records[:0]
	for i, r := range records {
		if err := r.Validate(); err != nil {
			s.logger.WithError(err).WithFields(log.Fields{"key": key, "index": i}).Warn("dropping invalid persisted record")
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func (s *Store) AddIncome(source string, amount decimal.Decimal) (IncomeRecord, error) {
	r := IncomeRecord{Source: strings.TrimSpace(source), Amount: amount}
	if err := r.Validate(); err != nil {
		return IncomeRecord{}, err
	}
	s.incomes = append(s.incomes, r)
	return r, s.persist(KeyIncome, s.incomes)
}

func (s *Store) AddExpense(description string, category Category, amount decimal.Decimal) (ExpenseRecord, error) {
	cat, err := ParseCategory(string(category))
	if err != nil {
		return ExpenseRecord{}, err
	}
	r := ExpenseRecord{
		Date:        s.clock.Now().Format(DateLayout),
		Description: strings.TrimSpace(description),
		Category:    cat,
		Amount:      amount,
	}
	if err := r.Validate(); err != nil {
		return ExpenseRecord{}, err
	}
	s.expenses = append(s.expenses, r)
	return r, s.persist(KeyExpense, s.expenses)
}

// RemoveIncome removes the income at zero-based index i.
func (s *Store) RemoveIncome(i int) error {
	if i < 0 || i >= len(s.incomes) {
		return fmt.Errorf("%w: income %d of %d", ErrIndexOutOfRange, i, len(s.incomes))
	}
	s.incomes = append(s.incomes[:i:i], s.incomes[i+1:]...)
	return s.persist(KeyIncome, s.incomes)
}

// RemoveExpense removes the expense at zero-based index i.
func (s *Store) RemoveExpense(i int) error {
	if i < 0 || i >= len(s.expenses) {
		return fmt.Errorf("%w: expense %d of %d", ErrIndexOutOfRange, i, len(s.expenses))
	}
	s.expenses = append(s.expenses[:i:i], s.expenses[i+1:]...)
	return s.persist(KeyExpense, s.expenses)
}

func (s *Store) Incomes() []IncomeRecord {
	return append([]IncomeRecord(nil), s.incomes...)
}

func (s *Store) Expenses() []ExpenseRecord {
	return append([]ExpenseRecord(nil), s.expenses...)
}

func (s *Store) Snapshot() Snapshot {
	return Snapshot{Incomes: s.Incomes(), Expenses: s.Expenses()}
}

func (s *Store) Currency() string {
	return s.currency
}

func (s *Store) SetCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return ErrInvalidCurrency
	}
	s.currency = code
	if err := s.kv.Set(KeyCurrency, code); err != nil {
		s.logger.WithError(err).Error("persisting currency preference")
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}

func (s *Store) persist(key string, records any) error {
	data, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("%w: marshaling %s: %v", ErrPersist, key, err)
	}
	// An empty collection is stored as [] rather than null.
	if string(data) == "null" {
		data = []byte("[]")
	}
	if err := s.kv.Set(key, string(data)); err != nil {
		s.logger.WithError(err).WithField("key", key).Error("persisting ledger")
		return fmt.Errorf("%w: %v", ErrPersist, err)
	}
	return nil
}
