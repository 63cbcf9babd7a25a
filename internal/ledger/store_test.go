package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/mrwolf/budget-ai/internal/clock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memKV struct {
	data   map[string]string
	writes int
	failOn string
}

func newMemKV() *memKV {
	return &memKV{data: make(map[string]string)}
}

func (m *memKV) Get(key string) (string, bool, error) {
	v, ok := m.data[key]
	return v, ok, nil
}

func (m *memKV) Set(key, value string) error {
	if key == m.failOn {
		return errors.New("disk full")
	}
	m.writes++
	m.data[key] = value
	return nil
}

type brokenKV struct{}

func (brokenKV) Get(string) (string, bool, error) { return "", false, errors.New("io error") }
func (brokenKV) Set(string, string) error         { return errors.New("io error") }

var fixedClock = &clock.Fixed{At: time.Date(2025, time.March, 14, 18, 30, 0, 0, time.UTC)}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newTestStore(t *testing.T) (*Store, *memKV) {
	t.Helper()
	kv := newMemKV()
	s := NewStore(kv, WithClock(fixedClock))
	s.Load()
	return s, kv
}

func TestLoadEmpty(t *testing.T) {
	s, _ := newTestStore(t)

	assert.Empty(t, s.Incomes())
	assert.Empty(t, s.Expenses())
	assert.Equal(t, "KRW", s.Currency())
}

func TestLoadMalformedFailsOpen(t *testing.T) {
	kv := newMemKV()
	kv.data[KeyIncome] = `{not json`
	kv.data[KeyExpense] = `[{"date":"2025-01-02","desc":"Rent","category":"Housing","amount":400}]`

	s := NewStore(kv)
	s.Load()

	assert.Empty(t, s.Incomes())
	require.Len(t, s.Expenses(), 1)
	assert.Equal(t, "Rent", s.Expenses()[0].Description)
}

func TestLoadUnreadableStore(t *testing.T) {
	s := NewStore(brokenKV{})
	s.Load()

	assert.Empty(t, s.Incomes())
	assert.Empty(t, s.Expenses())
	assert.Equal(t, DefaultCurrency, s.Currency())
}

func TestLoadDropsInvalidRecords(t *testing.T) {
	kv := newMemKV()
	kv.data[KeyIncome] = `[{"source":"Salary","amount":"1000"},{"source":"","amount":"5"},{"source":"Gift","amount":-3}]`
	kv.data[KeyExpense] = `[{"date":"2025-01-02","desc":"Rent","category":"Rocketry","amount":400},{"date":"nope","desc":"Tea","category":"Food","amount":2}]`
	kv.data[KeyCurrency] = "usd"

	s := NewStore(kv)
	s.Load()

	require.Len(t, s.Incomes(), 1)
	assert.Equal(t, "Salary", s.Incomes()[0].Source)
	assert.Empty(t, s.Expenses())
	assert.Equal(t, "USD", s.Currency())
}

func TestLoadCanonicalizesCategory(t *testing.T) {
	kv := newMemKV()
	kv.data[KeyExpense] = `[{"date":"2025-01-02","desc":"Rent","category":"housing","amount":400},{"date":"2025-01-03","desc":"Deposit","category":" HOUSING ","amount":100}]`

	s := NewStore(kv)
	s.Load()

	require.Len(t, s.Expenses(), 2)
	assert.Equal(t, CategoryHousing, s.Expenses()[0].Category)
	assert.Equal(t, CategoryHousing, s.Expenses()[1].Category)

	cats := ByCategory(s.Snapshot())
	require.Len(t, cats, 1)
	assert.Equal(t, CategoryHousing, cats[0].Category)
	assert.True(t, cats[0].Amount.Equal(dec("500")))
	assert.Equal(t, 2, cats[0].Count)
}

func TestAddIncome(t *testing.T) {
	s, kv := newTestStore(t)

	r, err := s.AddIncome("  Salary ", dec("1000"))
	require.NoError(t, err)
	assert.Equal(t, "Salary", r.Source)
	assert.Len(t, s.Incomes(), 1)
	assert.Equal(t, 1, kv.writes)
}

func TestAddRejectsInvalidInput(t *testing.T) {
	s, kv := newTestStore(t)

	_, err := s.AddIncome("   ", dec("10"))
	assert.ErrorIs(t, err, ErrEmptySource)
	_, err = s.AddIncome("Salary", dec("0"))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = s.AddIncome("Salary", dec("-50"))
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = s.AddExpense("", CategoryFood, dec("10"))
	assert.ErrorIs(t, err, ErrEmptyDescription)
	_, err = s.AddExpense("Lunch", "Rocketry", dec("10"))
	assert.ErrorIs(t, err, ErrInvalidCategory)
	_, err = s.AddExpense("Lunch", CategoryFood, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	assert.Empty(t, s.Incomes())
	assert.Empty(t, s.Expenses())
	assert.Zero(t, kv.writes)
}

func TestAddExpenseAssignsToday(t *testing.T) {
	s, _ := newTestStore(t)

	r, err := s.AddExpense("Rent", "housing", dec("400"))
	require.NoError(t, err)
	assert.Equal(t, "2025-03-14", r.Date)
	assert.Equal(t, CategoryHousing, r.Category)
}

func TestRemoveAtIndex(t *testing.T) {
	s, _ := newTestStore(t)
	for _, src := range []string{"A", "B", "C"} {
		_, err := s.AddIncome(src, dec("1"))
		require.NoError(t, err)
	}

	require.NoError(t, s.RemoveIncome(1))

	incomes := s.Incomes()
	require.Len(t, incomes, 2)
	assert.Equal(t, "A", incomes[0].Source)
	assert.Equal(t, "C", incomes[1].Source)
}

func TestRemoveOutOfRange(t *testing.T) {
	s, kv := newTestStore(t)
	_, err := s.AddExpense("Rent", CategoryHousing, dec("400"))
	require.NoError(t, err)
	writes := kv.writes

	for _, i := range []int{-1, 1, 42} {
		err := s.RemoveExpense(i)
		assert.ErrorIs(t, err, ErrIndexOutOfRange)
	}
	assert.ErrorIs(t, s.RemoveIncome(0), ErrIndexOutOfRange)

	assert.Len(t, s.Expenses(), 1)
	assert.Equal(t, writes, kv.writes)
}

func TestSnapshotIsACopy(t *testing.T) {
	s, _ := newTestStore(t)
	_, err := s.AddIncome("Salary", dec("1000"))
	require.NoError(t, err)

	snap := s.Snapshot()
	snap.Incomes[0].Source = "Hacked"
	snap.Incomes = append(snap.Incomes, IncomeRecord{Source: "Extra", Amount: dec("1")})

	incomes := s.Incomes()
	require.Len(t, incomes, 1)
	assert.Equal(t, "Salary", incomes[0].Source)
}

func TestPersistRoundTrip(t *testing.T) {
	s, kv := newTestStore(t)
	_, _ = s.AddIncome("Salary", dec("1000"))
	_, _ = s.AddIncome("Freelance", dec("250.75"))
	_, _ = s.AddIncome("Gift", dec("20"))
	_, _ = s.AddExpense("Rent", CategoryHousing, dec("400"))
	_, _ = s.AddExpense("Groceries", CategoryFood, dec("12.5"))
	_, _ = s.AddExpense("Bus", CategoryTransport, dec("1.25"))
	require.NoError(t, s.RemoveIncome(2))
	require.NoError(t, s.RemoveExpense(0))
	require.NoError(t, s.SetCurrency("usd"))

	reloaded := NewStore(kv, WithClock(fixedClock))
	reloaded.Load()

	want := s.Snapshot()
	got := reloaded.Snapshot()
	require.Len(t, got.Incomes, len(want.Incomes))
	require.Len(t, got.Expenses, len(want.Expenses))
	for i := range want.Incomes {
		assert.Equal(t, want.Incomes[i].Source, got.Incomes[i].Source)
		assert.True(t, want.Incomes[i].Amount.Equal(got.Incomes[i].Amount), "income %d amount", i)
	}
	for i := range want.Expenses {
		w, g := want.Expenses[i], got.Expenses[i]
		assert.Equal(t, w.Description, g.Description)
		assert.Equal(t, w.Category, g.Category)
		assert.Equal(t, w.Date, g.Date)
		assert.True(t, w.Amount.Equal(g.Amount), "expense %d amount", i)
	}
	assert.Equal(t, "USD", reloaded.Currency())
}

func TestRemoveLastPersistsEmptyList(t *testing.T) {
	s, kv := newTestStore(t)
	_, _ = s.AddIncome("Salary", dec("1000"))
	require.NoError(t, s.RemoveIncome(0))

	assert.Equal(t, "[]", kv.data[KeyIncome])
}

func TestPersistFailureKeepsMutation(t *testing.T) {
	kv := newMemKV()
	kv.failOn = KeyIncome
	s := NewStore(kv)
	s.Load()

	_, err := s.AddIncome("Salary", dec("1000"))
	assert.ErrorIs(t, err, ErrPersist)
	assert.Len(t, s.Incomes(), 1)
}

func TestSetCurrency(t *testing.T) {
	s, kv := newTestStore(t)

	assert.ErrorIs(t, s.SetCurrency("  "), ErrInvalidCurrency)
	assert.Equal(t, "KRW", s.Currency())

	require.NoError(t, s.SetCurrency(" eur "))
	assert.Equal(t, "EUR", s.Currency())
	assert.Equal(t, "EUR", kv.data[KeyCurrency])
}
