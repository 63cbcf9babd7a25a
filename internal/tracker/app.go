// Package tracker runs the interactive budget session.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/mrwolf/budget-ai/internal/clock"
	"github.com/mrwolf/budget-ai/internal/currency"
	"github.com/mrwolf/budget-ai/internal/db"
	"github.com/mrwolf/budget-ai/internal/ledger"
	"github.com/mrwolf/budget-ai/internal/prompt"
	"github.com/mrwolf/budget-ai/internal/relay"
	"github.com/mrwolf/budget-ai/internal/render"
	log "github.com/sirupsen/logrus"
)

const historyLimit = 5

// Summarizer is the relay round trip.
type Summarizer interface {
	RequestSummary(ctx context.Context, prompt string) (string, error)
}

// History keeps summaries that were shown.
type History interface {
	SaveAnalysis(language, currency, text string) error
	RecentAnalyses(limit int) ([]db.Analysis, error)
}

type summaryResult struct {
	seq  uint64
	lang string
	code string
	text string
	err  error
}

// App owns the session. Run must be called from one goroutine; only relay
// calls happen elsewhere.
type App struct {
	store     *ledger.Store
	relay     Summarizer
	history   History
	out       *render.Writer
	formatter *currency.Formatter
	clock     clock.Clock
	logger    log.FieldLogger

	lang    string
	month   time.Month // header month, 0 follows the clock
	summary render.Summary

	seq     uint64
	pending int
	results chan summaryResult
	wg      sync.WaitGroup
}

type Option func(*App)

func WithHistory(h History) Option {
	return func(a *App) {
		a.history = h
	}
}

func WithClock(c clock.Clock) Option {
	return func(a *App) {
		a.clock = c
	}
}

func WithLogger(l log.FieldLogger) Option {
	return func(a *App) {
		a.logger = l
	}
}

// WithLanguage sets the analysis language. Unsupported values resolve to English.
func WithLanguage(lang string) Option {
	return func(a *App) {
		a.lang = baseLanguage(lang)
	}
}

func NewApp(store *ledger.Store, summarizer Summarizer, out *render.Writer, f *currency.Formatter, opts ...Option) *App {
	a := &App{
		store:     store,
		relay:     summarizer,
		out:       out,
		formatter: f,
		clock:     clock.System{},
		logger:    log.StandardLogger(),
		lang:      baseLanguage(""),
		results:   make(chan summaryResult),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func baseLanguage(lang string) string {
	base, _ := prompt.Resolve(lang).Base()
	return base.String()
}

func (a *App) Language() string {
	return a.lang
}

// Run processes lines until quit, ctx is done, or lines is closed. After lines
// is closed it waits for outstanding summaries; quit and cancellation abandon
// them.
func (a *App) Run(ctx context.Context, lines <-chan string) error {
	reqCtx, cancel := context.WithCancel(ctx)
	defer func() {
		cancel()
		a.wg.Wait()
	}()

	a.render()

	for {
		if lines == nil && a.pending == 0 {
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()

		case line, ok := <-lines:
			if !ok {
				lines = nil
				continue
			}
			if quit := a.handle(reqCtx, line); quit {
				return nil
			}

		case res := <-a.results:
			a.pending--
			a.finishSummary(res)
		}
	}
}

// handle runs one command to completion. It reports whether to quit.
func (a *App) handle(ctx context.Context, line string) bool {
	cmd, err := ParseCommand(line)
	if err != nil {
		a.message(err.Error(), true)
		return false
	}

	switch cmd.Op {
	case OpNone:
	case OpQuit:
		return true
	case OpHelp:
		a.message(Help, false)
	case OpCategories:
		names := make([]string, 0, len(ledger.Categories()))
		for _, c := range ledger.Categories() {
			names = append(names, string(c))
		}
		a.message("Categories: "+strings.Join(names, ", "), false)
	case OpList:
		a.render()

	case OpIncome:
		_, err := a.store.AddIncome(cmd.Text, cmd.Amount)
		a.afterMutation(err)
	case OpExpense:
		_, err := a.store.AddExpense(cmd.Text, cmd.Category, cmd.Amount)
		a.afterMutation(err)
	case OpRemoveIncome:
		a.afterRemove("income", cmd.Index, a.store.RemoveIncome(cmd.Index))
	case OpRemoveExpense:
		a.afterRemove("expense", cmd.Index, a.store.RemoveExpense(cmd.Index))
	case OpCurrency:
		a.afterMutation(a.store.SetCurrency(cmd.Text))

	case OpLanguage:
		a.lang = baseLanguage(cmd.Text)
		a.message("Analysis language: "+a.lang, false)
	case OpMonth:
		a.month = cmd.Month
		a.render()
	case OpAnalyze:
		a.startSummary(ctx)
	case OpHistory:
		a.showHistory()
	}
	return false
}

// afterMutation reports validation errors without rendering. A failed
// persistence write still leaves the in-memory change, so the view is redrawn.
func (a *App) afterMutation(err error) {
	switch {
	case err == nil:
		a.render()
	case errors.Is(err, ledger.ErrPersist):
		a.logger.WithError(err).Error("saving ledger")
		a.render()
		a.message("Warning: changes could not be saved.", true)
	default:
		a.message(err.Error(), true)
	}
}

// afterRemove reports positions 1-based, the way the lists show them.
func (a *App) afterRemove(list string, index int, err error) {
	if errors.Is(err, ledger.ErrIndexOutOfRange) {
		a.message(fmt.Sprintf("%s %d: %v", list, index+1, ledger.ErrIndexOutOfRange), true)
		return
	}
	a.afterMutation(err)
}

func (a *App) startSummary(ctx context.Context) {
	snap := a.store.Snapshot()
	code := a.store.Currency()
	text := prompt.Build(snap, ledger.Aggregate(snap), code, a.lang)

	a.seq++
	seq, lang := a.seq, a.lang
	a.pending++
	a.summary = render.Pending()
	a.writeSummary()

	a.wg.Add(1)
	go func() {
		defer a.wg.Done()
		out, err := a.relay.RequestSummary(ctx, text)
		select {
		case a.results <- summaryResult{seq: seq, lang: lang, code: code, text: out, err: err}:
		case <-ctx.Done():
		}
	}()
}

func (a *App) finishSummary(res summaryResult) {
	if res.seq != a.seq {
		a.logger.WithField("seq", res.seq).Debug("discarding superseded summary")
		return
	}

	if res.err != nil {
		a.logger.WithError(res.err).Warn("summary request failed")
		var re *relay.Error
		if errors.As(res.err, &re) {
			a.summary = render.Failure(re.UserMessage())
		} else {
			a.summary = render.Failure(relay.MessageTransport)
		}
		a.writeSummary()
		return
	}

	a.summary = render.Result(res.text)
	a.writeSummary()
	if a.history != nil {
		if err := a.history.SaveAnalysis(res.lang, res.code, res.text); err != nil {
			a.logger.WithError(err).Warn("saving summary")
		}
	}
}

func (a *App) showHistory() {
	if a.history == nil {
		a.message("History is not available.", true)
		return
	}
	items, err := a.history.RecentAnalyses(historyLimit)
	if err != nil {
		a.logger.WithError(err).Error("reading history")
		a.message("Could not read history.", true)
		return
	}
	if len(items) == 0 {
		a.message("No summaries yet.", false)
		return
	}
	for _, it := range items {
		a.message(fmt.Sprintf("%s [%s, %s]", it.CreatedAt.Local().Format("2006-01-02 15:04"), it.Language, it.Currency), false)
		if err := a.out.WriteSummary(render.Result(it.Text)); err != nil {
			a.logger.WithError(err).Warn("writing output")
		}
	}
}

func (a *App) render() {
	snap := a.store.Snapshot()
	v := render.Build(snap, ledger.Aggregate(snap), a.formatter, a.store.Currency(), a.headerDate())
	v.Summary = a.summary
	if err := a.out.Write(v); err != nil {
		a.logger.WithError(err).Warn("writing output")
	}
}

func (a *App) headerDate() time.Time {
	now := a.clock.Now()
	if a.month == 0 {
		return now
	}
	return time.Date(now.Year(), a.month, 1, 0, 0, 0, 0, now.Location())
}

func (a *App) writeSummary() {
	if err := a.out.WriteSummary(a.summary); err != nil {
		a.logger.WithError(err).Warn("writing output")
	}
}

func (a *App) message(msg string, isErr bool) {
	if err := a.out.Message(msg, isErr); err != nil {
		a.logger.WithError(err).Warn("writing output")
	}
}
