package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

type Styles struct {
	Header   lipgloss.Style
	Section  lipgloss.Style
	Income   lipgloss.Style
	Spent    lipgloss.Style
	Muted    lipgloss.Style
	Error    lipgloss.Style
	Summary  lipgloss.Style
	Analysis lipgloss.Style
}

// DefaultStyles builds styles for the renderer's output, so colours are
// dropped when it is not a terminal.
func DefaultStyles(r *lipgloss.Renderer) Styles {
	return Styles{
		Header:   r.NewStyle().Bold(true).Foreground(lipgloss.Color("#89b4fa")),
		Section:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#bbbbbb")),
		Income:   r.NewStyle().Foreground(lipgloss.Color("#00ff00")),
		Spent:    r.NewStyle().Foreground(lipgloss.Color("#ff0000")),
		Muted:    r.NewStyle().Foreground(lipgloss.Color("#7f849c")),
		Error:    r.NewStyle().Foreground(lipgloss.Color("#f38ba8")),
		Summary:  r.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		Analysis: r.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1),
	}
}

// Writer renders views to one output.
type Writer struct {
	out    io.Writer
	styles Styles
}

func NewWriter(out io.Writer) *Writer {
	return &Writer{
		out:    out,
		styles: DefaultStyles(lipgloss.NewRenderer(out)),
	}
}

// Write renders the whole view.
func (w *Writer) Write(v View) error {
	var b strings.Builder
	s := w.styles

	b.WriteString(s.Header.Render(v.Header))
	b.WriteString("  ")
	b.WriteString(s.Muted.Render(v.Currency))
	b.WriteString("\n")

	balance := s.Income
	if v.Negative {
		balance = s.Spent
	}
	totals := fmt.Sprintf("Income:   %s\nExpenses: %s\nBalance:  %s",
		s.Income.Render(v.TotalIncome),
		s.Spent.Render(v.TotalExpenses),
		balance.Render(v.Balance))
	b.WriteString(s.Summary.Render(totals))
	b.WriteString("\n")

	b.WriteString(s.Section.Render("Income"))
	b.WriteString("\n")
	if len(v.Incomes) == 0 {
		b.WriteString(s.Muted.Render("  No income yet."))
		b.WriteString("\n")
	}
	for _, r := range v.Incomes {
		fmt.Fprintf(&b, "  %2d. %s  %s\n", r.Index, r.Label, s.Income.Render(r.Amount))
	}

	b.WriteString(s.Section.Render("Expenses"))
	b.WriteString("  ")
	b.WriteString(s.Muted.Render(v.ExpenseCount))
	b.WriteString("\n")
	for _, r := range v.Expenses {
		fmt.Fprintf(&b, "  %2d. %s  %s  [%s]  %s\n", r.Index, r.Date, r.Label, r.Detail, s.Spent.Render(r.Amount))
	}

	if len(v.Categories) > 0 {
		b.WriteString(s.Section.Render("By category"))
		b.WriteString("\n")
		for _, r := range v.Categories {
			fmt.Fprintf(&b, "  %s: %s %s\n", r.Label, r.Amount, s.Muted.Render("("+r.Detail+")"))
		}
	}

	if v.Summary.State != SummaryIdle {
		b.WriteString(w.summary(v.Summary))
		b.WriteString("\n")
	}

	_, err := io.WriteString(w.out, b.String())
	return err
}

// WriteSummary renders only the analysis panel.
func (w *Writer) WriteSummary(sum Summary) error {
	if sum.State == SummaryIdle {
		return nil
	}
	_, err := io.WriteString(w.out, w.summary(sum)+"\n")
	return err
}

// Message prints a one-line notice, styled as an error when isErr is set.
func (w *Writer) Message(msg string, isErr bool) error {
	st := w.styles.Muted
	if isErr {
		st = w.styles.Error
	}
	_, err := io.WriteString(w.out, st.Render(msg)+"\n")
	return err
}

func (w *Writer) summary(sum Summary) string {
	s := w.styles
	switch sum.State {
	case SummaryPending:
		return s.Muted.Render(sum.Text)
	case SummaryError:
		return s.Error.Render(sum.Text)
	default:
		return s.Analysis.Render(sum.Text)
	}
}
