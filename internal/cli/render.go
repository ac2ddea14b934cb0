// Package cli renders ledger reports for the terminal.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/frahmantamala/budget-ledger/internal/ledger"
)

var (
	ColorBorder = lipgloss.Color("#575653")
	ColorText   = lipgloss.Color("#FFFCF0")
	ColorMuted  = lipgloss.Color("#6F6E69")
	ColorAccent = lipgloss.Color("#3AA99F")
	ColorGreen  = lipgloss.Color("#879A39")
	ColorOrange = lipgloss.Color("#DA702C")
	ColorRed    = lipgloss.Color("#D14D41")
)

var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(ColorText).Align(lipgloss.Center)
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(ColorAccent)
	valueStyle  = lipgloss.NewStyle().Foreground(ColorText)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	dimStyle    = lipgloss.NewStyle().Foreground(ColorBorder)
	okStyle     = lipgloss.NewStyle().Foreground(ColorGreen)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorOrange)
	errStyle    = lipgloss.NewStyle().Foreground(ColorRed)
)

// Table is a bordered text table. Rows holding the single cell "---"
// render as separators.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Rejection is an input line the ledger refused.
type Rejection struct {
	Line    int
	Input   string
	Code    string
	Message string
}

// Report is everything printed by the report command.
type Report struct {
	Title      string
	Currency   string
	Entries    []ledger.Expense
	Totals     []ledger.CategoryTotal
	Status     ledger.BudgetStatus
	Rejections []Rejection
}

func RenderTitle(title string) string {
	border := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorBorder).
		Width(55).
		Align(lipgloss.Center).
		Padding(0, 1)

	return border.Render(titleStyle.Render(title))
}

// RenderTable draws t with the first column left-aligned and the rest
// right-aligned.
func RenderTable(t Table) string {
	numCols := len(t.Headers)
	if numCols == 0 && len(t.Rows) > 0 {
		numCols = len(t.Rows[0])
	}
	if numCols == 0 {
		return ""
	}

	widths := make([]int, numCols)
	for i, h := range t.Headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range t.Rows {
		for i, cell := range row {
			if i < numCols && lipgloss.Width(cell) > widths[i] {
				widths[i] = lipgloss.Width(cell)
			}
		}
	}

	rule := func(left, mid, right string) string {
		var b strings.Builder
		b.WriteString(left)
		for i, w := range widths {
			b.WriteString(strings.Repeat("─", w+2))
			if i < numCols-1 {
				b.WriteString(mid)
			}
		}
		b.WriteString(right)
		return dimStyle.Render(b.String()) + "\n"
	}

	var b strings.Builder
	if t.Title != "" {
		b.WriteString("  ")
		b.WriteString(headerStyle.Render(t.Title))
		b.WriteString("\n")
	}

	b.WriteString(rule("╭", "┬", "╮"))

	if len(t.Headers) > 0 {
		b.WriteString(dimStyle.Render("│"))
		for i, h := range t.Headers {
			b.WriteString(headerStyle.Render(fmt.Sprintf(" %-*s ", widths[i], h)))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
		b.WriteString(rule("├", "┼", "┤"))
	}

	for _, row := range t.Rows {
		if len(row) == 1 && row[0] == "---" {
			b.WriteString(rule("├", "┼", "┤"))
			continue
		}

		b.WriteString(dimStyle.Render("│"))
		for i := 0; i < numCols; i++ {
			cell := ""
			if i < len(row) {
				cell = row[i]
			}
			var padded string
			if i == 0 {
				padded = fmt.Sprintf(" %-*s ", widths[i], cell)
			} else {
				padded = fmt.Sprintf(" %*s ", widths[i], cell)
			}
			b.WriteString(valueStyle.Render(padded))
			b.WriteString(dimStyle.Render("│"))
		}
		b.WriteString("\n")
	}

	b.WriteString(rule("╰", "┴", "╯"))
	return b.String()
}

// FilledCells is how many of width cells a bar shows for percent, clamped
// to the bar.
func FilledCells(percent float64, width int) int {
	if width <= 0 || percent <= 0 {
		return 0
	}
	if percent >= 100 {
		return width
	}
	return int(percent / 100 * float64(width))
}

// RenderBudgetBar draws usage of the ceiling. The bar never overflows;
// an overage is reported next to it instead.
func RenderBudgetBar(status ledger.BudgetStatus, currency string, width int) string {
	percent := status.DisplayPercent()
	filled := FilledCells(percent, width)
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)

	style := okStyle
	if !status.WithinBudget {
		style = errStyle
	} else if percent >= 80 {
		style = warnStyle
	}

	line := fmt.Sprintf("[%s] %s%%  %s / %s",
		style.Render(bar),
		strconv.FormatFloat(percent, 'f', 1, 64),
		FormatAmount(currency, status.Spent),
		FormatAmount(currency, status.Ceiling))
	if !status.WithinBudget {
		line += "  " + errStyle.Render("over by "+FormatAmount(currency, status.Overage))
	}
	return line
}

// FormatAmount prints d with two decimals and an optional currency prefix.
func FormatAmount(currency string, d decimal.Decimal) string {
	s := d.StringFixed(2)
	if currency == "" {
		return s
	}
	return currency + " " + s
}

func RenderReport(r Report) string {
	var b strings.Builder

	title := r.Title
	if title == "" {
		title = "BUDGET REPORT"
	}
	b.WriteString(RenderTitle(title))
	b.WriteString("\n\n")

	if len(r.Entries) == 0 {
		b.WriteString(mutedStyle.Render("  No expenses recorded."))
		b.WriteString("\n\n")
	} else {
		rows := make([][]string, 0, len(r.Entries)+2)
		for _, e := range r.Entries {
			rows = append(rows, []string{e.Name, e.Category.String(), FormatAmount(r.Currency, e.Amount)})
		}
		rows = append(rows, []string{"---"}, []string{"Total", "", FormatAmount(r.Currency, r.Status.Spent)})
		b.WriteString(RenderTable(Table{Title: "Expenses", Headers: []string{"Name", "Category", "Amount"}, Rows: rows}))
		b.WriteString("\n")

		catRows := make([][]string, 0, len(r.Totals))
		for _, t := range r.Totals {
			catRows = append(catRows, []string{t.Category.String(), strconv.Itoa(t.Count), FormatAmount(r.Currency, t.Total)})
		}
		b.WriteString(RenderTable(Table{Title: "By category", Headers: []string{"Category", "Count", "Total"}, Rows: catRows}))
		b.WriteString("\n")
	}

	b.WriteString("  ")
	b.WriteString(RenderBudgetBar(r.Status, r.Currency, 30))
	b.WriteString("\n")

	if len(r.Rejections) > 0 {
		b.WriteString("\n")
		rows := make([][]string, 0, len(r.Rejections))
		for _, rej := range r.Rejections {
			rows = append(rows, []string{strconv.Itoa(rej.Line), rej.Code, rej.Message})
		}
		b.WriteString(RenderTable(Table{Title: "Rejected lines", Headers: []string{"Line", "Code", "Reason"}, Rows: rows}))
	}

	return b.String()
}
