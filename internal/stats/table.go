package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var lang = language.English

// Printer returns the number printer used by every table, so that 12345
// renders as 12,345.
func Printer() *message.Printer {
	return message.NewPrinter(lang)
}

// Table is an ordered list of key/value rows rendered as a boxed text table.
type Table struct {
	Title string
	keys  []string
	vals  []string
}

// NewTable creates an empty table.
func NewTable(title string) *Table {
	return &Table{Title: title}
}

// Add appends a row, formatting the value with the locale printer.
func (t *Table) Add(key, format string, args ...any) *Table {
	t.keys = append(t.keys, key)
	t.vals = append(t.vals, Printer().Sprintf(format, args...))
	return t
}

// Len returns the number of rows.
func (t *Table) Len() int { return len(t.keys) }

// String renders the table:
//
//	+-------------+
//	|    title    |
//	+------+------+
//	| key  | val  |
//	+------+------+
func (t *Table) String() string {
	keyW, valW := 0, 0
	for i := range t.keys {
		keyW = max(keyW, runewidth.StringWidth(t.keys[i]))
		valW = max(valW, runewidth.StringWidth(t.vals[i]))
	}
	keyW += 2
	valW += 2

	inner := keyW + 1 + valW
	titleW := runewidth.StringWidth(t.Title)
	if titleW > inner {
		valW += titleW - inner
		inner = titleW
	}
	left := (inner - titleW) / 2

	var b strings.Builder
	b.WriteString("+" + strings.Repeat("-", inner) + "+\n")
	b.WriteString("|" + blank(left) + t.Title + blank(inner-titleW-left) + "|\n")
	divider := "+" + strings.Repeat("-", keyW) + "+" + strings.Repeat("-", valW) + "+\n"
	b.WriteString(divider)
	for i, k := range t.keys {
		v := t.vals[i]
		b.WriteString("| " + k + blank(keyW-2-runewidth.StringWidth(k)) + " | " + v + blank(valW-2-runewidth.StringWidth(v)) + " |\n")
	}
	b.WriteString(divider)
	return b.String()
}

// SummaryTable renders s with the given title. unit is appended to the
// location values (e.g. "pts").
func SummaryTable(title, unit string, s Summary) *Table {
	suffix := ""
	if unit != "" {
		suffix = " " + unit
	}
	t := NewTable(title)
	t.Add("Games", "%d", s.Count)
	if s.Count == 0 {
		return t
	}
	t.Add("Mean", "%.1f%s", s.Mean, suffix)
	t.Add("Mean 95% CI", "[%.1f, %.1f]", s.MeanCI.Lo, s.MeanCI.Hi)
	t.Add("Std Dev", "%.1f", s.StdDev)
	t.Add("Min", "%.0f%s", s.Min, suffix)
	t.Add("Median", "%.0f%s", s.Median, suffix)
	t.Add("P90", "%.0f%s", s.P90, suffix)
	t.Add("Max", "%.0f%s", s.Max, suffix)
	return t
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
