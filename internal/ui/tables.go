package ui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Table is a bordered table of plain text cells
type Table struct {
	headers  []string
	rows     [][]string
	maxWidth int // Maximum total table width
}

// NewTable creates a new table
func NewTable(headers ...string) *Table {
	return &Table{
		headers:  headers,
		rows:     [][]string{},
		maxWidth: 160,
	}
}

// SetMaxWidth sets the maximum table width
func (t *Table) SetMaxWidth(width int) {
	t.maxWidth = width
}

// AddRow adds a row to the table. Missing values are left blank.
func (t *Table) AddRow(values ...string) {
	row := make([]string, len(t.headers))
	copy(row, values)
	t.rows = append(t.rows, row)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to the ui output
func (t *Table) Render() {
	t.RenderTo(out)
}

// RenderTo writes the table to w
func (t *Table) RenderTo(w io.Writer) {
	if len(t.headers) == 0 {
		return
	}

	widths := t.columnWidths()

	border := func(left, mid, right string) {
		fmt.Fprint(w, left)
		for i, cw := range widths {
			fmt.Fprint(w, strings.Repeat("─", cw+2))
			if i < len(widths)-1 {
				fmt.Fprint(w, mid)
			}
		}
		fmt.Fprintln(w, right)
	}

	line := func(cells []string, style func(string) string) {
		fmt.Fprint(w, "│")
		for i, cw := range widths {
			cell := truncate(cells[i], cw)
			pad := cw - lipgloss.Width(cell)
			if pad < 0 {
				pad = 0
			}
			fmt.Fprint(w, " "+style(cell)+strings.Repeat(" ", pad)+" │")
		}
		fmt.Fprintln(w)
	}

	border("┌", "┬", "┐")
	line(t.headers, func(s string) string { return headerStyle.Render(s) })
	border("├", "┼", "┤")
	for _, row := range t.rows {
		line(row, func(s string) string { return s })
	}
	border("└", "┴", "┘")
}

// columnWidths sizes each column to its widest cell, then shrinks the widest
// columns until the table fits maxWidth.
func (t *Table) columnWidths() []int {
	widths := make([]int, len(t.headers))
	for i, h := range t.headers {
		widths[i] = lipgloss.Width(h)
		for _, row := range t.rows {
			if cw := lipgloss.Width(row[i]); cw > widths[i] {
				widths[i] = cw
			}
		}
	}

	total := 1
	for _, cw := range widths {
		total += cw + 3
	}

	for excess := total - t.maxWidth; excess > 0; excess-- {
		maxIdx := 0
		for i := 1; i < len(widths); i++ {
			if widths[i] > widths[maxIdx] {
				maxIdx = i
			}
		}
		if widths[maxIdx] <= 10 {
			break
		}
		widths[maxIdx]--
	}

	return widths
}

// truncate shortens s to maxLen runes, ending in an ellipsis
func truncate(s string, maxLen int) string {
	r := []rune(s)
	if len(r) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}
