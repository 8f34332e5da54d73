// Package table lays out rows of text into aligned columns.
package table

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

type Alignment int

const (
	AlignLeft Alignment = iota
	AlignRight
)

// Column configures one column. MaxWidth of zero means unbounded.
type Column struct {
	Align    Alignment
	MaxWidth int
}

// Format returns the rows padded according to the widest entry in each
// column. Cells wider than the column limit are truncated with an ellipsis.
// Rows may be ragged; missing cells render as blanks.
func Format(rows [][]string, columns []Column) []string {
	if len(rows) == 0 {
		return nil
	}
	colCount := 0
	for _, row := range rows {
		if len(row) > colCount {
			colCount = len(row)
		}
	}
	widths := make([]int, colCount)
	cells := make([][]string, len(rows))
	for i, row := range rows {
		cells[i] = make([]string, colCount)
		for c := 0; c < colCount; c++ {
			var cell string
			if c < len(row) {
				cell = row[c]
			}
			if c < len(columns) && columns[c].MaxWidth > 0 && lipgloss.Width(cell) > columns[c].MaxWidth {
				cell = ansi.Truncate(cell, columns[c].MaxWidth, "…")
			}
			cells[i][c] = cell
			if w := lipgloss.Width(cell); w > widths[c] {
				widths[c] = w
			}
		}
	}
	out := make([]string, len(cells))
	for i, row := range cells {
		var b strings.Builder
		for c, cell := range row {
			if c > 0 {
				b.WriteString("  ")
			}
			pad := widths[c] - lipgloss.Width(cell)
			if c < len(columns) && columns[c].Align == AlignRight {
				b.WriteString(strings.Repeat(" ", max(pad, 0)))
				b.WriteString(cell)
				continue
			}
			b.WriteString(cell)
			b.WriteString(strings.Repeat(" ", max(pad, 0)))
		}
		out[i] = strings.TrimRight(b.String(), " ")
	}
	return out
}
