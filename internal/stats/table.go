package stats

import (
	"strings"

	"github.com/mattn/go-runewidth"
)

// formatTable lays out headers and rows in aligned columns. Widths are
// measured in terminal cells so wide runes line up.
func formatTable(headers []string, rows [][]string, rightAlign map[int]bool) []string {
	lines := rows
	if len(headers) > 0 {
		lines = append([][]string{headers}, rows...)
	}
	widths := columnWidths(lines)
	if len(widths) == 0 {
		return nil
	}
	out := make([]string, 0, len(lines))
	for _, row := range lines {
		out = append(out, joinCells(row, widths, rightAlign))
	}
	return out
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i == len(widths) {
				widths = append(widths, 0)
			}
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}
	return widths
}

func joinCells(row []string, widths []int, rightAlign map[int]bool) string {
	cells := make([]string, len(widths))
	for i, width := range widths {
		cell := ""
		if i < len(row) {
			cell = row[i]
		}
		cells[i] = padCell(cell, width, rightAlign[i])
	}
	return strings.Join(cells, " ")
}

func padCell(value string, width int, right bool) string {
	if right {
		return runewidth.FillLeft(value, width)
	}
	return runewidth.FillRight(value, width)
}
