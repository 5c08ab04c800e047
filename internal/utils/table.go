package utils

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/fatih/color"
)

var (
	headerColor  = color.New(color.FgCyan, color.Bold)
	successColor = color.New(color.FgGreen)
	failureColor = color.New(color.FgRed, color.Bold)
	skippedColor = color.New(color.FgYellow)
)

// TableFormatter helps create formatted tables for CLI output
type TableFormatter struct {
	headers []string
	rows    [][]string
	widths  []int
}

// NewTableFormatter creates a new table formatter with headers
func NewTableFormatter(headers []string) *TableFormatter {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = utf8.RuneCountInString(h)
	}
	return &TableFormatter{
		headers: headers,
		rows:    [][]string{},
		widths:  widths,
	}
}

// AddRow adds a row to the table. Rows with the wrong number of cells are ignored.
func (t *TableFormatter) AddRow(row []string) {
	if len(row) != len(t.headers) {
		return
	}
	t.rows = append(t.rows, row)
	for i, cell := range row {
		if n := utf8.RuneCountInString(cell); n > t.widths[i] {
			t.widths[i] = n
		}
	}
}

// Len returns the number of data rows
func (t *TableFormatter) Len() int {
	return len(t.rows)
}

// String returns the formatted table. Headers are coloured when the
// terminal supports it.
func (t *TableFormatter) String() string {
	var sb strings.Builder

	t.writeBorder(&sb, "┌", "┬", "┐")

	sb.WriteString("│")
	for i, h := range t.headers {
		sb.WriteString(" " + headerColor.Sprint(pad(h, t.widths[i])) + " ")
		sb.WriteString("│")
	}
	sb.WriteString("\n")

	t.writeBorder(&sb, "├", "┼", "┤")

	for _, row := range t.rows {
		sb.WriteString("│")
		for i, cell := range row {
			sb.WriteString(" " + StatusColor(cell).Sprint(pad(cell, t.widths[i])) + " ")
			sb.WriteString("│")
		}
		sb.WriteString("\n")
	}

	t.writeBorder(&sb, "└", "┴", "┘")

	return sb.String()
}

func (t *TableFormatter) writeBorder(sb *strings.Builder, left, middle, right string) {
	sb.WriteString(left)
	for i, w := range t.widths {
		sb.WriteString(strings.Repeat("─", w+2))
		if i < len(t.widths)-1 {
			sb.WriteString(middle)
		}
	}
	sb.WriteString(right)
	sb.WriteString("\n")
}

// StatusColor picks the colour for a run status cell; other cells are left plain.
func StatusColor(cell string) *color.Color {
	switch cell {
	case "SUCCESS":
		return successColor
	case "FAILED":
		return failureColor
	case "SKIPPED", "CANCELLED":
		return skippedColor
	default:
		return color.New(color.Reset)
	}
}

func pad(s string, width int) string {
	return fmt.Sprintf("%s%s", s, strings.Repeat(" ", width-utf8.RuneCountInString(s)))
}
