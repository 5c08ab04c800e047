package utils

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
)

func TestTableFormatter(t *testing.T) {
	color.NoColor = true

	tests := []struct {
		name     string
		headers  []string
		rows     [][]string
		expected []string
		rowCount int
	}{
		{
			name:    "aligns columns to the widest cell",
			headers: []string{"Level", "Task"},
			rows: [][]string{
				{"1", "boil_water"},
				{"2", "steep_tea"},
			},
			expected: []string{
				"┌───────┬────────────┐",
				"│ Level │ Task       │",
				"├───────┼────────────┤",
				"│ 1     │ boil_water │",
				"│ 2     │ steep_tea  │",
				"└───────┴────────────┘",
			},
			rowCount: 2,
		},
		{
			name:    "ignores rows with the wrong width",
			headers: []string{"A", "B"},
			rows:    [][]string{{"only one"}},
			expected: []string{
				"┌───┬───┐",
				"│ A │ B │",
				"├───┼───┤",
				"└───┴───┘",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			table := NewTableFormatter(tt.headers)
			for _, row := range tt.rows {
				table.AddRow(row)
			}

			assert.Equal(t, tt.rowCount, table.Len())
			assert.Equal(t, strings.Join(tt.expected, "\n")+"\n", table.String())
		})
	}
}

func TestStatusColor(t *testing.T) {
	assert.Equal(t, successColor, StatusColor("SUCCESS"))
	assert.Equal(t, failureColor, StatusColor("FAILED"))
	assert.Equal(t, skippedColor, StatusColor("SKIPPED"))
	assert.NotNil(t, StatusColor("plain"))
}
