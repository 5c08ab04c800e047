package utils

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfirm(t *testing.T) {
	tests := []struct {
		name        string
		autoApprove bool
		input       string
		expected    bool
		prompted    bool
	}{
		{"auto approve", true, "", true, false},
		{"yes", false, "yes\n", true, true},
		{"short yes with spaces", false, "  Y \n", true, true},
		{"no", false, "no\n", false, true},
		{"end of input", false, "", false, true},
		{"yes without newline", false, "y", true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			ok, err := Confirm(strings.NewReader(tt.input), &out, tt.autoApprove, "run 2 tasks", []string{"boil_water", "steep_tea"})
			require.NoError(t, err)

			assert.Equal(t, tt.expected, ok)
			if tt.prompted {
				assert.Contains(t, out.String(), "About to run 2 tasks")
				assert.Contains(t, out.String(), "2. steep_tea")
				assert.Contains(t, out.String(), "(yes/no)")
			} else {
				assert.Empty(t, out.String())
			}
		})
	}
}
