package utils

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Confirm lists items under a warning and asks the user to continue.
// autoApprove skips the question. Only "y" and "yes" count as consent;
// end of input without an answer is a refusal.
func Confirm(in io.Reader, out io.Writer, autoApprove bool, action string, items []string) (bool, error) {
	if autoApprove {
		return true, nil
	}

	box := NewBox(QuestionMessage, fmt.Sprintf("About to %s", action))
	for i, item := range items {
		box.AddLine(fmt.Sprintf("%d. %s", i+1, item))
	}
	if err := box.Fprint(out); err != nil {
		return false, err
	}
	fmt.Fprint(out, "Are you sure you want to continue? (yes/no): ")

	input, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("failed to read user confirmation: %w", err)
	}

	input = strings.ToLower(strings.TrimSpace(input))
	return input == "yes" || input == "y", nil
}
