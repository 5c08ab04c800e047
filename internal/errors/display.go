package errors

import (
	"fmt"
	"strings"
)

// DisplayErrorSummary provides a brief summary of the error for logs
func DisplayErrorSummary(err error) string {
	if ce := AsComposeError(err); ce != nil {
		return fmt.Sprintf("%s-%s: %s", ce.Category, ce.Code, ce.Message)
	}

	errStr := err.Error()
	if len(errStr) > 100 {
		return errStr[:97] + "..."
	}
	return errStr
}

// ShouldDisplayTroubleshooting determines if troubleshooting info should be shown
func ShouldDisplayTroubleshooting(err error) bool {
	if ce := AsComposeError(err); ce != nil {
		return len(ce.Troubleshooting) > 0
	}
	return false
}

// FormatForCLI formats an error for command-line display with proper spacing
func FormatForCLI(err error) string {
	ce := AsComposeError(err)
	if ce == nil {
		return fmt.Sprintf("\nError: %v\n", err)
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("\nError [%s-%s]\n", ce.Category, ce.Code))
	sb.WriteString(fmt.Sprintf("  %s\n", ce.Message))

	if ce.Operation != "" {
		sb.WriteString(fmt.Sprintf("\nFailed Operation: %s\n", ce.Operation))
	}

	if len(ce.Context) > 0 {
		sb.WriteString("\nDetails:\n")
		for _, key := range ce.contextKeys() {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", key, ce.Context[key]))
		}
	}

	if ShouldDisplayTroubleshooting(ce) {
		sb.WriteString("\nHow to resolve:\n")
		for i, step := range ce.Troubleshooting {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	if ce.OriginalError != nil {
		sb.WriteString(fmt.Sprintf("\nTechnical details: %v\n", ce.OriginalError))
	}

	return sb.String()
}

// IsUserError determines if an error is due to user input/configuration
func IsUserError(err error) bool {
	if ce := AsComposeError(err); ce != nil {
		return ce.Category == ErrorCategoryInvalidArgument ||
			ce.Category == ErrorCategoryConfiguration ||
			ce.Category == ErrorCategoryCyclicGraph
	}
	return false
}

// GetErrorCode extracts the error code for reporting
func GetErrorCode(err error) string {
	if ce := AsComposeError(err); ce != nil {
		return fmt.Sprintf("%s-%s", ce.Category, ce.Code)
	}
	return "UNKNOWN"
}
