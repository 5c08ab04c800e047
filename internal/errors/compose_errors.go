package errors

import (
	stderrors "errors"
	"fmt"
	"sort"
	"strings"
)

// ErrorCategory represents the category of error
type ErrorCategory string

const (
	// ErrorCategoryInvalidArgument represents malformed input to a constructor or mutator
	ErrorCategoryInvalidArgument ErrorCategory = "INVALID_ARGUMENT"
	// ErrorCategoryCyclicGraph represents a mutation that would introduce a cycle
	ErrorCategoryCyclicGraph ErrorCategory = "CYCLIC_GRAPH"
	// ErrorCategoryNotFound represents a reference to a task that is not in the graph
	ErrorCategoryNotFound ErrorCategory = "NOT_FOUND"
	// ErrorCategoryConfiguration represents compose file errors
	ErrorCategoryConfiguration ErrorCategory = "CONFIGURATION"
	// ErrorCategoryExecution represents failures while running a schedule
	ErrorCategoryExecution ErrorCategory = "EXECUTION"
)

// Sentinel errors matched with errors.Is against any *ComposeError of the
// corresponding category.
var (
	ErrInvalidArgument = stderrors.New("invalid argument")
	ErrCyclicGraph     = stderrors.New("cyclic graph")
	ErrNotFound        = stderrors.New("not found")
	ErrConfiguration   = stderrors.New("configuration error")
	ErrEarlyAbort      = stderrors.New("early abort")
)

var categorySentinels = map[ErrorCategory]error{
	ErrorCategoryInvalidArgument: ErrInvalidArgument,
	ErrorCategoryCyclicGraph:     ErrCyclicGraph,
	ErrorCategoryNotFound:        ErrNotFound,
	ErrorCategoryConfiguration:   ErrConfiguration,
}

// ComposeError represents a structured error with context and troubleshooting information
type ComposeError struct {
	Category        ErrorCategory
	Code            string
	Message         string
	Operation       string
	Context         map[string]interface{}
	Troubleshooting []string
	OriginalError   error
}

// Error implements the error interface. Only the header and the underlying
// error are included so messages stay on one line; FormatForCLI renders the rest.
func (e *ComposeError) Error() string {
	msg := fmt.Sprintf("%s-%s: %s", e.Category, e.Code, e.Message)
	if e.OriginalError != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.OriginalError)
	}
	return msg
}

// Unwrap returns the original error for error chain compatibility
func (e *ComposeError) Unwrap() error {
	return e.OriginalError
}

// Is reports whether target is the sentinel for this error's category.
func (e *ComposeError) Is(target error) bool {
	if e.Category == ErrorCategoryExecution && e.Code == CodeExecutionAborted {
		return target == ErrEarlyAbort
	}
	sentinel, ok := categorySentinels[e.Category]
	return ok && target == sentinel
}

// NewComposeError creates a new error with the specified parameters
func NewComposeError(category ErrorCategory, code, message, operation string) *ComposeError {
	return &ComposeError{
		Category:        category,
		Code:            code,
		Message:         message,
		Operation:       operation,
		Context:         make(map[string]interface{}),
		Troubleshooting: []string{},
	}
}

// WithContext adds context information to the error
func (e *ComposeError) WithContext(key string, value interface{}) *ComposeError {
	e.Context[key] = value
	return e
}

// WithTroubleshooting adds troubleshooting steps to the error
func (e *ComposeError) WithTroubleshooting(steps ...string) *ComposeError {
	e.Troubleshooting = append(e.Troubleshooting, steps...)
	return e
}

// WithOriginalError adds the original error
func (e *ComposeError) WithOriginalError(err error) *ComposeError {
	e.OriginalError = err
	return e
}

// contextKeys returns the context keys in a stable order.
func (e *ComposeError) contextKeys() []string {
	keys := make([]string, 0, len(e.Context))
	for k := range e.Context {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Details renders the multi-line form: operation, context and troubleshooting.
func (e *ComposeError) Details() string {
	var sb strings.Builder

	if e.Operation != "" {
		sb.WriteString(fmt.Sprintf("Operation: %s\n", e.Operation))
	}

	if len(e.Context) > 0 {
		sb.WriteString("Context:\n")
		for _, key := range e.contextKeys() {
			sb.WriteString(fmt.Sprintf("  %s: %v\n", key, e.Context[key]))
		}
	}

	if len(e.Troubleshooting) > 0 {
		sb.WriteString("Troubleshooting:\n")
		for i, step := range e.Troubleshooting {
			sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, step))
		}
	}

	return sb.String()
}

// Common error constructors

// NewInvalidArgumentError creates a new invalid argument error
func NewInvalidArgumentError(code, message, operation string) *ComposeError {
	return NewComposeError(ErrorCategoryInvalidArgument, code, message, operation)
}

// NewCyclicGraphError creates a new cyclic graph error
func NewCyclicGraphError(code, message, operation string) *ComposeError {
	return NewComposeError(ErrorCategoryCyclicGraph, code, message, operation)
}

// NewNotFoundError creates a new not found error
func NewNotFoundError(code, message, operation string) *ComposeError {
	return NewComposeError(ErrorCategoryNotFound, code, message, operation)
}

// NewConfigurationError creates a new configuration error
func NewConfigurationError(code, message, operation string) *ComposeError {
	return NewComposeError(ErrorCategoryConfiguration, code, message, operation)
}

// NewExecutionError creates a new execution error
func NewExecutionError(code, message, operation string) *ComposeError {
	return NewComposeError(ErrorCategoryExecution, code, message, operation)
}

// AsComposeError returns the first *ComposeError in err's chain, or nil.
func AsComposeError(err error) *ComposeError {
	var ce *ComposeError
	if stderrors.As(err, &ce) {
		return ce
	}
	return nil
}
