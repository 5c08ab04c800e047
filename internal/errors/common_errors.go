package errors

import (
	"fmt"
)

// Common error codes
const (
	// Invalid argument error codes
	CodeEmptyLocation    = "001"
	CodeEmptyEnvironment = "002"
	CodeZeroTask         = "003"
	CodeNilGraph         = "004"
	CodeEmptyBaseDir     = "005"
	CodeUnknownFormat    = "006"
	CodeInvalidOption    = "007"

	// Graph error codes
	CodeCycleIntroduced = "001"

	// Lookup error codes
	CodeTaskNotFound = "001"

	// Configuration error codes
	CodeConfigRead        = "001"
	CodeConfigParse       = "002"
	CodeConfigMissingKeys = "003"
	CodeConfigUnknownKeys = "004"
	CodeConfigUnknownTask = "005"
	CodeConfigInvalidTask = "006"

	// Execution error codes
	CodeExecutionFailed  = "001"
	CodeExecutionAborted = "002"
)

// NewEmptyLocationError creates an error for a task constructed without a location
func NewEmptyLocationError() *ComposeError {
	return NewInvalidArgumentError(CodeEmptyLocation,
		"task location must not be empty",
		"Task construction").
		WithTroubleshooting(
			"Give every task a loc, or name the task after its script",
		)
}

// NewEmptyEnvironmentError creates an error for an explicitly blank environment
func NewEmptyEnvironmentError(location string) *ComposeError {
	return NewInvalidArgumentError(CodeEmptyEnvironment,
		"task environment must be a non-empty string",
		"Task construction").
		WithContext("location", location).
		WithTroubleshooting(
			"Set env to the interpreter that runs the task, e.g. 'sh' or 'python3'",
			"Omit env entirely to use the default environment",
		)
}

// NewZeroTaskError creates an error for a zero-value Task passed to the graph
func NewZeroTaskError(operation string) *ComposeError {
	return NewInvalidArgumentError(CodeZeroTask,
		"task is not initialised; construct it with task.New",
		operation)
}

// NewNilGraphError creates an error for a scheduler constructed without a graph
func NewNilGraphError() *ComposeError {
	return NewInvalidArgumentError(CodeNilGraph,
		"scheduler requires a graph",
		"Scheduler construction")
}

// NewCycleError creates an error naming the edge that introduced a cycle
func NewCycleError(upstream, downstream string) *ComposeError {
	return NewCyclicGraphError(CodeCycleIntroduced,
		fmt.Sprintf("adding the dependency %s -> %s introduced a cycle", upstream, downstream),
		"Add dependency").
		WithContext("upstream", upstream).
		WithContext("downstream", downstream).
		WithTroubleshooting(
			"Drop the offending dependency or restructure the tasks involved",
			"Run 'taskcompose validate' to check the compose file",
		)
}

// NewTaskNotFoundError creates an error for a task that is not registered
func NewTaskNotFoundError(taskName, operation string) *ComposeError {
	return NewNotFoundError(CodeTaskNotFound,
		fmt.Sprintf("%s is not in the graph", taskName),
		operation).
		WithContext("task", taskName)
}

// NewConfigFieldError creates an error for a malformed compose file field
func NewConfigFieldError(code, field, message string) *ComposeError {
	return NewConfigurationError(code, message, "Compose file validation").
		WithContext("field", field).
		WithTroubleshooting(
			"Check the compose file against the documented format",
			"Run 'taskcompose validate -f <file>' after editing",
		)
}

// NewTaskFailedError creates an error for a task that exited unsuccessfully
func NewTaskFailedError(taskName string, level int, originalErr error) *ComposeError {
	return NewExecutionError(CodeExecutionFailed,
		fmt.Sprintf("task %s failed", taskName),
		"Task execution").
		WithContext("task", taskName).
		WithContext("level", level).
		WithOriginalError(originalErr)
}

// NewEarlyAbortError creates the error returned when a hard-mode run stops
func NewEarlyAbortError(level int, originalErr error) *ComposeError {
	return NewExecutionError(CodeExecutionAborted,
		fmt.Sprintf("run aborted after failures in level %d", level),
		"Schedule execution").
		WithContext("level", level).
		WithOriginalError(originalErr).
		WithTroubleshooting(
			"Inspect the failed task output above",
			"Use --mode soft to keep running independent levels after a failure",
		)
}
