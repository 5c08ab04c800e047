package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComposeError_IsMatchesCategorySentinel(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
	}{
		{"invalid argument", NewEmptyLocationError(), ErrInvalidArgument},
		{"cycle", NewCycleError("a", "b"), ErrCyclicGraph},
		{"not found", NewTaskNotFoundError("Task(/x)", "Remove task"), ErrNotFound},
		{"configuration", NewConfigFieldError(CodeConfigParse, "tasks", "bad"), ErrConfiguration},
		{"early abort", NewEarlyAbortError(2, nil), ErrEarlyAbort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, stderrors.Is(tt.err, tt.sentinel))

			wrapped := fmt.Errorf("outer: %w", tt.err)
			assert.True(t, stderrors.Is(wrapped, tt.sentinel))
		})
	}
}

func TestComposeError_IsRejectsOtherSentinels(t *testing.T) {
	err := NewCycleError("a", "b")
	assert.False(t, stderrors.Is(err, ErrNotFound))
	assert.False(t, stderrors.Is(err, ErrInvalidArgument))

	failed := NewTaskFailedError("Task(/x)", 1, stderrors.New("exit status 1"))
	assert.False(t, stderrors.Is(failed, ErrEarlyAbort))
}

func TestComposeError_UnwrapReachesOriginal(t *testing.T) {
	original := stderrors.New("exit status 2")
	err := NewTaskFailedError("Task(/x)", 3, original)

	assert.True(t, stderrors.Is(err, original))
	assert.Contains(t, err.Error(), "exit status 2")
}

func TestCycleErrorNamesEdge(t *testing.T) {
	err := NewCycleError("Task(/c.sh)", "Task(/a.sh)")
	assert.Contains(t, err.Error(), "Task(/c.sh) -> Task(/a.sh)")
	assert.Equal(t, "CYCLIC_GRAPH-001", GetErrorCode(err))
}

func TestFormatForCLI(t *testing.T) {
	err := NewCycleError("up", "down")
	out := FormatForCLI(err)

	assert.Contains(t, out, "Error [CYCLIC_GRAPH-001]")
	assert.Contains(t, out, "Failed Operation: Add dependency")
	assert.Contains(t, out, "downstream: down")
	assert.Contains(t, out, "How to resolve:")

	plain := FormatForCLI(stderrors.New("boom"))
	assert.Equal(t, "\nError: boom\n", plain)
}

func TestDetailsSortsContext(t *testing.T) {
	err := NewComposeError(ErrorCategoryConfiguration, "009", "msg", "op").
		WithContext("b", 2).
		WithContext("a", 1)

	details := err.Details()
	require.Contains(t, details, "Context:")
	assert.Less(t, strings.Index(details, "a: 1"), strings.Index(details, "b: 2"))
}

func TestDisplayErrorSummary(t *testing.T) {
	assert.Equal(t, "NOT_FOUND-001: x is not in the graph",
		DisplayErrorSummary(NewTaskNotFoundError("x", "Remove task")))

	long := stderrors.New(string(make([]byte, 150)))
	assert.Len(t, DisplayErrorSummary(long), 100)
}

func TestIsUserError(t *testing.T) {
	assert.True(t, IsUserError(NewEmptyLocationError()))
	assert.True(t, IsUserError(NewCycleError("a", "b")))
	assert.False(t, IsUserError(NewTaskFailedError("x", 1, nil)))
	assert.False(t, IsUserError(stderrors.New("plain")))
}

func TestTroubleshootingShownOnlyWhenPresent(t *testing.T) {
	withSteps := NewEmptyLocationError()
	bare := NewExecutionError(CodeExecutionFailed, "2 of 4 tasks failed", "Run tasks")

	assert.True(t, ShouldDisplayTroubleshooting(withSteps))
	assert.False(t, ShouldDisplayTroubleshooting(bare))
	assert.False(t, ShouldDisplayTroubleshooting(stderrors.New("plain")))

	assert.Contains(t, FormatForCLI(withSteps), "How to resolve:")
	assert.NotContains(t, FormatForCLI(bare), "How to resolve:")
}

func TestTaskErrorsNameTaskConstruction(t *testing.T) {
	assert.Equal(t, "Task construction", NewEmptyLocationError().Operation)
	assert.Equal(t, "Task construction", NewEmptyEnvironmentError("/jobs/a.sh").Operation)
	assert.Equal(t, "Scheduler construction", NewNilGraphError().Operation)
}
