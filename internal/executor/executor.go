// Package executor runs a schedule level by level. Tasks within a level run
// concurrently up to a limit; a level starts only once the previous level
// has finished.
package executor

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/logger"
	"github.com/maxkimambo/taskcompose/internal/progress"
	"github.com/maxkimambo/taskcompose/internal/scheduler"
	"github.com/maxkimambo/taskcompose/internal/task"
)

// Mode controls what happens after a task fails
type Mode string

const (
	// ModeSoft logs the failure and keeps running every remaining level
	ModeSoft Mode = "soft"
	// ModeHard starts nothing new after a failure and returns ErrEarlyAbort
	ModeHard Mode = "hard"
)

// ParseMode validates a mode name
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeSoft:
		return ModeSoft, nil
	case ModeHard:
		return ModeHard, nil
	default:
		return "", composeerrors.NewInvalidArgumentError(composeerrors.CodeInvalidOption,
			fmt.Sprintf("unknown run mode %q", s), "Parse run mode").
			WithTroubleshooting("Use --mode soft or --mode hard")
	}
}

// Config contains configuration for the executor
type Config struct {
	// MaxParallelTasks is the maximum number of tasks of one level running at once
	MaxParallelTasks int

	// TaskTimeout bounds each task; zero means no limit
	TaskTimeout time.Duration

	// Mode is the failure handling mode
	Mode Mode

	// ProgressInterval is how often progress is logged; zero disables it
	ProgressInterval time.Duration
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		MaxParallelTasks: 10,
		TaskTimeout:      15 * time.Minute,
		Mode:             ModeSoft,
		ProgressInterval: 30 * time.Second,
	}
}

// Status is the state of a task within a run
type Status string

const (
	StatusPending Status = "PENDING"
	StatusRunning Status = "RUNNING"
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
	StatusSkipped Status = "SKIPPED"
)

// TaskResult contains the result of a single task
type TaskResult struct {
	Task      task.Task
	Name      string
	Level     int
	Status    Status
	Error     error
	StartTime *time.Time
	EndTime   *time.Time
	Duration  time.Duration
}

// ExecutionResult contains the results of a run
type ExecutionResult struct {
	// RunID identifies the run in logs
	RunID string

	// Success is true when every task succeeded
	Success bool

	TaskResults map[task.Task]*TaskResult

	// LevelsRun counts the levels that were started
	LevelsRun int

	ExecutionTime time.Duration

	// Error is the first task failure, if any
	Error error
}

// Counts returns how many tasks succeeded, failed and were skipped
func (r *ExecutionResult) Counts() (succeeded, failed, skipped int) {
	for _, tr := range r.TaskResults {
		switch tr.Status {
		case StatusSuccess:
			succeeded++
		case StatusFailed:
			failed++
		case StatusSkipped, StatusPending:
			skipped++
		}
	}
	return succeeded, failed, skipped
}

// Ordered returns the task results sorted by level, then task
func (r *ExecutionResult) Ordered() []*TaskResult {
	results := make([]*TaskResult, 0, len(r.TaskResults))
	for _, tr := range r.TaskResults {
		results = append(results, tr)
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Level != results[j].Level {
			return results[i].Level < results[j].Level
		}
		return results[i].Task.Less(results[j].Task)
	})
	return results
}

// Executor runs schedules with a Runner
type Executor struct {
	config *Config
	runner Runner
	names  map[task.Task]string

	reporter *progress.Reporter

	mutex        sync.RWMutex
	results      map[task.Task]*TaskResult
	startTime    time.Time
	currentLevel int
	totalLevels  int
}

// NewExecutor creates a new executor. A nil config uses DefaultConfig.
func NewExecutor(runner Runner, config *Config) *Executor {
	if config == nil {
		config = DefaultConfig()
	}
	if config.MaxParallelTasks <= 0 {
		config.MaxParallelTasks = 1
	}
	if config.Mode == "" {
		config.Mode = ModeSoft
	}

	return &Executor{
		config:   config,
		runner:   runner,
		names:    map[task.Task]string{},
		reporter: progress.NewReporter(config.ProgressInterval),
		results:  map[task.Task]*TaskResult{},
	}
}

// WithNames sets the display names used in logs and results
func (e *Executor) WithNames(names map[task.Task]string) *Executor {
	if names != nil {
		e.names = names
	}
	return e
}

func (e *Executor) name(t task.Task) string {
	if n, ok := e.names[t]; ok && n != "" {
		return n
	}
	return t.Location()
}

// Execute runs every level of schedule in ascending order. In hard mode the
// first failure stops new tasks from starting and Execute returns an error
// matching ErrEarlyAbort. Cancelling ctx stops new tasks and kills running
// ones. The result is always returned, also alongside an error.
func (e *Executor) Execute(ctx context.Context, schedule scheduler.Schedule) (*ExecutionResult, error) {
	runID := uuid.NewString()
	levels := schedule.Levels()

	e.mutex.Lock()
	e.startTime = time.Now()
	e.totalLevels = len(levels)
	e.currentLevel = 0
	e.results = make(map[task.Task]*TaskResult, schedule.TaskCount())
	for _, level := range levels {
		for _, t := range schedule[level] {
			e.results[t] = &TaskResult{Task: t, Name: e.name(t), Level: level, Status: StatusPending}
		}
	}
	e.mutex.Unlock()

	logger.Op.With(
		logger.WithRunID(runID),
		logger.Field{Key: "levels", Value: len(levels)},
		logger.Field{Key: "tasks", Value: schedule.TaskCount()},
		logger.Field{Key: "mode", Value: string(e.config.Mode)},
	).Debug("Starting run")
	logger.User.Startingf("Running %d tasks in %d levels (max %d parallel, %s mode)",
		schedule.TaskCount(), len(levels), e.config.MaxParallelTasks, e.config.Mode)

	done := make(chan struct{})
	go e.logProgress(done)

	var runErr error
	levelsRun := 0

	for _, level := range levels {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run %s cancelled before level %d: %w", runID, level, err)
			break
		}

		e.mutex.Lock()
		e.currentLevel = level
		e.mutex.Unlock()
		levelsRun++

		logger.User.Levelf("%s", e.reporter.ReportLevelStart(level, len(levels), len(schedule[level])))
		levelStart := time.Now()

		failed, firstErr := e.runLevel(ctx, runID, level, schedule[level])

		logger.Op.With(
			logger.WithRunID(runID),
			logger.WithLevel(level),
			logger.Field{Key: "failed", Value: failed},
		).Debug(e.reporter.ReportLevelComplete(level, time.Since(levelStart), failed))

		if failed > 0 && e.config.Mode == ModeHard {
			runErr = composeerrors.NewEarlyAbortError(level, firstErr).WithContext("run_id", runID)
			break
		}
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("run %s cancelled during level %d: %w", runID, level, err)
			break
		}
	}

	close(done)
	e.skipPending()

	result := e.buildResult(runID, levelsRun)
	e.logSummary(result)

	return result, runErr
}

// runLevel runs the tasks of one level and returns the number of failures
// and the first failure's error.
func (e *Executor) runLevel(ctx context.Context, runID string, level int, tasks []task.Task) (int, error) {
	var (
		g        errgroup.Group
		aborted  atomic.Bool
		failures atomic.Int32
		firstErr error
		errOnce  sync.Once
	)
	g.SetLimit(e.config.MaxParallelTasks)

	for _, t := range tasks {
		g.Go(func() error {
			if aborted.Load() || ctx.Err() != nil {
				return nil
			}

			if err := e.runTask(ctx, runID, level, t); err != nil {
				failures.Add(1)
				errOnce.Do(func() { firstErr = err })
				if e.config.Mode == ModeHard {
					aborted.Store(true)
				}
			}
			return nil
		})
	}
	_ = g.Wait()

	return int(failures.Load()), firstErr
}

func (e *Executor) runTask(ctx context.Context, runID string, level int, t task.Task) error {
	name := e.name(t)
	e.setStarted(t)
	logger.Op.With(
		logger.WithRunID(runID),
		logger.WithTask(name),
		logger.WithLevel(level),
		logger.Field{Key: "environment", Value: t.Environment()},
	).Debug("Task started")
	logger.User.Infof("Starting task: %s", name)

	start := time.Now()
	err := e.runWithTimeout(ctx, t)
	line := e.reporter.ReportTaskComplete(name, time.Since(start), err == nil)
	if err != nil {
		err = composeerrors.NewTaskFailedError(name, level, err).
			WithContext("run_id", runID)
		logger.User.Errorf("%s: %v", line, err)
		logger.Op.With(
			logger.WithRunID(runID),
			logger.WithTask(name),
			logger.Field{Key: "code", Value: composeerrors.GetErrorCode(err)},
		).Warn("Task failed")
	} else {
		logger.User.Successf("%s", line)
	}

	e.setCompleted(t, err)
	return err
}

// runWithTimeout runs t under the per-task timeout
func (e *Executor) runWithTimeout(ctx context.Context, t task.Task) error {
	if e.config.TaskTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.config.TaskTimeout)
		defer cancel()
	}
	return e.runner.Run(ctx, t)
}

func (e *Executor) setStarted(t task.Task) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if result, ok := e.results[t]; ok {
		now := time.Now()
		result.StartTime = &now
		result.Status = StatusRunning
	}
}

func (e *Executor) setCompleted(t task.Task, err error) {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	if result, ok := e.results[t]; ok {
		now := time.Now()
		result.EndTime = &now
		result.Error = err
		result.Status = StatusSuccess
		if err != nil {
			result.Status = StatusFailed
		}
		if result.StartTime != nil {
			result.Duration = now.Sub(*result.StartTime)
		}
	}
}

// skipPending marks every task that never started as skipped
func (e *Executor) skipPending() {
	e.mutex.Lock()
	defer e.mutex.Unlock()

	for _, result := range e.results {
		if result.Status == StatusPending {
			result.Status = StatusSkipped
		}
	}
}

// GetProgress returns a snapshot of the current run
func (e *Executor) GetProgress() progress.Info {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	info := progress.Info{
		CurrentLevel: e.currentLevel,
		TotalLevels:  e.totalLevels,
		TotalTasks:   len(e.results),
		ElapsedTime:  time.Since(e.startTime),
	}
	for _, result := range e.results {
		switch result.Status {
		case StatusSuccess:
			info.CompletedTasks++
		case StatusFailed:
			info.FailedTasks++
		case StatusSkipped:
			info.SkippedTasks++
		case StatusRunning:
			info.RunningTasks = append(info.RunningTasks, result.Name)
		}
	}
	sort.Strings(info.RunningTasks)
	info.EstimatedTimeLeft = progress.CalculateETA(info.Done(), info.TotalTasks, info.ElapsedTime)
	return info
}

func (e *Executor) logProgress(done <-chan struct{}) {
	if e.config.ProgressInterval <= 0 {
		return
	}

	ticker := time.NewTicker(e.reporter.Interval())
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			logger.User.Info(e.reporter.Report(e.GetProgress()))
		}
	}
}

func (e *Executor) buildResult(runID string, levelsRun int) *ExecutionResult {
	e.mutex.RLock()
	defer e.mutex.RUnlock()

	result := &ExecutionResult{
		RunID:         runID,
		TaskResults:   make(map[task.Task]*TaskResult, len(e.results)),
		LevelsRun:     levelsRun,
		ExecutionTime: time.Since(e.startTime),
		Success:       true,
	}

	for t, tr := range e.results {
		resultCopy := *tr
		result.TaskResults[t] = &resultCopy
		if tr.Status != StatusSuccess {
			result.Success = false
		}
	}

	for _, tr := range result.Ordered() {
		if tr.Error != nil {
			result.Error = tr.Error
			break
		}
	}

	return result
}

func (e *Executor) logSummary(result *ExecutionResult) {
	succeeded, failed, skipped := result.Counts()
	elapsed := progress.FormatDuration(result.ExecutionTime)

	switch {
	case failed == 0 && skipped == 0:
		logger.User.Successf("Run completed: %d/%d tasks successful in %s", succeeded, len(result.TaskResults), elapsed)
	case failed == 0:
		logger.User.Skippedf("Run stopped: %d successful, %d skipped in %s", succeeded, skipped, elapsed)
	default:
		logger.User.Errorf("Run completed: %d successful, %d failed, %d skipped in %s", succeeded, failed, skipped, elapsed)
	}
}
