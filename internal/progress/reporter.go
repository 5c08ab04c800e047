// Package progress formats progress reports for a schedule run.
package progress

import (
	"fmt"
	"strings"
	"time"
)

// Info is a point-in-time view of a run
type Info struct {
	CurrentLevel      int
	TotalLevels       int
	TotalTasks        int
	CompletedTasks    int
	FailedTasks       int
	SkippedTasks      int
	RunningTasks      []string
	ElapsedTime       time.Duration
	EstimatedTimeLeft time.Duration
}

// Done returns the number of tasks that reached a final state
func (i Info) Done() int {
	return i.CompletedTasks + i.FailedTasks + i.SkippedTasks
}

// Reporter formats progress lines for a run
type Reporter struct {
	reportInterval time.Duration
}

// NewReporter creates a reporter for progress logged every interval
func NewReporter(interval time.Duration) *Reporter {
	return &Reporter{reportInterval: interval}
}

// Interval returns the reporting interval
func (r *Reporter) Interval() time.Duration {
	return r.reportInterval
}

// Report generates a formatted progress report
func (r *Reporter) Report(info Info) string {
	var sb strings.Builder

	percentage := 0.0
	if info.TotalTasks > 0 {
		percentage = float64(info.Done()) / float64(info.TotalTasks) * 100
	}

	sb.WriteString(fmt.Sprintf("Progress: %d/%d tasks done (%.1f%%)",
		info.Done(), info.TotalTasks, percentage))

	if info.TotalLevels > 0 {
		sb.WriteString(fmt.Sprintf(" | Level: %d/%d", info.CurrentLevel, info.TotalLevels))
	}

	sb.WriteString(fmt.Sprintf(" | Elapsed: %s", FormatDuration(info.ElapsedTime)))
	if info.EstimatedTimeLeft > 0 {
		sb.WriteString(fmt.Sprintf(" | ETA: %s", FormatDuration(info.EstimatedTimeLeft)))
	}

	if info.FailedTasks > 0 || info.SkippedTasks > 0 {
		sb.WriteString(fmt.Sprintf("\n   Failed: %d, Skipped: %d", info.FailedTasks, info.SkippedTasks))
	}

	if len(info.RunningTasks) > 0 {
		sb.WriteString(fmt.Sprintf("\n   Running: %s", strings.Join(info.RunningTasks, ", ")))
	}

	return sb.String()
}

// ReportLevelStart reports the beginning of a level
func (r *Reporter) ReportLevelStart(level, totalLevels, tasks int) string {
	return fmt.Sprintf("Level %d/%d: starting %d task(s)", level, totalLevels, tasks)
}

// ReportLevelComplete reports completion of a level
func (r *Reporter) ReportLevelComplete(level int, duration time.Duration, failed int) string {
	status := "COMPLETED"
	if failed > 0 {
		status = fmt.Sprintf("FAILED (%d task(s))", failed)
	}
	return fmt.Sprintf("Level %d %s in %s", level, status, FormatDuration(duration))
}

// ReportTaskComplete reports task completion
func (r *Reporter) ReportTaskComplete(name string, duration time.Duration, success bool) string {
	status := "COMPLETED"
	if !success {
		status = "FAILED"
	}
	return fmt.Sprintf("%s %s (took %s)", status, name, FormatDuration(duration))
}

// CalculateETA estimates time remaining based on current progress
func CalculateETA(done, total int, elapsed time.Duration) time.Duration {
	if done <= 0 || total <= 0 || done >= total {
		return 0
	}

	averageTimePerTask := elapsed / time.Duration(done)
	return averageTimePerTask * time.Duration(total-done)
}

// FormatDuration formats a duration in a user-friendly way
func FormatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%ds", int(d.Seconds()))
	} else if d < time.Hour {
		return fmt.Sprintf("%dm %ds", int(d.Minutes()), int(d.Seconds())%60)
	}
	return fmt.Sprintf("%dh %dm", int(d.Hours()), int(d.Minutes())%60)
}
