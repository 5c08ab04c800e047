package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	composeerrors "github.com/maxkimambo/taskcompose/internal/errors"
	"github.com/maxkimambo/taskcompose/internal/executor"
	"github.com/maxkimambo/taskcompose/internal/logger"
	"github.com/maxkimambo/taskcompose/internal/progress"
	"github.com/maxkimambo/taskcompose/internal/utils"
)

var (
	runFile        string
	runConcurrency int
	runTimeout     time.Duration
	runModeName    string
	runDryRun      bool
	runAutoApprove bool
	runProgress    time.Duration

	runMode executor.Mode
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the tasks of a compose file level by level",
	Long: `Run the tasks of a compose file level by level.

Each task runs as "<environment> <task file>" in the directory of the task
file. Tasks of one level run in parallel; the next level starts once the
whole level has finished.

FAILURE MODES:
• soft: log failed tasks and keep running the remaining levels
• hard: start nothing new after the first failure and exit with an error

EXAMPLES:
# Show what would run
taskcompose run -f compose.yaml --dry-run

# Stop at the first failure, 4 tasks at a time
taskcompose run -f compose.yaml --mode hard --concurrency 4 --yes`,
	PreRunE: validateRunFlags,
	RunE:    runCompose,
}

func init() {
	defaults := executor.DefaultConfig()

	addFileFlag(runCmd, &runFile)
	runCmd.Flags().IntVar(&runConcurrency, "concurrency", defaults.MaxParallelTasks, "Maximum tasks of one level running at once (1-100)")
	runCmd.Flags().DurationVar(&runTimeout, "timeout", defaults.TaskTimeout, "Timeout for each task, 0 for none")
	runCmd.Flags().StringVar(&runModeName, "mode", string(defaults.Mode), "Failure mode: soft or hard")
	runCmd.Flags().BoolVar(&runDryRun, "dry-run", false, "Print the tasks instead of running them")
	runCmd.Flags().BoolVarP(&runAutoApprove, "yes", "y", false, "Skip the confirmation prompt")
	runCmd.Flags().DurationVar(&runProgress, "progress-interval", defaults.ProgressInterval, "How often to log progress, 0 to disable")
}

func validateRunFlags(cmd *cobra.Command, args []string) error {
	if runConcurrency < 1 || runConcurrency > 100 {
		return composeerrors.NewInvalidArgumentError(
			composeerrors.CodeInvalidOption,
			fmt.Sprintf("--concurrency must be between 1 and 100, got %d", runConcurrency),
			"Parameter validation").
			WithContext("parameter", "--concurrency")
	}
	if runTimeout < 0 {
		return composeerrors.NewInvalidArgumentError(
			composeerrors.CodeInvalidOption,
			fmt.Sprintf("--timeout must not be negative, got %s", runTimeout),
			"Parameter validation").
			WithContext("parameter", "--timeout")
	}

	mode, err := executor.ParseMode(runModeName)
	if err != nil {
		return err
	}
	runMode = mode
	return nil
}

func runCompose(cmd *cobra.Command, args []string) error {
	p, err := loadProject(runFile)
	if err != nil {
		return err
	}

	schedule := p.scheduler.Schedule()
	if schedule.TaskCount() == 0 {
		logger.User.Warn("Nothing to run")
		return nil
	}

	ok, err := utils.Confirm(cmd.InOrStdin(), cmd.OutOrStdout(), runAutoApprove || runDryRun,
		fmt.Sprintf("run %d tasks in %d levels", schedule.TaskCount(), schedule.Len()),
		p.levelSummaries(schedule))
	if err != nil {
		return err
	}
	if !ok {
		logger.User.Warn("Run cancelled")
		return nil
	}

	var runner executor.Runner = executor.NewCommandRunner()
	if runDryRun {
		runner = executor.DryRunRunner{}
	}

	taskExecutor := executor.NewExecutor(runner, &executor.Config{
		MaxParallelTasks: runConcurrency,
		TaskTimeout:      runTimeout,
		Mode:             runMode,
		ProgressInterval: runProgress,
	}).WithNames(p.names)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	result, runErr := taskExecutor.Execute(ctx, schedule)
	if result != nil && !quiet {
		fmt.Fprint(cmd.OutOrStdout(), resultTable(result).String())
	}
	if runErr != nil {
		return runErr
	}

	if _, failed, _ := result.Counts(); failed > 0 {
		return composeerrors.NewExecutionError(composeerrors.CodeExecutionFailed,
			fmt.Sprintf("%d of %d tasks failed", failed, len(result.TaskResults)), "Run tasks").
			WithContext("run_id", result.RunID).
			WithOriginalError(result.Error)
	}
	return nil
}

func resultTable(result *executor.ExecutionResult) *utils.TableFormatter {
	table := utils.NewTableFormatter([]string{"Level", "Task", "Status", "Duration", "Error"})
	for _, tr := range result.Ordered() {
		errText := "-"
		if tr.Error != nil {
			errText = composeerrors.DisplayErrorSummary(tr.Error)
			if ce := composeerrors.AsComposeError(tr.Error); ce != nil && ce.OriginalError != nil {
				errText = ce.OriginalError.Error()
			}
		}
		duration := "-"
		if tr.StartTime != nil {
			duration = progress.FormatDuration(tr.Duration)
		}
		table.AddRow([]string{strconv.Itoa(tr.Level), tr.Name, string(tr.Status), duration, errText})
	}
	return table
}
